package config

// Port exposed by the gateway HTTP API
const API_PORT = "api.port"

// Default node selection policy used for cold scheduling
// (one of "roundrobin", "leastused", "mostused")
const SCHEDULING_POLICY = "scheduling.policy"

// Max number of invocations concurrently admitted into the
// select-execute-record workflow
const SCHEDULING_CONCURRENCY = "scheduling.concurrency"

// Nodes whose RAM usage (in percent) is at or above this threshold are not
// eligible for selection
const SCHEDULING_RAM_THRESHOLD = "scheduling.ram.threshold"

// Whether the round robin policy probes candidate nodes and applies the RAM
// threshold filter (true/false)
const SCHEDULING_ROUNDROBIN_PROBE = "scheduling.roundrobin.probe"

// Prefix for the containers managed by the gateway on worker nodes
const CONTAINER_PREFIX = "container.prefix"

// SSH dial timeout (seconds) for remote command execution
const SSH_TIMEOUT = "executor.ssh.timeout"

// Command executed on a node to collect its load metrics; must print a JSON
// object with "cpu_usage" and "ram_usage" fields
const METRICS_COMMAND = "metrics.command"

// Whether the Prometheus metrics endpoint is exposed (true/false)
const METRICS_ENABLED = "metrics.enabled"

// Port for the Prometheus metrics endpoint
const METRICS_PORT = "metrics.port"
