package main

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/api"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/config"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/container"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/executor"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/function"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/scheduling"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/warming"
)

func main() {
	configFileName := ""
	if len(os.Args) > 1 {
		configFileName = os.Args[1]
	}
	config.ReadConfiguration(configFileName)

	functions := function.NewRegistry()
	nodes := node.NewRegistry()
	states := node.NewWarmStateStore()

	sshTimeout := time.Duration(config.GetInt(config.SSH_TIMEOUT, 10)) * time.Second
	exec := executor.NewSSHExecutor(sshTimeout)

	metricsCommand := config.GetString(config.METRICS_COMMAND, "/usr/local/bin/get_node_metrics.sh")
	probe := metrics.NewProbe(exec, metricsCommand)

	prefix := config.GetString(config.CONTAINER_PREFIX, container.DefaultPrefix)
	orchestrator := warming.NewOrchestrator(exec, functions, nodes, states, prefix)

	policy := scheduling.CreatePolicy(probe)
	chain := scheduling.NewChain(states, nodes, policy)
	gate := scheduling.NewAdmissionGate(int64(config.GetInt(config.SCHEDULING_CONCURRENCY, 5)))
	invocations := metrics.NewInvocationLog()
	scheduler := scheduling.NewScheduler(functions, nodes, states, chain, gate, exec, probe, invocations, prefix)

	go metrics.Init()

	e := echo.New()
	api.RegisterTerminationHandler(e)

	api.StartAPIServer(e, &api.API{
		Functions:    functions,
		Nodes:        nodes,
		Scheduler:    scheduler,
		Orchestrator: orchestrator,
		Policy:       policy,
		Invocations:  invocations,
	})
}
