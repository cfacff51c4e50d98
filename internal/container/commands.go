// Package container builds the docker command lines the gateway runs on
// worker nodes. Containers are never driven through a local runtime API:
// every operation is a shell command handed to the remote executor.
package container

import (
	"fmt"

	"github.com/lithammer/shortuuid"
)

const DefaultPrefix = "faas-scheduler--"

// StandingName is the deterministic name of the standing (warmed) container
// for a function on a node.
func StandingName(prefix, function, nodeName string) string {
	return fmt.Sprintf("%s%s--%s", prefix, function, nodeName)
}

// ColdRunName returns a process-unique container name for a disposable run,
// so concurrent invocations of the same function never collide.
func ColdRunName(prefix, function string) string {
	return fmt.Sprintf("%s%s--%s", prefix, function, shortuuid.New())
}

// PullCommand fetches an image on the node.
func PullCommand(image string) string {
	return fmt.Sprintf("docker pull %s", image)
}

// RemoveCommand force-removes a container. "No such container" errors from
// this command are expected and swallowed by callers.
func RemoveCommand(name string) string {
	return fmt.Sprintf("docker rm -f %s", name)
}

// StartDetachedCommand starts a standing container running a long-lived
// placeholder process, ready for later exec.
func StartDetachedCommand(name, image string) string {
	return fmt.Sprintf("docker run -d --name %s %s sleep infinity", name, image)
}

// RunCommand runs the function command in a fresh, auto-removed container.
func RunCommand(name, image, command string) string {
	return fmt.Sprintf("docker run --rm --name %s %s %s", name, image, command)
}

// ExecCommand runs the function command inside an existing standing
// container.
func ExecCommand(name, command string) string {
	return fmt.Sprintf("docker exec %s %s", name, command)
}
