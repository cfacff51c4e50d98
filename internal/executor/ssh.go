package executor

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// SSHExecutor runs commands on worker nodes over SSH, using the password
// credentials stored in the node descriptor. A connection is dialed per
// command; host keys are not verified, as nodes are registered explicitly by
// the operator.
type SSHExecutor struct {
	DialTimeout time.Duration
}

func NewSSHExecutor(dialTimeout time.Duration) *SSHExecutor {
	return &SSHExecutor{DialTimeout: dialTimeout}
}

func (e *SSHExecutor) RunCommand(ctx context.Context, n *node.Node, command string) (string, error) {
	config := &ssh.ClientConfig{
		User: n.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(n.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         e.DialTimeout,
	}

	addr := net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return "", fmt.Errorf("ssh connection to %s failed: %w", n, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("ssh session on %s failed: %w", n, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		// best effort: tear the connection down so the remote side notices
		client.Close()
		<-done
		return "", ctx.Err()
	}

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("command failed on %s: %w (stderr: %s)", n, err, msg)
		}
		return "", fmt.Errorf("command failed on %s: %w", n, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
