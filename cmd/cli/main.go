package main

import (
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/cli"
)

func main() {
	cli.Init()
}
