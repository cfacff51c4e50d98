package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Host string
var Port int

var rootCmd = &cobra.Command{
	Use:   "faas-cli",
	Short: "CLI utility for the FaaS scheduler gateway",
	Long:  `CLI utility to register functions and nodes, invoke functions and inspect invocation records on a FaaS scheduler gateway.`,
}

var funcName, image, command, warmingType string
var nodeName, host, username, password string
var sshPort int

var registerFunctionCmd = &cobra.Command{
	Use:   "register-function",
	Short: "Registers a function",
	Run:   registerFunction,
}

var registerNodeCmd = &cobra.Command{
	Use:   "register-node",
	Short: "Registers a worker node",
	Run:   registerNode,
}

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Invokes a function",
	Run:   invoke,
}

var prewarmCmd = &cobra.Command{
	Use:   "prewarm",
	Short: "Pulls a function image on a node",
	Run:   prewarm,
}

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Starts a standing container for a function on a node",
	Run:   warmup,
}

var listFunctionsCmd = &cobra.Command{
	Use:   "list-functions",
	Short: "Lists registered functions",
	Run:   listFunctions,
}

var listNodesCmd = &cobra.Command{
	Use:   "list-nodes",
	Short: "Lists registered nodes",
	Run:   listNodes,
}

var invocationsCmd = &cobra.Command{
	Use:   "invocations",
	Short: "Prints the invocation records",
	Run:   invocations,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the gateway status",
	Run:   status,
}

func Init() {
	rootCmd.PersistentFlags().StringVarP(&Host, "host", "H", "127.0.0.1", "gateway host")
	rootCmd.PersistentFlags().IntVarP(&Port, "port", "P", 8080, "gateway port")

	rootCmd.AddCommand(registerFunctionCmd)
	registerFunctionCmd.Flags().StringVarP(&funcName, "function", "f", "", "name of the function")
	registerFunctionCmd.Flags().StringVarP(&image, "image", "i", "", "container image of the function")
	registerFunctionCmd.Flags().StringVarP(&command, "command", "c", "", "command passed to the container at run time")
	registerFunctionCmd.Flags().StringVarP(&warmingType, "warming", "w", "", "static warming applied after registration: pre-warmed or warmed (optional)")

	rootCmd.AddCommand(registerNodeCmd)
	registerNodeCmd.Flags().StringVarP(&nodeName, "node", "n", "", "name of the node")
	registerNodeCmd.Flags().StringVarP(&host, "node-host", "a", "", "SSH host of the node")
	registerNodeCmd.Flags().IntVarP(&sshPort, "node-port", "p", 22, "SSH port of the node")
	registerNodeCmd.Flags().StringVarP(&username, "user", "u", "", "SSH username")
	registerNodeCmd.Flags().StringVarP(&password, "password", "s", "", "SSH password")

	rootCmd.AddCommand(invokeCmd)
	invokeCmd.Flags().StringVarP(&funcName, "function", "f", "", "name of the function")

	rootCmd.AddCommand(prewarmCmd)
	prewarmCmd.Flags().StringVarP(&funcName, "function", "f", "", "name of the function")
	prewarmCmd.Flags().StringVarP(&nodeName, "node", "n", "", "name of the node")

	rootCmd.AddCommand(warmupCmd)
	warmupCmd.Flags().StringVarP(&funcName, "function", "f", "", "name of the function")
	warmupCmd.Flags().StringVarP(&nodeName, "node", "n", "", "name of the node")

	rootCmd.AddCommand(listFunctionsCmd)
	rootCmd.AddCommand(listNodesCmd)
	rootCmd.AddCommand(invocationsCmd)
	rootCmd.AddCommand(statusCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
