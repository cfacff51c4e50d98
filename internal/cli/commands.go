package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/client"
)

func gatewayURL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", Host, Port, path)
}

func postJSON(path string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Could not encode request: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.Post(gatewayURL(path), "application/json", bytes.NewBuffer(body))
	if err != nil {
		fmt.Printf("Request to gateway failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func getJSON(path string) {
	resp, err := http.Get(gatewayURL(path))
	if err != nil {
		fmt.Printf("Request to gateway failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)
	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(body))
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Gateway returned status %d\n", resp.StatusCode)
		os.Exit(1)
	}
}

func registerFunction(cmd *cobra.Command, args []string) {
	if funcName == "" || image == "" {
		fmt.Println("function name and image are required")
		os.Exit(1)
	}
	postJSON("/functions/register", client.RegisterFunctionRequest{
		Name:    funcName,
		Image:   image,
		Command: command,
		Warming: warmingType,
	})
}

func registerNode(cmd *cobra.Command, args []string) {
	if nodeName == "" || host == "" {
		fmt.Println("node name and host are required")
		os.Exit(1)
	}
	postJSON("/nodes/register", client.RegisterNodeRequest{
		Name:     nodeName,
		Host:     host,
		Port:     sshPort,
		Username: username,
		Password: password,
	})
}

func invoke(cmd *cobra.Command, args []string) {
	if funcName == "" {
		fmt.Println("function name is required")
		os.Exit(1)
	}
	postJSON("/functions/invoke/"+funcName, struct{}{})
}

func prewarm(cmd *cobra.Command, args []string) {
	if funcName == "" || nodeName == "" {
		fmt.Println("function and node names are required")
		os.Exit(1)
	}
	postJSON("/prewarm", client.WarmingRequest{Function: funcName, Node: nodeName})
}

func warmup(cmd *cobra.Command, args []string) {
	if funcName == "" || nodeName == "" {
		fmt.Println("function and node names are required")
		os.Exit(1)
	}
	postJSON("/warmup", client.WarmingRequest{Function: funcName, Node: nodeName})
}

func listFunctions(cmd *cobra.Command, args []string) {
	getJSON("/functions")
}

func listNodes(cmd *cobra.Command, args []string) {
	getJSON("/nodes")
}

func invocations(cmd *cobra.Command, args []string) {
	getJSON("/invocations")
}

func status(cmd *cobra.Command, args []string) {
	getJSON("/status")
}
