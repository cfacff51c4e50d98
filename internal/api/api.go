package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/client"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/config"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/function"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/scheduling"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/warming"
)

// API exposes the gateway operations over HTTP. It owns no state of its own:
// every handler delegates to the scheduling and warming subsystems.
type API struct {
	Functions    *function.Registry
	Nodes        *node.Registry
	Scheduler    *scheduling.Scheduler
	Orchestrator *warming.Orchestrator
	Policy       scheduling.Policy
	Invocations  *metrics.InvocationLog
}

// RegisterFunction handles a function registration request. When the request
// carries a warming hint, the corresponding warming operation is fired in the
// background on a policy-selected node.
func (a *API) RegisterFunction(c echo.Context) error {
	var req client.RegisterFunctionRequest
	err := json.NewDecoder(c.Request().Body).Decode(&req)
	if err != nil && err != io.EOF {
		log.Printf("Could not parse request: %v", err)
		return c.JSON(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Image == "" {
		return c.JSON(http.StatusBadRequest, "function name and image are required")
	}

	f := &function.Function{Name: req.Name, Image: req.Image, Command: req.Command}
	if err := a.Functions.Add(f); err != nil {
		log.Printf("Dropping request for already existing function '%s'", req.Name)
		return c.JSON(http.StatusConflict, "function already registered")
	}
	log.Printf("Registered function '%s' with image '%s'", f.Name, f.Image)

	if req.Warming != "" {
		go a.applyStaticWarming(req.Warming, f.Name)
	}

	response := struct {
		Created string `json:"created"`
	}{f.Name}
	return c.JSON(http.StatusOK, response)
}

// applyStaticWarming picks a node with the configured policy and performs the
// requested warming transition. Failures are logged, not surfaced: the
// function stays registered and will simply start cold.
func (a *API) applyStaticWarming(warmingType, functionName string) {
	ctx := context.Background()
	nodeName, _, ok := a.Policy.SelectNode(ctx, a.Nodes.All(), functionName)
	if !ok {
		log.Printf("Static warming of '%s' skipped: no eligible node", functionName)
		return
	}

	var err error
	switch warmingType {
	case "pre-warmed":
		err = a.Orchestrator.Prewarm(ctx, functionName, nodeName)
	case "warmed":
		err = a.Orchestrator.Warmup(ctx, functionName, nodeName)
	default:
		log.Printf("Unknown warming type '%s' for function '%s'", warmingType, functionName)
		return
	}
	if err != nil {
		log.Printf("Static warming of '%s' on '%s' failed: %v", functionName, nodeName, err)
	}
}

// RegisterNode handles a node registration request.
func (a *API) RegisterNode(c echo.Context) error {
	var req client.RegisterNodeRequest
	err := json.NewDecoder(c.Request().Body).Decode(&req)
	if err != nil && err != io.EOF {
		log.Printf("Could not parse request: %v", err)
		return c.JSON(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Host == "" {
		return c.JSON(http.StatusBadRequest, "node name and host are required")
	}
	if req.Port == 0 {
		req.Port = 22
	}

	n := &node.Node{
		Name:     req.Name,
		Host:     req.Host,
		Port:     req.Port,
		Username: req.Username,
		Password: req.Password,
	}
	if err := a.Nodes.Add(n); err != nil {
		log.Printf("Dropping request for already existing node '%s'", req.Name)
		return c.JSON(http.StatusConflict, "node already registered")
	}
	log.Printf("Registered node %s", n)

	response := struct {
		Created string `json:"created"`
	}{n.Name}
	return c.JSON(http.StatusOK, response)
}

// InvokeFunction handles a function invocation request.
func (a *API) InvokeFunction(c echo.Context) error {
	functionName := c.Param("fun")

	outcome, err := a.Scheduler.Invoke(c.Request().Context(), functionName)
	if errors.Is(err, function.FunctionNotFoundErr) {
		log.Printf("Dropping request for unknown function '%s'", functionName)
		return c.JSON(http.StatusNotFound, "function not found")
	} else if errors.Is(err, scheduling.NoEligibleNodeErr) {
		return c.JSON(http.StatusServiceUnavailable, "no eligible node available")
	} else if err != nil {
		log.Printf("Invocation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, outcome)
}

// PrewarmFunction pulls a function image on a node ahead of time.
func (a *API) PrewarmFunction(c echo.Context) error {
	return a.handleWarming(c, a.Orchestrator.Prewarm)
}

// WarmupFunction starts a standing container for a function on a node.
func (a *API) WarmupFunction(c echo.Context) error {
	return a.handleWarming(c, a.Orchestrator.Warmup)
}

func (a *API) handleWarming(c echo.Context, op func(context.Context, string, string) error) error {
	var req client.WarmingRequest
	err := json.NewDecoder(c.Request().Body).Decode(&req)
	if err != nil && err != io.EOF {
		log.Printf("Could not parse request: %v", err)
		return c.JSON(http.StatusBadRequest, "invalid request body")
	}

	err = op(c.Request().Context(), req.Function, req.Node)
	if errors.Is(err, function.FunctionNotFoundErr) || errors.Is(err, node.NodeNotFoundErr) {
		return c.JSON(http.StatusNotFound, err.Error())
	} else if err != nil {
		log.Printf("Warming operation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, err.Error())
	}

	response := struct {
		Function string `json:"function"`
		Node     string `json:"node"`
	}{req.Function, req.Node}
	return c.JSON(http.StatusOK, response)
}

// GetFunctions lists the registered function names.
func (a *API) GetFunctions(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Functions.Names())
}

// GetFunctionsCount returns the number of registered functions.
func (a *API) GetFunctionsCount(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Functions.Len())
}

// GetNodes lists the registered nodes. Credentials never leave the gateway.
func (a *API) GetNodes(c echo.Context) error {
	nodes := a.Nodes.All()
	listed := make([]*node.Node, 0, len(nodes))
	for _, name := range a.Nodes.Names() {
		listed = append(listed, nodes[name])
	}
	return c.JSON(http.StatusOK, listed)
}

// GetNodesCount returns the number of registered nodes.
func (a *API) GetNodesCount(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Nodes.Len())
}

// GetInvocations returns the accumulated invocation records.
func (a *API) GetInvocations(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Invocations.All())
}

// ResetInvocations discards the accumulated invocation records.
func (a *API) ResetInvocations(c echo.Context) error {
	a.Invocations.Reset()
	return c.JSON(http.StatusOK, "invocation log cleared")
}

// GetStatus is a simple api to check the current gateway status.
func (a *API) GetStatus(c echo.Context) error {
	response := client.StatusResponse{
		Functions: a.Functions.Len(),
		Nodes:     a.Nodes.Len(),
		Records:   a.Invocations.Len(),
		Policy:    config.GetString(config.SCHEDULING_POLICY, "roundrobin"),
	}
	return c.JSON(http.StatusOK, response)
}
