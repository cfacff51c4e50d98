package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/config"
)

// StartAPIServer registers the routes and serves the gateway API. It blocks
// until the server is shut down.
func StartAPIServer(e *echo.Echo, a *API) {
	e.Use(middleware.Recover())

	// Routes
	e.POST("/functions/register", a.RegisterFunction)
	e.GET("/functions", a.GetFunctions)
	e.GET("/functions/count", a.GetFunctionsCount)
	e.POST("/nodes/register", a.RegisterNode)
	e.GET("/nodes", a.GetNodes)
	e.GET("/nodes/count", a.GetNodesCount)
	e.POST("/functions/invoke/:fun", a.InvokeFunction)
	e.POST("/prewarm", a.PrewarmFunction)
	e.POST("/warmup", a.WarmupFunction)
	e.GET("/invocations", a.GetInvocations)
	e.DELETE("/invocations", a.ResetInvocations)
	e.GET("/status", a.GetStatus)

	// Start server
	portNumber := config.GetInt(config.API_PORT, 8080)
	e.HideBanner = true

	if err := e.Start(fmt.Sprintf(":%d", portNumber)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal("shutting down the server")
	}
}

// RegisterTerminationHandler shuts the server down cleanly on SIGINT.
func RegisterTerminationHandler(e *echo.Echo) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		sig := <-c
		fmt.Printf("Got %s signal. Terminating...\n", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			log.Fatal(err)
		}

		os.Exit(0)
	}()
}
