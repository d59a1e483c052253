// Command server starts the dependency graph's HTTP control plane.
//
// Usage:
//
//	server [flags]
//
// Flags:
//
//	-addr string
//	    Server address (default ":8080")
//	-read-timeout duration
//	    HTTP read timeout (default 30s)
//	-write-timeout duration
//	    HTTP write timeout (default 30s)
//	-single-clock-master
//	    Reject a second AddClockMaster call per flow (default true)
//	-max-workers int
//	    Maximum registered workers, 0 for unlimited
//	-max-components-per-flow int
//	    Maximum components per flow, 0 for unlimited
//
// The server exposes the following endpoints:
//
//	POST   /api/v1/workers                              - Register a worker
//	DELETE /api/v1/workers/{name}                        - Remove a worker
//	POST   /api/v1/components                           - Add a component
//	DELETE /api/v1/components/{name}                     - Remove a component
//	POST   /api/v1/components/{name}/worker              - Attach a worker
//	POST   /api/v1/components/{name}/clock-master        - Appoint clock master
//	POST   /api/v1/flows/map-eaters-to-feeders           - Infer feeder/eater edges
//	POST   /api/v1/liveness/{kind}/{name}                - Set a liveness flag
//	GET    /api/v1/schedule                              - What should be started
//	GET    /health, /health/live, /health/ready           - Health probes
//	GET    /metrics                                       - Prometheus metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flumotion/depgraph/pkg/config"
	"github.com/flumotion/depgraph/pkg/server"
)

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	singleClockMaster := flag.Bool("single-clock-master", true, "Reject a second clock master per flow")
	maxWorkers := flag.Int("max-workers", 0, "Maximum registered workers, 0 for unlimited")
	maxComponentsPerFlow := flag.Int("max-components-per-flow", 0, "Maximum components per flow, 0 for unlimited")

	flag.Parse()

	serverConfig := server.DefaultConfig()
	serverConfig.Address = *addr
	serverConfig.ReadTimeout = *readTimeout
	serverConfig.WriteTimeout = *writeTimeout

	graphConfig := config.Default()
	graphConfig.EnforceSingleClockMasterPerFlow = *singleClockMaster
	graphConfig.MaxWorkers = *maxWorkers
	graphConfig.MaxComponentsPerFlow = *maxComponentsPerFlow

	if err := graphConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.New(serverConfig, graphConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("Starting dependency graph server on %s\n", *addr)
		fmt.Printf("Health check:     http://localhost%s/health\n", *addr)
		fmt.Printf("Liveness probe:   http://localhost%s/health/live\n", *addr)
		fmt.Printf("Readiness probe:  http://localhost%s/health/ready\n", *addr)
		fmt.Printf("Metrics:          http://localhost%s/metrics\n", *addr)
		fmt.Printf("Schedule:         http://localhost%s/api/v1/schedule\n", *addr)
		fmt.Println("\nPress Ctrl+C to shutdown")

		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)
		fmt.Println("Shutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Server stopped")
	}
}
