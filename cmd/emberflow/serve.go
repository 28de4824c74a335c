package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/emberflow/emberflow"
	httpAdapter "github.com/emberflow/emberflow/pkg/adapters/http"
	"github.com/emberflow/emberflow/pkg/adapters/memory"
	noderedAdapter "github.com/emberflow/emberflow/pkg/adapters/nodered"
	redisAdapter "github.com/emberflow/emberflow/pkg/adapters/redis"
	"github.com/emberflow/emberflow/pkg/observability"
	"github.com/emberflow/emberflow/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the emberflow engine in server mode, exposing flow CRUD, translation and execution over a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		runtimeURL, _ := cmd.Flags().GetString("runtime-url")
		logger := newLogger(cmd)

		var flows ports.FlowStore
		var history ports.HistoryStore
		if redisAddr != "" {
			client := backend.NewClient(&backend.Options{Addr: redisAddr})
			flows = redisAdapter.NewFlowStore(client)
			history = redisAdapter.NewHistoryStore(client, redisAdapter.DefaultHistoryBound)
			logger.Info("using redis stores", "addr", redisAddr)
		} else {
			flows = memory.NewFlowStore()
			history = memory.NewHistoryStore(memory.DefaultHistoryBound)
		}

		metrics := observability.NewMetrics()
		eng := emberflow.New(
			emberflow.WithLogger(logger),
			emberflow.WithHistoryStore(history),
			emberflow.WithLifecycleHooks(metrics.Hooks()),
		)

		serverOpts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(metrics.Handler()),
		}
		if runtimeURL != "" {
			serverOpts = append(serverOpts, httpAdapter.WithPublisher(noderedAdapter.NewPublisher(runtimeURL)))
		}
		handler := httpAdapter.NewHandler(eng, flows, history, serverOpts...)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Emberflow Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Emberflow Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for durable stores (empty = in-memory)")
	serveCmd.Flags().String("runtime-url", "", "Node-RED base URL for publish deployments")
}
