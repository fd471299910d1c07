package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/quickcalc/pkg/api"
	grpcapi "github.com/lemonberrylabs/quickcalc/pkg/api/grpc"
	"github.com/lemonberrylabs/quickcalc/pkg/store"
	"github.com/lemonberrylabs/quickcalc/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API, the web page and the gRPC service",
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "HTTP server port (default 8787, env PORT)")
	cmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8788, env GRPC_PORT)")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Server.Port = v
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.Server.GRPCPort = v
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Server.Host = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := store.Open(cfg.History)
	if err != nil {
		return err
	}
	defer s.Close()

	server := api.New(s)

	// Register the web page (non-fatal if template parsing fails)
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Warning: web page disabled due to template error: %v", r)
			}
		}()
		ui := web.New(s, cfg.Display)
		ui.Register(server.App())
	}()

	grpcServer := grpcapi.New(s)
	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr())
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down quickcalc...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("quickcalc listening on %s (history=%s)", cfg.HTTPAddr(), cfg.History.Backend)
	return server.Listen(cfg.HTTPAddr())
}
