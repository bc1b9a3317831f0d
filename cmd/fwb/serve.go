package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firewoodbank/fwb/internal/digest"
	"github.com/firewoodbank/fwb/internal/inventory"
	"github.com/firewoodbank/fwb/internal/notify"
	"github.com/firewoodbank/fwb/internal/server"
	"github.com/firewoodbank/fwb/internal/workorder"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		noDigest   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		Long:  "Serves the work order and inventory API for the web console. Scheduled digests run in the background when a chat platform is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, noDigest)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	cmd.Flags().BoolVar(&noDigest, "no-digest", false, "disable scheduled digest posts")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, noDigest bool) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	sender, err := notify.FromConfig(cfg.Notify)
	if err != nil {
		return err
	}

	coord := &workorder.Coordinator{
		DB:     gormDB,
		Ledger: &inventory.Ledger{WoodCategory: cfg.WoodCategory},
	}
	if sender != nil {
		coord.Notifier = &notify.TransitionNotifier{Sender: sender}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if sender != nil && !noDigest {
		go digest.Run(ctx, gormDB, sender, cfg.Digest.Daily, cfg.Digest.Weekly)
	}

	if port == 0 {
		port = cfg.HTTP.Port
	}
	return server.Start(ctx, server.StartOpts{
		DB:          gormDB,
		Coordinator: coord,
		Port:        port,
		Out:         cmd.OutOrStdout(),
	})
}
