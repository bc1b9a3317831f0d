package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/digest"
	"github.com/firewoodbank/fwb/internal/notify"
)

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Activity digest commands",
	}

	cmd.AddCommand(newDigestDailyCmd())
	cmd.AddCommand(newDigestWeeklyCmd())
	return cmd
}

func newDigestDailyCmd() *cobra.Command {
	var (
		configPath string
		post       bool
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Build the last 24 hours' digest",
		Long:  "Summarizes scheduling, completion, and cancellation activity plus low-stock items. With --post, sends to the configured chat channel.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd, configPath, post, digest.BuildDaily)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	cmd.Flags().BoolVar(&post, "post", false, "post to the configured chat platform")
	return cmd
}

func newDigestWeeklyCmd() *cobra.Command {
	var (
		configPath string
		post       bool
	)

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Build the last 7 days' digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd, configPath, post, digest.BuildWeekly)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	cmd.Flags().BoolVar(&post, "post", false, "post to the configured chat platform")
	return cmd
}

func runDigest(cmd *cobra.Command, configPath string, post bool, build func(*gorm.DB) (*notify.Event, error)) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	ev, err := build(gormDB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if ev == nil {
		fmt.Fprintln(out, "Nothing to report.")
		return nil
	}

	fmt.Fprintf(out, "%s\n%s\n", ev.Title, ev.Body)

	if post {
		sender, err := notify.FromConfig(cfg.Notify)
		if err != nil {
			return err
		}
		if sender == nil {
			return fmt.Errorf("no chat platform configured; set notify.platform in %s", configPath)
		}
		if err := sender.Send(cmd.Context(), *ev); err != nil {
			return fmt.Errorf("post digest: %w", err)
		}
		fmt.Fprintln(out, "Posted.")
	}
	return nil
}
