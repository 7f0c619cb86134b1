package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/sixtyseconds/internal/config"
	"github.com/i474232898/sixtyseconds/internal/digest"
)

var flagNotify bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the digest once and print it",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&flagNotify, "notify", false, "also send the digest through the configured notifiers")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	service := buildService(cfg)
	service.SetNotify(flagNotify)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout*3)
	defer cancel()

	if !service.FetchAndStore(ctx, digest.NewTrigger(digest.TriggerCommand, "fetch")) {
		return errors.New("digest fetch failed")
	}

	snap, _ := service.Latest()
	fmt.Fprintln(cmd.OutOrStdout(), digest.FormatMessage(snap.Digest).Text)
	return nil
}
