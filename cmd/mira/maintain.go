package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var maintainCmd = &cobra.Command{
	Use:          "maintain",
	Short:        "Run memory maintenance now (consolidate, prune, purge)",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		eng, services := newEngine(ctx)
		defer stopServices(ctx, cancel, services)

		id := activePersona(eng.appCfg)

		merged, err := eng.curator.Consolidate(ctx, id)
		if err != nil {
			return err
		}
		deleted, err := eng.curator.Prune(ctx, id)
		if err != nil {
			return err
		}
		purged, err := eng.curator.PurgeExpired(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("merged %d, pruned %d, purged %d expired\n", merged, deleted, purged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(maintainCmd)
}
