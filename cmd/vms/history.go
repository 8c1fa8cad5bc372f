package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/vms-predict/internal/cli"
	"github.com/Veraticus/vms-predict/internal/common"
	"github.com/Veraticus/vms-predict/internal/storage"
	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent predictions",
		Long: `History lists the most recent predictions recorded in the database set by
--db or storage.path, newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			purge, _ := cmd.Flags().GetBool("purge-cache")

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("%w: no database configured (use --db or storage.path)", common.ErrMissingConfig)
			}
			defer func() { _ = store.Close() }()

			if purge {
				n, err := store.PurgeExpiredCache(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				a.logger.Info("Purged expired cache entries", "count", n)
			}

			entries, err := store.RecentPredictions(cmd.Context(), limit)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			_, err = fmt.Fprint(a.stdout, cli.RenderHistory(entries))
			return err
		},
	}

	cmd.Flags().Int("limit", storage.DefaultHistoryLimit, "number of predictions to show")
	cmd.Flags().Bool("purge-cache", false, "remove expired prediction cache entries first")

	return cmd
}
