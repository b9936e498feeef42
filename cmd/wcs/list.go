package main

import (
	"github.com/mpetrov/wa-chat-search/internal/config"
	"github.com/mpetrov/wa-chat-search/internal/index"
	"github.com/mpetrov/wa-chat-search/internal/search"
	"github.com/mpetrov/wa-chat-search/internal/tui"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all chats sorted by last activity",
		Long:  `Opens a TUI panel showing all indexed chats sorted by last activity (newest first). Type to search message content.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			parser, err := newParser(cfg)
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			index.IndexAll(db, parser, cfg.ExportRoot)

			opts := search.Options{
				Since: since,
				Limit: limit,
			}

			return tui.RunList(db, cfg.UserIdentity, opts)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Filter chats updated since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
