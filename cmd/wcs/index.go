package main

import (
	"fmt"
	"os"

	"github.com/mpetrov/wa-chat-search/internal/config"
	"github.com/mpetrov/wa-chat-search/internal/index"
	"github.com/spf13/cobra"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan and index exported chat transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			parser, err := newParser(cfg)
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning export root...\n")
			fmt.Fprintf(os.Stderr, "  %s\n", cfg.ExportRoot)

			stats, err := index.IndexAll(db, parser, cfg.ExportRoot)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
