package main

import (
	"fmt"

	"github.com/mpetrov/wa-chat-search/internal/config"
	"github.com/spf13/cobra"
)

func sendersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "senders <file>",
		Short: "List the distinct senders found in an export file",
		Long:  `Scans header lines only; works even on exports with corrupt timestamps.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			parser, err := newParser(cfg)
			if err != nil {
				return err
			}

			senders, err := parser.DetectSendersFile(args[0])
			if err != nil {
				return err
			}

			for _, s := range senders {
				fmt.Println(s)
			}
			return nil
		},
	}
}
