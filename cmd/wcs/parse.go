package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mpetrov/wa-chat-search/internal/config"
	"github.com/spf13/cobra"
)

// jsonMessage is the wire shape of one parsed message.
type jsonMessage struct {
	ID        int      `json:"id"`
	Timestamp string   `json:"timestamp"`
	Sender    string   `json:"sender"`
	Content   string   `json:"content"`
	Type      string   `json:"type"`
	Sentiment *float64 `json:"sentiment,omitempty"`
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse one export file and print the messages as JSON",
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

			messages, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			out := make([]jsonMessage, 0, len(messages))
			for _, m := range messages {
				out = append(out, jsonMessage{
					ID:        m.ID,
					Timestamp: m.Timestamp.Format(time.RFC3339),
					Sender:    m.Sender,
					Content:   m.Content,
					Type:      string(m.Type),
					Sentiment: m.Sentiment,
				})
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
