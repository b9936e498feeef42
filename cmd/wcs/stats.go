package main

import (
	"fmt"
	"strings"

	"github.com/mpetrov/wa-chat-search/internal/config"
	"github.com/mpetrov/wa-chat-search/internal/parse"
	"github.com/mpetrov/wa-chat-search/internal/stats"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Show activity statistics for one export file",
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

			s := stats.Compute(messages)
			if s.TotalMessages == 0 {
				fmt.Println("No messages found.")
				return nil
			}

			fmt.Printf("Messages:  %d (%s to %s, %.1f/day)\n",
				s.TotalMessages, s.FirstDate, s.LastDate, s.AveragePerDay)
			fmt.Printf("Busiest:   %s, around %02d:00 (quietest: %s)\n",
				s.BusiestDay, s.BusiestHour, s.QuietestDay)

			fmt.Println("\nBy sender:")
			for _, sc := range s.BySender {
				fmt.Printf("  %6d  %s\n", sc.Count, sc.Sender)
			}

			fmt.Println("\nBy type:")
			for _, t := range []parse.MessageType{
				parse.TypeText, parse.TypeMedia, parse.TypeLink,
				parse.TypeVoiceNote, parse.TypeCard, parse.TypeSystem,
			} {
				if n := s.ByType[t]; n > 0 {
					fmt.Printf("  %6d  %s\n", n, t)
				}
			}

			fmt.Println("\nBy weekday (Mon..Sun):")
			fmt.Print(" ")
			for _, n := range s.ByWeekday {
				fmt.Printf(" %d", n)
			}
			fmt.Println()

			// hour histogram
			fmt.Println("\nBy hour:")
			max := 0
			for _, n := range s.ByHour {
				if n > max {
					max = n
				}
			}
			for h, n := range s.ByHour {
				bar := ""
				if max > 0 {
					bar = strings.Repeat("#", n*40/max)
				}
				fmt.Printf("  %02d %5d %s\n", h, n, bar)
			}
			return nil
		},
	}
}
