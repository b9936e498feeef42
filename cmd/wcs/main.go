package main

import (
	"fmt"
	"os"

	"github.com/mpetrov/wa-chat-search/internal/config"
	"github.com/mpetrov/wa-chat-search/internal/parse"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "wcs",
		Short:   "WhatsApp Chat Search - index and search exported chat transcripts",
		Version: version,
	}

	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(sendersCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newParser builds the transcript parser from config: the reference timezone
// is resolved once here so a whole run observes a single offset.
func newParser(cfg *config.Config) (*parse.Parser, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return parse.NewParser(parse.Options{
		Location:      loc,
		SystemNotices: cfg.SystemNotices,
		UserIdentity:  cfg.UserIdentity,
	}), nil
}
