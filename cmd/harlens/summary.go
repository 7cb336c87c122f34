package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var (
		ecs             bool
		withQueryString bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print an overview of every entry",
		Long: `Print the entry count followed by one block per entry: method and URL,
query string, request headers, a post data preview, then the response status,
headers and a content preview.

URLs omit their query string unless --with-query-string is given or
short_url is off in the configuration. --ecs hides the configured
query_string_excludes and header_excludes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument()
			if err != nil {
				return err
			}
			return a.writeOverview(doc, ecs, a.cfg.ShortURL && !withQueryString)
		},
	}

	cmd.Flags().BoolVar(&ecs, "ecs", false, "Hide the configured headers and query parameters")
	cmd.Flags().BoolVar(&withQueryString, "with-query-string", false, "Keep the query string on URL lines")
	return cmd
}

func newEntriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "Print the number of entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, doc.EntryCount())
			return err
		},
	}
}
