package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usestring/harlens/internal/index"
)

func newFindCmd(a *app) *cobra.Command {
	var f index.Filter

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List the entries matching filters",
		Long: `List the entries matching every given filter, one line per entry:
"{entry}/ {method} {url} -> {status}".

Repeating a filter, or giving a comma separated list, matches any of the
values. --host accepts "*.example.com" for a domain and its subdomains;
--status accepts a code (404) or a class (4xx).`,
		Example: `  harlens -f capture.har find --method POST --status 4xx,5xx
  harlens -f capture.har find --host '*.example.com' --mime application/json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument()
			if err != nil {
				return err
			}
			idx, err := index.Build(doc)
			if err != nil {
				return err
			}
			matches, err := idx.Find(f)
			if err != nil {
				return err
			}
			for _, i := range matches {
				if _, err := fmt.Fprintln(a.stdout, idx.Meta(i).Line()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&f.Methods, "method", nil, "HTTP method")
	cmd.Flags().StringSliceVar(&f.Hosts, "host", nil, "Host name, or *.domain")
	cmd.Flags().StringSliceVar(&f.Statuses, "status", nil, "Status code or class (4xx)")
	cmd.Flags().StringSliceVar(&f.MimeTypes, "mime", nil, "Response mime type prefix")
	cmd.Flags().BoolVar(&f.HasPostData, "has-post-data", false, "Only requests with a body")
	cmd.Flags().StringVar(&f.Text, "text", "", "Words that must all appear in the URL")
	return cmd
}
