package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/harlens/internal/body"
	"github.com/usestring/harlens/pkg/textquery"
)

func newSelectCmd(a *app) *cobra.Command {
	var (
		side  string
		mode  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "select ENTRY EXPRESSION",
		Short: "Extract text from an HTML, XML, form or plain text body",
		Long: `Extract text from the body of entry ENTRY, printing one value per line.

EXPRESSION is a CSS selector, XPath expression, regex or form key, depending
on --mode. Without --mode the mode follows the body mime type: css for HTML,
xpath for XML, form for urlencoded forms and regex otherwise. A regex with a
capture group prints the first group. The form key "*" prints every pair.`,
		Example: `  harlens -f capture.har select 12 'table.devices td.name'
  harlens -f capture.har select --side request 4 '*'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseEntry(args[0])
			if err != nil {
				return err
			}
			s, err := body.ParseSide(side)
			if err != nil {
				return err
			}
			m, err := textquery.ParseMode(mode)
			if err != nil {
				return err
			}
			if m != "" {
				if err := textquery.Validate(m, args[1]); err != nil {
					return err
				}
			}

			doc, err := a.loadDocument()
			if err != nil {
				return err
			}

			res, err := body.Extract(doc, idx, s, false)
			if err != nil {
				return err
			}
			if res.NoPostData {
				return errors.New(res.String())
			}

			sel, err := textquery.Select(res.Text, res.MimeType, m, args[1], limit)
			if err != nil {
				return err
			}
			slog.Debug("selected", slog.String("mode", string(sel.Mode)), slog.Int("values", len(sel.Values)))
			for _, v := range sel.Values {
				if _, err := fmt.Fprintln(a.stdout, v); err != nil {
					return err
				}
			}
			if sel.Truncated {
				slog.Warn("output truncated", slog.Int("max", limit))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&side, "side", "response", "Which body: request or response")
	cmd.Flags().StringVar(&mode, "mode", "", "css, xpath, regex or form (default: from the mime type)")
	cmd.Flags().IntVar(&limit, "max", 0, "Stop after this many values (0: no limit)")
	return cmd
}
