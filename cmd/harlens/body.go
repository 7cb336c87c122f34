package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/usestring/harlens/internal/body"
	"github.com/usestring/harlens/internal/query"
	"github.com/usestring/harlens/internal/render"
)

// bodyFlags are shared by commands that read one body.
type bodyFlags struct {
	side   string
	expand bool
}

func (f *bodyFlags) register(cmd *cobra.Command, expandName, expandUsage string) {
	cmd.Flags().StringVar(&f.side, "side", "response", "Which body: request or response")
	cmd.Flags().BoolVar(&f.expand, expandName, false, expandUsage)
}

// resolve returns the side and whether to expand. The expand flag wins over
// the configured default only when given.
func (f *bodyFlags) resolve(cmd *cobra.Command, a *app, expandName string) (body.Side, bool, error) {
	side, err := body.ParseSide(f.side)
	if err != nil {
		return 0, false, err
	}
	expand := a.cfg.ExpandPrivate
	if cmd.Flags().Changed(expandName) {
		expand = f.expand
	}
	return side, expand, nil
}

func newBodyCmd(a *app) *cobra.Command {
	var (
		bf     bodyFlags
		pretty bool
		color  string
		jq     string
	)

	cmd := &cobra.Command{
		Use:   "body ENTRY [req|resp]",
		Short: "Print the full request or response body of one entry",
		Long: `Print the full body of entry ENTRY (numbered from 0). The side is the
optional second argument (req, request, resp or response) or --side; the
response is shown when neither is given.

A request without a body prints "Request N has no post data"; this is not an
error. --ecs decodes the device private data nested in the body and prints the
result as indented JSON. --jq runs a jq expression against the body instead of
printing it.`,
		Example: `  harlens -f capture.har body 3 req --ecs
  harlens -f capture.har body 3 --side response --pretty`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseEntry(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				if cmd.Flags().Changed("side") {
					return errors.New("give the side as an argument or with --side, not both")
				}
				bf.side = args[1]
			}
			side, expand, err := bf.resolve(cmd, a, "ecs")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("color") {
				color = a.cfg.Color
			}
			mode, err := render.ParseColorMode(color)
			if err != nil {
				return err
			}

			doc, err := a.loadDocument()
			if err != nil {
				return err
			}

			if jq != "" {
				res, err := query.NewEngine().QueryEntry(doc, idx, jq, query.Options{Side: side, Expand: expand})
				if err != nil {
					return err
				}
				return printQueryResult(a.stdout, res, pretty)
			}

			res, err := body.Extract(doc, idx, side, expand)
			if err != nil {
				return err
			}
			if res.NoPostData {
				_, err = fmt.Fprintln(a.stdout, res.String())
				return err
			}

			text := render.Body(res.Text, res.MimeType, render.Options{
				Pretty: pretty,
				Color:  mode.Enabled(a.stdout),
			})
			_, err = fmt.Fprintln(a.stdout, text)
			return err
		},
	}

	bf.register(cmd, "ecs", "Expand device private data")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON bodies")
	cmd.Flags().StringVar(&color, "color", "", "Highlight the body: auto, always or never (default: configured color)")
	cmd.Flags().StringVar(&jq, "jq", "", "Run a jq expression against the body")
	return cmd
}

func parseEntry(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid entry %q: want a number", s)
	}
	return idx, nil
}

// printQueryResult writes one JSON value per line. Per-entry errors are
// logged, not fatal.
func printQueryResult(w io.Writer, res *query.Result, pretty bool) error {
	for _, msg := range res.Errors {
		slog.Warn("query error", slog.String("error", msg))
	}
	for _, v := range res.Values {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		line := string(data)
		if pretty {
			line = render.Pretty(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
