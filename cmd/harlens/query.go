package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/usestring/harlens/internal/query"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		bf     bodyFlags
		entry  int
		all    bool
		dedupe bool
		limit  int
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "query EXPRESSION",
		Short: "Run a jq expression against JSON bodies",
		Long: `Run a jq expression against the body of one entry (--entry) or of every
entry (--all), printing one JSON value per line.

With --all, requests without a body are skipped and bodies that are not JSON
are reported as warnings. With --entry they are errors.`,
		Example: `  harlens -f capture.har query --entry 3 '.devices[].id'
  harlens -f capture.har query --all --side request --expand --dedupe '.AddDevice.Name'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == cmd.Flags().Changed("entry") {
				return errors.New("exactly one of --entry or --all is required")
			}
			side, expand, err := bf.resolve(cmd, a, "expand")
			if err != nil {
				return err
			}

			engine := query.NewEngine()
			if err := engine.ValidateExpression(args[0]); err != nil {
				return err
			}

			doc, err := a.loadDocument()
			if err != nil {
				return err
			}

			opts := query.Options{Side: side, Expand: expand, Deduplicate: dedupe, MaxResults: limit}
			var res *query.Result
			if all {
				res, err = engine.QueryAll(doc, args[0], opts)
			} else {
				res, err = engine.QueryEntry(doc, entry, args[0], opts)
			}
			if err != nil {
				return err
			}
			return printQueryResult(a.stdout, res, pretty)
		},
	}

	bf.register(cmd, "expand", "Expand device private data before querying")
	cmd.Flags().IntVar(&entry, "entry", 0, "Entry to query")
	cmd.Flags().BoolVar(&all, "all", false, "Query every entry")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Drop duplicate values")
	cmd.Flags().IntVar(&limit, "max", 0, "Stop after this many values (0: no limit)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent each value")
	return cmd
}
