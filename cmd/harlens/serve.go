package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/harlens/pkg/har"
	"github.com/usestring/harlens/pkg/mcpsrv"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema a capture must satisfy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := har.SchemaJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, string(data))
			return err
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HAR tools to an MCP client over stdio",
		Long: `Serve the HAR tools to an MCP client over stdio. Every tool takes the path
of the capture to read; decoded captures are cached until the file changes.

Logs go to stderr, or to log.file when set. Stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := mcpsrv.NewServer(
				mcpsrv.WithConfig(a.cfg),
				mcpsrv.WithoutLogSetup(),
			)
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting harlens MCP server on stdio")
			if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
