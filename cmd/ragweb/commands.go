package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amityadav/ragweb/internal/config"
	"github.com/amityadav/ragweb/internal/core"
	appfx "github.com/amityadav/ragweb/internal/fx"
	"github.com/amityadav/ragweb/internal/search"
	"github.com/amityadav/ragweb/internal/token"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newSearchCmd() *cobra.Command {
	var (
		maxResults int
		timeout    float64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one search and print the results as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc *core.SearchCore
			app := fx.New(
				appfx.ConfigModule,
				appfx.SearchModule,
				appfx.CoreModule,
				fx.NopLogger,
				fx.Populate(&sc),
			)
			if err := app.Err(); err != nil {
				return err
			}

			req, err := searchRequest(args, maxResults, timeout)
			if err != nil {
				return err
			}

			resp, err := sc.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 0, "number of results (0 uses DEFAULT_MAX_RESULTS)")
	cmd.Flags().Float64Var(&timeout, "timeout", 0, "request timeout in seconds (0 uses REQUEST_TIMEOUT)")
	return cmd
}

// searchRequest builds a core request; timeout is in seconds like the REST
// and MCP timeout parameters.
func searchRequest(args []string, maxResults int, timeout float64) (core.SearchRequest, error) {
	if timeout < 0 {
		return core.SearchRequest{}, fmt.Errorf("timeout must be a positive number of seconds, got %v", timeout)
	}
	return core.SearchRequest{
		Query:      strings.Join(args, " "),
		MaxResults: maxResults,
		Timeout:    time.Duration(timeout * float64(time.Second)),
	}, nil
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List search providers and the one that would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel *search.Selector
			app := fx.New(
				appfx.ConfigModule,
				fx.Provide(appfx.NewSearchRegistry, appfx.NewSelector),
				fx.NopLogger,
				fx.Populate(&sel),
			)
			if err := app.Err(); err != nil {
				return err
			}

			out := map[string]any{"providers": sel.ListAvailable()}
			active, err := sel.ResolveConfigured()
			if err != nil {
				out["error"] = err.Error()
			} else {
				out["active"] = active
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for the REST API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			tm := token.NewManager(cfg.JWTSecret)
			if !tm.Enabled() {
				return errors.New("JWT_SECRET is not set")
			}

			tok, err := tm.Issue(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime (0 for no expiry)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
