package main

import (
	"fmt"
	"log"
	"os"

	"github.com/amityadav/ragweb/internal/config"
	appfx "github.com/amityadav/ragweb/internal/fx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var version = "0.1.0"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ragweb",
		Short: "Web search returning cleaned page content",
		Long: `ragweb searches the web through Tavily or the Apify RAG Web Browser
and returns each hit as title, URL, plain text and Markdown.

It runs as an MCP tool server over stdio, as an HTTP REST API, or as a
one-shot command line search.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv(config.ConfigFileEnv, configPath)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+config.ConfigFileEnv+")")

	rootCmd.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newSearchCmd(),
		newProvidersCmd(),
		newTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runApp starts an fx application and blocks until a shutdown signal
func runApp(opts ...fx.Option) error {
	opts = append(opts,
		// Console logger goes to stderr so stdout stays free for MCP traffic
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(
				appfx.ConfigModule, // Provides: config.Config
				appfx.TokenModule,  // Provides: *token.Manager
				appfx.SearchModule, // Provides: *search.Registry, *search.Selector, search.Provider
				appfx.CoreModule,   // Provides: *core.SearchCore
				appfx.HTTPModule,   // Starts the HTTP server
			)
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the search tool over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(
				appfx.ConfigModule,
				appfx.SearchModule,
				appfx.CoreModule,
				appfx.MCPModule, // Serves until stdin closes
			)
		},
	}
}
