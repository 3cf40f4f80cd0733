package fx

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/amityadav/ragweb/internal/config"
	"github.com/amityadav/ragweb/internal/core"
	"github.com/amityadav/ragweb/internal/mcpserver"
	"github.com/amityadav/ragweb/internal/search"
	"github.com/amityadav/ragweb/internal/server"
	"github.com/amityadav/ragweb/internal/token"
	"go.uber.org/fx"
)

// HTTPModule serves the REST API
var HTTPModule = fx.Module("http",
	fx.Provide(NewHTTPServer),
	fx.Invoke(StartHTTPServer),
)

// MCPModule serves the search tool over stdin/stdout
var MCPModule = fx.Module("mcp",
	fx.Provide(mcpserver.New),
	fx.Invoke(StartMCPServer),
)

// HTTPServerParams groups dependencies for the REST server
type HTTPServerParams struct {
	fx.In
	SearchCore   *core.SearchCore
	Selector     *search.Selector
	TokenManager *token.Manager
	Config       config.Config
}

// NewHTTPServer creates the HTTP server with the full middleware chain
func NewHTTPServer(p HTTPServerParams) *http.Server {
	handler := server.NewHandler(server.Services{
		SearchCore:   p.SearchCore,
		Selector:     p.Selector,
		TokenManager: p.TokenManager,
		APIKey:       p.Config.APIKey,
	})

	if p.Config.APIKey == "" && !p.TokenManager.Enabled() {
		log.Printf("[FX] REST API is unauthenticated (set RAGWEB_API_KEY or JWT_SECRET)")
	}

	return &http.Server{
		Addr:              p.Config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// StartHTTPServer binds the listener on start and drains connections on stop
func StartHTTPServer(lc fx.Lifecycle, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}

			go func() {
				log.Printf("[FX] HTTP Server (REST) listening on %s", lis.Addr())
				if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			return srv.Shutdown(ctx)
		},
	})
}

// MCPServerParams groups dependencies for the stdio server
type MCPServerParams struct {
	fx.In
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Server     *mcpserver.Server
}

// StartMCPServer serves MCP on stdio and stops the app when stdin closes
func StartMCPServer(p MCPServerParams) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := p.Server.Serve(ctx, os.Stdin, os.Stdout); err != nil {
					log.Printf("[FX] MCP server error: %v", err)
				}
				if ctx.Err() == nil {
					log.Printf("[FX] MCP input closed, shutting down")
					if err := p.Shutdowner.Shutdown(); err != nil {
						log.Printf("[FX] Shutdown failed: %v", err)
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
