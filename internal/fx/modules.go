package fx

import (
	"log"

	"github.com/amityadav/ragweb/internal/config"
	"github.com/amityadav/ragweb/internal/core"
	"github.com/amityadav/ragweb/internal/ragbrowser"
	"github.com/amityadav/ragweb/internal/search"
	"github.com/amityadav/ragweb/internal/tavily"
	"github.com/amityadav/ragweb/internal/token"
	"go.uber.org/fx"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// TokenModule provides JWT token management for the REST API
var TokenModule = fx.Module("token",
	fx.Provide(NewTokenManager),
)

// SearchModule provides the provider registry, the selector and the active
// provider. Startup fails with a configuration error when no provider has a
// credential.
var SearchModule = fx.Module("search",
	fx.Provide(
		NewSearchRegistry,
		NewSelector,
		NewActiveProvider,
	),
)

// CoreModule provides business logic cores
var CoreModule = fx.Module("core",
	fx.Provide(NewSearchCore),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewTokenManager creates JWT token manager. An empty secret disables it.
func NewTokenManager(cfg config.Config) *token.Manager {
	tm := token.NewManager(cfg.JWTSecret)
	if tm.Enabled() {
		log.Printf("[FX] TokenManager initialized")
	} else {
		log.Printf("[FX] TokenManager disabled (no JWT_SECRET)")
	}
	return tm
}

// NewSearchRegistry registers every known provider with its credential from
// cfg. Providers without a credential stay registered so they can be listed
// as unavailable.
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()

	registry.Register(search.Registration{
		Type:          search.ProviderTavily,
		CredentialEnv: "TAVILY_API_KEY",
		Credential:    cfg.TavilyAPIKey,
		New: func(apiKey string) search.Provider {
			return tavily.NewClient(apiKey, tavily.WithBaseURL(cfg.TavilyBaseURL))
		},
	})

	registry.Register(search.Registration{
		Type:          search.ProviderApify,
		CredentialEnv: "APIFY_API_TOKEN",
		Credential:    cfg.ApifyAPIToken,
		New: func(apiToken string) search.Provider {
			return ragbrowser.NewClient(apiToken, ragbrowser.WithBaseURL(cfg.ApifyBaseURL))
		},
	})

	log.Printf("[FX] SearchRegistry initialized with %d providers", registry.Count())
	return registry
}

// NewSelector creates the provider selector for the configured name
func NewSelector(registry *search.Registry, cfg config.Config) *search.Selector {
	return search.NewSelector(registry, cfg.SearchProvider)
}

// NewActiveProvider resolves and instantiates the provider for this process
func NewActiveProvider(selector *search.Selector) (search.Provider, error) {
	provider, err := selector.Active()
	if err != nil {
		return nil, err
	}
	log.Printf("[FX] Active search provider: %s", provider.Name())
	return provider, nil
}

// NewSearchCore creates search business logic
func NewSearchCore(provider search.Provider, cfg config.Config) *core.SearchCore {
	c := core.NewSearchCore(provider, cfg)
	log.Printf("[FX] SearchCore initialized (default maxResults %d, timeout %s)", cfg.DefaultMaxResults, cfg.RequestTimeout)
	return c
}
