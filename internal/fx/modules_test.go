package fx

import (
	"strings"
	"testing"

	"github.com/amityadav/ragweb/internal/config"
	"github.com/amityadav/ragweb/internal/core"
	"github.com/amityadav/ragweb/internal/search"
	"go.uber.org/fx"
)

func TestNewSearchRegistry_RegistersBothProviders(t *testing.T) {
	cfg := config.Default()
	cfg.ApifyAPIToken = "apify-token"

	sel := search.NewSelector(NewSearchRegistry(cfg), "")
	descriptors := sel.ListAvailable()
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descriptors))
	}
	if descriptors[0].Type != search.ProviderTavily || descriptors[0].Available {
		t.Errorf("tavily should be listed first and unavailable: %+v", descriptors[0])
	}
	if descriptors[0].Reason != "TAVILY_API_KEY is not set" {
		t.Errorf("reason = %q", descriptors[0].Reason)
	}
	if !descriptors[1].Available {
		t.Errorf("apify should be available: %+v", descriptors[1])
	}
}

func TestSearchGraph_ResolvesConfiguredProvider(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		tavilyKey  string
		apifyToken string
		want       string
	}{
		{"configured tavily", "tavily", "tvly", "apify", "tavily"},
		{"configured apify", "APIFY", "tvly", "apify", "apify"},
		{"fallback to apify", "tavily", "", "apify", "apify"},
		{"first available", "", "tvly", "apify", "tavily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.SearchProvider = tt.configured
			cfg.TavilyAPIKey = tt.tavilyKey
			cfg.ApifyAPIToken = tt.apifyToken

			var sc *core.SearchCore
			app := fx.New(
				fx.Supply(cfg),
				TokenModule,
				SearchModule,
				CoreModule,
				fx.NopLogger,
				fx.Populate(&sc),
			)
			if err := app.Err(); err != nil {
				t.Fatalf("building app: %v", err)
			}
			if got := sc.ProviderName(); got != tt.want {
				t.Errorf("active provider = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchGraph_FailsWithoutCredentials(t *testing.T) {
	var sc *core.SearchCore
	app := fx.New(
		fx.Supply(config.Default()),
		SearchModule,
		CoreModule,
		fx.NopLogger,
		fx.Populate(&sc),
	)

	err := app.Err()
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), "TAVILY_API_KEY or APIFY_API_TOKEN") {
		t.Errorf("error should name the missing credentials: %v", err)
	}
}
