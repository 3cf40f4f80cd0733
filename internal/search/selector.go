package search

import (
	"fmt"
	"log"
	"strings"
)

// Selector decides which registered provider backs the process.
// It never reads the environment; everything comes from the Registry and
// the configured provider name.
type Selector struct {
	registry   *Registry
	configured string
}

// NewSelector creates a selector over reg. configured is the requested
// provider name and may be empty.
func NewSelector(reg *Registry, configured string) *Selector {
	return &Selector{
		registry:   reg,
		configured: configured,
	}
}

// ListAvailable describes every known provider in declared order
func (s *Selector) ListAvailable() []Descriptor {
	known := KnownProviders()
	descriptors := make([]Descriptor, 0, len(known))
	for _, t := range known {
		descriptors = append(descriptors, s.describe(t))
	}
	return descriptors
}

func (s *Selector) describe(t ProviderType) Descriptor {
	reg, ok := s.registry.Lookup(t)
	switch {
	case !ok || reg.New == nil:
		return Descriptor{Type: t, Reason: fmt.Sprintf("provider %s is not registered", t)}
	case reg.Credential == "":
		return Descriptor{Type: t, Reason: fmt.Sprintf("%s is not set", credentialName(reg))}
	default:
		return Descriptor{Type: t, Available: true}
	}
}

// ResolveConfigured returns the configured provider when it is available,
// otherwise the first available provider in declared order.
func (s *Selector) ResolveConfigured() (ProviderType, error) {
	descriptors := s.ListAvailable()

	wanted, known := ParseProviderType(s.configured)
	if known {
		for _, d := range descriptors {
			if d.Type == wanted && d.Available {
				log.Printf("[Selector] Using configured provider: %s", wanted)
				return wanted, nil
			}
		}
	}

	for _, d := range descriptors {
		if !d.Available {
			continue
		}
		switch {
		case strings.TrimSpace(s.configured) == "":
			log.Printf("[Selector] No provider configured, using %s", d.Type)
		case !known:
			log.Printf("[Selector] Unknown provider %q, falling back to %s", s.configured, d.Type)
		default:
			log.Printf("[Selector] Provider %s unavailable (%s), falling back to %s", wanted, s.describe(wanted).Reason, d.Type)
		}
		return d.Type, nil
	}

	return "", &ConfigurationError{Reason: "no search provider credential is set (" + s.credentialNames() + ")"}
}

// Instantiate builds the provider for t. It fails when t is not registered or
// its credential is empty, even if t was not chosen by ResolveConfigured.
func (s *Selector) Instantiate(t ProviderType) (Provider, error) {
	reg, ok := s.registry.Lookup(t)
	if !ok || reg.New == nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unsupported search provider %q", t)}
	}
	if reg.Credential == "" {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%s is required for provider %s", credentialName(reg), t)}
	}
	return reg.New(reg.Credential), nil
}

// Active resolves and instantiates the provider for this process
func (s *Selector) Active() (Provider, error) {
	t, err := s.ResolveConfigured()
	if err != nil {
		return nil, err
	}
	return s.Instantiate(t)
}

func (s *Selector) credentialNames() string {
	var names []string
	for _, t := range KnownProviders() {
		reg, ok := s.registry.Lookup(t)
		if !ok {
			continue
		}
		names = append(names, credentialName(reg))
	}
	if len(names) == 0 {
		return "no providers registered"
	}
	return strings.Join(names, " or ")
}

func credentialName(reg Registration) string {
	if reg.CredentialEnv != "" {
		return reg.CredentialEnv
	}
	return string(reg.Type) + " credential"
}
