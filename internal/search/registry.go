package search

import "strings"

// Constructor builds a provider from its credential
type Constructor func(credential string) Provider

// Registration ties a provider type to its credential and constructor
type Registration struct {
	Type ProviderType

	// CredentialEnv names the environment variable the credential came from,
	// used in human-readable reasons only.
	CredentialEnv string
	Credential    string
	New           Constructor
}

// Registry holds the registration for each known provider
type Registry struct {
	entries map[ProviderType]Registration
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[ProviderType]Registration),
	}
}

// Register adds or replaces the registration for reg.Type
func (r *Registry) Register(reg Registration) {
	reg.Credential = strings.TrimSpace(reg.Credential)
	r.entries[reg.Type] = reg
}

// Lookup returns the registration for t
func (r *Registry) Lookup(t ProviderType) (Registration, bool) {
	reg, ok := r.entries[t]
	return reg, ok
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	return len(r.entries)
}
