package oauth

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Registry holds the configured provider settings and mints one Authenticator
// per provider. Settings are registered against the shared Client before an
// Authenticator can be scoped for them.
type Registry struct {
	client *Client

	mu       sync.RWMutex
	settings map[string]Setting
	scoped   map[string]struct{}
}

// NewRegistry records the given settings. Names must be unique.
func NewRegistry(client *Client, settings ...Setting) (*Registry, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: registry needs an oauth client", ErrConfiguration)
	}

	r := &Registry{
		client:   client,
		settings: make(map[string]Setting, len(settings)),
		scoped:   make(map[string]struct{}),
	}
	for _, s := range settings {
		if err := r.Add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add records a setting without registering it with the client.
// Adding a different setting under an existing name fails.
func (r *Registry) Add(s Setting) error {
	if s.Name == "" {
		return fmt.Errorf("%w: provider name is required", ErrConfiguration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.settings[s.Name]; ok && !existing.Equal(s) {
		return fmt.Errorf("%w: %s is configured twice", ErrDuplicateProvider, s.Name)
	}
	r.settings[s.Name] = s.Clone()
	return nil
}

// Register validates the setting and registers it with the client, refusing to
// overwrite a different registration. The recorded setting is replaced by s, so
// derived endpoints become visible through Setting.
func (r *Registry) Register(s Setting) error {
	if err := r.client.Register(s, false); err != nil {
		return err
	}

	r.mu.Lock()
	r.settings[s.Name] = s.Clone()
	r.mu.Unlock()
	return nil
}

// Remove forgets a provider that has not been scoped yet, including its client
// registration, so a corrected setting can be added under the same name.
// It reports whether the provider was removed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scoped[name]; ok {
		return false
	}
	if _, ok := r.settings[name]; !ok {
		return false
	}
	delete(r.settings, name)
	r.client.unregister(name)
	return true
}

// Setting returns a copy of the named provider's configuration.
func (r *Registry) Setting(name string) (Setting, error) {
	r.mu.RLock()
	s, ok := r.settings[name]
	r.mu.RUnlock()

	if !ok {
		return Setting{}, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return s.Clone(), nil
}

// Names returns the configured provider names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.settings))
	for name := range r.settings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scope returns an Authenticator bound to the named provider and to exactly
// the given URLs. A provider can be scoped once.
func (r *Registry) Scope(name string, urls ...string) (*Authenticator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.settings[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	if _, ok := r.scoped[name]; ok {
		return nil, fmt.Errorf("%w: %s is already scoped", ErrDuplicateProvider, name)
	}

	capability, ok := r.client.Capability(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s was not registered with the oauth client", ErrCapabilityUnavailable, name)
	}

	r.scoped[name] = struct{}{}
	return &Authenticator{
		provider:   name,
		urls:       slices.Clone(urls),
		capability: capability,
	}, nil
}

// Authenticator is a provider-scoped path resolver and capability handle.
type Authenticator struct {
	provider   string
	urls       []string
	capability Capability
}

// Provider returns the provider name the authenticator is bound to.
func (a *Authenticator) Provider() string { return a.provider }

// URLs returns the URLs the authenticator may resolve.
func (a *Authenticator) URLs() []string { return slices.Clone(a.urls) }

// Resolve maps one of the scoped URLs to "/<provider>/<url>".
func (a *Authenticator) Resolve(url string) (string, error) {
	if !slices.Contains(a.urls, url) {
		return "", fmt.Errorf("%w: %q is not registered for %s", ErrUnregisteredURL, url, a.provider)
	}
	return "/" + strings.ToLower(a.provider) + "/" + url, nil
}

// Capability returns the provider's handshake capability.
func (a *Authenticator) Capability() (Capability, error) {
	if a == nil || a.capability == nil {
		return nil, ErrCapabilityUnavailable
	}
	return a.capability, nil
}
