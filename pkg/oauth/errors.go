package oauth

import "errors"

var (
	// ErrConfiguration marks a bad or missing static or derived provider setting.
	ErrConfiguration = errors.New("oauth.configuration")

	// ErrUnknownProvider is returned for a provider name that was never configured.
	ErrUnknownProvider = errors.New("oauth.unknown_provider")

	// ErrDuplicateProvider is returned when a provider is registered twice with
	// different settings, or scoped twice.
	ErrDuplicateProvider = errors.New("oauth.duplicate_provider")

	// ErrUnregisteredURL is returned by Authenticator.Resolve for URLs outside its scope.
	ErrUnregisteredURL = errors.New("oauth.unregistered_url")

	// ErrCapabilityUnavailable is returned when no handshake capability is bound to a provider.
	ErrCapabilityUnavailable = errors.New("oauth.capability_unavailable")

	// ErrTokenExchange covers provider-reported errors, invalid state and failed code exchange.
	ErrTokenExchange = errors.New("oauth.token_exchange")

	// ErrMetadataDiscovery is returned when the provider metadata document cannot be loaded.
	ErrMetadataDiscovery = errors.New("oauth.metadata_discovery")

	// ErrNilStateStore is returned by NewClient when no state store is supplied.
	ErrNilStateStore = errors.New("oauth.nil_state_store")
)
