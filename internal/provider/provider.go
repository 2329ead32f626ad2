package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/tempmail-watcher/internal/model"
)

// NetworkError indicates a transport-level failure talking to a provider
// (connection refused, DNS failure, timeout).
type NetworkError struct {
	Provider model.ProviderType
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error (%s): %v", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError indicates a malformed or unexpected provider response, including
// responses missing required fields.
type APIError struct {
	Provider model.ProviderType
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%s): %s", e.Provider, e.Message)
}

// SessionExpiredError is the distinguished terminal condition a provider
// reports when its polling credential is no longer valid. The watcher stops
// the run when it sees one; it is not a generic fetch failure.
type SessionExpiredError struct {
	Provider model.ProviderType
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired (%s)", e.Provider)
}

// IsNetworkError reports whether err (or any error in its chain) is a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsAPIError reports whether err (or any error in its chain) is an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsSessionExpired reports whether err (or any error in its chain) is a
// SessionExpiredError.
func IsSessionExpired(err error) bool {
	var sessErr *SessionExpiredError
	return errors.As(err, &sessErr)
}

// Inbox is a provisioned disposable mailbox: the address messages arrive at
// and the opaque credential used on every subsequent fetch. The credential
// encodes the whole session state for the provider (bearer token, sid_token,
// inbox token, or GraphQL client token plus session id).
type Inbox struct {
	Address    string `json:"address"`
	Credential string `json:"credential"`
}

// Provider defines the contract every temporary-email service must implement.
type Provider interface {
	// Name returns the provider identifier.
	Name() model.ProviderType

	// Provision performs the service's signup handshake and returns a fully
	// populated Inbox. It never returns a partially populated one. It must be
	// called (or Restore used instead) exactly once, before Fetch.
	Provision(ctx context.Context) (Inbox, error)

	// Fetch returns the current state of the inbox as the provider reports
	// it: the full message list, not a delta. Dedup is the caller's
	// responsibility. A SessionExpiredError return means the credential is
	// dead and polling must stop.
	Fetch(ctx context.Context) ([]model.Message, error)

	// Restore primes the provider with a previously provisioned inbox
	// instead of performing a new signup.
	Restore(inbox Inbox) error
}

// Options carries provider-specific provisioning knobs.
type Options struct {
	// Rush selects tempmail.lol's faster address generation endpoint.
	Rush bool
}

// Names returns the supported provider identifiers in menu order.
func Names() []model.ProviderType {
	return []model.ProviderType{
		model.ProviderGuerrillaMail,
		model.ProviderMailTM,
		model.ProviderTempMailLol,
		model.ProviderMailGW,
		model.ProviderDropMail,
	}
}

// New constructs the client for the named provider.
func New(name model.ProviderType, opts Options) (Provider, error) {
	switch name {
	case model.ProviderGuerrillaMail:
		return NewGuerrillaMail(), nil
	case model.ProviderMailTM:
		return NewMailTM(), nil
	case model.ProviderTempMailLol:
		return NewTempMailLol(opts.Rush), nil
	case model.ProviderMailGW:
		return NewMailGW(), nil
	case model.ProviderDropMail:
		return NewDropMail(), nil
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}
