package credential

import (
	"encoding/json"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/provider"
)

const serviceName = "tempmail-watcher"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/tempmail-watcher/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("tempmail-watcher-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// SaveSession stores the provisioned inbox for a provider so a later run
// with --resume can reuse it. Provider-side expiry is not tracked here; a
// dead session surfaces as a fetch failure when resumed.
func SaveSession(name model.ProviderType, inbox provider.Inbox) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	data, err := json.Marshal(inbox)
	if err != nil {
		return fmt.Errorf("encoding session for %s: %w", name, err)
	}

	err = ring.Set(keyring.Item{
		Key:  string(name),
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("saving session for %s: %w", name, err)
	}

	return nil
}

// LoadSession retrieves the last saved inbox for a provider.
func LoadSession(name model.ProviderType) (provider.Inbox, error) {
	ring, err := openKeyring()
	if err != nil {
		return provider.Inbox{}, err
	}

	item, err := ring.Get(string(name))
	if err != nil {
		return provider.Inbox{}, fmt.Errorf("loading session for %s: %w", name, err)
	}

	var inbox provider.Inbox
	if err := json.Unmarshal(item.Data, &inbox); err != nil {
		return provider.Inbox{}, fmt.Errorf("decoding session for %s: %w", name, err)
	}

	return inbox, nil
}

// DeleteSession removes the saved inbox for a provider.
func DeleteSession(name model.ProviderType) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(string(name)); err != nil {
		return fmt.Errorf("deleting session for %s: %w", name, err)
	}

	return nil
}
