package provider

import (
	"context"
	"fmt"

	"github.com/nhle/tempmail-watcher/internal/model"
)

const (
	mailTMBaseURL = "https://api.mail.tm"
	mailGWBaseURL = "https://api.mail.gw"
)

// HydraMail implements the hydra-flavored REST API shared byte-for-byte by
// mail.tm and mail.gw: domain lookup, account creation, bearer-token
// exchange, then authorized message listing. The two services differ only in
// host.
type HydraMail struct {
	name    model.ProviderType
	api     *apiClient
	address string

	fetched map[string]model.Message
}

// NewMailTM creates a client for mail.tm.
func NewMailTM() *HydraMail {
	return newHydraMail(model.ProviderMailTM, mailTMBaseURL)
}

// NewMailTMAt creates a mail.tm-compatible client rooted at baseURL, for
// self-hosted hydra instances.
func NewMailTMAt(baseURL string) *HydraMail {
	return newHydraMail(model.ProviderMailTM, baseURL)
}

// NewMailGW creates a client for mail.gw.
func NewMailGW() *HydraMail {
	return newHydraMail(model.ProviderMailGW, mailGWBaseURL)
}

func newHydraMail(name model.ProviderType, baseURL string) *HydraMail {
	return &HydraMail{
		name:    name,
		api:     newAPIClient(name, baseURL),
		fetched: make(map[string]model.Message),
	}
}

// Name returns the provider identifier.
func (h *HydraMail) Name() model.ProviderType { return h.name }

type hydraDomains struct {
	Members []struct {
		Domain string `json:"domain"`
	} `json:"hydra:member"`
}

type hydraToken struct {
	Token string `json:"token"`
}

type hydraMessages struct {
	Members []struct {
		ID string `json:"id"`
	} `json:"hydra:member"`
}

type hydraMessage struct {
	From struct {
		Address string `json:"address"`
	} `json:"from"`
	Subject   string `json:"subject"`
	CreatedAt string `json:"createdAt"`
	Text      string `json:"text"`
}

// Provision looks up an available domain, creates a throwaway account under
// it and exchanges the credentials for a bearer token.
func (h *HydraMail) Provision(ctx context.Context) (Inbox, error) {
	var domains hydraDomains
	if _, err := h.api.get(ctx, "/domains?page=1", &domains); err != nil {
		return Inbox{}, err
	}
	if len(domains.Members) == 0 || domains.Members[0].Domain == "" {
		return Inbox{}, &APIError{
			Provider: h.name,
			Message:  "domain lookup returned no domains",
		}
	}

	address := randString(10) + "@" + domains.Members[0].Domain
	password := randString(12)
	account := map[string]string{"address": address, "password": password}

	if _, err := h.api.post(ctx, "/accounts", account, nil); err != nil {
		return Inbox{}, err
	}

	var token hydraToken
	if _, err := h.api.post(ctx, "/token", account, &token); err != nil {
		return Inbox{}, err
	}
	if token.Token == "" {
		return Inbox{}, &APIError{
			Provider: h.name,
			Message:  "token exchange returned no token",
		}
	}

	h.address = address
	h.api.authHeader = "Bearer " + token.Token

	return Inbox{Address: address, Credential: token.Token}, nil
}

// Restore primes the client with a previously issued bearer token.
func (h *HydraMail) Restore(inbox Inbox) error {
	if inbox.Address == "" || inbox.Credential == "" {
		return fmt.Errorf("%s: incomplete session", h.name)
	}
	h.address = inbox.Address
	h.api.authHeader = "Bearer " + inbox.Credential
	return nil
}

// Fetch lists message ids and expands each one into a full message.
func (h *HydraMail) Fetch(ctx context.Context) ([]model.Message, error) {
	if h.api.authHeader == "" {
		return nil, fmt.Errorf("%s: not provisioned", h.name)
	}

	var inbox hydraMessages
	if _, err := h.api.get(ctx, "/messages", &inbox); err != nil {
		return nil, err
	}

	msgs := make([]model.Message, 0, len(inbox.Members))
	for _, entry := range inbox.Members {
		if entry.ID == "" {
			continue
		}
		if cached, ok := h.fetched[entry.ID]; ok {
			msgs = append(msgs, cached)
			continue
		}

		var full hydraMessage
		raw, err := h.api.get(ctx, "/messages/"+entry.ID, &full)
		if err != nil {
			return nil, err
		}

		msg := model.Message{
			ID:       entry.ID,
			Provider: h.name,
			Address:  h.address,
			From:     full.From.Address,
			Subject:  full.Subject,
			Date:     full.CreatedAt,
			Body:     full.Text,
			Raw:      string(raw),
		}
		h.fetched[entry.ID] = msg
		msgs = append(msgs, msg)
	}

	return msgs, nil
}
