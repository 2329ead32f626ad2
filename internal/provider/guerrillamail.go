package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nhle/tempmail-watcher/internal/model"
)

const guerrillaMailBaseURL = "https://api.guerrillamail.com"

// GuerrillaMail talks to the GuerrillaMail ajax API. Every call after
// provisioning must carry the sid_token issued by get_email_address.
type GuerrillaMail struct {
	api     *apiClient
	sid     string
	address string

	// fetched caches expanded messages by id so a message body is only
	// requested once even though Fetch reports the full inbox every poll.
	fetched map[string]model.Message
}

// NewGuerrillaMail creates a GuerrillaMail client against the public API.
func NewGuerrillaMail() *GuerrillaMail {
	return &GuerrillaMail{
		api:     newAPIClient(model.ProviderGuerrillaMail, guerrillaMailBaseURL),
		fetched: make(map[string]model.Message),
	}
}

// Name returns the provider identifier.
func (g *GuerrillaMail) Name() model.ProviderType { return model.ProviderGuerrillaMail }

type guerrillaAddress struct {
	SidToken  string `json:"sid_token"`
	EmailAddr string `json:"email_addr"`
}

type guerrillaInbox struct {
	List []guerrillaListEntry `json:"list"`
}

// guerrillaListEntry carries only the id; the full message is fetched
// separately with fetch_email.
type guerrillaListEntry struct {
	// mail_id is sometimes a number and sometimes a string.
	MailID json.Number `json:"mail_id"`
}

type guerrillaMessage struct {
	MailFrom    string `json:"mail_from"`
	MailSubject string `json:"mail_subject"`
	MailDate    string `json:"mail_date"`
	MailBody    string `json:"mail_body"`
}

// Provision requests a disposable address and the session token used on
// every later call.
func (g *GuerrillaMail) Provision(ctx context.Context) (Inbox, error) {
	q := url.Values{
		"f":     {"get_email_address"},
		"ip":    {"127.0.0.1"},
		"agent": {userAgent},
	}

	var addr guerrillaAddress
	if _, err := g.api.get(ctx, "/ajax.php?"+q.Encode(), &addr); err != nil {
		return Inbox{}, err
	}
	if addr.SidToken == "" || addr.EmailAddr == "" {
		return Inbox{}, &APIError{
			Provider: g.Name(),
			Message:  "get_email_address returned no sid_token or address",
		}
	}

	g.sid = addr.SidToken
	g.address = addr.EmailAddr

	return Inbox{Address: addr.EmailAddr, Credential: addr.SidToken}, nil
}

// Restore primes the client with a previously issued sid_token.
func (g *GuerrillaMail) Restore(inbox Inbox) error {
	if inbox.Address == "" || inbox.Credential == "" {
		return fmt.Errorf("guerrillamail: incomplete session")
	}
	g.address = inbox.Address
	g.sid = inbox.Credential
	return nil
}

// Fetch lists the inbox with check_email and expands each entry with
// fetch_email into a full message.
func (g *GuerrillaMail) Fetch(ctx context.Context) ([]model.Message, error) {
	if g.sid == "" {
		return nil, fmt.Errorf("guerrillamail: not provisioned")
	}

	q := url.Values{
		"f":         {"check_email"},
		"sid_token": {g.sid},
		"seq":       {"0"},
	}

	var inbox guerrillaInbox
	if _, err := g.api.get(ctx, "/ajax.php?"+q.Encode(), &inbox); err != nil {
		return nil, err
	}

	msgs := make([]model.Message, 0, len(inbox.List))
	for _, entry := range inbox.List {
		id := entry.MailID.String()
		if id == "" {
			continue
		}
		if cached, ok := g.fetched[id]; ok {
			msgs = append(msgs, cached)
			continue
		}

		fq := url.Values{
			"f":         {"fetch_email"},
			"sid_token": {g.sid},
			"email_id":  {id},
		}

		var full guerrillaMessage
		raw, err := g.api.get(ctx, "/ajax.php?"+fq.Encode(), &full)
		if err != nil {
			return nil, err
		}

		msg := model.Message{
			ID:       id,
			Provider: g.Name(),
			Address:  g.address,
			From:     full.MailFrom,
			Subject:  full.MailSubject,
			Date:     full.MailDate,
			Body:     full.MailBody,
			Raw:      string(raw),
		}
		g.fetched[id] = msg
		msgs = append(msgs, msg)
	}

	return msgs, nil
}
