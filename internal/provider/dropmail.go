package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nhle/tempmail-watcher/internal/model"
)

const dropMailBaseURL = "https://dropmail.me/api/graphql"

// DropMail talks to dropmail.me's single GraphQL endpoint. The endpoint URL
// is parameterized by a client-chosen random token; an introduceSession
// mutation yields a session id that every polling query carries as a
// variable. A null session in a polling response means the session expired.
type DropMail struct {
	api         *apiClient
	clientToken string
	sessionID   string
	address     string
}

// NewDropMail creates a dropmail.me client.
func NewDropMail() *DropMail {
	return &DropMail{
		api: newAPIClient(model.ProviderDropMail, dropMailBaseURL),
	}
}

// Name returns the provider identifier.
func (d *DropMail) Name() model.ProviderType { return model.ProviderDropMail }

const introduceSessionQuery = `
mutation {
  introduceSession {
    id
    expiresAt
    addresses {
      address
    }
  }
}`

const sessionMailsQuery = `
query($id: ID!){
  session(id: $id){
    mails{
      id
      fromAddr
      headerSubject
      text
      receivedAt
    }
  }
}`

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type dropMailIntroduceResponse struct {
	Data struct {
		IntroduceSession struct {
			ID        string `json:"id"`
			Addresses []struct {
				Address string `json:"address"`
			} `json:"addresses"`
		} `json:"introduceSession"`
	} `json:"data"`
}

type dropMailSessionResponse struct {
	Data struct {
		Session *struct {
			Mails []json.RawMessage `json:"mails"`
		} `json:"session"`
	} `json:"data"`
}

type dropMailMessage struct {
	ID            string `json:"id"`
	FromAddr      string `json:"fromAddr"`
	HeaderSubject string `json:"headerSubject"`
	Text          string `json:"text"`
	ReceivedAt    string `json:"receivedAt"`
}

// Provision introduces a new session and takes its first address.
func (d *DropMail) Provision(ctx context.Context) (Inbox, error) {
	token := randString(12)

	var resp dropMailIntroduceResponse
	req := graphqlRequest{Query: introduceSessionQuery}
	if _, err := d.api.post(ctx, "/"+token, req, &resp); err != nil {
		return Inbox{}, err
	}

	session := resp.Data.IntroduceSession
	if session.ID == "" || len(session.Addresses) == 0 || session.Addresses[0].Address == "" {
		return Inbox{}, &APIError{
			Provider: d.Name(),
			Message:  "introduceSession returned no session id or address",
		}
	}

	d.clientToken = token
	d.sessionID = session.ID
	d.address = session.Addresses[0].Address

	// Both halves of the session are needed to poll again later.
	credential := token + ":" + session.ID

	return Inbox{Address: d.address, Credential: credential}, nil
}

// Restore primes the client with a previously introduced session. The
// credential is the client token and session id joined by a colon.
func (d *DropMail) Restore(inbox Inbox) error {
	token, sessionID, ok := strings.Cut(inbox.Credential, ":")
	if !ok || inbox.Address == "" || token == "" || sessionID == "" {
		return fmt.Errorf("dropmail.me: incomplete session")
	}
	d.clientToken = token
	d.sessionID = sessionID
	d.address = inbox.Address
	return nil
}

// Fetch queries the session's mail list. A null session signals expiry.
func (d *DropMail) Fetch(ctx context.Context) ([]model.Message, error) {
	if d.sessionID == "" {
		return nil, fmt.Errorf("dropmail.me: not provisioned")
	}

	req := graphqlRequest{
		Query:     sessionMailsQuery,
		Variables: map[string]interface{}{"id": d.sessionID},
	}

	var resp dropMailSessionResponse
	if _, err := d.api.post(ctx, "/"+d.clientToken, req, &resp); err != nil {
		return nil, err
	}

	if resp.Data.Session == nil {
		return nil, &SessionExpiredError{Provider: d.Name()}
	}

	msgs := make([]model.Message, 0, len(resp.Data.Session.Mails))
	for _, raw := range resp.Data.Session.Mails {
		var m dropMailMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, &APIError{
				Provider: d.Name(),
				Message:  fmt.Sprintf("undecodable mail entry: %v", err),
			}
		}
		if m.ID == "" {
			continue
		}

		msgs = append(msgs, model.Message{
			ID:       m.ID,
			Provider: d.Name(),
			Address:  d.address,
			From:     m.FromAddr,
			Subject:  m.HeaderSubject,
			Date:     m.ReceivedAt,
			Body:     m.Text,
			Raw:      string(raw),
		})
	}

	return msgs, nil
}
