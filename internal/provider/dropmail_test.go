package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropMailProvisionAndFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch {
		case strings.Contains(req.Query, "introduceSession"):
			writeJSON(t, w, map[string]interface{}{
				"data": map[string]interface{}{
					"introduceSession": map[string]interface{}{
						"id":        "sess-1",
						"addresses": []map[string]string{{"address": "box@dropmail.me"}},
					},
				},
			})
		default:
			assert.Equal(t, "sess-1", req.Variables["id"])
			writeJSON(t, w, map[string]interface{}{
				"data": map[string]interface{}{
					"session": map[string]interface{}{
						"mails": []map[string]string{{
							"id":            "m1",
							"fromAddr":      "dave@example.org",
							"headerSubject": "Hi",
							"text":          "hello",
							"receivedAt":    "2025-01-02T03:04:05Z",
						}},
					},
				},
			})
		}
	}))
	t.Cleanup(srv.Close)

	d := NewDropMail()
	d.api.baseURL = srv.URL

	inbox, err := d.Provision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "box@dropmail.me", inbox.Address)
	require.Contains(t, inbox.Credential, ":")
	assert.True(t, strings.HasSuffix(inbox.Credential, ":sess-1"))

	msgs, err := d.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	msg := msgs[0]
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "dave@example.org", msg.From)
	assert.Equal(t, "Hi", msg.Subject)
	assert.Equal(t, "2025-01-02T03:04:05Z", msg.Date)
	assert.Equal(t, "hello", msg.Body)
}

func TestDropMailNullSessionIsExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"data": map[string]interface{}{"session": nil},
		})
	}))
	t.Cleanup(srv.Close)

	d := NewDropMail()
	d.api.baseURL = srv.URL
	require.NoError(t, d.Restore(Inbox{Address: "box@dropmail.me", Credential: "tok:sess-1"}))

	_, err := d.Fetch(context.Background())
	assert.True(t, IsSessionExpired(err))
}

func TestDropMailRestore(t *testing.T) {
	d := NewDropMail()

	require.NoError(t, d.Restore(Inbox{Address: "a@b.c", Credential: "tok:sess"}))
	assert.Equal(t, "tok", d.clientToken)
	assert.Equal(t, "sess", d.sessionID)

	assert.Error(t, d.Restore(Inbox{Address: "a@b.c", Credential: "no-colon"}))
	assert.Error(t, d.Restore(Inbox{Credential: "tok:sess"}))
}

func TestDropMailProvisionMissingAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"data": map[string]interface{}{
				"introduceSession": map[string]interface{}{
					"id":        "sess-1",
					"addresses": []interface{}{},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	d := NewDropMail()
	d.api.baseURL = srv.URL

	_, err := d.Provision(context.Background())
	assert.True(t, IsAPIError(err))
}
