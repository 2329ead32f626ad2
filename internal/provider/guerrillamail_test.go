package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tempmail-watcher/internal/model"
)

func newGuerrillaTestServer(t *testing.T, fetchCalls *int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("f") {
		case "get_email_address":
			writeJSON(t, w, map[string]string{
				"sid_token":  "sid-1",
				"email_addr": "box@guerrillamailblock.com",
			})
		case "check_email":
			assert.Equal(t, "sid-1", r.URL.Query().Get("sid_token"))
			assert.Equal(t, "0", r.URL.Query().Get("seq"))
			writeJSON(t, w, map[string]interface{}{
				// One numeric id and one string id, as the API mixes both.
				"list": []map[string]interface{}{
					{"mail_id": 7},
					{"mail_id": "8"},
				},
			})
		case "fetch_email":
			if fetchCalls != nil {
				*fetchCalls++
			}
			writeJSON(t, w, map[string]string{
				"mail_from":    "bob@example.org",
				"mail_subject": "msg " + r.URL.Query().Get("email_id"),
				"mail_date":    "2025-01-02 03:04:05",
				"mail_body":    "body",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGuerrillaMailProvisionAndFetch(t *testing.T) {
	fetchCalls := 0
	srv := newGuerrillaTestServer(t, &fetchCalls)

	g := NewGuerrillaMail()
	g.api.baseURL = srv.URL

	inbox, err := g.Provision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "box@guerrillamailblock.com", inbox.Address)
	assert.Equal(t, "sid-1", inbox.Credential)

	msgs, err := g.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "7", msgs[0].ID)
	assert.Equal(t, "8", msgs[1].ID)
	assert.Equal(t, model.ProviderGuerrillaMail, msgs[0].Provider)
	assert.Equal(t, "box@guerrillamailblock.com", msgs[0].Address)
	assert.Equal(t, "bob@example.org", msgs[0].From)
	assert.Equal(t, "msg 7", msgs[0].Subject)
	assert.Equal(t, "2025-01-02 03:04:05", msgs[0].Date)
	assert.Equal(t, "body", msgs[0].Body)

	// A second poll reports the same inbox without re-expanding.
	msgs, err = g.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
	assert.Equal(t, 2, fetchCalls)
}

func TestGuerrillaMailProvisionMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"email_addr": "box@guerrillamailblock.com"})
	}))
	t.Cleanup(srv.Close)

	g := NewGuerrillaMail()
	g.api.baseURL = srv.URL

	_, err := g.Provision(context.Background())
	assert.True(t, IsAPIError(err))
}

func TestGuerrillaMailRestore(t *testing.T) {
	g := NewGuerrillaMail()
	require.NoError(t, g.Restore(Inbox{Address: "a@b.c", Credential: "sid-9"}))
	assert.Equal(t, "sid-9", g.sid)

	assert.Error(t, g.Restore(Inbox{Address: "a@b.c"}))
}

func TestGuerrillaMailFetchBeforeProvision(t *testing.T) {
	g := NewGuerrillaMail()
	_, err := g.Fetch(context.Background())
	assert.Error(t, err)
}
