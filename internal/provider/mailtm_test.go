package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tempmail-watcher/internal/model"
)

// newHydraTestServer simulates the mail.tm API surface used by HydraMail.
// messages maps a message id to its detail payload.
func newHydraTestServer(t *testing.T, messages map[string]map[string]interface{}, order *[]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/domains", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"hydra:member": []map[string]string{{"domain": "example.com"}},
		})
	})
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["address"], "@example.com")
		assert.NotEmpty(t, body["password"])
		writeJSON(t, w, map[string]string{"id": "acct-1"})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"token": "tok-123"})
	})
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		var members []map[string]string
		for _, id := range *order {
			members = append(members, map[string]string{"id": id})
		}
		writeJSON(t, w, map[string]interface{}{"hydra:member": members})
	})
	mux.HandleFunc("/messages/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/messages/"):]
		detail, ok := messages[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, detail)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestHydraMailProvisionAndFetch(t *testing.T) {
	order := []string{"1"}
	srv := newHydraTestServer(t, map[string]map[string]interface{}{
		"1": {
			"from":      map[string]string{"address": "alice@example.org"},
			"subject":   "Hi",
			"createdAt": "2025-01-02T03:04:05.000Z",
			"text":      "hello there",
		},
	}, &order)

	p := NewMailTM()
	p.api.baseURL = srv.URL

	inbox, err := p.Provision(context.Background())
	require.NoError(t, err)
	assert.Contains(t, inbox.Address, "@example.com")
	assert.Equal(t, "tok-123", inbox.Credential)

	msgs, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	msg := msgs[0]
	assert.Equal(t, "1", msg.ID)
	assert.Equal(t, model.ProviderMailTM, msg.Provider)
	assert.Equal(t, inbox.Address, msg.Address)
	assert.Equal(t, "alice@example.org", msg.From)
	assert.Equal(t, "Hi", msg.Subject)
	assert.Equal(t, "2025-01-02T03:04:05.000Z", msg.Date)
	assert.Equal(t, "hello there", msg.Body)
	assert.Contains(t, msg.Raw, "hello there")
}

func TestHydraMailProvisionNoDomains(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/domains", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{"hydra:member": []interface{}{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := NewMailGW()
	p.api.baseURL = srv.URL

	inbox, err := p.Provision(context.Background())
	assert.True(t, IsAPIError(err))
	assert.Empty(t, inbox.Address)
	assert.Empty(t, inbox.Credential)
}

func TestHydraMailProvisionNetworkError(t *testing.T) {
	p := NewMailTM()
	// Nothing listens here.
	p.api.baseURL = "http://127.0.0.1:1"

	inbox, err := p.Provision(context.Background())
	assert.True(t, IsNetworkError(err))
	assert.Empty(t, inbox.Address)
	assert.Empty(t, inbox.Credential)
}

func TestHydraMailFetchCachesDetails(t *testing.T) {
	detailCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"hydra:member": []map[string]string{{"id": "1"}},
		})
	})
	mux.HandleFunc("/messages/1", func(w http.ResponseWriter, r *http.Request) {
		detailCalls++
		writeJSON(t, w, map[string]interface{}{"subject": "Hi", "text": "x"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := NewMailTM()
	p.api.baseURL = srv.URL
	require.NoError(t, p.Restore(Inbox{Address: "a@example.com", Credential: "tok"}))

	for i := 0; i < 3; i++ {
		msgs, err := p.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "Hi", msgs[0].Subject)
	}

	assert.Equal(t, 1, detailCalls)
}

func TestHydraMailFetchBeforeProvision(t *testing.T) {
	p := NewMailTM()
	_, err := p.Fetch(context.Background())
	assert.Error(t, err)
}
