package proxmox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvekit/pvekit/internal/config"
)

// newTestClient points a token-authenticated client at an httptest server.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conn := &config.Connection{
		Host:        "pve.example.com",
		Port:        8006,
		User:        "automation@pve",
		TokenID:     "ci",
		TokenSecret: "00000000-0000-0000-0000-000000000000",
	}
	client, err := NewClient(conn,
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithTimeouts(config.TestTimeouts()),
		WithRateLimit(1000, 1000),
	)
	require.NoError(t, err)
	return client, srv
}

func writeData(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func TestDoDecodesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version", r.URL.Path)
		writeData(t, w, map[string]string{"version": "8.4.1", "release": "8.4"})
	}))

	v, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.4.1", v.Version)
}

func TestDoHandlesNullData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	}))

	err := client.UpdateGroup(context.Background(), "admins", "updated")
	require.NoError(t, err)
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "pveproxy overloaded", http.StatusServiceUnavailable)
			return
		}
		writeData(t, w, []Node{{Node: "pve1", Status: "online"}})
	}))

	nodes, err := client.ListNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUpAfterRetries(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))

	_, err := client.ListNodes(context.Background())
	require.Error(t, err)
	assert.Equal(t, transportRetries+1, calls)
}

func TestDoReturnsClientErrorsImmediately(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"data":null,"message":"Parameter verification failed.","errors":{"vmid":"invalid format"}}`))
	}))

	err := client.CreatePool(context.Background(), "prod", "")
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Parameter verification failed.")
	assert.Contains(t, apiErr.Error(), "vmid: invalid format")
}

func TestTokenAuthHeader(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t,
			"PVEAPIToken=automation@pve!ci=00000000-0000-0000-0000-000000000000",
			r.Header.Get("Authorization"))
		writeData(t, w, map[string]string{"version": "8.4.1"})
	}))

	_, err := client.Version(context.Background())
	require.NoError(t, err)
}

func TestTicketAuthSendsCookieAndCSRF(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /access/ticket", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "root@pam", r.Form.Get("username"))
		writeData(t, w, map[string]string{
			"ticket":              "PVE:root@pam:TICKET",
			"CSRFPreventionToken": "CSRF-TOKEN",
		})
	})
	mux.HandleFunc("PUT /access/groups/admins", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("PVEAuthCookie")
		require.NoError(t, err)
		assert.Equal(t, "PVE:root@pam:TICKET", cookie.Value)
		assert.Equal(t, "CSRF-TOKEN", r.Header.Get("CSRFPreventionToken"))
		writeData(t, w, nil)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	conn := &config.Connection{
		Host:     "pve.example.com",
		Port:     8006,
		User:     "root@pam",
		Password: "hunter2",
	}
	client, err := NewClient(conn,
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithTimeouts(config.TestTimeouts()),
		WithRateLimit(1000, 1000),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))
	require.NoError(t, client.UpdateGroup(ctx, "admins", "ops group"))
}

func TestGetSendsQueryParameters(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage", r.URL.Path)
		assert.Equal(t, "nfs", r.URL.Query().Get("type"))
		writeData(t, w, []Storage{{Storage: "backup", Type: "nfs"}})
	}))

	storages, err := client.ListStorages(context.Background(), "nfs")
	require.NoError(t, err)
	require.Len(t, storages, 1)
	assert.Equal(t, "backup", storages[0].Storage)
}

func TestWriteSendsFormBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "prod", r.Form.Get("poolid"))
		assert.Equal(t, "production guests", r.Form.Get("comment"))
		writeData(t, w, nil)
	}))

	err := client.CreatePool(context.Background(), "prod", "production guests")
	require.NoError(t, err)
}
