package proxmox

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNodeFiltersList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nodes", r.URL.Path)
		writeData(t, w, []Node{
			{Node: "pve1", Status: "online", MaxCPU: 16},
			{Node: "pve2", Status: "offline"},
		})
	}))

	ctx := context.Background()

	node, err := client.GetNode(ctx, "pve2")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "offline", node.Status)

	missing, err := client.GetNode(ctx, "pve9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNodeDNSRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nodes/pve1/dns", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeData(t, w, NodeDNS{Search: "example.com", DNS1: "10.0.0.1"})
		case http.MethodPut:
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "example.com", r.Form.Get("search"))
			assert.Equal(t, "10.0.0.1", r.Form.Get("dns1"))
			assert.Equal(t, "10.0.0.2", r.Form.Get("dns2"))
			writeData(t, w, nil)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	ctx := context.Background()

	dns, err := client.GetNodeDNS(ctx, "pve1")
	require.NoError(t, err)
	assert.Equal(t, "example.com", dns.Search)

	dns.DNS2 = "10.0.0.2"
	require.NoError(t, client.SetNodeDNS(ctx, "pve1", *dns))
}

func TestShutdownNodeCommand(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/nodes/pve1/status", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "shutdown", r.Form.Get("command"))
		writeData(t, w, nil)
	}))

	require.NoError(t, client.ShutdownNode(context.Background(), "pve1"))
}

func TestWakeNode(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/nodes/pve2/wakeonlan", r.URL.Path)
		writeData(t, w, nil)
	}))

	require.NoError(t, client.WakeNode(context.Background(), "pve2"))
}
