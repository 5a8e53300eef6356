package proxmox

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListHAGroups(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cluster/ha/groups", r.URL.Path)
		writeData(t, w, []HAGroup{
			{Group: "ha-prod", Nodes: "pve1:2,pve2:1", Restricted: true, Digest: "abc"},
		})
	}))

	groups, err := client.ListHAGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "pve1:2,pve2:1", groups[0].Nodes)
	assert.True(t, groups[0].Restricted.Bool())
}

func TestCreateHAEntitiesFormKeys(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantKey string
		wantVal string
		call    func(c *Client, ctx context.Context) error
	}{
		{
			name:    "group",
			path:    "/cluster/ha/groups",
			wantKey: "group",
			wantVal: "ha-prod",
			call: func(c *Client, ctx context.Context) error {
				return c.CreateHAGroup(ctx, "ha-prod", NewParams().Set("nodes", "pve1,pve2"))
			},
		},
		{
			name:    "resource",
			path:    "/cluster/ha/resources",
			wantKey: "sid",
			wantVal: "vm:100",
			call: func(c *Client, ctx context.Context) error {
				return c.CreateHAResource(ctx, "vm:100", NewParams().Set("state", "started"))
			},
		},
		{
			name:    "rule",
			path:    "/cluster/ha/rules",
			wantKey: "rule",
			wantVal: "keep-apart",
			call: func(c *Client, ctx context.Context) error {
				return c.CreateHARule(ctx, "keep-apart", NewParams().Set("type", "resource-affinity"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, tt.wantVal, r.Form.Get(tt.wantKey))
				writeData(t, w, nil)
			}))

			require.NoError(t, tt.call(client, context.Background()))
		})
	}
}

func TestUpdateHAResourcePath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cluster/ha/resources/vm:100", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "disabled", r.Form.Get("state"))
		writeData(t, w, nil)
	}))

	err := client.UpdateHAResource(context.Background(), "vm:100", NewParams().Set("state", "disabled"))
	require.NoError(t, err)
}

func TestDeleteHARulePath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cluster/ha/rules/keep-apart", r.URL.Path)
		writeData(t, w, nil)
	}))

	require.NoError(t, client.DeleteHARule(context.Background(), "keep-apart"))
}
