package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardResultToManifest(t *testing.T) {
	t.Run("token auth with stored credentials", func(t *testing.T) {
		r := &WizardResult{
			Cluster:          "homelab",
			Host:             "pve.example.com",
			Port:             "8006",
			User:             "automation@pve",
			AuthMethod:       AuthToken,
			TokenID:          "pvekit",
			TokenSecret:      "s3cret",
			ValidateCerts:    true,
			StoreCredentials: true,
		}

		m := r.ToManifest()
		require.NotNil(t, m.Connection)
		assert.Equal(t, "homelab", m.Cluster)
		assert.Equal(t, "pve.example.com", m.Connection.Host)
		assert.Zero(t, m.Connection.Port, "default port stays implicit")
		assert.Equal(t, "pvekit", m.Connection.TokenID)
		assert.Equal(t, "s3cret", m.Connection.TokenSecret)
		assert.Empty(t, m.Connection.Password)
		assert.Nil(t, m.Connection.ValidateCerts)
	})

	t.Run("credentials kept out of the manifest", func(t *testing.T) {
		r := &WizardResult{
			Cluster:          "homelab",
			Host:             "10.0.0.2",
			Port:             "443",
			User:             "root@pam",
			AuthMethod:       AuthPassword,
			Password:         "hunter2",
			StoreCredentials: false,
		}

		m := r.ToManifest()
		require.NotNil(t, m.Connection)
		assert.Equal(t, 443, m.Connection.Port)
		assert.Empty(t, m.Connection.Password)
		assert.Empty(t, m.Connection.TokenID)
		require.NotNil(t, m.Connection.ValidateCerts)
		assert.False(t, *m.Connection.ValidateCerts)
	})
}

func TestWriteManifestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pvekit.yaml")
	m := &Manifest{
		Cluster: "homelab",
		Connection: &Connection{
			Host: "pve.example.com",
			User: "root@pam",
		},
	}

	require.NoError(t, WriteManifestYAML(m, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "homelab", loaded.Cluster)
	require.NotNil(t, loaded.Connection)
	assert.Equal(t, "pve.example.com", loaded.Connection.Host)
}

func TestWizardValidators(t *testing.T) {
	assert.Error(t, validateWizardName("  "))
	assert.NoError(t, validateWizardName("homelab"))

	assert.Error(t, validateWizardHost(""))
	assert.Error(t, validateWizardHost("https://pve.example.com"))
	assert.NoError(t, validateWizardHost("pve.example.com"))

	assert.Error(t, validateWizardPort("not-a-port"))
	assert.Error(t, validateWizardPort("70000"))
	assert.NoError(t, validateWizardPort("8006"))

	assert.Error(t, validateWizardUser("root"))
	assert.NoError(t, validateWizardUser("root@pam"))
}
