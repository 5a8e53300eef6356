package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	cmd := Apply()

	require.NotNil(t, cmd)
	assert.Equal(t, "apply", cmd.Use)
	assert.Equal(t, "Reconcile the cluster towards the manifest", cmd.Short)
}

func TestApply_Flags(t *testing.T) {
	cmd := Apply()

	configFlag := cmd.Flags().Lookup("config")
	require.NotNil(t, configFlag, "config flag should exist")
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	checkFlag := cmd.Flags().Lookup("check")
	require.NotNil(t, checkFlag, "check flag should exist")
	assert.Equal(t, "false", checkFlag.DefValue)
}

func TestApply_RunE(t *testing.T) {
	cmd := Apply()
	assert.NotNil(t, cmd.RunE, "Apply command should have RunE function")
}
