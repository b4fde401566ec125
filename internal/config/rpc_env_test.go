package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEnvVar(t *testing.T) {
	tests := []struct {
		name       string
		rawValue   string
		wantEnvVar string
		wantIsVar  bool
	}{
		{
			name:       "simple env var",
			rawValue:   "${SEPOLIA_RPC_URL}",
			wantEnvVar: "SEPOLIA_RPC_URL",
			wantIsVar:  true,
		},
		{
			name:       "env var with underscores",
			rawValue:   "${CELO_SEPOLIA_RPC_URL}",
			wantEnvVar: "CELO_SEPOLIA_RPC_URL",
			wantIsVar:  true,
		},
		{
			name:       "hardcoded URL",
			rawValue:   "https://sepolia.base.org",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "env var with path suffix",
			rawValue:   "${MY_VAR}/path",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "empty string",
			rawValue:   "",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "localhost URL",
			rawValue:   "http://localhost:8545",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "env var starting with underscore",
			rawValue:   "${_MY_VAR}",
			wantEnvVar: "_MY_VAR",
			wantIsVar:  true,
		},
		{
			name:       "partial env var syntax - missing closing brace",
			rawValue:   "${UNCLOSED",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "dollar without braces",
			rawValue:   "$MY_VAR",
			wantEnvVar: "",
			wantIsVar:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envVar, isVar := DetectEnvVar(tt.rawValue)
			assert.Equal(t, tt.wantEnvVar, envVar)
			assert.Equal(t, tt.wantIsVar, isVar)
		})
	}
}

func TestLoadRawRPCEndpoint(t *testing.T) {
	tmpDir := t.TempDir()
	foundryContent := `[rpc_endpoints]
sepolia = "${SEPOLIA_RPC_URL}"
celo-sepolia = "https://forno.celo-sepolia.celo-testnet.org"
anvil-31337 = "http://localhost:8545"
`
	err := os.WriteFile(filepath.Join(tmpDir, "foundry.toml"), []byte(foundryContent), 0644)
	require.NoError(t, err)

	t.Run("reads env var reference without expanding", func(t *testing.T) {
		raw, err := LoadRawRPCEndpoint(tmpDir, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, "${SEPOLIA_RPC_URL}", raw)
	})

	t.Run("reads hardcoded URL", func(t *testing.T) {
		raw, err := LoadRawRPCEndpoint(tmpDir, "celo-sepolia")
		require.NoError(t, err)
		assert.Equal(t, "https://forno.celo-sepolia.celo-testnet.org", raw)
	})

	t.Run("reads localhost URL", func(t *testing.T) {
		raw, err := LoadRawRPCEndpoint(tmpDir, "anvil-31337")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8545", raw)
	})

	t.Run("error on missing network", func(t *testing.T) {
		_, err := LoadRawRPCEndpoint(tmpDir, "nonexistent")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("error on missing foundry.toml", func(t *testing.T) {
		_, err := LoadRawRPCEndpoint(t.TempDir(), "sepolia")
		assert.Error(t, err)
	})
}
