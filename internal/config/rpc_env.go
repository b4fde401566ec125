package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/artigen/internal/domain/config"
)

// envVarPattern matches a whole ${VAR_NAME} value
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar reports the variable name of a raw value that is exactly one
// ${VAR_NAME} reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// LoadRawRPCEndpoint reads one [rpc_endpoints] value from foundry.toml
// before environment expansion.
func LoadRawRPCEndpoint(projectRoot string, networkName string) (string, error) {
	var cfg config.FoundryConfig
	if _, err := toml.DecodeFile(filepath.Join(projectRoot, "foundry.toml"), &cfg); err != nil {
		return "", fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	raw, ok := cfg.RpcEndpoints[networkName]
	if !ok {
		return "", fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints]", networkName)
	}
	return raw, nil
}

// emptyEndpointError explains why a configured endpoint expanded to nothing
func emptyEndpointError(projectRoot, networkName string) error {
	raw, err := LoadRawRPCEndpoint(projectRoot, networkName)
	if err == nil {
		if name, ok := DetectEnvVar(raw); ok {
			return fmt.Errorf("network '%s' reads its RPC URL from %s, which is not set (add it to .env)", networkName, name)
		}
	}
	return fmt.Errorf("network '%s' has an empty RPC URL (is its environment variable set?)", networkName)
}
