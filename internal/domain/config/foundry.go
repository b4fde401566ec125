package config

// FoundryConfig represents the parts of foundry.toml artigen reads
type FoundryConfig struct {
	Profile      map[string]ProfileConfig `toml:"profile"`
	RpcEndpoints map[string]string        `toml:"rpc_endpoints"`
}

// ProfileConfig represents a profile's foundry configuration
type ProfileConfig struct {
	SrcPath     string   `toml:"src,omitempty"`
	OutPath     string   `toml:"out,omitempty"`
	LibPaths    []string `toml:"libs,omitempty"`
	SolcVersion string   `toml:"solc_version,omitempty"`
}

// DefaultProfile returns the default profile, falling back to Foundry's
// built-in paths for unset fields.
func (c *FoundryConfig) DefaultProfile() ProfileConfig {
	profile := ProfileConfig{}
	if c != nil {
		profile = c.Profile["default"]
	}
	if profile.SrcPath == "" {
		profile.SrcPath = "src"
	}
	if profile.OutPath == "" {
		profile.OutPath = "out"
	}
	return profile
}
