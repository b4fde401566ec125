package config

// Defaults applied before any config file, env var or flag.
const (
	DefaultOutDir   = "artifacts"
	DefaultPackage  = "artifacts"
	DefaultLayout   = LayoutFoundry
	DefaultTestMode = TestModeAnvil
	DefaultRPCURL   = "http://127.0.0.1:8545"

	// DefaultHardhatOutDir stays clear of Hardhat's own artifacts directory.
	DefaultHardhatOutDir = "gen/artifacts"
)

// DefaultOutDirFor returns the default output directory for a layout
func DefaultOutDirFor(layout ArtifactLayout) string {
	if layout == LayoutHardhat {
		return DefaultHardhatOutDir
	}
	return DefaultOutDir
}

// ValidTestModes returns all supported test-client modes
func ValidTestModes() []TestMode {
	return []TestMode{TestModeAnvil, TestModeHardhat, TestModeGanache}
}

// IsValidTestMode checks if a mode is supported
func IsValidTestMode(mode string) bool {
	for _, valid := range ValidTestModes() {
		if string(valid) == mode {
			return true
		}
	}
	return false
}
