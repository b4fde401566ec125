package config

import (
	"time"
)

// ArtifactLayout selects how compiled artifacts are laid out on disk.
type ArtifactLayout string

const (
	LayoutFoundry ArtifactLayout = "foundry"
	LayoutHardhat ArtifactLayout = "hardhat"
)

// TestMode selects the RPC dialect of the test-control client.
type TestMode string

const (
	TestModeAnvil   TestMode = "anvil"
	TestModeHardhat TestMode = "hardhat"
	TestModeGanache TestMode = "ganache"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Compiler settings
	Layout       ArtifactLayout
	ArtifactsDir string // absolute path of compiler output
	SourcesDir   string

	// Code generation settings
	OutputDir   string // absolute path of generated packages
	PackageName string // package of the project-level lookup file
	ImportPath  string // Go import path of OutputDir

	// Chain settings
	Network  *Network // nil if no chain is reachable by configuration
	TestMode TestMode

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// Network represents network configuration
type Network struct {
	Name   string `json:"name"`
	RPCURL string `json:"rpcUrl"`
}
