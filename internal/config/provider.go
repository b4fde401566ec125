package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/artigen/internal/domain/config"
	"golang.org/x/mod/modfile"
)

// projectMarkers identify the root of a Foundry or Hardhat project
var projectMarkers = []string{
	"foundry.toml",
	"hardhat.config.ts",
	"hardhat.config.js",
	"hardhat.config.cjs",
	"hardhat.config.mjs",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".artigen"),
		PackageName:    v.GetString("package"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
	}

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig
	profile := foundryConfig.DefaultProfile()

	switch layout := config.ArtifactLayout(v.GetString("layout")); layout {
	case config.LayoutFoundry:
		cfg.Layout = layout
		cfg.ArtifactsDir = resolvePath(projectRoot, profile.OutPath)
		cfg.SourcesDir = resolvePath(projectRoot, profile.SrcPath)
	case config.LayoutHardhat:
		cfg.Layout = layout
		cfg.ArtifactsDir = resolvePath(projectRoot, "artifacts")
		cfg.SourcesDir = resolvePath(projectRoot, "contracts")
	default:
		return nil, fmt.Errorf("unknown artifact layout %q (valid: foundry, hardhat)", layout)
	}
	if dir := v.GetString("artifacts_dir"); dir != "" {
		cfg.ArtifactsDir = resolvePath(projectRoot, dir)
	}

	outDir := v.GetString("out_dir")
	if outDir == "" {
		outDir = config.DefaultOutDirFor(cfg.Layout)
	}
	cfg.OutputDir = resolvePath(projectRoot, outDir)
	if err := checkOutputDir(cfg); err != nil {
		return nil, err
	}
	cfg.ImportPath = v.GetString("import_path")
	if cfg.ImportPath == "" {
		// Without a go.mod the project-level lookup cannot import the
		// per-source packages; the compile step reports that.
		cfg.ImportPath, _ = ResolveImportPath(cfg.OutputDir)
	}

	mode := v.GetString("test_mode")
	if !config.IsValidTestMode(mode) {
		return nil, fmt.Errorf("unknown test mode %q (valid: anvil, hardhat, ganache)", mode)
	}
	cfg.TestMode = config.TestMode(mode)

	network, err := resolveNetwork(projectRoot, foundryConfig, v.GetString("network"), v.GetString("rpc_url"))
	if err != nil {
		return nil, err
	}
	cfg.Network = network

	return cfg, nil
}

// resolveNetwork picks the RPC endpoint: an explicit URL wins, then a named
// foundry.toml endpoint, then the local node for "localhost" or no name.
func resolveNetwork(projectRoot string, foundryConfig *config.FoundryConfig, name, rpcURL string) (*config.Network, error) {
	if rpcURL != "" {
		if name == "" {
			name = "custom"
		}
		return &config.Network{Name: name, RPCURL: rpcURL}, nil
	}
	if name == "" || name == "localhost" {
		if url, ok := foundryConfig.RpcEndpoints["localhost"]; ok && url != "" {
			return &config.Network{Name: "localhost", RPCURL: url}, nil
		}
		return &config.Network{Name: "localhost", RPCURL: config.DefaultRPCURL}, nil
	}
	url, ok := foundryConfig.RpcEndpoints[name]
	if !ok {
		return nil, fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints]", name)
	}
	if url == "" {
		return nil, emptyEndpointError(projectRoot, name)
	}
	return &config.Network{Name: name, RPCURL: url}, nil
}

// ResolveImportPath walks up from dir to the nearest go.mod and joins its
// module path with dir's position inside the module.
func ResolveImportPath(dir string) (string, error) {
	current := dir
	for {
		data, err := os.ReadFile(filepath.Join(current, "go.mod"))
		if err == nil {
			module := modfile.ModulePath(data)
			if module == "" {
				return "", fmt.Errorf("no module directive in %s", filepath.Join(current, "go.mod"))
			}
			rel, err := filepath.Rel(current, dir)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return module, nil
			}
			return module + "/" + filepath.ToSlash(rel), nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no go.mod found above %s", dir)
		}
		current = parent
	}
}

// FindProjectRoot walks up from current directory to find a project marker
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Foundry or Hardhat project (foundry.toml not found)")
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".artigen"))

	// Set up environment variables
	v.SetEnvPrefix("ARTIGEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("package", config.DefaultPackage)
	v.SetDefault("layout", string(config.DefaultLayout))
	v.SetDefault("test_mode", string(config.DefaultTestMode))

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			// Only flags the user set override file and env values
			if !f.Changed {
				return
			}
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// checkOutputDir rejects output directories whose removal by clean or the
// stale-output reaper would reach the project or the compiler's artifacts.
func checkOutputDir(cfg *config.RuntimeConfig) error {
	if cfg.OutputDir == cfg.ArtifactsDir {
		return fmt.Errorf("out_dir %s is the compiler's artifacts directory; choose another", cfg.OutputDir)
	}
	if isWithin(cfg.OutputDir, cfg.ProjectRoot) {
		return fmt.Errorf("out_dir %s contains the project root; choose a subdirectory", cfg.OutputDir)
	}
	if isWithin(cfg.OutputDir, cfg.ArtifactsDir) {
		return fmt.Errorf("out_dir %s contains the compiler's artifacts directory %s; choose another", cfg.OutputDir, cfg.ArtifactsDir)
	}
	return nil
}

// isWithin reports whether path is dir or lies below it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
