package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// RuntimeConfig is re-exported so adapters only import this package for wiring
type RuntimeConfig = config.RuntimeConfig

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		// Try to find project root
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	projectConfig, err := loadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &RuntimeConfig{
		ProjectRoot:    projectRoot,
		ArtifactsDir:   resolvePath(projectRoot, projectConfig.ArtifactsDir),
		DeploymentsDir: resolvePath(projectRoot, projectConfig.DeploymentsDir),
		ProxyUnit:      projectConfig.ProxyUnit,
		BuildCommand:   projectConfig.BuildCommand,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Yes:            v.GetBool("yes"),
		Build:          v.GetBool("build"),
		Timeout:        v.GetDuration("timeout"),
		ProjectConfig:  projectConfig,
		Senders:        projectConfig.Senders,
	}

	// Resolve network if specified
	if networkName := v.GetString("network"); networkName != "" {
		network, err := resolveNetwork(projectConfig, networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find catapult.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, config.ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding catapult.toml
			return "", fmt.Errorf("not in a catapult project (%s not found)", config.ProjectFile)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("CATAPULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "30m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("yes", false)
	v.SetDefault("build", false)
	v.SetDefault("project_root", projectRoot)

	return v
}
