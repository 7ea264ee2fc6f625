package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/3GHCRE/atlas-sub000/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3030"

var (
	apiClient *client.Client
	flagURL   string
	flagKey   string
	flagFmt   string
	flagProf  string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("atlas version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("atlas version %s-dev", version)
}

type configFile struct {
	URL           string                   `yaml:"url"`
	APIKey        string                   `yaml:"api_key"`
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "atlas",
		Short:   "Atlas CLI: explore the ownership network",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagKey != "" {
				opts = append(opts, client.WithAPIKey(flagKey))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Atlas server URL (env: ATLAS_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "API key (env: ATLAS_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table")
	rootCmd.PersistentFlags().StringVar(&flagProf, "profile", "", "Config profile (default: active_profile)")

	rootCmd.AddCommand(newTraverseCmd())
	rootCmd.AddCommand(newNodeCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig fills flagURL and flagKey. Flags take precedence, then env,
// then ~/.atlas/config.yaml.
func resolveConfig() {
	if flagURL == defaultURL {
		if v := os.Getenv("ATLAS_URL"); v != "" {
			flagURL = v
		}
	}
	if flagKey == "" {
		flagKey = os.Getenv("ATLAS_API_KEY")
	}

	cfg, err := loadConfigFile()
	if err != nil {
		return
	}

	resolvedURL, resolvedKey := cfg.resolve(flagProf)

	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagKey == "" && resolvedKey != "" {
		flagKey = resolvedKey
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".atlas", "config.yaml"), nil
}

func loadConfigFile() (*configFile, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// resolve returns the URL and key of the named profile, falling back to the
// active profile, then "default", then the flat top-level fields.
func (c *configFile) resolve(profile string) (url, key string) {
	url, key = c.URL, c.APIKey
	if c.Profiles == nil {
		return url, key
	}

	name := profile
	if name == "" {
		name = c.ActiveProfile
	}
	if name == "" {
		name = "default"
	}

	if p, ok := c.Profiles[name]; ok {
		if p.URL != "" {
			url = p.URL
		}
		if p.APIKey != "" {
			key = p.APIKey
		}
	}
	return url, key
}
