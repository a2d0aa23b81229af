// Package config loads the tracker connection settings.
//
// Values are layered, later sources winning: defaults, the YAML config file,
// environment variables (JIRA_URL, JIRA_USER, JIRA_TOKEN, GIT_ISSUE_EXTRACTOR_REPO) and finally
// command line flags that were set explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultConfigName is looked up in the home directory and the working directory
// when no config file is given explicitly.
const DefaultConfigName = ".git-issue-extractor"

// ErrMissingURL is returned when no tracker URL is configured anywhere.
var ErrMissingURL = errors.New("jira_url is not set (use --jira-url, JIRA_URL or the config file)")

// Config is the resolved configuration for one run.
type Config struct {
	JiraURL   string `mapstructure:"jira_url"`
	JiraUser  string `mapstructure:"jira_user"`
	JiraToken string `mapstructure:"jira_token"`
	RepoPath  string `mapstructure:"repo"`
}

// envKeys maps config keys to environment variables.
// The repository path uses a prefixed name since a bare REPO is commonly set by CI systems.
var envKeys = map[string]string{
	"jira_url":   "JIRA_URL",
	"jira_user":  "JIRA_USER",
	"jira_token": "JIRA_TOKEN",
	"repo":       "GIT_ISSUE_EXTRACTOR_REPO",
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"jira-url": "jira_url",
	"repo":     "repo",
}

// Load resolves the configuration. cfgFile may be empty, in which case a missing
// default config file is not an error. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("repo", ".")
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if err := readConfigFile(v, cfgFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.JiraURL = strings.TrimRight(strings.TrimSpace(cfg.JiraURL), "/")
	if cfg.JiraURL == "" {
		return nil, ErrMissingURL
	}
	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}
