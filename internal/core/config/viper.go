package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// userConfigFile returns the per-user config file consulted when no explicit
// path is given. Variable so tests can point it elsewhere.
var userConfigFile = func() string {
	return filepath.Join(xdg.ConfigHome, "hookify", "config.yaml")
}

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence; flags are
// applied by the caller. With an empty configPath the per-user config file
// is read if it exists.
func LoadConfig(configPath string) (*LoaderConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultLoaderConfig
	defaults := DefaultLoaderConfig()
	v.SetDefault("rules_dir", defaults.RulesDir)
	v.SetDefault("file_pattern", defaults.FilePattern)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("db_url", defaults.DBURL)

	if configPath == "" {
		if p := userConfigFile(); fileExists(p) {
			configPath = p
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Checked before env binding so only the file's own value is inspected
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	// Bind environment variables with HOOKIFY_ prefix
	v.SetEnvPrefix("HOOKIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &LoaderConfig{
		RulesDir:    v.GetString("rules_dir"),
		FilePattern: v.GetString("file_pattern"),
		Strict:      v.GetBool("strict"),
		DBURL:       v.GetString("db_url"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks the rules directory, file pattern and store URL.
func validateConfig(cfg *LoaderConfig) error {
	if strings.TrimSpace(cfg.RulesDir) == "" {
		return fmt.Errorf("rules_dir must not be empty")
	}
	if err := ValidateFilePattern(cfg.FilePattern); err != nil {
		return err
	}
	return ValidateDBURL(cfg.DBURL)
}

// validateNoSecretsInConfig keeps database passwords out of config files.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("db_url") && hasPassword(v.GetString("db_url")) {
		return fmt.Errorf("database passwords not allowed in config files (use HOOKIFY_DB_URL environment variable)")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
