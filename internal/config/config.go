package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. EXPENSES_DATABASE_PATH.
const EnvPrefix = "EXPENSES"

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("chat.provider", "gemini")
	v.SetDefault("chat.max_retries", 3)
	v.SetDefault("chat.retry_delay", time.Second)
	v.SetDefault("chat.rate_limit", 60)
	v.SetDefault("chat.temperature", 0.7)
	v.SetDefault("chat.max_tokens", 1024)
	v.SetDefault("chat.timeout", 30*time.Second)
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("reminders.schedule", "@hourly")
	v.SetDefault("sheets.token_path", filepath.Join(ConfigDir(), "sheets-token.json"))
	v.SetDefault("currency.code", "EGP")
}

// BindEnv makes every key overridable from EXPENSES_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadEnvFiles loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(ExpandPath(path)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ReadFile reads cfgFile, or config.yaml from the config directory and the
// working directory when cfgFile is empty. A missing default file is not an
// error.
func ReadFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// DatabasePath returns the expanded database.path.
func DatabasePath(v *viper.Viper) string {
	return ExpandPath(v.GetString("database.path"))
}
