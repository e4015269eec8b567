package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("EXPENSES_TEST_DIR", "/srv/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "home only", in: "~", want: home},
		{name: "home prefix", in: "~/data/db.sqlite", want: filepath.Join(home, "data", "db.sqlite")},
		{name: "env var", in: "$EXPENSES_TEST_DIR/db.sqlite", want: "/srv/data/db.sqlite"},
		{name: "absolute", in: "/tmp/db.sqlite", want: "/tmp/db.sqlite"},
		{name: "tilde inside name", in: "/tmp/~backup", want: "/tmp/~backup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := newViper(t)

	assert.Equal(t, "info", v.GetString("logging.level"))
	assert.Equal(t, "text", v.GetString("logging.format"))
	assert.Equal(t, "gemini", v.GetString("chat.provider"))
	assert.Equal(t, "@hourly", v.GetString("reminders.schedule"))
	assert.Equal(t, "EGP", v.GetString("currency.code"))
	assert.Equal(t, time.Second, v.GetDuration("chat.retry_delay"))
	assert.True(t, strings.HasSuffix(DatabasePath(v), filepath.Join(".local", "share", "expenses", "expenses.db")))
}

func TestBindEnv(t *testing.T) {
	t.Setenv("EXPENSES_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("EXPENSES_SERVER_ADDR", ":9999")
	v := newViper(t)

	assert.Equal(t, "/tmp/override.db", DatabasePath(v))
	assert.Equal(t, ":9999", v.GetString("server.addr"))
}

func TestReadFile(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database:\n  path: /tmp/from-file.db\nchat:\n  provider: openai\n"), 0o600))

		v := newViper(t)
		require.NoError(t, ReadFile(v, path))
		assert.Equal(t, "/tmp/from-file.db", DatabasePath(v))
		assert.Equal(t, "openai", v.GetString("chat.provider"))
	})

	t.Run("missing explicit file", func(t *testing.T) {
		v := newViper(t)
		assert.Error(t, ReadFile(v, filepath.Join(t.TempDir(), "missing.yaml")))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database: [unterminated\n"), 0o600))

		v := newViper(t)
		assert.Error(t, ReadFile(v, path))
	})
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EXPENSES_DOTENV_VALUE=from-file\nEXPENSES_DOTENV_KEEP=from-file\n"), 0o600))
	t.Setenv("EXPENSES_DOTENV_KEEP", "from-env")
	t.Setenv("EXPENSES_DOTENV_VALUE", "")
	require.NoError(t, os.Unsetenv("EXPENSES_DOTENV_VALUE"))

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "absent.env"), path))

	assert.Equal(t, "from-file", os.Getenv("EXPENSES_DOTENV_VALUE"))
	assert.Equal(t, "from-env", os.Getenv("EXPENSES_DOTENV_KEEP"))
}

func TestLoadChatConfig(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		stored       model.ChatConfig
		wantProvider string
		wantModel    string
		wantKey      string
	}{
		{
			name:         "defaults without key",
			wantProvider: "gemini",
		},
		{
			name:         "stored settings",
			stored:       model.ChatConfig{Provider: "OpenAI", Model: "gpt-4o-mini", APIKey: "stored-key"},
			wantProvider: "openai",
			wantModel:    "gpt-4o-mini",
			wantKey:      "stored-key",
		},
		{
			name:         "provider env key beats stored key",
			env:          map[string]string{"GEMINI_API_KEY": "env-key"},
			stored:       model.ChatConfig{APIKey: "stored-key"},
			wantProvider: "gemini",
			wantKey:      "env-key",
		},
		{
			name: "explicit config beats stored settings",
			env: map[string]string{
				"EXPENSES_CHAT_PROVIDER": "anthropic",
				"EXPENSES_CHAT_MODEL":    "claude-3-5-haiku-latest",
				"EXPENSES_CHAT_API_KEY":  "config-key",
			},
			stored:       model.ChatConfig{Provider: "openai", Model: "gpt-4o", APIKey: "stored-key"},
			wantProvider: "anthropic",
			wantModel:    "claude-3-5-haiku-latest",
			wantKey:      "config-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
				t.Setenv(key, "")
			}
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			v := newViper(t)

			cfg := LoadChatConfig(v, tt.stored)

			assert.Equal(t, tt.wantProvider, cfg.Provider)
			assert.Equal(t, tt.wantModel, cfg.Model)
			assert.Equal(t, tt.wantKey, cfg.APIKey)
			assert.Equal(t, 3, cfg.MaxRetries)
			assert.Equal(t, 60, cfg.RateLimit)
		})
	}
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Run("service account from env", func(t *testing.T) {
		clearSheetsEnv(t)
		t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/tmp/sa.json")
		v := newViper(t)

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/sa.json", cfg.ServiceAccountPath)
		assert.Empty(t, cfg.TokenFile)
		assert.Equal(t, "Expense Report", cfg.SpreadsheetName)
		assert.Equal(t, "EGP", cfg.CurrencyCode)
	})

	t.Run("viper keys win over env", func(t *testing.T) {
		clearSheetsEnv(t)
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-id")
		v := newViper(t)
		v.Set("sheets.client_id", "config-id")
		v.Set("sheets.client_secret", "secret")
		v.Set("sheets.refresh_token", "refresh")
		v.Set("sheets.spreadsheet_name", "Household")

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "config-id", cfg.ClientID)
		assert.Equal(t, "Household", cfg.SpreadsheetName)
		assert.True(t, cfg.HasOAuth())
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearSheetsEnv(t)
		v := newViper(t)

		_, err := LoadSheetsConfig(v)
		require.ErrorIs(t, err, common.ErrMissingConfig)
	})
}
