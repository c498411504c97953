package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8080,
			CORS:          CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
			UserHeader:    "X-User-ID",
			SessionCookie: "openings_session",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			Database:        "openings",
			Username:        "user",
			ConnectAttempts: 5,
		},
		Redis: RedisConfig{
			SessionTTL: 24 * time.Hour,
		},
		Monetization: MonetizationConfig{
			Strategy:      StrategyHardLock,
			FreeItemLimit: 5,
			DailyMoves:    20,
		},
		Storage: StorageConfig{Driver: StorageMySQL},
	}
}

func TestLoad(t *testing.T) {
	catalogDir := t.TempDir()
	catalogFile := filepath.Join(catalogDir, "openings.yml")
	require.NoError(t, os.WriteFile(catalogFile, []byte("categories: []\n"), 0644))
	catalogJSON := filepath.Join(catalogDir, "openings.json")
	require.NoError(t, os.WriteFile(catalogJSON, []byte("{}"), 0644))

	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "custom values",
			configContent: `server:
  port: 9000
redis:
  addr: localhost:6379
  session_ttl: 2h
catalog:
  file: ` + catalogFile + `
  reload_interval: 10m
monetization:
  strategy: stamina
  daily_moves: 30
scheduler:
  random_seed: 42
storage:
  driver: memory
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Server.Port = 9000
				cfg.Redis.Addr = "localhost:6379"
				cfg.Redis.SessionTTL = 2 * time.Hour
				cfg.Catalog = CatalogConfig{File: catalogFile, ReloadInterval: 10 * time.Minute}
				cfg.Monetization.Strategy = StrategyStamina
				cfg.Monetization.DailyMoves = 30
				cfg.Scheduler.RandomSeed = 42
				cfg.Storage.Driver = StorageMemory
				return cfg
			},
		},
		{
			name:          "secrets from environment variables",
			configContent: "database:\n  host: db\n",
			env:           map[string]string{"DB_PASSWORD": "secret", "REDIS_PASSWORD": "redis-secret"},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Database.Host = "db"
				cfg.Database.Password = "secret"
				cfg.Redis.Password = "redis-secret"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `server:
  port: 9000
  invalid yaml format here [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown strategy and storage driver",
			configContent: `monetization:
  strategy: pay_per_move
storage:
  driver: sqlite
`,
			wantErrorContains: []string{
				"invalid configuration",
				"strategy must be one of [hard_lock stamina]",
				"driver must be one of [mysql memory]",
			},
		},
		{
			name:              "missing catalog file",
			configContent:     "catalog:\n  file: " + filepath.Join(catalogDir, "missing.yml") + "\n",
			wantErrorContains: []string{"catalog.file must be a readable .yml or .yaml catalog file"},
		},
		{
			name:              "catalog file that is not yaml",
			configContent:     "catalog:\n  file: " + catalogJSON + "\n",
			wantErrorContains: []string{"catalog.file must be a readable .yml or .yaml catalog file"},
		},
		{
			name:              "reload interval too short",
			configContent:     "catalog:\n  file: " + catalogFile + "\n  reload_interval: 5s\n",
			wantErrorContains: []string{"catalog.reload_interval must be 0 to disable reloading or at least 1m0s"},
		},
		{
			name:              "memory storage without catalog file",
			configContent:     "storage:\n  driver: memory\n",
			wantErrorContains: []string{"catalog.file is required with the memory storage driver"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "openings.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else {
				if tt.configContent != "" {
					require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644))
				}
				t.Chdir(tempDir)
			}

			got, err := Load(configPath)
			if len(tt.wantErrorContains) > 0 {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}
