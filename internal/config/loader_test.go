package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
source:
  rpc_url: "http://localhost:8545"
  start_block: 100
  chunk_size: 1000
  finality: "latest"
  finalized_lag: 12
  poll_interval: "5s"
  retry:
    max_attempts: 3
contracts:
  hub: "0x1111111111111111111111111111111111111111"
  identity_registry: "0x2222222222222222222222222222222222222222"
  reputation_registry: "0x3333333333333333333333333333333333333333"
  validation_registry: "0x4444444444444444444444444444444444444444"
db:
  path: "/tmp/hubindexer.db"
logging:
  default_level: "info"
  component_levels:
    dispatcher: "debug"
metrics:
  enabled: true
  listen_address: ":9101"
api:
  enabled: true
  cors:
    enabled: true
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromYAML(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.Source.RPCURL)
	assert.Equal(t, uint64(100), cfg.Source.StartBlock)
	assert.Equal(t, uint64(1000), cfg.Source.ChunkSize)
	assert.Equal(t, "latest", cfg.Source.Finality)
	assert.Equal(t, uint64(12), cfg.Source.FinalizedLag)
	assert.Equal(t, 5*time.Second, cfg.Source.PollInterval.Duration)
	assert.Equal(t, 3, cfg.Source.Retry.MaxAttempts)

	assert.Equal(t, "0x1111111111111111111111111111111111111111", cfg.Contracts.Hub)
	assert.NotEqual(t, cfg.Contracts.HubAddress(), cfg.Contracts.IdentityAddress())

	// Defaults applied
	assert.Equal(t, "WAL", cfg.DB.JournalMode)
	assert.Equal(t, 5000, cfg.DB.BusyTimeout)
	assert.Equal(t, "debug", cfg.Logging.GetComponentLevel("dispatcher"))
	assert.Equal(t, "info", cfg.Logging.GetComponentLevel("store"))
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, ":8080", cfg.API.ListenAddress)
	assert.Equal(t, []string{"*"}, cfg.API.CORS.AllowedOrigins)
}

func TestLoadFromJSON(t *testing.T) {
	jsonCfg := `{
		"source": {"rpc_url": "http://localhost:8545", "finality": "finalized"},
		"contracts": {"hub": "0x1111111111111111111111111111111111111111"},
		"db": {"path": "/tmp/hubindexer.db"}
	}`
	cfg, err := LoadFromFile(writeConfig(t, "config.json", jsonCfg))
	require.NoError(t, err)
	assert.Equal(t, "finalized", cfg.Source.Finality)
	assert.Equal(t, uint64(5000), cfg.Source.ChunkSize)
}

func TestLoadFromTOML(t *testing.T) {
	tomlCfg := `
[source]
rpc_url = "http://localhost:8545"

[contracts]
hub = "0x1111111111111111111111111111111111111111"

[db]
path = "/tmp/hubindexer.db"
`
	cfg, err := LoadFromFile(writeConfig(t, "config.toml", tomlCfg))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", cfg.Source.RPCURL)
	assert.Equal(t, "finalized", cfg.Source.Finality)
}

func TestLoadFromFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "config.ini", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Source: SourceConfig{RPCURL: "http://localhost:8545", Finality: "finalized"},
			Contracts: ContractsConfig{
				Hub: "0x1111111111111111111111111111111111111111",
			},
			DB: DatabaseConfig{Path: "/tmp/db.sqlite"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing rpc url",
			mutate:  func(c *Config) { c.Source.RPCURL = "" },
			wantErr: "source.rpc_url is required",
		},
		{
			name:    "bad finality",
			mutate:  func(c *Config) { c.Source.Finality = "eventually" },
			wantErr: "source.finality",
		},
		{
			name:    "missing hub",
			mutate:  func(c *Config) { c.Contracts.Hub = "" },
			wantErr: "contracts.hub is required",
		},
		{
			name:    "invalid hub address",
			mutate:  func(c *Config) { c.Contracts.Hub = "not-an-address" },
			wantErr: "invalid address",
		},
		{
			name:    "missing db path",
			mutate:  func(c *Config) { c.DB.Path = "" },
			wantErr: "db.path is required",
		},
		{
			name:    "bad journal mode",
			mutate:  func(c *Config) { c.DB.JournalMode = "SCRIBBLE" },
			wantErr: "db.journal_mode",
		},
		{
			name: "unknown logging component",
			mutate: func(c *Config) {
				c.Logging = &LoggingConfig{
					DefaultLevel:    "info",
					ComponentLevels: map[string]string{"teleporter": "debug"},
				}
			},
			wantErr: "unknown component",
		},
		{
			name: "bad metrics path",
			mutate: func(c *Config) {
				c.Metrics = &MetricsConfig{Enabled: true, ListenAddress: ":9090", Path: "metrics"}
			},
			wantErr: "path must start with '/'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
