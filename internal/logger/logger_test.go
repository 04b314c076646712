package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		wantErr     bool
	}{
		{
			name:  "debug level production",
			level: "debug",
		},
		{
			name:  "info level production",
			level: "info",
		},
		{
			name:        "warn level development",
			level:       "warn",
			development: true,
		},
		{
			name:        "error level development",
			level:       "error",
			development: true,
		},
		{
			name:    "invalid level",
			level:   "invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.level, tt.development)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, logger)
			} else {
				require.NoError(t, err)
				require.NotNil(t, logger)
				require.NotNil(t, logger.SugaredLogger)
				require.Equal(t, tt.level, logger.GetLevel())
			}
		})
	}
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	require.NotNil(t, logger)

	// Should not panic
	logger.Info("dropped")
	logger.Errorf("dropped %d", 1)
	require.NoError(t, logger.Close())
}

func TestWithComponent(t *testing.T) {
	logger, err := NewLogger("info", false)
	require.NoError(t, err)

	child := logger.WithComponent("store")
	require.NotNil(t, child)
	require.Equal(t, "info", child.GetLevel())
}

type fakeLevelConfig struct {
	levels      map[string]string
	development bool
}

func (f *fakeLevelConfig) GetComponentLevel(component string) string {
	if level, ok := f.levels[component]; ok {
		return level
	}
	return "info"
}

func (f *fakeLevelConfig) IsDevelopment() bool { return f.development }

func TestNewComponentLoggerFromConfig(t *testing.T) {
	t.Run("nil config falls back to default", func(t *testing.T) {
		logger := NewComponentLoggerFromConfig("source", nil)
		require.NotNil(t, logger)
	})

	t.Run("component level is honored", func(t *testing.T) {
		cfg := &fakeLevelConfig{levels: map[string]string{"source": "warn"}}
		logger := NewComponentLoggerFromConfig("source", cfg)
		require.NotNil(t, logger)
		require.Equal(t, "warn", logger.GetLevel())
	})

	t.Run("invalid configured level falls back to default", func(t *testing.T) {
		cfg := &fakeLevelConfig{levels: map[string]string{"source": "shouting"}}
		logger := NewComponentLoggerFromConfig("source", cfg)
		require.NotNil(t, logger)
	})
}

func TestGetDefaultLogger(t *testing.T) {
	first := GetDefaultLogger()
	second := GetDefaultLogger()
	require.NotNil(t, first)
	require.Same(t, first, second)
}
