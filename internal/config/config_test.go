package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("AI_API_KEY", "key")
	t.Setenv("DATABASE_URL", "postgres://localhost/modebot")
}

func TestLoadEnvDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Config{}.LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.StatsTTL)
	assert.Equal(t, 10*time.Second, cfg.StatsTimeout)
	assert.Equal(t, time.Duration(0), cfg.QuizIdleTimeout)
	assert.Equal(t, time.Minute, cfg.QuizSweepInterval)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, "ETH-SEPOLIA", cfg.WalletBlockchain)
	assert.Empty(t, cfg.WalletAPIKey)
}

func TestLoadEnvMissingRequired(t *testing.T) {
	// t.Setenv restores the previous values on cleanup
	for _, key := range []string{"TELEGRAM_API_TOKEN", "AI_API_KEY", "DATABASE_URL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := Config{}.LoadEnv()
	assert.Error(t, err)
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg := Config{ConfigFile: filepath.Join(t.TempDir(), "missing.toml")}

	require.NoError(t, cfg.LoadFile())
	assert.Equal(t, DefaultPrompts, cfg.Prompts)
	assert.Empty(t, cfg.Questions)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[prompts]
system = "be brief"

[[questions]]
prompt = "Mode is a"
options = ["L1", "L2", "Sidechain", "L3"]
correct = 1
explanation = "Mode is an Ethereum L2."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Config{ConfigFile: path}
	require.NoError(t, cfg.LoadFile())

	assert.Equal(t, "be brief", cfg.Prompts.System)
	require.Len(t, cfg.Questions, 1)
	assert.Equal(t, "Mode is a", cfg.Questions[0].Prompt)
	assert.Equal(t, []string{"L1", "L2", "Sidechain", "L3"}, cfg.Questions[0].Options)
	assert.Equal(t, 1, cfg.Questions[0].Correct)
}

func TestLoadFileEmptyPromptFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[prompts]\n"), 0o600))

	cfg := Config{ConfigFile: path}
	require.NoError(t, cfg.LoadFile())
	assert.Equal(t, DefaultPrompts.System, cfg.Prompts.System)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[prompts\n"), 0o600))

	cfg := Config{ConfigFile: path}
	assert.Error(t, cfg.LoadFile())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  Config{StatsTTL: 5 * time.Minute, QuizSweepInterval: time.Minute},
		},
		{
			name:    "zero ttl",
			cfg:     Config{StatsTTL: 0},
			wantErr: true,
		},
		{
			name:    "negative idle timeout",
			cfg:     Config{StatsTTL: time.Minute, QuizIdleTimeout: -time.Second},
			wantErr: true,
		},
		{
			name:    "idle timeout without sweep interval",
			cfg:     Config{StatsTTL: time.Minute, QuizIdleTimeout: time.Hour},
			wantErr: true,
		},
		{
			name: "idle timeout with sweep interval",
			cfg:  Config{StatsTTL: time.Minute, QuizIdleTimeout: time.Hour, QuizSweepInterval: time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
