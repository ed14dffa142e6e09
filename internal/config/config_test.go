package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/msgstore/internal/msgstore"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "msgstore.db", cfg.Database)
	assert.Equal(t, msgstore.DefaultMessage, cfg.Message)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParse_MessageRules(t *testing.T) {
	cfg, err := Parse([]byte(`log: level: "warn"`), "msgstore.cue")
	require.NoError(t, err)
	assert.Equal(t, msgstore.DefaultMessage, cfg.Message, "absent message uses the store default")

	_, err = Parse([]byte(`message: ""`), "msgstore.cue")
	require.Error(t, err, "an explicit empty message is rejected")
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "msgstore.db", cfg.Database)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	content := `
database: "/tmp/messages.db"
message:  "Welcome"
log: level: "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/messages.db", cfg.Database)
	assert.Equal(t, "Welcome", cfg.Message)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset fields keep their default")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(`colour: "blue"`), "msgstore.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestParse_InvalidLevel(t *testing.T) {
	_, err := Parse([]byte(`log: level: "verbose"`), "msgstore.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestParse_EmptyDatabaseRejected(t *testing.T) {
	_, err := Parse([]byte(`database: ""`), "msgstore.cue")
	require.Error(t, err)
}

func TestParse_SyntaxErrorHasPosition(t *testing.T) {
	_, err := Parse([]byte("database: \"a.db\"\nlog: {\n"), "broken.cue")
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr), "expected *config.Error, got %T", err)
	assert.True(t, cfgErr.Pos.IsValid())
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestError_WithoutPosition(t *testing.T) {
	err := &Error{Message: "bad"}
	assert.Equal(t, "bad", err.Error())
}

func TestLog_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Log{Level: tt.level}.SlogLevel(), tt.level)
	}
}

func TestLog_NewHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(Log{Level: "info", Format: "json"}.NewHandler(&buf, false))
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = slog.New(Log{Level: "error", Format: "text"}.NewHandler(&buf, true))
	logger.Debug("verbose wins")
	assert.Contains(t, buf.String(), "msg=\"verbose wins\"")
}
