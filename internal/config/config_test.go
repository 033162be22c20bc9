package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maloquacious/todo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestEmptyDataDirUsesDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("data_dir: \"\"\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.DataDir)

	def := Defaults()
	assert.Equal(t, store.GetDBPath(def.DataDir, def.DBFile), store.GetDBPath(cfg.DataDir, cfg.DBFile))
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "data_dir: /var/lib/todo\ndb_file: tasks.db\nuser_name: Ada\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/todo", cfg.DataDir)
	assert.Equal(t, "tasks.db", cfg.DBFile)
	assert.Equal(t, "Ada", cfg.UserName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "unset keys keep their default")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("user_name: Ada\n"), 0o644))
	t.Setenv("TODO_USER_NAME", "Grace")
	t.Setenv("TODO_DATA_DIR", "/tmp/elsewhere")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Grace", cfg.UserName)
	assert.Equal(t, "/tmp/elsewhere", cfg.DataDir)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("data_dir: [unclosed\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestWriteIfMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	cfg := Defaults()
	cfg.UserName = "Ada"

	created, err := WriteIfMissing(dir, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// second call leaves the file alone
	cfg.UserName = "Grace"
	created, err = WriteIfMissing(dir, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	loaded, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Ada", loaded.UserName)
}
