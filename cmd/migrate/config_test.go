package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/db"
	"bookshelf/internal/platform/config"
)

func TestSource_ResolveDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MIGRATIONS_DIR", "")

	s := source{}.resolve()
	assert.Equal(t, defaultDSN, s.dsn)
	assert.True(t, s.embedded())

	fsys, dir := s.files()
	assert.Equal(t, db.Migrations, fsys)
	assert.Equal(t, "migrations", dir)
}

func TestSource_ResolveFromEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://env")
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")

	s := source{}.resolve()
	assert.Equal(t, "postgres://env", s.dsn)

	fsys, dir := s.files()
	assert.Nil(t, fsys)
	assert.Equal(t, "/custom/migrations", dir)
}

func TestSource_FlagsWinOverEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://env")
	t.Setenv("MIGRATIONS_DIR", "/env/migrations")

	s := source{dsn: "postgres://flag", dir: "./flag"}.resolve()
	assert.Equal(t, source{dsn: "postgres://flag", dir: "./flag"}, s)
}

func TestSource_EnvFileDoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\n"), 0o644))

	t.Setenv("DB_DSN", "from_env")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	config.LoadEnvFiles()

	assert.Equal(t, "from_env", source{}.resolve().dsn)
}
