package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, 8080, GetInt("server.port"))
	assert.Equal(t, ":8080", GetServerAddress())
	assert.Equal(t, "AI Safety Net", GetString("docgen.default_organisation"))
	assert.Equal(t, "1B2A4A", GetString("docgen.default_accent_color"))
	assert.Equal(t, 2*1024*1024, GetInt("docgen.max_markdown_bytes"))
	assert.False(t, GetBool("cache.enabled"))
	assert.Empty(t, GetStringSlice("security.api_keys"))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MD2DOCX_DOCGEN_DEFAULT_ORGANISATION", "Acme")
	assert.Equal(t, "Acme", GetString("docgen.default_organisation"))
}

func TestGetDSN(t *testing.T) {
	t.Setenv("MD2DOCX_DATABASE_TYPE", "sqlite")
	t.Setenv("MD2DOCX_DATABASE_PATH", "file::memory:")
	dsn, err := GetDSN()
	require.NoError(t, err)
	assert.Equal(t, "file::memory:", dsn)

	t.Setenv("MD2DOCX_DATABASE_TYPE", "postgres")
	dsn, err = GetDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "dbname=md2docx")

	t.Setenv("MD2DOCX_DATABASE_TYPE", "oracle")
	_, err = GetDSN()
	assert.True(t, errors.Is(err, ErrInvalidDatabaseConfig))
}

func TestRedisAddress(t *testing.T) {
	assert.Equal(t, "localhost:6379", GetRedisAddress())
}

func TestInitMissingFileUsesDefaults(t *testing.T) {
	require.NoError(t, Init("testdata/does-not-exist.yaml"))
	assert.Equal(t, 8080, GetInt("server.port"))
}
