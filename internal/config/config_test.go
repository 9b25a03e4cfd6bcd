package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `
database:
  path: data/tags.db
images:
  path: ./images
  types:
    - jpg
    - png
server:
  port: 8080
  debug: true
tagging:
  multi-separator: ", "
  tags:
    cat: c
    dog: d
`

// loadTestConfig writes the test document to a temp file and loads it.
func loadTestConfig(t *testing.T) *Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	return cfg
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- bad"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGet_NestedValues(t *testing.T) {
	cfg := loadTestConfig(t)

	v, err := cfg.Get("database/path", Value{}, NotFoundSilent)
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "data/tags.db", s)

	v, err = cfg.Get("images/types", Value{}, NotFoundSilent)
	require.NoError(t, err)
	ss, ok := v.AsStrings()
	require.True(t, ok)
	assert.Equal(t, []string{"jpg", "png"}, ss)

	v, err = cfg.Get("server/port", Value{}, NotFoundSilent)
	require.NoError(t, err)
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, 8080, i)

	v, err = cfg.Get("server/debug", Value{}, NotFoundSilent)
	require.NoError(t, err)
	b, ok := v.AsBool()
	require.True(t, ok)
	assert.True(t, b)
}

func TestGet_MappingValue(t *testing.T) {
	cfg := loadTestConfig(t)

	v, err := cfg.Get("tagging/tags", Value{}, NotFoundSilent)
	require.NoError(t, err)
	assert.Equal(t, KindMapping, v.Kind())
	assert.Equal(t, []string{"cat", "dog"}, v.Keys())

	m, ok := v.AsMapping()
	require.True(t, ok)
	key, ok := m["cat"].AsString()
	require.True(t, ok)
	assert.Equal(t, "c", key)
}

func TestGet_AbsentKeySilent(t *testing.T) {
	cfg := loadTestConfig(t)

	v, err := cfg.Get("server/host", String("127.0.0.1"), NotFoundSilent)
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "127.0.0.1", s)
}

func TestGet_AbsentKeyError(t *testing.T) {
	cfg := loadTestConfig(t)

	_, err := cfg.Get("server/host", Value{}, NotFoundError)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// A miss at any depth applies the policy the same way.
	_, err = cfg.Get("nothere/host", Value{}, NotFoundError)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestGet_AbsentKeyWarn(t *testing.T) {
	cfg := loadTestConfig(t)

	v, err := cfg.Get("server/host", String("fallback"), NotFoundWarn)
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "fallback", s)
}

func TestGet_InvalidPolicy(t *testing.T) {
	cfg := loadTestConfig(t)

	// Invalid policies fail whether or not the path exists.
	_, err := cfg.Get("database/path", Value{}, NotFound("shout"))
	assert.ErrorIs(t, err, ErrBadPolicy)

	_, err = cfg.Get("nothere", Value{}, NotFound("shout"))
	assert.ErrorIs(t, err, ErrBadPolicy)
}

func TestSet_ExistingLeaf(t *testing.T) {
	cfg := loadTestConfig(t)

	ok, err := cfg.Set("database/path", String("other.db"), NotFoundError)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "other.db", cfg.StringOr("database/path", ""))
}

func TestSet_MissingLeaf(t *testing.T) {
	cfg := loadTestConfig(t)

	// Default error policy fails; nothing is created.
	ok, err := cfg.Set("database/user", String("admin"), NotFoundError)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.False(t, ok)

	ok, err = cfg.Set("database/user", String("admin"), NotFoundSilent)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cfg.Get("database/user", Value{}, NotFoundError)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSet_InvalidPolicy(t *testing.T) {
	cfg := loadTestConfig(t)

	_, err := cfg.Set("database/path", String("x"), NotFound("loud"))
	assert.ErrorIs(t, err, ErrBadPolicy)
}

func TestConvenienceHelpers(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.Equal(t, "data/tags.db", cfg.StringOr("database/path", "def"))
	assert.Equal(t, "def", cfg.StringOr("database/missing", "def"))
	// Wrong kind falls back to the default too.
	assert.Equal(t, "def", cfg.StringOr("server/port", "def"))

	assert.Equal(t, 8080, cfg.IntOr("server/port", 1))
	assert.Equal(t, 1, cfg.IntOr("server/missing", 1))

	assert.True(t, cfg.BoolOr("server/debug", false))
	assert.False(t, cfg.BoolOr("server/missing", false))

	assert.Equal(t, []string{"jpg", "png"}, cfg.StringsOr("images/types", nil))
	assert.Equal(t, []string{"jpg"}, cfg.StringsOr("images/missing", []string{"jpg"}))
}
