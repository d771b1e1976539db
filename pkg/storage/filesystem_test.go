package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := NewPrivateStorage(dir)
	require.NoError(t, err)

	path, err := s.Save("tokens.json", []byte(`{"a":1}`), Private)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tokens.json"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, Private, info.Mode().Perm())

	data, err := s.Read("tokens.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	require.NoError(t, s.Delete("tokens.json"))
	require.NoError(t, s.Delete("tokens.json"))

	data, err = s.Read("tokens.json")
	require.NoError(t, err)
	assert.Nil(t, data)
}
