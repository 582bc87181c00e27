package infra

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKeyProvider(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, dataDir string)
		testFn func(t *testing.T, provider *FileKeyProvider)
	}{
		{
			name: "LoadOrCreate generates key with correct permissions",
			testFn: func(t *testing.T, provider *FileKeyProvider) {
				key, err := provider.LoadOrCreate()
				require.NoError(t, err)
				assert.Len(t, key, keySize)

				info, err := os.Stat(provider.keyPath)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
			},
		},
		{
			name: "LoadOrCreate returns the same key twice",
			testFn: func(t *testing.T, provider *FileKeyProvider) {
				first, err := provider.LoadOrCreate()
				require.NoError(t, err)
				second, err := provider.LoadOrCreate()
				require.NoError(t, err)
				assert.Equal(t, first, second)
			},
		},
		{
			name: "LoadOrCreate reads existing key",
			setup: func(t *testing.T, dataDir string) {
				key := make([]byte, keySize)
				for i := range key {
					key[i] = byte(i)
				}
				data := []byte(base64.StdEncoding.EncodeToString(key))
				require.NoError(t, os.WriteFile(filepath.Join(dataDir, keyFileName), data, 0600))
			},
			testFn: func(t *testing.T, provider *FileKeyProvider) {
				key, err := provider.LoadOrCreate()
				require.NoError(t, err)
				assert.Equal(t, byte(31), key[31])
			},
		},
		{
			name: "LoadOrCreate rejects wrong key size",
			setup: func(t *testing.T, dataDir string) {
				data := []byte(base64.StdEncoding.EncodeToString([]byte("tooshort")))
				require.NoError(t, os.WriteFile(filepath.Join(dataDir, keyFileName), data, 0600))
			},
			testFn: func(t *testing.T, provider *FileKeyProvider) {
				_, err := provider.LoadOrCreate()
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid key size")
			},
		},
		{
			name: "LoadOrCreate rejects garbage",
			setup: func(t *testing.T, dataDir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dataDir, keyFileName), []byte("!!!not base64!!!"), 0600))
			},
			testFn: func(t *testing.T, provider *FileKeyProvider) {
				_, err := provider.LoadOrCreate()
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to decode key")
			},
		},
		{
			name: "LoadOrCreate creates directory if missing",
			testFn: func(t *testing.T, provider *FileKeyProvider) {
				nestedDir := filepath.Join(filepath.Dir(provider.keyPath), "sub", "dir")
				provider.keyPath = filepath.Join(nestedDir, keyFileName)

				_, err := provider.LoadOrCreate()
				require.NoError(t, err)
				assert.FileExists(t, provider.keyPath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dataDir)
			}
			tt.testFn(t, NewFileKeyProvider(dataDir))
		})
	}
}
