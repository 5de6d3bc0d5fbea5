package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "MyClip", SanitizeFileName("  My/Clip "))
	assert.Equal(t, "ab", SanitizeFileName(`a\b`))
	assert.Equal(t, "video", SanitizeFileName("  "))
	assert.Equal(t, "video", SanitizeFileName("/.."))
	assert.Equal(t, "【合集】第一集", SanitizeFileName("【合集】第一集"))
}

func TestVideoFileName(t *testing.T) {
	assert.Equal(t, "Title-BV17x411w7KC.mp4", VideoFileName(" Title ", "BV17x411w7KC"))
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"0":     0,
		"1024":  1024,
		"512K":  512 * 1024,
		"4M":    4 * 1024 * 1024,
		"4mb":   4 * 1024 * 1024,
		"4MiB":  4 * 1024 * 1024,
		"1G":    1024 * 1024 * 1024,
		" 16k ": 16 * 1024,
	}
	for input, want := range tests {
		got, err := ParseSize(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	for _, input := range []string{"", "M", "-1", "abc", "1.5M"} {
		_, err := ParseSize(input)
		assert.Error(t, err, input)
	}
}

func TestRenewOutputPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.Equal(t, filepath.Join(dir, "clip-(1).mp4"), RenewOutputPath(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip-(1).mp4"), nil, 0644))
	assert.Equal(t, filepath.Join(dir, "clip-(2).mp4"), RenewOutputPath(path))
}

func TestNumberedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "clip-(3).mp4"), NumberedPath(filepath.Join("out", "clip.mp4"), 3))
}

func TestTempPathAndClean(t *testing.T) {
	dir := t.TempDir()
	temp := TempPath(filepath.Join(dir, "clip.mp4"))
	assert.Equal(t, filepath.Join(dir, TempDirName, "clip.mp4.part"), temp)

	require.NoError(t, os.MkdirAll(filepath.Dir(temp), 0755))
	require.NoError(t, os.WriteFile(temp, []byte("partial"), 0644))
	require.NoError(t, Clean(dir))
	assert.NoDirExists(t, filepath.Join(dir, TempDirName))
	assert.NoError(t, Clean(dir))
}

func TestNewJobID(t *testing.T) {
	assert.NotEqual(t, NewJobID(), NewJobID())
	assert.Len(t, NewJobID(), 36)
}
