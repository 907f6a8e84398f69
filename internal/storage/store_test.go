package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "data", "products_database.json"))
	require.NoError(t, err)
	return s
}

func TestFileStoreCountMissingFile(t *testing.T) {
	s := newTestFileStore(t)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFileStoreAppendSeparators(t *testing.T) {
	s := newTestFileStore(t)

	require.NoError(t, s.Append(`{"n": 1}`))
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, `{"n": 1}`, string(data))

	require.NoError(t, s.Append(`{"n": 2}`))
	data, err = os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{\"n\": 1}\n{\"n\": 2}", string(data))
}

func TestFileStoreCountMatchesAppends(t *testing.T) {
	s := newTestFileStore(t)

	var sizes []int64
	for i := range 5 {
		require.NoError(t, s.Append(`{"n": 0}`))

		n, err := s.Count()
		require.NoError(t, err)
		assert.Equal(t, i+1, n)

		info, err := os.Stat(s.Path())
		require.NoError(t, err)
		sizes = append(sizes, info.Size())
	}

	for i := 1; i < len(sizes); i++ {
		assert.Greater(t, sizes[i], sizes[i-1], "store must grow monotonically")
	}
}

func TestFileStoreLinesParseIndependently(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, s.Append(`{"published_id": "pub_1_1"}`))
	require.NoError(t, s.Append(`{"published_id": "pub_2_2"}`))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var v map[string]any
		assert.NoError(t, json.Unmarshal([]byte(line), &v), line)
	}
}

func TestFileStoreConcurrentAppends(t *testing.T) {
	s := newTestFileStore(t)

	// Seed so every concurrent write carries a separator
	require.NoError(t, s.Append(`{"seed": true}`))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(`{"n": 0}`))
		}()
	}
	wg.Wait()

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 21, n)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
		{"\n", 1},
	}

	for _, tt := range tests {
		n, err := countLines(strings.NewReader(tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.want, n, "%q", tt.in)
	}
}

func TestFileLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "published_products.log")
	l, err := OpenFileLog(path)
	require.NoError(t, err)

	require.NoError(t, l.Append("first\n"))
	require.NoError(t, l.Append("second\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestFileStoreAppendError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes every open fail
	path := filepath.Join(dir, "store")
	require.NoError(t, os.Mkdir(path, 0755))

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.Error(t, s.Append("x"))
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Append("a"))
	require.NoError(t, m.Append("b"))

	n, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, m.Records())

	boom := errors.New("disk full")
	m.FailWith(boom)
	assert.ErrorIs(t, m.Append("c"), boom)
	_, err = m.Count()
	assert.ErrorIs(t, err, boom)
}

func TestMemoryLog(t *testing.T) {
	m := NewMemoryLog()
	require.NoError(t, m.Append("line\n"))
	assert.Equal(t, []string{"line\n"}, m.Lines())

	m.FailWith(errors.New("nope"))
	assert.Error(t, m.Append("x"))
}
