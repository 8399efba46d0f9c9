package timelog

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T) (*FileSink, string) {
	t.Helper()
	dir := t.TempDir()
	sink, err := NewFileSink(dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	return sink, dir
}

func TestAppendWritesOneLinePerMeasurement(t *testing.T) {
	sink, dir := newTestSink(t)

	sink.Append("emb", 120*time.Millisecond)
	sink.Append("emb", 80*time.Millisecond)
	sink.Flush()

	data, err := os.ReadFile(filepath.Join(dir, "emb_times.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.ElementsMatch(t, []string{"120", "80"}, lines)
}

func TestConcurrentAppendsDoNotInterleave(t *testing.T) {
	sink, dir := newTestSink(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Append("query", 5*time.Millisecond)
		}()
	}
	wg.Wait()
	sink.Flush()

	data, err := os.ReadFile(filepath.Join(dir, "query_times.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 50)
	for _, line := range lines {
		assert.Equal(t, "5", line)
	}
}

func TestCategoriesGetSeparateFiles(t *testing.T) {
	sink, dir := newTestSink(t)

	sink.Append("emb", time.Millisecond)
	sink.Append("trim", time.Millisecond)
	sink.Flush()

	_, err := os.Stat(filepath.Join(dir, "emb_times.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "trim_times.log"))
	assert.NoError(t, err)
}
