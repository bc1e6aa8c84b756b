package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newFileLogger(t *testing.T) *ZapLogger {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(logPath, false)
	t.Cleanup(func() { _ = l.Sync() })
	return l
}

func TestGetLogs(t *testing.T) {
	l := newFileLogger(t)

	l.Info("search_service", "first", nil)
	l.Warn("context_service", "second", map[string]interface{}{"count": 2})
	l.Error("graph_consumer", "third", map[string]interface{}{"error": "boom"})
	assert.NoError(t, l.Sync())

	t.Run("newest first", func(t *testing.T) {
		entries, err := l.GetLogs("", 10, 0)
		assert.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Equal(t, "third", entries[0].Message)
		assert.Equal(t, "first", entries[2].Message)
	})

	t.Run("level filter", func(t *testing.T) {
		entries, err := l.GetLogs("WARN", 10, 0)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, "second", entries[0].Message)
		assert.Equal(t, "context_service", entries[0].Module)
	})

	t.Run("pagination", func(t *testing.T) {
		entries, err := l.GetLogs("", 2, 2)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)

		entries, err = l.GetLogs("", 2, 10)
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing file is empty, not an error", func(t *testing.T) {
		empty := &ZapLogger{logger: l.logger, filePath: filepath.Join(t.TempDir(), "nothing.log")}
		entries, err := empty.GetLogs("", 10, 0)
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGetLogById(t *testing.T) {
	l := newFileLogger(t)

	l.Info("search_service", "findable", nil)
	assert.NoError(t, l.Sync())

	entries, err := l.GetLogs("", 10, 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].Id)

	t.Run("known id", func(t *testing.T) {
		entry, err := l.GetLogById(entries[0].Id)
		assert.NoError(t, err)
		assert.NotNil(t, entry)
		assert.Equal(t, "findable", entry.Message)
	})

	t.Run("unknown id is nil, not an error", func(t *testing.T) {
		entry, err := l.GetLogById("does-not-exist")
		assert.NoError(t, err)
		assert.Nil(t, entry)
	})
}
