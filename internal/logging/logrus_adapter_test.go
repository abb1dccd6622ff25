package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{"debug level with text format", "debug", "text", logrus.DebugLevel},
		{"info level with json format", "info", "json", logrus.InfoLevel},
		{"upper case level", "WARN", "text", logrus.WarnLevel},
		{"invalid level defaults to info", "invalid", "text", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapterWithWriter(tt.level, tt.format, &bytes.Buffer{})
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.Underlying().Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithWriter("debug", "json", &buf)

	logger.WithField(FieldRequestID, "abc").
		WithError(errors.New("boom")).
		Warn("upload rejected", F(FieldCount, 0))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "upload rejected", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "abc", entry[FieldRequestID])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, float64(0), entry[FieldCount])
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithWriter("warn", "text", &buf)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Error("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{F("key1", "value1"), F("key2", 42)})
	assert.Len(t, fields, 2)
	assert.Equal(t, "value1", fields["key1"])
	assert.Equal(t, 42, fields["key2"])
	assert.Len(t, convertFields(nil), 0)
}

func TestMockLogger_DerivedLoggersShareSink(t *testing.T) {
	mock := NewMockLogger()

	mock.WithField("a", 1).WithFields(F("b", 2)).Info("derived")
	mock.WithError(errors.New("bad")).Error("failed")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)

	v, ok := entries[0].FieldValue("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = entries[0].FieldValue("a")
	assert.True(t, ok)

	assert.True(t, mock.HasEntry("ERROR", "failed"))
	assert.EqualError(t, mock.GetEntriesByLevel("ERROR")[0].Error, "bad")

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestMockLogger_ConcurrentUse(t *testing.T) {
	mock := NewMockLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mock.WithField("i", i).Debug(strings.Repeat("x", i))
		}(i)
	}
	wg.Wait()
	assert.Len(t, mock.GetEntriesByLevel("DEBUG"), 20)
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
