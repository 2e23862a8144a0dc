package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := newLogger()

	assert.NotNil(t, logger)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)

	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
}

func TestGlobalVariables(t *testing.T) {
	ctx := context.Background()
	logger1 := G(ctx)
	logger2 := G(ctx)

	assert.Equal(t, logger1.Logger, logger2.Logger)

	assert.NotNil(t, L)
	assert.IsType(t, &logrus.Entry{}, L)
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	entry := logrus.NewEntry(logrus.New()).WithField("component", "test")

	ctx = WithLogger(ctx, entry)
	retrieved := GetLogger(ctx)

	assert.Equal(t, entry.Logger, retrieved.Logger)
	assert.Equal(t, "test", retrieved.Data["component"])
}

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	retrieved := GetLogger(context.Background())
	assert.Equal(t, L.Logger, retrieved.Logger)
}

func TestSetLogLevel(t *testing.T) {
	originalLevel := L.Logger.GetLevel()
	defer L.Logger.SetLevel(originalLevel)

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	require.NoError(t, SetLogLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("not-a-level"))
}

func TestSetLogFormat(t *testing.T) {
	defer SetLogFormat("fmt")

	SetLogFormat("json")
	assert.IsType(t, &logrus.JSONFormatter{}, L.Logger.Formatter)

	SetLogFormat("fmt")
	assert.IsType(t, &logrus.TextFormatter{}, L.Logger.Formatter)

	// Unknown formats fall back to text
	SetLogFormat("bogus")
	assert.IsType(t, &logrus.TextFormatter{}, L.Logger.Formatter)
}

func TestJSONFormatFieldMap(t *testing.T) {
	var buf bytes.Buffer
	defer func() {
		SetLogFormat("fmt")
		SetLogOutput(os.Stderr)
	}()

	SetLogFormat("json")
	SetLogOutput(&buf)

	L.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["message"])
	assert.Equal(t, "info", record["logLevel"])
	assert.Contains(t, record, "timestamp")
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	defer SetLogOutput(os.Stderr)

	SetLogFormat("fmt")
	SetLogOutput(&buf)

	L.WithField("path", "skills/a.md").Info("parsed document")

	output := buf.String()
	assert.True(t, strings.Contains(output, "parsed document"))
	assert.True(t, strings.Contains(output, "path="))
}
