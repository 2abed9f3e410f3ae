package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want logrus.Level
	}{
		{raw: "debug", want: logrus.DebugLevel},
		{raw: " WARN ", want: logrus.WarnLevel},
		{raw: "warning", want: logrus.WarnLevel},
		{raw: "err", want: logrus.ErrorLevel},
		{raw: "trace", want: logrus.TraceLevel},
		{raw: "", want: logrus.InfoLevel},
		{raw: "verbose", want: logrus.InfoLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.raw, func(t *testing.T) {
			assert.Equal(t, testCase.want, ParseLevel(testCase.raw))
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: "debug", Format: "json"})

	logger.WithField("booking_id", 7).Debug("booking created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking created", entry["msg"])
	assert.Equal(t, float64(7), entry["booking_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithWriter_TextFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: "error"})

	logger.Info("not shown")
	assert.Empty(t, buf.String())

	logger.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}
