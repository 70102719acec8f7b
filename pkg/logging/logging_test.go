package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", FormatText, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.WithField("field", "f").Warn("cannot find value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "cannot find value")
	assert.Contains(t, buf.String(), "field=f")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", "JSON", &buf)
	require.NoError(t, err)

	log.WithField("points", 3).Debug("reading tube points")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reading tube points", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 3, entry["points"])
}

func TestNewErrors(t *testing.T) {
	_, err := New("loud", FormatText, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.Equal(t, logrus.PanicLevel, log.GetLevel())
	assert.False(t, log.IsLevelEnabled(logrus.ErrorLevel))
	log.Error("dropped")
}
