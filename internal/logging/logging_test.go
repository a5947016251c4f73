package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_LevelAndFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetLevel(logrus.InfoLevel)

	path := filepath.Join(t.TempDir(), "candlescope.log")
	closer := Setup(Options{Level: "debug", File: path})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.WithField("component", "test").Debug("hello file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, string(data), "component=test")
}

func TestSetup_UnknownLevel(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	closer := Setup(Options{Level: "chatty"})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.NoError(t, closer.Close())
}
