package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefs_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)
	p := LoadFrom(path)
	assert.Equal(t, "pan", p.StringWithFallback(KeyTool, "pan"))
	assert.True(t, p.Bool(KeyCursor, true))

	p.SetString(KeyTool, "measurement")
	p.SetBool(KeyCursor, false)
	p.SetFloat(KeyWidth, 1280)
	require.NoError(t, p.SaveIfChanged())

	q := LoadFrom(path)
	assert.Equal(t, "measurement", q.StringWithFallback(KeyTool, "pan"))
	assert.False(t, q.Bool(KeyCursor, true))
	assert.Equal(t, 1280.0, q.FloatWithFallback(KeyWidth, 0))
}

func TestPrefs_SaveIfChangedSkipsClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	p := LoadFrom(path)
	require.NoError(t, p.SaveIfChanged())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	p.SetString(KeySymbol, "ETHUSDT")
	require.NoError(t, p.SaveIfChanged())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
