package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelftestCommand_AllChecksPass(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cmd := newSelftestCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "SELFTEST: OK\n", out.String())
}

func TestSelftestCommand_DoesNotTouchCache(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cmd := newSelftestCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.NoFileExists(t, filepath.Join(dir, ".slidegauge.cache.json"))
}
