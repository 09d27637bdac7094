package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSharesGlobalsAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	_, err, _ := Run("<test>", "var x = 1", false, g)
	require.NoError(t, err)

	_, err, _ = Run("<test>", "x = x + 41\nprint(x)", false, g)
	require.NoError(t, err)

	assert.Equal(t, "42\n", out.String())
}

func TestRunReturnsValue(t *testing.T) {
	var out bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	value, err, _ := Run("<test>", "1 + 2", false, g)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "[3]", value.Repr())
}

func TestRunLexErrorShortCircuits(t *testing.T) {
	var out bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	_, err, _ := Run("<test>", "var x = @", false, g)
	require.Error(t, err)
	assert.Contains(t, ErrorText(err), "Illegal Character")
}

func TestRunParseErrorShortCircuits(t *testing.T) {
	var out bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	_, err, _ := Run("<test>", "var = 1", false, g)
	require.Error(t, err)
	assert.Contains(t, ErrorText(err), "Invalid Syntax")
}

func TestRunDebugCapturesTokens(t *testing.T) {
	var out bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	_, err, tokens := Run("<test>", "1 + 2", true, g)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens)
}

func TestRunNonDebugOmitsTokens(t *testing.T) {
	var out bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	_, err, tokens := Run("<test>", "1 + 2", false, g)
	require.NoError(t, err)
	assert.Nil(t, tokens)
}

func TestRunFileSuccessPrintsNothingToStderr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lk")
	require.NoError(t, os.WriteFile(path, []byte("print(1 + 1)"), 0o644))

	var out, stderr bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	err := RunFile(path, g, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())
	assert.Empty(t, stderr.String())
}

func TestRunFileRuntimeErrorReportsToStderr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lk")
	require.NoError(t, os.WriteFile(path, []byte("1 / 0"), 0o644))

	var out, stderr bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	err := RunFile(path, g, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Divisor cannot be 0")
}

func TestRunFileMissingFileReportsLoadFailure(t *testing.T) {
	var out, stderr bytes.Buffer
	g := NewGlobals(&out, strings.NewReader(""))

	err := RunFile(filepath.Join(t.TempDir(), "missing.lk"), g, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Fail to load script")
}
