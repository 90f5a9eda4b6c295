package runner_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/retro49/plas/diag"
	"github.com/retro49/plas/runner"
	"github.com/retro49/plas/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.plas")
	require.NoError(t, os.WriteFile(path, []byte(source), 0600))
	return path
}

func newOptions(out *bytes.Buffer, diagOut *bytes.Buffer) runner.Options {
	return runner.Options{
		MaxSteps: 10000,
		Out:      out,
		Logger:   diag.NewLogger(diagOut, false),
	}
}

func TestRunner_HelloChar(t *testing.T) {
	path := writeProgram(t, "load $0 72\nputc $0\nexit 0\n")
	var out, diagOut bytes.Buffer

	code := runner.Run(path, newOptions(&out, &diagOut))
	assert.Equal(t, 0, code)
	assert.Equal(t, "H", out.String())
}

func TestRunner_Countdown(t *testing.T) {
	src := "load $0 3\n: loop\nlog $0\nsub $0 1\neval $0 0\nifgt @ loop\nexit 0\n"
	path := writeProgram(t, src)
	var out, diagOut bytes.Buffer

	code := runner.Run(path, newOptions(&out, &diagOut))
	assert.Equal(t, 0, code)
	assert.Equal(t, "3\n2\n1\n", out.String())
}

func TestRunner_Subroutine(t *testing.T) {
	src := "load $0 0\ngo @ sub\nlog $0\nexit 0\n: sub\nload $0 42\nhome\n"
	path := writeProgram(t, src)
	var out, diagOut bytes.Buffer

	code := runner.Run(path, newOptions(&out, &diagOut))
	assert.Equal(t, 0, code)
	assert.Equal(t, "42\n", out.String())
}

func TestRunner_ZeroDivision(t *testing.T) {
	path := writeProgram(t, "load $0 10\nload $1 0\nidiv $0 $1\n")
	var out, diagOut bytes.Buffer

	code := runner.Run(path, newOptions(&out, &diagOut))
	assert.Equal(t, vm.ExitZeroDivision, code)
	assert.Contains(t, diagOut.String(), "zero division error")
}

func TestRunner_UndefinedLabel(t *testing.T) {
	path := writeProgram(t, "go @ nowhere\n")
	var out, diagOut bytes.Buffer

	code := runner.Run(path, newOptions(&out, &diagOut))
	assert.Equal(t, vm.ExitSyntaxError, code)
	assert.Contains(t, diagOut.String(), "label not found")
}

func TestRunner_MissingArgument(t *testing.T) {
	path := writeProgram(t, "load $0\n")
	var out, diagOut bytes.Buffer

	code := runner.Run(path, newOptions(&out, &diagOut))
	assert.Equal(t, vm.ExitSyntaxError, code)
	assert.Contains(t, diagOut.String(), "expected argument not found")
}

func TestRunner_FileNotFound(t *testing.T) {
	var out, diagOut bytes.Buffer

	code := runner.Run(filepath.Join(t.TempDir(), "missing.plas"), newOptions(&out, &diagOut))
	assert.Equal(t, 2, code)
	assert.Contains(t, diagOut.String(), "file not found")
}

func TestRunner_DumpTokensArtifact(t *testing.T) {
	path := writeProgram(t, "load $0 72\nputc $0\nexit 0\n")
	var out, diagOut bytes.Buffer
	opts := newOptions(&out, &diagOut)
	opts.DumpTokens = true

	code := runner.Run(path, opts)
	assert.Equal(t, 0, code)

	_, err := os.Stat(path + ".tkn")
	assert.NoError(t, err)
}
