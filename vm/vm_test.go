package vm_test

import (
	"bytes"
	"testing"

	"github.com/retro49/plas/parser"
	"github.com/retro49/plas/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, source string) *parser.Program {
	t.Helper()
	program, errs := parser.Parse(source, "test.plas", parser.Options{})
	require.False(t, errs.HasErrors(), "unexpected parse errors: %v", errs.Error())
	return program
}

func TestVM_HelloChar(t *testing.T) {
	program := compile(t, "load $0 72\nputc $0\nexit 0\n")
	var out bytes.Buffer
	machine := vm.New(program, &out)

	err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, "H", out.String())
	assert.Equal(t, 0, machine.ExitCode())
}

func TestVM_Countdown(t *testing.T) {
	src := "load $0 3\n: loop\nlog $0\nsub $0 1\neval $0 0\nifgt @ loop\nexit 0\n"
	program := compile(t, src)
	var out bytes.Buffer
	machine := vm.New(program, &out)

	require.NoError(t, machine.Run())
	assert.Equal(t, "3\n2\n1\n", out.String())
	assert.Equal(t, 0, machine.ExitCode())
}

func TestVM_GoHomeResumesAfterGo(t *testing.T) {
	src := "load $0 0\ngo @ sub\nlog $0\nexit 0\n: sub\nload $0 42\nhome\n"
	program := compile(t, src)
	var out bytes.Buffer
	machine := vm.New(program, &out)

	require.NoError(t, machine.Run())
	assert.Equal(t, "42\n", out.String())
	assert.Equal(t, 0, machine.ExitCode())
}

func TestVM_IntegerDivisionByZero(t *testing.T) {
	src := "load $0 10\nload $1 0\nidiv $0 $1\n"
	program := compile(t, src)
	var out bytes.Buffer
	machine := vm.New(program, &out)

	err := machine.Run()
	require.Error(t, err)
	re, ok := err.(*vm.RuntimeError)
	require.True(t, ok)
	assert.Equal(t, vm.ErrZeroDivision, re.Kind)
	assert.Equal(t, vm.ExitZeroDivision, machine.ExitCode())
}

func TestVM_EvalTruthTable(t *testing.T) {
	tests := []struct {
		name                   string
		x, y                   int64
		eq, ne, gt, lt, ge, le bool
	}{
		{"equal", 5, 5, true, true, false, false, true, true},
		{"greater", 5, 3, false, true, true, false, false, false},
		{"less", 3, 5, false, true, false, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "load $0 0\nload $1 0\nexit 0\n"
			program := compile(t, src)
			var out bytes.Buffer
			machine := vm.New(program, &out)
			machine.Regs.Set(0, vm.Int(tt.x))
			machine.Regs.Set(1, vm.Int(tt.y))
			machine.Flags.Eval(machine.Regs.Get(0), machine.Regs.Get(1))

			assert.Equal(t, tt.eq, machine.Flags[vm.FlagEq])
			assert.Equal(t, tt.ne, machine.Flags[vm.FlagNe])
			assert.Equal(t, tt.gt, machine.Flags[vm.FlagGt])
			assert.Equal(t, tt.lt, machine.Flags[vm.FlagLt])
			assert.Equal(t, tt.ge, machine.Flags[vm.FlagGe])
			assert.Equal(t, tt.le, machine.Flags[vm.FlagLe])
		})
	}
}

func TestVM_AddPromotesToReal(t *testing.T) {
	program := compile(t, "load $0 3\nadd $0 1.5\nlog $0\nexit 0\n")
	var out bytes.Buffer
	machine := vm.New(program, &out)

	require.NoError(t, machine.Run())
	assert.Equal(t, "4.5\n", out.String())
}

func TestVM_DataInstructionWarnsAndContinues(t *testing.T) {
	program := compile(t, "data\nlog $0\nexit 0\n")
	var out bytes.Buffer
	machine := vm.New(program, &out)

	var warned bool
	machine.OnWarning = func(message string, originLine int) {
		warned = true
	}

	require.NoError(t, machine.Run())
	assert.True(t, warned)
	assert.Equal(t, "0\n", out.String())
}

func TestVM_StepBudgetExceeded(t *testing.T) {
	program := compile(t, ": loop\nlog $0\ngo @ loop\n")
	var out bytes.Buffer
	machine := vm.New(program, &out)
	machine.MaxSteps = 5

	err := machine.Run()
	require.Error(t, err)
	re, ok := err.(*vm.RuntimeError)
	require.True(t, ok)
	assert.Equal(t, vm.ErrStepBudgetExceeded, re.Kind)
}
