package vm

import (
	"fmt"

	"github.com/retro49/plas/parser"
)

func (v *VM) opPutc(args []parser.Token) error {
	idx, ok := registerIndex(args[0].Lexeme)
	if !ok {
		return fmt.Errorf("invalid register %q", args[0].Lexeme)
	}
	fmt.Fprintf(v.Out, "%c", rune(v.Regs.Get(idx).Int64()))
	return nil
}

func (v *VM) opLoad(args []parser.Token) error {
	dst, ok := registerIndex(args[0].Lexeme)
	if !ok {
		return fmt.Errorf("invalid register %q", args[0].Lexeme)
	}
	val, err := ExtractValue(args[1], &v.Regs)
	if err != nil {
		return err
	}
	v.Regs.Set(dst, val)
	return nil
}

// opGo saves the address `go` is taken from into Ret, then jumps to the
// target. There is one return slot; nesting is unsupported (SPEC_FULL.md
// §4.4, §9).
func (v *VM) opGo(args []parser.Token) {
	v.Ret = v.IP
	v.IP = args[0].Addr
}

// opHome resumes immediately after the `go` that set Ret.
func (v *VM) opHome() {
	v.IP = v.Ret + 1
}

func (v *VM) opExit(args []parser.Token) (int, error) {
	val, err := ExtractValue(args[0], &v.Regs)
	if err != nil {
		return 0, err
	}
	return int(val.Int64()), nil
}

// opEval computes the asymmetric comparison truth table (SPEC_FULL.md
// §4.4, §9).
func (v *VM) opEval(args []parser.Token) error {
	x, err := ExtractValue(args[0], &v.Regs)
	if err != nil {
		return err
	}
	y, err := ExtractValue(args[1], &v.Regs)
	if err != nil {
		return err
	}
	v.Flags.Eval(x, y)
	return nil
}

// opIf jumps to the argument address iff the instruction's flag is set; it
// never modifies flags.
func (v *VM) opIf(mnemonic string, args []parser.Token) (jumped bool, err error) {
	flagIdx, ok := flagForMnemonic(mnemonic)
	if !ok {
		return false, fmt.Errorf("unknown conditional instruction %q", mnemonic)
	}
	if v.Flags[flagIdx] {
		v.IP = args[0].Addr
		return true, nil
	}
	return false, nil
}

func (v *VM) opArith(mnemonic string, args []parser.Token, origin int) error {
	dst, ok := registerIndex(args[0].Lexeme)
	if !ok {
		return fmt.Errorf("invalid register %q", args[0].Lexeme)
	}
	rhs, err := ExtractValue(args[1], &v.Regs)
	if err != nil {
		return err
	}
	cur := v.Regs.Get(dst)

	var result Number
	switch mnemonic {
	case "add":
		result = cur.add(rhs)
	case "sub":
		result = cur.sub(rhs)
	case "mul":
		result = cur.mul(rhs)
	default:
		return fmt.Errorf("unknown arithmetic instruction %q at line %d", mnemonic, origin)
	}
	v.Regs.Set(dst, result)
	return nil
}

func (v *VM) opIdiv(args []parser.Token, origin int) error {
	dst, ok := registerIndex(args[0].Lexeme)
	if !ok {
		return fmt.Errorf("invalid register %q", args[0].Lexeme)
	}
	divisor, err := ExtractValue(args[1], &v.Regs)
	if err != nil {
		return err
	}
	if divisor.IsZero() {
		return &RuntimeError{
			Kind:       ErrZeroDivision,
			Message:    "zero division error",
			Reason:     fmt.Sprintf("idiv at line %d", origin),
			OriginLine: origin,
		}
	}
	cur := v.Regs.Get(dst)
	v.Regs.Set(dst, Int(cur.Int64()/divisor.Int64()))
	return nil
}

func (v *VM) opDiv(args []parser.Token, origin int) error {
	dst, ok := registerIndex(args[0].Lexeme)
	if !ok {
		return fmt.Errorf("invalid register %q", args[0].Lexeme)
	}
	divisor, err := ExtractValue(args[1], &v.Regs)
	if err != nil {
		return err
	}
	if divisor.IsZero() {
		return &RuntimeError{
			Kind:       ErrZeroDivision,
			Message:    "zero division error",
			Reason:     fmt.Sprintf("div at line %d", origin),
			OriginLine: origin,
		}
	}
	cur := v.Regs.Get(dst)
	v.Regs.Set(dst, Real(cur.Float64()/divisor.Float64()))
	return nil
}

func (v *VM) opLog(args []parser.Token) error {
	idx, ok := registerIndex(args[0].Lexeme)
	if !ok {
		return fmt.Errorf("invalid register %q", args[0].Lexeme)
	}
	fmt.Fprintf(v.Out, "%s\n", v.Regs.Get(idx).String())
	return nil
}

// opData is the Open Question resolution (SPEC_FULL.md Part C): `data` is
// a no-op at runtime, advancing like any other instruction, but it emits a
// warning rather than silently succeeding.
func (v *VM) opData(origin int) {
	if v.OnWarning != nil {
		v.OnWarning("data instruction has no effect", origin)
	}
}
