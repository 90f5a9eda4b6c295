package vm

import (
	"fmt"

	"github.com/retro49/plas/parser"
)

// ExtractValue implements SPEC_FULL.md §4.4's "Value extraction": a VALUE
// token is parsed from its lexeme, a MEMORY token is read from the
// register file (its stored representation, int or real, already decides
// how it prints).
func ExtractValue(tok parser.Token, regs *Registers) (Number, error) {
	switch tok.Kind {
	case parser.KindValue:
		return parseLexemeNumber(tok.Lexeme)
	case parser.KindMemory:
		idx, ok := registerIndex(tok.Lexeme)
		if !ok {
			return Number{}, fmt.Errorf("invalid register lexeme %q", tok.Lexeme)
		}
		return regs.Get(idx), nil
	default:
		return Number{}, fmt.Errorf("token kind %s is not a value or register", tok.Kind)
	}
}
