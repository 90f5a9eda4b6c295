package parser

// ArgSet is the set of token kinds permitted at one argument position.
type ArgSet map[Kind]bool

func argSet(kinds ...Kind) ArgSet {
	s := make(ArgSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

func (s ArgSet) String() string {
	names := make([]string, 0, len(s))
	// Deterministic, spec-table order.
	for _, k := range []Kind{KindMemory, KindValue, KindAddress, KindLabel, KindInstruction, KindSymbol, KindError} {
		if s[k] {
			names = append(names, k.String())
		}
	}
	out := "("
	for i, n := range names {
		if i > 0 {
			out += " "
		}
		out += n
	}
	return out + ")"
}

// Rule is the declarative argument shape for one instruction: one ArgSet
// per required argument position (SPEC_FULL.md §4.3, Pass 4).
type Rule []ArgSet

// Grammar is the per-instruction shape table. "data" is intentionally
// absent: it is reserved and not validated by this table (SPEC_FULL.md
// §4.3); matchShapes handles it separately.
var Grammar = map[string]Rule{
	"putc": {argSet(KindMemory)},
	"load": {argSet(KindMemory), argSet(KindMemory, KindValue)},
	"go":   {argSet(KindAddress)},
	"exit": {argSet(KindMemory, KindValue)},
	"eval": {argSet(KindMemory, KindValue), argSet(KindMemory, KindValue)},
	"ifeq": {argSet(KindAddress)},
	"ifne": {argSet(KindAddress)},
	"ifgt": {argSet(KindAddress)},
	"iflt": {argSet(KindAddress)},
	"ifge": {argSet(KindAddress)},
	"ifle": {argSet(KindAddress)},
	"add":  {argSet(KindMemory), argSet(KindMemory, KindValue)},
	"sub":  {argSet(KindMemory), argSet(KindMemory, KindValue)},
	"mul":  {argSet(KindMemory), argSet(KindMemory, KindValue)},
	"idiv": {argSet(KindMemory), argSet(KindMemory, KindValue)},
	"div":  {argSet(KindMemory), argSet(KindMemory, KindValue)},
	"home": {},
	"log":  {argSet(KindMemory)},
}
