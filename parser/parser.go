// Package parser implements the PLAS tokenizer and the five-pass linker
// described in SPEC_FULL.md §4.2–§4.3: lexeme splitting and classification,
// label extraction and substitution, declarative shape matching, and dense
// address linking.
package parser

import "fmt"

// Instruction is one linked program line: its token list (first token
// always KindInstruction once parsing succeeds) and the 1-based origin
// line it came from, kept only for diagnostics.
type Instruction struct {
	Tokens []Token
	Origin int
}

// Program is the dense, address-indexed output of the linker
// (SPEC_FULL.md §3): Instructions[address] is the line that executes at
// that address.
type Program struct {
	Instructions []*Instruction

	// Labels maps every declared label name to the address it resolved
	// to, kept for tooling (lint's unused-label check) even though
	// execution itself never needs a name once linked.
	Labels map[string]int
}

// Len returns the number of linked addresses.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// At returns the instruction at address, or nil if out of range.
func (p *Program) At(address int) *Instruction {
	if address < 0 || address >= len(p.Instructions) {
		return nil
	}
	return p.Instructions[address]
}

// OriginLine resolves an address back to its 1-based source line, the
// mapping runtime errors use to report their origin (SPEC_FULL.md §7).
func (p *Program) OriginLine(address int) int {
	if instr := p.At(address); instr != nil {
		return instr.Origin
	}
	return 0
}

// Options controls parser behavior that SPEC_FULL.md adds on top of the
// core contract.
type Options struct {
	// DataStrict promotes the unsupported `data` instruction from a
	// runtime warning to a fatal link-time syntax error (SPEC_FULL.md
	// Part C).
	DataStrict bool
}

// workLine is a line mid-pipeline: tokens still being rewritten by
// successive passes.
type workLine struct {
	Tokens []Token
	Origin int
}

// Parser runs the five-pass pipeline over one source file's preprocessed,
// tokenized lines.
type Parser struct {
	filename string
	opts     Options
	lines    []*workLine
	labels   *LabelTable
	errors   *ErrorList
}

// Parse preprocesses, tokenizes, and links source into a Program. The
// returned ErrorList is always non-nil; check HasErrors before using the
// Program.
func Parse(source, filename string, opts Options) (*Program, *ErrorList) {
	p := &Parser{
		filename: filename,
		opts:     opts,
		labels:   NewLabelTable(),
		errors:   &ErrorList{},
	}

	for _, line := range Preprocess(source) {
		p.lines = append(p.lines, &workLine{
			Tokens: Tokenize(line, filename),
			Origin: line.Origin,
		})
	}

	p.extractLabels()
	if p.errors.HasErrors() {
		return nil, p.errors
	}

	p.resolveLabelTargets()
	if p.errors.HasErrors() {
		return nil, p.errors
	}

	p.checkStartingSyntax()
	if p.errors.HasErrors() {
		return nil, p.errors
	}

	p.substituteLabels()
	if p.errors.HasErrors() {
		return nil, p.errors
	}

	p.matchShapes()
	if p.errors.HasErrors() {
		return nil, p.errors
	}

	program := p.linkAddresses()
	return program, p.errors
}

// isLabelName reports whether tok can name a label after ':' or '@'. An
// instruction word (e.g. "sub") is a valid label name in that position.
func isLabelName(tok Token) bool {
	return tok.Kind == KindLabel || tok.Kind == KindInstruction
}

// pos builds a Position anchored at column 1 of a line, used for
// whole-line diagnostics.
func (p *Parser) pos(origin int) Position {
	return Position{Filename: p.filename, Line: origin, Column: 1}
}

// extractLabels is Pass 2: find `: name` declarations, register them, and
// truncate the line to whatever preceded the `:` (SPEC_FULL.md §4.3).
func (p *Parser) extractLabels() {
	for _, wl := range p.lines {
		idx := -1
		for i, tok := range wl.Tokens {
			if tok.Kind == KindSymbol && tok.Lexeme == ":" {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}

		if idx+1 >= len(wl.Tokens) {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrMalformedDirective,
				fmt.Sprintf("unable to locate label at line %d", wl.Origin),
				"expected a label name after ':'"))
			return
		}
		if !isLabelName(wl.Tokens[idx+1]) {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrMalformedDirective,
				fmt.Sprintf("invalid label provided at line %d", wl.Origin),
				fmt.Sprintf("found %q", wl.Tokens[idx+1].Lexeme)))
			return
		}
		if idx+2 < len(wl.Tokens) {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrMalformedDirective,
				"definition not allowed after label",
				fmt.Sprintf("error at line %d", wl.Origin)))
			return
		}

		name := wl.Tokens[idx+1].Lexeme
		if !p.labels.Define(name, wl.Origin, wl.Tokens[idx].Pos) {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrDuplicateLabel,
				"label cannot be redefined",
				fmt.Sprintf("label %q redefined at line %d", name, wl.Origin)))
			return
		}

		wl.Tokens = wl.Tokens[:idx]
	}
}

// resolveLabelTargets rewrites every label's provisional target (its own,
// now-empty declaration line) to the origin line of the first surviving
// instruction that follows it, matching the Label Table definition in
// SPEC_FULL.md §3 and Invariant 1 (every address starts with an
// INSTRUCTION token — label-only lines never occupy an address of their
// own).
func (p *Parser) resolveLabelTargets() {
	for _, name := range p.labels.Names() {
		declOrigin, _ := p.labels.Resolve(name)
		target, ok := p.firstSurvivorAfter(declOrigin)
		if !ok {
			p.errors.AddError(NewError(p.pos(declOrigin), ErrMalformedDirective,
				fmt.Sprintf("label %q has no instruction to resolve to", name)))
			return
		}
		p.labels.set(name, target)
	}
}

func (p *Parser) firstSurvivorAfter(origin int) (int, bool) {
	for _, wl := range p.lines {
		if wl.Origin > origin && len(wl.Tokens) > 0 {
			return wl.Origin, true
		}
	}
	return 0, false
}

// checkStartingSyntax is Pass 1: every surviving line's first token must be
// an INSTRUCTION. Lines emptied entirely by label extraction carry no
// instruction and are skipped here; they are dropped from the address
// space in linkAddresses.
func (p *Parser) checkStartingSyntax() {
	for _, wl := range p.lines {
		if len(wl.Tokens) == 0 {
			continue
		}
		if wl.Tokens[0].Kind != KindInstruction {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrSyntax,
				fmt.Sprintf("instruction is expected at line %d", wl.Origin),
				fmt.Sprintf("given is [ %s ] not instruction", wl.Tokens[0].Lexeme)))
			return
		}
	}
}

// substituteLabels is Pass 3: find `@ name` references and replace them
// with a single ADDRESS token carrying the label's (still origin-line)
// target.
func (p *Parser) substituteLabels() {
	for _, wl := range p.lines {
		idx := -1
		for i, tok := range wl.Tokens {
			if tok.Kind == KindSymbol && tok.Lexeme == "@" {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}

		if idx+1 >= len(wl.Tokens) {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrMalformedDirective,
				fmt.Sprintf("unable to locate label at line %d", wl.Origin),
				"expected a label name after '@'"))
			return
		}
		if !isLabelName(wl.Tokens[idx+1]) {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrMalformedDirective,
				fmt.Sprintf("invalid label provided at line %d", wl.Origin),
				fmt.Sprintf("found %q", wl.Tokens[idx+1].Lexeme)))
			return
		}
		if idx+2 < len(wl.Tokens) {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrMalformedDirective,
				"syntax not allowed after label",
				fmt.Sprintf("error at line %d", wl.Origin)))
			return
		}

		name := wl.Tokens[idx+1].Lexeme
		target, ok := p.labels.Resolve(name)
		if !ok {
			p.errors.AddError(NewErrorWithReason(p.pos(wl.Origin),
				ErrUndefinedLabel,
				fmt.Sprintf("label not found at line %d", wl.Origin),
				fmt.Sprintf("label [ %s ] could not be found", name)))
			return
		}

		addrTok := Token{Kind: KindAddress, Lexeme: name, Addr: target, Pos: wl.Tokens[idx].Pos}
		wl.Tokens = append(wl.Tokens[:idx], addrTok)
	}
}

// matchShapes is Pass 4: validate each instruction's argument count and
// per-position kinds against Grammar. `data` is permissive unless
// DataStrict is set (SPEC_FULL.md Part C).
func (p *Parser) matchShapes() {
	for _, wl := range p.lines {
		if len(wl.Tokens) == 0 {
			continue
		}
		mnemonic := wl.Tokens[0].Lexeme
		args := wl.Tokens[1:]

		if mnemonic == "data" {
			if p.opts.DataStrict {
				p.errors.AddError(NewError(p.pos(wl.Origin), ErrShapeMismatch,
					fmt.Sprintf("data instruction is not supported at line %d", wl.Origin)))
				return
			}
			continue
		}

		rule, ok := Grammar[mnemonic]
		if !ok {
			p.errors.AddError(NewError(p.pos(wl.Origin), ErrSyntax,
				fmt.Sprintf("unknown instruction %q at line %d", mnemonic, wl.Origin)))
			return
		}

		if len(args) != len(rule) {
			p.errors.AddError(NewError(p.pos(wl.Origin), ErrShapeMismatch,
				fmt.Sprintf("expected argument not found at line %d", wl.Origin)))
			return
		}

		for i, set := range rule {
			if !set[args[i].Kind] {
				p.errors.AddError(NewError(p.pos(wl.Origin), ErrShapeMismatch,
					fmt.Sprintf("expected %s but found ( %s ) at line %d", set, args[i].Lexeme, wl.Origin)))
				return
			}
		}
	}
}

// linkAddresses is Pass 5: assign a dense address to every surviving
// (non-empty) line in origin order, then rewrite every ADDRESS token's
// payload from origin line to final address.
func (p *Parser) linkAddresses() *Program {
	originToAddress := make(map[int]int)
	var survivors []*workLine

	for _, wl := range p.lines {
		if len(wl.Tokens) == 0 {
			continue
		}
		originToAddress[wl.Origin] = len(survivors)
		survivors = append(survivors, wl)
	}

	program := &Program{Instructions: make([]*Instruction, len(survivors))}
	for addr, wl := range survivors {
		for i := range wl.Tokens {
			if wl.Tokens[i].Kind == KindAddress {
				if resolved, ok := originToAddress[wl.Tokens[i].Addr]; ok {
					wl.Tokens[i].Addr = resolved
				}
			}
		}
		program.Instructions[addr] = &Instruction{Tokens: wl.Tokens, Origin: wl.Origin}
	}

	program.Labels = make(map[string]int)
	for _, name := range p.labels.Names() {
		if declOrigin, ok := p.labels.Resolve(name); ok {
			if addr, ok := originToAddress[declOrigin]; ok {
				program.Labels[name] = addr
			}
		}
	}

	return program
}
