// Package parser converts infix expression text into a postfix
// (rightmost-argument-on-top) token stream, annotated with the arity every
// operator and function call resolved to. The algorithm is a six-stage
// text-rewriting pipeline — validate, wrap atoms to a fixed point,
// postfix-convert operators, postfix-convert function calls, flatten
// punctuation, tokenize — run entirely by index-based scanning over the
// expression text; nothing here is recursive-descent, and the operator
// table it drives off is its own, independent of any runtime environment
// the compiler later resolves names against.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/candycode/micromath/internal/mmerr"
	"github.com/candycode/micromath/internal/obslog"
	"github.com/candycode/micromath/internal/scanner"
	"github.com/candycode/micromath/internal/token"
)

// Parser holds the configuration that governs one parse: the operator
// table driving stages 1, 3 and 6, and three behavioral switches exposed as
// constructor flags.
type Parser struct {
	// Operators is consulted in table order by postfixOperators (earlier
	// entries convert first) and by name+arity lookup when resolving an
	// overload.
	Operators []OperatorDef
	// SwapArgs reverses a function call's top-level argument order during
	// postfix conversion — a host whose runtime expects arguments
	// right-to-left sets this.
	SwapArgs bool
	// CountArgs turns on arity annotation: with it on, every postfixed
	// operator carries a resolved [largs rargs outvals] and every
	// function call carries [args]; with it off, both are emitted bare
	// and arity resolution is deferred to the compiler, which looks up
	// the callable by name alone via LookupFunction's rargs<0 path.
	// Placing an operator's operands never needed its resolved arity —
	// that's pure text adjacency — so turning CountArgs off only drops
	// the annotation, it never changes where a token ends up.
	CountArgs bool
	// Debug, when true, writes the expression text after each pipeline
	// stage to Log.
	Debug bool
	Log   *obslog.Sink
}

// New returns a Parser with the given operator table and count_args/
// swap_args/debug switches.
func New(ops []OperatorDef, swapArgs, countArgs, debug bool, log *obslog.Sink) *Parser {
	return &Parser{Operators: ops, SwapArgs: swapArgs, CountArgs: countArgs, Debug: debug, Log: log}
}

// Parse runs the full six-stage pipeline over expr and returns the
// resulting postfix token stream.
func (p *Parser) Parse(expr string) ([]token.Token, error) {
	if err := p.validate(expr); err != nil {
		return nil, err
	}
	p.trace("validate", expr)

	wrapped := p.wrap(stripBlanks(expr))
	p.trace("wrap", wrapped)

	postfixOps, err := p.postfixOperators(wrapped)
	if err != nil {
		return nil, err
	}
	p.trace("postfix_operators", postfixOps)

	postfixFns, err := p.postfixFunctions(postfixOps)
	if err != nil {
		return nil, err
	}
	p.trace("postfix_functions", postfixFns)

	flat := flatten(postfixFns)
	p.trace("flatten", flat)

	toks, err := p.tokenize(flat)
	if err != nil {
		return nil, err
	}
	p.trace("tokenize", token.Render(toks))

	return toks, nil
}

func (p *Parser) trace(stage, text string) {
	if p.Debug && p.Log != nil {
		p.Log.Debugf("%s: %s", stage, text)
	}
}

// ---- stage 1: validate ------------------------------------------------

// validate checks that every parenthesis is matched and that, once every
// recognizable lexeme (numbers, function-call names, plain identifiers,
// operator names, parens and commas) is blanked out, nothing but
// whitespace remains. Identifiers are blanked before operator names so a
// word-shaped operator name occurring as a substring of a longer
// identifier can never corrupt the identifier's own blanking (see
// DESIGN.md for the full rationale).
func (p *Parser) validate(expr string) error {
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			if _, ok := scanner.ForwardParen(expr, i); !ok {
				return mmerr.New("parser", mmerr.KindUnmatchedOpenParen, i, "(", "unmatched opening parenthesis")
			}
		case ')':
			if _, ok := scanner.BackwardParen(expr, i); !ok {
				return mmerr.New("parser", mmerr.KindUnmatchedCloseParen, i, ")", "unmatched closing parenthesis")
			}
		}
	}

	tmp := []byte(expr)

	// numbers, flagging a digit-adjacent identifier as invalid_name as we
	// go (e.g. "2x" — a number immediately followed, with no operator or
	// space between, by an identifier).
	{
		s := string(tmp)
		i := 0
		for i < len(s) {
			if i > 0 && isIdentByte(s[i-1]) {
				// a digit run directly glued to the tail of an identifier
				// (e.g. the "2" in "atan2") is part of that identifier, not
				// a standalone number — leave it for the identifier pass.
				i++
				continue
			}
			end, ok := scanner.MatchNumber(s, i)
			if !ok {
				i++
				continue
			}
			if nend, nok := scanner.MatchName(s, end); nok && nend > end {
				return mmerr.New("parser", mmerr.KindInvalidName, i, s[i:nend],
					"identifier %q immediately follows a number with no operator between them", s[i:nend])
			}
			// MatchNumber leaves an exponent marker with no digits after it
			// (the "E" of "1.2E") unconsumed; reject it here.
			if end < len(s) && (s[end] == 'E' || s[end] == 'e') {
				return mmerr.New("parser", mmerr.KindUnknownSymbol, end, s[i:end+1],
					"numeric literal %q has an exponent marker with no digits", s[i:end+1])
			}
			for k := i; k < end; k++ {
				tmp[k] = ' '
			}
			i = end
		}
	}

	// function-call names: an identifier immediately followed by '(' —
	// blank only the name, leaving the parens/arguments for the later
	// passes to account for.
	{
		s := string(tmp)
		i := 0
		for i < len(s) {
			end, ok := scanner.MatchName(s, i)
			if !ok {
				i++
				continue
			}
			if end < len(s) && s[end] == '(' {
				for k := i; k < end; k++ {
					tmp[k] = ' '
				}
			}
			i = end
		}
	}

	// plain identifiers (variables, constants) — function names are
	// already blank, so only bare names remain for MatchName to find.
	blankPass(tmp, scanner.MatchName)

	// operator names, last, by exact substring — now that identifiers are
	// already gone, an operator name can't eat into one.
	for _, op := range p.Operators {
		if op.Name == "" {
			continue
		}
		for {
			idx := strings.Index(string(tmp), op.Name)
			if idx < 0 {
				break
			}
			for k := idx; k < idx+len(op.Name); k++ {
				tmp[k] = ' '
			}
		}
	}

	// parens and commas.
	for i, c := range tmp {
		if c == '(' || c == ')' || c == ',' {
			tmp[i] = ' '
		}
	}

	for i, c := range tmp {
		if c != ' ' {
			return mmerr.New("parser", mmerr.KindUnknownSymbol, i, string(expr[i]), "unrecognized symbol")
		}
	}
	return nil
}

// blankPass overwrites, with spaces, every span match reports across a
// single left-to-right scan of tmp's current contents.
func blankPass(tmp []byte, match func(s string, pos int) (int, bool)) {
	s := string(tmp)
	i := 0
	for i < len(s) {
		end, ok := match(s, i)
		if !ok || end <= i {
			i++
			continue
		}
		for k := i; k < end; k++ {
			tmp[k] = ' '
		}
		i = end
	}
}

// stripBlanks removes every space byte from expr — the same single blank
// character validate already tolerates as filler between lexemes. validate
// has confirmed everything else is well-formed; every later stage scans for
// atoms by exact character adjacency (a number immediately followed by an
// operator, an operator immediately flanked by its wrapped operands), so a
// blank surviving past this point would make an otherwise valid expression
// like "1 + 2 * 3" unparseable.
func stripBlanks(expr string) string {
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); i++ {
		if expr[i] != ' ' {
			b.WriteByte(expr[i])
		}
	}
	return b.String()
}

// ---- stage 2: wrap -----------------------------------------------------

// wrap encloses every number, plain identifier, and function call in its
// own parentheses, unless it is already immediately enclosed by one of
// the three recognized forms: "(atom)", "(atom,", ",atom)". An atom
// sitting at the very start or end of the expression has no neighbor on
// that side, so it is never considered enclosed there — it always gets
// wrapped unconditionally. Numbers and plain identifiers are leaf atoms with
// no interior of their own, so a single left-to-right pass over each class
// already reaches the fixed point; an index-shifting rewrite that kept
// restarting the scan after every insertion would need several passes to
// reach the same result. A function call is not a leaf: its argument list
// can itself hold another call used as a
// bare operand (the sin(x) inside "atan2(sin(x)+1,y)"), so wrapFunctions
// recurses into a call's interior before wrapping the call itself —
// otherwise the inner call would never get its own parens, and the
// operator immediately after it (the "+1") would mis-bind.
func (p *Parser) wrap(expr string) string {
	s := wrapNumbers(expr)
	s = wrapNames(s)
	s = wrapFunctions(s)
	return s
}

func isEnclosed(s string, start, end int) bool {
	if start == 0 || end >= len(s) {
		return false
	}
	before, after := s[start-1], s[end]
	switch {
	case before == '(' && after == ')':
		return true
	case before == '(' && after == ',':
		return true
	case before == ',' && after == ')':
		return true
	}
	return false
}

func wrapSpan(b *strings.Builder, s string, start, end int) {
	if isEnclosed(s, start, end) {
		b.WriteString(s[start:end])
	} else {
		b.WriteByte('(')
		b.WriteString(s[start:end])
		b.WriteByte(')')
	}
}

func wrapNumbers(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if i > 0 && isIdentByte(s[i-1]) {
			// digits glued to the tail of an identifier ("atan2") are part
			// of that identifier, not a standalone number.
			b.WriteByte(s[i])
			i++
			continue
		}
		end, ok := scanner.MatchNumber(s, i)
		if !ok {
			b.WriteByte(s[i])
			i++
			continue
		}
		wrapSpan(&b, s, i, end)
		i = end
	}
	return b.String()
}

// isIdentByte reports whether b can occur inside an identifier
// (letter, digit, or underscore).
func isIdentByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// wrapNames wraps every bare identifier not immediately followed by '(' —
// those are function calls, left untouched for wrapFunctions.
func wrapNames(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		end, ok := scanner.MatchName(s, i)
		if !ok {
			b.WriteByte(s[i])
			i++
			continue
		}
		if end < len(s) && s[end] == '(' {
			b.WriteString(s[i:end])
			i = end
			continue
		}
		wrapSpan(&b, s, i, end)
		i = end
	}
	return b.String()
}

// wrapFunctions wraps every "name(...)" call, innermost first. A call's
// own argument list can itself contain another call used as a bare
// operand (e.g. the sin(x) inside "atan2(sin(x)+1,y)") — that inner call
// needs its own enclosing parens before postfixOperators can find the
// right boundary for the "+" that follows it, so wrapFunctions recurses
// into a call's interior before deciding whether to wrap the call itself.
// Enclosure is still tested against s's original, untouched neighbor
// characters at the call's true position, exactly as wrapNumbers and
// wrapNames do — recursing into the interior only changes what gets
// written between the call's own parens, never the characters immediately
// outside it.
func wrapFunctions(s string) string {
	var b strings.Builder
	wrapFunctionsRange(&b, s, 0, len(s))
	return b.String()
}

func wrapFunctionsRange(b *strings.Builder, s string, from, to int) {
	i := from
	for i < to {
		end, ok := scanner.MatchName(s, i)
		if !ok || end > to {
			b.WriteByte(s[i])
			i++
			continue
		}
		if end >= to || s[end] != '(' {
			b.WriteString(s[i:end])
			i = end
			continue
		}
		closeIdx, ok := scanner.ForwardParen(s, end)
		if !ok || closeIdx >= to {
			b.WriteString(s[i:end])
			i = end
			continue
		}
		name := s[i:end]
		var inner strings.Builder
		wrapFunctionsRange(&inner, s, end+1, closeIdx)
		call := name + "(" + inner.String() + ")"
		callEnd := closeIdx + 1
		if isEnclosed(s, i, callEnd) {
			b.WriteString(call)
		} else {
			b.WriteByte('(')
			b.WriteString(call)
			b.WriteByte(')')
		}
		i = callEnd
	}
}

// ---- stage 3: postfix-convert operators -------------------------------

// postfixOperators rewrites every occurrence of each operator, in table
// order, from infix "(LEFT) name (RIGHT)" to postfix "(LEFT,RIGHT name)"
// (or, for a Swap entry like assignment, "(RIGHT,LEFT name)"), annotated
// as "name[largs rargs outvals]" when CountArgs is on and left as the
// bare name otherwise. An occurrence whose actual operand count doesn't
// match the table entry's declared Operands is left untouched and
// searched past — it belongs to a different entry sharing the same name
// (e.g. unary minus vs. binary minus); that disambiguation is purely
// positional (which side has a parenthesized neighbor) and happens
// whether or not CountArgs is on, since placing the token never needed
// its resolved arity in the first place.
func (p *Parser) postfixOperators(expr string) (string, error) {
	for _, op := range p.Operators {
		start := 0
		for {
			idx := strings.Index(expr[start:], op.Name)
			if idx < 0 {
				break
			}
			pos := start + idx
			end := pos + len(op.Name) - 1 // last byte of the operator name

			if end >= len(expr)-1 {
				break
			}
			nextStart := end + 1

			hasLeft, lstart, lend := false, 0, 0
			if pos != 0 && expr[pos-1] == ')' {
				if o, ok := scanner.BackwardParen(expr, pos-1); ok {
					hasLeft, lstart, lend = true, o, pos-1
				}
			}
			hasRight, rstart, rend := false, 0, 0
			if end+1 < len(expr) && expr[end+1] == '(' {
				if c, ok := scanner.ForwardParen(expr, end+1); ok {
					hasRight, rstart, rend = true, end+1, c
				}
			}

			operands := 0
			if hasLeft {
				operands++
			}
			if hasRight {
				operands++
			}
			if operands != op.Operands {
				start = nextStart
				continue
			}

			spanStart, spanEnd := pos, end
			if hasLeft {
				spanStart = lstart
			}
			if hasRight {
				spanEnd = rend
			}

			annotated := op.Name
			if p.CountArgs {
				largs, rargs := 0, 0
				if hasLeft {
					if v, ok := getOutValues(expr, lend); ok {
						largs = v
					} else {
						largs = scanner.CountArgs(expr, lstart, lend)
					}
				}
				if hasRight {
					if v, ok := getOutValues(expr, rend); ok {
						rargs = v
					} else {
						rargs = scanner.CountArgs(expr, rstart, rend)
					}
				}

				outVals := -1
				for _, oi := range p.Operators {
					if oi.Name == op.Name && oi.LArgs == largs && oi.RArgs == rargs {
						outVals = oi.OutVals
						break
					}
				}
				if outVals < 0 {
					return "", mmerr.New("parser", mmerr.KindOperatorNotFound, pos, op.Name,
						"operator %q[%d %d ?] not found", op.Name, largs, rargs)
				}
				annotated = fmt.Sprintf("%s[%d %d %d]", op.Name, largs, rargs, outVals)
			}

			leftStr, rightStr := "", ""
			if hasLeft {
				leftStr = expr[lstart : lend+1]
			}
			if hasRight {
				rightStr = expr[rstart : rend+1]
			}

			var replacement string
			if op.Swap {
				replacement = "(" + rightStr + "," + leftStr + " " + annotated + ")"
			} else {
				replacement = "(" + leftStr + "," + rightStr + " " + annotated + ")"
			}

			expr = expr[:spanStart] + replacement + expr[spanEnd+1:]
			start = spanStart + len(replacement)
		}
	}
	return expr, nil
}

// getOutValues extracts the last integer inside a trailing "name[i j k]"
// annotation on the operand ending at end (inclusive), skipping back over
// any close-parens first. ok is false if the operand doesn't end in one
// (a plain number or identifier doesn't, and must fall back to counting
// top-level commas instead).
func getOutValues(s string, end int) (int, bool) {
	e := end
	for e >= 0 && s[e] == ')' {
		e--
	}
	if e < 0 || s[e] != ']' {
		return 0, false
	}
	open := strings.LastIndex(s[:e+1], "[")
	if open < 0 {
		return 0, false
	}
	fields := strings.Fields(s[open+1 : e])
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ---- stage 4: postfix-convert function calls --------------------------

// postfixFunctions rewrites every "name(args)" into "(args')name[n]" —
// moving the name after its (optionally argument-order-reversed)
// parenthesized argument list, in place within whatever parens the wrap
// stage already put around the call as a whole. n, when CountArgs is on,
// is the call's resolved input arity: the last integer of a nested
// annotation already trailing one of the arguments, or failing that, the
// top-level argument count.
func (p *Parser) postfixFunctions(expr string) (string, error) {
	var b strings.Builder
	if err := p.postfixFunctionsRange(&b, expr, 0, len(expr)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// postfixFunctionsRange converts every call in expr[from:to], innermost
// first: a call's own argument list may hold another call (wrap already
// gave each its own parens), and that inner call must already be in
// "(args)name[n]" form before the outer call's argument count or contents
// can be read off correctly — the very bug this two-step (recurse, then
// convert) structure exists to avoid is an outer-first pass leaving a
// nested "name(" behind, skipped over and never converted.
func (p *Parser) postfixFunctionsRange(b *strings.Builder, expr string, from, to int) error {
	i := from
	for i < to {
		nameEnd, ok := scanner.MatchName(expr, i)
		if !ok || nameEnd > to || expr[nameEnd] != '(' {
			b.WriteByte(expr[i])
			i++
			continue
		}
		closeIdx, ok := scanner.ForwardParen(expr, nameEnd)
		if !ok || closeIdx >= to {
			b.WriteByte(expr[i])
			i++
			continue
		}
		name := expr[i:nameEnd]

		var inner strings.Builder
		if err := p.postfixFunctionsRange(&inner, expr, nameEnd+1, closeIdx); err != nil {
			return err
		}
		argsStr := "(" + inner.String() + ")"

		if p.SwapArgs {
			argsStr = swapFunctionArgs(argsStr)
		}

		argCount := 0
		if len(argsStr) > 2 { // more than just "()"
			if v, ok := getOutValues(argsStr, len(argsStr)-1); ok {
				argCount = v
			} else {
				argCount = scanner.CountArgs(argsStr, 0, len(argsStr)-1)
			}
		}

		replacement := argsStr + name
		if p.CountArgs {
			replacement += fmt.Sprintf("[%d]", argCount)
		}
		b.WriteString(replacement)
		i = closeIdx + 1
	}
	return nil
}

// swapFunctionArgs reverses the order of the top-level, comma-separated
// arguments inside argsStr, which must be a "(...)" span inclusive of its
// delimiting parens.
func swapFunctionArgs(argsStr string) string {
	ranges := scanner.ArgRanges(argsStr, 0, len(argsStr)-1)
	if len(ranges) < 2 {
		return argsStr
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = argsStr[r[0]:r[1]]
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// ---- stage 5: flatten --------------------------------------------------

// flatten turns every '(', ')', ',' into a space and collapses runs of
// whitespace, leaving one space-separated lexeme per lexeme.
func flatten(expr string) string {
	var b strings.Builder
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(', ')', ',':
			b.WriteByte(' ')
		default:
			b.WriteByte(expr[i])
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ---- stage 6: tokenize --------------------------------------------------

// tokenize splits flat on whitespace and classifies each lexeme,
// reassembling any "name[...]" annotation that spans an internal
// whitespace run (the annotation's integers are themselves
// space-separated, e.g. "+[1 1 1]" flattens to three fields).
func (p *Parser) tokenize(flat string) ([]token.Token, error) {
	fields := strings.Fields(flat)
	var toks []token.Token

	for i := 0; i < len(fields); {
		field := fields[i]
		i++

		openIdx := strings.IndexByte(field, '[')
		if openIdx < 0 {
			tok, err := p.classifyBare(field)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			continue
		}

		// the annotation's integers may have been split into further
		// fields by flatten's whitespace collapse; consume fields until
		// we see the closing ']'.
		annotation := field
		for !strings.Contains(annotation, "]") && i < len(fields) {
			annotation += " " + fields[i]
			i++
		}
		closeIdx := strings.IndexByte(annotation, ']')
		if closeIdx < 0 {
			return nil, mmerr.New("parser", mmerr.KindUnknownToken, 0, annotation, "unterminated arity annotation")
		}
		name := annotation[:openIdx]
		nums := strings.Fields(annotation[openIdx+1 : closeIdx])
		ints := make([]int, len(nums))
		for j, ns := range nums {
			v, err := strconv.Atoi(ns)
			if err != nil {
				return nil, mmerr.New("parser", mmerr.KindUnknownToken, 0, annotation, "non-integer arity field %q", ns)
			}
			ints[j] = v
		}

		switch len(ints) {
		case 1:
			toks = append(toks, token.FunctionTok{Name: name, ArgsIn: ints[0], ArgsOut: -1})
		case 2:
			toks = append(toks, token.FunctionTok{Name: name, ArgsIn: ints[0], ArgsOut: ints[1]})
		case 3:
			toks = append(toks, token.OperatorTok{Name: name, LArgs: ints[0], RArgs: ints[1], Outs: ints[2]})
		default:
			return nil, mmerr.New("parser", mmerr.KindUnknownToken, 0, annotation, "arity annotation with %d fields", len(ints))
		}
	}
	return toks, nil
}

// classifyBare classifies a lexeme carrying no "[...]" annotation: a
// number, a known operator name (count_args off — the compiler resolves
// the actual overload later), or a bare identifier.
func (p *Parser) classifyBare(field string) (token.Token, error) {
	if end, ok := scanner.MatchNumber(field, 0); ok && end == len(field) {
		return token.ValueTok{Text: field}, nil
	}
	for _, op := range p.Operators {
		if op.Name == field {
			return token.OperatorTok{Name: field, LArgs: -1, RArgs: -1, Outs: -1}, nil
		}
	}
	if end, ok := scanner.MatchName(field, 0); ok && end == len(field) {
		return token.NameTok{Name: field}, nil
	}
	return token.UnknownTok{Text: field}, nil
}
