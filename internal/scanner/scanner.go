// Package scanner implements the pure, single-pass text scanners the
// parser builds on: number and identifier matching, parenthesis matching
// in both directions, and top-level comma detection for argument lists.
//
// Every scanner here walks its input strictly in index order. None of
// them may be reimplemented on top of a standard-library algorithm whose
// traversal order is unspecified (e.g. a map range) — the parser's
// left-to-right operator/atom scans depend on that guarantee.
package scanner

// MatchNumber attempts to match a numeric literal starting at pos:
// D+, D+.D*, or .D+, any of those optionally followed by
// ('E'|'e') ('+'|'-')? D+.
//
// At most one '.', at most one 'E'; '.' may not follow 'E'; 'E' may not be
// the first character; after 'E' at most one sign is consumed. A literal
// whose digits run out right after 'E' or after 'E'+sign is only
// partially matched: end is trimmed back to the position right after the
// last digit actually consumed, and ok reports whether any digits were
// matched at all (trailing "1.2E" is rejected by the caller, which checks
// whether the byte at end is an unconsumed 'E'/'e').
func MatchNumber(s string, pos int) (end int, ok bool) {
	n := len(s)
	i := pos
	start := i
	for i < n && isDigit(s[i]) {
		i++
	}
	hasInt := i > start
	lastDigitEnd := i

	if i < n && s[i] == '.' {
		j := i + 1
		k := j
		for k < n && isDigit(s[k]) {
			k++
		}
		// D+.D* needs no digit after the dot; .D+ (no integer part) needs
		// at least one.
		if hasInt || k > j {
			i = k
			lastDigitEnd = i
		}
	}

	if !hasInt && lastDigitEnd == start {
		return pos, false
	}

	if i < n && (s[i] == 'E' || s[i] == 'e') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < n && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
			lastDigitEnd = i
		}
		// else: an 'E' (optionally signed) with no following digit is not
		// consumed at all — end stays at lastDigitEnd, i.e. before the 'E'.
	}

	return lastDigitEnd, true
}

// MatchName attempts to match an identifier starting at pos:
// [A-Za-z_][A-Za-z0-9_]*
//
// If the identifier would start with 'E' or 'e' and the two preceding
// characters in s look like the tail of a number (a digit, or a digit
// followed by '+'/'-'), the match is rejected — this disambiguates the
// exponent of "1E2" from the start of an identifier like "Ex" appearing
// immediately after a number with no operator between them (the caller's
// "digit-adjacent identifier" validation is a separate, stronger check;
// this one only protects the exponent itself from being re-matched as a
// name by a second scan).
func MatchName(s string, pos int) (end int, ok bool) {
	n := len(s)
	if pos >= n || !isNameStart(s[pos]) {
		return pos, false
	}
	if (s[pos] == 'E' || s[pos] == 'e') && precededByNumberTail(s, pos) {
		return pos, false
	}
	i := pos + 1
	for i < n && isNameCont(s[i]) {
		i++
	}
	return i, true
}

func precededByNumberTail(s string, pos int) bool {
	if pos < 1 {
		return false
	}
	p1 := s[pos-1]
	if isDigit(p1) {
		return true
	}
	if (p1 == '+' || p1 == '-') && pos >= 2 && isDigit(s[pos-2]) {
		return true
	}
	return false
}

// ForwardParen scans forward from an opening parenthesis at openPos and
// returns the index of its matching closing parenthesis, maintaining a
// balance counter over nested pairs. ok is false if no match is found
// before the end of s.
func ForwardParen(s string, openPos int) (closePos int, ok bool) {
	if openPos < 0 || openPos >= len(s) || s[openPos] != '(' {
		return len(s), false
	}
	depth := 0
	for i := openPos; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return len(s), false
}

// BackwardParen scans backward from a closing parenthesis at closePos and
// returns the index of its matching opening parenthesis.
func BackwardParen(s string, closePos int) (openPos int, ok bool) {
	if closePos < 0 || closePos >= len(s) || s[closePos] != ')' {
		return -1, false
	}
	depth := 0
	for i := closePos; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// TopLevelComma reports whether s[pos] is a comma sitting at paren-depth 0
// relative to the start of s (the "argument predicate": it is the caller's
// job to pass in just the span between a call's parens).
func TopLevelComma(s string, pos int) bool {
	if pos < 0 || pos >= len(s) || s[pos] != ',' {
		return false
	}
	depth := 0
	for i := 0; i < pos; i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth == 0
}

// CountArgs counts the top-level, comma-separated arguments in the span
// (open, close) exclusive of the delimiting parens. An empty span (as in
// f()) has zero arguments.
func CountArgs(s string, open, close int) int {
	if close <= open+1 {
		return 0
	}
	n := 1
	depth := 0
	for i := open + 1; i < close; i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				n++
			}
		}
	}
	return n
}

// ArgRanges returns the [begin, end) byte ranges of each top-level
// argument in the span (open, close) exclusive of the delimiting parens.
func ArgRanges(s string, open, close int) [][2]int {
	if close <= open+1 {
		return nil
	}
	var ranges [][2]int
	depth := 0
	start := open + 1
	for i := open + 1; i < close; i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				ranges = append(ranges, [2]int{start, i})
				start = i + 1
			}
		}
	}
	ranges = append(ranges, [2]int{start, close})
	return ranges
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isNameCont(b byte) bool {
	return isNameStart(b) || isDigit(b)
}
