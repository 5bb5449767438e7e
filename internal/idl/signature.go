package idl

import "strings"

// ExtractSignature locates the entry-point function named entryName in src
// and returns an Instruction holding its argument list. Entry points follow
// the Anchor convention `pub fn name(...) -> Result<()>`; a declaration with
// any other return shape is not an entry point. The second return value is
// false when no matching declaration exists, which callers must treat as
// "not found", not as an error.
//
// The implicit leading `ctx: Context<...>` parameter is stripped and never
// appears as an argument. Accounts are not populated here; they are attached
// by the assembler.
func ExtractSignature(src, entryName string) (*Instruction, bool) {
	params, ok := paramList(src, entryName)
	if !ok {
		return nil, false
	}

	inst := &Instruction{
		Name:     entryName,
		Accounts: []AccountRef{},
		Args:     []Arg{},
	}

	rest, _ := stripContext(params)
	for _, part := range splitTopLevel(rest, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typ, found := strings.Cut(part, ":")
		if !found {
			// Malformed parameter text; extraction is best-effort.
			continue
		}
		inst.Args = append(inst.Args, Arg{
			Name: strings.TrimSpace(name),
			Type: MapType(typ),
		})
	}
	return inst, true
}

// ContextName returns the inner type name of the entry point's
// `ctx: Context<...>` parameter, the struct that declares its accounts.
func ContextName(src, entryName string) (string, bool) {
	params, ok := paramList(src, entryName)
	if !ok {
		return "", false
	}
	_, name := stripContext(params)
	return name, name != ""
}

// paramList finds the declaration `pub fn <entryName>(...) -> Result<()>`
// and returns the raw text inside its parameter parentheses. Multi-line
// signatures are handled; comments containing lookalike text are not
// special-cased beyond requiring the full declaration shape.
func paramList(src, entryName string) (string, bool) {
	marker := "fn " + entryName
	for offset := 0; ; {
		idx := strings.Index(src[offset:], marker)
		if idx < 0 {
			return "", false
		}
		idx += offset
		offset = idx + len(marker)

		// The match must be the whole function name, declared pub.
		after := strings.TrimLeft(src[idx+len(marker):], " \t\r\n")
		if !strings.HasPrefix(after, "(") {
			continue
		}
		before := strings.TrimRight(src[:idx], " \t\r\n")
		if !strings.HasSuffix(before, "pub") {
			continue
		}

		params, tail, ok := balanced(after, '(', ')')
		if !ok {
			continue
		}
		tail = strings.TrimLeft(tail, " \t\r\n")
		if !strings.HasPrefix(tail, "->") {
			continue
		}
		ret := strings.TrimLeft(tail[len("->"):], " \t\r\n")
		if !strings.HasPrefix(ret, "Result<()>") {
			continue
		}
		return params, true
	}
}

// stripContext removes exactly one leading `name: Context<Inner>` parameter
// from params and returns the remaining parameter text plus the inner type
// name. When the first parameter is not a context binding, params is
// returned unchanged with an empty name.
func stripContext(params string) (rest, ctxName string) {
	parts := splitTopLevel(params, ',')
	if len(parts) == 0 {
		return params, ""
	}
	first := strings.TrimSpace(parts[0])
	_, typ, found := strings.Cut(first, ":")
	if !found {
		return params, ""
	}
	typ = strings.TrimSpace(typ)
	if !strings.HasPrefix(typ, "Context<") {
		return params, ""
	}
	inner, _, ok := balanced(typ[len("Context"):], '<', '>')
	if !ok {
		return params, ""
	}
	return strings.Join(parts[1:], ","), strings.TrimSpace(inner)
}

// splitTopLevel splits s on sep occurrences that sit outside any (), [], {}
// or <> nesting, so generic arguments and fixed-size array types survive
// intact.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if tail := s[start:]; strings.TrimSpace(tail) != "" {
		parts = append(parts, tail)
	}
	return parts
}

// balanced expects s to begin with open and returns the text between that
// bracket and its matching close, plus everything after the close.
func balanced(s string, open, close byte) (inner, tail string, ok bool) {
	if len(s) == 0 || s[0] != open {
		return "", "", false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}
