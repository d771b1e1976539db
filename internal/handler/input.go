package handler

import (
	"fmt"
	"strings"
	"unicode"
)

// Input is a parsed command line: positional arguments and key=value pairs.
type Input struct {
	Args   []string
	Values map[string]string
}

// ParseInput splits tokens into positional arguments and key=value pairs.
func ParseInput(tokens []string) *Input {
	in := &Input{Values: map[string]string{}}
	for _, tok := range tokens {
		if key, value, ok := strings.Cut(tok, "="); ok && key != "" {
			in.Values[strings.ToLower(key)] = value
			continue
		}
		in.Args = append(in.Args, tok)
	}
	return in
}

// Arg returns the i-th positional argument or "".
func (in *Input) Arg(i int) string {
	if i < 0 || i >= len(in.Args) {
		return ""
	}
	return in.Args[i]
}

// Value returns the value of key or "".
func (in *Input) Value(key string) string {
	return in.Values[key]
}

// Has reports whether key was given, even with an empty value.
func (in *Input) Has(key string) bool {
	_, ok := in.Values[key]
	return ok
}

// Prefixed returns the pairs whose key starts with prefix, prefix removed.
func (in *Input) Prefixed(prefix string) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range in.Values {
		if rest, ok := strings.CutPrefix(k, prefix); ok && rest != "" {
			out[rest] = v
		}
	}
	return out
}

// splitLine tokenizes a line on whitespace. Double or single quotes group
// text, and a backslash escapes the next rune.
func splitLine(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
		escaped bool
		inToken bool
	)
	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
