package editor

import "unicode"

// SplitShellWords splits an editor setting such as `code --wait` into argv.
// Single quotes, double quotes and backslash escapes (outside single quotes)
// are honored; nothing is expanded.
func SplitShellWords(s string) []string {
	var out []string
	var cur []rune
	inSingle, inDouble, escaped := false, false, false
	quoted := false

	flush := func() {
		if len(cur) == 0 && !quoted {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
		quoted = false
	}

	for _, r := range s {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			quoted = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			quoted = true
		case !inSingle && !inDouble && unicode.IsSpace(r):
			flush()
		default:
			cur = append(cur, r)
		}
	}

	flush()
	return out
}
