package infrastructure

import "strings"

// ShellEscape quotes a string for display in a logged command line.
// exec.Command passes args directly to the process, so this is cosmetic only.
func ShellEscape(s string) string {
	if s == "" {
		return "''"
	}

	if !strings.ContainsAny(s, " \t'\"$`\\!*?[](){}|;<>&~#%\n\r") {
		return s
	}

	var b strings.Builder
	b.WriteString("'")
	for _, c := range s {
		if c == '\'' {
			b.WriteString(`'"'"'`)
		} else {
			b.WriteRune(c)
		}
	}
	b.WriteString("'")
	return b.String()
}

// ShellEscapeCommand renders a binary and its arguments as a shell-safe
// command line for logging
func ShellEscapeCommand(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, ShellEscape(binary))
	for _, arg := range args {
		parts = append(parts, ShellEscape(arg))
	}
	return strings.Join(parts, " ")
}
