package runner

import "strings"

// SplitStatements splits a SQL script on top-level semicolons. Semicolons
// inside string literals, quoted identifiers and comments do not split.
// Empty fragments (trailing semicolons, comment-only chunks) are dropped.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		inSingle   bool
		inDouble   bool
		inLine     bool
		inBlock    bool
	)

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		switch {
		case inLine:
			current.WriteRune(c)
			if c == '\n' {
				inLine = false
			}
			continue
		case inBlock:
			current.WriteRune(c)
			if c == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				current.WriteRune(runes[i+1])
				i++
				inBlock = false
			}
			continue
		case inSingle:
			current.WriteRune(c)
			if c == '\'' {
				// Doubled quote is an escaped quote, not a terminator.
				if i+1 < len(runes) && runes[i+1] == '\'' {
					current.WriteRune(runes[i+1])
					i++
				} else {
					inSingle = false
				}
			}
			continue
		case inDouble:
			current.WriteRune(c)
			if c == '"' {
				inDouble = false
			}
			continue
		}

		switch c {
		case '\'':
			inSingle = true
		case '"':
			inDouble = true
		case '-':
			if i+1 < len(runes) && runes[i+1] == '-' {
				inLine = true
			}
		case '/':
			if i+1 < len(runes) && runes[i+1] == '*' {
				inBlock = true
			}
		case ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}
		current.WriteRune(c)
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
