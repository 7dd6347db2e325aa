package resolver

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// importStmt is one import-like statement extracted from a source file.
type importStmt struct {
	// from distinguishes `from X import Y` statements from plain imports.
	from bool
	// module is the dotted module path; may be empty for `from . import x`.
	module string
	// items are the imported names of a from-import.
	items []string
	// level is the relative import level: the number of leading dots.
	level int
}

// errMalformed marks source that the scanner cannot bring into structural
// form. Callers keep the file as an opaque leaf dependency.
var errMalformed = zerr.New("malformed source")

var moduleNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// scanImports parses source into logical lines and extracts every import
// statement. It tolerates anything that is not an import, but reports
// errMalformed for structurally broken source (unterminated strings or
// brackets, import statements that do not parse) so traversal of that file's
// edges stops.
func scanImports(src string) ([]importStmt, error) {
	lines, err := logicalLines(src)
	if err != nil {
		return nil, err
	}

	var stmts []importStmt
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import "):
			parsed, err := parsePlainImport(trimmed)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, parsed...)
		case strings.HasPrefix(trimmed, "from "):
			parsed, err := parseFromImport(trimmed)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, parsed)
		}
	}
	return stmts, nil
}

// parsePlainImport handles `import a.b as c, d.e`.
func parsePlainImport(line string) ([]importStmt, error) {
	rest := strings.TrimPrefix(line, "import ")
	var stmts []importStmt
	for _, part := range strings.Split(rest, ",") {
		name := firstField(part)
		if name == "" || !moduleNameRe.MatchString(name) {
			return nil, zerr.With(errMalformed, "statement", line)
		}
		stmts = append(stmts, importStmt{module: name})
	}
	return stmts, nil
}

// parseFromImport handles `from ...pkg.mod import a as x, b` including the
// parenthesized multi-line form, which logicalLines has already joined.
func parseFromImport(line string) (importStmt, error) {
	rest := strings.TrimPrefix(line, "from ")

	idx := strings.Index(rest, " import ")
	if idx < 0 {
		return importStmt{}, zerr.With(errMalformed, "statement", line)
	}

	spec := strings.TrimSpace(rest[:idx])
	level := 0
	for level < len(spec) && spec[level] == '.' {
		level++
	}
	module := spec[level:]
	if module != "" && !moduleNameRe.MatchString(module) {
		return importStmt{}, zerr.With(errMalformed, "statement", line)
	}
	if module == "" && level == 0 {
		return importStmt{}, zerr.With(errMalformed, "statement", line)
	}

	itemsPart := strings.TrimSpace(rest[idx+len(" import "):])
	itemsPart = strings.Trim(itemsPart, "()")

	var items []string
	for _, part := range strings.Split(itemsPart, ",") {
		name := firstField(part)
		if name == "" {
			continue
		}
		items = append(items, name)
	}
	if len(items) == 0 {
		return importStmt{}, zerr.With(errMalformed, "statement", line)
	}

	return importStmt{from: true, module: module, items: items, level: level}, nil
}

// firstField returns the first whitespace-separated field, dropping any
// `as alias` suffix.
func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// logicalLines splits source into logical lines: bracketed expressions and
// backslash continuations are joined, comments stripped, and string literal
// contents blanked so nothing inside them is mistaken for syntax. An
// unterminated string or bracket is a structural error.
//
//nolint:cyclop,gocognit // single-pass scanner state machine
func logicalLines(src string) ([]string, error) {
	var (
		lines   []string
		current strings.Builder
		depth   int
		quote   byte   // active quote char, 0 when outside a string
		triple  bool   // active string is triple-quoted
		i       int
	)

	endLine := func() {
		lines = append(lines, current.String())
		current.Reset()
	}

	for i < len(src) {
		c := src[i]

		if quote != 0 {
			switch {
			case c == '\\' && i+1 < len(src):
				i += 2
			case triple && c == quote && strings.HasPrefix(src[i:], strings.Repeat(string(quote), 3)):
				quote = 0
				triple = false
				i += 3
			case !triple && c == quote:
				quote = 0
				i++
			case !triple && c == '\n':
				return nil, zerr.With(errMalformed, "reason", "unterminated string")
			default:
				i++
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
			if strings.HasPrefix(src[i:], strings.Repeat(string(c), 3)) {
				triple = true
				i += 3
			} else {
				i++
			}
			// Blank the literal so import parsing never sees its contents.
			current.WriteByte(' ')
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case '(', '[', '{':
			depth++
			current.WriteByte(c)
			i++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, zerr.With(errMalformed, "reason", "unbalanced brackets")
			}
			current.WriteByte(c)
			i++
		case '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				current.WriteByte(' ')
				i += 2
			} else {
				current.WriteByte(c)
				i++
			}
		case '\n':
			if depth > 0 {
				current.WriteByte(' ')
			} else {
				endLine()
			}
			i++
		default:
			current.WriteByte(c)
			i++
		}
	}

	if quote != 0 {
		return nil, zerr.With(errMalformed, "reason", "unterminated string")
	}
	if depth > 0 {
		return nil, zerr.With(errMalformed, "reason", "unbalanced brackets")
	}
	if current.Len() > 0 {
		endLine()
	}
	return lines, nil
}
