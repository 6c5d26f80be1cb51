package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ParseFile reads filePath, lexes and parses it, and resolves the result
// into an executable Program. It returns the Program, the AST it was
// resolved from (useful for tools.Lint, which inspects labels the
// resolved form no longer names), the SymbolTable built along the way,
// and the Parser.
//
// Syntax errors produce a nil Program together with the parser's
// *ErrorList; an unknown label produces a nil Program together with a
// single *Error from Resolve; a read failure is wrapped with
// errors.Wrap so the caller can tell "couldn't open the file" apart from
// "the file doesn't assemble".
func ParseFile(filePath string) (*Program, *AST, *SymbolTable, *Parser, error) {
	content, err := os.ReadFile(filePath) // #nosec G304 -- user-provided assembly file path
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "reading %s", filePath)
	}

	filename := filepath.Base(filePath)
	lines := strings.Split(string(content), "\n")
	lexer := NewLexer(string(content), filename)
	tokens := lexer.TokenizeAll()

	p := NewParser(tokens)
	ast := p.Parse()
	if p.Errors().HasErrors() {
		list := p.Errors()
		for i, e := range list.Errors {
			list.Errors[i] = withSourceContext(e, lines)
		}
		return nil, ast, nil, p, list
	}

	program, table, err := Resolve(ast)
	if err != nil {
		if perr, ok := err.(*Error); ok {
			err = withSourceContext(perr, lines)
		}
		return nil, ast, table, p, err
	}

	return program, ast, table, p, nil
}

// withSourceContext rebuilds e carrying the exact source line it points
// at, so the diagnostic printed to the user shows the offending line
// alongside the position and message.
func withSourceContext(e *Error, lines []string) *Error {
	lineNo := e.Pos.Line
	if lineNo < 1 || lineNo > len(lines) {
		return e
	}
	return NewErrorWithContext(e.Pos, e.Kind, e.Message, strings.TrimRight(lines[lineNo-1], "\r"))
}
