// Package tools holds static-analysis helpers for aaron-asm source, run
// via the -lint CLI flag rather than as part of ordinary assembly.
package tools

import (
	"fmt"
	"sort"

	"github.com/SaitoAtsushi/aaron-asm/parser"
)

// LintLevel is the severity of a single finding.
type LintLevel int

const (
	LintWarning LintLevel = iota
	LintInfo
)

func (l LintLevel) String() string {
	switch l {
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding, tied to the line it concerns.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// LintOptions controls which checks Lint runs.
type LintOptions struct {
	CheckUnusedLabels bool
	CheckMissingHalt  bool
}

// DefaultLintOptions enables every check.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		CheckUnusedLabels: true,
		CheckMissingHalt:  true,
	}
}

// Lint analyzes a parsed AST (before resolution, so label names are
// still around to report) and returns every finding, sorted by line.
//
// Two checks are implemented, matching what a program built from only
// six instructions and one symbol kind can meaningfully flag:
//
//   - an unused label: defined but never referenced by any Value or
//     Address operand. Not an error — aaron-asm happily runs programs
//     with dead labels — but it usually means a typo in the reference,
//     not the definition.
//   - a program whose last line is not halt. Only the kind of the last
//     statement is checked; decr jump targets are not analyzed, so a
//     program whose final statement always jumps back is flagged too.
//     Falling off the end is an implicit halt for Run, but it's worth
//     flagging since it's rarely what the author meant.
func Lint(ast *parser.AST, table *parser.SymbolTable, opts *LintOptions) []*LintIssue {
	if opts == nil {
		opts = DefaultLintOptions()
	}

	var issues []*LintIssue

	if opts.CheckUnusedLabels {
		issues = append(issues, checkUnusedLabels(ast, table)...)
	}
	if opts.CheckMissingHalt {
		if issue := checkMissingHalt(ast); issue != nil {
			issues = append(issues, issue)
		}
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

func checkUnusedLabels(ast *parser.AST, table *parser.SymbolTable) []*LintIssue {
	unused := make(map[string]bool)
	for _, name := range table.GetUnusedLabels() {
		unused[name] = true
	}
	if len(unused) == 0 {
		return nil
	}

	var issues []*LintIssue
	for _, line := range ast.Lines {
		if line.HasLabel && unused[line.Label] {
			issues = append(issues, &LintIssue{
				Level:   LintWarning,
				Line:    line.Pos.Line,
				Message: fmt.Sprintf("label %q is never referenced", line.Label),
				Code:    "UNUSED_LABEL",
			})
		}
	}
	return issues
}

func checkMissingHalt(ast *parser.AST) *LintIssue {
	if len(ast.Lines) == 0 {
		return nil
	}
	last := ast.Lines[len(ast.Lines)-1]
	if _, ok := last.Stmt.(*parser.HaltStmt); ok {
		return nil
	}
	return &LintIssue{
		Level:   LintInfo,
		Line:    last.Pos.Line,
		Message: "program does not end in halt; execution falls off the end and stops implicitly",
		Code:    "NO_HALT",
	}
}
