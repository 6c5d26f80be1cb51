package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/SaitoAtsushi/aaron-asm/config"
	"github.com/SaitoAtsushi/aaron-asm/parser"
	"github.com/SaitoAtsushi/aaron-asm/tools"
	"github.com/SaitoAtsushi/aaron-asm/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("aaron-asm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		showVersion = fs.Bool("version", false, "Show version information")
		compileOnly = fs.Bool("c", false, "Print the resolved program and exit, without running it")
		lintOnly    = fs.Bool("lint", false, "Run static checks on the program and exit")
		configPath  = fs.String("config", "", "Path to a TOML config file (default: platform config path)")
		verbose     = fs.Bool("verbose", false, "Print progress messages to standard output")
	)

	if err := fs.Parse(args); err != nil {
		return 3
	}

	if *showVersion {
		fmt.Printf("aaron-asm %s (commit %s, built %s)\n", Version, Commit, Date)
		return 0
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: aaron-asm [-c|-lint] [-config path] <file.asm>")
		return 3
	}
	filePath := rest[0]

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aaron-asm: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Printf("compiling %s\n", filePath)
	}

	program, ast, table, _, err := parser.ParseFile(filePath)
	if err != nil {
		switch e := err.(type) {
		case *parser.ErrorList:
			fmt.Fprint(os.Stderr, e.Error())
			return 2
		case *parser.Error:
			fmt.Fprint(os.Stderr, e.Error())
			return 2
		default:
			fmt.Fprintf(os.Stderr, "aaron-asm: %v\n", err)
			return 1
		}
	}

	if *verbose {
		fmt.Printf("defined labels: %d\n", len(table.Names()))
	}

	if *lintOnly {
		issues := tools.Lint(ast, table, &tools.LintOptions{
			CheckUnusedLabels: cfg.Lint.Enabled && cfg.Lint.WarnUnused,
			CheckMissingHalt:  cfg.Lint.Enabled && cfg.Lint.WarnNoHalt,
		})
		for _, issue := range issues {
			fmt.Println(issue)
		}
		return 0
	}

	if *compileOnly {
		fmt.Println(program)
		return 0
	}

	if *verbose {
		fmt.Printf("running %s\n", filePath)
	}

	out := bufio.NewWriter(os.Stdout)
	m := vm.NewVM(out)
	m.MaxSteps = cfg.Execution.MaxSteps
	m.Registers.SetLimit(cfg.Execution.MemoryLimit)

	result, err := m.Run(program)
	if err != nil {
		out.Flush()
		if rerr, ok := err.(*vm.RuntimeError); ok {
			fmt.Fprintf(os.Stderr, "aaron-asm: %v\n", rerr)
			return rerr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "aaron-asm: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, result.String())
	out.Flush()
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
