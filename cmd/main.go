package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kievzenit/aotscript/internal/ast"
	"github.com/kievzenit/aotscript/internal/compiler_errors"
	"github.com/kievzenit/aotscript/internal/config"
	"github.com/kievzenit/aotscript/internal/emitter"
	"github.com/kievzenit/aotscript/internal/parser"
	"github.com/kievzenit/aotscript/internal/session"
)

const (
	appName = "aot"
	banner  = "AOT Script Engine - type 'exit' to quit. Type ':mode interpret' or ':mode compile' to switch mode."
	usage   = `usage:
  aot [flags]                  interactive session
  aot [flags] -e '<program>'   run one submission
  aot [flags] run <file|->     run every line as a submission
  aot [flags] emit-llvm <file> print LLVM IR for file
flags:`
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(appName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, usage)
		flags.PrintDefaults()
	}

	configPath := flags.String("config", "", "path to a YAML config file (default ./"+config.DefaultFileName+" if present)")
	mode := flags.String("mode", "", "initial backend: interpret or compile")
	collaboratorKind := flags.String("collaborator", "", "compile backend: embedded or toolchain")
	eval := flags.String("e", "", "run the given program as one submission and exit")
	dumpAst := flags.Bool("dump-ast", false, "print the parsed tree of -e or emit-llvm input")
	verbose := flags.Bool("v", false, "log diagnostics to stderr")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	logger := log.New(io.Discard, appName+": ", 0)
	if *verbose {
		logger.SetOutput(stderr)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}
	if *mode != "" {
		cfg.Mode = config.Mode(*mode)
	}
	if *collaboratorKind != "" {
		cfg.Collaborator.Kind = config.CollaboratorKind(*collaboratorKind)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}
	logger.Printf("config loaded, mode %s", cfg.Mode)

	ctx := context.Background()
	rest := flags.Args()

	switch {
	case *eval != "":
		if *dumpAst {
			if code := dumpTree(*eval, stdout, stderr); code != 0 {
				return code
			}
		}
		s := session.NewFromConfig(cfg, stdout, logger)
		if err := s.Submit(ctx, *eval); err != nil {
			compiler_errors.NewErrorHandler(stdout).Report(err)
			return 1
		}
		return 0

	case len(rest) == 2 && rest[0] == "run":
		input := stdin
		if rest[1] != "-" {
			file, err := os.Open(rest[1])
			if err != nil {
				fmt.Fprintf(stderr, "%s: %v\n", appName, err)
				return 1
			}
			defer file.Close()
			input = file
		}

		s := session.NewFromConfig(cfg, stdout, logger)
		if err := s.Run(ctx, session.NewStreamReader(input), ""); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", appName, err)
			return 1
		}
		if len(s.ErrorHandler().Errors()) > 0 {
			return 1
		}
		return 0

	case len(rest) == 2 && rest[0] == "emit-llvm":
		return emitLlvm(rest[1], *dumpAst, stdout, stderr)

	case len(rest) == 0:
		fmt.Fprintln(stdout, banner)
		s := session.NewFromConfig(cfg, stdout, logger)
		if err := s.RunInteractive(ctx, cfg.Prompt, cfg.HistoryPath()); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", appName, err)
			return 1
		}
		return 0
	}

	flags.Usage()
	return 2
}

func dumpTree(source string, stdout, stderr io.Writer) int {
	block, err := parser.ParseSource(source)
	if err != nil {
		compiler_errors.NewErrorHandler(stderr).Report(err)
		return 1
	}
	fmt.Fprintln(stdout, ast.Dump(block))
	return 0
}

func emitLlvm(path string, dumpAst bool, stdout, stderr io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}

	if dumpAst {
		if code := dumpTree(string(source), stdout, stderr); code != 0 {
			return code
		}
	}

	block, err := parser.ParseSource(string(source))
	if err != nil {
		compiler_errors.NewErrorHandler(stderr).Report(err)
		return 1
	}

	ir, err := emitter.EmitIR(block)
	if err != nil {
		compiler_errors.NewErrorHandler(stderr).Report(err)
		return 1
	}

	fmt.Fprint(stdout, ir)
	return 0
}
