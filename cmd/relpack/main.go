// Command relpack escapes arguments and validates environment constants for
// release packaging.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jwhitt/relpack"
	"github.com/jwhitt/relpack/escape"
)

var version = "dev"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))

	if err := run(logger, os.Args[1:]); err != nil {
		logger.Error("relpack failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		printHelp(os.Stderr)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "escape":
		return runEscape(args[1:])
	case "check-env":
		return runCheckEnv(logger, args[1:])
	case "rewrite-url":
		return runRewriteURL(args[1:])
	case "help", "-h", "--help":
		printHelp(os.Stdout)
		return nil
	case "version", "-v", "--version":
		fmt.Printf("relpack %s\n", version)
		return nil
	default:
		printHelp(os.Stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runEscape(args []string) error {
	fs := flag.NewFlagSet("escape", flag.ContinueOnError)
	name := fs.String("dialect", "posix", "argument dialect: posix, windows, or powershell")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("escape requires at least one value")
	}

	dialect, err := escape.ParseDialect(*name)
	if err != nil {
		return err
	}
	for _, value := range fs.Args() {
		fmt.Println(escape.Escape(value, dialect))
	}
	return nil
}

func runCheckEnv(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("check-env", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path (default: user config)")
	target := fs.String("target", "", "GOOS-style target platform (default: config file, then host)")
	forSubprocess := fs.Bool("subprocess", false, "validate for live subprocess environment variables")
	forCompiled := fs.Bool("compiled", false, "validate for compile-time embedding")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := relpack.New(relpack.Config{
		ConfigPath: *configPath,
		Target:     *target,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	return s.CheckConstants(*forSubprocess, *forCompiled)
}

func runRewriteURL(args []string) error {
	fs := flag.NewFlagSet("rewrite-url", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path (default: user config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("rewrite-url requires exactly one URL")
	}

	s, err := relpack.New(relpack.Config{ConfigPath: *configPath})
	if err != nil {
		return err
	}
	rewritten, err := s.RewriteURL(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(rewritten)
	return nil
}

func printHelp(w io.Writer) {
	_, _ = fmt.Fprintln(w, "relpack - argument and environment sanitization for release packaging")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  relpack escape [-dialect posix|windows|powershell] VALUE...")
	_, _ = fmt.Fprintln(w, "  relpack check-env [-config PATH] [-target OS] [-subprocess] [-compiled]")
	_, _ = fmt.Fprintln(w, "  relpack rewrite-url [-config PATH] URL")
	_, _ = fmt.Fprintln(w, "  relpack help         Show this help")
	_, _ = fmt.Fprintln(w, "  relpack version      Show version")
}
