// formkit encodes and decodes multipart/form-data bodies from the command
// line.
//
//	formkit encode -m parts.yaml -o body.bin
//	formkit decode --content-type "multipart/form-data; boundary=XYZ" -i body.bin -d out/
//
// encode builds a body from a YAML manifest listing the parts. decode splits a
// body into parts, prints a YAML summary with a checksum per part and can
// write each part's content to a directory.
//
// Defaults come from the BEAVER_FORMKIT_* environment variables; flags
// override them.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var errUsage = errors.New("usage: formkit <encode|decode> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errUsage
	}

	switch args[0] {
	case "encode":
		return runEncode(args[1:], stdout, stderr)
	case "decode":
		return runDecode(args[1:], stdin, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `formkit - multipart/form-data encoder and decoder

Usage:
  formkit encode -m MANIFEST [-o FILE] [--boundary B] [--validate]
  formkit decode (--boundary B | --content-type CT) [-i FILE] [-d DIR]

Run "formkit <command> --help" for the flags of a command.
`)
}

// newLogger logs to stderr, warnings only unless verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
