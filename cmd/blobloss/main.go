// Package main provides the blobloss CLI.
package main

import (
	"fmt"
	"io"
	"os"
)

const version = "v0.0.1-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 0
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "blobloss %s\n", version)
		return 0
	case "demo":
		if err := runDemo(stdout); err != nil {
			fmt.Fprintf(stderr, "demo: %v\n", err)
			return 1
		}
		return 0
	case "check":
		if err := runCheck(args[1:], stdout); err != nil {
			fmt.Fprintf(stderr, "check: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "blobloss - dense multinomial logistic loss")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  demo       Evaluate loss and gradient on worked examples")
	fmt.Fprintln(w, "  check      Compare the gradient against finite differences")
}
