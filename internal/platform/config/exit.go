package config

import (
	"fmt"
	"os"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// ExitOnError calls Exitf with the given prefix when err is non-nil.
func ExitOnError(prefix string, err error) {
	if err == nil {
		return
	}
	Exitf("%s: %v", prefix, err)
}
