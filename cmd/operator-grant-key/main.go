// Package main provides a one-shot utility for operator grant keys.
//
// By default it emits the asymmetric keypair used to verify roster admin
// requests; with -issue it signs a grant for one operator.
package main

import (
	"flag"
	"os"

	"github.com/louisbranch/gamekeeper/internal/platform/config"
	"github.com/louisbranch/gamekeeper/internal/tools/operatorgrant"
)

func main() {
	cfg, err := operatorgrant.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	if cfg.Issue {
		if err := operatorgrant.Issue(os.Stdout, cfg, nil, nil); err != nil {
			config.Exitf("issue operator grant: %v", err)
		}
		return
	}
	if err := operatorgrant.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate operator grant key: %v", err)
	}
}
