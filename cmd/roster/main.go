// Package main starts the roster admin API service.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	rostercmd "github.com/louisbranch/gamekeeper/internal/cmd/roster"
)

func main() {
	cfg, err := rostercmd.ParseConfig(flag.CommandLine, os.Args[1:], nil)
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ROSTER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rostercmd.Run(ctx, cfg, nil); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
