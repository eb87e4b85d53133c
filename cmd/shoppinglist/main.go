package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukerupert/shoppinglist/cmd/shoppinglist/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}
