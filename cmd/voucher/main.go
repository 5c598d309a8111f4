package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"goflare.io/voucher/app"
)

func main() {
	os.Exit(run())
}

func run() int {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, cleanup, err := InitializeRunner()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cleanup()

	if _, err = runner.Run(ctx); err != nil {
		fmt.Println(app.Message(err))
		return 1
	}

	return 0
}
