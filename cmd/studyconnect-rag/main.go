// Command studyconnect-rag indexes course and group materials and answers
// questions from them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
