package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docrender/cmd/docrender/commands"
	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

func main() {
	cli := &commands.CLI{}
	parser, err := commands.NewParser(cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = commands.Execute(ctx, kctx, &commands.Global{Logger: slog.Default(), Stdout: os.Stdout})
	stop()

	derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
