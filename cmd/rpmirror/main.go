package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
	"github.com/youweixue/RipplePower/pkg/bytebuffer"
)

var (
	defaultDatadir = btcutil.AppDataDir("rpmirror", false)

	byteOrderFlag = &cli.StringFlag{
		Name:  "byte-order",
		Usage: "byte order of ledger messages, either little or big",
		Value: "big",
	}
)

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "rpmirror"
	app.Usage = "Command line interface to inspect account root mirrors and ledger messages"
	app.Flags = []cli.Flag{byteOrderFlag}
	app.Commands = append(
		app.Commands,
		&encode,
		&decode,
		&replay,
		&show,
		&forget,
	)
	return app
}

func getByteOrder(ctx *cli.Context) (bytebuffer.Order, error) {
	switch ctx.String(byteOrderFlag.Name) {
	case "little":
		return bytebuffer.LittleEndian, nil
	case "big":
		return bytebuffer.BigEndian, nil
	default:
		return 0, fmt.Errorf("byte order must be either little or big")
	}
}

func printJSON(ctx *cli.Context, resp interface{}) error {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(buf))
	return err
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[rpmirror] %v\n", err)
	}
	os.Exit(1)
}
