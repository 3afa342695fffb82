package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var forget = cli.Command{
	Name:  "forget",
	Usage: "remove the stored account root of an account no longer tracked",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "the data directory of the daemon",
			Value: defaultDatadir,
		},
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account to remove",
			Required: true,
		},
	},
	Action: forgetAction,
}

func forgetAction(ctx *cli.Context) error {
	repoManager, err := openRepoManager(ctx)
	if err != nil {
		return err
	}
	defer repoManager.Close()

	account := ctx.String("account")
	if err := repoManager.AccountRootRepository().DeleteAccountRoot(
		ctx.Context, account,
	); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "account root of %s removed\n", account)
	return nil
}
