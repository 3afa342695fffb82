package main

import (
	"errors"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
	entryparser "github.com/youweixue/RipplePower/internal/infrastructure/entry-parser"
	"github.com/youweixue/RipplePower/internal/infrastructure/storage/db/inmemory"
)

var replay = cli.Command{
	Name:  "replay",
	Usage: "apply a file of framed ledger messages to fresh trackers and print the final snapshots",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Usage:    "the file of length prefixed ledger messages",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "unfunded",
			Usage: "seed unknown accounts as unfunded instead of accepting their first delta",
		},
	},
	Action: replayAction,
}

type replayReport struct {
	Messages  int                           `json:"messages"`
	Accepted  int                           `json:"accepted"`
	Rejected  int                           `json:"rejected"`
	Snapshots int                           `json:"snapshots"`
	Invalid   int                           `json:"invalid"`
	Accounts  []application.AccountRootInfo `json:"accounts"`
}

func replayAction(ctx *cli.Context) error {
	order, err := getByteOrder(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(ctx.String("file"))
	if err != nil {
		return err
	}
	defer file.Close()

	frames, err := entryparser.ReadFrames(file, order)
	if err != nil {
		return err
	}

	parser := entryparser.NewService(order)
	mirror, err := application.NewAccountMirror(
		inmemory.NewRepoManager(), parser,
		application.MirrorOpts{SeedUnfunded: ctx.Bool("unfunded")},
	)
	if err != nil {
		return err
	}

	report := replayReport{Messages: len(frames)}
	for _, frame := range frames {
		msg, err := parser.ParseMessage(frame)
		if err != nil {
			report.Invalid++
			continue
		}

		switch msg.Kind {
		case ports.MessageSnapshot:
			if err := mirror.Bootstrap(ctx.Context, *msg.Snapshot); err != nil {
				report.Invalid++
				continue
			}
			report.Snapshots++
		case ports.MessageDelta:
			accepted, err := mirror.ApplyUpdate(ctx.Context, *msg.Update)
			if err != nil {
				report.Invalid++
				continue
			}
			if accepted {
				report.Accepted++
			} else {
				report.Rejected++
			}
		}
	}

	report.Accounts = make([]application.AccountRootInfo, 0)
	for _, account := range mirror.ListAccounts(ctx.Context) {
		root, err := mirror.GetAccountRoot(ctx.Context, account)
		if err != nil {
			if errors.Is(err, domain.ErrAccountRootNotFound) {
				continue
			}
			return err
		}
		report.Accounts = append(report.Accounts, application.NewAccountRootInfo(*root, ""))
	}

	return printJSON(ctx, report)
}
