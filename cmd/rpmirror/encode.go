package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/youweixue/RipplePower/internal/core/domain"
	entryparser "github.com/youweixue/RipplePower/internal/infrastructure/entry-parser"
)

var encode = cli.Command{
	Name:  "encode",
	Usage: "build a binary ledger message and print it as hex",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Usage: "the kind of message, either delta or snapshot",
			Value: "delta",
		},
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account owning the entry",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "balance",
			Usage: "the balance of the account",
		},
		&cli.UintFlag{
			Name:  "sequence",
			Usage: "the sequence number of the account",
		},
		&cli.UintFlag{
			Name:  "owner-count",
			Usage: "the number of objects owned by the account",
		},
		&cli.UintFlag{
			Name:  "flags",
			Usage: "the account flags",
		},
		&cli.StringFlag{
			Name:  "tx-id",
			Usage: "delta only, the id of the transaction that produced it",
		},
		&cli.UintFlag{
			Name:  "ledger-index",
			Usage: "delta only, the ledger including the transaction",
		},
		&cli.StringFlag{
			Name:  "prev-tx-id",
			Usage: "the previous transaction that modified the entry",
		},
		&cli.UintFlag{
			Name:  "prev-ledger-index",
			Usage: "snapshot only, the ledger of the previous transaction",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "append the message as a length prefixed frame to this file",
		},
	},
	Action: encodeAction,
}

func encodeAction(ctx *cli.Context) error {
	order, err := getByteOrder(ctx)
	if err != nil {
		return err
	}
	parser := entryparser.NewService(order)

	var msg []byte
	switch ctx.String("kind") {
	case "delta":
		update, err := updateFromFlags(ctx)
		if err != nil {
			return err
		}
		if msg, err = parser.SerializeUpdate(*update); err != nil {
			return err
		}
	case "snapshot":
		root, err := snapshotFromFlags(ctx)
		if err != nil {
			return err
		}
		if msg, err = parser.SerializeSnapshot(*root); err != nil {
			return err
		}
	default:
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	if out := ctx.String("out"); out != "" {
		file, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer file.Close()

		if err := entryparser.WriteFrame(file, msg, order); err != nil {
			return fmt.Errorf("writing to file: %w", err)
		}
	}

	_, err = fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(msg))
	return err
}

func updateFromFlags(ctx *cli.Context) (*domain.AccountRootUpdate, error) {
	txID, err := domain.ParseHash256(ctx.String("tx-id"))
	if err != nil {
		return nil, fmt.Errorf("invalid tx-id: %w", err)
	}
	prevTxID, err := parseOptionalHash(ctx.String("prev-tx-id"))
	if err != nil {
		return nil, fmt.Errorf("invalid prev-tx-id: %w", err)
	}

	fields := domain.AccountRootFields{}
	if ctx.IsSet("balance") {
		balance, err := domain.ParseAmount(ctx.String("balance"))
		if err != nil {
			return nil, err
		}
		fields.Balance = &balance
	}
	if ctx.IsSet("sequence") {
		v := uint32(ctx.Uint("sequence"))
		fields.Sequence = &v
	}
	if ctx.IsSet("owner-count") {
		v := uint32(ctx.Uint("owner-count"))
		fields.OwnerCount = &v
	}
	if ctx.IsSet("flags") {
		v := uint32(ctx.Uint("flags"))
		fields.Flags = &v
	}

	return &domain.AccountRootUpdate{
		Account:       ctx.String("account"),
		TxID:          txID,
		LedgerIndex:   uint32(ctx.Uint("ledger-index")),
		PreviousTxnID: prevTxID,
		FinalFields:   fields,
	}, nil
}

func snapshotFromFlags(ctx *cli.Context) (*domain.AccountRoot, error) {
	root := domain.NewUnfundedAccountRoot(ctx.String("account"))
	if ctx.IsSet("balance") {
		balance, err := domain.ParseAmount(ctx.String("balance"))
		if err != nil {
			return nil, err
		}
		root.Balance = balance
	}
	if ctx.IsSet("sequence") {
		root.Sequence = uint32(ctx.Uint("sequence"))
	}
	root.OwnerCount = uint32(ctx.Uint("owner-count"))
	root.Flags = uint32(ctx.Uint("flags"))
	root.PreviousTxnLgrSeq = uint32(ctx.Uint("prev-ledger-index"))

	prevTxID, err := parseOptionalHash(ctx.String("prev-tx-id"))
	if err != nil {
		return nil, fmt.Errorf("invalid prev-tx-id: %w", err)
	}
	root.PreviousTxnID = prevTxID
	return &root, nil
}

// parseOptionalHash maps an empty string to the genesis id.
func parseOptionalHash(s string) (domain.Hash256, error) {
	if s == "" {
		return domain.Hash256{}, nil
	}
	return domain.ParseHash256(s)
}
