package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
	entryparser "github.com/youweixue/RipplePower/internal/infrastructure/entry-parser"
)

var decode = cli.Command{
	Name:      "decode",
	Usage:     "decode a hex encoded ledger message and print it as JSON",
	ArgsUsage: "<hex message>",
	Action:    decodeAction,
}

type fieldsInfo struct {
	Account           *string `json:"account,omitempty"`
	Balance           *string `json:"balance,omitempty"`
	Sequence          *uint32 `json:"sequence,omitempty"`
	OwnerCount        *uint32 `json:"owner_count,omitempty"`
	Flags             *uint32 `json:"flags,omitempty"`
	PreviousTxnID     *string `json:"previous_txn_id,omitempty"`
	PreviousTxnLgrSeq *uint32 `json:"previous_txn_lgr_seq,omitempty"`
}

type updateInfo struct {
	Account       string     `json:"account"`
	TxID          string     `json:"tx_id"`
	LedgerIndex   uint32     `json:"ledger_index"`
	PreviousTxnID string     `json:"previous_txn_id"`
	FinalFields   fieldsInfo `json:"final_fields"`
}

type messageInfo struct {
	Kind     string                       `json:"kind"`
	Update   *updateInfo                  `json:"update,omitempty"`
	Snapshot *application.AccountRootInfo `json:"snapshot,omitempty"`
}

func decodeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	order, err := getByteOrder(ctx)
	if err != nil {
		return err
	}

	msg, err := hex.DecodeString(strings.TrimSpace(ctx.Args().First()))
	if err != nil {
		return fmt.Errorf("message must be in hex format: %w", err)
	}

	ledgerMsg, err := entryparser.NewService(order).ParseMessage(msg)
	if err != nil {
		return err
	}
	return printJSON(ctx, newMessageInfo(ledgerMsg))
}

func newMessageInfo(msg *ports.LedgerMessage) messageInfo {
	info := messageInfo{Kind: msg.Kind.String()}
	if msg.Snapshot != nil {
		snapshot := application.NewAccountRootInfo(*msg.Snapshot, "")
		info.Snapshot = &snapshot
	}
	if msg.Update != nil {
		info.Update = &updateInfo{
			Account:       msg.Update.Account,
			TxID:          msg.Update.TxID.String(),
			LedgerIndex:   msg.Update.LedgerIndex,
			PreviousTxnID: msg.Update.PreviousTxnID.String(),
			FinalFields:   newFieldsInfo(msg.Update.FinalFields),
		}
	}
	return info
}

func newFieldsInfo(f domain.AccountRootFields) fieldsInfo {
	info := fieldsInfo{
		Account:           f.Account,
		Sequence:          f.Sequence,
		OwnerCount:        f.OwnerCount,
		Flags:             f.Flags,
		PreviousTxnLgrSeq: f.PreviousTxnLgrSeq,
	}
	if f.Balance != nil {
		balance := f.Balance.String()
		info.Balance = &balance
	}
	if f.PreviousTxnID != nil {
		id := f.PreviousTxnID.String()
		info.PreviousTxnID = &id
	}
	return info
}
