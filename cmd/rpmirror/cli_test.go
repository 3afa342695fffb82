package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/domain"
	dbbadger "github.com/youweixue/RipplePower/internal/infrastructure/storage/db/badger"
)

const (
	account = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	txID1   = "E3FE6EA3D48F0C2B639448020EA4F03D4F4F8FFDB243A852A0F59177921B4879"
	txID2   = "0A3F4D1B2C5E6F708192A3B4C5D6E7F8091A2B3C4D5E6F708192A3B4C5D6E7F8"
)

func runCLICommand(t *testing.T, args ...string) (string, error) {
	app := newApp()
	out := &bytes.Buffer{}
	app.Writer = out
	app.ErrWriter = &bytes.Buffer{}

	err := app.Run(append([]string{"rpmirror"}, args...))
	return strings.TrimSpace(out.String()), err
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	for _, order := range []string{"little", "big"} {
		order := order
		t.Run(order, func(t *testing.T) {
			t.Parallel()

			msg, err := runCLICommand(t,
				"--byte-order", order, "encode",
				"--account", account,
				"--balance", "148446.663663",
				"--sequence", "62",
				"--tx-id", txID2,
				"--ledger-index", "7000",
				"--prev-tx-id", txID1,
			)
			require.NoError(t, err)
			require.NotEmpty(t, msg)

			out, err := runCLICommand(t, "--byte-order", order, "decode", msg)
			require.NoError(t, err)

			info := messageInfo{}
			require.NoError(t, json.Unmarshal([]byte(out), &info))
			require.Equal(t, "delta", info.Kind)
			require.Nil(t, info.Snapshot)
			require.NotNil(t, info.Update)
			require.Equal(t, account, info.Update.Account)
			require.Equal(t, txID2, info.Update.TxID)
			require.Equal(t, txID1, info.Update.PreviousTxnID)
			require.Equal(t, uint32(7000), info.Update.LedgerIndex)
			require.Equal(t, "148446.663663", *info.Update.FinalFields.Balance)
			require.Equal(t, uint32(62), *info.Update.FinalFields.Sequence)
			require.Nil(t, info.Update.FinalFields.OwnerCount)
		})
	}
}

func TestEncodeSnapshot(t *testing.T) {
	t.Parallel()

	msg, err := runCLICommand(t,
		"encode", "--kind", "snapshot",
		"--account", account,
		"--balance", "10",
		"--owner-count", "2",
	)
	require.NoError(t, err)

	out, err := runCLICommand(t, "decode", msg)
	require.NoError(t, err)

	info := messageInfo{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, "snapshot", info.Kind)
	require.Equal(t, "10", info.Snapshot.Balance)
	require.Equal(t, uint32(1), info.Snapshot.Sequence)
	require.Equal(t, uint32(2), info.Snapshot.OwnerCount)
}

func TestEncodeDecodeInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing account", []string{"encode", "--tx-id", txID1}},
		{"missing tx id", []string{"encode", "--account", account}},
		{"bad balance", []string{"encode", "--account", account, "--tx-id", txID1, "--balance", "1e81"}},
		{"bad kind", []string{"encode", "--kind", "other", "--account", account}},
		{"bad byte order", []string{"--byte-order", "middle", "decode", "0101"}},
		{"not hex", []string{"decode", "zz"}},
		{"garbage", []string{"decode", "ff"}},
		{"missing message", []string{"decode"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := runCLICommand(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestReplay(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "deltas")
	genesis := strings.Repeat("0", 64)

	deltas := [][]string{
		{"--tx-id", txID1, "--prev-tx-id", genesis, "--balance", "100"},
		{"--tx-id", txID2, "--prev-tx-id", txID1, "--balance", "75"},
		// duplicate
		{"--tx-id", txID2, "--prev-tx-id", txID1, "--balance", "75"},
	}
	for _, delta := range deltas {
		args := append([]string{"encode", "--out", file, "--account", account}, delta...)
		_, err := runCLICommand(t, args...)
		require.NoError(t, err)
	}

	out, err := runCLICommand(t, "replay", "--file", file)
	require.NoError(t, err)

	report := replayReport{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 3, report.Messages)
	require.Equal(t, 2, report.Accepted)
	require.Equal(t, 1, report.Rejected)
	require.Len(t, report.Accounts, 1)
	require.Equal(t, "75", report.Accounts[0].Balance)
	require.Equal(t, txID2, report.Accounts[0].PreviousTxnID)

	// An unfunded account chains from the genesis id.
	out, err = runCLICommand(t, "replay", "--file", file, "--unfunded")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 2, report.Accepted)
	require.Equal(t, 1, report.Rejected)
}

func TestShow(t *testing.T) {
	t.Parallel()

	datadir := t.TempDir()
	repoManager, err := dbbadger.NewRepoManager(filepath.Join(datadir, "db"), nil)
	require.NoError(t, err)

	root := domain.AccountRoot{
		Account:           account,
		Balance:           decimal.RequireFromString("12.5"),
		Sequence:          4,
		PreviousTxnLgrSeq: 99,
	}
	root.PreviousTxnID, err = domain.ParseHash256(txID1)
	require.NoError(t, err)
	err = repoManager.AccountRootRepository().SaveAccountRoot(context.Background(), &root)
	require.NoError(t, err)
	repoManager.Close()

	out, err := runCLICommand(t, "show", "--datadir", datadir)
	require.NoError(t, err)

	infos := make([]application.AccountRootInfo, 0)
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	require.Equal(t, "12.5", infos[0].Balance)
	require.Equal(t, txID1, infos[0].PreviousTxnID)

	out, err = runCLICommand(t, "show", "--datadir", datadir, "--account", account)
	require.NoError(t, err)
	info := application.AccountRootInfo{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, uint32(4), info.Sequence)

	_, err = runCLICommand(t, "show", "--datadir", datadir, "--account", "rUnknown")
	require.ErrorIs(t, err, domain.ErrAccountRootNotFound)
}

func TestForget(t *testing.T) {
	t.Parallel()

	datadir := t.TempDir()
	repoManager, err := dbbadger.NewRepoManager(filepath.Join(datadir, "db"), nil)
	require.NoError(t, err)

	for _, a := range []string{account, "rU6K7V3Po4snVhBBaU29sesqs2qTQJWDw1"} {
		root := domain.NewUnfundedAccountRoot(a)
		err := repoManager.AccountRootRepository().SaveAccountRoot(context.Background(), &root)
		require.NoError(t, err)
	}
	repoManager.Close()

	out, err := runCLICommand(t, "forget", "--datadir", datadir, "--account", account)
	require.NoError(t, err)
	require.Contains(t, out, account)

	_, err = runCLICommand(t, "show", "--datadir", datadir, "--account", account)
	require.ErrorIs(t, err, domain.ErrAccountRootNotFound)

	out, err = runCLICommand(t, "show", "--datadir", datadir)
	require.NoError(t, err)
	infos := make([]application.AccountRootInfo, 0)
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)

	_, err = runCLICommand(t, "forget", "--datadir", datadir, "--account", account)
	require.ErrorIs(t, err, domain.ErrAccountRootNotFound)
}
