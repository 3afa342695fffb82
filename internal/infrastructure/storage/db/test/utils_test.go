package db_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
	"github.com/youweixue/RipplePower/internal/core/domain"
)

func makeRandomAccountRoot() *domain.AccountRoot {
	return &domain.AccountRoot{
		Account:           "r" + randstr.Hex(16),
		Balance:           decimal.New(int64(randomIntInRange(1, 1000000)), -6),
		Sequence:          uint32(randomIntInRange(1, 1000)),
		OwnerCount:        uint32(randomIntInRange(0, 10)),
		Flags:             uint32(randomIntInRange(0, 1<<24)),
		PreviousTxnID:     randomHash(),
		PreviousTxnLgrSeq: uint32(randomIntInRange(32570, 90000000)),
	}
}

func randomHash() domain.Hash256 {
	h, _ := domain.ParseHash256(randstr.Hex(2 * domain.Hash256Size))
	return h
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return int(n.Int64()) + min
}

// requireEqualAccountRoots compares balances by value, since the stored
// form may not preserve the decimal exponent.
func requireEqualAccountRoots(t *testing.T, expected, actual domain.AccountRoot) {
	t.Helper()

	require.True(
		t, expected.Balance.Equal(actual.Balance),
		"expected balance %s, got %s", expected.Balance, actual.Balance,
	)
	expected.Balance, actual.Balance = decimal.Zero, decimal.Zero
	require.Equal(t, expected, actual)
}
