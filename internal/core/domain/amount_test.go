package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/youweixue/RipplePower/internal/core/domain"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		tests := []string{
			"0",
			"-0.000001",
			"100000000000",
			"1e80",
			"9999999999999999e80",
			"1e-96",
			// trailing zeros fold into the exponent before the range check
			"100e-98",
			"1000e77",
		}
		for _, v := range tests {
			v := v
			t.Run(v, func(t *testing.T) {
				t.Parallel()

				_, err := domain.ParseAmount(v)
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			amount      string
			expectedErr error
		}{
			{"", domain.ErrInvalidAmount},
			{"ten", domain.ErrInvalidAmount},
			{"1e81", domain.ErrAmountOutOfRange},
			{"-10e80", domain.ErrAmountOutOfRange},
			{"1e-97", domain.ErrAmountOutOfRange},
			{"15e-97", domain.ErrAmountOutOfRange},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.amount, func(t *testing.T) {
				t.Parallel()

				_, err := domain.ParseAmount(tt.amount)
				require.ErrorIs(t, err, tt.expectedErr)
			})
		}
	})
}

func TestAccountRootValidate(t *testing.T) {
	t.Parallel()

	root := domain.NewUnfundedAccountRoot(account)
	require.NoError(t, root.Validate())

	root.Account = ""
	require.ErrorIs(t, root.Validate(), domain.ErrMissingAccount)

	update := newUpdate(hash(1), hash(2), 3, fields(balance("1e90")))
	require.ErrorIs(t, update.Validate(), domain.ErrAmountOutOfRange)

	update.Account = ""
	require.ErrorIs(t, update.Validate(), domain.ErrMissingAccount)
}

func TestAccountRootFields(t *testing.T) {
	t.Parallel()

	root := domain.NewUnfundedAccountRoot(account)
	root.PreviousTxnID = hash(4)
	root.Flags = 8

	f := root.Fields()
	require.True(t, f.IsComplete())

	got, err := f.ToAccountRoot()
	require.NoError(t, err)
	require.Equal(t, root, got)

	// Fields holds copies.
	*f.Flags = 9
	require.Equal(t, uint32(8), root.Flags)

	_, err = fields(balance("1")).ToAccountRoot()
	require.ErrorIs(t, err, domain.ErrIncompleteAccountRoot)
}
