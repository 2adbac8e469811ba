package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomainErrors_UnwrapToCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		kind error
	}{
		{ErrInvalidSpec, ErrInvalid},
		{ErrInvalidAmount, ErrInvalid},
		{ErrInvalidEta, ErrInvalid},
		{ErrJobNotFound, ErrNotFound},
		{ErrBidNotFound, ErrNotFound},
		{ErrJobNotBiddable, ErrConflict},
		{ErrDuplicateBid, ErrConflict},
		{ErrBidNotPending, ErrConflict},
		{ErrForeignExternalRef, ErrForbidden},
		{ErrJobNotOpen, ErrConflict},
		{ErrInvalidTransition, ErrConflict},
		{ErrNotOwner, ErrForbidden},
		{ErrNotRole, ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			require.ErrorIs(t, tc.err, tc.kind)
			require.Equal(t, tc.kind, Kind(tc.err))
		})
	}
}

func TestKind_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("accept bid: %w", ErrJobNotOpen)
	require.ErrorIs(t, err, ErrJobNotOpen)
	require.Equal(t, ErrConflict, Kind(err))
	require.Nil(t, Kind(errors.New("db down")))
}
