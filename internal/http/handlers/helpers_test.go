package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"service-bidding/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{apperr.ErrInvalidAmount, http.StatusBadRequest},
		{apperr.ErrUnauthorized, http.StatusUnauthorized},
		{apperr.ErrNotOwner, http.StatusForbidden},
		{apperr.ErrNotRole, http.StatusForbidden},
		{apperr.ErrJobNotFound, http.StatusNotFound},
		{apperr.ErrDuplicateBid, http.StatusConflict},
		{fmt.Errorf("accept: %w", apperr.ErrJobNotOpen), http.StatusConflict},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, apperr.ErrJobNotOpen.Error(), publicMessage(fmt.Errorf("tx: %w", apperr.ErrJobNotOpen)))
	require.Equal(t, "not found", publicMessage(fmt.Errorf("%w: job 1", apperr.ErrNotFound)))
}
