package rate

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name     string
		rate     uint64
		quantity uint64
		want     uint64
	}{
		{"rate 10 size 5", 10, 5, 50},
		{"unit rate", 1, 100, 100},
		{"zero quantity", 7, 0, 0},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Required(uint256.NewInt(tc.rate), uint256.NewInt(tc.quantity))
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Uint64())

			got, err = RequiredNative(uint256.NewInt(tc.rate), uint256.NewInt(tc.quantity))
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Uint64())
		})
	}
}

func TestRequiredRejectsOverflow(t *testing.T) {
	t.Parallel()

	maxU256 := new(uint256.Int).SetAllOne()

	_, err := Required(maxU256, uint256.NewInt(2))
	require.ErrorIs(t, err, ErrOverflow)

	_, err = RequiredNative(uint256.NewInt(2), maxU256)
	require.ErrorIs(t, err, ErrOverflow)

	got, err := Required(maxU256, uint256.NewInt(1))
	require.NoError(t, err)
	require.True(t, got.Eq(maxU256))
}

func TestRequiredDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	r, q := uint256.NewInt(3), uint256.NewInt(4)
	_, err := Required(r, q)
	require.NoError(t, err)
	require.Equal(t, uint64(3), r.Uint64())
	require.Equal(t, uint64(4), q.Uint64())
}

func TestAdd(t *testing.T) {
	t.Parallel()

	sum, err := Add(uint256.NewInt(30), uint256.NewInt(20))
	require.NoError(t, err)
	require.Equal(t, uint64(50), sum.Uint64())

	_, err = Add(new(uint256.Int).SetAllOne(), uint256.NewInt(1))
	require.ErrorIs(t, err, ErrOverflow)
}
