package balance

import (
	"testing"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/anoideaopen/storagepay/mocks/mockstub"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

var (
	alice = types.Address(sha3.Sum256([]byte("alice")))
	bob   = types.Address(sha3.Sum256([]byte("bob")))
)

func TestGetPut(t *testing.T) {
	t.Parallel()

	stub := mockstub.NewMockStub("balance", nil)

	v, err := Get(stub, alice)
	require.NoError(t, err)
	require.True(t, v.IsZero())

	require.NoError(t, Put(stub, alice, uint256.NewInt(42)))
	v, err = Get(stub, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(42), v.Uint64())

	require.NoError(t, Put(stub, alice, uint256.NewInt(0)))
	require.Empty(t, stub.State)

	_, err = Get(stub, types.Address{})
	require.ErrorIs(t, err, ErrAddressMustNotBeEmpty)
}

func TestAddSub(t *testing.T) {
	t.Parallel()

	stub := mockstub.NewMockStub("balance", nil)

	require.NoError(t, Add(stub, alice, uint256.NewInt(10)))
	require.NoError(t, Add(stub, alice, uint256.NewInt(5)))
	require.NoError(t, Sub(stub, alice, uint256.NewInt(3)))

	v, err := Get(stub, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(12), v.Uint64())

	require.ErrorIs(t, Sub(stub, alice, uint256.NewInt(13)), ErrInsufficientBalance)
	require.ErrorIs(t, Add(stub, alice, new(uint256.Int).SetAllOne()), ErrBalanceOverflow)

	v, err = Get(stub, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(12), v.Uint64())
}

func TestNativeTransfer(t *testing.T) {
	t.Parallel()

	stub := mockstub.NewMockStub("balance", nil)
	native := NewNative(stub)

	require.NoError(t, native.Issue(alice, uint256.NewInt(100)))
	require.NoError(t, native.Transfer(alice, bob, uint256.NewInt(60)))

	a, err := native.BalanceOf(alice)
	require.NoError(t, err)
	require.Equal(t, uint64(40), a.Uint64())

	b, err := native.BalanceOf(bob)
	require.NoError(t, err)
	require.Equal(t, uint64(60), b.Uint64())

	t.Run("[negative] insufficient funds", func(t *testing.T) {
		require.ErrorIs(t, native.Transfer(alice, bob, uint256.NewInt(41)), ErrInsufficientBalance)
	})

	t.Run("[negative] zero amount", func(t *testing.T) {
		require.ErrorIs(t, native.Transfer(alice, bob, uint256.NewInt(0)), ErrZeroAmount)
		require.ErrorIs(t, native.Issue(alice, uint256.NewInt(0)), ErrZeroAmount)
	})

	t.Run("[negative] self transfer", func(t *testing.T) {
		require.ErrorIs(t, native.Transfer(alice, alice, uint256.NewInt(1)), ErrSelfTransfer)
	})

	a, err = native.BalanceOf(alice)
	require.NoError(t, err)
	require.Equal(t, uint64(40), a.Uint64())
}
