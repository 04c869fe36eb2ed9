package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func TestAddressBase58RoundTrip(t *testing.T) {
	t.Parallel()

	addr := Address(sha3.Sum256([]byte("node-1")))

	parsed, err := AddrFromBase58Check(addr.String())
	require.NoError(t, err)
	require.True(t, addr.Equal(parsed))
	require.False(t, parsed.IsEmpty())
}

func TestAddressFromBase58CheckErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		_, err := AddrFromBase58Check("")
		require.ErrorIs(t, err, ErrEmptyAddress)
	})

	t.Run("bad checksum", func(t *testing.T) {
		_, err := AddrFromBase58Check("2ZfvyMg8vMUjHJvn")
		require.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		short := Address(sha3.Sum256([]byte("x")))
		encoded := short.String()
		_, err := AddrFromBase58Check(encoded[:len(encoded)-3] + "111")
		require.Error(t, err)
	})
}

func TestAddressJSON(t *testing.T) {
	t.Parallel()

	addr := Address(sha3.Sum256([]byte("treasury")))

	raw, err := json.Marshal(struct {
		Treasury Address `json:"treasury"`
	}{Treasury: addr})
	require.NoError(t, err)
	require.JSONEq(t, `{"treasury":"`+addr.String()+`"}`, string(raw))

	var decoded struct {
		Treasury Address `json:"treasury"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, addr, decoded.Treasury)
}

func TestSender(t *testing.T) {
	t.Parallel()

	owner := Address(sha3.Sum256([]byte("owner")))
	other := Address(sha3.Sum256([]byte("other")))

	sender := NewSenderFromAddr(owner)
	require.True(t, sender.Equal(owner))
	require.False(t, sender.Equal(other))
	require.Equal(t, owner, sender.Address())
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	v, err := ParseAmount("1000")
	require.NoError(t, err)
	require.Equal(t, uint64(1000), v.Uint64())
	require.Equal(t, "1000", FormatAmount(v))

	for _, in := range []string{"", "abc", "12x"} {
		_, err = ParseAmount(in)
		require.Error(t, err, in)
	}

	// 2^256 does not fit
	_, err = ParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639936")
	require.Error(t, err)

	require.Equal(t, "0", FormatAmount(nil))
}
