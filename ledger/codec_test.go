package ledger

import (
	"fmt"
	"testing"

	"github.com/anoideaopen/storagepay/mocks/mockstub"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestInstrumentCodec(t *testing.T) {
	t.Parallel()

	inactive := &Instrument{ID: "X", ExchangeRate: uint256.NewInt(0)}
	raw := marshalInstrument(inactive)
	require.NotEmpty(t, raw)

	decoded, err := unmarshalInstrument(raw)
	require.NoError(t, err)
	require.Equal(t, inactive, decoded)

	t.Run("unknown fields are skipped", func(t *testing.T) {
		withExtra := protowire.AppendTag(raw, 15, protowire.Fixed64Type)
		withExtra = protowire.AppendFixed64(withExtra, 42)
		withExtra = protowire.AppendTag(withExtra, 16, protowire.VarintType)
		withExtra = protowire.AppendVarint(withExtra, 1)

		decoded, err := unmarshalInstrument(withExtra)
		require.NoError(t, err)
		require.Equal(t, inactive, decoded)
	})

	t.Run("[negative] truncated", func(t *testing.T) {
		_, err := unmarshalInstrument(raw[:len(raw)-1])
		require.Error(t, err)
	})

	t.Run("[negative] oversized amount", func(t *testing.T) {
		b := protowire.AppendTag(nil, fieldInstrumentRate, protowire.BytesType)
		b = protowire.AppendBytes(b, make([]byte, 33))
		_, err := unmarshalInstrument(b)
		require.ErrorContains(t, err, "does not fit 256 bits")
	})
}

func TestRecordsNeverEncodeEmpty(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, marshalPayment(&StoragePayment{}))
	require.NotEmpty(t, marshalReward(&NodeRewardRecord{}))
	require.NotEmpty(t, marshalInstrument(&Instrument{}))
	require.NotEmpty(t, encodeAmount(nil))

	p, err := unmarshalPayment(marshalPayment(&StoragePayment{}))
	require.NoError(t, err)
	require.True(t, p.Amount.IsZero())
	require.Zero(t, p.RecordedAt)

	maxAmount := new(uint256.Int).SetAllOne()
	r, err := unmarshalReward(marshalReward(&NodeRewardRecord{TotalEarned: maxAmount, LastClaim: 9}))
	require.NoError(t, err)
	require.Equal(t, maxAmount, r.TotalEarned)
	require.Equal(t, uint64(9), r.LastClaim)
}

func TestRecordJSON(t *testing.T) {
	t.Parallel()

	raw, err := (&Instrument{ID: "X", Active: true, ExchangeRate: uint256.NewInt(12), Name: "Ex", Symbol: "X"}).MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"X","active":true,"exchangeRate":"12","name":"Ex","symbol":"X"}`, string(raw))

	raw, err = (&StoragePayment{Amount: uint256.NewInt(50), RecordedAt: 3}).MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":"50","recordedAt":3}`, string(raw))

	raw, err = (&NodeRewardRecord{TotalEarned: uint256.NewInt(50), LastClaim: 4}).MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"totalEarned":"50","lastClaim":4}`, string(raw))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		err  *Error
		code uint32
	}{
		{ErrNotOwner, 100},
		{ErrInvalidAmount, 101},
		{ErrInsufficientBalance, 102},
		{ErrTokenNotRegistered, 103},
		{ErrTransferFailed, 104},
		{ErrUnauthorized, 105},
		{ErrInvalidRate, 106},
	} {
		code, ok := ErrorCode(tc.err)
		require.True(t, ok)
		require.Equal(t, tc.code, code)
		require.Equal(t, tc.code, tc.err.Code())
	}

	wrapped := fmt.Errorf("%w: %w", ErrTransferFailed, fmt.Errorf("insufficient balance"))
	code, ok := ErrorCode(wrapped)
	require.True(t, ok)
	require.Equal(t, uint32(104), code)
	require.Equal(t, "104: transfer failed: insufficient balance", FormatError(wrapped))

	_, ok = ErrorCode(fmt.Errorf("plain"))
	require.False(t, ok)
	require.Equal(t, "plain", FormatError(fmt.Errorf("plain")))
}

func TestHeightClock(t *testing.T) {
	t.Parallel()

	stub := mockstub.NewMockStub("clock", nil)
	clock := NewHeightClock(stub)

	now, err := clock.Now()
	require.NoError(t, err)
	require.Zero(t, now)

	for want := uint64(1); want <= 3; want++ {
		height, err := clock.Advance()
		require.NoError(t, err)
		require.Equal(t, want, height)

		now, err = clock.Now()
		require.NoError(t, err)
		require.Equal(t, want, now)
	}

	stub.State[keyHeight] = []byte{1, 2}
	_, err = clock.Now()
	require.ErrorContains(t, err, "malformed ledger height")
}

func TestCustodyAddress(t *testing.T) {
	t.Parallel()

	require.False(t, CustodyAddress().IsEmpty())
	require.Equal(t, CustodyAddress(), custodyAddress)
}
