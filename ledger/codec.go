package ledger

import (
	"fmt"

	"github.com/holiman/uint256"
	"google.golang.org/protobuf/encoding/protowire"
)

// Records are stored as protobuf wire messages. Every field is always
// written, so an encoded record is never empty and never mistaken for an
// absent key.

const (
	fieldInstrumentID     protowire.Number = 1
	fieldInstrumentActive protowire.Number = 2
	fieldInstrumentRate   protowire.Number = 3
	fieldInstrumentName   protowire.Number = 4
	fieldInstrumentSymbol protowire.Number = 5

	fieldPaymentAmount     protowire.Number = 1
	fieldPaymentRecordedAt protowire.Number = 2

	fieldRewardTotalEarned protowire.Number = 1
	fieldRewardLastClaim   protowire.Number = 2
)

func appendAmount(b []byte, num protowire.Number, v *uint256.Int) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	if v == nil {
		return protowire.AppendBytes(b, nil)
	}
	return protowire.AppendBytes(b, v.Bytes())
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func encodeAmount(v *uint256.Int) []byte {
	if v == nil || v.IsZero() {
		return []byte{0}
	}
	return v.Bytes()
}

func decodeAmount(raw []byte) (*uint256.Int, error) {
	if len(raw) > 32 {
		return nil, fmt.Errorf("amount of %d bytes does not fit 256 bits", len(raw))
	}
	return new(uint256.Int).SetBytes(raw), nil
}

// field is a decoded wire field, either varint or length-delimited.
type field struct {
	num    protowire.Number
	varint uint64
	bytes  []byte
}

func consumeFields(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func marshalInstrument(i *Instrument) []byte {
	var active uint64
	if i.Active {
		active = 1
	}

	var b []byte
	b = appendString(b, fieldInstrumentID, i.ID)
	b = appendVarint(b, fieldInstrumentActive, active)
	b = appendAmount(b, fieldInstrumentRate, i.ExchangeRate)
	b = appendString(b, fieldInstrumentName, i.Name)
	b = appendString(b, fieldInstrumentSymbol, i.Symbol)
	return b
}

func unmarshalInstrument(b []byte) (*Instrument, error) {
	i := &Instrument{ExchangeRate: new(uint256.Int)}
	err := consumeFields(b, func(f field) error {
		var err error
		switch f.num {
		case fieldInstrumentID:
			i.ID = string(f.bytes)
		case fieldInstrumentActive:
			i.Active = protowire.DecodeBool(f.varint)
		case fieldInstrumentRate:
			i.ExchangeRate, err = decodeAmount(f.bytes)
		case fieldInstrumentName:
			i.Name = string(f.bytes)
		case fieldInstrumentSymbol:
			i.Symbol = string(f.bytes)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decoding instrument: %w", err)
	}
	return i, nil
}

func marshalPayment(p *StoragePayment) []byte {
	var b []byte
	b = appendAmount(b, fieldPaymentAmount, p.Amount)
	b = appendVarint(b, fieldPaymentRecordedAt, p.RecordedAt)
	return b
}

func unmarshalPayment(b []byte) (*StoragePayment, error) {
	p := &StoragePayment{Amount: new(uint256.Int)}
	err := consumeFields(b, func(f field) error {
		var err error
		switch f.num {
		case fieldPaymentAmount:
			p.Amount, err = decodeAmount(f.bytes)
		case fieldPaymentRecordedAt:
			p.RecordedAt = f.varint
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decoding storage payment: %w", err)
	}
	return p, nil
}

func marshalReward(r *NodeRewardRecord) []byte {
	var b []byte
	b = appendAmount(b, fieldRewardTotalEarned, r.TotalEarned)
	b = appendVarint(b, fieldRewardLastClaim, r.LastClaim)
	return b
}

func unmarshalReward(b []byte) (*NodeRewardRecord, error) {
	r := &NodeRewardRecord{TotalEarned: new(uint256.Int)}
	err := consumeFields(b, func(f field) error {
		var err error
		switch f.num {
		case fieldRewardTotalEarned:
			r.TotalEarned, err = decodeAmount(f.bytes)
		case fieldRewardLastClaim:
			r.LastClaim = f.varint
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decoding node reward record: %w", err)
	}
	return r, nil
}
