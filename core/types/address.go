package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressLength is expected bytes len for an account address
const AddressLength = 32

var ErrEmptyAddress = errors.New("address is empty")

// Address identifies an account: the owner, the treasury, a node or a payer.
type Address [AddressLength]byte

// AddrFromBytes creates address from raw bytes
func AddrFromBytes(in []byte) (Address, error) {
	var addr Address
	if len(in) != AddressLength {
		return addr, fmt.Errorf("address must be %d bytes, got %d", AddressLength, len(in))
	}
	copy(addr[:], in)
	return addr, nil
}

// AddrFromBase58Check creates address from base58 string
func AddrFromBase58Check(in string) (Address, error) {
	if in == "" {
		return Address{}, ErrEmptyAddress
	}

	value, ver, err := base58.CheckDecode(in)
	if err != nil {
		return Address{}, fmt.Errorf("decoding base58 '%s' failed, err: %w", in, err)
	}

	addr, err := AddrFromBytes(append([]byte{ver}, value...))
	if err != nil {
		return Address{}, fmt.Errorf("decoding base58 '%s' failed, err: %w", in, err)
	}

	return addr, nil
}

// Equal compares two addresses
func (a Address) Equal(b Address) bool {
	return bytes.Equal(a[:], b[:])
}

// IsEmpty reports whether the address is all zeroes
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Bytes returns address bytes
func (a Address) Bytes() []byte {
	return a[:]
}

// String returns address string
func (a Address) String() string {
	return base58.CheckEncode(a[1:], a[0])
}

// MarshalJSON marshals address to json
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON unmarshals address from json
func (a *Address) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	parsed, err := AddrFromBase58Check(tmp)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}

// Sender is the authenticated caller of a transaction
type Sender struct {
	addr Address
}

// NewSenderFromAddr creates sender from address
func NewSenderFromAddr(addr Address) *Sender {
	return &Sender{addr: addr}
}

// Address returns address
func (s *Sender) Address() Address {
	return s.addr
}

// Equal compares the sender with an address
func (s *Sender) Equal(addr Address) bool {
	return s.addr.Equal(addr)
}
