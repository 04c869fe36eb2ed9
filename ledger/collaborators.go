package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// Clock yields the logical timestamp stored in payment and reward records.
type Clock interface {
	Now() (uint64, error)
}

// NativeTransferer moves native currency between accounts atomically.
type NativeTransferer interface {
	Transfer(from, to types.Address, amount *uint256.Int) error
}

// NativeIssuer is implemented by native currencies the owner can mint into.
type NativeIssuer interface {
	Issue(to types.Address, amount *uint256.Int) error
	BalanceOf(addr types.Address) (*uint256.Int, error)
}

// InstrumentTransferer moves units of a registered instrument.
type InstrumentTransferer interface {
	Transfer(instrumentID string, amount *uint256.Int, from, to types.Address) error
}

// NoopInstrumentTransfer accepts every instrument transfer without moving funds.
type NoopInstrumentTransfer struct{}

func (NoopInstrumentTransfer) Transfer(string, *uint256.Int, types.Address, types.Address) error {
	return nil
}

// keyHeight holds the ledger height as a big-endian uint64.
const keyHeight = "__height"

// HeightClock counts mutating invocations in world state.
type HeightClock struct {
	stub shim.ChaincodeStubInterface
}

func NewHeightClock(stub shim.ChaincodeStubInterface) *HeightClock {
	return &HeightClock{stub: stub}
}

// Now returns the current height, zero before the first mutating invocation.
func (c *HeightClock) Now() (uint64, error) {
	raw, err := c.stub.GetState(keyHeight)
	if err != nil {
		return 0, fmt.Errorf("reading ledger height: %w", err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("malformed ledger height of %d bytes", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// Advance increments the height and returns the new value.
func (c *HeightClock) Advance() (uint64, error) {
	height, err := c.Now()
	if err != nil {
		return 0, err
	}
	height++

	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, height)
	if err = c.stub.PutState(keyHeight, raw); err != nil {
		return 0, fmt.Errorf("writing ledger height: %w", err)
	}
	return height, nil
}
