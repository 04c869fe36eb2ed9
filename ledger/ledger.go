// Package ledger keeps the storage payment and node reward books: the
// registry of payment instruments, the payments made to the treasury and the
// rewards credited to and claimed by nodes.
//
// A Ledger works on a single stub. The caller is responsible for running each
// operation in its own write buffer and discarding it when an error is
// returned, so a failed operation never leaves partial writes behind.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anoideaopen/storagepay/core/balance"
	"github.com/anoideaopen/storagepay/core/config"
	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"golang.org/x/crypto/sha3"
)

// custodySeed derives the contract custody account.
const custodySeed = "storagepay/custody"

var custodyAddress = types.Address(sha3.Sum256([]byte(custodySeed)))

// CustodyAddress returns the account holding native currency converted into
// instruments.
func CustodyAddress() types.Address {
	return custodyAddress
}

type Ledger struct {
	stub       shim.ChaincodeStubInterface
	clock      Clock
	native     NativeTransferer
	instrument InstrumentTransferer
}

type Option func(*Ledger)

func WithClock(clock Clock) Option {
	return func(l *Ledger) { l.clock = clock }
}

func WithNativeTransferer(native NativeTransferer) Option {
	return func(l *Ledger) { l.native = native }
}

func WithInstrumentTransferer(instrument InstrumentTransferer) Option {
	return func(l *Ledger) { l.instrument = instrument }
}

// New creates a ledger over stub. By default time is the ledger height,
// native currency lives in world state and instrument transfers are no-ops.
func New(stub shim.ChaincodeStubInterface, opts ...Option) *Ledger {
	l := &Ledger{
		stub:       stub,
		clock:      NewHeightClock(stub),
		native:     balance.NewNative(stub),
		instrument: NoopInstrumentTransfer{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) config() (*config.Config, error) {
	cfg, err := config.Load(l.stub)
	if err != nil {
		return nil, fmt.Errorf("loading contract config: %w", err)
	}
	return cfg, nil
}

// configOrNil is used by read accessors, which report a missing config as an
// absent value.
func (l *Ledger) configOrNil() (*config.Config, error) {
	cfg, err := config.Load(l.stub)
	if errors.Is(err, config.ErrCfgBytesEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading contract config: %w", err)
	}
	return cfg, nil
}

func (l *Ledger) requireOwner(sender *types.Sender) (*config.Config, error) {
	cfg, err := l.config()
	if err != nil {
		return nil, err
	}
	if !sender.Equal(cfg.Owner) {
		return nil, ErrNotOwner
	}
	return cfg, nil
}

func (l *Ledger) now() (uint64, error) {
	now, err := l.clock.Now()
	if err != nil {
		return 0, fmt.Errorf("reading clock: %w", err)
	}
	return now, nil
}

func (l *Ledger) emit(name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", name, err)
	}
	return l.stub.SetEvent(name, raw)
}

func (l *Ledger) getAmount(key string) (*uint256.Int, error) {
	raw, err := l.stub.GetState(key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return decodeAmount(raw)
}

func isPositive(v *uint256.Int) bool {
	return v != nil && !v.IsZero()
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
