package ledger

import (
	"fmt"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
)

// RegisterToken creates or overwrites the instrument id as active.
func (l *Ledger) RegisterToken(sender *types.Sender, id string, rate *uint256.Int, name, symbol string) error {
	if _, err := l.requireOwner(sender); err != nil {
		return err
	}
	if !isPositive(rate) {
		return ErrInvalidRate
	}

	instrument := &Instrument{
		ID:           id,
		Active:       true,
		ExchangeRate: new(uint256.Int).Set(rate),
		Name:         name,
		Symbol:       symbol,
	}
	if err := l.putInstrument(instrument); err != nil {
		return err
	}

	return l.emit(EventTokenRegistered, TokenEvent{TokenID: id, Rate: types.FormatAmount(rate)})
}

// DeactivateToken marks a registered instrument inactive. Only a new
// registration activates it again.
func (l *Ledger) DeactivateToken(sender *types.Sender, id string) error {
	if _, err := l.requireOwner(sender); err != nil {
		return err
	}

	instrument, err := l.mustInstrument(id)
	if err != nil {
		return err
	}

	instrument.Active = false
	if err = l.putInstrument(instrument); err != nil {
		return err
	}

	return l.emit(EventTokenDeactivated, TokenEvent{TokenID: id})
}

// UpdateTokenRate changes the rate of a registered instrument, active or not.
func (l *Ledger) UpdateTokenRate(sender *types.Sender, id string, rate *uint256.Int) error {
	if _, err := l.requireOwner(sender); err != nil {
		return err
	}
	if !isPositive(rate) {
		return ErrInvalidRate
	}

	instrument, err := l.mustInstrument(id)
	if err != nil {
		return err
	}

	instrument.ExchangeRate = new(uint256.Int).Set(rate)
	if err = l.putInstrument(instrument); err != nil {
		return err
	}

	return l.emit(EventTokenRateUpdated, TokenEvent{TokenID: id, Rate: types.FormatAmount(rate)})
}

// IsTokenRegistered reports whether the instrument exists and is active.
func (l *Ledger) IsTokenRegistered(id string) (bool, error) {
	instrument, err := l.TokenInfo(id)
	if err != nil {
		return false, err
	}
	return instrument != nil && instrument.Active, nil
}

// TokenInfo returns the instrument record or nil when it was never registered.
func (l *Ledger) TokenInfo(id string) (*Instrument, error) {
	key, err := instrumentKey(id)
	if err != nil {
		// an id the key scheme rejects is never stored
		return nil, nil //nolint:nilerr
	}

	raw, err := l.stub.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("reading instrument '%s': %w", id, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	return unmarshalInstrument(raw)
}

// TokenRate returns the instrument rate or nil when it was never registered.
func (l *Ledger) TokenRate(id string) (*uint256.Int, error) {
	instrument, err := l.TokenInfo(id)
	if err != nil || instrument == nil {
		return nil, err
	}
	return instrument.ExchangeRate, nil
}

// ListTokens returns every registered instrument, active or not, ordered by id.
func (l *Ledger) ListTokens() ([]*Instrument, error) {
	iter, err := l.stub.GetStateByPartialCompositeKey(objInstrument, []string{})
	if err != nil {
		return nil, fmt.Errorf("listing instruments: %w", err)
	}
	defer func() {
		_ = iter.Close()
	}()

	instruments := make([]*Instrument, 0)
	for iter.HasNext() {
		kv, err := iter.Next()
		if err != nil {
			return nil, fmt.Errorf("listing instruments: %w", err)
		}

		instrument, err := unmarshalInstrument(kv.GetValue())
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, instrument)
	}

	return instruments, nil
}

// ContractOwner returns the owner or nil before the contract is initialized.
func (l *Ledger) ContractOwner() (*types.Address, error) {
	cfg, err := l.configOrNil()
	if err != nil || cfg == nil {
		return nil, err
	}
	return &cfg.Owner, nil
}

// TreasuryWallet returns the treasury or nil before the contract is initialized.
func (l *Ledger) TreasuryWallet() (*types.Address, error) {
	cfg, err := l.configOrNil()
	if err != nil || cfg == nil {
		return nil, err
	}
	return &cfg.Treasury, nil
}

// StxRate returns the native rate or nil before the contract is initialized.
func (l *Ledger) StxRate() (*uint256.Int, error) {
	cfg, err := l.configOrNil()
	if err != nil || cfg == nil {
		return nil, err
	}
	return cfg.StxToTokenRate, nil
}

func (l *Ledger) mustInstrument(id string) (*Instrument, error) {
	instrument, err := l.TokenInfo(id)
	if err != nil {
		return nil, err
	}
	if instrument == nil {
		return nil, ErrTokenNotRegistered
	}
	return instrument, nil
}

func (l *Ledger) activeInstrument(id string) (*Instrument, error) {
	instrument, err := l.mustInstrument(id)
	if err != nil {
		return nil, err
	}
	if !instrument.Active {
		return nil, ErrTokenNotRegistered
	}
	return instrument, nil
}

func (l *Ledger) putInstrument(instrument *Instrument) error {
	key, err := instrumentKey(instrument.ID)
	if err != nil {
		return err
	}
	if err = l.stub.PutState(key, marshalInstrument(instrument)); err != nil {
		return fmt.Errorf("writing instrument '%s': %w", instrument.ID, err)
	}
	return nil
}
