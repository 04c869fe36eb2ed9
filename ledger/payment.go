package ledger

import (
	"errors"
	"fmt"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/anoideaopen/storagepay/rate"
	"github.com/holiman/uint256"
)

// PayForStorageWithToken pays amount of the instrument to the treasury for
// storageSize units of storage. Paying more than required is accepted and
// the whole amount is recorded.
func (l *Ledger) PayForStorageWithToken(sender *types.Sender, id string, amount, storageSize *uint256.Int) (*uint256.Int, error) {
	amount, storageSize = orZero(amount), orZero(storageSize)

	instrument, err := l.activeInstrument(id)
	if err != nil {
		return nil, err
	}

	required, err := requiredAmount(rate.Required, instrument.ExchangeRate, storageSize)
	if err != nil {
		return nil, err
	}
	if amount.Lt(required) {
		return nil, ErrInsufficientBalance
	}

	cfg, err := l.config()
	if err != nil {
		return nil, err
	}

	if err = l.instrument.Transfer(id, amount, sender.Address(), cfg.Treasury); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	if err = l.recordPayment(sender.Address(), id, amount, storageSize, EventStoragePaid); err != nil {
		return nil, err
	}

	return amount, nil
}

// PayForStorageWithStx pays the native price of storageSize units to the
// treasury and records it under NativeInstrumentID.
func (l *Ledger) PayForStorageWithStx(sender *types.Sender, storageSize *uint256.Int) (*uint256.Int, error) {
	storageSize = orZero(storageSize)

	cfg, err := l.config()
	if err != nil {
		return nil, err
	}

	required, err := requiredAmount(rate.RequiredNative, cfg.StxToTokenRate, storageSize)
	if err != nil {
		return nil, err
	}
	if required.IsZero() {
		return nil, ErrInvalidAmount
	}

	if err = l.native.Transfer(sender.Address(), cfg.Treasury, required); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	if err = l.recordPayment(sender.Address(), NativeInstrumentID, required, storageSize, EventStoragePaid); err != nil {
		return nil, err
	}

	return required, nil
}

// ConvertStxToTokens moves nativeAmount into custody and records the
// instrument amount it is worth as a payment. No instrument units are issued.
func (l *Ledger) ConvertStxToTokens(sender *types.Sender, nativeAmount *uint256.Int, targetID string) (*uint256.Int, error) {
	instrument, err := l.activeInstrument(targetID)
	if err != nil {
		return nil, err
	}
	if !isPositive(nativeAmount) {
		return nil, ErrInvalidAmount
	}

	tokenAmount, err := requiredAmount(rate.Required, instrument.ExchangeRate, nativeAmount)
	if err != nil {
		return nil, err
	}

	if err = l.native.Transfer(sender.Address(), custodyAddress, nativeAmount); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	if err = l.recordPayment(sender.Address(), targetID, tokenAmount, nil, EventStxConverted); err != nil {
		return nil, err
	}

	return tokenAmount, nil
}

// StoragePayment returns the latest payment of payer in the instrument or nil.
func (l *Ledger) StoragePayment(payer types.Address, id string) (*StoragePayment, error) {
	key, err := paymentKey(payer, id)
	if err != nil {
		return nil, nil //nolint:nilerr
	}

	raw, err := l.stub.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("reading storage payment: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	return unmarshalPayment(raw)
}

// CalculateStorageCost quotes storageSize units in an active instrument.
func (l *Ledger) CalculateStorageCost(id string, storageSize *uint256.Int) (*uint256.Int, error) {
	instrument, err := l.activeInstrument(id)
	if err != nil {
		return nil, err
	}
	return requiredAmount(rate.Required, instrument.ExchangeRate, orZero(storageSize))
}

// CalculateStxStorageCost quotes storageSize units in native currency.
func (l *Ledger) CalculateStxStorageCost(storageSize *uint256.Int) (*uint256.Int, error) {
	cfg, err := l.config()
	if err != nil {
		return nil, err
	}
	return requiredAmount(rate.RequiredNative, cfg.StxToTokenRate, orZero(storageSize))
}

func requiredAmount(fn func(r, q *uint256.Int) (*uint256.Int, error), r, q *uint256.Int) (*uint256.Int, error) {
	required, err := fn(r, q)
	if errors.Is(err, rate.ErrOverflow) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	return required, err
}

func (l *Ledger) recordPayment(payer types.Address, id string, amount, storageSize *uint256.Int, event string) error {
	now, err := l.now()
	if err != nil {
		return err
	}

	key, err := paymentKey(payer, id)
	if err != nil {
		return err
	}

	payment := &StoragePayment{Amount: new(uint256.Int).Set(amount), RecordedAt: now}
	if err = l.stub.PutState(key, marshalPayment(payment)); err != nil {
		return fmt.Errorf("writing storage payment: %w", err)
	}

	ev := PaymentEvent{
		Payer:      payer,
		TokenID:    id,
		Amount:     types.FormatAmount(amount),
		RecordedAt: now,
	}
	if storageSize != nil {
		ev.StorageSize = types.FormatAmount(storageSize)
	}
	return l.emit(event, ev)
}
