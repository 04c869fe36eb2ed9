package ledger

import (
	"fmt"

	"github.com/anoideaopen/storagepay/core/config"
	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
)

// AddAuthorizedOperator allows account to distribute rewards.
func (l *Ledger) AddAuthorizedOperator(sender *types.Sender, account types.Address) error {
	if _, err := l.requireOwner(sender); err != nil {
		return err
	}

	key, err := operatorKey(account)
	if err != nil {
		return err
	}
	if err = l.stub.PutState(key, operatorFlag); err != nil {
		return fmt.Errorf("writing operator: %w", err)
	}

	return l.emit(EventOperatorAdded, AccountEvent{Account: account})
}

// RemoveAuthorizedOperator revokes the operator membership of account.
func (l *Ledger) RemoveAuthorizedOperator(sender *types.Sender, account types.Address) error {
	if _, err := l.requireOwner(sender); err != nil {
		return err
	}

	key, err := operatorKey(account)
	if err != nil {
		return err
	}
	if err = l.stub.DelState(key); err != nil {
		return fmt.Errorf("deleting operator: %w", err)
	}

	return l.emit(EventOperatorRemoved, AccountEvent{Account: account})
}

// IsAuthorizedOperator reports whether account may distribute rewards. The
// owner always may.
func (l *Ledger) IsAuthorizedOperator(account types.Address) (bool, error) {
	cfg, err := l.configOrNil()
	if err != nil {
		return false, err
	}
	if cfg != nil && account.Equal(cfg.Owner) {
		return true, nil
	}
	return l.isOperator(account)
}

func (l *Ledger) isAuthorized(account types.Address) (bool, error) {
	cfg, err := l.config()
	if err != nil {
		return false, err
	}
	if account.Equal(cfg.Owner) {
		return true, nil
	}
	return l.isOperator(account)
}

func (l *Ledger) isOperator(account types.Address) (bool, error) {
	key, err := operatorKey(account)
	if err != nil {
		return false, err
	}
	raw, err := l.stub.GetState(key)
	if err != nil {
		return false, fmt.Errorf("reading operator: %w", err)
	}
	return len(raw) != 0, nil
}

// UpdateStxRate sets the native rate, which must stay positive.
func (l *Ledger) UpdateStxRate(sender *types.Sender, stxRate *uint256.Int) error {
	cfg, err := l.requireOwner(sender)
	if err != nil {
		return err
	}
	if !isPositive(stxRate) {
		return ErrInvalidRate
	}

	cfg.StxToTokenRate = new(uint256.Int).Set(stxRate)
	if err = config.Save(l.stub, cfg); err != nil {
		return err
	}

	return l.emit(EventStxRateUpdated, AccountEvent{Account: cfg.Owner, Amount: types.FormatAmount(stxRate)})
}

// UpdateTreasuryWallet redirects future payments to treasury.
func (l *Ledger) UpdateTreasuryWallet(sender *types.Sender, treasury types.Address) error {
	cfg, err := l.requireOwner(sender)
	if err != nil {
		return err
	}

	cfg.Treasury = treasury
	if err = config.Save(l.stub, cfg); err != nil {
		return err
	}

	return l.emit(EventTreasuryUpdated, AccountEvent{Account: treasury})
}

// TransferOwnership hands every owner privilege over to newOwner.
func (l *Ledger) TransferOwnership(sender *types.Sender, newOwner types.Address) error {
	cfg, err := l.requireOwner(sender)
	if err != nil {
		return err
	}

	cfg.Owner = newOwner
	if err = config.Save(l.stub, cfg); err != nil {
		return err
	}

	return l.emit(EventOwnershipTransferred, AccountEvent{Account: newOwner})
}

// EmergencyWithdrawStx sends amount from custody to the owner. Custody is not
// reconciled against recorded payments.
func (l *Ledger) EmergencyWithdrawStx(sender *types.Sender, amount *uint256.Int) error {
	cfg, err := l.requireOwner(sender)
	if err != nil {
		return err
	}

	if err = l.native.Transfer(custodyAddress, cfg.Owner, orZero(amount)); err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	return l.emit(EventEmergencyWithdrawal, AccountEvent{Account: cfg.Owner, Amount: types.FormatAmount(amount)})
}

// IssueStx mints native currency to an account. It is the faucet that funds
// accounts on a ledger whose native currency lives in world state.
func (l *Ledger) IssueStx(sender *types.Sender, to types.Address, amount *uint256.Int) error {
	if _, err := l.requireOwner(sender); err != nil {
		return err
	}
	if !isPositive(amount) {
		return ErrInvalidAmount
	}

	issuer, ok := l.native.(NativeIssuer)
	if !ok {
		return fmt.Errorf("native currency %T does not support issuance", l.native)
	}
	if err := issuer.Issue(to, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}

	return l.emit(EventStxIssued, AccountEvent{Account: to, Amount: types.FormatAmount(amount)})
}

// StxBalance returns the native balance of account.
func (l *Ledger) StxBalance(account types.Address) (*uint256.Int, error) {
	issuer, ok := l.native.(NativeIssuer)
	if !ok {
		return nil, fmt.Errorf("native currency %T does not expose balances", l.native)
	}
	return issuer.BalanceOf(account)
}
