package balance

import (
	"errors"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/anoideaopen/storagepay/rate"
	"github.com/holiman/uint256"
	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// Error definitions for balance operations.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrZeroAmount          = errors.New("amount must be greater than zero")
	ErrSelfTransfer        = errors.New("sender and recipient are the same")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Add adds the amount to the balance of the address.
func Add(stub shim.ChaincodeStubInterface, address types.Address, amount *uint256.Int) error {
	currentBalance, err := Get(stub, address)
	if err != nil {
		return err
	}

	newBalance, err := rate.Add(currentBalance, amount)
	if err != nil {
		return ErrBalanceOverflow
	}

	return Put(stub, address, newBalance)
}

// Sub subtracts the amount from the balance of the address.
func Sub(stub shim.ChaincodeStubInterface, address types.Address, amount *uint256.Int) error {
	currentBalance, err := Get(stub, address)
	if err != nil {
		return err
	}

	if currentBalance.Lt(amount) {
		return ErrInsufficientBalance
	}

	return Put(stub, address, new(uint256.Int).Sub(currentBalance, amount))
}

// Native moves native currency between accounts of the chaincode state.
type Native struct {
	stub shim.ChaincodeStubInterface
}

func NewNative(stub shim.ChaincodeStubInterface) *Native {
	return &Native{stub: stub}
}

// Transfer moves amount from one account to another. It fails on a zero
// amount, on a transfer to self and when the sender can not cover the amount.
func (n *Native) Transfer(from, to types.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	if from.Equal(to) {
		return ErrSelfTransfer
	}
	if err := Sub(n.stub, from, amount); err != nil {
		return err
	}
	return Add(n.stub, to, amount)
}

// Issue credits amount to the account out of nothing.
func (n *Native) Issue(to types.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	return Add(n.stub, to, amount)
}

// BalanceOf returns the native balance of the account.
func (n *Native) BalanceOf(address types.Address) (*uint256.Int, error) {
	return Get(n.stub, address)
}
