// Package balance keeps native currency balances in the chaincode state and
// implements the native transfer used by the ledger.
package balance

import (
	"errors"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// ObjectType is the composite key object type of native balances.
const ObjectType = "native_balance"

var ErrAddressMustNotBeEmpty = errors.New("address must not be empty")

// Get retrieves the native balance of the address. A missing entry is zero.
func Get(stub shim.ChaincodeStubInterface, address types.Address) (*uint256.Int, error) {
	key, err := balanceKey(stub, address)
	if err != nil {
		return nil, err
	}

	balanceBytes, err := stub.GetState(key)
	if err != nil {
		return nil, err
	}

	return new(uint256.Int).SetBytes(balanceBytes), nil
}

// Put stores the native balance of the address. A zero balance removes the entry.
func Put(stub shim.ChaincodeStubInterface, address types.Address, value *uint256.Int) error {
	key, err := balanceKey(stub, address)
	if err != nil {
		return err
	}

	if value.IsZero() {
		return stub.DelState(key)
	}

	return stub.PutState(key, value.Bytes())
}

func balanceKey(stub shim.ChaincodeStubInterface, address types.Address) (string, error) {
	if address.IsEmpty() {
		return "", ErrAddressMustNotBeEmpty
	}
	return stub.CreateCompositeKey(ObjectType, []string{address.String()})
}
