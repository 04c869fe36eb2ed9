package core

import (
	"errors"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// ErrReadOnly is returned by a query method that tries to change the state.
var ErrReadOnly = errors.New("method is read-only")

// queryStub serves reads from the wrapped stub and refuses every write.
type queryStub struct {
	shim.ChaincodeStubInterface
}

func newQueryStub(stub shim.ChaincodeStubInterface) *queryStub {
	return &queryStub{
		ChaincodeStubInterface: stub,
	}
}

func (qs *queryStub) PutState(_ string, _ []byte) error {
	return ErrReadOnly
}

func (qs *queryStub) DelState(_ string) error {
	return ErrReadOnly
}

func (qs *queryStub) SetStateValidationParameter(_ string, _ []byte) error {
	return ErrReadOnly
}

func (qs *queryStub) PutPrivateData(_ string, _ string, _ []byte) error {
	return ErrReadOnly
}

func (qs *queryStub) DelPrivateData(_, _ string) error {
	return ErrReadOnly
}

func (qs *queryStub) PurgePrivateData(_, _ string) error {
	return ErrReadOnly
}

func (qs *queryStub) SetPrivateDataValidationParameter(_, _ string, _ []byte) error {
	return ErrReadOnly
}

func (qs *queryStub) SetEvent(_ string, _ []byte) error {
	return ErrReadOnly
}
