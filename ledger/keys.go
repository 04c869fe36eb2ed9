package ledger

import (
	"github.com/anoideaopen/storagepay/core/types"
	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// composite key object types
const (
	objInstrument = "instrument"
	objPayment    = "payment"
	objReward     = "reward"
	objPending    = "pending"
	objOperator   = "operator"
)

// NativeInstrumentID keys payments made in native currency. Registering an
// instrument under the same id is allowed and shares payment records with it.
const NativeInstrumentID = "STX"

var operatorFlag = []byte{0x01}

func instrumentKey(id string) (string, error) {
	return shim.CreateCompositeKey(objInstrument, []string{id})
}

func paymentKey(payer types.Address, id string) (string, error) {
	return shim.CreateCompositeKey(objPayment, []string{payer.String(), id})
}

func rewardKey(node types.Address, id string) (string, error) {
	return shim.CreateCompositeKey(objReward, []string{node.String(), id})
}

func pendingKey(node types.Address, id string) (string, error) {
	return shim.CreateCompositeKey(objPending, []string{node.String(), id})
}

func operatorKey(account types.Address) (string, error) {
	return shim.CreateCompositeKey(objOperator, []string{account.String()})
}
