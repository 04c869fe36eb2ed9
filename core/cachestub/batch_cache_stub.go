package cachestub

import (
	"encoding/json"
	"sort"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// BatchEventName is the chaincode event set when more than one buffered
// transaction emitted an event.
const BatchEventName = "batchEvents"

type writeElement struct {
	value     []byte
	isDeleted bool
}

// Event is a chaincode event emitted by a committed transaction.
type Event struct {
	Name    string `json:"name"`
	Payload []byte `json:"payload"`
}

// BatchCacheStub buffers the writes of committed TxCacheStubs until Commit
// flushes them to the chaincode state.
type BatchCacheStub struct {
	shim.ChaincodeStubInterface
	batchWriteCache map[string]*writeElement
	events          []Event
}

func NewBatchCacheStub(stub shim.ChaincodeStubInterface) *BatchCacheStub {
	return &BatchCacheStub{
		ChaincodeStubInterface: stub,
		batchWriteCache:        make(map[string]*writeElement),
	}
}

// GetState returns state from BatchCacheStub cache or, if absent, from chaincode state
func (bs *BatchCacheStub) GetState(key string) ([]byte, error) {
	existsElement, ok := bs.batchWriteCache[key]
	if ok {
		return existsElement.value, nil
	}
	return bs.ChaincodeStubInterface.GetState(key)
}

// PutState puts state to a BatchCacheStub cache
func (bs *BatchCacheStub) PutState(key string, value []byte) error {
	bs.batchWriteCache[key] = &writeElement{value: value}
	return nil
}

// DelState marks state in BatchCacheStub cache as deleted
func (bs *BatchCacheStub) DelState(key string) error {
	bs.batchWriteCache[key] = &writeElement{isDeleted: true}
	return nil
}

// SetEvent records an event to be set on Commit
func (bs *BatchCacheStub) SetEvent(name string, payload []byte) error {
	bs.events = append(bs.events, Event{Name: name, Payload: payload})
	return nil
}

// Events returns the events recorded so far in commit order
func (bs *BatchCacheStub) Events() []Event {
	return bs.events
}

// Commit puts state from a BatchCacheStub cache to the chaincode state in key
// order and sets the recorded events. Fabric keeps a single event per
// transaction, so several events are packed into one BatchEventName event.
func (bs *BatchCacheStub) Commit() error {
	keys := make([]string, 0, len(bs.batchWriteCache))
	for k := range bs.batchWriteCache {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		element := bs.batchWriteCache[key]
		if element.isDeleted {
			if err := bs.ChaincodeStubInterface.DelState(key); err != nil {
				return err
			}
			continue
		}
		if err := bs.ChaincodeStubInterface.PutState(key, element.value); err != nil {
			return err
		}
	}

	switch len(bs.events) {
	case 0:
		return nil
	case 1:
		return bs.ChaincodeStubInterface.SetEvent(bs.events[0].Name, bs.events[0].Payload)
	default:
		payload, err := json.Marshal(bs.events)
		if err != nil {
			return err
		}
		return bs.ChaincodeStubInterface.SetEvent(BatchEventName, payload)
	}
}
