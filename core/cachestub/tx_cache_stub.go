package cachestub

import "sort"

// TxCacheStub buffers the writes and events of a single ledger operation on
// top of a BatchCacheStub. Nothing reaches the batch unless Commit is called,
// so an operation that fails leaves no trace.
//
// Range and composite key queries are served by the underlying chaincode
// state and do not see buffered writes.
type TxCacheStub struct {
	*BatchCacheStub
	txID         string
	txWriteCache map[string]*writeElement
	events       []Event
}

func (bs *BatchCacheStub) NewTxCacheStub(txID string) *TxCacheStub {
	return &TxCacheStub{
		BatchCacheStub: bs,
		txID:           txID,
		txWriteCache:   make(map[string]*writeElement),
	}
}

// GetTxID returns TxCacheStub transaction ID
func (bts *TxCacheStub) GetTxID() string {
	return bts.txID
}

// GetState returns state from TxCacheStub cache or, if absent, from batchState cache
func (bts *TxCacheStub) GetState(key string) ([]byte, error) {
	existsElement, ok := bts.txWriteCache[key]
	if ok {
		return existsElement.value, nil
	}
	return bts.BatchCacheStub.GetState(key)
}

// PutState puts state to the TxCacheStub's cache
func (bts *TxCacheStub) PutState(key string, value []byte) error {
	bts.txWriteCache[key] = &writeElement{value: value}
	return nil
}

// DelState marks state in TxCacheStub as deleted
func (bts *TxCacheStub) DelState(key string) error {
	bts.txWriteCache[key] = &writeElement{isDeleted: true}
	return nil
}

// SetEvent sets payload to a TxCacheStub events
func (bts *TxCacheStub) SetEvent(name string, payload []byte) error {
	bts.events = append(bts.events, Event{Name: name, Payload: payload})
	return nil
}

// Commit moves buffered writes and events to the BatchCacheStub and returns
// the written keys in sorted order.
func (bts *TxCacheStub) Commit() []string {
	writeKeys := make([]string, 0, len(bts.txWriteCache))
	for k, v := range bts.txWriteCache {
		bts.batchWriteCache[k] = v
		writeKeys = append(writeKeys, k)
	}
	sort.Strings(writeKeys)

	bts.BatchCacheStub.events = append(bts.BatchCacheStub.events, bts.events...)

	bts.txWriteCache = make(map[string]*writeElement)
	bts.events = nil

	return writeKeys
}
