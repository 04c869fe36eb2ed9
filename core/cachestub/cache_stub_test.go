package cachestub

import (
	"encoding/json"
	"testing"

	"github.com/anoideaopen/storagepay/mocks/mockstub"
	"github.com/stretchr/testify/require"
)

const (
	txID1 = "txID1"
	txID2 = "txID2"

	valKey1 = "key1"
	valKey2 = "key2"
	valKey3 = "key3"

	valKey1Value1 = "key1_value1"
	valKey1Value2 = "key1_value2"
	valKey2Value1 = "key2_value1"
	valKey3Value1 = "key3_value1"
)

func TestTxStub(t *testing.T) {
	t.Parallel()

	t.Run("GetState reads through to chaincode state", func(t *testing.T) {
		stateStub := mockstub.NewMockStub("cc", nil)
		stateStub.State[valKey1] = []byte(valKey1Value1)

		txStub := NewBatchCacheStub(stateStub).NewTxCacheStub(txID1)
		require.Equal(t, txID1, txStub.GetTxID())

		result, err := txStub.GetState(valKey1)
		require.NoError(t, err)
		require.Equal(t, valKey1Value1, string(result))

		result, err = txStub.GetState(valKey2)
		require.NoError(t, err)
		require.Nil(t, result)
	})

	t.Run("PutState is invisible until both commits", func(t *testing.T) {
		stateStub := mockstub.NewMockStub("cc", nil)
		stateStub.State[valKey1] = []byte(valKey1Value1)

		batchStub := NewBatchCacheStub(stateStub)
		txStub := batchStub.NewTxCacheStub(txID1)

		require.NoError(t, txStub.PutState(valKey1, []byte(valKey1Value2)))
		require.NoError(t, txStub.PutState(valKey2, []byte(valKey2Value1)))

		result, err := txStub.GetState(valKey1)
		require.NoError(t, err)
		require.Equal(t, valKey1Value2, string(result))

		result, err = batchStub.GetState(valKey1)
		require.NoError(t, err)
		require.Equal(t, valKey1Value1, string(result))

		keys := txStub.Commit()
		require.Equal(t, []string{valKey1, valKey2}, keys)

		result, err = batchStub.GetState(valKey1)
		require.NoError(t, err)
		require.Equal(t, valKey1Value2, string(result))
		require.Equal(t, valKey1Value1, string(stateStub.State[valKey1]))

		require.NoError(t, batchStub.Commit())
		require.Equal(t, valKey1Value2, string(stateStub.State[valKey1]))
		require.Equal(t, valKey2Value1, string(stateStub.State[valKey2]))
	})

	t.Run("discarded tx leaves no trace", func(t *testing.T) {
		stateStub := mockstub.NewMockStub("cc", nil)
		stateStub.State[valKey1] = []byte(valKey1Value1)

		batchStub := NewBatchCacheStub(stateStub)
		txStub := batchStub.NewTxCacheStub(txID1)
		require.NoError(t, txStub.PutState(valKey3, []byte(valKey3Value1)))
		require.NoError(t, txStub.DelState(valKey1))
		require.NoError(t, txStub.SetEvent("ignored", nil))

		// txStub is dropped without Commit
		require.NoError(t, batchStub.Commit())
		require.Equal(t, valKey1Value1, string(stateStub.State[valKey1]))
		require.NotContains(t, stateStub.State, valKey3)
		require.Empty(t, stateStub.Events)
	})

	t.Run("DelState removes on commit", func(t *testing.T) {
		stateStub := mockstub.NewMockStub("cc", nil)
		stateStub.State[valKey1] = []byte(valKey1Value1)

		batchStub := NewBatchCacheStub(stateStub)
		txStub := batchStub.NewTxCacheStub(txID1)
		require.NoError(t, txStub.DelState(valKey1))

		result, err := txStub.GetState(valKey1)
		require.NoError(t, err)
		require.Nil(t, result)

		txStub.Commit()
		require.NoError(t, batchStub.Commit())
		require.NotContains(t, stateStub.State, valKey1)
	})
}

func TestBatchStubEvents(t *testing.T) {
	t.Parallel()

	t.Run("single event is set as is", func(t *testing.T) {
		stateStub := mockstub.NewMockStub("cc", nil)
		batchStub := NewBatchCacheStub(stateStub)

		txStub := batchStub.NewTxCacheStub(txID1)
		require.NoError(t, txStub.SetEvent("StoragePaid", []byte(`{"amount":"50"}`)))
		txStub.Commit()

		require.NoError(t, batchStub.Commit())
		require.Len(t, stateStub.Events, 1)
		require.Equal(t, "StoragePaid", stateStub.Events[0].GetEventName())
		require.Equal(t, `{"amount":"50"}`, string(stateStub.Events[0].GetPayload()))
	})

	t.Run("several events are packed", func(t *testing.T) {
		stateStub := mockstub.NewMockStub("cc", nil)
		batchStub := NewBatchCacheStub(stateStub)

		tx1 := batchStub.NewTxCacheStub(txID1)
		require.NoError(t, tx1.SetEvent("first", []byte("1")))
		tx1.Commit()

		tx2 := batchStub.NewTxCacheStub(txID2)
		require.NoError(t, tx2.SetEvent("second", []byte("2")))
		tx2.Commit()

		require.Len(t, batchStub.Events(), 2)
		require.NoError(t, batchStub.Commit())
		require.Len(t, stateStub.Events, 1)
		require.Equal(t, BatchEventName, stateStub.Events[0].GetEventName())

		var events []Event
		require.NoError(t, json.Unmarshal(stateStub.Events[0].GetPayload(), &events))
		require.Equal(t, []Event{{Name: "first", Payload: []byte("1")}, {Name: "second", Payload: []byte("2")}}, events)
	})
}
