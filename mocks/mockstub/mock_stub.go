// Package mockstub provides an in-memory shim.ChaincodeStubInterface for unit
// testing the chaincode and the packages that read and write its state.
package mockstub

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/sirupsen/logrus"
)

// ErrFuncNotImplemented is returned when a function is not implemented
const ErrFuncNotImplemented = "function %s is not implemented"

const (
	compositeKeyNamespace = "\x00"
	minUnicodeRuneValue   = 0
)

// Stub keeps world state in a map and records the events set by the chaincode.
type Stub struct {
	cc        shim.Chaincode
	Name      string
	ChannelID string
	TxID      string

	// TxTimestamp is set by MockInit/MockInvoke unless already assigned.
	TxTimestamp *timestamp.Timestamp
	State       map[string][]byte
	Events      []*pb.ChaincodeEvent
	Transient   map[string][]byte

	args    [][]byte
	creator []byte
	log     *logrus.Entry
}

// NewMockStub creates a stub bound to the chaincode invoked by MockInit and MockInvoke.
// cc may be nil when the stub is only used as state storage.
func NewMockStub(name string, cc shim.Chaincode) *Stub {
	return &Stub{
		cc:        cc,
		Name:      name,
		ChannelID: name,
		State:     make(map[string][]byte),
		Transient: make(map[string][]byte),
		log:       logrus.WithField("stub", name),
	}
}

// MockInit calls the chaincode Init with the given tx id and args.
func (stub *Stub) MockInit(txID string, args [][]byte) pb.Response {
	stub.begin(txID, args)
	defer stub.end()
	return stub.cc.Init(stub)
}

// MockInvoke calls the chaincode Invoke with the given tx id and args.
func (stub *Stub) MockInvoke(txID string, args [][]byte) pb.Response {
	stub.begin(txID, args)
	defer stub.end()
	return stub.cc.Invoke(stub)
}

func (stub *Stub) begin(txID string, args [][]byte) {
	stub.TxID = txID
	stub.args = args
	if stub.TxTimestamp == nil {
		now := time.Now().UTC()
		stub.TxTimestamp = &timestamp.Timestamp{Seconds: now.Unix(), Nanos: int32(now.Nanosecond())}
	}
}

func (stub *Stub) end() {
	stub.TxID = ""
	stub.args = nil
}

// SetCreator sets the serialized identity returned by GetCreator.
func (stub *Stub) SetCreator(creator []byte) {
	stub.creator = creator
}

// LastEvent returns the most recent event or nil.
func (stub *Stub) LastEvent() *pb.ChaincodeEvent {
	if len(stub.Events) == 0 {
		return nil
	}
	return stub.Events[len(stub.Events)-1]
}

// GetArgs returns the arguments for the chaincode invocation request.
func (stub *Stub) GetArgs() [][]byte {
	return stub.args
}

// GetStringArgs returns the arguments for the chaincode invocation request as strings.
func (stub *Stub) GetStringArgs() []string {
	strargs := make([]string, 0, len(stub.args))
	for _, barg := range stub.args {
		strargs = append(strargs, string(barg))
	}
	return strargs
}

// GetFunctionAndParameters returns the first argument as the function name and the rest as parameters.
func (stub *Stub) GetFunctionAndParameters() (string, []string) {
	allArgs := stub.GetStringArgs()
	if len(allArgs) == 0 {
		return "", []string{}
	}
	return allArgs[0], allArgs[1:]
}

// GetArgsSlice is not implemented
func (stub *Stub) GetArgsSlice() ([]byte, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetArgsSlice")
}

// GetTxID returns the transaction ID for the current invocation.
func (stub *Stub) GetTxID() string {
	return stub.TxID
}

// GetChannelID returns the channel ID.
func (stub *Stub) GetChannelID() string {
	return stub.ChannelID
}

// InvokeChaincode is not implemented
func (stub *Stub) InvokeChaincode(chaincodeName string, _ [][]byte, _ string) pb.Response {
	return shim.Error(fmt.Sprintf(ErrFuncNotImplemented, "InvokeChaincode "+chaincodeName))
}

// GetState retrieves the value for a given key from the state map.
func (stub *Stub) GetState(key string) ([]byte, error) {
	value := stub.State[key]
	stub.log.Debugf("getting %q", key)
	return value, nil
}

// PutState writes the value. An empty value deletes the key, as the peer does.
func (stub *Stub) PutState(key string, value []byte) error {
	if key == "" {
		return errors.New("key must not be an empty string")
	}
	if len(value) == 0 {
		return stub.DelState(key)
	}
	stub.log.Debugf("putting %q", key)
	stub.State[key] = append([]byte(nil), value...)
	return nil
}

// DelState removes the key from the state map.
func (stub *Stub) DelState(key string) error {
	stub.log.Debugf("deleting %q", key)
	delete(stub.State, key)
	return nil
}

// SetStateValidationParameter is not implemented
func (stub *Stub) SetStateValidationParameter(_ string, _ []byte) error {
	return fmt.Errorf(ErrFuncNotImplemented, "SetStateValidationParameter")
}

// GetStateValidationParameter is not implemented
func (stub *Stub) GetStateValidationParameter(_ string) ([]byte, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetStateValidationParameter")
}

// GetStateByRange returns an iterator over keys in [startKey, endKey).
// An empty endKey means no upper bound.
func (stub *Stub) GetStateByRange(startKey, endKey string) (shim.StateQueryIteratorInterface, error) {
	for _, key := range []string{startKey, endKey} {
		if strings.HasPrefix(key, compositeKeyNamespace) {
			return nil, errors.New("first character of the key [" + key + "] contains a null character which is not allowed")
		}
	}
	return stub.rangeIterator(startKey, endKey), nil
}

// GetStateByRangeWithPagination is not implemented
func (stub *Stub) GetStateByRangeWithPagination(_, _ string, _ int32, _ string) (shim.StateQueryIteratorInterface, *pb.QueryResponseMetadata, error) {
	return nil, nil, fmt.Errorf(ErrFuncNotImplemented, "GetStateByRangeWithPagination")
}

// GetStateByPartialCompositeKey returns an iterator over all composite keys with the given prefix.
func (stub *Stub) GetStateByPartialCompositeKey(objectType string, keys []string) (shim.StateQueryIteratorInterface, error) {
	partialCompositeKey, err := stub.CreateCompositeKey(objectType, keys)
	if err != nil {
		return nil, err
	}
	return stub.rangeIterator(partialCompositeKey, partialCompositeKey+string(utf8.MaxRune)), nil
}

// GetStateByPartialCompositeKeyWithPagination is not implemented
func (stub *Stub) GetStateByPartialCompositeKeyWithPagination(_ string, _ []string, _ int32, _ string) (shim.StateQueryIteratorInterface, *pb.QueryResponseMetadata, error) {
	return nil, nil, fmt.Errorf(ErrFuncNotImplemented, "GetStateByPartialCompositeKeyWithPagination")
}

// CreateCompositeKey combines the list of attributes to form a composite key.
func (stub *Stub) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	return shim.CreateCompositeKey(objectType, attributes)
}

// SplitCompositeKey splits the composite key into attributes.
func (stub *Stub) SplitCompositeKey(compositeKey string) (string, []string, error) {
	if !strings.HasPrefix(compositeKey, compositeKeyNamespace) {
		return "", nil, fmt.Errorf("key %q is not a composite key", compositeKey)
	}
	componentIndex := 1
	var components []string
	for i := 1; i < len(compositeKey); i++ {
		if compositeKey[i] == minUnicodeRuneValue {
			components = append(components, compositeKey[componentIndex:i])
			componentIndex = i + 1
		}
	}
	if len(components) == 0 {
		return "", nil, fmt.Errorf("key %q has no object type", compositeKey)
	}
	return components[0], components[1:], nil
}

// GetQueryResult is not implemented
func (stub *Stub) GetQueryResult(_ string) (shim.StateQueryIteratorInterface, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetQueryResult")
}

// GetQueryResultWithPagination is not implemented
func (stub *Stub) GetQueryResultWithPagination(_ string, _ int32, _ string) (shim.StateQueryIteratorInterface, *pb.QueryResponseMetadata, error) {
	return nil, nil, fmt.Errorf(ErrFuncNotImplemented, "GetQueryResultWithPagination")
}

// GetHistoryForKey is not implemented
func (stub *Stub) GetHistoryForKey(_ string) (shim.HistoryQueryIteratorInterface, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetHistoryForKey")
}

// GetPrivateData is not implemented
func (stub *Stub) GetPrivateData(_, _ string) ([]byte, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetPrivateData")
}

// GetPrivateDataHash is not implemented
func (stub *Stub) GetPrivateDataHash(_, _ string) ([]byte, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetPrivateDataHash")
}

// PutPrivateData is not implemented
func (stub *Stub) PutPrivateData(_, _ string, _ []byte) error {
	return fmt.Errorf(ErrFuncNotImplemented, "PutPrivateData")
}

// DelPrivateData is not implemented
func (stub *Stub) DelPrivateData(_, _ string) error {
	return fmt.Errorf(ErrFuncNotImplemented, "DelPrivateData")
}

// PurgePrivateData is not implemented
func (stub *Stub) PurgePrivateData(_, _ string) error {
	return fmt.Errorf(ErrFuncNotImplemented, "PurgePrivateData")
}

// SetPrivateDataValidationParameter is not implemented
func (stub *Stub) SetPrivateDataValidationParameter(_, _ string, _ []byte) error {
	return fmt.Errorf(ErrFuncNotImplemented, "SetPrivateDataValidationParameter")
}

// GetPrivateDataValidationParameter is not implemented
func (stub *Stub) GetPrivateDataValidationParameter(_, _ string) ([]byte, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetPrivateDataValidationParameter")
}

// GetPrivateDataByRange is not implemented
func (stub *Stub) GetPrivateDataByRange(_, _, _ string) (shim.StateQueryIteratorInterface, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetPrivateDataByRange")
}

// GetPrivateDataByPartialCompositeKey is not implemented
func (stub *Stub) GetPrivateDataByPartialCompositeKey(_, _ string, _ []string) (shim.StateQueryIteratorInterface, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetPrivateDataByPartialCompositeKey")
}

// GetPrivateDataQueryResult is not implemented
func (stub *Stub) GetPrivateDataQueryResult(_, _ string) (shim.StateQueryIteratorInterface, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetPrivateDataQueryResult")
}

// GetCreator returns the identity set with SetCreator.
func (stub *Stub) GetCreator() ([]byte, error) {
	return stub.creator, nil
}

// GetTransient returns the transient map.
func (stub *Stub) GetTransient() (map[string][]byte, error) {
	return stub.Transient, nil
}

// GetBinding is not implemented
func (stub *Stub) GetBinding() ([]byte, error) {
	return nil, fmt.Errorf(ErrFuncNotImplemented, "GetBinding")
}

// GetDecorations returns no decorations.
func (stub *Stub) GetDecorations() map[string][]byte {
	return map[string][]byte{}
}

// GetSignedProposal returns an empty proposal.
func (stub *Stub) GetSignedProposal() (*pb.SignedProposal, error) {
	return &pb.SignedProposal{}, nil
}

// GetTxTimestamp returns the transaction timestamp.
func (stub *Stub) GetTxTimestamp() (*timestamp.Timestamp, error) {
	if stub.TxTimestamp == nil {
		return nil, errors.New("timestamp was not set")
	}
	return stub.TxTimestamp, nil
}

// SetEvent records the event.
func (stub *Stub) SetEvent(name string, payload []byte) error {
	if name == "" {
		return errors.New("event name can not be empty string")
	}
	stub.Events = append(stub.Events, &pb.ChaincodeEvent{
		TxId:      stub.TxID,
		EventName: name,
		Payload:   payload,
	})
	return nil
}

func (stub *Stub) rangeIterator(startKey, endKey string) *StateRangeQueryIterator {
	keys := make([]string, 0, len(stub.State))
	for key := range stub.State {
		if key < startKey {
			continue
		}
		if endKey != "" && key >= endKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	kvs := make([]*queryresult.KV, 0, len(keys))
	for _, key := range keys {
		kvs = append(kvs, &queryresult.KV{
			Namespace: stub.Name,
			Key:       key,
			Value:     stub.State[key],
		})
	}
	return &StateRangeQueryIterator{kvs: kvs}
}

// StateRangeQueryIterator iterates over a snapshot of the matching keys.
type StateRangeQueryIterator struct {
	kvs    []*queryresult.KV
	pos    int
	closed bool
}

// HasNext returns true if the iterator has more keys.
func (iter *StateRangeQueryIterator) HasNext() bool {
	return !iter.closed && iter.pos < len(iter.kvs)
}

// Next returns the next key and value.
func (iter *StateRangeQueryIterator) Next() (*queryresult.KV, error) {
	if iter.closed {
		return nil, errors.New("iterator is closed")
	}
	if iter.pos >= len(iter.kvs) {
		return nil, errors.New("no more keys")
	}
	kv := iter.kvs[iter.pos]
	iter.pos++
	return kv, nil
}

// Close closes the iterator.
func (iter *StateRangeQueryIterator) Close() error {
	iter.closed = true
	return nil
}
