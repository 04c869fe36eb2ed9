package telemetry

import "go.opentelemetry.io/otel/attribute"

// MethodKind tells how a contract method touches the ledger.
type MethodKind int

const (
	MethodUnknown MethodKind = iota
	MethodQuery
	MethodTx
	MethodBatch
)

func (k MethodKind) String() string {
	switch k {
	case MethodQuery:
		return "query"
	case MethodTx:
		return "tx"
	case MethodBatch:
		return "batch"
	case MethodUnknown:
		fallthrough
	default:
		return "unknown"
	}
}

func MethodType(k MethodKind) attribute.KeyValue {
	return attribute.String("method_type", k.String())
}

func Method(name string) attribute.KeyValue {
	return attribute.String("method", name)
}

func TxID(txID string) attribute.KeyValue {
	return attribute.String("tx_id", txID)
}
