package core

import (
	"encoding/json"
	"fmt"

	"github.com/anoideaopen/storagepay/core/cachestub"
	"github.com/anoideaopen/storagepay/core/logger"
	"github.com/anoideaopen/storagepay/core/telemetry"
	"github.com/anoideaopen/storagepay/core/types"
	"github.com/anoideaopen/storagepay/ledger"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BatchRequest is one method call of a batchExecute invocation.
type BatchRequest struct {
	Method string   `json:"method"`
	Args   []string `json:"args"`
}

// BatchError describes a failed batch entry. Code is set for ledger errors.
type BatchError struct {
	Code    uint32 `json:"code,omitempty"`
	Message string `json:"message"`
}

// BatchResponse is the outcome of one batch entry.
type BatchResponse struct {
	Method string          `json:"method"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *BatchError     `json:"error,omitempty"`
}

// batchExecuteHandler runs the requests in order on behalf of one sender.
// Every request has its own write buffer: a failed request leaves no writes
// and does not stop the ones after it.
func (cc *Chaincode) batchExecuteHandler(
	traceCtx telemetry.TraceContext,
	stub shim.ChaincodeStubInterface,
	sender *types.Sender,
	args []string,
) peer.Response {
	traceCtx, span := cc.TracingHandler(stub).StartNewSpan(traceCtx, "chaincode.BatchExecute")
	defer span.End()

	if len(args) != 1 {
		return shim.Error(fmt.Sprintf("%s: expects a single JSON array argument, got %d args", BatchExecute, len(args)))
	}

	var requests []BatchRequest
	if err := json.Unmarshal([]byte(args[0]), &requests); err != nil {
		return shim.Error(fmt.Sprintf("%s: unmarshalling requests: %s", BatchExecute, err))
	}
	span.SetAttributes(attribute.Int("requests", len(requests)))

	batchStub := cachestub.NewBatchCacheStub(stub)
	if _, err := ledger.NewHeightClock(batchStub).Advance(); err != nil {
		return shim.Error(fmt.Sprintf("%s: %s", BatchExecute, err))
	}

	responses := make([]BatchResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, cc.batchEntry(traceCtx, batchStub, sender, req))
	}

	if err := batchStub.Commit(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return shim.Error(fmt.Sprintf("%s: committing state: %s", BatchExecute, err))
	}

	payload, err := json.Marshal(responses)
	if err != nil {
		return shim.Error(fmt.Sprintf("%s: marshaling responses: %s", BatchExecute, err))
	}
	return shim.Success(payload)
}

func (cc *Chaincode) batchEntry(
	traceCtx telemetry.TraceContext,
	batchStub *cachestub.BatchCacheStub,
	sender *types.Sender,
	req BatchRequest,
) BatchResponse {
	_, span := cc.TracingHandler(batchStub).StartNewSpan(traceCtx, "ledger."+req.Method)
	defer span.End()

	resp := BatchResponse{Method: req.Method}

	m, ok := methods[req.Method]
	if !ok {
		resp.Error = &BatchError{Message: fmt.Sprintf("method '%s' not found", req.Method)}
		return resp
	}

	txStub := batchStub.NewTxCacheStub(batchStub.GetTxID())
	var stub shim.ChaincodeStubInterface = txStub
	if m.query {
		stub = newQueryStub(batchStub)
	}

	payload, err := callMethod(stub, sender, req.Method, m, req.Args)
	if err != nil {
		code, _ := ledger.ErrorCode(err)
		resp.Error = &BatchError{Code: code, Message: err.Error()}
		span.SetStatus(codes.Error, err.Error())
		logger.Logger().WithFields(logrus.Fields{
			"tx_id":  batchStub.GetTxID(),
			"method": req.Method,
		}).WithError(err).Info("batch entry failed")
		return resp
	}

	txStub.Commit()
	resp.Result = payload
	return resp
}
