package core

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/anoideaopen/storagepay/core/cachestub"
	"github.com/anoideaopen/storagepay/core/config"
	"github.com/anoideaopen/storagepay/core/logger"
	"github.com/anoideaopen/storagepay/core/telemetry"
	"github.com/anoideaopen/storagepay/core/types"
	"github.com/anoideaopen/storagepay/hlfcreator"
	"github.com/anoideaopen/storagepay/ledger"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Init is called during chaincode instantiation to initialize any data. Note that upgrade
// also calls this function; an existing contract config is kept as is.
func (cc *Chaincode) Init(stub shim.ChaincodeStubInterface) peer.Response {
	creator, err := stub.GetCreator()
	if err != nil {
		return shim.Error("init: getting creator of transaction: " + err.Error())
	}
	if err = hlfcreator.ValidateAdminCreator(creator); err != nil {
		return shim.Error("init: validating admin creator: " + err.Error())
	}

	exists, err := config.Exists(stub)
	if err != nil {
		return shim.Error("init: " + err.Error())
	}
	if exists {
		logger.Logger().WithField("tx_id", stub.GetTxID()).Info("init: contract config exists, keeping it")
		return shim.Success(nil)
	}

	owner, err := hlfcreator.CreatorAddress(creator)
	if err != nil {
		return shim.Error("init: deriving owner address: " + err.Error())
	}

	cfg, err := config.FromInitArgs(owner, stub.GetStringArgs())
	if err != nil {
		return shim.Error("init: parsing args: " + err.Error())
	}

	if err = config.Save(stub, cfg); err != nil {
		return shim.Error("init: saving config: " + err.Error())
	}

	cc.tracingMu.Lock()
	if cc.tracing == nil && cfg.TracingCollectorEndpoint != nil {
		cc.installTracing(cfg.TracingCollectorEndpoint.Endpoint)
	}
	cc.tracingMu.Unlock()

	logger.Logger().WithFields(logrus.Fields{
		"owner":    cfg.Owner.String(),
		"treasury": cfg.Treasury.String(),
	}).Info("init: contract config saved")

	return shim.Success(nil)
}

// Invoke is called to update or query the ledger in a proposal transaction. Given the
// function name, it delegates the execution to the respective handler.
func (cc *Chaincode) Invoke(stub shim.ChaincodeStubInterface) (r peer.Response) {
	r = shim.Error("panic invoke")
	log := logger.Logger()
	defer func() {
		if rc := recover(); rc != nil {
			log.Errorf("panic invoke\nrc: %v\nstack: %s\n", rc, debug.Stack())
		}
	}()

	start := time.Now()

	// Getting carrier from transient map and creating tracing span
	th := cc.TracingHandler(stub)
	traceCtx := th.ContextFromStub(stub)
	traceCtx, span := th.StartNewSpan(traceCtx, "cc.Invoke")

	transactionID := stub.GetTxID()
	function, args := stub.GetFunctionAndParameters()

	span.SetAttributes(attribute.String("channel", stub.GetChannelID()))
	span.SetAttributes(telemetry.TxID(transactionID), telemetry.Method(function))

	defer func() {
		fields := logrus.Fields{
			"tx_id":   transactionID,
			"method":  function,
			"elapsed": time.Since(start).String(),
		}
		if r.GetStatus() >= shim.ERRORTHRESHOLD {
			log.WithFields(fields).WithField("error", r.GetMessage()).Warn("invoke failed")
			span.SetStatus(codes.Error, r.GetMessage())
		} else {
			log.WithFields(fields).Debug("invoke done")
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	if err := cc.ValidateTxID(stub); err != nil {
		return shim.Error("invoke: validating transaction ID: " + err.Error())
	}

	span.AddEvent("getting creator")
	creatorBytes, err := stub.GetCreator()
	if err != nil {
		return shim.Error("invoke: failed to get creator of transaction: " + err.Error())
	}

	creator, err := hlfcreator.CreatorAddress(creatorBytes)
	if err != nil {
		return shim.Error("invoke: validating creator: " + err.Error())
	}
	sender := types.NewSenderFromAddr(creator)

	if function == BatchExecute {
		span.SetAttributes(telemetry.MethodType(telemetry.MethodBatch))
		return cc.batchExecuteHandler(traceCtx, stub, sender, args)
	}

	m, ok := methods[function]
	if !ok {
		return shim.Error(fmt.Sprintf("invoke: finding method: method '%s' not found", function))
	}

	if m.query {
		span.SetAttributes(telemetry.MethodType(telemetry.MethodQuery))
		return response(cc.queryHandler(traceCtx, stub, sender, function, m, args))
	}

	span.SetAttributes(telemetry.MethodType(telemetry.MethodTx))
	return response(cc.txHandler(traceCtx, stub, sender, function, m, args))
}

func response(payload []byte, err error) peer.Response {
	if err != nil {
		return shim.Error(ledger.FormatError(err))
	}
	return shim.Success(payload)
}

// queryHandler runs a read-only method straight on the peer state.
func (cc *Chaincode) queryHandler(
	traceCtx telemetry.TraceContext,
	stub shim.ChaincodeStubInterface,
	sender *types.Sender,
	function string,
	m method,
	args []string,
) ([]byte, error) {
	_, span := cc.TracingHandler(stub).StartNewSpan(traceCtx, "ledger."+function)
	defer span.End()

	return callMethod(newQueryStub(stub), sender, function, m, args)
}

// txHandler advances the ledger height and runs a mutating method in a write
// buffer flushed to the peer state only when the method succeeds.
func (cc *Chaincode) txHandler(
	traceCtx telemetry.TraceContext,
	stub shim.ChaincodeStubInterface,
	sender *types.Sender,
	function string,
	m method,
	args []string,
) ([]byte, error) {
	_, span := cc.TracingHandler(stub).StartNewSpan(traceCtx, "ledger."+function)
	defer span.End()

	batchStub := cachestub.NewBatchCacheStub(stub)
	if _, err := ledger.NewHeightClock(batchStub).Advance(); err != nil {
		return nil, err
	}

	txStub := batchStub.NewTxCacheStub(stub.GetTxID())
	payload, err := callMethod(txStub, sender, function, m, args)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	writes := txStub.Commit()
	span.SetAttributes(attribute.Int("writes", len(writes)))

	if err = batchStub.Commit(); err != nil {
		return nil, fmt.Errorf("committing state: %w", err)
	}
	return payload, nil
}

func callMethod(stub shim.ChaincodeStubInterface, sender *types.Sender, function string, m method, args []string) ([]byte, error) {
	if len(args) != len(m.args) {
		return nil, fmt.Errorf("method '%s' expects %d args %v, got %d", function, len(m.args), m.args, len(args))
	}

	result, err := m.call(ledger.New(stub), sender, &argReader{names: m.args, args: args})
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshaling result of '%s': %w", function, err)
	}
	return payload, nil
}
