// Package core runs the storage payment ledger as a Hyperledger Fabric
// chaincode: it authenticates the caller, routes the invocation to a ledger
// operation and commits its writes only when the operation succeeds.
package core

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/anoideaopen/storagepay/core/config"
	"github.com/anoideaopen/storagepay/core/logger"
	"github.com/anoideaopen/storagepay/core/telemetry"
	"github.com/hyperledger/fabric-chaincode-go/shim"
)

const (
	// chaincodeExecModeEnv is the environment variable that specifies the execution mode of the chaincode.
	chaincodeExecModeEnv = "CHAINCODE_EXEC_MODE"
	// chaincodeExecModeServer is the value that, when set for the CHAINCODE_EXEC_MODE environment variable,
	// indicates that the chaincode is running in server mode.
	chaincodeExecModeServer = "server"
	// chaincodeCcIDEnv is the environment variable that holds the chaincode ID.
	chaincodeCcIDEnv = "CHAINCODE_ID"

	// chaincodeServerDefaultPort is the default port on which the chaincode server listens if no other port is specified.
	chaincodeServerDefaultPort = "9999"
	// chaincodeServerPortEnv is the environment variable that specifies the port on which the chaincode server listens.
	chaincodeServerPortEnv = "CHAINCODE_SERVER_PORT"

	// TLS material for chaincode-as-a-service, given either inline or as file paths.
	tlsKeyFileEnv           = "CHAINCODE_TLS_KEY_FILE"
	tlsCertFileEnv          = "CHAINCODE_TLS_CERT_FILE"
	tlsClientCACertsFileEnv = "CHAINCODE_TLS_CLIENT_CA_CERTS_FILE"
	tlsKeyEnv               = "CHAINCODE_TLS_KEY"
	tlsCertEnv              = "CHAINCODE_TLS_CERT"
	tlsClientCACertsEnv     = "CHAINCODE_TLS_CLIENT_CA_CERTS"
)

// ServiceName names the chaincode in exported traces.
const ServiceName = "storagepay"

// Chaincode is the shim.Chaincode of the storage payment ledger.
type Chaincode struct {
	tracingMu sync.Mutex
	tracing   *telemetry.TracingHandler
}

// NewCC creates the chaincode. Tracing is set up lazily from the contract
// config on the first Init or Invoke.
func NewCC() *Chaincode {
	return &Chaincode{}
}

// TracingHandler returns the handler bound to the installed trace provider.
func (cc *Chaincode) TracingHandler(stub shim.ChaincodeStubInterface) *telemetry.TracingHandler {
	cc.tracingMu.Lock()
	defer cc.tracingMu.Unlock()

	if cc.tracing != nil {
		return cc.tracing
	}

	var endpoint string
	if cfg, err := config.Load(stub); err == nil && cfg.TracingCollectorEndpoint != nil {
		endpoint = cfg.TracingCollectorEndpoint.Endpoint
	}
	cc.installTracing(endpoint)

	return cc.tracing
}

func (cc *Chaincode) installTracing(endpoint string) {
	if err := telemetry.InstallTraceProvider(endpoint, ServiceName); err != nil {
		logger.Logger().WithError(err).Error("installing trace provider, tracing is disabled")
	}
	cc.tracing = telemetry.NewTracingHandler()
}

// ValidateTxID checks the transaction id is hex encoded.
func (cc *Chaincode) ValidateTxID(stub shim.ChaincodeStubInterface) error {
	_, err := hex.DecodeString(stub.GetTxID())
	if err != nil {
		return fmt.Errorf("incorrect tx id: %w", err)
	}

	return nil
}

// Start begins the chaincode execution based on the environment configuration. It decides whether to
// start the chaincode in the default mode or as a server based on the CHAINCODE_EXEC_MODE environment
// variable. In server mode, it requires the CHAINCODE_ID to be set and uses CHAINCODE_SERVER_PORT for
// the port or defaults to a predefined port if not set.
func (cc *Chaincode) Start() error {
	if os.Getenv(chaincodeExecModeEnv) != chaincodeExecModeServer {
		return shim.Start(cc)
	}

	srv, err := cc.server()
	if err != nil {
		return err
	}
	return srv.Start()
}

func (cc *Chaincode) server() (*shim.ChaincodeServer, error) {
	ccID := os.Getenv(chaincodeCcIDEnv)
	if ccID == "" {
		return nil, errors.New("need to specify chaincode id if running as server")
	}

	port := os.Getenv(chaincodeServerPortEnv)
	if port == "" {
		port = chaincodeServerDefaultPort
	}

	tlsProps, err := tlsProperties()
	if err != nil {
		return nil, fmt.Errorf("failed obtaining tls properties for chaincode server: %w", err)
	}

	return &shim.ChaincodeServer{
		CCID:     ccID,
		Address:  fmt.Sprintf("%s:%s", "0.0.0.0", port),
		CC:       cc,
		TLSProps: tlsProps,
	}, nil
}

func tlsProperties() (shim.TLSProperties, error) {
	tlsProps := shim.TLSProperties{
		Disabled: true,
	}

	key, err := readEnvOrFile(tlsKeyEnv, tlsKeyFileEnv)
	if err != nil {
		return tlsProps, fmt.Errorf("reading TLS key: %w", err)
	}
	cert, err := readEnvOrFile(tlsCertEnv, tlsCertFileEnv)
	if err != nil {
		return tlsProps, fmt.Errorf("reading TLS certificate: %w", err)
	}
	clientCACerts, err := readEnvOrFile(tlsClientCACertsEnv, tlsClientCACertsFileEnv)
	if err != nil {
		return tlsProps, fmt.Errorf("reading client CA certificates: %w", err)
	}

	if key != nil && cert != nil {
		tlsProps.Disabled = false
		tlsProps.Key = key
		tlsProps.Cert = cert
		tlsProps.ClientCACerts = clientCACerts
	}

	return tlsProps, nil
}

// readEnvOrFile prefers the inline value and falls back to the file it names.
func readEnvOrFile(valueEnv, fileEnv string) ([]byte, error) {
	if v := os.Getenv(valueEnv); v != "" {
		return []byte(v), nil
	}
	if path := os.Getenv(fileEnv); path != "" {
		return os.ReadFile(path)
	}
	return nil, nil
}
