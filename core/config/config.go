package config

import (
	"errors"
	"fmt"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// keyConfig is a key for storing a configuration data in json format.
const keyConfig = "__config"

var ErrCfgBytesEmpty = errors.New("config bytes is empty")

// validation errors
var (
	ErrOwnerEmpty    = errors.New("'owner' address is empty")
	ErrTreasuryEmpty = errors.New("'treasury' address is empty")
	ErrStxRateZero   = errors.New("'stxToTokenRate' must be greater than zero")
)

// CollectorEndpoint is the OTLP/HTTP endpoint traces are exported to.
type CollectorEndpoint struct {
	Endpoint string
}

// Config is the contract-wide configuration. It is created at deployment and
// afterwards changed only by the owner-gated setters of the ledger.
type Config struct {
	Owner          types.Address
	Treasury       types.Address
	StxToTokenRate *uint256.Int

	TracingCollectorEndpoint *CollectorEndpoint
}

// Validate checks the invariants of the contract config.
func Validate(cfg *Config) error {
	if cfg.Owner.IsEmpty() {
		return ErrOwnerEmpty
	}
	if cfg.Treasury.IsEmpty() {
		return ErrTreasuryEmpty
	}
	if cfg.StxToTokenRate == nil || cfg.StxToTokenRate.IsZero() {
		return ErrStxRateZero
	}
	return nil
}

// Save validates the config and puts it to the state.
func Save(stub shim.ChaincodeStubInterface, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	cfgBytes, err := marshalConfig(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err = stub.PutState(keyConfig, cfgBytes); err != nil {
		return fmt.Errorf("putting config data to state: %w", err)
	}

	return nil
}

// Load retrieves the config from the state.
//
// If the config was never saved, ErrCfgBytesEmpty is returned.
func Load(stub shim.ChaincodeStubInterface) (*Config, error) {
	cfgBytes, err := stub.GetState(keyConfig)
	if err != nil {
		return nil, fmt.Errorf("loading raw config: %w", err)
	}

	if len(cfgBytes) == 0 {
		return nil, ErrCfgBytesEmpty
	}

	return FromBytes(cfgBytes)
}

// Exists reports whether a config has already been saved.
func Exists(stub shim.ChaincodeStubInterface) (bool, error) {
	cfgBytes, err := stub.GetState(keyConfig)
	if err != nil {
		return false, fmt.Errorf("loading raw config: %w", err)
	}
	return len(cfgBytes) != 0, nil
}

// FromBytes parses a protojson-encoded config.
func FromBytes(cfgBytes []byte) (*Config, error) {
	cfg, err := unmarshalConfig(cfgBytes)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}
