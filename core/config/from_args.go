package config

import (
	"encoding/json"
	"fmt"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/dynamicpb"
)

// DefaultStxToTokenRate is the native rate used when Init does not set one.
const DefaultStxToTokenRate = 1

// IsJSON checks if the provided arguments represent a valid JSON configuration.
func IsJSON(args []string) bool {
	return len(args) == 1 && json.Valid([]byte(args[0]))
}

// FromInitArgs builds the deployment config. The deploying identity becomes
// the owner and, unless the args name another account, the treasury.
func FromInitArgs(owner types.Address, args []string) (*Config, error) {
	cfg := &Config{
		Owner:          owner,
		Treasury:       owner,
		StxToTokenRate: uint256.NewInt(DefaultStxToTokenRate),
	}

	switch {
	case len(args) == 0:
		return cfg, nil
	case !IsJSON(args):
		return nil, fmt.Errorf("init args must be empty or a single JSON object, got %d args", len(args))
	}

	initArgs := dynamicpb.NewMessage(initArgsDesc)
	if err := protojson.Unmarshal([]byte(args[0]), initArgs); err != nil {
		return nil, fmt.Errorf("unmarshalling init args: %w", err)
	}

	if v := getString(initArgs, fieldStxRate); v != "" {
		stxRate, err := types.ParseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("parsing stxToTokenRate: %w", err)
		}
		cfg.StxToTokenRate = stxRate
	}

	if v := getString(initArgs, fieldTreasury); v != "" {
		treasury, err := types.AddrFromBase58Check(v)
		if err != nil {
			return nil, fmt.Errorf("parsing treasury: %w", err)
		}
		cfg.Treasury = treasury
	}

	cfg.TracingCollectorEndpoint = getEndpoint(initArgs)

	return cfg, Validate(cfg)
}
