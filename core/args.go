package core

import (
	"errors"
	"fmt"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
)

// argReader parses positional string arguments, keeping the first error.
type argReader struct {
	names []string
	args  []string
	err   error
}

func (r *argReader) fail(i int, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid argument '%s': %w", r.names[i], err)
	}
}

func (r *argReader) str(i int) string {
	return r.args[i]
}

func (r *argReader) id(i int) string {
	if r.args[i] == "" {
		r.fail(i, errors.New("must not be empty"))
	}
	return r.args[i]
}

func (r *argReader) amount(i int) *uint256.Int {
	v, err := types.ParseAmount(r.args[i])
	if err != nil {
		r.fail(i, err)
		return nil
	}
	return v
}

func (r *argReader) address(i int) types.Address {
	addr, err := types.AddrFromBase58Check(r.args[i])
	if err != nil {
		r.fail(i, err)
	}
	return addr
}
