package ledger

import (
	"errors"
	"fmt"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/anoideaopen/storagepay/rate"
	"github.com/holiman/uint256"
)

// DistributeTokenRewards credits amount of an active instrument to node. The
// pending balance and the lifetime total grow together and the record's
// LastClaim is moved to the current height.
func (l *Ledger) DistributeTokenRewards(sender *types.Sender, node types.Address, id string, amount *uint256.Int) (*uint256.Int, error) {
	authorized, err := l.isAuthorized(sender.Address())
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, ErrUnauthorized
	}

	if _, err = l.activeInstrument(id); err != nil {
		return nil, err
	}
	if !isPositive(amount) {
		return nil, ErrInvalidAmount
	}

	pending, err := l.PendingRewards(node, id)
	if err != nil {
		return nil, err
	}
	pending, err = addAmount(orZero(pending), amount)
	if err != nil {
		return nil, err
	}

	record, err := l.NodeRewards(node, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &NodeRewardRecord{TotalEarned: new(uint256.Int)}
	}
	if record.TotalEarned, err = addAmount(record.TotalEarned, amount); err != nil {
		return nil, err
	}
	if record.LastClaim, err = l.now(); err != nil {
		return nil, err
	}

	if err = l.putPending(node, id, pending); err != nil {
		return nil, err
	}
	if err = l.putReward(node, id, record); err != nil {
		return nil, err
	}

	credited := new(uint256.Int).Set(amount)
	if err = l.emit(EventRewardsDistributed, RewardEvent{Node: node, TokenID: id, Amount: types.FormatAmount(credited)}); err != nil {
		return nil, err
	}
	return credited, nil
}

// ClaimNodeRewards clears the pending balance of the caller and returns it.
// No funds are moved.
func (l *Ledger) ClaimNodeRewards(sender *types.Sender, id string) (*uint256.Int, error) {
	if _, err := l.activeInstrument(id); err != nil {
		return nil, err
	}

	node := sender.Address()
	pending, err := l.PendingRewards(node, id)
	if err != nil {
		return nil, err
	}
	if !isPositive(pending) {
		return nil, ErrInsufficientBalance
	}

	key, err := pendingKey(node, id)
	if err != nil {
		return nil, err
	}
	if err = l.stub.DelState(key); err != nil {
		return nil, fmt.Errorf("deleting pending rewards: %w", err)
	}

	if err = l.emit(EventRewardsClaimed, RewardEvent{Node: node, TokenID: id, Amount: types.FormatAmount(pending)}); err != nil {
		return nil, err
	}
	return pending, nil
}

// NodeRewards returns the lifetime reward record or nil when nothing was
// ever credited.
func (l *Ledger) NodeRewards(node types.Address, id string) (*NodeRewardRecord, error) {
	key, err := rewardKey(node, id)
	if err != nil {
		return nil, nil //nolint:nilerr
	}

	raw, err := l.stub.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("reading node rewards: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	return unmarshalReward(raw)
}

// PendingRewards returns the unclaimed amount or nil when there is none.
func (l *Ledger) PendingRewards(node types.Address, id string) (*uint256.Int, error) {
	key, err := pendingKey(node, id)
	if err != nil {
		return nil, nil //nolint:nilerr
	}

	pending, err := l.getAmount(key)
	if err != nil {
		return nil, fmt.Errorf("reading pending rewards: %w", err)
	}
	return pending, nil
}

func (l *Ledger) putPending(node types.Address, id string, amount *uint256.Int) error {
	key, err := pendingKey(node, id)
	if err != nil {
		return err
	}
	if err = l.stub.PutState(key, encodeAmount(amount)); err != nil {
		return fmt.Errorf("writing pending rewards: %w", err)
	}
	return nil
}

func (l *Ledger) putReward(node types.Address, id string, record *NodeRewardRecord) error {
	key, err := rewardKey(node, id)
	if err != nil {
		return err
	}
	if err = l.stub.PutState(key, marshalReward(record)); err != nil {
		return fmt.Errorf("writing node rewards: %w", err)
	}
	return nil
}

func addAmount(a, b *uint256.Int) (*uint256.Int, error) {
	sum, err := rate.Add(a, b)
	if errors.Is(err, rate.ErrOverflow) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	return sum, err
}
