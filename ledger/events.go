package ledger

import "github.com/anoideaopen/storagepay/core/types"

// chaincode event names
const (
	EventTokenRegistered      = "TokenRegistered"
	EventTokenDeactivated     = "TokenDeactivated"
	EventTokenRateUpdated     = "TokenRateUpdated"
	EventStoragePaid          = "StoragePaid"
	EventStxConverted         = "StxConverted"
	EventRewardsDistributed   = "RewardsDistributed"
	EventRewardsClaimed       = "RewardsClaimed"
	EventOperatorAdded        = "OperatorAdded"
	EventOperatorRemoved      = "OperatorRemoved"
	EventStxRateUpdated       = "StxRateUpdated"
	EventTreasuryUpdated      = "TreasuryUpdated"
	EventOwnershipTransferred = "OwnershipTransferred"
	EventEmergencyWithdrawal  = "EmergencyWithdrawal"
	EventStxIssued            = "StxIssued"
)

type TokenEvent struct {
	TokenID string `json:"tokenId"`
	Rate    string `json:"rate,omitempty"`
}

type PaymentEvent struct {
	Payer       types.Address `json:"payer"`
	TokenID     string        `json:"tokenId"`
	Amount      string        `json:"amount"`
	StorageSize string        `json:"storageSize,omitempty"`
	RecordedAt  uint64        `json:"recordedAt"`
}

type RewardEvent struct {
	Node    types.Address `json:"node"`
	TokenID string        `json:"tokenId"`
	Amount  string        `json:"amount"`
}

type AccountEvent struct {
	Account types.Address `json:"account"`
	Amount  string        `json:"amount,omitempty"`
}
