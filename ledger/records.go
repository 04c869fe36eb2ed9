package ledger

import (
	"encoding/json"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/holiman/uint256"
)

// Instrument is a registered external payment unit.
type Instrument struct {
	ID           string
	Active       bool
	ExchangeRate *uint256.Int
	Name         string
	Symbol       string
}

func (i *Instrument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           string `json:"id"`
		Active       bool   `json:"active"`
		ExchangeRate string `json:"exchangeRate"`
		Name         string `json:"name"`
		Symbol       string `json:"symbol"`
	}{
		ID:           i.ID,
		Active:       i.Active,
		ExchangeRate: types.FormatAmount(i.ExchangeRate),
		Name:         i.Name,
		Symbol:       i.Symbol,
	})
}

// StoragePayment is the latest payment of a payer in one instrument.
type StoragePayment struct {
	Amount     *uint256.Int
	RecordedAt uint64
}

func (p *StoragePayment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount     string `json:"amount"`
		RecordedAt uint64 `json:"recordedAt"`
	}{
		Amount:     types.FormatAmount(p.Amount),
		RecordedAt: p.RecordedAt,
	})
}

// NodeRewardRecord accumulates everything ever credited to a node in one
// instrument. LastClaim is the height of the latest credit.
type NodeRewardRecord struct {
	TotalEarned *uint256.Int
	LastClaim   uint64
}

func (r *NodeRewardRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalEarned string `json:"totalEarned"`
		LastClaim   uint64 `json:"lastClaim"`
	}{
		TotalEarned: types.FormatAmount(r.TotalEarned),
		LastClaim:   r.LastClaim,
	})
}
