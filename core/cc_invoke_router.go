package core

import (
	"github.com/anoideaopen/storagepay/core/types"
	"github.com/anoideaopen/storagepay/ledger"
	"github.com/anoideaopen/storagepay/version"
	"github.com/holiman/uint256"
)

// BatchExecute runs several methods in one invocation.
const BatchExecute = "batchExecute"

type handlerFunc func(l *ledger.Ledger, sender *types.Sender, a *argReader) (any, error)

// method is a chaincode entry point. Query methods run on a stub that
// refuses writes, tx methods on a write buffer committed on success.
type method struct {
	query bool
	args  []string
	call  handlerFunc
}

func tx(args []string, call handlerFunc) method {
	return method{args: args, call: call}
}

func query(args []string, call handlerFunc) method {
	return method{query: true, args: args, call: call}
}

func done(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return true, nil
}

func amountResult(v *uint256.Int, err error) (any, error) {
	if err != nil || v == nil {
		return nil, err
	}
	return types.FormatAmount(v), nil
}

var methods = map[string]method{
	// Instrument Registry
	"registerToken": tx([]string{"tokenId", "rate", "name", "symbol"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		id, r, name, symbol := a.id(0), a.amount(1), a.str(2), a.str(3)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.RegisterToken(s, id, r, name, symbol))
	}),
	"deactivateToken": tx([]string{"tokenId"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		id := a.id(0)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.DeactivateToken(s, id))
	}),
	"updateTokenRate": tx([]string{"tokenId", "newRate"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		id, r := a.id(0), a.amount(1)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.UpdateTokenRate(s, id, r))
	}),
	"isTokenRegistered": query([]string{"tokenId"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		return l.IsTokenRegistered(a.str(0))
	}),
	"getTokenInfo": query([]string{"tokenId"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		return l.TokenInfo(a.str(0))
	}),
	"getTokenRate": query([]string{"tokenId"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		return amountResult(l.TokenRate(a.str(0)))
	}),
	"listTokens": query(nil, func(l *ledger.Ledger, _ *types.Sender, _ *argReader) (any, error) {
		return l.ListTokens()
	}),
	"getContractOwner": query(nil, func(l *ledger.Ledger, _ *types.Sender, _ *argReader) (any, error) {
		return l.ContractOwner()
	}),
	"getTreasuryWallet": query(nil, func(l *ledger.Ledger, _ *types.Sender, _ *argReader) (any, error) {
		return l.TreasuryWallet()
	}),
	"getStxRate": query(nil, func(l *ledger.Ledger, _ *types.Sender, _ *argReader) (any, error) {
		return amountResult(l.StxRate())
	}),

	// Payment Ledger
	"payForStorageWithToken": tx([]string{"tokenId", "amount", "storageSize"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		id, amount, size := a.id(0), a.amount(1), a.amount(2)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.PayForStorageWithToken(s, id, amount, size))
	}),
	"payForStorageWithStx": tx([]string{"storageSize"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		size := a.amount(0)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.PayForStorageWithStx(s, size))
	}),
	"convertStxToTokens": tx([]string{"stxAmount", "targetTokenId"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		amount, id := a.amount(0), a.id(1)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.ConvertStxToTokens(s, amount, id))
	}),
	"getStoragePayment": query([]string{"payer", "tokenId"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		payer, id := a.address(0), a.str(1)
		if a.err != nil {
			return nil, a.err
		}
		return l.StoragePayment(payer, id)
	}),
	"calculateStorageCost": query([]string{"tokenId", "storageSize"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		id, size := a.str(0), a.amount(1)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.CalculateStorageCost(id, size))
	}),
	"calculateStxStorageCost": query([]string{"storageSize"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		size := a.amount(0)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.CalculateStxStorageCost(size))
	}),

	// Reward Ledger
	"distributeTokenRewards": tx([]string{"node", "tokenId", "amount"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		node, id, amount := a.address(0), a.id(1), a.amount(2)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.DistributeTokenRewards(s, node, id, amount))
	}),
	"claimNodeRewards": tx([]string{"tokenId"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		id := a.id(0)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.ClaimNodeRewards(s, id))
	}),
	"getNodeRewards": query([]string{"node", "tokenId"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		node, id := a.address(0), a.str(1)
		if a.err != nil {
			return nil, a.err
		}
		return l.NodeRewards(node, id)
	}),
	"getPendingRewards": query([]string{"node", "tokenId"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		node, id := a.address(0), a.str(1)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.PendingRewards(node, id))
	}),

	// Administration
	"addAuthorizedOperator": tx([]string{"operator"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		operator := a.address(0)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.AddAuthorizedOperator(s, operator))
	}),
	"removeAuthorizedOperator": tx([]string{"operator"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		operator := a.address(0)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.RemoveAuthorizedOperator(s, operator))
	}),
	"isAuthorizedOperator": query([]string{"operator"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		operator := a.address(0)
		if a.err != nil {
			return nil, a.err
		}
		return l.IsAuthorizedOperator(operator)
	}),
	"updateStxRate": tx([]string{"newRate"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		r := a.amount(0)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.UpdateStxRate(s, r))
	}),
	"updateTreasuryWallet": tx([]string{"treasury"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		treasury := a.address(0)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.UpdateTreasuryWallet(s, treasury))
	}),
	"transferOwnership": tx([]string{"newOwner"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		newOwner := a.address(0)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.TransferOwnership(s, newOwner))
	}),
	"emergencyWithdrawStx": tx([]string{"amount"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		amount := a.amount(0)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.EmergencyWithdrawStx(s, amount))
	}),
	"issueStx": tx([]string{"to", "amount"}, func(l *ledger.Ledger, s *types.Sender, a *argReader) (any, error) {
		to, amount := a.address(0), a.amount(1)
		if a.err != nil {
			return nil, a.err
		}
		return done(l.IssueStx(s, to, amount))
	}),
	"getStxBalance": query([]string{"account"}, func(l *ledger.Ledger, _ *types.Sender, a *argReader) (any, error) {
		account := a.address(0)
		if a.err != nil {
			return nil, a.err
		}
		return amountResult(l.StxBalance(account))
	}),
	"getCustodyAddress": query(nil, func(_ *ledger.Ledger, _ *types.Sender, _ *argReader) (any, error) {
		return ledger.CustodyAddress(), nil
	}),

	// Service
	"getVersion": query(nil, func(_ *ledger.Ledger, _ *types.Sender, _ *argReader) (any, error) {
		return version.Current(), nil
	}),
}
