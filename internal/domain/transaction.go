package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionRequest is a transaction for the node to sign with one of its
// accounts. A nil To creates a contract; a zero Gas lets the node estimate.
type TransactionRequest struct {
	From  common.Address
	To    *common.Address
	Value *big.Int
	Data  []byte
	Gas   uint64
}
