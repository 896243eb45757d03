package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatAddress(addr common.Address) string {
	return addr.Hex()
}

func formatHash(hash common.Hash) string {
	return hash.Hex()
}
