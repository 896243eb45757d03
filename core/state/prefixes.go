package state

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	balancePrefix        = []byte("ledger/balance/")
	referralPrefix       = []byte("ledger/referral/")
	orderFillPrefix      = []byte("exchange/fill/")
	orderCancelPrefix    = []byte("exchange/cancel/")
	crowdsalePrefix      = []byte("crowdsale/record/")
	contributionPrefix   = []byte("crowdsale/contribution/")
	ownerKeyBytes        = []byte("gov/owner")
	feeRatesKeyBytes     = []byte("gov/fees")
	methodPrefix         = []byte("gov/method/")
	tokenBalancePrefix   = []byte("token/balance/")
	tokenAllowancePrefix = []byte("token/allowance/")
	heightKeyBytes       = []byte("chain/height")
	bootstrappedKeyBytes = []byte("chain/bootstrapped")
)

func hashedKey(prefix []byte, parts ...[]byte) []byte {
	buf := make([]byte, 0, len(prefix)+len(parts)*common.AddressLength)
	buf = append(buf, prefix...)
	for _, part := range parts {
		buf = append(buf, part...)
	}
	return crypto.Keccak256(buf)
}

func balanceKey(user, asset common.Address) []byte {
	return hashedKey(balancePrefix, user.Bytes(), asset.Bytes())
}

func referralKey(user common.Address) []byte {
	return hashedKey(referralPrefix, user.Bytes())
}

func orderFillKey(hash common.Hash) []byte {
	return hashedKey(orderFillPrefix, hash.Bytes())
}

func orderCancelKey(hash common.Hash) []byte {
	return hashedKey(orderCancelPrefix, hash.Bytes())
}

func crowdsaleKey(asset common.Address) []byte {
	return hashedKey(crowdsalePrefix, asset.Bytes())
}

func contributionKey(asset common.Address, campaign uint64, user common.Address) []byte {
	return hashedKey(contributionPrefix, asset.Bytes(), encodeUint64(campaign), user.Bytes())
}

func methodKey(selector [4]byte) []byte {
	return hashedKey(methodPrefix, selector[:])
}

func tokenBalanceKey(asset, holder common.Address) []byte {
	return hashedKey(tokenBalancePrefix, asset.Bytes(), holder.Bytes())
}

func tokenAllowanceKey(asset, owner, spender common.Address) []byte {
	return hashedKey(tokenAllowancePrefix, asset.Bytes(), owner.Bytes(), spender.Bytes())
}

func heightKey() []byte { return hashedKey(heightKeyBytes) }

func bootstrappedKey() []byte { return hashedKey(bootstrappedKeyBytes) }

func ownerKey() []byte { return hashedKey(ownerKeyBytes) }

func feeRatesKey() []byte { return hashedKey(feeRatesKeyBytes) }

func encodeUint64(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[:]
}
