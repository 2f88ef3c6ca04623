package events

import (
	"math/big"
	"strconv"

	"timeflow/crypto"
)

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatAccount(account [20]byte) string {
	return crypto.AccountString(account)
}

func zeroAddress(addr [20]byte) bool {
	return addr == [20]byte{}
}

func formatUnix(ts int64) string {
	return strconv.FormatInt(ts, 10)
}
