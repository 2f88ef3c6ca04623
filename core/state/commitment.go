package state

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"timeflow/storage/trie"
)

var (
	rootParamsKey      = []byte("params")
	rootPoolKey        = []byte("pool")
	rootTotalStakedKey = []byte("total_staked")
	rootStreamPrefix   = []byte("stream:")
	rootStakePrefix    = []byte("stake:")
	rootBalancePrefix  = []byte("balance:")
)

type streamLeaf struct {
	Sender          [20]byte
	Recipient       [20]byte
	TotalAmount     *big.Int
	FlowRate        *big.Int
	StartTime       uint64
	StopTime        uint64
	AmountWithdrawn *big.Int
	Active          bool
}

type stakeLeaf struct {
	Amount        *big.Int
	StartTime     uint64
	LastClaimTime uint64
	Active        bool
}

type poolLeaf struct {
	Collected *big.Int
	Available *big.Int
}

// Root commits to the full ledger contents. Two managers holding the same
// parameters, streams, positions, pool and balances share a root.
func (m *Manager) Root() (common.Hash, error) {
	c := trie.NewCommitment()
	put := func(key []byte, value interface{}) error {
		encoded, err := rlp.EncodeToBytes(value)
		if err != nil {
			return fmt.Errorf("state: encode %q: %w", key, err)
		}
		return c.Put(key, encoded)
	}

	if err := put(rootParamsKey, &m.params); err != nil {
		return common.Hash{}, err
	}
	if err := put(rootPoolKey, &poolLeaf{Collected: m.pool.Collected, Available: m.pool.Available}); err != nil {
		return common.Hash{}, err
	}
	if err := put(rootTotalStakedKey, m.totalStaked); err != nil {
		return common.Hash{}, err
	}
	for _, s := range m.streams {
		key := make([]byte, len(rootStreamPrefix)+8)
		copy(key, rootStreamPrefix)
		binary.BigEndian.PutUint64(key[len(rootStreamPrefix):], s.ID)
		leaf := &streamLeaf{
			Sender:          s.Sender,
			Recipient:       s.Recipient,
			TotalAmount:     s.TotalAmount,
			FlowRate:        s.FlowRate,
			StartTime:       uint64(s.StartTime),
			StopTime:        uint64(s.StopTime),
			AmountWithdrawn: s.AmountWithdrawn,
			Active:          s.Active,
		}
		if err := put(key, leaf); err != nil {
			return common.Hash{}, err
		}
	}
	for account, position := range m.stakes {
		leaf := &stakeLeaf{
			Amount:        position.Amount,
			StartTime:     uint64(position.StartTime),
			LastClaimTime: uint64(position.LastClaimTime),
			Active:        position.Active,
		}
		if err := put(append(append([]byte(nil), rootStakePrefix...), account[:]...), leaf); err != nil {
			return common.Hash{}, err
		}
	}
	for account, bal := range m.balances {
		if err := put(append(append([]byte(nil), rootBalancePrefix...), account[:]...), bal.ToBig()); err != nil {
			return common.Hash{}, err
		}
	}
	return c.Root()
}
