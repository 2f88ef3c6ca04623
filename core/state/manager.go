// Package state holds the authoritative vault ledger: streams, stake
// positions, the fee pool, vault parameters and account balances.
package state

import (
	"math/big"

	"github.com/holiman/uint256"

	"timeflow/native/bank"
	"timeflow/native/fees"
	"timeflow/native/stake"
	"timeflow/native/stream"
)

// Manager owns one independent ledger instance. It is not safe for concurrent
// use; the vault coordinator serialises access and stages mutations on a Copy.
type Manager struct {
	params      Params
	vault       [20]byte
	streams     []*stream.Stream
	bySender    map[[20]byte][]uint64
	byRecipient map[[20]byte][]uint64
	stakes      map[[20]byte]*stake.Position
	totalStaked *big.Int
	pool        *fees.Pool
	balances    map[[20]byte]*uint256.Int
}

// NewManager creates an empty ledger configured with params.
func NewManager(params Params) *Manager {
	return &Manager{
		params:      params,
		vault:       bank.VaultAccount(),
		bySender:    make(map[[20]byte][]uint64),
		byRecipient: make(map[[20]byte][]uint64),
		stakes:      make(map[[20]byte]*stake.Position),
		totalStaked: big.NewInt(0),
		pool:        fees.NewPool(),
		balances:    make(map[[20]byte]*uint256.Int),
	}
}

// Copy returns a deep copy of the ledger. Mutating the copy never affects the
// receiver.
func (m *Manager) Copy() *Manager {
	if m == nil {
		return nil
	}
	clone := &Manager{
		params:      m.params,
		vault:       m.vault,
		streams:     make([]*stream.Stream, len(m.streams)),
		bySender:    copyIndex(m.bySender),
		byRecipient: copyIndex(m.byRecipient),
		stakes:      make(map[[20]byte]*stake.Position, len(m.stakes)),
		totalStaked: new(big.Int).Set(m.totalStaked),
		pool:        m.pool.Clone(),
		balances:    make(map[[20]byte]*uint256.Int, len(m.balances)),
	}
	for i, s := range m.streams {
		clone.streams[i] = s.Clone()
	}
	for account, position := range m.stakes {
		clone.stakes[account] = position.Clone()
	}
	for account, bal := range m.balances {
		clone.balances[account] = new(uint256.Int).Set(bal)
	}
	return clone
}

func copyIndex(src map[[20]byte][]uint64) map[[20]byte][]uint64 {
	dst := make(map[[20]byte][]uint64, len(src))
	for k, v := range src {
		dst[k] = append([]uint64(nil), v...)
	}
	return dst
}

// VaultAccount returns the module account holding deposited funds.
func (m *Manager) VaultAccount() [20]byte { return m.vault }
