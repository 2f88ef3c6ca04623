// Package trie derives Merkle Patricia roots over ledger snapshots so two
// ledgers can be compared by a single hash.
package trie

import (
	"bytes"
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	gethtrie "github.com/ethereum/go-ethereum/trie"
)

// ErrEmptyValue is returned when a leaf would be inserted without a value.
var ErrEmptyValue = errors.New("trie: empty leaf value")

// Commitment collects key/value leaves and hashes them into a root. Keys are
// keccak256-hashed before insertion, matching go-ethereum's secure trie.
//
// Commitment is not safe for concurrent use.
type Commitment struct {
	leaves map[common.Hash][]byte
}

// NewCommitment returns an empty commitment.
func NewCommitment() *Commitment {
	return &Commitment{leaves: make(map[common.Hash][]byte)}
}

// Put inserts or replaces the leaf stored under key.
func (c *Commitment) Put(key, value []byte) error {
	if len(value) == 0 {
		return ErrEmptyValue
	}
	c.leaves[crypto.Keccak256Hash(key)] = append([]byte(nil), value...)
	return nil
}

// Len reports the number of leaves.
func (c *Commitment) Len() int { return len(c.leaves) }

// Root returns the trie root over every leaf. The empty commitment hashes to
// the canonical empty root.
func (c *Commitment) Root() (common.Hash, error) {
	keys := make([]common.Hash, 0, len(c.leaves))
	for key := range c.leaves {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	st := gethtrie.NewStackTrie(nil)
	for _, key := range keys {
		if err := st.Update(key[:], c.leaves[key]); err != nil {
			return common.Hash{}, err
		}
	}
	return st.Hash(), nil
}
