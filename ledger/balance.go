package ledger

import (
	"bytes"
	"fmt"

	"github.com/renproject/powchain/block"
	"github.com/renproject/powchain/tx"
)

// BalanceOf returns the net value received by the address across every
// transaction in the chain: value received minus value sent. A transfer from
// an address to itself has no net effect. Balances are never checked on
// submission, so the result can be negative.
func (ledger *Ledger) BalanceOf(address string) (int64, error) {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	addr := []byte(address)
	total := int64(0)
	err := forEachTx(ledger.chain, func(transaction tx.Transaction) {
		if bytes.Equal(transaction.RecipientAddress, addr) {
			total += int64(transaction.Value)
		}
		if bytes.Equal(transaction.SenderAddress, addr) {
			total -= int64(transaction.Value)
		}
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Balances returns the balance of every address that appears in the chain,
// keyed by the address bytes.
func (ledger *Ledger) Balances() (map[string]int64, error) {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	balances := map[string]int64{}
	err := forEachTx(ledger.chain, func(transaction tx.Transaction) {
		balances[string(transaction.RecipientAddress)] += int64(transaction.Value)
		balances[string(transaction.SenderAddress)] -= int64(transaction.Value)
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

func forEachTx(blocks []*block.Block, f func(tx.Transaction)) error {
	for i, b := range blocks {
		for j, encoded := range b.Txs() {
			transaction, err := tx.Decode(encoded)
			if err != nil {
				return fmt.Errorf("block=%v, tx=%v: %w", i, j, err)
			}
			f(transaction)
		}
	}
	return nil
}
