package ledger

import (
	"fmt"
	"io"
	"strings"

	"github.com/renproject/powchain/tx"
)

// Dump writes a human-readable description of every Block in the chain. The
// format is for diagnostics only and may change. Writing stops at the first
// error returned by the writer.
func (ledger *Ledger) Dump(w io.Writer) error {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	ew := &errWriter{w: w}
	for i, b := range ledger.chain {
		ew.printf("%s Block %d %s\n", strings.Repeat("=", 25), i, strings.Repeat("=", 25))
		ew.printf("timestamp: %x\n", uint64(b.Timestamp()))
		ew.printf("nonce: %d\n", b.Nonce())
		ew.printf("previous_hash: %v\n", b.PreviousHash())
		ew.printf("transactions: %v\n", b.Txs())
		for j, encoded := range b.Txs() {
			transaction, err := tx.Decode(encoded)
			if err != nil {
				return fmt.Errorf("block=%v, tx=%v: %w", i, j, err)
			}
			ew.printf("Transaction %d:\n", j)
			ew.printf("  From (bytes): %v  => '%s'\n", transaction.SenderAddress, strings.ToValidUTF8(string(transaction.SenderAddress), "\uFFFD"))
			ew.printf("  To (bytes): %v  => '%s'\n", transaction.RecipientAddress, strings.ToValidUTF8(string(transaction.RecipientAddress), "\uFFFD"))
			ew.printf("  Value: %d\n", transaction.Value)
		}
		ew.printf("%s\n", strings.Repeat("*", 59))
		if ew.err != nil {
			return fmt.Errorf("writing block=%v: %w", i, ew.err)
		}
	}
	return nil
}

// errWriter remembers the first error returned by the writer and skips every
// write after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
