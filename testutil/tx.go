package testutil

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing/quick"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/renproject/powchain/tx"
)

// RandomBytesSlice returns a random bytes slice.
func RandomBytesSlice(r *rand.Rand) []byte {
	t := reflect.TypeOf([]byte{})
	value, ok := quick.Value(t, r)
	if !ok {
		panic(fmt.Sprintf("cannot generate random value of type %v", t.Name()))
	}
	return value.Interface().([]byte)
}

// RandomAddress returns the address of a freshly generated secp256k1 key, the
// way a wallet would derive it from the public key.
func RandomAddress() []byte {
	privKey, err := crypto.GenerateKey()
	if err != nil {
		panic(fmt.Sprintf("cannot generate private key: %v", err))
	}
	return crypto.PubkeyToAddress(privKey.PublicKey).Bytes()
}

// RandomTransaction returns a Transaction between two random addresses with a
// random value.
func RandomTransaction(r *rand.Rand) tx.Transaction {
	return tx.New(RandomAddress(), RandomAddress(), uint64(r.Int63()))
}

// RandomTransactions returns n random Transactions.
func RandomTransactions(r *rand.Rand, n int) tx.Transactions {
	txs := make(tx.Transactions, n)
	for i := range txs {
		txs[i] = RandomTransaction(r)
	}
	return txs
}

// RandomEncodedTransaction returns the encoding of a random Transaction.
func RandomEncodedTransaction(r *rand.Rand) []byte {
	return MustEncode(RandomTransaction(r))
}

// MustEncode encodes a Transaction and panics if that fails.
func MustEncode(transaction tx.Transaction) []byte {
	encoded, err := tx.Encode(transaction)
	if err != nil {
		panic(fmt.Sprintf("cannot encode transaction: %v", err))
	}
	return encoded
}
