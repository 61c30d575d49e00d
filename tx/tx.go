package tx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/renproject/surge"
)

// MaxBytes is the memory quota used when encoding and decoding a Transaction.
// Encoded Transactions that would need more than this are rejected.
const MaxBytes = 1024 * 1024

// ErrTrailingBytes is returned (wrapped in a DecodeError) when there are bytes
// left over after a Transaction has been decoded.
var ErrTrailingBytes = errors.New("trailing bytes")

// A Transaction transfers Value from the SenderAddress to the
// RecipientAddress. Addresses are opaque byte identifiers; two equal byte
// sequences always refer to the same principal.
type Transaction struct {
	SenderAddress    []byte
	RecipientAddress []byte
	Value            uint64
}

// Transactions defines a wrapper type around the []Transaction type.
type Transactions []Transaction

// New returns a Transaction. The addresses are copied.
func New(sender, recipient []byte, value uint64) Transaction {
	return Transaction{
		SenderAddress:    append([]byte{}, sender...),
		RecipientAddress: append([]byte{}, recipient...),
		Value:            value,
	}
}

// Equal compares one Transaction with another. A nil address is equal to an
// empty address.
func (tx Transaction) Equal(other Transaction) bool {
	return bytes.Equal(tx.SenderAddress, other.SenderAddress) &&
		bytes.Equal(tx.RecipientAddress, other.RecipientAddress) &&
		tx.Value == other.Value
}

// String implements the `fmt.Stringer` interface for the Transaction type.
func (tx Transaction) String() string {
	return fmt.Sprintf(
		"%s\nsender address: %v\nrecipient address: %v\nvalue: %d\n%s\n",
		strings.Repeat("-", 40),
		tx.SenderAddress,
		tx.RecipientAddress,
		tx.Value,
		strings.Repeat("-", 40),
	)
}

// SizeHint implements surge SizeHinter for Transaction
func (tx Transaction) SizeHint() int {
	return surge.SizeHint(tx.SenderAddress) +
		surge.SizeHint(tx.RecipientAddress) +
		surge.SizeHint(tx.Value)
}

// Marshal implements surge Marshaler for Transaction
func (tx Transaction) Marshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := surge.Marshal(tx.SenderAddress, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling SenderAddress: %w", err)
	}
	buf, rem, err = surge.Marshal(tx.RecipientAddress, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling RecipientAddress: %w", err)
	}
	buf, rem, err = surge.Marshal(tx.Value, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling Value=%v: %w", tx.Value, err)
	}
	return buf, rem, nil
}

// Unmarshal implements surge Unmarshaler for Transaction
func (tx *Transaction) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := surge.Unmarshal(&tx.SenderAddress, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling SenderAddress: %w", err)
	}
	buf, rem, err = surge.Unmarshal(&tx.RecipientAddress, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling RecipientAddress: %w", err)
	}
	buf, rem, err = surge.Unmarshal(&tx.Value, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling Value: %w", err)
	}
	return buf, rem, nil
}

// Encode a Transaction into its binary representation. The encoding is
// deterministic: the sender and recipient addresses are length-prefixed, in
// that order, followed by the big-endian value.
func Encode(tx Transaction) ([]byte, error) {
	data := make([]byte, tx.SizeHint())
	if _, _, err := tx.Marshal(data, MaxBytes); err != nil {
		return nil, fmt.Errorf("encoding transaction: %w", err)
	}
	return data, nil
}

// Decode a Transaction from its binary representation. It is the exact
// inverse of Encode, and every failure is returned as a *DecodeError.
func Decode(data []byte) (Transaction, error) {
	tx := Transaction{}
	rest, _, err := tx.Unmarshal(data, MaxBytes)
	if err != nil {
		return Transaction{}, &DecodeError{Len: len(data), Err: err}
	}
	if len(rest) != 0 {
		return Transaction{}, &DecodeError{Len: len(data), Err: fmt.Errorf("%w: %d bytes", ErrTrailingBytes, len(rest))}
	}
	return tx, nil
}

// A DecodeError is returned when bytes cannot be decoded into a Transaction.
type DecodeError struct {
	// Len of the malformed input.
	Len int
	Err error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("decoding transaction from %d bytes: %v", err.Len, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}
