// Package transaction models the ledger transaction wire format: the
// little-endian binary codec, transaction identity hashing and the digest
// construction that signatures commit to. Scripts are carried as opaque
// byte strings, never interpreted here.
package transaction

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// TxVersion is the version stamped onto freshly built transactions.
	TxVersion int32 = 1

	// MaxTxInSequenceNum is the sequence number of a finalized input.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// maxTxSize caps how much a decoder will accept for a single
	// transaction or script. It mirrors the historical block ceiling.
	maxTxSize = 1000000

	// outPointLen is the wire size of a previous output reference.
	outPointLen = chainhash.HashSize + 4

	// minTxInLen and minTxOutLen are the smallest possible encodings of
	// an input and an output, used to bound the element counts a hostile
	// stream can declare before anything is allocated for them.
	minTxInLen  = outPointLen + 1 + 4
	minTxOutLen = 8 + 1
)

var (
	// ErrNonCanonicalVarInt ...
	ErrNonCanonicalVarInt = errors.New(
		"variable length integer is not canonically encoded",
	)
	// ErrScriptTooLarge ...
	ErrScriptTooLarge = errors.New("script exceeds maximum allowed size")
	// ErrTooManyInputs ...
	ErrTooManyInputs = errors.New(
		"declared input count exceeds maximum allowed size",
	)
	// ErrTooManyOutputs ...
	ErrTooManyOutputs = errors.New(
		"declared output count exceeds maximum allowed size",
	)
)

// OutPoint references a single output of a previous transaction by the
// transaction hash and the output position.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns an outpoint for the given hash and output index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash.String(), o.Index)
}

// TxInput spends one previous output. The signature script is opaque.
type TxInput struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxInput returns an input spending the given outpoint with the
// default finalized sequence number.
func NewTxInput(prevOut *OutPoint, signatureScript []byte) *TxInput {
	return &TxInput{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

func (in *TxInput) serializeSize() int {
	return outPointLen + 4 +
		VarIntSerializeSize(uint64(len(in.SignatureScript))) +
		len(in.SignatureScript)
}

// TxOutput assigns a value to an opaque locking script.
type TxOutput struct {
	Value    int64
	PkScript []byte
}

// NewTxOutput returns an output paying the given amount to the script.
func NewTxOutput(value int64, pkScript []byte) *TxOutput {
	return &TxOutput{Value: value, PkScript: pkScript}
}

func (out *TxOutput) serializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(out.PkScript))) + len(out.PkScript)
}

// Transaction is the decoded form of a ledger transaction.
type Transaction struct {
	Version  int32
	Inputs   []*TxInput
	Outputs  []*TxOutput
	LockTime uint32
}

// NewTransaction returns an empty transaction at the current version.
func NewTransaction() *Transaction {
	return &Transaction{Version: TxVersion}
}

// AddInput appends an input to the transaction.
func (tx *Transaction) AddInput(in *TxInput) {
	tx.Inputs = append(tx.Inputs, in)
}

// AddOutput appends an output to the transaction.
func (tx *Transaction) AddOutput(out *TxOutput) {
	tx.Outputs = append(tx.Outputs, out)
}

// TxHash returns the double SHA256 of the wire encoding, the hash the
// transaction is referenced by.
func (tx *Transaction) TxHash() chainhash.Hash {
	return chainhash.DoubleHashH(tx.Bytes())
}

// Copy returns a deep copy that shares no mutable state with the
// original, so signing code can modify the copy freely.
func (tx *Transaction) Copy() *Transaction {
	txCopy := &Transaction{
		Version:  tx.Version,
		Inputs:   make([]*TxInput, 0, len(tx.Inputs)),
		Outputs:  make([]*TxOutput, 0, len(tx.Outputs)),
		LockTime: tx.LockTime,
	}
	for _, in := range tx.Inputs {
		txCopy.Inputs = append(txCopy.Inputs, &TxInput{
			PreviousOutPoint: in.PreviousOutPoint,
			SignatureScript:  copyScript(in.SignatureScript),
			Sequence:         in.Sequence,
		})
	}
	for _, out := range tx.Outputs {
		txCopy.Outputs = append(txCopy.Outputs, &TxOutput{
			Value:    out.Value,
			PkScript: copyScript(out.PkScript),
		})
	}
	return txCopy
}

// SerializeSize returns the number of bytes the wire encoding takes.
func (tx *Transaction) SerializeSize() int {
	n := 4 + 4 + VarIntSerializeSize(uint64(len(tx.Inputs))) +
		VarIntSerializeSize(uint64(len(tx.Outputs)))
	for _, in := range tx.Inputs {
		n += in.serializeSize()
	}
	for _, out := range tx.Outputs {
		n += out.serializeSize()
	}
	return n
}

// Serialize writes the wire encoding of the transaction to w.
func (tx *Transaction) Serialize(w io.Writer) error {
	var scratch [8]byte

	binary.LittleEndian.PutUint32(scratch[:4], uint32(tx.Version))
	if _, err := w.Write(scratch[:4]); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(tx.Inputs))); err != nil {
		return err
	}
	for _, in := range tx.Inputs {
		if _, err := w.Write(in.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(scratch[:4], in.PreviousOutPoint.Index)
		if _, err := w.Write(scratch[:4]); err != nil {
			return err
		}
		if err := writeVarBytes(w, in.SignatureScript); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(scratch[:4], in.Sequence)
		if _, err := w.Write(scratch[:4]); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(tx.Outputs))); err != nil {
		return err
	}
	for _, out := range tx.Outputs {
		binary.LittleEndian.PutUint64(scratch[:], uint64(out.Value))
		if _, err := w.Write(scratch[:]); err != nil {
			return err
		}
		if err := writeVarBytes(w, out.PkScript); err != nil {
			return err
		}
	}

	binary.LittleEndian.PutUint32(scratch[:4], tx.LockTime)
	_, err := w.Write(scratch[:4])
	return err
}

// Bytes returns the wire encoding of the transaction. Writes to a
// bytes.Buffer cannot fail, so the serialization error is ignored.
func (tx *Transaction) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, tx.SerializeSize()))
	_ = tx.Serialize(buf)
	return buf.Bytes()
}

// Deserialize reads a wire-encoded transaction from r, replacing the
// receiver's contents. Truncated streams surface io.ErrUnexpectedEOF and
// oversized declarations are rejected before allocation.
func (tx *Transaction) Deserialize(r io.Reader) error {
	var scratch [8]byte

	if _, err := io.ReadFull(r, scratch[:4]); err != nil {
		return err
	}
	tx.Version = int32(binary.LittleEndian.Uint32(scratch[:4]))

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxSize/minTxInLen {
		return ErrTooManyInputs
	}
	tx.Inputs = make([]*TxInput, 0, count)
	for i := uint64(0); i < count; i++ {
		in := &TxInput{}
		if _, err := io.ReadFull(r, in.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		if _, err := io.ReadFull(r, scratch[:4]); err != nil {
			return err
		}
		in.PreviousOutPoint.Index = binary.LittleEndian.Uint32(scratch[:4])
		if in.SignatureScript, err = readVarBytes(r); err != nil {
			return err
		}
		if _, err := io.ReadFull(r, scratch[:4]); err != nil {
			return err
		}
		in.Sequence = binary.LittleEndian.Uint32(scratch[:4])
		tx.Inputs = append(tx.Inputs, in)
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxSize/minTxOutLen {
		return ErrTooManyOutputs
	}
	tx.Outputs = make([]*TxOutput, 0, count)
	for i := uint64(0); i < count; i++ {
		out := &TxOutput{}
		if _, err := io.ReadFull(r, scratch[:]); err != nil {
			return err
		}
		out.Value = int64(binary.LittleEndian.Uint64(scratch[:]))
		if out.PkScript, err = readVarBytes(r); err != nil {
			return err
		}
		tx.Outputs = append(tx.Outputs, out)
	}

	if _, err := io.ReadFull(r, scratch[:4]); err != nil {
		return err
	}
	tx.LockTime = binary.LittleEndian.Uint32(scratch[:4])
	return nil
}

// FromBytes decodes a transaction from its full wire encoding, rejecting
// trailing garbage.
func FromBytes(serialized []byte) (*Transaction, error) {
	r := bytes.NewReader(serialized)
	tx := &Transaction{}
	if err := tx.Deserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf(
			"%d trailing bytes after transaction", r.Len(),
		)
	}
	return tx, nil
}

// WriteVarInt writes val to w using the minimal variable-length encoding.
func WriteVarInt(w io.Writer, val uint64) error {
	var buf [9]byte
	switch {
	case val < 0xfd:
		buf[0] = uint8(val)
		_, err := w.Write(buf[:1])
		return err
	case val <= 0xffff:
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:3], uint16(val))
		_, err := w.Write(buf[:3])
		return err
	case val <= 0xffffffff:
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:5], uint32(val))
		_, err := w.Write(buf[:5])
		return err
	default:
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:9], val)
		_, err := w.Write(buf[:9])
		return err
	}
}

// ReadVarInt reads a variable-length integer from r. Values that use a
// longer encoding than necessary are rejected as non-canonical.
func ReadVarInt(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return 0, err
	}

	var val, min uint64
	switch buf[0] {
	case 0xff:
		if _, err := io.ReadFull(r, buf[:8]); err != nil {
			return 0, err
		}
		val, min = binary.LittleEndian.Uint64(buf[:8]), 0x100000000
	case 0xfe:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return 0, err
		}
		val, min = uint64(binary.LittleEndian.Uint32(buf[:4])), 0x10000
	case 0xfd:
		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			return 0, err
		}
		val, min = uint64(binary.LittleEndian.Uint16(buf[:2])), 0xfd
	default:
		return uint64(buf[0]), nil
	}
	if val < min {
		return 0, ErrNonCanonicalVarInt
	}
	return val, nil
}

// VarIntSerializeSize returns the number of bytes WriteVarInt uses for
// val.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

func writeVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readVarBytes(r io.Reader) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxTxSize {
		return nil, ErrScriptTooLarge
	}
	if count == 0 {
		return nil, nil
	}
	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func copyScript(script []byte) []byte {
	if script == nil {
		return nil
	}
	scriptCopy := make([]byte, len(script))
	copy(scriptCopy, script)
	return scriptCopy
}
