package transaction

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// SigHashType declares which parts of a transaction a signature commits
// to. The base mode occupies the low bits and the anyone-can-pay modifier
// is a flag on top of it.
type SigHashType uint32

const (
	// SigHashAll commits to every input and every output.
	SigHashAll SigHashType = 0x1

	// SigHashNone commits to the inputs only, leaving all outputs open.
	SigHashNone SigHashType = 0x2

	// SigHashSingle commits to the single output paired with the signed
	// input, leaving the rest open.
	SigHashSingle SigHashType = 0x3

	// SigHashAnyOneCanPay restricts the input commitment to the signed
	// input alone, so other parties can attach theirs later.
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask isolates the base mode from the modifier bits.
	sigHashMask = 0x1f
)

// SignatureHash computes the 32-byte digest a signature for the given
// input commits to. subScript is the locking script of the output being
// spent; it is substituted into the signed copy in place of the input's
// own script while every other input script is cleared.
//
// Unrecognized base modes commit to everything, exactly as SigHashAll
// does. That matches how deployed validators treat them and must not be
// tightened here.
func SignatureHash(
	tx *Transaction, idx int, subScript []byte, hashType SigHashType,
) ([]byte, error) {
	if idx < 0 || idx >= len(tx.Inputs) {
		return nil, fmt.Errorf(
			"signature input index %d out of range [0, %d)",
			idx, len(tx.Inputs),
		)
	}

	// A SigHashSingle commitment with no output at the input's position
	// hashes to the constant 1. Historical validator behavior, kept
	// bit-for-bit.
	if hashType&sigHashMask == SigHashSingle && idx >= len(tx.Outputs) {
		var digest chainhash.Hash
		digest[0] = 0x01
		return digest[:], nil
	}

	txCopy := tx.Copy()
	for i := range txCopy.Inputs {
		if i == idx {
			txCopy.Inputs[i].SignatureScript = subScript
		} else {
			txCopy.Inputs[i].SignatureScript = nil
		}
	}

	switch hashType & sigHashMask {
	case SigHashNone:
		txCopy.Outputs = txCopy.Outputs[0:0]
		for i := range txCopy.Inputs {
			if i != idx {
				txCopy.Inputs[i].Sequence = 0
			}
		}
	case SigHashSingle:
		txCopy.Outputs = txCopy.Outputs[:idx+1]
		for i := 0; i < idx; i++ {
			txCopy.Outputs[i].Value = -1
			txCopy.Outputs[i].PkScript = nil
		}
		for i := range txCopy.Inputs {
			if i != idx {
				txCopy.Inputs[i].Sequence = 0
			}
		}
	}

	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.Inputs = txCopy.Inputs[idx : idx+1]
	}

	buf := bytes.NewBuffer(make([]byte, 0, txCopy.SerializeSize()+4))
	_ = txCopy.Serialize(buf)
	var ht [4]byte
	binary.LittleEndian.PutUint32(ht[:], uint32(hashType))
	buf.Write(ht[:])
	return chainhash.DoubleHashB(buf.Bytes()), nil
}
