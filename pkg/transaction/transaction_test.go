package transaction

import (
	"bytes"
	"encoding/hex"
	"io"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
)

// First ever peer-to-peer coin transfer, mined in block 170.
const block170TxHex = "0100000001c997a5e56e104102fa209c6a852dd90660a20b2d" +
	"9c352423edce25857fcd3704000000004847304402204e45e16932b8af514961a1d3" +
	"a1a25fdf3f4f7732e9d624c6c61548ab5fb8cd410220181522ec8eca07de4860a4ac" +
	"dd12909d831cc56cbbac4622082221a8768d1d0901ffffffff0200ca9a3b00000000" +
	"434104ae1a62fe09c5f51b13905f07f06b99a2f7159b2225f374cd378d71302fa284" +
	"14e7aab37397f554a7df5f142c21c1b7303b8a0626f1baded5c72a704f7e6cd84cac" +
	"00286bee0000000043410411db93e1dcdb8a016b49840f8c53bc1eb68a382e97b148" +
	"2ecad7b148a6909a5cb2e0eaddfb84ccf9744464f82e160bfa9b8b64f9d4c03f999b" +
	"8643f656b412a3ac00000000"

const block170TxID = "f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16"

// Synthetic two-input two-output transaction with pinned wire bytes.
const testTxHex = "0100000002aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" +
	"aaaaaaaaaaaaaaaaaaaa0000000000ffffffffbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" +
	"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb0100000000feffffff02804a5d0500000000" +
	"1976a914111111111111111111111111111111111111111188ace00f970000000000" +
	"1976a914222222222222222222222222222222222222222288ac00000000"

const testTxID = "380360edc2576816dad4949d122958ddc7b16a8703c72e786ab140f4e9eed38a"

func fromHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestDecodeBlock170(t *testing.T) {
	raw := fromHex(block170TxHex)
	tx, err := FromBytes(raw)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, int32(1), tx.Version)
	assert.Equal(t, uint32(0), tx.LockTime)
	assert.Len(t, tx.Inputs, 1)
	assert.Len(t, tx.Outputs, 2)

	in := tx.Inputs[0]
	assert.Equal(
		t,
		"0437cd7f8525ceed2324359c2d0ba26006d92d856a9c20fa0241106ee5a597c9",
		in.PreviousOutPoint.Hash.String(),
	)
	assert.Equal(t, uint32(0), in.PreviousOutPoint.Index)
	assert.Equal(t, MaxTxInSequenceNum, in.Sequence)

	assert.Equal(t, int64(1000000000), tx.Outputs[0].Value)
	assert.Equal(t, int64(4000000000), tx.Outputs[1].Value)

	assert.Equal(t, raw, tx.Bytes())
	assert.Equal(t, len(raw), tx.SerializeSize())
	assert.Equal(t, block170TxID, tx.TxHash().String())
}

func TestBuildRoundTrip(t *testing.T) {
	prevHash0, err := chainhash.NewHash(fromHex(
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	))
	if err != nil {
		t.Fatal(err)
	}
	prevHash1, err := chainhash.NewHash(fromHex(
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	))
	if err != nil {
		t.Fatal(err)
	}

	tx := NewTransaction()
	tx.AddInput(NewTxInput(NewOutPoint(prevHash0, 0), nil))
	in1 := NewTxInput(NewOutPoint(prevHash1, 1), nil)
	in1.Sequence = 0xfffffffe
	tx.AddInput(in1)
	tx.AddOutput(NewTxOutput(90000000, fromHex(
		"76a914111111111111111111111111111111111111111188ac",
	)))
	tx.AddOutput(NewTxOutput(9900000, fromHex(
		"76a914222222222222222222222222222222222222222288ac",
	)))

	assert.Equal(t, testTxHex, hex.EncodeToString(tx.Bytes()))
	assert.Equal(t, testTxID, tx.TxHash().String())

	decoded, err := FromBytes(tx.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, tx, decoded)
}

func TestCopy(t *testing.T) {
	tx, err := FromBytes(fromHex(testTxHex))
	if err != nil {
		t.Fatal(err)
	}

	txCopy := tx.Copy()
	assert.Equal(t, tx, txCopy)

	txCopy.Inputs[0].SignatureScript = []byte{0x51}
	txCopy.Inputs[1].Sequence = 0
	txCopy.Outputs[0].Value = 1
	txCopy.Outputs[1].PkScript[0] = 0x00

	assert.Equal(t, fromHex(testTxHex), tx.Bytes())
}

func TestFromBytesBadInput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name:    "empty stream",
			raw:     "",
			wantErr: io.EOF,
		},
		{
			name:    "truncated version",
			raw:     "0100",
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "truncated input",
			raw:     "0100000001aabb",
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "non-canonical input count",
			raw:     "01000000fd0100",
			wantErr: ErrNonCanonicalVarInt,
		},
		{
			name:    "input count overflow",
			raw:     "01000000ffffffffffffffffffff",
			wantErr: ErrTooManyInputs,
		},
		{
			name:    "output count overflow",
			raw:     "0100000000fe40420f00",
			wantErr: ErrTooManyOutputs,
		},
		{
			name: "script length overflow",
			raw: "0100000001" +
				"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" +
				"aaaaaaaaaaaaaaaa" + "00000000" + "fe41420f00",
			wantErr: ErrScriptTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(fromHex(tt.raw))
			assert.Equal(t, tt.wantErr, err)
		})
	}

	_, err := FromBytes(append(fromHex(testTxHex), 0x00))
	assert.EqualError(t, err, "1 trailing bytes after transaction")
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff,
		0x100000000, 0xffffffffffffffff,
	}
	for _, val := range values {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, val); err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, VarIntSerializeSize(val), buf.Len())

		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, val, got)
	}

	nonCanonical := []string{"fdfc00", "feffff0000", "ffffffffff00000000"}
	for _, raw := range nonCanonical {
		_, err := ReadVarInt(bytes.NewReader(fromHex(raw)))
		assert.Equal(t, ErrNonCanonicalVarInt, err)
	}
}
