package secp256k1

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
)

const (
	testPrivHex         = "18e14a7b6a307f426a94f8114701e7c8e774e7f9a47e2c2035db29a206321725"
	testPubCompressed   = "0250863ad64a87ae8a2fe83c1af1a8403cb53f53e486d8511dad8a04887e5b2352"
	testPubUncompressed = "0450863ad64a87ae8a2fe83c1af1a8403cb53f53e486d8511dad8a04887e5b23522cd470243453a299fa9e77237716103abc11a1df38855ed6f2ee187e9c582ba6"
)

func TestPrivKeyToPubKey(t *testing.T) {
	priv, err := PrivKeyFromHex(testPrivHex)
	if err != nil {
		t.Fatal(err)
	}
	pub := priv.PubKey()
	assert.Equal(t, testPubCompressed, hex.EncodeToString(pub.SerializeCompressed()))
	assert.Equal(t, testPubUncompressed, hex.EncodeToString(pub.SerializeUncompressed()))
	assert.Equal(t, priv.Serialize(), hexMustDecode(t, testPrivHex))
}

func TestPrivKeyFromBytesBadInput(t *testing.T) {
	tests := []struct {
		key []byte
		err error
	}{
		{
			key: make([]byte, 31),
			err: ErrInvalidPrivKeyLen,
		},
		{
			key: make([]byte, 32),
			err: ErrPrivKeyOutOfRange,
		},
		{
			// the group order itself is out of range
			key: S256().N.Bytes(),
			err: ErrPrivKeyOutOfRange,
		},
	}
	for _, tt := range tests {
		_, err := PrivKeyFromBytes(tt.key)
		assert.Equal(t, tt.err, err)
	}
}

func TestGeneratePrivateKey(t *testing.T) {
	// a reader starting with out-of-range material exercises the rejection
	// sampling path: 32 bytes of 0xff exceed N and must be skipped
	seed := append(bytes.Repeat([]byte{0xff}, 32), hexMustDecode(t, testPrivHex)...)
	priv, err := GeneratePrivateKey(bytes.NewReader(seed))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, testPrivHex, hex.EncodeToString(priv.Serialize()))

	priv, err = GeneratePrivateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, priv.D.Sign() > 0)
	assert.True(t, priv.D.Cmp(S256().N) < 0)
}

func TestParsePubKeyRoundTrip(t *testing.T) {
	for _, encoded := range []string{testPubCompressed, testPubUncompressed} {
		pub, err := ParsePubKeyHex(encoded)
		if err != nil {
			t.Fatal(err)
		}
		reserialized := pub.SerializeCompressed()
		if len(encoded) == 2*PubKeyBytesLenUncompressed {
			reserialized = pub.SerializeUncompressed()
		}
		assert.Equal(t, encoded, hex.EncodeToString(reserialized))
		assert.True(t, S256().IsOnCurve(pub.Point()))
	}
}

func TestParsePubKeyOddParity(t *testing.T) {
	priv, err := PrivKeyFromHex(testPrivHex)
	if err != nil {
		t.Fatal(err)
	}
	neg := S256().Negate(priv.PubKey().Point())
	odd := (&PublicKey{X: neg.X, Y: neg.Y}).SerializeCompressed()
	assert.Equal(t, byte(0x03), odd[0])

	parsed, err := ParsePubKey(odd)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, parsed.Point().IsEqual(neg))
}

func TestParsePubKeyBadInput(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		err     string
	}{
		{
			name:    "bad length",
			encoded: "0250863ad64a87ae",
			err:     ErrInvalidPubKeyLen.Error(),
		},
		{
			name:    "bad compressed prefix",
			encoded: "0550863ad64a87ae8a2fe83c1af1a8403cb53f53e486d8511dad8a04887e5b2352",
			err:     "invalid compressed public key prefix",
		},
		{
			name: "bad uncompressed prefix",
			encoded: "0150863ad64a87ae8a2fe83c1af1a8403cb53f53e486d8511dad8a04887e5b2352" +
				"2cd470243453a299fa9e77237716103abc11a1df38855ed6f2ee187e9c582ba6",
			err: "invalid uncompressed public key prefix",
		},
		{
			// x = 5 has no y on the curve
			name:    "no square root",
			encoded: "020000000000000000000000000000000000000000000000000000000000000005",
			err:     ErrInvalidSquareRoot.Error(),
		},
		{
			name: "off curve uncompressed",
			encoded: "0450863ad64a87ae8a2fe83c1af1a8403cb53f53e486d8511dad8a04887e5b2352" +
				"2cd470243453a299fa9e77237716103abc11a1df38855ed6f2ee187e9c582ba7",
			err: ErrPubKeyNotOnCurve.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePubKeyHex(tt.encoded)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			assert.True(t, strings.Contains(err.Error(), tt.err))
		})
	}
}

// TestPubKeyAgainstBtcec cross-checks serialization against an independent
// implementation.
func TestPubKeyAgainstBtcec(t *testing.T) {
	priv, err := PrivKeyFromHex(testPrivHex)
	if err != nil {
		t.Fatal(err)
	}
	_, oraclePub := btcec.PrivKeyFromBytes(priv.Serialize())
	assert.Equal(t, oraclePub.SerializeCompressed(), priv.PubKey().SerializeCompressed())
	assert.Equal(t, oraclePub.SerializeUncompressed(), priv.PubKey().SerializeUncompressed())

	parsed, err := btcec.ParsePubKey(priv.PubKey().SerializeCompressed())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, parsed.SerializeUncompressed(), priv.PubKey().SerializeUncompressed())
}

func hexMustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
