package address

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/secp256k1"
)

const testPrivHex = "18e14a7b6a307f426a94f8114701e7c8e774e7f9a47e2c2035db29a206321725"

func TestHash160(t *testing.T) {
	pub, err := secp256k1.ParsePubKeyHex(
		"0450863ad64a87ae8a2fe83c1af1a8403cb53f53e486d8511dad8a04887e5b2352" +
			"2cd470243453a299fa9e77237716103abc11a1df38855ed6f2ee187e9c582ba6",
	)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(
		t,
		"010966776006953d5567439e5e39f86a0d273bee",
		hex.EncodeToString(Hash160(pub.SerializeUncompressed())),
	)
}

func TestFromPubKey(t *testing.T) {
	tests := []struct {
		net        *network.Network
		compressed bool
		expected   string
	}{
		{
			net:        &network.Mainnet,
			compressed: false,
			expected:   "16UwLL9Risc3QfPqBUvKofHmBQ7wMtjvM",
		},
		{
			net:        &network.Mainnet,
			compressed: true,
			expected:   "1PMycacnJaSqwwJqjawXBErnLsZ7RkXUAs",
		},
		{
			net:        &network.Testnet,
			compressed: false,
			expected:   "mfcSEPR8EkJrpX91YkTJ9iscdAzppJrG9j",
		},
	}

	priv, err := secp256k1.PrivKeyFromHex(testPrivHex)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		addr := FromPubKey(priv.PubKey(), tt.net, tt.compressed)
		assert.Equal(t, tt.expected, addr.Encode())
		assert.True(t, addr.IsForNet(tt.net))

		decoded, err := Decode(addr.Encode())
		if err != nil {
			t.Fatal(err)
		}
		assert.True(t, addr.IsEqual(decoded))
	}
}

func TestFromScriptHash(t *testing.T) {
	// redeem script OP_TRUE
	addr := FromScriptHash([]byte{0x51}, &network.Mainnet)
	assert.Equal(t, "3MaB7QVq3k4pQx3BhsvEADgzQonLSBwMdj", addr.Encode())
	assert.Equal(t, network.Mainnet.ScriptHash, addr.Version())
	assert.True(t, addr.IsScriptHash())
}

func TestZeroHashRoundTrip(t *testing.T) {
	addr, err := FromHash160(make([]byte, 20), 0x00)
	if err != nil {
		t.Fatal(err)
	}
	encoded := addr.Encode()
	assert.Equal(t, "1111111111111111111114oLvT2", encoded)

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, [Hash160Size]byte{}, decoded.Hash160())
	assert.Equal(t, byte(0x00), decoded.Version())
}

func TestDecodeBadInput(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		err     error
	}{
		{
			name:    "unknown version",
			encoded: "LKKSCYdyWP7fJDMZ1KUDbpj3yPmQ22MQrv",
			err:     ErrUnknownVersion,
		},
		{
			name:    "short hash",
			encoded: "12F2tWG3tB78Lrw7PK7C4KeL5Aio3WM4",
			err:     ErrInvalidHashLen,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.encoded)
			assert.Equal(t, tt.err, err)
		})
	}
}
