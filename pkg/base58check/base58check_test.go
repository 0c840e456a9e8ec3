package base58check

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckEncode(t *testing.T) {
	tests := []struct {
		payload  string
		version  byte
		expected string
	}{
		{
			// zeroed hash160, the classic burn address
			payload:  "0000000000000000000000000000000000000000",
			version:  0x00,
			expected: "1111111111111111111114oLvT2",
		},
		{
			payload:  "010966776006953d5567439e5e39f86a0d273bee",
			version:  0x00,
			expected: "16UwLL9Risc3QfPqBUvKofHmBQ7wMtjvM",
		},
		{
			payload:  "0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d",
			version:  0x80,
			expected: "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ",
		},
	}

	for _, tt := range tests {
		payload, err := hex.DecodeString(tt.payload)
		if err != nil {
			t.Fatal(err)
		}
		encoded := CheckEncode(payload, tt.version)
		assert.Equal(t, tt.expected, encoded)

		decoded, version, err := CheckDecode(encoded)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, tt.version, version)
		assert.Equal(t, payload, decoded)
	}
}

func TestCheckDecodeBadInput(t *testing.T) {
	tests := []struct {
		encoded string
		err     error
	}{
		{
			encoded: "",
			err:     ErrInvalidFormat,
		},
		{
			// decodes to fewer than 5 bytes
			encoded: "1111",
			err:     ErrInvalidFormat,
		},
		{
			// characters outside the base58 alphabet
			encoded: "0OIl+",
			err:     ErrInvalidFormat,
		},
		{
			// last character changed
			encoded: "16UwLL9Risc3QfPqBUvKofHmBQ7wMtjvN",
			err:     ErrChecksumMismatch,
		},
	}

	for _, tt := range tests {
		_, _, err := CheckDecode(tt.encoded)
		assert.Equal(t, tt.err, err)
	}
}

func TestChecksum(t *testing.T) {
	sum := Checksum([]byte("hello"))
	assert.Equal(t, "9595c9df", hex.EncodeToString(sum[:]))
}
