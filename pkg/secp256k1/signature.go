package secp256k1

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"math/big"
)

// References:
//   [GECC]: Guide to Elliptic Curve Cryptography (Hankerson, Menezes, Vanstone)
//   [RFC6979]: Deterministic Usage of DSA and ECDSA
//   [ISO/IEC 8825-1]: ASN.1 Distinguished Encoding Rules

const (
	asn1SequenceID = 0x30
	asn1IntegerID  = 0x02

	// minDERSigLen and maxDERSigLen bound the DER envelope: both integers
	// one byte, respectively both 33 bytes (32-byte value plus a sign pad).
	minDERSigLen = 8
	maxDERSigLen = 72
)

// Signature is an ECDSA signature, the pair of integers mod N committing to
// a message digest.
type Signature struct {
	R *big.Int
	S *big.Int
}

// Sign produces a deterministic ECDSA signature of the 32-byte digest. The
// nonce comes from NonceRFC6979, never from a random source, so identical
// inputs always reproduce the identical signature. The S component is
// normalized to the lower half of the group order, forcing one canonical
// form of the two equivalent signatures.
func Sign(priv *PrivateKey, digest []byte) *Signature {
	// The algorithm is 4.29 of [GECC]:
	//
	// 1. k = deterministic nonce in [1, N-1]
	// 2. r = (kG).x mod N, repeat from 1 if r = 0
	// 3. e = digest interpreted mod N
	// 4. s = k^-1 (e + d*r) mod N, repeat from 1 if s = 0
	// 5. if s > N/2, s = N - s
	c := S256()
	privBytes := priv.Serialize()
	e := hashToInt(digest)

	for iteration := uint32(0); ; iteration++ {
		k := NonceRFC6979(privBytes, digest, iteration)

		kg := c.ScalarBaseMult(k)
		r := new(big.Int).Mod(kg.X, c.N)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(k, c.N)
		s := new(big.Int).Mul(priv.D, r)
		s.Add(s, e)
		s.Mul(s, kInv)
		s.Mod(s, c.N)
		if s.Sign() == 0 {
			continue
		}
		if s.Cmp(c.halfN) > 0 {
			s.Sub(c.N, s)
		}
		return &Signature{R: r, S: s}
	}
}

// Verify reports whether the signature is valid for the given digest and
// public key. Signatures with r or s outside [1, N-1] are rejected.
func (sig *Signature) Verify(digest []byte, pub *PublicKey) bool {
	// Algorithm 4.30 of [GECC]:
	//
	// 1. fail if r or s is not in [1, N-1]
	// 2. e = digest interpreted mod N
	// 3. w = s^-1 mod N
	// 4. u1 = e*w mod N, u2 = r*w mod N
	// 5. X = u1*G + u2*Q, fail if X is the point at infinity
	// 6. valid if X.x mod N == r
	c := S256()
	if sig.R.Sign() <= 0 || sig.S.Sign() <= 0 {
		return false
	}
	if sig.R.Cmp(c.N) >= 0 || sig.S.Cmp(c.N) >= 0 {
		return false
	}

	e := hashToInt(digest)
	w := new(big.Int).ModInverse(sig.S, c.N)
	u1 := new(big.Int).Mul(e, w)
	u1.Mod(u1, c.N)
	u2 := new(big.Int).Mul(sig.R, w)
	u2.Mod(u2, c.N)

	x := c.Add(c.ScalarBaseMult(u1), c.ScalarMult(u2, pub.Point()))
	if x.IsInfinity() {
		return false
	}
	v := new(big.Int).Mod(x.X, c.N)
	return v.Cmp(sig.R) == 0
}

// IsEqual reports whether both signatures carry the same R and S.
func (sig *Signature) IsEqual(other *Signature) bool {
	return sig.R.Cmp(other.R) == 0 && sig.S.Cmp(other.S) == 0
}

// Serialize returns the signature in the Distinguished Encoding Rules
// format: 0x30 <len> 0x02 <lenR> <R> 0x02 <lenS> <S>, both integers in
// minimal big-endian form with a zero pad only when the high bit would
// otherwise flag them negative. The S component is serialized in its low
// form.
func (sig *Signature) Serialize() []byte {
	c := S256()
	s := sig.S
	if s.Cmp(c.halfN) > 0 {
		s = new(big.Int).Sub(c.N, s)
	}
	rb := canonicalizeInt(sig.R)
	sb := canonicalizeInt(s)

	length := 6 + len(rb) + len(sb)
	b := make([]byte, 0, length)
	b = append(b, asn1SequenceID, byte(length-2))
	b = append(b, asn1IntegerID, byte(len(rb)))
	b = append(b, rb...)
	b = append(b, asn1IntegerID, byte(len(sb)))
	b = append(b, sb...)
	return b
}

// ParseDERSignature parses a DER encoded signature, enforcing canonical
// integer encodings and that both values lie in [1, N-1].
func ParseDERSignature(sig []byte) (*Signature, error) {
	if len(sig) < minDERSigLen {
		return nil, errors.New("invalid signature encoding: too short")
	}
	if len(sig) > maxDERSigLen {
		return nil, errors.New("invalid signature encoding: too long")
	}
	if sig[0] != asn1SequenceID {
		return nil, errors.New("invalid signature encoding: missing sequence identifier")
	}
	if int(sig[1]) != len(sig)-2 {
		return nil, errors.New("invalid signature encoding: bad payload length")
	}

	rLen := int(sig[3])
	sTypeOffset := 4 + rLen
	if sTypeOffset+1 >= len(sig) {
		return nil, errors.New("invalid signature encoding: S component missing")
	}
	sLen := int(sig[sTypeOffset+1])
	sOffset := sTypeOffset + 2
	if sOffset+sLen != len(sig) {
		return nil, errors.New("invalid signature encoding: bad S length")
	}

	rBytes := sig[4:sTypeOffset]
	sBytes := sig[sOffset:]
	r, err := parseDERInt(sig[2], rBytes, "R")
	if err != nil {
		return nil, err
	}
	s, err := parseDERInt(sig[sTypeOffset], sBytes, "S")
	if err != nil {
		return nil, err
	}
	return &Signature{R: r, S: s}, nil
}

func parseDERInt(typeID byte, b []byte, name string) (*big.Int, error) {
	if typeID != asn1IntegerID {
		return nil, errors.New("invalid signature encoding: " + name + " is not an integer")
	}
	if len(b) == 0 {
		return nil, errors.New("invalid signature encoding: " + name + " is empty")
	}
	if b[0]&0x80 != 0 {
		return nil, errors.New("invalid signature encoding: " + name + " is negative")
	}
	if len(b) > 1 && b[0] == 0x00 && b[1]&0x80 == 0 {
		return nil, errors.New("invalid signature encoding: " + name + " has excess padding")
	}
	v := new(big.Int).SetBytes(b)
	if v.Sign() == 0 {
		return nil, errors.New("invalid signature: " + name + " is zero")
	}
	if v.Cmp(S256().N) >= 0 {
		return nil, errors.New("invalid signature: " + name + " >= group order")
	}
	return v, nil
}

// canonicalizeInt returns the DER integer body of v: minimal big-endian
// bytes, prefixed with zero when the leading bit would mark it negative.
func canonicalizeInt(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		b = []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		padded := make([]byte, len(b)+1)
		copy(padded[1:], b)
		b = padded
	}
	return b
}

// NonceRFC6979 derives the deterministic signing nonce for the given private
// scalar and message digest per [RFC6979] with HMAC-SHA256. The result is
// always in [1, N-1]. A non-zero iteration skips that many acceptable
// candidates from the generator stream, used by Sign on the vanishingly rare
// occasions the first candidate produces a degenerate signature.
func NonceRFC6979(privKey, digest []byte, iteration uint32) *big.Int {
	q := S256().N

	// int2octets(x) || bits2octets(h1), the fixed suffix of steps D and F.
	var suffix [64]byte
	new(big.Int).SetBytes(privKey).FillBytes(suffix[:32])
	h := hashToInt(digest)
	h.Mod(h, q)
	h.FillBytes(suffix[32:])

	// Steps B and C.
	v := make([]byte, sha256.Size)
	k := make([]byte, sha256.Size)
	for i := range v {
		v[i] = 0x01
	}

	// Step D: K = HMAC_K(V || 0x00 || suffix)
	k = hmacSHA256(k, v, []byte{0x00}, suffix[:])
	// Step E: V = HMAC_K(V)
	v = hmacSHA256(k, v)
	// Step F: K = HMAC_K(V || 0x01 || suffix)
	k = hmacSHA256(k, v, []byte{0x01}, suffix[:])
	// Step G: V = HMAC_K(V)
	v = hmacSHA256(k, v)

	// Step H: draw candidates until one lands in [1, N-1].
	var generated uint32
	for {
		v = hmacSHA256(k, v)
		candidate := new(big.Int).SetBytes(v)
		if candidate.Sign() > 0 && candidate.Cmp(q) < 0 {
			generated++
			if generated > iteration {
				return candidate
			}
		}
		k = hmacSHA256(k, v, []byte{0x00})
		v = hmacSHA256(k, v)
	}
}

// hashToInt interprets a digest as an integer per [RFC6979] bits2int,
// keeping only the leftmost 256 bits of longer digests.
func hashToInt(digest []byte) *big.Int {
	v := new(big.Int).SetBytes(digest)
	if excess := len(digest)*8 - 256; excess > 0 {
		v.Rsh(v, uint(excess))
	}
	return v
}

func hmacSHA256(key []byte, chunks ...[]byte) []byte {
	mac := hmac.New(sha256.New, key)
	for _, chunk := range chunks {
		mac.Write(chunk)
	}
	return mac.Sum(nil)
}
