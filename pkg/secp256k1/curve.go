package secp256k1

import (
	"errors"
	"math/big"
)

// References:
//   [SEC2]: Recommended Elliptic Curve Domain Parameters
//     https://www.secg.org/sec2-v2.pdf

var (
	// ErrInvalidSquareRoot ...
	ErrInvalidSquareRoot = errors.New("invalid square root: no curve point has the given x coordinate")
)

// Curve holds the domain parameters of the secp256k1 curve, the short
// Weierstrass curve y² = x³ + 7 over the prime field of order P with group
// order N and generator (Gx, Gy).
type Curve struct {
	P       *big.Int
	N       *big.Int
	B       *big.Int
	Gx, Gy  *big.Int
	BitSize int

	// halfN is N >> 1, the boundary for low-S signature normalization.
	halfN *big.Int
	// qPlus1Div4 is (P+1)/4, the exponent computing modular square roots
	// since P ≡ 3 (mod 4).
	qPlus1Div4 *big.Int
}

var secp256k1 *Curve

func init() {
	c := &Curve{
		P:       hexToBig("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
		N:       hexToBig("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"),
		B:       big.NewInt(7),
		Gx:      hexToBig("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
		Gy:      hexToBig("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"),
		BitSize: 256,
	}
	c.halfN = new(big.Int).Rsh(c.N, 1)
	c.qPlus1Div4 = new(big.Int).Add(c.P, big.NewInt(1))
	c.qPlus1Div4.Rsh(c.qPlus1Div4, 2)
	secp256k1 = c
}

// S256 returns the secp256k1 curve parameters.
func S256() *Curve {
	return secp256k1
}

func hexToBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("secp256k1: invalid curve constant " + s)
	}
	return n
}

// Point is a curve point in affine coordinates. A Point with a nil X is the
// point at infinity, the identity of the group law. Coordinates are treated
// as immutable, operations always allocate fresh results.
type Point struct {
	X, Y *big.Int
}

// Infinity returns the point at infinity.
func Infinity() *Point {
	return &Point{}
}

// NewPoint returns the affine point (x, y). It performs no curve membership
// check, see Curve.IsOnCurve.
func NewPoint(x, y *big.Int) *Point {
	return &Point{X: x, Y: y}
}

// IsInfinity reports whether p is the point at infinity.
func (p *Point) IsInfinity() bool {
	return p.X == nil
}

// IsEqual reports whether p and q denote the same point.
func (p *Point) IsEqual(q *Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() && q.IsInfinity()
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// IsOnCurve reports whether p satisfies the curve equation y² = x³ + 7 with
// both coordinates in canonical [0, P) range. The point at infinity is not
// considered to be on the curve.
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.IsInfinity() {
		return false
	}
	if p.X.Sign() < 0 || p.X.Cmp(c.P) >= 0 ||
		p.Y.Sign() < 0 || p.Y.Cmp(c.P) >= 0 {
		return false
	}
	y2 := new(big.Int).Mul(p.Y, p.Y)
	y2.Mod(y2, c.P)
	x3 := new(big.Int).Mul(p.X, p.X)
	x3.Mul(x3, p.X)
	x3.Add(x3, c.B)
	x3.Mod(x3, c.P)
	return y2.Cmp(x3) == 0
}

// Add returns p + q under the group law, handling the identity and the
// p = -q cases.
func (c *Curve) Add(p, q *Point) *Point {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	if p.X.Cmp(q.X) == 0 {
		if p.Y.Cmp(q.Y) != 0 || p.Y.Sign() == 0 {
			// q is the negation of p, the sum is the identity.
			return Infinity()
		}
		return c.Double(p)
	}

	// lambda = (y2 - y1) / (x2 - x1)
	den := new(big.Int).Sub(q.X, p.X)
	den.Mod(den, c.P)
	den.ModInverse(den, c.P)
	lambda := new(big.Int).Sub(q.Y, p.Y)
	lambda.Mul(lambda, den)
	lambda.Mod(lambda, c.P)

	// x3 = lambda² - x1 - x2, y3 = lambda*(x1 - x3) - y1
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.X)
	x3.Sub(x3, q.X)
	x3.Mod(x3, c.P)
	y3 := new(big.Int).Sub(p.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.Y)
	y3.Mod(y3, c.P)
	return &Point{X: x3, Y: y3}
}

// Double returns 2p. Doubling a point whose Y coordinate is zero yields the
// point at infinity, the tangent there is vertical.
func (c *Curve) Double(p *Point) *Point {
	if p.IsInfinity() || p.Y.Sign() == 0 {
		return Infinity()
	}

	// lambda = 3x² / 2y, the a coefficient of the curve is zero
	den := new(big.Int).Lsh(p.Y, 1)
	den.Mod(den, c.P)
	den.ModInverse(den, c.P)
	lambda := new(big.Int).Mul(p.X, p.X)
	lambda.Mul(lambda, big.NewInt(3))
	lambda.Mul(lambda, den)
	lambda.Mod(lambda, c.P)

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.X)
	x3.Sub(x3, p.X)
	x3.Mod(x3, c.P)
	y3 := new(big.Int).Sub(p.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.Y)
	y3.Mod(y3, c.P)
	return &Point{X: x3, Y: y3}
}

// Negate returns -p, the reflection of p across the x axis.
func (c *Curve) Negate(p *Point) *Point {
	if p.IsInfinity() {
		return Infinity()
	}
	y := new(big.Int).Neg(p.Y)
	y.Mod(y, c.P)
	return &Point{X: p.X, Y: y}
}

// ScalarMult returns k*p. The scalar is reduced mod N and walked with a
// Montgomery ladder: every one of the 256 iterations performs exactly one
// addition and one doubling whichever way the bit falls, so the sequence of
// group operations does not depend on the bits of k. Private key material
// must only ever be multiplied through here. Multiplication by zero yields
// the point at infinity.
func (c *Curve) ScalarMult(k *big.Int, p *Point) *Point {
	var buf [32]byte
	new(big.Int).Mod(k, c.N).FillBytes(buf[:])

	r0 := Infinity()
	r1 := p
	for i := 0; i < 256; i++ {
		bit := buf[i/8] >> (7 - uint(i)%8) & 1
		if bit == 0 {
			r1 = c.Add(r0, r1)
			r0 = c.Double(r0)
		} else {
			r0 = c.Add(r0, r1)
			r1 = c.Double(r1)
		}
	}
	return r0
}

// ScalarBaseMult returns k*G.
func (c *Curve) ScalarBaseMult(k *big.Int) *Point {
	return c.ScalarMult(k, &Point{X: c.Gx, Y: c.Gy})
}

// AddModP returns a + b reduced into [0, P).
func (c *Curve) AddModP(a, b *big.Int) *big.Int {
	sum := new(big.Int).Add(a, b)
	return sum.Mod(sum, c.P)
}

// AddModN returns a + b reduced into [0, N). Scalar tweaks during child key
// derivation are combined through here.
func (c *Curve) AddModN(a, b *big.Int) *big.Int {
	sum := new(big.Int).Add(a, b)
	return sum.Mod(sum, c.N)
}

// decompressY returns the Y coordinate with the requested parity for the
// given X, or ErrInvalidSquareRoot when no point on the curve has that X.
func (c *Curve) decompressY(x *big.Int, odd bool) (*big.Int, error) {
	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)
	x3.Add(x3, c.B)
	x3.Mod(x3, c.P)

	y := new(big.Int).Exp(x3, c.qPlus1Div4, c.P)
	check := new(big.Int).Mul(y, y)
	check.Mod(check, c.P)
	if check.Cmp(x3) != 0 {
		return nil, ErrInvalidSquareRoot
	}
	if isOdd(y) != odd {
		y.Sub(c.P, y)
	}
	return y, nil
}

func isOdd(a *big.Int) bool {
	return a.Bit(0) == 1
}
