package secp256k1

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasePointMultiples(t *testing.T) {
	tests := []struct {
		k    int64
		x, y string
	}{
		{
			k: 1,
			x: "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
			y: "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
		},
		{
			k: 2,
			x: "c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5",
			y: "1ae168fea63dc339a3c58419466ceaeef7f632653266d0e1236431a950cfe52a",
		},
		{
			k: 3,
			x: "f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9",
			y: "388f7b0f632de8140fe337e62a37f3566500a99934c2231b6cb9fd7584b8e672",
		},
		{
			k: 4,
			x: "e493dbf1c10d80f3581e4904930b1404cc6c13900ee0758474fa94abe8c4cd13",
			y: "51ed993ea0d455b75642e2098ea51448d967ae33bfbdfe40cfe97bdc47739922",
		},
		{
			k: 7,
			x: "5cbdf0646e5db4eaa398f365f2ea7a0e3d419b7e0330e39ce92bddedcac4f9bc",
			y: "6aebca40ba255960a3178d6d861a54dba813d0b813fde7b5a5082628087264da",
		},
	}

	c := S256()
	for _, tt := range tests {
		p := c.ScalarBaseMult(big.NewInt(tt.k))
		assert.Equal(t, tt.x, p.X.Text(16))
		assert.Equal(t, tt.y, p.Y.Text(16))
		assert.True(t, c.IsOnCurve(p))
	}
}

func TestScalarBaseMultLargeScalar(t *testing.T) {
	k := hexToBig("aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55")
	p := S256().ScalarBaseMult(k)
	assert.Equal(
		t,
		"37cf22073286de02aa037be02d7381cefe5d79a07164fb07d8028ce628eeae44",
		p.X.Text(16),
	)
	assert.Equal(
		t,
		"a7cdb6ea7b5494e9fe45dd163b252bc854b8f87aad9814f3b33a556d12e83038",
		p.Y.Text(16),
	)
}

func TestAddGroupLaw(t *testing.T) {
	c := S256()
	g := NewPoint(c.Gx, c.Gy)
	g2 := c.Double(g)
	g3 := c.Add(g, g2)
	g4 := c.Double(g2)

	// addition and the ladder agree
	assert.True(t, g3.IsEqual(c.ScalarBaseMult(big.NewInt(3))))
	assert.True(t, g4.IsEqual(c.Add(g, g3)))
	// commutativity
	assert.True(t, c.Add(g2, g).IsEqual(g3))
}

func TestPointAtInfinity(t *testing.T) {
	c := S256()
	g := NewPoint(c.Gx, c.Gy)
	inf := Infinity()

	// identity element
	assert.True(t, c.Add(g, inf).IsEqual(g))
	assert.True(t, c.Add(inf, g).IsEqual(g))
	assert.True(t, c.Add(inf, inf).IsInfinity())

	// a point plus its negation collapses to infinity
	sum := c.Add(g, c.Negate(g))
	assert.True(t, sum.IsInfinity())

	// infinity absorbs zero scalars and propagates through multiplication
	assert.True(t, c.ScalarBaseMult(big.NewInt(0)).IsInfinity())
	assert.True(t, c.ScalarMult(big.NewInt(12345), inf).IsInfinity())
	// N*G wraps to the identity
	assert.True(t, c.ScalarBaseMult(c.N).IsInfinity())

	// infinity is not a curve point
	assert.False(t, c.IsOnCurve(inf))
}

func TestNegate(t *testing.T) {
	c := S256()
	p := c.ScalarBaseMult(big.NewInt(11))
	neg := c.Negate(p)
	assert.True(t, c.IsOnCurve(neg))
	assert.Equal(t, 0, p.X.Cmp(neg.X))
	assert.True(t, c.Add(p, neg).IsInfinity())
	// -(N-1)G == G ... (N-1)G == -G
	assert.True(t, c.ScalarBaseMult(new(big.Int).Sub(c.N, big.NewInt(1))).
		IsEqual(c.Negate(NewPoint(c.Gx, c.Gy))))
}

func TestDecompressY(t *testing.T) {
	c := S256()

	// both parities of the generator's x
	even, err := c.decompressY(c.Gx, false)
	if err != nil {
		t.Fatal(err)
	}
	odd, err := c.decompressY(c.Gx, true)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 0, even.Cmp(c.Gy))
	assert.Equal(t, 0, odd.Cmp(new(big.Int).Sub(c.P, c.Gy)))

	// x = 5 has no point on the curve
	_, err = c.decompressY(big.NewInt(5), false)
	assert.Equal(t, ErrInvalidSquareRoot, err)
}

func TestAddModPAddModN(t *testing.T) {
	c := S256()
	one := big.NewInt(1)

	sum := c.AddModP(new(big.Int).Sub(c.P, one), big.NewInt(2))
	assert.Equal(t, 0, sum.Cmp(one))

	sum = c.AddModN(new(big.Int).Sub(c.N, one), big.NewInt(2))
	assert.Equal(t, 0, sum.Cmp(one))

	// results already in range pass through untouched
	sum = c.AddModN(big.NewInt(40), big.NewInt(2))
	assert.Equal(t, int64(42), sum.Int64())
}
