package field

import (
	"math"
	"math/rand"
)

// PerlinNoise is improved gradient noise over a seeded permutation table.
type PerlinNoise struct {
	// perm holds the shuffled table twice so corner hashes never wrap.
	perm [512]int
}

// NewPerlin returns a generator whose lattice gradients are shuffled by seed.
func NewPerlin(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	order := rand.New(rand.NewSource(seed)).Perm(256)
	copy(p.perm[:256], order)
	copy(p.perm[256:], order)
	return p
}

// Raw returns the signed noise value at (x, y, z), roughly in [-1, 1]. It is
// zero on every integer lattice point.
func (p *PerlinNoise) Raw(x, y, z float64) float64 {
	xi, xf := lattice(x)
	yi, yf := lattice(y)
	zi, zf := lattice(z)

	a := p.perm[xi] + yi
	b := p.perm[xi+1] + yi
	aa, ab := p.perm[a]+zi, p.perm[a+1]+zi
	ba, bb := p.perm[b]+zi, p.perm[b+1]+zi

	u, v, w := fade(xf), fade(yf), fade(zf)

	near := lerp(v,
		lerp(u, grad3D(p.perm[aa], xf, yf, zf), grad3D(p.perm[ba], xf-1, yf, zf)),
		lerp(u, grad3D(p.perm[ab], xf, yf-1, zf), grad3D(p.perm[bb], xf-1, yf-1, zf)))
	far := lerp(v,
		lerp(u, grad3D(p.perm[aa+1], xf, yf, zf-1), grad3D(p.perm[ba+1], xf-1, yf, zf-1)),
		lerp(u, grad3D(p.perm[ab+1], xf, yf-1, zf-1), grad3D(p.perm[bb+1], xf-1, yf-1, zf-1)))
	return lerp(w, near, far)
}

// Noise3D is Raw remapped into [0, 1].
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	return math.Max(0, math.Min(1, (p.Raw(x, y, z)+1)*0.5))
}

// lattice splits v into its wrapped cell index and the offset inside the cell.
func lattice(v float64) (int, float64) {
	fl := math.Floor(v)
	return int(fl) & 255, v - fl
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad3D dots the offset with one of 12 edge gradients picked by hash.
func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u, v := x, y
	if h >= 8 {
		u = y
	}
	switch {
	case h == 12 || h == 14:
		v = x
	case h >= 4:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
