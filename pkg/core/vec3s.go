package core

// Vec3s is a batch of vectors stored as parallel component slices, one row per ray.
// Every operation applies the scalar Vec3 math row by row and returns a new batch,
// so a batch of one produces exactly the result of the scalar call.
type Vec3s struct {
	X, Y, Z []float64
}

// NewVec3s creates a zero-filled batch of n vectors
func NewVec3s(n int) Vec3s {
	return Vec3s{
		X: make([]float64, n),
		Y: make([]float64, n),
		Z: make([]float64, n),
	}
}

// Broadcast repeats v into a batch of n vectors
func Broadcast(v Vec3, n int) Vec3s {
	b := NewVec3s(n)
	for i := 0; i < n; i++ {
		b.Set(i, v)
	}
	return b
}

// Len returns the number of rows in the batch
func (b Vec3s) Len() int {
	return len(b.X)
}

// At returns row i
func (b Vec3s) At(i int) Vec3 {
	return Vec3{X: b.X[i], Y: b.Y[i], Z: b.Z[i]}
}

// Set overwrites row i; only used while building a fresh batch
func (b Vec3s) Set(i int, v Vec3) {
	b.X[i], b.Y[i], b.Z[i] = v.X, v.Y, v.Z
}

func (b Vec3s) mapRows(f func(i int, v Vec3) Vec3) Vec3s {
	out := NewVec3s(b.Len())
	for i := range b.X {
		out.Set(i, f(i, b.At(i)))
	}
	return out
}

// Add returns the row-wise sum of two batches of equal length
func (b Vec3s) Add(other Vec3s) Vec3s {
	return b.mapRows(func(i int, v Vec3) Vec3 { return v.Add(other.At(i)) })
}

// Subtract returns the row-wise difference of two batches
func (b Vec3s) Subtract(other Vec3s) Vec3s {
	return b.mapRows(func(i int, v Vec3) Vec3 { return v.Subtract(other.At(i)) })
}

// SubtractVec subtracts the same vector from every row
func (b Vec3s) SubtractVec(v Vec3) Vec3s {
	return b.mapRows(func(_ int, row Vec3) Vec3 { return row.Subtract(v) })
}

// Multiply scales every row by the same scalar
func (b Vec3s) Multiply(scalar float64) Vec3s {
	return b.mapRows(func(_ int, v Vec3) Vec3 { return v.Multiply(scalar) })
}

// MultiplyEach scales row i by scalars[i]
func (b Vec3s) MultiplyEach(scalars []float64) Vec3s {
	return b.mapRows(func(i int, v Vec3) Vec3 { return v.Multiply(scalars[i]) })
}

// MultiplyVec multiplies every row component-wise by v (color modulation)
func (b Vec3s) MultiplyVec(v Vec3) Vec3s {
	return b.mapRows(func(_ int, row Vec3) Vec3 { return row.MultiplyVec(v) })
}

// Dot returns the row-wise dot products
func (b Vec3s) Dot(other Vec3s) []float64 {
	out := make([]float64, b.Len())
	for i := range out {
		out[i] = b.At(i).Dot(other.At(i))
	}
	return out
}

// Cross returns the row-wise cross products
func (b Vec3s) Cross(other Vec3s) Vec3s {
	return b.mapRows(func(i int, v Vec3) Vec3 { return v.Cross(other.At(i)) })
}

// Normalize normalizes every row, leaving zero rows unchanged
func (b Vec3s) Normalize() Vec3s {
	return b.mapRows(func(_ int, v Vec3) Vec3 { return v.Normalize() })
}

// Reflect mirrors every row about the matching row of normals
func (b Vec3s) Reflect(normals Vec3s) Vec3s {
	return b.mapRows(func(i int, v Vec3) Vec3 { return v.Reflect(normals.At(i)) })
}

// Extract keeps only the rows where mask is true, in order
func (b Vec3s) Extract(mask []bool) Vec3s {
	return Vec3s{
		X: ExtractFloats(mask, b.X),
		Y: ExtractFloats(mask, b.Y),
		Z: ExtractFloats(mask, b.Z),
	}
}

// Place scatters the rows of a compacted batch back to the positions where mask is
// true, producing a batch of len(mask) rows that is zero everywhere else
func (b Vec3s) Place(mask []bool) Vec3s {
	out := NewVec3s(len(mask))
	j := 0
	for i, m := range mask {
		if !m {
			continue
		}
		out.Set(i, b.At(j))
		j++
	}
	return out
}

// AddPlaced adds the rows of a compacted batch into b at the positions where mask
// is true. It modifies b in place; equivalent to b.Add(rows.Place(mask)).
func (b Vec3s) AddPlaced(rows Vec3s, mask []bool) {
	j := 0
	for i, m := range mask {
		if !m {
			continue
		}
		b.X[i] += rows.X[j]
		b.Y[i] += rows.Y[j]
		b.Z[i] += rows.Z[j]
		j++
	}
}

// ExtractFloats keeps only the values where mask is true, in order
func ExtractFloats(mask []bool, xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for i, m := range mask {
		if m {
			out = append(out, xs[i])
		}
	}
	return out
}

// Any reports whether at least one mask entry is true
func Any(mask []bool) bool {
	for _, m := range mask {
		if m {
			return true
		}
	}
	return false
}

// MinEach returns the element-wise minimum of two equal-length slices
func MinEach(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = min(a[i], b[i])
	}
	return out
}
