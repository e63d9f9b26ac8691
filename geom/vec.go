/*package geom contains the integer geometric primitives used to describe
hailstone trajectories and the exact predicates which act on them.
*/
package geom

// Vec is a three dimensional integer vector.
type Vec [3]int64

// Sub computes v1 - v2.
func (v1 Vec) Sub(v2 Vec) Vec {
	return Vec{v1[0] - v2[0], v1[1] - v2[1], v1[2] - v2[2]}
}

// Cross2 returns the z component of the cross product of the projections of
// v1 and v2 onto the xy plane.
func (v1 Vec) Cross2(v2 Vec) int64 {
	return v1[0]*v2[1] - v1[1]*v2[0]
}

// Sum returns the sum of the components of v.
func (v Vec) Sum() int64 { return v[0] + v[1] + v[2] }
