// Package geom defines the Line and Plane primitives, the closed Entity
// variant over them, and the pairwise intersection table.
//
// Lines and planes are immutable values. A Plane always carries a unit
// normal. Intersections whose denominator falls below ParallelTolerance
// are reported as IllConditionedError rather than returning NaN or
// overflowing coordinates. Line/line intersection is not provided and
// always fails with ErrUnsupportedIntersection.
package geom
