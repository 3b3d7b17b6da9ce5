// Package geometry holds the planar helpers used to read gestures from a pose.
package geometry

import "math"

// Point is a planar position in normalized frame coordinates.
type Point struct {
	X float64
	Y float64
}

// JointAngle returns the angle at b formed by the segments b->a and b->c,
// in degrees within [0,180]. Reflex angles are folded as 360 - angle.
func JointAngle(a, b, c Point) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)
	if angle > 180.0 {
		angle = 360 - angle
	}
	return angle
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
