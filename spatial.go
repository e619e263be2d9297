package mgclient

import "fmt"

// Point2D is a two-dimensional point in the coordinate reference
// system identified by SRID.
type Point2D struct {
	SRID int64
	X    float64
	Y    float64
}

func (Point2D) Kind() Kind { return KindPoint2D }
func (Point2D) sealed()    {}

func (p Point2D) String() string {
	return fmt.Sprintf("point({srid: %d, x: %v, y: %v})", p.SRID, p.X, p.Y)
}

// Point3D is a three-dimensional point in the coordinate reference
// system identified by SRID.
type Point3D struct {
	SRID int64
	X    float64
	Y    float64
	Z    float64
}

func (Point3D) Kind() Kind { return KindPoint3D }
func (Point3D) sealed()    {}

func (p Point3D) String() string {
	return fmt.Sprintf("point({srid: %d, x: %v, y: %v, z: %v})", p.SRID, p.X, p.Y, p.Z)
}
