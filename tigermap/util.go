package tigermap

import (
	"github.com/paulmach/orb"
)

// Overlaps checks whether an item is at least partially inside a container
func Overlaps(container orb.Bound, item orb.Bound) bool {
	if container.Min.Lat() > item.Max.Lat() {
		// container is wholly above item
		return false
	}

	if container.Max.Lat() < item.Min.Lat() {
		// container is wholly below item
		return false
	}

	if container.Min.Lon() > item.Max.Lon() {
		// container is wholly to the right of item
		return false
	}

	if container.Max.Lon() < item.Min.Lon() {
		// container is wholly to the left of item
		return false
	}

	return true
}

// ExpandBound widens a bound by buffer units on each side.
func ExpandBound(bound orb.Bound, buffer float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{bound.Min.Lon() - buffer, bound.Min.Lat() - buffer},
		Max: orb.Point{bound.Max.Lon() + buffer, bound.Max.Lat() + buffer},
	}
}

// ExpandBoundByFraction widens a bound by fraction * axis size on each side.
func ExpandBoundByFraction(bound orb.Bound, fraction float64) orb.Bound {
	bufferX := (bound.Max.Lon() - bound.Min.Lon()) * fraction
	bufferY := (bound.Max.Lat() - bound.Min.Lat()) * fraction

	return orb.Bound{
		Min: orb.Point{bound.Min.Lon() - bufferX, bound.Min.Lat() - bufferY},
		Max: orb.Point{bound.Max.Lon() + bufferX, bound.Max.Lat() + bufferY},
	}
}

// IsInBounds tests if a point is inside a container
func IsInBounds(bound orb.Bound, pointLat, pointLon float64) bool {
	isInLatBounds := pointLat < bound.Max.Lat() && pointLat > bound.Min.Lat()
	if !isInLatBounds {
		return false
	}

	isInLonBounds := pointLon < bound.Max.Lon() && pointLon > bound.Min.Lon()
	if !isInLonBounds {
		return false
	}

	return true
}

func GetWholeWorldBounds() orb.Bound {
	return orb.Bound{
		Min: orb.Point{-180, -90},
		Max: orb.Point{180, 90},
	}
}
