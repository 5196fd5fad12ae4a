package scene

// Zone describes the ambient light and distance fog for the region it bounds.
// The renderer uses the first zone found in the main scene.
type Zone struct {
	AmbientColor [3]float32
	FogColor     [3]float32
	FogStart     float32
	FogEnd       float32
	BoundsMin    [3]float32
	BoundsMax    [3]float32
}

// DefaultZone returns a neutral zone: dim grey ambient and fog pushed out of sight.
func DefaultZone() *Zone {
	return &Zone{
		AmbientColor: [3]float32{0.1, 0.1, 0.1},
		FogStart:     10000,
		FogEnd:       20000,
		BoundsMin:    [3]float32{-1000, -1000, -1000},
		BoundsMax:    [3]float32{1000, 1000, 1000},
	}
}

// Contains reports whether a world position lies inside the zone bounds.
func (z *Zone) Contains(p [3]float32) bool {
	for i := range p {
		if p[i] < z.BoundsMin[i] || p[i] > z.BoundsMax[i] {
			return false
		}
	}
	return true
}

// FindZone returns the zone of the first enabled node in s that carries one and whose
// bounds contain p, or DefaultZone when none does.
func FindZone(s Scene, p [3]float32) *Zone {
	var found *Zone
	s.Walk(func(n Node) bool {
		if found != nil || !n.Enabled() {
			return false
		}
		if z := n.Zone(); z != nil && z.Contains(p) {
			found = z
			return false
		}
		return true
	})
	if found == nil {
		return DefaultZone()
	}
	return found
}

// FindLight returns the first enabled light in s, or nil.
func FindLight(s Scene) Node {
	var found Node
	s.Walk(func(n Node) bool {
		if found != nil || !n.Enabled() {
			return false
		}
		if l := n.Light(); l != nil && l.Enabled() {
			found = n
			return false
		}
		return true
	})
	return found
}
