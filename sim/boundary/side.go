package boundary

import (
	"fmt"
	"strings"
)

// Side names a domain edge.
type Side int

const (
	West Side = iota
	East
	South
	North
)

var sideNames = [...]string{West: "west", East: "east", South: "south", North: "north"}

// sideGeometry holds the inward unit normal and a unit tangent for each side.
// The tangent sign is arbitrary: the Zou-He reconstruction is invariant
// under t -> -t.
var sideGeometry = [...]struct {
	normal, tangent [2]int
	kt              int
}{
	West:  {normal: [2]int{1, 0}, tangent: [2]int{0, 1}, kt: 2},
	East:  {normal: [2]int{-1, 0}, tangent: [2]int{0, 1}, kt: 2},
	South: {normal: [2]int{0, 1}, tangent: [2]int{1, 0}, kt: 1},
	North: {normal: [2]int{0, -1}, tangent: [2]int{1, 0}, kt: 1},
}

func (s Side) String() string {
	if s < West || s > North {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// Normal returns the unit normal pointing into the domain.
func (s Side) Normal() [2]int { return sideGeometry[s].normal }

// Tangent returns a unit vector along the side.
func (s Side) Tangent() [2]int { return sideGeometry[s].tangent }

// ParseSide converts a case-insensitive side name.
func ParseSide(name string) (Side, error) {
	for s, n := range sideNames {
		if strings.EqualFold(name, n) {
			return Side(s), nil
		}
	}
	return 0, fmt.Errorf("unknown side %q; valid sides: %s", name, strings.Join(sideNames[:], ", "))
}
