package course

import "fmt"

// Zone classifies a grid cell. It controls both the painted surface and the
// height offset written by the classifier.
type Zone uint8

const (
	ZoneFairway Zone = iota
	ZoneRough
	ZoneHeavyRough
	ZoneGreen
	ZoneBunker
	ZoneTee
)

var zoneNames = [...]string{
	ZoneFairway:    "fairway",
	ZoneRough:      "rough",
	ZoneHeavyRough: "heavy_rough",
	ZoneGreen:      "green",
	ZoneBunker:     "bunker",
	ZoneTee:        "tee",
}

// Zones lists every zone in declaration order.
func Zones() []Zone {
	return []Zone{ZoneFairway, ZoneRough, ZoneHeavyRough, ZoneGreen, ZoneBunker, ZoneTee}
}

func (z Zone) String() string {
	if int(z) < len(zoneNames) {
		return zoneNames[z]
	}
	return fmt.Sprintf("zone(%d)", uint8(z))
}

// ParseZone is the inverse of Zone.String.
func ParseZone(s string) (Zone, error) {
	for i, name := range zoneNames {
		if name == s {
			return Zone(i), nil
		}
	}
	return 0, fmt.Errorf("unknown zone %q", s)
}

// Surface returns the zone used for painting. Greens and tees share the
// fairway surface; they differ only in height.
func (z Zone) Surface() Zone {
	switch z {
	case ZoneGreen, ZoneTee:
		return ZoneFairway
	default:
		return z
	}
}
