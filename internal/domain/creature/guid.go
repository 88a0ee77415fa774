package creature

import (
	"fmt"
	"strconv"
	"strings"
)

// HighGUID is the object-type half of a GUID.
type HighGUID uint8

const (
	HighNone HighGUID = iota
	HighPlayer
	HighUnit
	HighPet
	HighGameObject
)

var highNames = map[HighGUID]string{
	HighNone:       "none",
	HighPlayer:     "player",
	HighUnit:       "unit",
	HighPet:        "pet",
	HighGameObject: "gameobject",
}

func (h HighGUID) String() string {
	if s, ok := highNames[h]; ok {
		return s
	}
	return "unknown"
}

// ParseHighGUID maps a content/config name to a HighGUID.
func ParseHighGUID(s string) (HighGUID, error) {
	for h, name := range highNames {
		if strings.EqualFold(name, s) {
			return h, nil
		}
	}
	return HighNone, fmt.Errorf("unknown guid type %q", s)
}

// GUID identifies a world object. The zero value is the empty GUID.
type GUID struct {
	High    HighGUID
	Counter uint32
}

// NewGUID builds a GUID.
func NewGUID(high HighGUID, counter uint32) GUID {
	return GUID{High: high, Counter: counter}
}

// IsEmpty reports whether g refers to nothing.
func (g GUID) IsEmpty() bool { return g.High == HighNone && g.Counter == 0 }

// IsPlayer reports whether g refers to a player.
func (g GUID) IsPlayer() bool { return g.High == HighPlayer }

func (g GUID) String() string {
	if g.IsEmpty() {
		return "none"
	}
	return g.High.String() + ":" + strconv.FormatUint(uint64(g.Counter), 10)
}

// ParseGUID parses the String form ("player:12", "unit:4001", "none" or "").
func ParseGUID(s string) (GUID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return GUID{}, nil
	}
	kind, counter, ok := strings.Cut(s, ":")
	if !ok {
		return GUID{}, fmt.Errorf("malformed guid %q: want type:counter", s)
	}
	high, err := ParseHighGUID(kind)
	if err != nil {
		return GUID{}, err
	}
	n, err := strconv.ParseUint(counter, 10, 32)
	if err != nil {
		return GUID{}, fmt.Errorf("malformed guid %q: %w", s, err)
	}
	return GUID{High: high, Counter: uint32(n)}, nil
}
