package ai

import (
	"fmt"
	"strings"
)

// Intent is what a controller decided to do on a tick.
type Intent int32

const (
	// IntentNone means the controller produced no behaviour.
	IntentNone Intent = iota
	IntentIdle
	IntentAttack
	IntentFollowOwner
	IntentAssistOwner
	IntentEvade
	IntentCastTotemSpell
	IntentCallForHelp
	// IntentObey waits for orders from whoever possesses the creature.
	IntentObey
	// IntentScripted is a script-defined action with no native meaning.
	IntentScripted
)

var intentNames = [...]string{
	IntentNone:           "none",
	IntentIdle:           "idle",
	IntentAttack:         "attack",
	IntentFollowOwner:    "follow_owner",
	IntentAssistOwner:    "assist_owner",
	IntentEvade:          "evade",
	IntentCastTotemSpell: "cast_totem_spell",
	IntentCallForHelp:    "call_for_help",
	IntentObey:           "obey",
	IntentScripted:       "scripted",
}

func (i Intent) String() string {
	if i >= 0 && int(i) < len(intentNames) {
		return intentNames[i]
	}
	return "unknown"
}

// ParseIntent maps a name produced by String back to an Intent.
func ParseIntent(s string) (Intent, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range intentNames {
		if name == s {
			return Intent(i), nil
		}
	}
	return IntentNone, fmt.Errorf("unknown intent %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}
