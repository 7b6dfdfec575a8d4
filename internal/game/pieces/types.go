package pieces

import (
	"fmt"
	"strings"
)

// Color identifies a side.
type Color int

const (
	White Color = iota
	Black
)

var colorNames = map[Color]string{
	White: "white",
	Black: "black",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COLOR_%d", int(c))
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Forward is the y direction this side's Servitors advance in.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// BackRow is the row holding this side's officers at setup.
func (c Color) BackRow(size int) int {
	if c == White {
		return 0
	}
	return size - 1
}

// PawnRow is the row holding this side's Servitors at setup.
func (c Color) PawnRow(size int) int {
	if c == White {
		return 1
	}
	return size - 2
}

// MarshalText renders the color name for JSON views.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseColor parses "white" or "black", case-insensitively.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	}
	return White, false
}

// Kind identifies one of the six piece variants.
type Kind int

const (
	KindServitor Kind = iota
	KindSniperScout
	KindKnightArmiger
	KindTank
	KindCommissar
	KindLordSolar
)

// AllKinds lists every kind in declaration order.
var AllKinds = []Kind{
	KindServitor,
	KindSniperScout,
	KindKnightArmiger,
	KindTank,
	KindCommissar,
	KindLordSolar,
}

var kindNames = map[Kind]string{
	KindServitor:      "servitor",
	KindSniperScout:   "sniper_scout",
	KindKnightArmiger: "knight_armiger",
	KindTank:          "tank",
	KindCommissar:     "commissar",
	KindLordSolar:     "lord_solar",
}

var kindDisplayNames = map[Kind]string{
	KindServitor:      "Servitor",
	KindSniperScout:   "Sniper Scout",
	KindKnightArmiger: "Knight Armiger",
	KindTank:          "Tank",
	KindCommissar:     "Commissar",
	KindLordSolar:     "Lord Solar",
}

// kindAliases maps the classic chess names onto the variants.
var kindAliases = map[string]Kind{
	"pawn":   KindServitor,
	"bishop": KindSniperScout,
	"knight": KindKnightArmiger,
	"rook":   KindTank,
	"queen":  KindCommissar,
	"king":   KindLordSolar,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// DisplayName is the human-facing name, e.g. "Lord Solar".
func (k Kind) DisplayName() string {
	if name, ok := kindDisplayNames[k]; ok {
		return name
	}
	return k.String()
}

// Valid reports whether k is one of the six variants.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// MarshalText renders the canonical kind name for JSON views.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind accepts canonical names ("sniper_scout"), display names
// ("Sniper Scout") and classic aliases ("bishop").
func ParseKind(s string) (Kind, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for k, name := range kindNames {
		if name == norm || strings.ReplaceAll(name, "_", "") == norm {
			return k, true
		}
	}
	if k, ok := kindAliases[norm]; ok {
		return k, true
	}
	return KindServitor, false
}

// KindStrings lists canonical kind names, for error messages.
func KindStrings() []string {
	out := make([]string, 0, len(AllKinds))
	for _, k := range AllKinds {
		out = append(out, k.String())
	}
	return out
}
