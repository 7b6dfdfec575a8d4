package pieces

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUnknownKind is returned when asked for a piece kind the factory cannot build.
var ErrUnknownKind = errors.New("unknown piece kind")

// Stats are the base statistics a piece is created with.
type Stats struct {
	HP  int
	Dmg int
}

// DefaultStats returns the standard hp/dmg table.
func DefaultStats() map[Kind]Stats {
	return map[Kind]Stats{
		KindServitor:      {HP: 6, Dmg: 1},
		KindSniperScout:   {HP: 8, Dmg: 2},
		KindKnightArmiger: {HP: 10, Dmg: 2},
		KindTank:          {HP: 14, Dmg: 2},
		KindCommissar:     {HP: 12, Dmg: 3},
		KindLordSolar:     {HP: 16, Dmg: 2},
	}
}

// Factory builds fully-initialized pieces from a stats table.
type Factory struct {
	stats map[Kind]Stats
	newID func() string
}

// NewFactory copies the given stats table. A nil table means DefaultStats.
func NewFactory(stats map[Kind]Stats) *Factory {
	if stats == nil {
		stats = DefaultStats()
	}
	table := make(map[Kind]Stats, len(stats))
	for k, s := range stats {
		table[k] = s
	}
	return &Factory{stats: table, newID: uuid.NewString}
}

// Stats returns the base statistics for kind.
func (f *Factory) Stats(kind Kind) (Stats, bool) {
	s, ok := f.stats[kind]
	return s, ok
}

// Create builds a new piece of the given kind and color.
func (f *Factory) Create(kind Kind, color Color) (Piece, error) {
	stats, ok := f.stats[kind]
	if !ok || !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	attrs := newAttributes(f.newID(), color, stats)
	switch kind {
	case KindServitor:
		return &Servitor{Attributes: attrs}, nil
	case KindSniperScout:
		return &SniperScout{Attributes: attrs}, nil
	case KindKnightArmiger:
		return &KnightArmiger{Attributes: attrs}, nil
	case KindTank:
		return &Tank{Attributes: attrs, ArmorActive: true}, nil
	case KindCommissar:
		return &Commissar{Attributes: attrs}, nil
	case KindLordSolar:
		return &LordSolar{Attributes: attrs}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// CreateNamed resolves name with ParseKind and builds the piece.
func (f *Factory) CreateNamed(name string, color Color) (Piece, error) {
	kind, ok := ParseKind(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownKind, name, KindStrings())
	}
	return f.Create(kind, color)
}
