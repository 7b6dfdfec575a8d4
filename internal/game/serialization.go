package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/warchess/warchess-go/internal/game/board"
	"github.com/warchess/warchess-go/internal/game/geom"
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/rules"
)

// checksumVersion is bumped whenever the canonical representation changes.
const checksumVersion = 1

// PieceView is a read-only rendering of one piece.
type PieceView struct {
	ID          string       `json:"id"`
	Kind        pieces.Kind  `json:"kind"`
	Name        string       `json:"name"`
	Color       pieces.Color `json:"color"`
	X           int          `json:"x"`
	Y           int          `json:"y"`
	Square      string       `json:"square"`
	HP          int          `json:"hp"`
	MaxHP       int          `json:"maxHp"`
	Dmg         int          `json:"dmg"`
	AP          int          `json:"ap"`
	HasMoved    bool         `json:"hasMoved"`
	ArmorActive *bool        `json:"armorActive,omitempty"`
	BonusHP     *int         `json:"bonusHp,omitempty"`
	ReviveUsed  *bool        `json:"reviveUsed,omitempty"`
}

// View is a complete, detached snapshot of the engine state for renderers.
type View struct {
	GameID        string          `json:"gameId"`
	Size          int             `json:"size"`
	CurrentPlayer pieces.Color    `json:"currentPlayer"`
	Phase         rules.Phase     `json:"phase"`
	Selected      *geom.Position  `json:"selected,omitempty"`
	Acting        *geom.Position  `json:"acting,omitempty"`
	ReviveTargets []geom.Position `json:"reviveTargets,omitempty"`
	FallenPawns   map[string]int  `json:"fallenPawns"`
	GameOver      bool            `json:"gameOver"`
	Winner        *pieces.Color   `json:"winner,omitempty"`
	Pieces        []PieceView     `json:"pieces"`
}

// View builds a snapshot of the current state.
func (g *GameState) View() View {
	v := View{
		GameID:        g.id,
		Size:          g.board.Size(),
		CurrentPlayer: g.currentPlayer,
		Phase:         g.phase,
		ReviveTargets: g.ReviveTargets(),
		FallenPawns: map[string]int{
			pieces.White.String(): g.fallenPawns[pieces.White],
			pieces.Black.String(): g.fallenPawns[pieces.Black],
		},
		GameOver: g.gameOver,
		Pieces:   make([]PieceView, 0, g.board.Count()),
	}
	if g.selected != nil {
		at := g.selected.At
		v.Selected = &at
	}
	if g.acting != nil {
		at := g.acting.At
		v.Acting = &at
	}
	if g.gameOver {
		w := g.winner
		v.Winner = &w
	}
	g.board.ForEachPiece(func(p pieces.Piece, x, y int) {
		v.Pieces = append(v.Pieces, newPieceView(p, x, y))
	})
	return v
}

func newPieceView(p pieces.Piece, x, y int) PieceView {
	a := p.Attrs()
	pv := PieceView{
		ID:       a.ID,
		Kind:     p.Kind(),
		Name:     p.Kind().DisplayName(),
		Color:    a.Owner,
		X:        x,
		Y:        y,
		Square:   board.SquareName(x, y),
		HP:       a.HP,
		MaxHP:    a.MaxHP,
		Dmg:      a.Dmg,
		AP:       a.AP,
		HasMoved: a.HasMoved,
	}
	switch v := p.(type) {
	case *pieces.Tank:
		armor := v.ArmorActive
		pv.ArmorActive = &armor
	case *pieces.LordSolar:
		bonus := v.BonusHP
		pv.BonusHP = &bonus
	case *pieces.Commissar:
		used := v.ReviveUsed
		pv.ReviveUsed = &used
	}
	return pv
}

// Checksum is a digest of the canonical state representation.
type Checksum struct {
	Hash    string
	Version int
}

// ComputeChecksum hashes the canonical representation of the view. Two views
// of identical game state always produce the same hash.
func (v View) ComputeChecksum() Checksum {
	sum := sha256.Sum256([]byte(v.canonical()))
	return Checksum{Hash: hex.EncodeToString(sum[:]), Version: checksumVersion}
}

// canonical renders the view as ordered text: header, then pieces in
// row-major order as produced by View.
func (v View) canonical() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%s|%t\n", v.GameID, v.Size, v.CurrentPlayer, v.Phase, v.GameOver)
	if v.Winner != nil {
		fmt.Fprintf(&buf, "WINNER:%s\n", *v.Winner)
	}
	if v.Selected != nil {
		fmt.Fprintf(&buf, "SELECTED:%d,%d\n", v.Selected.X, v.Selected.Y)
	}
	if v.Acting != nil {
		fmt.Fprintf(&buf, "ACTING:%d,%d\n", v.Acting.X, v.Acting.Y)
	}
	for _, t := range v.ReviveTargets {
		fmt.Fprintf(&buf, "REVIVE_TARGET:%d,%d\n", t.X, t.Y)
	}
	fmt.Fprintf(&buf, "FALLEN:%d|%d\n", v.FallenPawns[pieces.White.String()], v.FallenPawns[pieces.Black.String()])
	for _, p := range v.Pieces {
		fmt.Fprintf(&buf, "PIECE:%s|%s|%s|%d,%d|%d/%d|%d|%d|%t\n",
			p.ID, p.Kind, p.Color, p.X, p.Y, p.HP, p.MaxHP, p.Dmg, p.AP, p.HasMoved)
		if p.ArmorActive != nil {
			fmt.Fprintf(&buf, "  ARMOR:%t\n", *p.ArmorActive)
		}
		if p.BonusHP != nil {
			fmt.Fprintf(&buf, "  BONUS:%d\n", *p.BonusHP)
		}
		if p.ReviveUsed != nil {
			fmt.Fprintf(&buf, "  REVIVE_USED:%t\n", *p.ReviveUsed)
		}
	}
	return buf.String()
}

// Checksum returns the checksum of the current state.
func (g *GameState) Checksum() Checksum {
	return g.View().ComputeChecksum()
}
