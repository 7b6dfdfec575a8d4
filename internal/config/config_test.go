package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warchess/warchess-go/internal/game/pieces"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warchess.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Logging.File)
	assert.True(t, cfg.UI.ShowLegend)
	assert.True(t, cfg.UI.Mouse)
	assert.Equal(t, "127.0.0.1:8080", cfg.Web.Addr)
	assert.Equal(t, pieces.DefaultStats(), cfg.PieceStats())
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesStats(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
pieces:
  tank:
    hp: 20
    dmg: 4
ui:
  show_legend: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.UI.ShowLegend)

	stats := cfg.PieceStats()
	assert.Equal(t, pieces.Stats{HP: 20, Dmg: 4}, stats[pieces.KindTank])
	assert.Equal(t, pieces.Stats{HP: 16, Dmg: 2}, stats[pieces.KindLordSolar])
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WARCHESS_LOGGING_LEVEL", "warn")
	t.Setenv("WARCHESS_PIECES_SERVITOR_HP", "9")
	t.Setenv("WARCHESS_WEB_ADDR", "127.0.0.1:9999")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9999", cfg.Web.Addr)
	assert.Equal(t, 9, cfg.PieceStats()[pieces.KindServitor].HP)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"
	cfg.Pieces["dragon"] = PieceConfig{HP: 5, Dmg: 1}
	cfg.Pieces["tank"] = PieceConfig{HP: 0, Dmg: -1}
	cfg.Web.Addr = " "

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "6 errors occurred")
	assert.Contains(t, msg, "logging.level")
	assert.Contains(t, msg, "logging.format")
	assert.Contains(t, msg, "pieces.dragon")
	assert.Contains(t, msg, "pieces.tank.hp")
	assert.Contains(t, msg, "pieces.tank.dmg")
	assert.Contains(t, msg, "web.addr")
	assert.ErrorIs(t, err, pieces.ErrUnknownKind)
}

func TestLoadRejectsUnknownPiece(t *testing.T) {
	path := writeConfig(t, `
pieces:
  wizard:
    hp: 3
    dmg: 3
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, pieces.ErrUnknownKind)
}

func TestLoadAliasOverrideKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
pieces:
  rook:
    hp: 20
`)
	for i := 0; i < 50; i++ {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, pieces.Stats{HP: 20, Dmg: 2}, cfg.PieceStats()[pieces.KindTank])
		assert.Len(t, cfg.Pieces, len(pieces.AllKinds))
		assert.NotContains(t, cfg.Pieces, "rook")
	}
}

func TestLoadAliasAndCanonicalMerge(t *testing.T) {
	path := writeConfig(t, `
pieces:
  queen:
    dmg: 5
  commissar:
    hp: 30
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pieces.Stats{HP: 30, Dmg: 5}, cfg.PieceStats()[pieces.KindCommissar])
}

func TestLoadAliasConflict(t *testing.T) {
	path := writeConfig(t, `
pieces:
  tank:
    hp: 18
  rook:
    hp: 20
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pieces.rook.hp and pieces.tank.hp both set tank")
}
