package ammo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/customloads/internal/model"
)

func TestRecord_RoundTrip(t *testing.T) {
	reg := catalog(t)
	orig := dragonLoad(t, reg)
	orig.lock()

	rec := orig.ToRecord()
	assert.Equal(t, model.DraftRecord{
		Name:           "CustomAmmo_dragon",
		Label:          "Dragon",
		Designation:    "DRG",
		IsLocked:       true,
		PowderLoad:     2,
		AmmoTemplate:   ammo556,
		BulletTemplate: "Bullet_556x45mmNATO_FMJ",
		Gunpowder:      "SmokelessPowder",
		Parts: map[string]string{
			"core":   "SteelPenetrator",
			"tip":    "IncendiaryTip",
			"casing": "PolymerCasing",
		},
	}, rec)

	back := FromRecord(reg, rec)
	require.False(t, back.IsErrored())
	assert.True(t, back.IsLocked())
	assert.False(t, back.IsRegistered())
	assert.Equal(t, orig.MergedMods(), back.MergedMods())
	assert.Equal(t, orig.TechnicalDescription(), back.TechnicalDescription())
	assert.Equal(t, orig.Template().Set, back.Template().Set)
}

func TestFromRecord_Unresolved(t *testing.T) {
	reg := catalog(t)
	rec := model.DraftRecord{
		Name:           "CustomAmmo_lost",
		Label:          "Lost",
		Designation:    "LST",
		PowderLoad:     1,
		AmmoTemplate:   ammo556,
		BulletTemplate: "Bullet_556x45mmNATO_FMJ",
		Parts: map[string]string{
			"core":   "Unobtainium",
			"casing": "SteelPenetrator",
			"barrel": "Steel",
			"tip":    "PolymerTip",
		},
	}

	c := FromRecord(reg, rec)

	assert.True(t, c.IsErrored())
	// unknown part names first, then materials in part order
	assert.Equal(t, []string{
		"part barrel",
		"material Unobtainium",
		"material SteelPenetrator for casing",
	}, c.Unresolved())
	assert.ErrorIs(t, c.GenerateDefs(reg, false), ErrErrored)
	assert.Equal(t, ErroredText, c.TechnicalDescription())

	// saving keeps the unresolved selections
	c.SetLabel("Found")
	out := c.ToRecord()
	assert.Equal(t, rec.Parts, out.Parts)
	assert.Equal(t, "Found", out.Label)
}

func TestFromRecord_MissingTemplate(t *testing.T) {
	reg := catalog(t)
	c := FromRecord(reg, model.DraftRecord{
		Name:           "CustomAmmo_gone",
		AmmoTemplate:   "Ammo_Removed",
		BulletTemplate: "Bullet_Removed",
		Gunpowder:      "Blackpowder",
	})

	assert.True(t, c.IsErrored())
	assert.Equal(t, []string{"ammo Ammo_Removed", "projectile Bullet_Removed", "gunpowder Blackpowder"}, c.Unresolved())
}

func TestFromRecord_ClampsPowderLoad(t *testing.T) {
	reg := catalog(t)
	rec := model.DraftRecord{
		Name:           "CustomAmmo_plain",
		AmmoTemplate:   ammo556,
		BulletTemplate: "Bullet_556x45mmNATO_FMJ",
	}

	rec.PowderLoad = 9
	c := FromRecord(reg, rec)
	assert.Equal(t, model.MaxPowderLoad, c.PowderLoad())
	assert.Same(t, reg.DefaultGunpowder(), c.Gunpowder())

	rec.PowderLoad = -7
	assert.Equal(t, model.MinPowderLoad, FromRecord(reg, rec).PowderLoad())
}
