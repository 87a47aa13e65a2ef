package ammo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/customloads/internal/data"
	"github.com/udisondev/customloads/internal/model"
	"github.com/udisondev/customloads/internal/registry"
)

const (
	set556  = "AmmoSet_556x45mmNATO"
	ammo556 = "Ammo_556x45mmNATO_FMJ"
)

func TestMain(m *testing.M) {
	strictInvariants = true
	os.Exit(m.Run())
}

// catalog returns a registry loaded with the embedded default catalog.
func catalog(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, data.LoadCatalog(context.Background(), reg, data.DefaultCatalog()))
	return reg
}

func template556(t *testing.T, reg *registry.Registry) Template {
	t.Helper()
	tmpl, ok := NewManager(reg, nil, 0).FMJTemplate(reg.AmmoSet(set556))
	require.True(t, ok)
	return tmpl
}

func material(t *testing.T, reg *registry.Registry, name string) *model.BulletMaterial {
	t.Helper()
	m := reg.Material(name)
	require.NotNil(t, m, name)
	return m
}

// dragonLoad is a 5.56 load with a steel core, incendiary tip, polymer casing and +2 powder.
func dragonLoad(t *testing.T, reg *registry.Registry) *CustomLoad {
	t.Helper()
	c := NewCustomLoad("CustomAmmo_dragon", template556(t, reg), reg.DefaultGunpowder())
	require.NoError(t, c.SetPart(model.PartCore, material(t, reg, "SteelPenetrator")))
	require.NoError(t, c.SetPart(model.PartTip, material(t, reg, "IncendiaryTip")))
	require.NoError(t, c.SetPart(model.PartCasing, material(t, reg, "PolymerCasing")))
	require.NoError(t, c.SetPowderLoad(2))
	c.SetLabel("Dragon")
	c.SetDesignation("drg")
	return c
}

func modSet(parts model.BulletPart, mods ...model.ModData) *model.PartModifierSet {
	s := &model.PartModifierSet{Parts: parts}
	for _, m := range mods {
		s.SetMod(m)
	}
	return s
}
