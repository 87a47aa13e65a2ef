package ammo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/customloads/internal/model"
)

func assertMergedEqual(t *testing.T, want, got Merged) {
	t.Helper()
	for i := range want {
		assert.Equal(t, want[i].Stat, got[i].Stat)
		assert.InDelta(t, want[i].Coefficient, got[i].Coefficient, 1e-9, "coefficient of %s", want[i].Stat)
		assert.InDelta(t, want[i].Offset, got[i].Offset, 1e-9, "offset of %s", want[i].Stat)
	}
}

func TestMergeSets_OrderIndependent(t *testing.T) {
	reg := catalog(t)

	var sets []*model.PartModifierSet
	for _, mat := range reg.Materials() {
		sets = append(sets, mat.Mods...)
	}
	for _, st := range reg.DefaultGunpowder().Stages {
		sets = append(sets, st.Effects)
	}
	require.NotEmpty(t, sets)

	want := MergeSets(sets...)
	rng := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		shuffled := append([]*model.PartModifierSet(nil), sets...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assertMergedEqual(t, want, MergeSets(shuffled...))
	}
}

func TestMergeSets_Associative(t *testing.T) {
	a := modSet(model.PartCore, model.ModData{Stat: model.StatDamage, Coefficient: 1.2, Offset: 1})
	b := modSet(model.PartTip, model.ModData{Stat: model.StatDamage, Coefficient: 0.7})
	c := modSet(model.PartCasing, model.ModData{Stat: model.StatMass, Coefficient: 0.9, Offset: 0.001})

	ab := MergeSets(a, b)
	abSet := &model.PartModifierSet{}
	for _, m := range ab.Slice() {
		abSet.SetMod(m)
	}

	assertMergedEqual(t, MergeSets(a, b, c), MergeSets(abSet, c))
	assert.InDelta(t, 0.9, ab.Mod(model.StatDamage).Coefficient, 1e-9)
	assert.InDelta(t, 1, ab.Mod(model.StatDamage).Offset, 1e-9)
}

func TestMerge_Identity(t *testing.T) {
	reg := catalog(t)

	got := Merge(nil, reg.DefaultGunpowder(), 0)
	assertMergedEqual(t, IdentityMerged(), got)

	for _, m := range got {
		assert.True(t, m.IsIdentity(), m.Stat.String())
	}
	assert.Equal(t, model.StatMass, got.Mod(model.StatMass).Stat)
}

func TestMerge_UnknownPowderUsesDefaultStage(t *testing.T) {
	reg := catalog(t)
	gp := reg.DefaultGunpowder()

	srcs := Sources(nil, gp, 99)
	require.Len(t, srcs, 1)
	assert.Same(t, gp.Stages[0].Effects, srcs[0].Set)
	assert.Equal(t, "propellant", srcs[0].Label())
}

func TestSources_Order(t *testing.T) {
	reg := catalog(t)
	parts := map[model.BulletPart]*model.BulletMaterial{
		model.PartCasing: material(t, reg, "PolymerCasing"),
		model.PartCore:   material(t, reg, "SteelPenetrator"),
		model.PartTip:    material(t, reg, "IncendiaryTip"),
	}

	srcs := Sources(parts, reg.DefaultGunpowder(), 2)
	require.Len(t, srcs, 4)
	assert.Equal(t, model.PartCore, srcs[0].Part)
	assert.Equal(t, model.PartTip, srcs[1].Part)
	assert.Equal(t, model.PartCasing, srcs[2].Part)
	assert.Equal(t, model.PartPowder, srcs[3].Part)
	assert.Nil(t, srcs[3].Material)
	assert.Equal(t, "Steel core", srcs[0].Label())
}

func TestMergeSets_RateOfFireOffsetIgnored(t *testing.T) {
	s := modSet(model.PartCasing, model.ModData{Stat: model.StatRateOfFire, Coefficient: 1.1, Offset: 50})

	got := MergeSets(s).Mod(model.StatRateOfFire)
	assert.InDelta(t, 1.1, got.Coefficient, 1e-9)
	assert.Zero(t, got.Offset)
	// source set untouched
	assert.InDelta(t, 50, s.Mod(model.StatRateOfFire).Offset, 1e-9)
}

func TestMergeSets_SlotMismatchPanics(t *testing.T) {
	bad := &model.PartModifierSet{Parts: model.PartCore}
	bad.Mods[model.StatDamage] = &model.ModData{Stat: model.StatSpeed, Coefficient: 2}

	assert.Panics(t, func() { MergeSets(bad) })
}

func TestMergeSets_SlotMismatchLoggedInRelease(t *testing.T) {
	strictInvariants = false
	t.Cleanup(func() { strictInvariants = true })

	bad := &model.PartModifierSet{Parts: model.PartCore}
	bad.Mods[model.StatDamage] = &model.ModData{Stat: model.StatSpeed, Coefficient: 2}

	var got Merged
	assert.NotPanics(t, func() { got = MergeSets(bad) })
	assert.True(t, got.Mod(model.StatDamage).IsIdentity())
	assert.True(t, got.Mod(model.StatSpeed).IsIdentity())
}

func TestDisabledParts(t *testing.T) {
	reg := catalog(t)
	parts := map[model.BulletPart]*model.BulletMaterial{
		model.PartCore:   material(t, reg, "SabotPenetrator"),
		model.PartJacket: material(t, reg, "SabotPenetrator"),
	}

	srcs := Sources(parts, nil, 0)
	require.Len(t, srcs, 2)
	assert.Equal(t, model.PartTip, DisabledParts(srcs))
	assert.Empty(t, SecondaryDamages(srcs))
}
