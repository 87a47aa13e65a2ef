// Package ammo composes custom ammunition loads.
//
// A load picks one material per bullet part plus a propellant charge. The modifiers
// of every selected part are merged into one net modifier per stat, a template
// ammo/projectile pair is cloned and the merged modifiers are applied to it.
// Derived definitions can be previewed or registered into the definition registry.
package ammo

import (
	"log/slog"

	"github.com/udisondev/customloads/internal/model"
)

// Merged is the net modifier per stat. Every entry carries its stat, untouched
// stats stay at identity.
type Merged [model.StatCount]model.ModData

// IdentityMerged returns a Merged with every stat at identity.
func IdentityMerged() Merged {
	var m Merged
	for i := range m {
		m[i] = model.NewModData(model.StatID(i))
	}
	return m
}

// Mod returns the merged modifier for stat. Unknown stats return identity.
func (m Merged) Mod(stat model.StatID) model.ModData {
	if !stat.Valid() {
		return model.ModData{Stat: stat, Coefficient: 1}
	}
	return m[stat]
}

// Slice returns a copy of the entries in stat order.
func (m Merged) Slice() []model.ModData {
	out := make([]model.ModData, len(m))
	copy(out, m[:])
	return out
}

// Source is one contributing modifier set. Material is nil for the propellant stage.
type Source struct {
	Part     model.BulletPart
	Material *model.BulletMaterial
	Set      *model.PartModifierSet
}

// Label names the source for explanations ("Steel core", "propellant").
func (s Source) Label() string {
	return model.StatMod{Part: s.Part, Material: s.Material}.SourceLabel()
}

// Sources lists the contributing sets: occupied parts in BulletPart order, then the
// resolved gunpowder stage. Parts whose material has no set for them are skipped.
func Sources(parts map[model.BulletPart]*model.BulletMaterial, gp *model.GunpowderEffects, powder int) []Source {
	out := make([]Source, 0, len(parts)+1)
	for _, part := range model.AllBulletParts() {
		mat := parts[part]
		if mat == nil {
			continue
		}
		set := mat.TryGetModFor(part)
		if set == nil {
			slog.Warn("material does not apply to part", "material", mat.Name, "part", part)
			continue
		}
		out = append(out, Source{Part: part, Material: mat, Set: set})
	}
	if stage := gp.StageFor(powder); stage != nil {
		out = append(out, Source{Part: model.PartPowder, Set: stage})
	}
	return out
}

// Merge reduces the selected parts and the gunpowder stage for powder into net modifiers.
func Merge(parts map[model.BulletPart]*model.BulletMaterial, gp *model.GunpowderEffects, powder int) Merged {
	return MergeSources(Sources(parts, gp, powder))
}

// MergeSources merges the sets of srcs.
func MergeSources(srcs []Source) Merged {
	sets := make([]*model.PartModifierSet, len(srcs))
	for i, s := range srcs {
		sets[i] = s.Set
	}
	return MergeSets(sets...)
}

// MergeSets is the underlying reduction: coefficients add their deltas from identity,
// offsets add. Nil sets are ignored. The result does not depend on argument order.
func MergeSets(sets ...*model.PartModifierSet) Merged {
	out := IdentityMerged()
	for _, set := range sets {
		if set == nil {
			continue
		}
		for i, mod := range set.Mods {
			if mod == nil {
				continue
			}
			if mod.Stat != model.StatID(i) {
				violated("modifier stored under the wrong stat", "slot", model.StatID(i), "stat", mod.Stat)
				continue
			}
			m := *mod
			if m.Stat == model.StatRateOfFire && m.Offset != 0 {
				slog.Error("RateOfFire offset should not be used!", "offset", m.Offset)
				m.Offset = 0
			}
			out[i] = out[i].Combine(m)
		}
	}
	return out
}

// SecondaryDamages collects the secondary damages of srcs in source order.
func SecondaryDamages(srcs []Source) []model.SecondaryDamage {
	var out []model.SecondaryDamage
	for _, s := range srcs {
		out = append(out, s.Set.SecondaryDamages...)
	}
	return out
}

// DisabledParts is the union of the disable masks of srcs.
func DisabledParts(srcs []Source) model.BulletPart {
	var mask model.BulletPart
	for _, s := range srcs {
		mask |= s.Set.Disables
	}
	return mask
}
