package model

import (
	"fmt"
	"strings"
)

// DefaultCostPerBullet is the material cost used when a material does not set one.
const DefaultCostPerBullet = 0.01

// BulletMaterial — материал, из которого можно сделать одну или несколько частей пули.
type BulletMaterial struct {
	Name          string
	Label         string // optional, falls back to the material item label
	Material      *Item
	ExtraDesc     string
	CostPerBullet float64
	Tint          string

	Mods []*PartModifierSet
}

func (m *BulletMaterial) DefName() string { return m.Name }
func (m *BulletMaterial) Kind() DefKind   { return KindMaterial }

// TechLabel is the short label used in technical descriptions ("lead", "steel").
func (m *BulletMaterial) TechLabel() string {
	if strings.TrimSpace(m.Label) != "" {
		return m.Label
	}
	if m.Material != nil {
		return m.Material.Label
	}
	return m.Name
}

// TryGetModFor returns the first modifier set that applies to part, or nil.
func (m *BulletMaterial) TryGetModFor(part BulletPart) *PartModifierSet {
	if m == nil {
		return nil
	}
	for _, mod := range m.Mods {
		if mod.Parts.Has(part) {
			return mod
		}
	}
	return nil
}

// CanApplyTo reports whether the material has a modifier set for part.
func (m *BulletMaterial) CanApplyTo(part BulletPart) bool {
	return m.TryGetModFor(part) != nil
}

// ConfigErrors validates the material definition.
func (m *BulletMaterial) ConfigErrors() []string {
	var errs []string
	if m.Material == nil {
		errs = append(errs, "missing material in this bullet material")
	}
	if len(m.Mods) == 0 {
		errs = append(errs, "this bullet material has no mods defined")
	}
	if m.CostPerBullet < 0 {
		errs = append(errs, fmt.Sprintf("negative cost per bullet %v", m.CostPerBullet))
	}

	var seen BulletPart
	for _, mod := range m.Mods {
		for _, part := range allBulletParts {
			if !mod.Parts.Has(part) {
				continue
			}
			if seen.Has(part) {
				errs = append(errs, fmt.Sprintf("multiple mods apply to %s, there should be at most 1 mod per bullet part", part))
			}
			seen |= part
		}
		errs = append(errs, mod.ConfigErrors()...)
	}
	return errs
}
