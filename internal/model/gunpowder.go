package model

import "fmt"

// Powder load bounds accepted by the editor.
const (
	MinPowderLoad = -3
	MaxPowderLoad = 4
)

// DefaultGunpowderCostPerBullet is the propellant cost used when a table does not set one.
const DefaultGunpowderCostPerBullet = 0.1

// GunpowderStage maps a powder load level to its effects.
type GunpowderStage struct {
	Powder  int
	Effects *PartModifierSet
}

// GunpowderEffects is the stage table for propellant charge, treated as an implicit part.
type GunpowderEffects struct {
	Name          string
	Material      *Item
	CostPerBullet float64
	Stages        []GunpowderStage
}

func (g *GunpowderEffects) DefName() string { return g.Name }
func (g *GunpowderEffects) Kind() DefKind   { return KindGunpowder }

// TryGetMod returns the effects of the stage with exactly the given load, or nil.
func (g *GunpowderEffects) TryGetMod(powder int) *PartModifierSet {
	if g == nil {
		return nil
	}
	for i := range g.Stages {
		if g.Stages[i].Powder == powder {
			return g.Stages[i].Effects
		}
	}
	return nil
}

// StageFor returns the effects for powder, falling back to the first (default) stage.
func (g *GunpowderEffects) StageFor(powder int) *PartModifierSet {
	if g == nil || len(g.Stages) == 0 {
		return nil
	}
	if mod := g.TryGetMod(powder); mod != nil {
		return mod
	}
	return g.Stages[0].Effects
}

// ConfigErrors validates the stage table.
func (g *GunpowderEffects) ConfigErrors() []string {
	var errs []string
	if len(g.Stages) == 0 {
		errs = append(errs, "gunpowder table has no stages")
	}
	seen := make(map[int]struct{}, len(g.Stages))
	for _, st := range g.Stages {
		if _, dup := seen[st.Powder]; dup {
			errs = append(errs, fmt.Sprintf("duplicate gunpowder stage %d", st.Powder))
		}
		seen[st.Powder] = struct{}{}
		if st.Effects == nil {
			errs = append(errs, fmt.Sprintf("gunpowder stage %d has no effects", st.Powder))
			continue
		}
		errs = append(errs, st.Effects.ConfigErrors()...)
	}
	return errs
}
