package model

import "fmt"

// SecondaryDamage is an extra damage instance applied by a projectile on hit.
type SecondaryDamage struct {
	DamageType string
	Amount     int
	Chance     float64 // 0..1, 1 = always
}

// PartModifierSet is one material's modifiers for the bullet parts in Parts.
type PartModifierSet struct {
	Parts           BulletPart // parts this set applies to
	Disables        BulletPart // parts made unavailable while this set is selected
	Desc            string     // optional flavor text
	OverrideTexture string

	Mods             [StatCount]*ModData // nil = no effect for that stat
	SecondaryDamages []SecondaryDamage

	description string
	summary     string
	cached      bool
}

// Mod returns the modifier for stat, or nil when the set does not touch it.
func (s *PartModifierSet) Mod(stat StatID) *ModData {
	if s == nil || !stat.Valid() {
		return nil
	}
	return s.Mods[stat]
}

// SetMod stores m under its stat and invalidates cached text.
func (s *PartModifierSet) SetMod(m ModData) {
	if !m.Stat.Valid() {
		return
	}
	mod := m
	s.Mods[m.Stat] = &mod
	s.Refresh()
}

// PresentMods returns copies of every non-nil modifier in stat order.
func (s *PartModifierSet) PresentMods() []ModData {
	if s == nil {
		return nil
	}
	out := make([]ModData, 0, StatCount)
	for _, m := range s.Mods {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// Refresh drops cached descriptions. Call after mutating Mods or SecondaryDamages directly.
func (s *PartModifierSet) Refresh() {
	s.description = ""
	s.summary = ""
	s.cached = false
}

// Description renders the set including its flavor text.
func (s *PartModifierSet) Description() string {
	s.fillCache()
	return s.description
}

// Summary renders the set without flavor text.
func (s *PartModifierSet) Summary() string {
	s.fillCache()
	return s.summary
}

func (s *PartModifierSet) fillCache() {
	if s.cached {
		return
	}
	mods := s.PresentMods()
	s.description = Describe(mods, s.SecondaryDamages, s.Desc)
	s.summary = Describe(mods, s.SecondaryDamages, "")
	s.cached = true
}

// ConfigErrors reports problems in the set's data. None of them are fatal.
func (s *PartModifierSet) ConfigErrors() []string {
	var errs []string
	if s.Parts == PartNone {
		errs = append(errs, "modifier set applies to no bullet part")
	}
	for i, m := range s.Mods {
		if m == nil {
			continue
		}
		if m.Stat != StatID(i) {
			errs = append(errs, fmt.Sprintf("modifier stored under %s is bound to %s", StatID(i), m.Stat))
		}
	}
	if rof := s.Mods[StatRateOfFire]; rof != nil && rof.Offset != 0 {
		errs = append(errs, "rateOfFire offset should not be used, only a coefficient")
	}
	for _, d := range s.SecondaryDamages {
		if d.DamageType == "" {
			errs = append(errs, "secondary damage without a damage type")
		}
		if d.Chance <= 0 || d.Chance > 1 {
			errs = append(errs, fmt.Sprintf("secondary damage %s has chance %v outside (0, 1]", d.DamageType, d.Chance))
		}
	}
	return errs
}
