package model

// StatMod is one source's contribution to an external stat.
// Material is nil for propellant stages.
type StatMod struct {
	Part     BulletPart
	Material *BulletMaterial
	Mod      ModData
	StatName string
}

// SourceLabel names the contribution for explanations ("Steel core", "propellant").
func (s StatMod) SourceLabel() string {
	if s.Material == nil {
		return s.Part.Label()
	}
	return CapitalizeFirst(s.Material.TechLabel()) + " " + s.Part.Label()
}

// AmmoExtension is attached to derived ammo and read by the stat pipeline.
type AmmoExtension struct {
	StatMods map[string][]StatMod

	// Merged is the merged modifier array the ammo was derived from.
	Merged []ModData
}

// NewAmmoExtension returns an empty extension.
func NewAmmoExtension() *AmmoExtension {
	return &AmmoExtension{StatMods: make(map[string][]StatMod)}
}

// Add appends m under its stat name.
func (e *AmmoExtension) Add(m StatMod) {
	if e.StatMods == nil {
		e.StatMods = make(map[string][]StatMod)
	}
	e.StatMods[m.StatName] = append(e.StatMods[m.StatName], m)
}

// For returns the contributions for stat, nil when there are none.
func (e *AmmoExtension) For(stat string) []StatMod {
	if e == nil {
		return nil
	}
	return e.StatMods[stat]
}
