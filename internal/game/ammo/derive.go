package ammo

import (
	"errors"
	"log/slog"

	"github.com/udisondev/customloads/internal/model"
)

// Derivation bounds.
const (
	MinDamage      = 1
	MaxMinSpeed    = 10.0 // derived speed never drops below min(MaxMinSpeed, template speed)
	MinPelletCount = 1
	MinMass        = 0.001
)

// GeneratedDescription is the ammo description until registration replaces it.
const GeneratedDescription = "<Runtime-generated def>"

// ErrMissingTemplate is returned when a derivation has no template to clone.
var ErrMissingTemplate = errors.New("template ammo or projectile is missing")

// Template is the baseline a custom load is derived from.
type Template struct {
	Set        *model.AmmoSet
	Ammo       *model.AmmoDef
	Projectile *model.ProjectileDef
}

// Valid reports whether both template definitions are present.
func (t Template) Valid() bool {
	return t.Ammo != nil && t.Projectile != nil
}

// DeriveInput holds everything Derive needs. Sources must be the sets Merged was built from.
type DeriveInput struct {
	Name     string
	Template Template
	Merged   Merged
	Sources  []Source
}

// Derived is a cloned and modified ammo/projectile pair.
type Derived struct {
	Ammo       *model.AmmoDef
	Projectile *model.ProjectileDef
}

// Derive clones the template and applies the merged modifiers. Nothing is registered.
//
// Transforms run in a fixed order: damage, speed, armor penetration, pellet count, mass.
// Rate of fire and stats bound to the gun are exported through the ammo extension,
// secondary damages of every source are appended to the projectile.
func Derive(in DeriveInput) (*Derived, error) {
	if !in.Template.Valid() {
		return nil, ErrMissingTemplate
	}

	ammo := in.Template.Ammo.Clone()
	ammo.Name = in.Name
	ammo.Label = in.Name
	ammo.Description = GeneratedDescription
	ammo.MenuHidden = false
	ammo.Tradeable = false
	ammo.Generated = true

	proj := in.Template.Projectile.Clone()
	proj.Name = in.Name + "_bullet"
	proj.Label = in.Name + " bullet"
	proj.Description = in.Name
	ammo.CookOffProjectile = proj.Name

	m := in.Merged
	minSpeed := min(MaxMinSpeed, proj.Speed)

	proj.Damage = m[model.StatDamage].ApplyInt(proj.Damage, MinDamage)
	proj.Speed = max(minSpeed, m[model.StatSpeed].Apply(proj.Speed))
	proj.APSharp = max(0, m[model.StatAPSharp].Apply(proj.APSharp))
	proj.APBlunt = max(0, m[model.StatAPBlunt].Apply(proj.APBlunt))
	proj.PelletCount = m[model.StatPelletCount].ApplyInt(proj.PelletCount, MinPelletCount)
	ammo.Mass = max(MinMass, m[model.StatMass].Apply(ammo.Mass))

	ammo.Extension = StatMods(in.Sources)
	ammo.Extension.Merged = m.Slice()

	proj.SecondaryDamage = append(proj.SecondaryDamage, SecondaryDamages(in.Sources)...)

	return &Derived{Ammo: ammo, Projectile: proj}, nil
}

// StatMods builds the external-stat modifier table of srcs.
//
// Rate of fire is a property of the gun: each source's coefficient c becomes a
// TicksBetweenBurstShots coefficient of 1/c. Other stats with an external binding
// are exported as is.
func StatMods(srcs []Source) *model.AmmoExtension {
	ext := model.NewAmmoExtension()

	for _, src := range srcs {
		rof := src.Set.Mod(model.StatRateOfFire)
		if rof == nil || rof.Coefficient == 1 {
			continue
		}
		if rof.Coefficient <= 0 {
			slog.Error("config error", "source", src.Label(), "error", "non-positive rateOfFire coefficient")
			continue
		}
		ext.Add(model.StatMod{
			Part:     src.Part,
			Material: src.Material,
			Mod:      model.ModData{Stat: model.StatRateOfFire, Coefficient: 1 / rof.Coefficient},
			StatName: model.ExtStatTicksBetweenBurstShots,
		})
	}

	for _, src := range srcs {
		for i, mod := range src.Set.Mods {
			if mod == nil || mod.Stat != model.StatID(i) || mod.StatName() == "" {
				continue
			}
			ext.Add(model.StatMod{
				Part:     src.Part,
				Material: src.Material,
				Mod:      *mod,
				StatName: mod.StatName(),
			})
		}
	}

	return ext
}
