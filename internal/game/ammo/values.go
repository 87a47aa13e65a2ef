package ammo

import (
	"math"

	"github.com/udisondev/customloads/internal/game/statpart"
	"github.com/udisondev/customloads/internal/model"
)

// TicksPerMinute converts ticks between shots into rounds per minute.
const TicksPerMinute = 3600.0

// ValueBefore returns stat for the template ammo fired from gun.
// Stats bound to the gun are evaluated with the template loaded.
func (c *CustomLoad) ValueBefore(stat model.StatID, gun *model.GunDef) float64 {
	return statValue(stat, gun, c.template.Ammo, c.template.Projectile)
}

// ValueAfter returns stat for the derived ammo fired from gun, NaN until derived.
func (c *CustomLoad) ValueAfter(stat model.StatID, gun *model.GunDef) float64 {
	return statValue(stat, gun, c.ammo, c.bullet)
}

func statValue(stat model.StatID, gun *model.GunDef, ammo *model.AmmoDef, proj *model.ProjectileDef) float64 {
	if ammo == nil || proj == nil {
		return math.NaN()
	}
	loaded := model.Gun{Def: gun, CurrentAmmo: ammo}

	switch stat {
	case model.StatDamage:
		return float64(proj.Damage)
	case model.StatSpeed:
		return proj.Speed
	case model.StatAPSharp:
		return proj.APSharp
	case model.StatAPBlunt:
		return proj.APBlunt
	case model.StatPelletCount:
		return float64(proj.PelletCount)
	case model.StatSpread, model.StatRecoil, model.StatMuzzleFlash, model.StatBurstShotCount:
		return statpart.Evaluate(loaded, stat.Info().StatName)
	case model.StatRateOfFire:
		ticks := statpart.Evaluate(loaded, model.ExtStatTicksBetweenBurstShots)
		if ticks <= 0 {
			return 0
		}
		return TicksPerMinute / ticks
	case model.StatMass:
		return ammo.Mass
	default:
		violated("no value accessor for stat", "stat", stat)
		return math.NaN()
	}
}
