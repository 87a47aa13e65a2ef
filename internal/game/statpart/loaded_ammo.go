// Package statpart evaluates gun stats with the modifiers of the loaded ammo applied.
package statpart

import (
	"strings"

	"github.com/udisondev/customloads/internal/model"
)

// LoadedAmmo applies the external-stat modifiers exported by the ammo a gun has loaded.
type LoadedAmmo struct {
	Stat string
}

func (p LoadedAmmo) mods(gun model.Gun) []model.StatMod {
	if gun.CurrentAmmo == nil {
		return nil
	}
	return gun.CurrentAmmo.Extension.For(p.Stat)
}

// TransformValue returns val with the loaded ammo's modifiers for p.Stat applied:
// val*(1 + Σ(c-1)) + Σ offset.
//
// TicksBetweenBurstShots never drops below min(1, val): a result under one tick is
// raised to one, but an unmodified value that was already below one is kept.
func (p LoadedAmmo) TransformValue(gun model.Gun, val float64) float64 {
	mods := p.mods(gun)
	if len(mods) == 0 {
		return val
	}

	old := val
	factor, offset := 1.0, 0.0
	for _, m := range mods {
		factor += m.Mod.Coefficient - 1
		offset += m.Mod.Offset
	}
	val = val*factor + offset

	if p.Stat == model.ExtStatTicksBetweenBurstShots {
		if floor := min(1, old); val < floor {
			val = floor
		}
	}
	return val
}

// ExplanationPart renders one line per contributing source, empty when nothing applies.
// Rate of fire is shown as the change in fire rate with the raw tick coefficient.
func (p LoadedAmmo) ExplanationPart(gun model.Gun) string {
	mods := p.mods(gun)
	if len(mods) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Loaded ammo:\n")
	for _, m := range mods {
		label := m.SourceLabel()

		if m.Mod.Coefficient != 1 {
			multi := m.Mod.Coefficient - 1
			raw := ""
			if p.Stat == model.ExtStatTicksBetweenBurstShots {
				// fewer ticks between shots means a faster rate of fire
				multi = 1/m.Mod.Coefficient - 1
				raw = " (raw " + model.FormatNumber(m.Mod.Coefficient, "0.###") + ")"
			}
			sb.WriteString("  - " + label + ": " + signed(model.FormatPercent(multi), multi) + raw + "\n")
		}
		if m.Mod.Offset != 0 {
			sb.WriteString("  - " + label + ": " + signed(model.FormatNumber(m.Mod.Offset, "0.##"), m.Mod.Offset) + "\n")
		}
	}
	return sb.String()
}

func signed(s string, v float64) string {
	if v > 0 {
		return "+" + s
	}
	return s
}

// Evaluate returns the gun's stat with its loaded ammo applied.
func Evaluate(gun model.Gun, stat string) float64 {
	return LoadedAmmo{Stat: stat}.TransformValue(gun, gun.Def.BaseStat(stat))
}

// Explain returns the loaded ammo explanation for stat.
func Explain(gun model.Gun, stat string) string {
	return LoadedAmmo{Stat: stat}.ExplanationPart(gun)
}
