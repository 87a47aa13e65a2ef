package ammo

import (
	"math"
	"slices"

	"github.com/udisondev/customloads/internal/model"
)

// PowderCostPerLoad scales propellant cost per powder load level above zero.
const PowderCostPerLoad = 0.25

// MaterialCost is an extra recipe ingredient.
type MaterialCost struct {
	Item  *model.Item
	Count int
}

// AdditionalCost returns the extra materials needed to craft craftCount rounds:
// one entry per occupied part with a positive cost (BulletPart order), then the
// propellant when the load is above the standard charge.
func AdditionalCost(parts map[model.BulletPart]*model.BulletMaterial, gp *model.GunpowderEffects, powder, craftCount int) []MaterialCost {
	var out []MaterialCost

	for _, part := range model.AllBulletParts() {
		mat := parts[part]
		if mat == nil || mat.Material == nil || mat.CostPerBullet <= 0 {
			continue
		}
		volume := 1.0
		if mat.Material.SmallVolume {
			volume = model.SmallVolumePerUnit
		}
		out = append(out, MaterialCost{
			Item:  mat.Material,
			Count: costAmount(mat.CostPerBullet * float64(craftCount) * volume),
		})
	}

	if gp != nil && gp.Material != nil && gp.CostPerBullet > 0 && gp.StageFor(powder) != nil {
		coef := float64(powder) * PowderCostPerLoad
		if coef > 0 {
			out = append(out, MaterialCost{
				Item:  gp.Material,
				Count: costAmount(gp.CostPerBullet * float64(craftCount) * coef),
			})
		}
	}

	return out
}

func costAmount(raw float64) int {
	return max(1, int(math.RoundToEven(raw)))
}

// MergeIngredients adds costs to a copy of ingredients. An ingredient accepting only the
// cost's item gets its count increased, otherwise a single-item ingredient is appended.
func MergeIngredients(ingredients []model.IngredientCount, costs []MaterialCost) []model.IngredientCount {
	out := make([]model.IngredientCount, len(ingredients))
	for i, ing := range ingredients {
		out[i] = model.IngredientCount{Count: ing.Count, Allowed: slices.Clone(ing.Allowed)}
	}

	for _, cost := range costs {
		idx := slices.IndexFunc(out, func(ing model.IngredientCount) bool {
			return ing.IsSingle(cost.Item.Name)
		})
		if idx >= 0 {
			out[idx].Count += cost.Count
			continue
		}
		out = append(out, model.IngredientCount{Count: cost.Count, Allowed: []string{cost.Item.Name}})
	}
	return out
}
