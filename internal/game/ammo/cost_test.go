package ammo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/customloads/internal/model"
)

func TestAdditionalCost(t *testing.T) {
	steel := &model.Item{Name: "Steel"}
	powder := &model.Item{Name: "Gunpowder", SmallVolume: true}
	primer := &model.Item{Name: "Primer", SmallVolume: true}

	mat := func(item *model.Item, cost float64, part model.BulletPart) *model.BulletMaterial {
		return &model.BulletMaterial{Name: item.Name + "Mat", Material: item, CostPerBullet: cost,
			Mods: []*model.PartModifierSet{{Parts: part}}}
	}
	gp := &model.GunpowderEffects{
		Material:      powder,
		CostPerBullet: 0.1,
		Stages:        []model.GunpowderStage{{Powder: 0, Effects: &model.PartModifierSet{Parts: model.PartPowder}}},
	}

	tests := []struct {
		name   string
		parts  map[model.BulletPart]*model.BulletMaterial
		powder int
		count  int
		want   []MaterialCost
	}{
		{
			name:  "cost times count",
			parts: map[model.BulletPart]*model.BulletMaterial{model.PartCore: mat(steel, 0.3, model.PartCore)},
			count: 10,
			want:  []MaterialCost{{Item: steel, Count: 3}},
		},
		{
			name:  "at least one unit",
			parts: map[model.BulletPart]*model.BulletMaterial{model.PartCore: mat(steel, 0.01, model.PartCore)},
			count: 1,
			want:  []MaterialCost{{Item: steel, Count: 1}},
		},
		{
			name:  "small volume items cost ten times",
			parts: map[model.BulletPart]*model.BulletMaterial{model.PartPrimer: mat(primer, 0.02, model.PartPrimer)},
			count: 100,
			want:  []MaterialCost{{Item: primer, Count: 20}},
		},
		{
			name:  "free materials add nothing",
			parts: map[model.BulletPart]*model.BulletMaterial{model.PartCore: mat(steel, 0, model.PartCore)},
			count: 100,
		},
		{
			name:   "reduced charge is free",
			powder: -2,
			count:  100,
		},
		{
			name:   "hot charge scales with load",
			powder: 3,
			count:  100,
			want:   []MaterialCost{{Item: powder, Count: 8}}, // 0.1 * 100 * 0.75 = 7.5, rounds to even
		},
		{
			name: "parts in part order, propellant last",
			parts: map[model.BulletPart]*model.BulletMaterial{
				model.PartPrimer: mat(primer, 0.01, model.PartPrimer),
				model.PartCore:   mat(steel, 0.02, model.PartCore),
			},
			powder: 4,
			count:  50,
			want:   []MaterialCost{{Item: steel, Count: 1}, {Item: primer, Count: 5}, {Item: powder, Count: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdditionalCost(tt.parts, gp, tt.powder, tt.count))
		})
	}
}

func TestMergeIngredients(t *testing.T) {
	steel := &model.Item{Name: "Steel"}
	chem := &model.Item{Name: "Chemfuel"}
	orig := []model.IngredientCount{
		{Count: 20, Allowed: []string{"Steel"}},
		{Count: 5, Allowed: []string{"Chemfuel", "Plasteel"}},
	}

	got := MergeIngredients(orig, []MaterialCost{{Item: steel, Count: 10}, {Item: chem, Count: 4}})

	require.Len(t, got, 3)
	assert.Equal(t, 30, got[0].Count)
	assert.Equal(t, 5, got[1].Count, "multi-item ingredients are not merged into")
	assert.Equal(t, model.IngredientCount{Count: 4, Allowed: []string{"Chemfuel"}}, got[2])

	assert.Equal(t, 20, orig[0].Count)
	got[0].Allowed[0] = "Lead"
	assert.Equal(t, "Steel", orig[0].Allowed[0])
}
