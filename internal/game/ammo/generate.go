package ammo

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/customloads/internal/model"
	"github.com/udisondev/customloads/internal/registry"
)

// Errors returned by GenerateDefs.
var (
	ErrErrored           = errors.New("custom load has unresolved references")
	ErrAlreadyRegistered = errors.New("custom load is already registered")
	ErrNoTemplateRecipe  = errors.New("no recipe produces the template ammo")
)

// WorkPerPart is the extra recipe work per customized part, as a fraction of the template's.
const WorkPerPart = 0.1

// GenerateOption tunes GenerateDefs.
type GenerateOption func(*generateOptions)

type generateOptions struct {
	craftCount int
}

// WithCraftCount overrides the number of rounds the material cost is computed for.
// Zero keeps the count produced by the template recipe.
func WithCraftCount(n int) GenerateOption {
	return func(o *generateOptions) { o.craftCount = n }
}

// GenerateDefs derives the ammo and projectile of the load.
//
// With register=false only the preview is refreshed and the registry is not touched;
// a registered load keeps its registered definitions.
// With register=true the ammo, projectile, a generated ammo class and a recipe cloned
// from the template's are committed to reg in one batch; on failure nothing is added.
func (c *CustomLoad) GenerateDefs(reg *registry.Registry, register bool, opts ...GenerateOption) error {
	if c.IsErrored() {
		return fmt.Errorf("%s: %w", c.name, ErrErrored)
	}
	if !register {
		if c.registered {
			c.updateLabels()
			return nil
		}
		return c.preview()
	}
	if c.registered {
		return fmt.Errorf("%s: %w", c.name, ErrAlreadyRegistered)
	}

	var o generateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return c.register(reg, o)
}

func (c *CustomLoad) derive() (*Derived, error) {
	srcs := c.Sources()
	return Derive(DeriveInput{
		Name:     c.name,
		Template: c.template,
		Merged:   c.MergedMods(),
		Sources:  srcs,
	})
}

func (c *CustomLoad) preview() error {
	d, err := c.derive()
	if err != nil {
		return fmt.Errorf("deriving %s: %w", c.name, err)
	}
	c.ammo, c.bullet = d.Ammo, d.Projectile
	c.category, c.recipe = nil, nil
	c.updateLabels()
	return nil
}

func (c *CustomLoad) register(reg *registry.Registry, o generateOptions) error {
	tmplRecipe := reg.RecipeProducing(c.template.Ammo.Name)
	if tmplRecipe == nil {
		return fmt.Errorf("%s: %w", c.template.Ammo.Name, ErrNoTemplateRecipe)
	}

	d, err := c.derive()
	if err != nil {
		return fmt.Errorf("deriving %s: %w", c.name, err)
	}
	ammo, bullet := d.Ammo, d.Projectile

	category := &model.AmmoCategory{
		Name:        ammo.Name + "_cat",
		Label:       c.label,
		LabelShort:  c.designation,
		Description: fmt.Sprintf("Autogenerated ammo type for custom ammo '%s'", c.label),
		Generated:   true,
	}
	ammo.AmmoClass = category.Name

	recipe := tmplRecipe.Clone()
	recipe.Name = ammo.Name + "_recipe"
	recipe.Generated = true
	recipe.WorkAmount *= 1 + float64(len(c.parts))*WorkPerPart

	product := -1
	for i := range recipe.Products {
		if recipe.Products[i].Thing == c.template.Ammo.Name {
			recipe.Products[i].Thing = ammo.Name
			product = i
			break
		}
	}
	craftCount := o.craftCount
	if craftCount <= 0 {
		craftCount = recipe.Products[product].Count
	}
	recipe.Ingredients = MergeIngredients(recipe.Ingredients, c.AdditionalCost(craftCount))

	err = reg.Atomically(func(tx *registry.Tx) error {
		for _, def := range []model.Def{ammo, bullet, category, recipe} {
			if err := tx.Add(def); err != nil {
				return err
			}
		}

		var sets []*model.AmmoSet
		for _, name := range ammo.AmmoSets {
			def, ok := tx.Lookup(model.KindAmmoSet, name)
			if !ok {
				slog.Warn("template ammo set not registered", "load", c.name, "ammoSet", name)
				continue
			}
			sets = append(sets, def.(*model.AmmoSet))
		}
		tx.OnCommit(func() {
			for _, set := range sets {
				set.AmmoTypes = append(set.AmmoTypes, model.AmmoLink{Ammo: ammo.Name, Projectile: bullet.Name})
			}
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("registering %s: %w", c.name, err)
	}

	c.ammo, c.bullet, c.category, c.recipe = ammo, bullet, category, recipe
	c.registered = true
	c.techOK = false
	c.updateLabels()

	slog.Info("registered custom ammo",
		"name", c.name,
		"label", ammo.Label,
		"recipe", recipe.Name,
		"craftCount", craftCount)
	return nil
}
