package data

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/customloads/internal/model"
	"github.com/udisondev/customloads/internal/registry"
)

//go:embed catalog/*.yaml
var defaultCatalog embed.FS

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() fs.FS {
	sub, err := fs.Sub(defaultCatalog, "catalog")
	if err != nil {
		// catalog/ is embedded at compile time
		panic(err)
	}
	return sub
}

// LoadCatalogDir loads every *.yaml file from dir.
func LoadCatalogDir(ctx context.Context, reg *registry.Registry, dir string) error {
	return LoadCatalog(ctx, reg, os.DirFS(dir))
}

// LoadCatalog decodes every *.yaml file at the root of fsys and registers the
// definitions into reg in one batch. Files are decoded concurrently; registration
// order follows file name order.
//
// Broken references and malformed modifiers are configuration errors: they are
// logged and the affected value is dropped. Decode failures and duplicate names
// abort the load with nothing registered.
func LoadCatalog(ctx context.Context, reg *registry.Registry, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return fmt.Errorf("listing catalog files: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("no catalog files found")
	}

	files := make([]catalogFile, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			if err := yaml.Unmarshal(raw, &files[i]); err != nil {
				return fmt.Errorf("decoding %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b := newCatalogBuilder(reg)
	for i := range files {
		b.collect(&files[i])
	}
	b.link()

	if err := reg.Atomically(b.commit); err != nil {
		return fmt.Errorf("registering catalog: %w", err)
	}

	for _, m := range b.materials {
		logConfigErrors(m.Name, m.ConfigErrors())
	}
	for _, gp := range b.gunpowder {
		logConfigErrors(gp.Name, gp.ConfigErrors())
	}

	slog.Info("loaded catalog",
		"files", len(names),
		"items", len(b.items),
		"ammoSets", len(b.ammoSets),
		"ammo", len(b.ammo),
		"projectiles", len(b.projectiles),
		"recipes", len(b.recipes),
		"guns", len(b.guns),
		"materials", len(b.materials),
		"gunpowder", len(b.gunpowder))
	return nil
}

func logConfigErrors(def string, errs []string) {
	for _, e := range errs {
		slog.Error("config error", "def", def, "error", e)
	}
}

// catalogBuilder converts decoded files into definitions and resolves
// cross-references before anything is registered.
type catalogBuilder struct {
	reg *registry.Registry

	items       []*model.Item
	categories  []*model.AmmoCategory
	projectiles []*model.ProjectileDef
	ammo        []*model.AmmoDef
	ammoSets    []*model.AmmoSet
	recipes     []*model.RecipeDef
	guns        []*model.GunDef
	materials   []*model.BulletMaterial
	gunpowder   []*model.GunpowderEffects

	itemByName map[string]*model.Item
	pending    []pendingMaterial
}

// pendingMaterial remembers the item reference until all items are known.
type pendingMaterial struct {
	target  **model.Item
	owner   string
	itemRef string
}

func newCatalogBuilder(reg *registry.Registry) *catalogBuilder {
	return &catalogBuilder{
		reg:        reg,
		itemByName: make(map[string]*model.Item),
	}
}

func (b *catalogBuilder) collect(f *catalogFile) {
	for _, y := range f.Items {
		it := &model.Item{Name: y.Name, Label: y.Label, SmallVolume: y.SmallVolume}
		b.items = append(b.items, it)
		b.itemByName[it.Name] = it
	}

	for _, y := range f.AmmoCategories {
		b.categories = append(b.categories, &model.AmmoCategory{
			Name:        y.Name,
			Label:       y.Label,
			LabelShort:  y.LabelShort,
			Description: y.Description,
		})
	}

	for _, y := range f.Projectiles {
		b.projectiles = append(b.projectiles, &model.ProjectileDef{
			Name:            y.Name,
			Label:           y.Label,
			DamageType:      y.DamageType,
			Damage:          y.Damage,
			Speed:           y.Speed,
			APSharp:         y.APSharp,
			APBlunt:         y.APBlunt,
			PelletCount:     max(y.PelletCount, 1),
			SecondaryDamage: convertSecondaryDamages(y.SecondaryDamage),
		})
	}

	for _, y := range f.Ammo {
		tradeable := true
		if y.Tradeable != nil {
			tradeable = *y.Tradeable
		}
		b.ammo = append(b.ammo, &model.AmmoDef{
			Name:        y.Name,
			Label:       y.Label,
			Description: y.Description,
			AmmoClass:   y.AmmoClass,
			Mass:        y.Mass,
			MenuHidden:  y.MenuHidden,
			Tradeable:   tradeable,
		})
	}

	for _, y := range f.AmmoSets {
		set := &model.AmmoSet{Name: y.Name, Label: y.Label, IsMortar: y.IsMortar}
		for _, link := range y.AmmoTypes {
			set.AmmoTypes = append(set.AmmoTypes, model.AmmoLink{Ammo: link.Ammo, Projectile: link.Projectile})
		}
		b.ammoSets = append(b.ammoSets, set)
	}

	for _, y := range f.Recipes {
		rec := &model.RecipeDef{
			Name:        y.Name,
			Label:       y.Label,
			Description: y.Description,
			JobString:   y.JobString,
			WorkAmount:  y.WorkAmount,
			RecipeUsers: slices.Clone(y.RecipeUsers),
		}
		for _, ing := range y.Ingredients {
			rec.Ingredients = append(rec.Ingredients, model.IngredientCount{Count: ing.Count, Allowed: slices.Clone(ing.Allowed)})
		}
		for _, p := range y.Products {
			rec.Products = append(rec.Products, model.ThingCount{Thing: p.Thing, Count: p.Count})
		}
		b.recipes = append(b.recipes, rec)
	}

	for _, y := range f.Guns {
		gun := &model.GunDef{Name: y.Name, Label: y.Label, AmmoSet: y.AmmoSet, Stats: make(map[string]float64, len(y.Stats))}
		maps.Copy(gun.Stats, y.Stats)
		b.guns = append(b.guns, gun)
	}

	for _, y := range f.Materials {
		cost := model.DefaultCostPerBullet
		if y.CostPerBullet != nil {
			cost = *y.CostPerBullet
		}
		m := &model.BulletMaterial{
			Name:          y.Name,
			Label:         y.Label,
			ExtraDesc:     y.ExtraDesc,
			CostPerBullet: cost,
			Tint:          y.Tint,
		}
		for _, my := range y.Mods {
			set := &model.PartModifierSet{
				Parts:            model.BulletPart(my.Parts),
				Disables:         model.BulletPart(my.Disables),
				Desc:             my.Desc,
				OverrideTexture:  my.OverrideTexture,
				SecondaryDamages: convertSecondaryDamages(my.SecondaryDamages),
			}
			set.Mods = parseStatMods(y.Name, my.Stats)
			m.Mods = append(m.Mods, set)
		}
		b.materials = append(b.materials, m)
		b.pending = append(b.pending, pendingMaterial{target: &m.Material, owner: m.Name, itemRef: y.Material})
	}

	for _, y := range f.Gunpowder {
		cost := model.DefaultGunpowderCostPerBullet
		if y.CostPerBullet != nil {
			cost = *y.CostPerBullet
		}
		gp := &model.GunpowderEffects{Name: y.Name, CostPerBullet: cost}
		for _, st := range y.Stages {
			gp.Stages = append(gp.Stages, model.GunpowderStage{
				Powder: st.Powder,
				Effects: &model.PartModifierSet{
					Parts:            model.PartPowder,
					Desc:             st.Desc,
					Mods:             parseStatMods(y.Name, st.Stats),
					SecondaryDamages: convertSecondaryDamages(st.SecondaryDamages),
				},
			})
		}
		b.gunpowder = append(b.gunpowder, gp)
		b.pending = append(b.pending, pendingMaterial{target: &gp.Material, owner: gp.Name, itemRef: y.Material})
	}
}

// link resolves item references and fills ammo back-references
// (owning ammo sets, guns able to fire it).
func (b *catalogBuilder) link() {
	for _, p := range b.pending {
		if p.itemRef == "" {
			continue
		}
		if it := b.resolveItem(p.itemRef); it != nil {
			*p.target = it
			continue
		}
		slog.Error("config error", "def", p.owner, "error", fmt.Sprintf("unknown material item %q", p.itemRef))
	}

	categories := make(map[string]struct{}, len(b.categories))
	for _, c := range b.categories {
		categories[c.Name] = struct{}{}
	}
	ammoByName := make(map[string]*model.AmmoDef, len(b.ammo))
	for _, a := range b.ammo {
		ammoByName[a.Name] = a
		if _, ok := categories[a.AmmoClass]; !ok && b.reg.AmmoCategory(a.AmmoClass) == nil {
			slog.Warn("ammo has no known ammo class", "ammo", a.Name, "class", a.AmmoClass)
		}
	}
	setByName := make(map[string]*model.AmmoSet, len(b.ammoSets))
	for _, set := range b.ammoSets {
		setByName[set.Name] = set

		kept := set.AmmoTypes[:0]
		for _, link := range set.AmmoTypes {
			a := ammoByName[link.Ammo]
			if a == nil {
				slog.Error("config error", "def", set.Name, "error", fmt.Sprintf("unknown ammo %q in ammo set", link.Ammo))
				continue
			}
			if !slices.Contains(a.AmmoSets, set.Name) {
				a.AmmoSets = append(a.AmmoSets, set.Name)
			}
			kept = append(kept, link)
		}
		set.AmmoTypes = kept
	}

	for _, gun := range b.guns {
		set := setByName[gun.AmmoSet]
		if set == nil {
			slog.Error("config error", "def", gun.Name, "error", fmt.Sprintf("unknown ammo set %q", gun.AmmoSet))
			continue
		}
		for _, link := range set.AmmoTypes {
			a := ammoByName[link.Ammo]
			if !slices.Contains(a.Users, gun.Name) {
				a.Users = append(a.Users, gun.Name)
			}
		}
	}
}

func (b *catalogBuilder) resolveItem(name string) *model.Item {
	if it, ok := b.itemByName[name]; ok {
		return it
	}
	return b.reg.Item(name)
}

// commit stages every definition. Projectiles go before ammo so that short hashes
// of templates are stable across runs with the same catalog.
func (b *catalogBuilder) commit(tx *registry.Tx) error {
	var defs []model.Def
	for _, d := range b.items {
		defs = append(defs, d)
	}
	for _, d := range b.categories {
		defs = append(defs, d)
	}
	for _, d := range b.projectiles {
		defs = append(defs, d)
	}
	for _, d := range b.ammo {
		defs = append(defs, d)
	}
	for _, d := range b.ammoSets {
		defs = append(defs, d)
	}
	for _, d := range b.recipes {
		defs = append(defs, d)
	}
	for _, d := range b.guns {
		defs = append(defs, d)
	}
	for _, d := range b.materials {
		defs = append(defs, d)
	}
	for _, d := range b.gunpowder {
		defs = append(defs, d)
	}

	for _, def := range defs {
		if err := tx.Add(def); err != nil {
			return err
		}
	}
	return nil
}

// parseStatMods converts "stat: modifier text" pairs into a per-stat array.
// Unknown stats and malformed tokens are logged and skipped.
func parseStatMods(owner string, stats map[string]string) [model.StatCount]*model.ModData {
	var out [model.StatCount]*model.ModData
	for _, key := range slices.Sorted(maps.Keys(stats)) {
		id, ok := model.StatByKey(key)
		if !ok {
			slog.Error("config error", "def", owner, "error", fmt.Sprintf("unknown stat %q", key))
			continue
		}
		m, errs := model.ParseModData(id, stats[key])
		for _, err := range errs {
			slog.Error("config error", "def", owner, "stat", key, "error", err)
		}
		out[id] = &m
	}
	return out
}

func convertSecondaryDamages(in []secondaryDamageYAML) []model.SecondaryDamage {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.SecondaryDamage, len(in))
	for i, d := range in {
		chance := 1.0
		if d.Chance != nil {
			chance = *d.Chance
		}
		out[i] = model.SecondaryDamage{DamageType: d.Type, Amount: d.Amount, Chance: chance}
	}
	return out
}
