package registry

import "github.com/udisondev/customloads/internal/model"

// Typed lookups. Each returns nil when the name is unknown or has another kind.

func (r *Registry) Item(name string) *model.Item {
	def, _ := r.LookupByName(model.KindItem, name)
	v, _ := def.(*model.Item)
	return v
}

func (r *Registry) AmmoSet(name string) *model.AmmoSet {
	def, _ := r.LookupByName(model.KindAmmoSet, name)
	v, _ := def.(*model.AmmoSet)
	return v
}

func (r *Registry) Ammo(name string) *model.AmmoDef {
	def, _ := r.LookupByName(model.KindAmmo, name)
	v, _ := def.(*model.AmmoDef)
	return v
}

func (r *Registry) Projectile(name string) *model.ProjectileDef {
	def, _ := r.LookupByName(model.KindProjectile, name)
	v, _ := def.(*model.ProjectileDef)
	return v
}

func (r *Registry) AmmoCategory(name string) *model.AmmoCategory {
	def, _ := r.LookupByName(model.KindAmmoCategory, name)
	v, _ := def.(*model.AmmoCategory)
	return v
}

func (r *Registry) Recipe(name string) *model.RecipeDef {
	def, _ := r.LookupByName(model.KindRecipe, name)
	v, _ := def.(*model.RecipeDef)
	return v
}

func (r *Registry) Gun(name string) *model.GunDef {
	def, _ := r.LookupByName(model.KindGun, name)
	v, _ := def.(*model.GunDef)
	return v
}

func (r *Registry) Material(name string) *model.BulletMaterial {
	def, _ := r.LookupByName(model.KindMaterial, name)
	v, _ := def.(*model.BulletMaterial)
	return v
}

func (r *Registry) Gunpowder(name string) *model.GunpowderEffects {
	def, _ := r.LookupByName(model.KindGunpowder, name)
	v, _ := def.(*model.GunpowderEffects)
	return v
}

// DefaultGunpowder returns the first registered gunpowder table.
func (r *Registry) DefaultGunpowder() *model.GunpowderEffects {
	all := r.AllOfKind(model.KindGunpowder)
	if len(all) == 0 {
		return nil
	}
	v, _ := all[0].(*model.GunpowderEffects)
	return v
}

// Materials returns all bullet materials in registration order.
func (r *Registry) Materials() []*model.BulletMaterial {
	all := r.AllOfKind(model.KindMaterial)
	out := make([]*model.BulletMaterial, 0, len(all))
	for _, def := range all {
		if m, ok := def.(*model.BulletMaterial); ok {
			out = append(out, m)
		}
	}
	return out
}

// MaterialsFor returns the materials that have a modifier set for part.
func (r *Registry) MaterialsFor(part model.BulletPart) []*model.BulletMaterial {
	var out []*model.BulletMaterial
	for _, m := range r.Materials() {
		if m.CanApplyTo(part) {
			out = append(out, m)
		}
	}
	return out
}

// AmmoSets returns all ammo sets in registration order.
func (r *Registry) AmmoSets() []*model.AmmoSet {
	all := r.AllOfKind(model.KindAmmoSet)
	out := make([]*model.AmmoSet, 0, len(all))
	for _, def := range all {
		if s, ok := def.(*model.AmmoSet); ok {
			out = append(out, s)
		}
	}
	return out
}

// GunsFor returns guns chambered for the ammo set.
func (r *Registry) GunsFor(ammoSet string) []*model.GunDef {
	var out []*model.GunDef
	for _, def := range r.AllOfKind(model.KindGun) {
		if g, ok := def.(*model.GunDef); ok && g.AmmoSet == ammoSet {
			out = append(out, g)
		}
	}
	return out
}

// RecipeProducing returns the first recipe whose products include thing.
func (r *Registry) RecipeProducing(thing string) *model.RecipeDef {
	for _, def := range r.AllOfKind(model.KindRecipe) {
		if rec, ok := def.(*model.RecipeDef); ok && rec.Produces(thing) {
			return rec
		}
	}
	return nil
}
