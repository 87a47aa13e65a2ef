package model

import "fmt"

// DefKind classifies definitions stored in the registry.
type DefKind int32

const (
	KindItem DefKind = iota
	KindAmmoSet
	KindAmmo
	KindProjectile
	KindAmmoCategory
	KindRecipe
	KindGun
	KindMaterial
	KindGunpowder
)

// String returns human-readable kind name.
func (k DefKind) String() string {
	switch k {
	case KindItem:
		return "Item"
	case KindAmmoSet:
		return "AmmoSet"
	case KindAmmo:
		return "Ammo"
	case KindProjectile:
		return "Projectile"
	case KindAmmoCategory:
		return "AmmoCategory"
	case KindRecipe:
		return "Recipe"
	case KindGun:
		return "Gun"
	case KindMaterial:
		return "BulletMaterial"
	case KindGunpowder:
		return "Gunpowder"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(k))
	}
}

// Def is anything the registry can hold.
type Def interface {
	DefName() string
	Kind() DefKind
}

// SmallVolumePerUnit is how many units of a small-volume item make one counted unit.
const SmallVolumePerUnit = 10.0

// Item is a plain thing that can be used as a crafting ingredient.
type Item struct {
	Name        string
	Label       string
	SmallVolume bool
}

func (i *Item) DefName() string { return i.Name }
func (i *Item) Kind() DefKind   { return KindItem }

// AmmoLink pairs an ammo definition with the projectile it fires.
type AmmoLink struct {
	Ammo       string
	Projectile string
}

// AmmoSet is a caliber: the family of interchangeable ammo types.
type AmmoSet struct {
	Name      string
	Label     string
	IsMortar  bool
	AmmoTypes []AmmoLink
}

func (s *AmmoSet) DefName() string { return s.Name }
func (s *AmmoSet) Kind() DefKind   { return KindAmmoSet }

// LabelCap returns the label with the first letter capitalized.
func (s *AmmoSet) LabelCap() string { return CapitalizeFirst(s.Label) }

// AmmoDef is an ammunition item definition.
type AmmoDef struct {
	Name              string
	Label             string
	Description       string
	AmmoSets          []string
	AmmoClass         string // ammo category name
	Mass              float64
	CookOffProjectile string
	MenuHidden        bool
	Tradeable         bool
	Generated         bool
	ShortHash         uint16
	Users             []string // guns that can fire this ammo

	Extension *AmmoExtension
}

func (a *AmmoDef) DefName() string { return a.Name }
func (a *AmmoDef) Kind() DefKind   { return KindAmmo }

// LabelCap returns the label with the first letter capitalized.
func (a *AmmoDef) LabelCap() string { return CapitalizeFirst(a.Label) }

// Clone returns a deep copy. The extension is not copied: derived ammo gets its own.
func (a *AmmoDef) Clone() *AmmoDef {
	if a == nil {
		return nil
	}
	c := *a
	c.AmmoSets = append([]string(nil), a.AmmoSets...)
	c.Users = append([]string(nil), a.Users...)
	c.Extension = nil
	c.ShortHash = 0
	return &c
}

// ProjectileDef holds the projectile properties a bullet is fired with.
type ProjectileDef struct {
	Name            string
	Label           string
	Description     string
	DamageType      string
	Damage          int
	Speed           float64
	APSharp         float64
	APBlunt         float64
	PelletCount     int
	ShortHash       uint16
	SecondaryDamage []SecondaryDamage
}

func (p *ProjectileDef) DefName() string { return p.Name }
func (p *ProjectileDef) Kind() DefKind   { return KindProjectile }

// Clone returns a deep copy; the secondary damage list is copied element-wise.
func (p *ProjectileDef) Clone() *ProjectileDef {
	if p == nil {
		return nil
	}
	c := *p
	c.ShortHash = 0
	if p.SecondaryDamage != nil {
		c.SecondaryDamage = make([]SecondaryDamage, len(p.SecondaryDamage))
		copy(c.SecondaryDamage, p.SecondaryDamage)
	}
	return &c
}

// AmmoCategory is the ammo class (FMJ, AP, HP ...). LabelShort is the designation.
type AmmoCategory struct {
	Name        string
	Label       string
	LabelShort  string
	Description string
	Generated   bool
}

func (c *AmmoCategory) DefName() string { return c.Name }
func (c *AmmoCategory) Kind() DefKind   { return KindAmmoCategory }

// IngredientCount is one recipe ingredient: Count units of any of Allowed.
type IngredientCount struct {
	Count   int
	Allowed []string
}

// IsSingle reports whether the ingredient accepts exactly the given item only.
func (ic IngredientCount) IsSingle(item string) bool {
	return len(ic.Allowed) == 1 && ic.Allowed[0] == item
}

// ThingCount is a recipe product.
type ThingCount struct {
	Thing string
	Count int
}

// RecipeDef is a crafting recipe.
type RecipeDef struct {
	Name        string
	Label       string
	Description string
	JobString   string
	WorkAmount  float64
	Ingredients []IngredientCount
	Products    []ThingCount
	RecipeUsers []string
	Generated   bool
}

func (r *RecipeDef) DefName() string { return r.Name }
func (r *RecipeDef) Kind() DefKind   { return KindRecipe }

// Produces reports whether any product of r is thing.
func (r *RecipeDef) Produces(thing string) bool {
	for _, p := range r.Products {
		if p.Thing == thing {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the recipe, ingredient filters included.
func (r *RecipeDef) Clone() *RecipeDef {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = make([]IngredientCount, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		c.Ingredients[i] = IngredientCount{
			Count:   ing.Count,
			Allowed: append([]string(nil), ing.Allowed...),
		}
	}
	c.Products = append([]ThingCount(nil), r.Products...)
	c.RecipeUsers = append([]string(nil), r.RecipeUsers...)
	return &c
}

// GunDef is a weapon that consumes ammo. Stats holds base values of external stats.
type GunDef struct {
	Name    string
	Label   string
	AmmoSet string
	Stats   map[string]float64
}

func (g *GunDef) DefName() string { return g.Name }
func (g *GunDef) Kind() DefKind   { return KindGun }

// BaseStat returns the unmodified stat value, 0 when unset.
func (g *GunDef) BaseStat(stat string) float64 {
	if g == nil {
		return 0
	}
	return g.Stats[stat]
}

// Gun is a consumer instance: a weapon with the ammo it currently has loaded.
type Gun struct {
	Def         *GunDef
	CurrentAmmo *AmmoDef
}
