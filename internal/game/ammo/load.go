package ammo

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/udisondev/customloads/internal/model"
)

// MaxDesignationLen is the longest designation accepted, in runes.
const MaxDesignationLen = 3

// Errors returned by CustomLoad mutators.
var (
	ErrLocked        = errors.New("custom load is locked")
	ErrNotSinglePart = errors.New("exactly one bullet part expected")
	ErrNotApplicable = errors.New("material cannot be used for this part")
	ErrPartDisabled  = errors.New("part is disabled by another selected material")
	ErrPowderRange   = errors.New("powder load out of range")
)

var designationCaser = cases.Upper(language.Und)

// CustomLoad is a user-authored ammunition variant.
//
// Selections (parts, powder load) are frozen once the load is locked; label and
// designation stay editable. The merged modifiers and the technical description are
// memoized and dropped by every mutator.
type CustomLoad struct {
	name        string
	label       string
	designation string
	locked      bool
	powderLoad  int

	template  Template
	gunpowder *model.GunpowderEffects
	parts     map[model.BulletPart]*model.BulletMaterial

	// references that could not be resolved when the load was read back
	unresolved []string
	record     *model.DraftRecord

	// generated
	ammo       *model.AmmoDef
	bullet     *model.ProjectileDef
	category   *model.AmmoCategory
	recipe     *model.RecipeDef
	registered bool

	merged   *Merged
	techDesc string
	techOK   bool
}

// NewCustomLoad creates a draft derived from tmpl.
func NewCustomLoad(name string, tmpl Template, gp *model.GunpowderEffects) *CustomLoad {
	return &CustomLoad{
		name:      name,
		template:  tmpl,
		gunpowder: gp,
		parts:     make(map[model.BulletPart]*model.BulletMaterial),
	}
}

func (c *CustomLoad) Name() string                       { return c.name }
func (c *CustomLoad) Label() string                      { return c.label }
func (c *CustomLoad) Designation() string                { return c.designation }
func (c *CustomLoad) IsLocked() bool                     { return c.locked }
func (c *CustomLoad) IsRegistered() bool                 { return c.registered }
func (c *CustomLoad) PowderLoad() int                    { return c.powderLoad }
func (c *CustomLoad) Template() Template                 { return c.template }
func (c *CustomLoad) Gunpowder() *model.GunpowderEffects { return c.gunpowder }

// LabelCap returns the label with its first letter capitalized.
func (c *CustomLoad) LabelCap() string { return model.CapitalizeFirst(c.label) }

// Ammo returns the generated ammo definition, nil before GenerateDefs.
func (c *CustomLoad) Ammo() *model.AmmoDef { return c.ammo }

// Bullet returns the generated projectile, nil before GenerateDefs.
func (c *CustomLoad) Bullet() *model.ProjectileDef { return c.bullet }

// Category returns the generated ammo class, nil until registered.
func (c *CustomLoad) Category() *model.AmmoCategory { return c.category }

// Recipe returns the generated recipe, nil until registered.
func (c *CustomLoad) Recipe() *model.RecipeDef { return c.recipe }

// IsErrored reports whether a template or material reference is unresolved.
// Errored loads are never derived or registered.
func (c *CustomLoad) IsErrored() bool {
	return !c.template.Valid() || len(c.unresolved) > 0
}

// Unresolved returns the references that could not be resolved.
func (c *CustomLoad) Unresolved() []string {
	out := make([]string, len(c.unresolved))
	copy(out, c.unresolved)
	if !c.template.Valid() && len(out) == 0 {
		out = append(out, "template")
	}
	return out
}

// Part returns the material selected for part, nil for the default material.
func (c *CustomLoad) Part(part model.BulletPart) *model.BulletMaterial {
	return c.parts[part]
}

// Parts returns a copy of the part selections.
func (c *CustomLoad) Parts() map[model.BulletPart]*model.BulletMaterial {
	return maps.Clone(c.parts)
}

// PartCount is the number of parts with a non-default material.
func (c *CustomLoad) PartCount() int { return len(c.parts) }

// SetLabel renames the load. Allowed on locked loads.
func (c *CustomLoad) SetLabel(label string) {
	c.label = label
	c.cosmeticChanged()
}

// SetDesignation upper-cases and truncates d. Allowed on locked loads.
func (c *CustomLoad) SetDesignation(d string) {
	d = designationCaser.String(strings.TrimSpace(d))
	if utf8.RuneCountInString(d) > MaxDesignationLen {
		d = string([]rune(d)[:MaxDesignationLen])
	}
	c.designation = d
	c.cosmeticChanged()
}

// SetPowderLoad changes the propellant charge.
func (c *CustomLoad) SetPowderLoad(load int) error {
	if c.locked {
		return ErrLocked
	}
	if load < model.MinPowderLoad || load > model.MaxPowderLoad {
		return fmt.Errorf("%d not in [%d, %d]: %w", load, model.MinPowderLoad, model.MaxPowderLoad, ErrPowderRange)
	}
	c.powderLoad = load
	c.selectionChanged()
	return nil
}

// SetPart selects mat for part. A nil material restores the default.
// Parts the new material disables are cleared.
func (c *CustomLoad) SetPart(part model.BulletPart, mat *model.BulletMaterial) error {
	if c.locked {
		return ErrLocked
	}
	if !part.IsSingle() {
		return fmt.Errorf("%s: %w", part, ErrNotSinglePart)
	}
	if mat == nil {
		return c.ClearPart(part)
	}
	set := mat.TryGetModFor(part)
	if set == nil {
		return fmt.Errorf("%s for %s: %w", mat.Name, part, ErrNotApplicable)
	}
	if c.disabledExcept(part).Has(part) {
		return fmt.Errorf("%s: %w", part, ErrPartDisabled)
	}

	c.parts[part] = mat
	for _, p := range set.Disables.Parts() {
		if p != part {
			delete(c.parts, p)
		}
	}
	c.selectionChanged()
	return nil
}

// ClearPart restores the default material for part.
func (c *CustomLoad) ClearPart(part model.BulletPart) error {
	if c.locked {
		return ErrLocked
	}
	if _, ok := c.parts[part]; !ok {
		return nil
	}
	delete(c.parts, part)
	c.selectionChanged()
	return nil
}

// DisabledParts is the union of the disable masks of all selected materials.
func (c *CustomLoad) DisabledParts() model.BulletPart {
	return c.disabledExcept(model.PartNone)
}

func (c *CustomLoad) disabledExcept(skip model.BulletPart) model.BulletPart {
	var mask model.BulletPart
	for part, mat := range c.parts {
		if part == skip {
			continue
		}
		if set := mat.TryGetModFor(part); set != nil {
			mask |= set.Disables
		}
	}
	return mask
}

// Sources lists the contributing modifier sets of the current selection.
func (c *CustomLoad) Sources() []Source {
	return Sources(c.parts, c.gunpowder, c.powderLoad)
}

// MergedMods returns the merged modifiers of the current selection.
func (c *CustomLoad) MergedMods() Merged {
	if c.merged == nil {
		m := MergeSources(c.Sources())
		c.merged = &m
	}
	return *c.merged
}

// AllSecondaryDamages lists the secondary damages of every part, propellant last.
func (c *CustomLoad) AllSecondaryDamages() []model.SecondaryDamage {
	return SecondaryDamages(c.Sources())
}

// AdditionalCost returns the extra materials needed to craft craftCount rounds.
func (c *CustomLoad) AdditionalCost(craftCount int) []MaterialCost {
	return AdditionalCost(c.parts, c.gunpowder, c.powderLoad, craftCount)
}

func (c *CustomLoad) lock() {
	c.locked = true
}

func (c *CustomLoad) selectionChanged() {
	c.merged = nil
	c.techOK = false
	c.techDesc = ""
	if c.ammo != nil && !c.registered {
		if err := c.preview(); err != nil {
			slog.Warn("refreshing custom ammo preview", "name", c.name, "error", err)
		}
	}
}

func (c *CustomLoad) cosmeticChanged() {
	c.techOK = false
	c.techDesc = ""
	c.updateLabels()
}
