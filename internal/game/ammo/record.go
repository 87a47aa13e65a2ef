package ammo

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/udisondev/customloads/internal/model"
	"github.com/udisondev/customloads/internal/registry"
)

// ToRecord returns the persisted form of the load. Errored loads return the record
// they were read from so that saving never loses their selections.
func (c *CustomLoad) ToRecord() model.DraftRecord {
	if c.record != nil && c.IsErrored() {
		rec := *c.record
		rec.Parts = maps.Clone(c.record.Parts)
		rec.Label, rec.Designation = c.label, c.designation
		return rec
	}

	rec := model.DraftRecord{
		Name:        c.name,
		Label:       c.label,
		Designation: c.designation,
		IsLocked:    c.locked,
		PowderLoad:  c.powderLoad,
		Parts:       make(map[string]string, len(c.parts)),
	}
	if c.template.Ammo != nil {
		rec.AmmoTemplate = c.template.Ammo.Name
	}
	if c.template.Projectile != nil {
		rec.BulletTemplate = c.template.Projectile.Name
	}
	if c.gunpowder != nil {
		rec.Gunpowder = c.gunpowder.Name
	}
	for part, mat := range c.parts {
		rec.Parts[part.String()] = mat.Name
	}
	return rec
}

// FromRecord rebuilds a load from its persisted form. References are resolved against
// reg; anything unresolved marks the load errored instead of failing.
func FromRecord(reg *registry.Registry, rec model.DraftRecord) *CustomLoad {
	var tmpl Template
	var unresolved []string

	tmpl.Ammo = reg.Ammo(rec.AmmoTemplate)
	if tmpl.Ammo == nil {
		unresolved = append(unresolved, "ammo "+rec.AmmoTemplate)
	} else if len(tmpl.Ammo.AmmoSets) > 0 {
		tmpl.Set = reg.AmmoSet(tmpl.Ammo.AmmoSets[0])
	}
	tmpl.Projectile = reg.Projectile(rec.BulletTemplate)
	if tmpl.Projectile == nil {
		unresolved = append(unresolved, "projectile "+rec.BulletTemplate)
	}

	gp := reg.DefaultGunpowder()
	if rec.Gunpowder != "" {
		gp = reg.Gunpowder(rec.Gunpowder)
		if gp == nil {
			unresolved = append(unresolved, "gunpowder "+rec.Gunpowder)
		}
	}

	c := NewCustomLoad(rec.Name, tmpl, gp)
	c.label = rec.Label
	c.designation = rec.Designation
	c.powderLoad = min(max(rec.PowderLoad, model.MinPowderLoad), model.MaxPowderLoad)

	selected := make(map[model.BulletPart]string, len(rec.Parts))
	for _, partName := range slices.Sorted(maps.Keys(rec.Parts)) {
		part, err := model.ParseBulletPart(partName)
		if err != nil {
			unresolved = append(unresolved, "part "+partName)
			continue
		}
		selected[part] = rec.Parts[partName]
	}
	for _, part := range model.AllBulletParts() {
		matName, ok := selected[part]
		if !ok {
			continue
		}
		mat := reg.Material(matName)
		if mat == nil {
			unresolved = append(unresolved, "material "+matName)
			continue
		}
		if !mat.CanApplyTo(part) {
			unresolved = append(unresolved, fmt.Sprintf("material %s for %s", matName, part))
			continue
		}
		c.parts[part] = mat
	}

	c.locked = rec.IsLocked
	if len(unresolved) > 0 {
		c.unresolved = unresolved
		c.record = &rec
		slog.Warn("custom ammo has unresolved references", "name", rec.Name, "missing", unresolved)
	}
	return c
}
