package ammo

import (
	"fmt"
	"strings"

	"github.com/udisondev/customloads/internal/model"
)

// ErroredText stands in for text that cannot be produced for an errored load.
const ErroredText = "<errored>"

// setLabelCap is the capitalized label of the template's ammo set.
func (c *CustomLoad) setLabelCap() string {
	if c.template.Set == nil {
		return ""
	}
	return c.template.Set.LabelCap()
}

func (c *CustomLoad) setLabel() string {
	if c.template.Set == nil {
		return ""
	}
	return c.template.Set.Label
}

// AmmoLabel is the display label of the derived ammo: "<Set> (<DES>) '<Label>'".
func (c *CustomLoad) AmmoLabel() string {
	if c.IsErrored() {
		return ErroredText
	}
	return fmt.Sprintf("%s (%s) '%s'", c.setLabelCap(), c.designation, c.label)
}

// updateLabels rewrites the labels of everything generated so far.
func (c *CustomLoad) updateLabels() {
	if c.ammo == nil {
		return
	}

	c.ammo.Label = c.AmmoLabel()
	c.bullet.Label = c.ammo.Label + " bullet"
	if c.registered {
		c.ammo.Description = c.TechnicalDescription()
	}

	if c.category != nil {
		c.category.Label = c.label
		c.category.LabelShort = c.designation
	}

	if c.recipe == nil {
		return
	}
	count := 0
	if p := c.productOf(c.recipe); p != nil {
		count = p.Count
	}
	set := c.setLabel()
	c.recipe.Label = fmt.Sprintf("make %s %s x%d", set, c.label, count)
	c.recipe.Description = fmt.Sprintf("Craft %d %s %s.", count, set, c.label)
	c.recipe.JobString = fmt.Sprintf("making %s %s.", set, c.label)
}

func (c *CustomLoad) productOf(r *model.RecipeDef) *model.ThingCount {
	for i := range r.Products {
		if r.Products[i].Thing == c.name {
			return &r.Products[i]
		}
	}
	if len(r.Products) > 0 {
		return &r.Products[0]
	}
	return nil
}

// TechnicalDescription describes the construction of the load followed by the flavor
// texts of its parts and the merged effects.
func (c *CustomLoad) TechnicalDescription() string {
	if c.IsErrored() {
		return ErroredText
	}
	if !c.techOK {
		c.techDesc = c.makeTechDescription()
		c.techOK = true
	}
	return c.techDesc
}

func (c *CustomLoad) makeTechDescription() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "The %s (%s) '%s' is a ", c.setLabelCap(), c.designation, c.LabelCap())

	if m := c.parts[model.PartCore]; m != nil {
		sb.WriteString(m.TechLabel() + "-core ")
	}
	if m := c.parts[model.PartTip]; m != nil {
		sb.WriteString(m.TechLabel() + "-tipped ")
	}
	if m := c.parts[model.PartJacket]; m != nil {
		sb.WriteString(m.TechLabel() + " ")
	}
	sb.WriteString("bullet")

	if extras := c.extraDescriptions(); len(extras) > 0 {
		sb.WriteString(" with ")
		sb.WriteString(joinAnd(extras))
	}

	if m := c.parts[model.PartCasing]; m != nil {
		sb.WriteString(" in a " + m.TechLabel() + " cartridge case")
	}
	sb.WriteString(".\n\n")

	srcs := c.Sources()
	for _, src := range srcs {
		if strings.TrimSpace(src.Set.Desc) != "" {
			sb.WriteString(src.Set.Desc)
			sb.WriteByte('\n')
		}
	}
	sb.WriteByte('\n')

	merged := c.MergedMods()
	sb.WriteString(model.Describe(merged.Slice(), SecondaryDamages(srcs), ""))

	return strings.TrimRight(sb.String(), " \t\r\n")
}

// extraDescriptions returns the extra text of each selected material once, in part order.
func (c *CustomLoad) extraDescriptions() []string {
	var out []string
	seen := make(map[*model.BulletMaterial]struct{})
	for _, part := range model.AllBulletParts() {
		m := c.parts[part]
		if m == nil || strings.TrimSpace(m.ExtraDesc) == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, model.UncapitalizeFirst(strings.TrimSpace(m.ExtraDesc)))
	}
	return out
}

// joinAnd joins items as "a, b and c".
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
