package model

import (
	"fmt"
	"math/bits"
	"strings"
)

// BulletPart is a bit set of bullet components.
// A single modifier set may apply to several parts at once.
type BulletPart uint8

const (
	PartCore BulletPart = 1 << iota
	PartJacket
	PartTip
	PartCasing
	PartPrimer
	PartPowder
)

// PartNone is the empty mask.
const PartNone BulletPart = 0

// allBulletParts is the enumeration order used everywhere iteration order matters.
var allBulletParts = [...]BulletPart{PartCore, PartJacket, PartTip, PartCasing, PartPrimer, PartPowder}

// AllBulletParts returns every single part in enumeration order.
func AllBulletParts() []BulletPart {
	out := make([]BulletPart, len(allBulletParts))
	copy(out, allBulletParts[:])
	return out
}

// Has reports whether every bit of part is set in p.
func (p BulletPart) Has(part BulletPart) bool {
	return part != 0 && p&part == part
}

// Count returns the number of parts in the mask.
func (p BulletPart) Count() int {
	return bits.OnesCount8(uint8(p))
}

// IsSingle reports whether p names exactly one part.
func (p BulletPart) IsSingle() bool {
	return p.Count() == 1 && p <= PartPowder
}

// Parts splits the mask into single parts in enumeration order.
func (p BulletPart) Parts() []BulletPart {
	var out []BulletPart
	for _, part := range allBulletParts {
		if p.Has(part) {
			out = append(out, part)
		}
	}
	return out
}

// String returns the stable name of a single part, or a "|"-joined list for masks.
func (p BulletPart) String() string {
	switch p {
	case PartNone:
		return "none"
	case PartCore:
		return "core"
	case PartJacket:
		return "jacket"
	case PartTip:
		return "tip"
	case PartCasing:
		return "casing"
	case PartPrimer:
		return "primer"
	case PartPowder:
		return "powder"
	}
	parts := p.Parts()
	if len(parts) == 0 {
		return fmt.Sprintf("UNKNOWN(%d)", uint8(p))
	}
	names := make([]string, len(parts))
	for i, part := range parts {
		names[i] = part.String()
	}
	return strings.Join(names, "|")
}

// Label returns the human-readable part name used in descriptions.
func (p BulletPart) Label() string {
	switch p {
	case PartCore:
		return "core"
	case PartJacket:
		return "jacket"
	case PartTip:
		return "tip"
	case PartCasing:
		return "cartridge casing"
	case PartPrimer:
		return "primer"
	case PartPowder:
		return "propellant"
	default:
		return p.String()
	}
}

// ParseBulletPart resolves a single part by name (case-insensitive).
func ParseBulletPart(name string) (BulletPart, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "core", "bulletcore":
		return PartCore, nil
	case "jacket", "bulletjacket":
		return PartJacket, nil
	case "tip", "bullettip":
		return PartTip, nil
	case "casing":
		return PartCasing, nil
	case "primer":
		return PartPrimer, nil
	case "powder":
		return PartPowder, nil
	default:
		return PartNone, fmt.Errorf("unknown bullet part %q", name)
	}
}

// ParseBulletParts builds a mask from a list of part names.
func ParseBulletParts(names []string) (BulletPart, error) {
	var mask BulletPart
	for _, name := range names {
		part, err := ParseBulletPart(name)
		if err != nil {
			return mask, err
		}
		mask |= part
	}
	return mask, nil
}
