package ammo

import (
	"fmt"
	"strings"

	"github.com/udisondev/customloads/internal/registry"
)

// ValidationError is a user-facing reason why a load cannot be registered.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func rejected(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ValidateForRegistration checks the user-provided fields before registration.
// The designation must not repeat the short label of any ammo class already used in
// the template's ammo sets (case-insensitive).
func (c *CustomLoad) ValidateForRegistration(reg *registry.Registry) error {
	if strings.TrimSpace(c.label) == "" {
		return rejected("You must provide a name for this ammo!")
	}
	if strings.TrimSpace(c.designation) == "" {
		return rejected("You must provide a designation for this ammo! Should be between 1 and 3 letters.")
	}
	if c.IsErrored() {
		return fmt.Errorf("%s: %w", c.name, ErrErrored)
	}

	existing := make(map[string]struct{})
	for _, setName := range c.template.Ammo.AmmoSets {
		set := reg.AmmoSet(setName)
		if set == nil {
			continue
		}
		for _, link := range set.AmmoTypes {
			a := reg.Ammo(link.Ammo)
			if a == nil {
				continue
			}
			if cat := reg.AmmoCategory(a.AmmoClass); cat != nil {
				existing[strings.ToLower(cat.LabelShort)] = struct{}{}
			}
		}
	}

	if _, dup := existing[strings.ToLower(c.designation)]; dup {
		return rejected("Ammo designation '%s' already exists in %s, you must create a new designation.", c.designation, c.setLabelCap())
	}
	return nil
}
