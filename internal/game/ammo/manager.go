package ammo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/customloads/internal/model"
	"github.com/udisondev/customloads/internal/registry"
)

// FMJCategory is the ammo class templates are taken from.
const FMJCategory = "FullMetalJacket"

// NamePrefix prefixes generated load names.
const NamePrefix = "CustomAmmo_"

// Manager errors.
var (
	ErrNotFound               = errors.New("custom load not found")
	ErrUnknownAmmoSet         = errors.New("unknown ammo set")
	ErrNoTemplate             = errors.New("ammo set has no full metal jacket type")
	ErrRegistrationInProgress = errors.New("registration already in progress")
	ErrConfirmRequired        = errors.New("deleting a locked custom load requires confirmation")
)

// DraftStore persists custom load records.
type DraftStore interface {
	LoadDrafts(ctx context.Context) ([]model.DraftRecord, error)
	SaveDrafts(ctx context.Context, records []model.DraftRecord) error
}

// Manager owns the ordered library of custom loads.
type Manager struct {
	reg        *registry.Registry
	store      DraftStore
	craftCount int // 0 = count produced by the template recipe

	mu         sync.Mutex
	loads      []*CustomLoad
	submitting map[string]struct{} // load name → registration in progress
}

// NewManager creates a manager. store may be nil when nothing is persisted.
func NewManager(reg *registry.Registry, store DraftStore, craftCountOverride int) *Manager {
	return &Manager{
		reg:        reg,
		store:      store,
		craftCount: craftCountOverride,
		submitting: make(map[string]struct{}),
	}
}

// FMJTemplate returns the full metal jacket type of set.
func (m *Manager) FMJTemplate(set *model.AmmoSet) (Template, bool) {
	for _, link := range set.AmmoTypes {
		a := m.reg.Ammo(link.Ammo)
		if a == nil || a.AmmoClass != FMJCategory {
			continue
		}
		p := m.reg.Projectile(link.Projectile)
		if p == nil {
			continue
		}
		return Template{Set: set, Ammo: a, Projectile: p}, true
	}
	return Template{}, false
}

// TemplateSets returns the ammo sets a load can be created for: visible, not mortar
// shells, with a full metal jacket type.
func (m *Manager) TemplateSets() []*model.AmmoSet {
	var out []*model.AmmoSet
	for _, set := range m.reg.AmmoSets() {
		if set.IsMortar || len(set.AmmoTypes) == 0 {
			continue
		}
		if first := m.reg.Ammo(set.AmmoTypes[0].Ammo); first == nil || first.MenuHidden {
			continue
		}
		if _, ok := m.FMJTemplate(set); !ok {
			continue
		}
		out = append(out, set)
	}
	return out
}

// Create adds a new draft based on the FMJ type of the named ammo set.
func (m *Manager) Create(setName string) (*CustomLoad, error) {
	set := m.reg.AmmoSet(setName)
	if set == nil {
		return nil, fmt.Errorf("%s: %w", setName, ErrUnknownAmmoSet)
	}
	tmpl, ok := m.FMJTemplate(set)
	if !ok {
		return nil, fmt.Errorf("%s: %w", setName, ErrNoTemplate)
	}

	c := NewCustomLoad(NamePrefix+uuid.NewString(), tmpl, m.reg.DefaultGunpowder())
	if err := c.GenerateDefs(m.reg, false); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.loads = append(m.loads, c)
	m.mu.Unlock()

	slog.Info("created custom ammo", "template", tmpl.Ammo.Name, "name", c.Name())
	return c, nil
}

// Get returns the load with the given name, nil when absent.
func (m *Manager) Get(name string) *CustomLoad {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(name)
}

func (m *Manager) findLocked(name string) *CustomLoad {
	for _, c := range m.loads {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// All returns the loads in library order.
func (m *Manager) All() []*CustomLoad {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.loads)
}

// Submit validates and registers a draft, then locks it.
// A load is registered at most once; a concurrent Submit of the same load fails.
func (m *Manager) Submit(name string) error {
	m.mu.Lock()
	c := m.findLocked(name)
	if c == nil {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if _, busy := m.submitting[name]; busy {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", name, ErrRegistrationInProgress)
	}
	m.submitting[name] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.submitting, name)
		m.mu.Unlock()
	}()

	if c.IsLocked() || c.IsRegistered() {
		return fmt.Errorf("%s: %w", name, ErrAlreadyRegistered)
	}
	if err := c.ValidateForRegistration(m.reg); err != nil {
		return err
	}
	if err := c.GenerateDefs(m.reg, true, WithCraftCount(m.craftCount)); err != nil {
		return err
	}
	c.lock()
	return nil
}

// DeleteResult describes a completed deletion.
type DeleteResult struct {
	Label string
	// Destructive is set when a registered load was removed: anything referencing
	// its derived definitions may break.
	Destructive bool
}

// Message is the user-facing confirmation.
func (r DeleteResult) Message() string {
	if r.Destructive {
		return fmt.Sprintf("Deleted '%s'. Your save games may have been affected.", r.Label)
	}
	return fmt.Sprintf("Deleted '%s'. No save games were affected.", r.Label)
}

// Delete removes a load. Drafts are removed freely; locked loads require confirm.
// Registered definitions stay in the registry until the process exits.
func (m *Manager) Delete(name string, confirm bool) (DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.loads, func(c *CustomLoad) bool { return c.Name() == name })
	if idx < 0 {
		return DeleteResult{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if _, busy := m.submitting[name]; busy {
		return DeleteResult{}, fmt.Errorf("%s: %w", name, ErrRegistrationInProgress)
	}

	c := m.loads[idx]
	if c.IsLocked() && !confirm {
		return DeleteResult{}, fmt.Errorf("%s: %w", name, ErrConfirmRequired)
	}

	m.loads = slices.Delete(m.loads, idx, idx+1)
	res := DeleteResult{Label: c.Label(), Destructive: c.IsLocked()}
	slog.Info("deleted custom ammo", "name", name, "destructive", res.Destructive)
	return res, nil
}

// Load replaces the library with the records of the store.
func (m *Manager) Load(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	records, err := m.store.LoadDrafts(ctx)
	if err != nil {
		return fmt.Errorf("loading custom ammo: %w", err)
	}

	loads := make([]*CustomLoad, 0, len(records))
	for _, rec := range records {
		loads = append(loads, FromRecord(m.reg, rec))
	}

	m.mu.Lock()
	m.loads = loads
	m.mu.Unlock()

	slog.Info("loaded custom ammo", "count", len(loads))
	return nil
}

// Save writes every load to the store.
func (m *Manager) Save(ctx context.Context) error {
	if m.store == nil {
		return nil
	}

	m.mu.Lock()
	records := make([]model.DraftRecord, len(m.loads))
	for i, c := range m.loads {
		records[i] = c.ToRecord()
	}
	m.mu.Unlock()

	if err := m.store.SaveDrafts(ctx, records); err != nil {
		return fmt.Errorf("saving custom ammo: %w", err)
	}
	return nil
}

// RegenerateReport summarizes RegenerateAll.
type RegenerateReport struct {
	Registered int
	Previewed  int
	Errored    int
	Failed     int
}

// RegenerateAll derives every load at startup: locked loads are registered, drafts
// are previewed, errored loads are skipped.
func (m *Manager) RegenerateAll() RegenerateReport {
	var rep RegenerateReport
	for _, c := range m.All() {
		if c.IsErrored() {
			slog.Warn("skipping errored custom ammo", "name", c.Name(), "label", c.Label(), "missing", c.Unresolved())
			rep.Errored++
			continue
		}

		register := c.IsLocked() && !c.IsRegistered()
		if err := c.GenerateDefs(m.reg, register, WithCraftCount(m.craftCount)); err != nil {
			slog.Error("generating custom ammo", "name", c.Name(), "error", err)
			rep.Failed++
			continue
		}
		if register {
			rep.Registered++
		} else {
			rep.Previewed++
		}
	}
	return rep
}
