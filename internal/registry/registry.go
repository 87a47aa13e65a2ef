// Package registry is the process-wide definition database.
//
// Definitions are append-only: once registered they live for the process lifetime.
// Derived ammunition is committed through Atomically so that ammo, projectile,
// category and recipe appear together or not at all.
package registry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/customloads/internal/model"
)

// Errors.
var (
	ErrDuplicate = errors.New("definition already registered")
	ErrEmptyName = errors.New("definition has no name")
	ErrNilDef    = errors.New("definition is nil")
)

// Registry holds definitions by kind and name, preserving registration order.
type Registry struct {
	mu     sync.RWMutex
	byName map[model.DefKind]map[string]model.Def
	order  map[model.DefKind][]model.Def
	hashes map[model.DefKind]map[uint16]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byName: make(map[model.DefKind]map[string]model.Def),
		order:  make(map[model.DefKind][]model.Def),
		hashes: make(map[model.DefKind]map[uint16]string),
	}
}

// Register adds a single definition.
func (r *Registry) Register(def model.Def) error {
	return r.Atomically(func(tx *Tx) error {
		return tx.Add(def)
	})
}

// LookupByName returns the definition of kind with the given name.
func (r *Registry) LookupByName(kind model.DefKind, name string) (model.Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(kind, name)
}

func (r *Registry) lookupLocked(kind model.DefKind, name string) (model.Def, bool) {
	def, ok := r.byName[kind][name]
	return def, ok
}

// AllOfKind returns every definition of kind in registration order.
func (r *Registry) AllOfKind(kind model.DefKind) []model.Def {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Def(nil), r.order[kind]...)
}

// Count returns the number of definitions of kind.
func (r *Registry) Count(kind model.DefKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order[kind])
}

// ShortHash returns the short hash assigned at registration, 0 when unknown.
func (r *Registry) ShortHash(kind model.DefKind, name string) uint16 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for h, n := range r.hashes[kind] {
		if n == name {
			return h
		}
	}
	return 0
}

// Tx stages definitions for an atomic commit.
type Tx struct {
	reg    *Registry
	staged []model.Def
	names  map[model.DefKind]map[string]struct{}
	after  []func()
}

// Add stages def. Duplicates (against the registry or the same tx) fail immediately.
func (tx *Tx) Add(def model.Def) error {
	if def == nil {
		return ErrNilDef
	}
	name := def.DefName()
	if name == "" {
		return fmt.Errorf("%s: %w", def.Kind(), ErrEmptyName)
	}
	if _, ok := tx.reg.lookupLocked(def.Kind(), name); ok {
		return fmt.Errorf("%s %q: %w", def.Kind(), name, ErrDuplicate)
	}
	if _, ok := tx.names[def.Kind()][name]; ok {
		return fmt.Errorf("%s %q staged twice: %w", def.Kind(), name, ErrDuplicate)
	}
	if tx.names[def.Kind()] == nil {
		tx.names[def.Kind()] = make(map[string]struct{})
	}
	tx.names[def.Kind()][name] = struct{}{}
	tx.staged = append(tx.staged, def)
	return nil
}

// Lookup reads committed definitions from inside the transaction.
func (tx *Tx) Lookup(kind model.DefKind, name string) (model.Def, bool) {
	return tx.reg.lookupLocked(kind, name)
}

// OnCommit schedules fn to run after all staged definitions are added, still under
// the registry lock. Used to link new definitions into existing ones.
func (tx *Tx) OnCommit(fn func()) {
	tx.after = append(tx.after, fn)
}

// Atomically runs fn with a fresh transaction. If fn returns an error nothing is added.
// Concurrent calls are serialized.
func (r *Registry) Atomically(fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &Tx{reg: r, names: make(map[model.DefKind]map[string]struct{})}
	if err := fn(tx); err != nil {
		return err
	}

	for _, def := range tx.staged {
		r.addLocked(def)
	}
	for _, fn := range tx.after {
		fn()
	}
	return nil
}

func (r *Registry) addLocked(def model.Def) {
	kind, name := def.Kind(), def.DefName()
	if r.byName[kind] == nil {
		r.byName[kind] = make(map[string]model.Def)
	}
	r.byName[kind][name] = def
	r.order[kind] = append(r.order[kind], def)

	h := r.giveShortHashLocked(kind, name)
	switch d := def.(type) {
	case *model.AmmoDef:
		d.ShortHash = h
	case *model.ProjectileDef:
		d.ShortHash = h
	}

	slog.Debug("registered definition", "kind", kind, "name", name, "shortHash", h)
}

// giveShortHashLocked derives a 16-bit hash from the name and probes for a free slot.
// Zero is reserved for "no hash".
func (r *Registry) giveShortHashLocked(kind model.DefKind, name string) uint16 {
	sum := blake2b.Sum256([]byte(name))
	h := binary.LittleEndian.Uint16(sum[:2])

	taken := r.hashes[kind]
	if taken == nil {
		taken = make(map[uint16]string)
		r.hashes[kind] = taken
	}
	for {
		if h == 0 {
			h++
		}
		if _, used := taken[h]; !used {
			break
		}
		h++
	}
	taken[h] = name
	return h
}
