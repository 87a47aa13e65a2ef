package ammo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/customloads/internal/model"
)

type memStore struct {
	mu      sync.Mutex
	records []model.DraftRecord
	saves   int
	err     error
}

func (s *memStore) LoadDrafts(context.Context) ([]model.DraftRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]model.DraftRecord(nil), s.records...), nil
}

func (s *memStore) SaveDrafts(_ context.Context, records []model.DraftRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append([]model.DraftRecord(nil), records...)
	s.saves++
	return nil
}

func TestManager_TemplateSets(t *testing.T) {
	reg := catalog(t)
	m := NewManager(reg, nil, 0)

	var names []string
	for _, set := range m.TemplateSets() {
		names = append(names, set.Name)
	}
	assert.ElementsMatch(t, []string{"AmmoSet_9x19mmPara", set556, "AmmoSet_762x51mmNATO"}, names)
}

func TestManager_Create(t *testing.T) {
	reg := catalog(t)
	m := NewManager(reg, nil, 0)

	c, err := m.Create(set556)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.Name(), NamePrefix))
	assert.Equal(t, ammo556, c.Template().Ammo.Name)
	assert.NotNil(t, c.Ammo(), "drafts are previewed on creation")
	assert.False(t, c.IsLocked())
	assert.Same(t, c, m.Get(c.Name()))

	other, err := m.Create(set556)
	require.NoError(t, err)
	assert.NotEqual(t, c.Name(), other.Name())
	assert.Equal(t, []*CustomLoad{c, other}, m.All())

	_, err = m.Create("AmmoSet_12Gauge")
	assert.ErrorIs(t, err, ErrNoTemplate)
	_, err = m.Create("AmmoSet_Missing")
	assert.ErrorIs(t, err, ErrUnknownAmmoSet)
}

func TestManager_Submit(t *testing.T) {
	reg := catalog(t)
	m := NewManager(reg, nil, 0)

	c, err := m.Create(set556)
	require.NoError(t, err)

	var verr *ValidationError
	require.ErrorAs(t, m.Submit(c.Name()), &verr)
	assert.False(t, c.IsLocked())

	c.SetLabel("Dragon")
	c.SetDesignation("drg")
	require.NoError(t, c.SetPart(model.PartTip, reg.Material("IncendiaryTip")))
	require.NoError(t, m.Submit(c.Name()))

	assert.True(t, c.IsLocked())
	assert.True(t, c.IsRegistered())
	assert.Same(t, c.Ammo(), reg.Ammo(c.Name()))

	assert.ErrorIs(t, m.Submit(c.Name()), ErrAlreadyRegistered)
	assert.ErrorIs(t, m.Submit("CustomAmmo_missing"), ErrNotFound)
}

func TestManager_SubmitConcurrent(t *testing.T) {
	reg := catalog(t)
	m := NewManager(reg, nil, 0)

	c, err := m.Create(set556)
	require.NoError(t, err)
	c.SetLabel("Dragon")
	c.SetDesignation("drg")

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			errs[i] = m.Submit(c.Name())
		})
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, ErrRegistrationInProgress) || errors.Is(err, ErrAlreadyRegistered), err.Error())
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, reg.AmmoSet(set556).AmmoTypes, 3)
}

func TestManager_Delete(t *testing.T) {
	reg := catalog(t)
	m := NewManager(reg, nil, 0)

	draft, err := m.Create(set556)
	require.NoError(t, err)
	draft.SetLabel("Draft")

	res, err := m.Delete(draft.Name(), false)
	require.NoError(t, err)
	assert.False(t, res.Destructive)
	assert.Equal(t, "Deleted 'Draft'. No save games were affected.", res.Message())
	assert.Nil(t, m.Get(draft.Name()))

	locked, err := m.Create(set556)
	require.NoError(t, err)
	locked.SetLabel("Dragon")
	locked.SetDesignation("drg")
	require.NoError(t, m.Submit(locked.Name()))

	_, err = m.Delete(locked.Name(), false)
	assert.ErrorIs(t, err, ErrConfirmRequired)
	assert.NotNil(t, m.Get(locked.Name()))

	res, err = m.Delete(locked.Name(), true)
	require.NoError(t, err)
	assert.True(t, res.Destructive)
	assert.Equal(t, "Deleted 'Dragon'. Your save games may have been affected.", res.Message())
	assert.NotNil(t, reg.Ammo(locked.Name()), "registered defs outlive the load")

	_, err = m.Delete(locked.Name(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_SaveLoad(t *testing.T) {
	reg := catalog(t)
	store := &memStore{}
	m := NewManager(reg, store, 0)

	draft, err := m.Create(set556)
	require.NoError(t, err)
	draft.SetLabel("Draft")
	require.NoError(t, draft.SetPowderLoad(-1))

	locked, err := m.Create("AmmoSet_762x51mmNATO")
	require.NoError(t, err)
	locked.SetLabel("Heavy")
	locked.SetDesignation("hvy")
	require.NoError(t, locked.SetPart(model.PartCore, reg.Material("TungstenCore")))
	require.NoError(t, m.Submit(locked.Name()))

	require.NoError(t, m.Save(context.Background()))
	require.Len(t, store.records, 2)
	assert.Equal(t, draft.Name(), store.records[0].Name)
	assert.True(t, store.records[1].IsLocked)

	// a fresh process: new registry, same store
	reg2 := catalog(t)
	m2 := NewManager(reg2, store, 0)
	require.NoError(t, m2.Load(context.Background()))

	loads := m2.All()
	require.Len(t, loads, 2)
	assert.Equal(t, -1, loads[0].PowderLoad())
	assert.True(t, loads[1].IsLocked())
	assert.False(t, loads[1].IsRegistered())

	rep := m2.RegenerateAll()
	assert.Equal(t, RegenerateReport{Registered: 1, Previewed: 1}, rep)
	assert.NotNil(t, reg2.Ammo(locked.Name()))
	assert.Nil(t, reg2.Ammo(draft.Name()))
	assert.Equal(t, locked.TechnicalDescription(), loads[1].TechnicalDescription())
}

func TestManager_RegenerateAllSkipsErrored(t *testing.T) {
	reg := catalog(t)
	store := &memStore{records: []model.DraftRecord{{
		Name:           "CustomAmmo_lost",
		Label:          "Lost",
		Designation:    "LST",
		IsLocked:       true,
		AmmoTemplate:   "Ammo_Removed",
		BulletTemplate: "Bullet_Removed",
	}}}
	m := NewManager(reg, store, 0)
	require.NoError(t, m.Load(context.Background()))

	rep := m.RegenerateAll()
	assert.Equal(t, RegenerateReport{Errored: 1}, rep)

	require.NoError(t, m.Save(context.Background()))
	assert.Equal(t, "Ammo_Removed", store.records[0].AmmoTemplate)
}

func TestManager_StoreErrors(t *testing.T) {
	reg := catalog(t)
	boom := errors.New("disk on fire")
	m := NewManager(reg, &memStore{err: boom}, 0)

	assert.ErrorIs(t, m.Load(context.Background()), boom)
	assert.ErrorIs(t, m.Save(context.Background()), boom)

	assert.NoError(t, NewManager(reg, nil, 0).Save(context.Background()))
}
