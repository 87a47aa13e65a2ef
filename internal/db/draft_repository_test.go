package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/customloads/internal/model"
)

func sampleRecords() []model.DraftRecord {
	return []model.DraftRecord{
		{
			Name:           "CustomAmmo_b",
			Label:          "Dragon",
			Designation:    "DRG",
			IsLocked:       true,
			PowderLoad:     2,
			AmmoTemplate:   "Ammo_556x45mmNATO_FMJ",
			BulletTemplate: "Bullet_556x45mmNATO_FMJ",
			Gunpowder:      "SmokelessPowder",
			Parts: map[string]string{
				"core": "SteelPenetrator",
				"tip":  "IncendiaryTip",
			},
		},
		{
			Name:           "CustomAmmo_a",
			Label:          "Quiet",
			PowderLoad:     -3,
			AmmoTemplate:   "Ammo_9x19mmPara_FMJ",
			BulletTemplate: "Bullet_9x19mmPara_FMJ",
			Parts:          map[string]string{},
		},
	}
}

func TestDraftRepository_RoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewDraftRepository(pool)
	ctx := context.Background()

	empty, err := repo.LoadDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := sampleRecords()
	require.NoError(t, repo.SaveDrafts(ctx, want))

	got, err := repo.LoadDrafts(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got, "library order is preserved")
}

func TestDraftRepository_SaveReplaces(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewDraftRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.SaveDrafts(ctx, sampleRecords()))

	kept := sampleRecords()[1:]
	kept[0].Parts = map[string]string{"casing": "PolymerCasing"}
	require.NoError(t, repo.SaveDrafts(ctx, kept))

	got, err := repo.LoadDrafts(ctx)
	require.NoError(t, err)
	assert.Equal(t, kept, got)

	var parts int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM custom_load_parts`).Scan(&parts))
	assert.Equal(t, 1, parts, "parts of removed loads are cascaded")

	require.NoError(t, repo.SaveDrafts(ctx, nil))
	got, err = repo.LoadDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDraftRepository_FailedSaveKeepsLibrary(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewDraftRepository(pool)
	ctx := context.Background()

	want := sampleRecords()
	require.NoError(t, repo.SaveDrafts(ctx, want))

	dup := append(sampleRecords(), sampleRecords()[0])
	require.Error(t, repo.SaveDrafts(ctx, dup))

	got, err := repo.LoadDrafts(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
