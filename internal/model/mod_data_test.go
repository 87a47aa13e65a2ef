package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModData_Combine(t *testing.T) {
	a := ModData{Stat: StatDamage, Coefficient: 1.2, Offset: 1}
	b := ModData{Stat: StatDamage, Coefficient: 0.9, Offset: -3}
	c := ModData{Stat: StatDamage, Coefficient: 1.5, Offset: 0.5}

	ab := a.Combine(b)
	assert.InDelta(t, 1.1, ab.Coefficient, 1e-12)
	assert.InDelta(t, -2, ab.Offset, 1e-12)

	// commutative and associative
	assert.InDelta(t, ab.Coefficient, b.Combine(a).Coefficient, 1e-12)
	left := a.Combine(b).Combine(c)
	right := a.Combine(b.Combine(c))
	assert.InDelta(t, left.Coefficient, right.Coefficient, 1e-12)
	assert.InDelta(t, left.Offset, right.Offset, 1e-12)

	// identity
	id := NewModData(StatDamage)
	assert.Equal(t, a, a.Combine(id))
	assert.True(t, id.IsIdentity())
}

func TestModData_ApplyInt(t *testing.T) {
	tests := []struct {
		name string
		mod  ModData
		v    int
		min  int
		want int
	}{
		{"identity", NewModData(StatDamage), 16, 1, 16},
		{"round down", ModData{StatDamage, 0.93, 0}, 16, 1, 15},
		{"half to even", ModData{StatDamage, 1, 0.5}, 2, 1, 2},
		{"half to even up", ModData{StatDamage, 1, 0.5}, 3, 1, 4},
		{"floored", ModData{StatDamage, 0.01, -5}, 16, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mod.ApplyInt(tt.v, tt.min))
		})
	}
}

func TestModData_IsGood(t *testing.T) {
	dmg := NewModData(StatDamage)
	recoil := NewModData(StatRecoil)

	assert.True(t, dmg.IsGood(0.1))
	assert.False(t, dmg.IsGood(-0.1))
	assert.False(t, recoil.IsGood(0.1))
	assert.True(t, recoil.IsGood(-0.1))
}

func TestParseModData(t *testing.T) {
	tests := []struct {
		text     string
		wantCoef float64
		wantOff  float64
		wantErrs int
	}{
		{"x1.2", 1.2, 0, 0},
		{"X0.5", 0.5, 0, 0},
		{"*2", 2, 0, 0},
		{"+3", 1, 3, 0},
		{"-0.25", 1, -0.25, 0},
		{"x1.1 +2", 1.1, 2, 0},
		{"  ", 1, 0, 0},
		{"xabc +1", 1, 1, 1},
		{"x1.5 nope", 1.5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			m, errs := ParseModData(StatSpeed, tt.text)
			assert.Equal(t, StatSpeed, m.Stat)
			assert.InDelta(t, tt.wantCoef, m.Coefficient, 1e-12)
			assert.InDelta(t, tt.wantOff, m.Offset, 1e-12)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}

func TestModData_String(t *testing.T) {
	assert.Equal(t, "x1", NewModData(StatMass).String())
	assert.Equal(t, "x1.2 +3", ModData{StatDamage, 1.2, 3}.String())
	assert.Equal(t, "-0.5", ModData{StatRecoil, 1, -0.5}.String())

	// String output parses back to the same modifier
	orig := ModData{StatSpread, 0.85, 0.1}
	back, errs := ParseModData(StatSpread, orig.String())
	require.Empty(t, errs)
	assert.Equal(t, orig, back)
}

func TestStatTable(t *testing.T) {
	for _, id := range AllStats() {
		info := id.Info()
		assert.NotEmpty(t, info.Key, "stat %d", id)
		assert.NotEmpty(t, info.Label, "stat %d", id)

		got, ok := StatByKey(info.Key)
		require.True(t, ok)
		assert.Equal(t, id, got)
	}

	_, ok := StatByKey("range")
	assert.False(t, ok)

	assert.Equal(t, ExtStatShotSpread, StatSpread.Info().StatName)
	assert.Empty(t, StatRateOfFire.Info().StatName)
	assert.False(t, StatCount.Valid())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v      float64
		format string
		want   string
	}{
		{3, "0.#", "3"},
		{2.5, "0.##", "2.5"},
		{0.12346, "0.####", "0.1235"},
		{-0.001, "0.##", "0"},
		{12.999, "0.##", "13"},
		{7.4, "0", "7"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.v, tt.format), "%v %s", tt.v, tt.format)
	}

	assert.Equal(t, "25%", FormatPercent(0.25))
	assert.Equal(t, "-10%", FormatPercent(-0.1))
}
