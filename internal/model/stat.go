package model

import (
	"fmt"
	"strconv"
	"strings"
)

// StatID identifies a ballistic stat that bullet parts can modify.
type StatID uint8

const (
	StatDamage StatID = iota
	StatSpeed
	StatSpread
	StatAPSharp
	StatAPBlunt
	StatPelletCount
	StatRecoil
	StatMuzzleFlash
	StatRateOfFire
	StatBurstShotCount
	StatMass

	StatCount
)

// External stat names consumed by the stat evaluation pipeline.
const (
	ExtStatShotSpread             = "ShotSpread"
	ExtStatRecoil                 = "Recoil"
	ExtStatMuzzleFlash            = "MuzzleFlash"
	ExtStatBurstShotCount         = "BurstShotCount"
	ExtStatTicksBetweenBurstShots = "TicksBetweenBurstShots"
)

// StatRange is the display range of a stat, used only for UI normalization.
type StatRange struct {
	Min float64
	Max float64
}

// StatInfo — статические метаданные стата (label, polarity, unit, format).
type StatInfo struct {
	Key            string // stable key used in data files and merged output
	Label          string
	LargerIsBetter bool
	StatName       string // external stat binding, empty when the stat lives on the projectile
	OffsetUnit     string
	Format         string // "0.##" style: digits after the dot are optional
	Range          StatRange
}

// statTable is fixed at compile time and never mutated.
var statTable = [StatCount]StatInfo{
	StatDamage:         {Key: "damage", Label: "Damage", LargerIsBetter: true, OffsetUnit: " HP", Format: "0.##", Range: StatRange{0, 100}},
	StatSpeed:          {Key: "speed", Label: "Speed", LargerIsBetter: true, OffsetUnit: " tiles/sec", Format: "0.##", Range: StatRange{0, 250}},
	StatSpread:         {Key: "spread", Label: "Spread", LargerIsBetter: false, StatName: ExtStatShotSpread, OffsetUnit: "°", Format: "0.##", Range: StatRange{0, 20}},
	StatAPSharp:        {Key: "apSharp", Label: "AP (Sharp)", LargerIsBetter: true, OffsetUnit: " RHA", Format: "0.##", Range: StatRange{0, 60}},
	StatAPBlunt:        {Key: "apBlunt", Label: "AP (Blunt)", LargerIsBetter: true, OffsetUnit: " MPa", Format: "0.##", Range: StatRange{0, 300}},
	StatPelletCount:    {Key: "pelletCount", Label: "Bullets Per Shot", LargerIsBetter: true, Format: "0.##", Range: StatRange{0, 20}},
	StatRecoil:         {Key: "recoil", Label: "Recoil", LargerIsBetter: false, StatName: ExtStatRecoil, Format: "0.##", Range: StatRange{0, 10}},
	StatMuzzleFlash:    {Key: "muzzleFlash", Label: "Muzzle Flash Size", LargerIsBetter: false, StatName: ExtStatMuzzleFlash, Format: "0.##", Range: StatRange{0, 10}},
	StatRateOfFire:     {Key: "rateOfFire", Label: "Rate of Fire", LargerIsBetter: true, OffsetUnit: " RPM", Format: "0.##", Range: StatRange{0, 1200}},
	StatBurstShotCount: {Key: "burstShotCount", Label: "Burst Shot Count", LargerIsBetter: true, StatName: ExtStatBurstShotCount, OffsetUnit: " shots", Format: "0.##", Range: StatRange{1, 30}},
	StatMass:           {Key: "mass", Label: "Mass", LargerIsBetter: false, OffsetUnit: "kg", Format: "0.####", Range: StatRange{0, 0.15}},
}

// Valid reports whether id is one of the known stats.
func (id StatID) Valid() bool {
	return id < StatCount
}

// Info returns the static metadata for id.
// Unknown ids return a zero StatInfo.
func (id StatID) Info() StatInfo {
	if !id.Valid() {
		return StatInfo{}
	}
	return statTable[id]
}

// String returns the stable key of the stat.
func (id StatID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("UNKNOWN(%d)", id)
	}
	return statTable[id].Key
}

// StatByKey resolves a stat by its stable key (case-sensitive, as written in data files).
func StatByKey(key string) (StatID, bool) {
	for i := range statTable {
		if statTable[i].Key == key {
			return StatID(i), true
		}
	}
	return 0, false
}

// AllStats returns every stat in table order.
func AllStats() []StatID {
	ids := make([]StatID, StatCount)
	for i := range ids {
		ids[i] = StatID(i)
	}
	return ids
}

// FormatNumber formats v using a "0.##" style pattern: the number of characters after
// the dot is the maximum precision, trailing zeros are dropped.
func FormatNumber(v float64, format string) string {
	prec := 0
	if i := strings.IndexByte(format, '.'); i >= 0 {
		prec = len(format) - i - 1
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if prec > 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// FormatPercent formats a fraction as a whole percentage ("0.25" → "25%").
func FormatPercent(v float64) string {
	return FormatNumber(v*100, "0") + "%"
}
