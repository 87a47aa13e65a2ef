package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ModData is one stat's coefficient/offset pair.
// The zero value is not identity: use NewModData.
type ModData struct {
	Stat        StatID
	Coefficient float64
	Offset      float64
}

// NewModData returns the identity modifier for stat.
func NewModData(stat StatID) ModData {
	return ModData{Stat: stat, Coefficient: 1, Offset: 0}
}

// Info returns the static metadata of the modified stat.
func (m ModData) Info() StatInfo { return m.Stat.Info() }

func (m ModData) ID() string           { return m.Stat.String() }
func (m ModData) Label() string        { return m.Stat.Info().Label }
func (m ModData) LargerIsBetter() bool { return m.Stat.Info().LargerIsBetter }
func (m ModData) StatName() string     { return m.Stat.Info().StatName }
func (m ModData) OffsetUnit() string   { return m.Stat.Info().OffsetUnit }
func (m ModData) Format() string       { return m.Stat.Info().Format }
func (m ModData) Range() StatRange     { return m.Stat.Info().Range }

// IsIdentity reports whether m has no effect.
func (m ModData) IsIdentity() bool {
	return m.Coefficient == 1 && m.Offset == 0
}

// IsGood reports whether a change of the given sign benefits the stat.
func (m ModData) IsGood(change float64) bool {
	return (change > 0) == m.LargerIsBetter()
}

// Combine returns the merge of m and other: coefficients add their deltas from
// identity, offsets add. The operation is associative and commutative.
func (m ModData) Combine(other ModData) ModData {
	return ModData{
		Stat:        m.Stat,
		Coefficient: m.Coefficient + (other.Coefficient - 1),
		Offset:      m.Offset + other.Offset,
	}
}

// Apply returns v*Coefficient + Offset.
func (m ModData) Apply(v float64) float64 {
	return v*m.Coefficient + m.Offset
}

// ApplyInt applies the modifier to an integer value, rounds half to even and
// floors the result at minValue.
func (m ModData) ApplyInt(v, minValue int) int {
	out := int(math.RoundToEven(m.Apply(float64(v))))
	if out < minValue {
		out = minValue
	}
	return out
}

// String renders the modifier in data-file syntax ("x1.2 +3").
func (m ModData) String() string {
	var parts []string
	if m.Coefficient != 1 {
		parts = append(parts, "x"+strconv.FormatFloat(m.Coefficient, 'g', -1, 64))
	}
	if m.Offset != 0 {
		s := strconv.FormatFloat(m.Offset, 'g', -1, 64)
		if m.Offset > 0 {
			s = "+" + s
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "x1"
	}
	return strings.Join(parts, " ")
}

// ParseModData parses modifier text for stat.
//
// Tokens are separated by whitespace. A token starting with 'x', 'X' or '*' sets the
// coefficient, any other token sets the offset (an optional leading '+' is allowed).
// Malformed tokens are returned as errors and leave the corresponding value at identity.
func ParseModData(stat StatID, text string) (ModData, []error) {
	m := NewModData(stat)
	var errs []error

	for _, tok := range strings.Fields(text) {
		switch tok[0] {
		case 'x', 'X', '*':
			v, err := strconv.ParseFloat(tok[1:], 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("parsing %q as a coefficient float for %s: %w", tok[1:], stat, err))
				continue
			}
			m.Coefficient = v
		default:
			raw := strings.TrimPrefix(tok, "+")
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("parsing %q as an offset float for %s: %w", raw, stat, err))
				continue
			}
			m.Offset = v
		}
	}

	return m, errs
}
