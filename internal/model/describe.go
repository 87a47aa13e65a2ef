package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Polarity tags a description line for colorizing.
type Polarity uint8

const (
	PolarityNeutral Polarity = iota
	PolarityPositive
	PolarityNegative
)

// Markup wrapped around polar lines by Describe.
const (
	MarkupPositive = "<color=green>"
	MarkupNegative = "<color=red>"
	MarkupEnd      = "</color>"
)

// DescriptionLine is one rendered line of a modifier description.
type DescriptionLine struct {
	Polarity Polarity
	Text     string
}

func polarityOf(good bool) Polarity {
	if good {
		return PolarityPositive
	}
	return PolarityNegative
}

// DescribeLines renders merged modifiers and secondary damages into ordered lines:
// flavor text, secondary damages, good factors, good offsets, bad factors, bad offsets.
func DescribeLines(mods []ModData, damages []SecondaryDamage, localDesc string) []DescriptionLine {
	var lines []DescriptionLine

	if strings.TrimSpace(localDesc) != "" {
		lines = append(lines,
			DescriptionLine{PolarityNeutral, localDesc},
			DescriptionLine{PolarityNeutral, ""},
		)
	}

	for _, dmg := range damages {
		var sb strings.Builder
		sb.WriteString("Adds damage: ")
		sb.WriteString(FormatNumber(float64(dmg.Amount), "0.#"))
		sb.WriteByte(' ')
		sb.WriteString(CapitalizeFirst(dmg.DamageType))
		if dmg.Chance < 1 {
			sb.WriteString(" (")
			sb.WriteString(FormatPercent(dmg.Chance))
			sb.WriteByte(')')
		}
		lines = append(lines, DescriptionLine{PolarityPositive, sb.String()})
	}

	factor := func(good bool) {
		for _, m := range mods {
			multi := m.Coefficient - 1
			if multi != 0 && m.IsGood(multi) == good {
				lines = append(lines, DescriptionLine{polarityOf(good), factorText(m, multi)})
			}
		}
	}
	offset := func(good bool) {
		for _, m := range mods {
			if m.Offset != 0 && m.IsGood(m.Offset) == good {
				lines = append(lines, DescriptionLine{polarityOf(good), offsetText(m)})
			}
		}
	}

	factor(true)
	offset(true)
	factor(false)
	offset(false)

	return lines
}

// Describe renders DescribeLines as colorized text, one line per entry.
func Describe(mods []ModData, damages []SecondaryDamage, localDesc string) string {
	var sb strings.Builder
	for _, line := range DescribeLines(mods, damages, localDesc) {
		switch line.Polarity {
		case PolarityPositive:
			sb.WriteString(MarkupPositive)
			sb.WriteString(line.Text)
			sb.WriteString(MarkupEnd)
		case PolarityNegative:
			sb.WriteString(MarkupNegative)
			sb.WriteString(line.Text)
			sb.WriteString(MarkupEnd)
		default:
			sb.WriteString(line.Text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func factorText(m ModData, multi float64) string {
	s := m.Label() + " "
	if multi > 0 {
		s += "+"
	}
	return s + FormatPercent(multi)
}

func offsetText(m ModData) string {
	s := m.Label() + " "
	if m.Offset > 0 {
		s += "+"
	}
	return s + FormatNumber(m.Offset, m.Format()) + m.OffsetUnit()
}

// CapitalizeFirst upper-cases the first rune of s.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// UncapitalizeFirst lower-cases the first rune of s.
func UncapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
