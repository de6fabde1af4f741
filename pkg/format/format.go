// Package format turns raw measure values into localized display strings and
// measures text for layout.
//
// A [Formatter] applies a display unit (thousands, millions, ...) and a fixed
// decimal precision, then groups digits according to its locale using
// golang.org/x/text. [DisplayAuto] picks the unit from the largest magnitude
// the visual shows, so every label of one visual uses the same unit.
package format

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Precision bounds for label decimals.
const (
	MinPrecision     = 0
	MaxPrecision     = 17
	DefaultPrecision = 2
)

// DisplayUnit scales values before formatting.
type DisplayUnit int

const (
	DisplayAuto DisplayUnit = iota
	DisplayNone
	DisplayThousands
	DisplayMillions
	DisplayBillions
	DisplayTrillions
)

var unitTable = map[DisplayUnit]struct {
	name   string
	value  float64
	suffix string
}{
	DisplayAuto:      {"auto", 1, ""},
	DisplayNone:      {"none", 1, ""},
	DisplayThousands: {"thousands", 1e3, "K"},
	DisplayMillions:  {"millions", 1e6, "M"},
	DisplayBillions:  {"billions", 1e9, "bn"},
	DisplayTrillions: {"trillions", 1e12, "T"},
}

// String returns the settings name of the unit.
func (u DisplayUnit) String() string {
	if e, ok := unitTable[u]; ok {
		return e.name
	}
	return "auto"
}

// ParseDisplayUnit maps a settings name (or numeric multiplier) to a unit.
// Unknown names map to DisplayAuto.
func ParseDisplayUnit(s string) DisplayUnit {
	switch strings.ToLower(s) {
	case "none", "1":
		return DisplayNone
	case "thousands", "1000":
		return DisplayThousands
	case "millions", "1000000":
		return DisplayMillions
	case "billions", "1000000000":
		return DisplayBillions
	case "trillions", "1000000000000":
		return DisplayTrillions
	default:
		return DisplayAuto
	}
}

// ChooseUnit picks the display unit for values up to max in magnitude.
func ChooseUnit(max float64) DisplayUnit {
	m := math.Abs(max)
	switch {
	case m >= 1e12:
		return DisplayTrillions
	case m >= 1e9:
		return DisplayBillions
	case m >= 1e6:
		return DisplayMillions
	case m >= 1e3:
		return DisplayThousands
	default:
		return DisplayNone
	}
}

// Formatter formats numbers with a fixed unit and precision.
type Formatter struct {
	unit      DisplayUnit
	precision int
	printer   *message.Printer
}

// Options configures a Formatter.
type Options struct {
	Unit      DisplayUnit
	Precision int
	// Max is the largest magnitude that will be formatted; it resolves
	// DisplayAuto.
	Max    float64
	Locale language.Tag
}

// New returns a formatter. Precision is clamped to [MinPrecision, MaxPrecision].
func New(o Options) *Formatter {
	unit := o.Unit
	if unit == DisplayAuto {
		unit = ChooseUnit(o.Max)
	}
	locale := o.Locale
	if locale == language.Und {
		locale = language.English
	}
	return &Formatter{
		unit:      unit,
		precision: ClampPrecision(o.Precision),
		printer:   message.NewPrinter(locale),
	}
}

// Default returns an English formatter without unit scaling.
func Default() *Formatter {
	return New(Options{Unit: DisplayNone, Precision: DefaultPrecision})
}

// Unit returns the resolved display unit.
func (f *Formatter) Unit() DisplayUnit { return f.unit }

// Precision returns the clamped decimal precision.
func (f *Formatter) Precision() int { return f.precision }

// Format renders v with the formatter's unit suffix.
func (f *Formatter) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	u := unitTable[f.unit]
	return f.decimal(v/u.value) + u.suffix
}

// FormatPercent renders a ratio (0.25) as a percentage ("25.00%").
func (f *Formatter) FormatPercent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return ""
	}
	return f.decimal(ratio*100) + "%"
}

func (f *Formatter) decimal(v float64) string {
	return f.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(f.precision),
		number.MaxFractionDigits(f.precision),
	))
}

// ClampPrecision bounds p to [MinPrecision, MaxPrecision].
func ClampPrecision(p int) int {
	return max(MinPrecision, min(MaxPrecision, p))
}

// ParseLocale parses a BCP 47 tag, falling back to English.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}
