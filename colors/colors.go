// Package colors holds the named color constants exposed to templates
// via SetBackColor/SetForeColor (spec §6), packed as 0x00BBGGRR to
// match the original format's in-memory layout.
package colors

const (
	Black   uint32 = 0x000000
	DkGray  uint32 = 0x404040
	Gray    uint32 = 0x808080
	Silver  uint32 = 0xC0C0C0
	LtGray  uint32 = 0xE0E0E0
	White   uint32 = 0xFFFFFF

	DkRed uint32 = 0x000080
	Red   uint32 = 0x0000FF
	LtRed uint32 = 0x8080FF

	DkGreen uint32 = 0x008000
	Green   uint32 = 0x00FF00
	LtGreen uint32 = 0x80FF80

	DkBlue uint32 = 0x800000
	Blue   uint32 = 0xFF0000
	LtBlue uint32 = 0xFF8080

	DkPurple uint32 = 0x800080
	Purple   uint32 = 0xFF00FF
	LtPurple uint32 = 0xFF80FF

	DkAqua uint32 = 0x808000
	Aqua   uint32 = 0xFFFF00
	LtAqua uint32 = 0xFFFF80

	DkYellow uint32 = 0x004080
	Yellow   uint32 = 0x0080FF
	LtYellow uint32 = 0x80C0FF
)

// None is the "unset" sentinel, matching the original BTEntry default
// of 0xFFFFFFFF rather than zero (which is a legitimate color, Black).
const None uint32 = 0xFFFFFFFF

// ByName maps the template-facing identifiers (spec §6) to their
// packed color values.
var ByName = map[string]uint32{
	"cBlack":    Black,
	"cDkGray":   DkGray,
	"cGray":     Gray,
	"cSilver":   Silver,
	"cLtGray":   LtGray,
	"cWhite":    White,
	"cRed":      Red,
	"cDkRed":    DkRed,
	"cLtRed":    LtRed,
	"cGreen":    Green,
	"cDkGreen":  DkGreen,
	"cLtGreen":  LtGreen,
	"cBlue":     Blue,
	"cDkBlue":   DkBlue,
	"cLtBlue":   LtBlue,
	"cPurple":   Purple,
	"cDkPurple": DkPurple,
	"cLtPurple": LtPurple,
	"cAqua":     Aqua,
	"cDkAqua":   DkAqua,
	"cLtAqua":   LtAqua,
	"cYellow":   Yellow,
	"cDkYellow": DkYellow,
	"cLtYellow": LtYellow,
	"cNone":     None,
}

// Lookup resolves a template color identifier by name.
func Lookup(name string) (uint32, bool) {
	c, ok := ByName[name]
	return c, ok
}
