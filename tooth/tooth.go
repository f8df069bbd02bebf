// Package tooth defines the canonical addressing scheme for the 32 permanent
// teeth. A tooth is identified by its quadrant (1 = upper right, 2 = upper
// left, 3 = lower left, 4 = lower right) and its position within the quadrant
// (1..8, counted from the center of the mouth outward). The package also
// converts to and from the Universal Numbering System (1..32) used by the
// storage format.
package tooth

import "fmt"

// ID addresses one of the 32 permanent teeth.
type ID struct {
	Quadrant int
	Position int
}

// Valid reports whether the ID addresses one of the 32 canonical teeth.
func (id ID) Valid() bool {
	return id.Quadrant >= 1 && id.Quadrant <= 4 && id.Position >= 1 && id.Position <= 8
}

// String renders the canonical "{quadrant}-{position}" form, e.g. "1-8".
func (id ID) String() string {
	return fmt.Sprintf("%d-%d", id.Quadrant, id.Position)
}

// MarshalText lets IDs serve as JSON object keys.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("tooth: invalid id %d-%d", id.Quadrant, id.Position)
	}
	return []byte(id.String()), nil
}

// UnmarshalText parses the canonical "{quadrant}-{position}" form.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("tooth: invalid id %q", string(text))
	}
	*id = parsed
	return nil
}

// Parse converts a canonical id string back into an ID. The boolean is false
// for anything that does not name one of the 32 teeth.
func Parse(s string) (ID, bool) {
	if len(s) != 3 || s[1] != '-' {
		return ID{}, false
	}
	quadrant := int(s[0] - '0')
	position := int(s[2] - '0')
	id := ID{Quadrant: quadrant, Position: position}
	if !id.Valid() {
		return ID{}, false
	}
	return id, true
}

// All returns the 32 canonical IDs in the fixed enumeration order: quadrant
// ascending, then position ascending. This order doubles as the keyboard
// navigation order in the chart widget.
func All() []ID {
	ids := make([]ID, 0, 32)
	for quadrant := 1; quadrant <= 4; quadrant++ {
		for position := 1; position <= 8; position++ {
			ids = append(ids, ID{Quadrant: quadrant, Position: position})
		}
	}
	return ids
}

// Index returns the position of id in the canonical enumeration, or -1 when
// id is not a canonical tooth.
func Index(id ID) int {
	if !id.Valid() {
		return -1
	}
	return (id.Quadrant-1)*8 + id.Position - 1
}

// Number converts the ID to its Universal Numbering System value. Universal
// numbers run 1..16 across the upper arch (rearmost upper right to rearmost
// upper left) and 17..32 back across the lower arch.
func (id ID) Number() int {
	switch id.Quadrant {
	case 1:
		return 9 - id.Position
	case 2:
		return 8 + id.Position
	case 3:
		return 25 - id.Position
	default:
		return 24 + id.Position
	}
}

// FromNumber converts a Universal number back to an ID. Numbers outside
// [1,32] are a programmer error and panic; callers handling untrusted input
// must range-check first.
func FromNumber(number int) ID {
	switch {
	case number >= 1 && number <= 8:
		return ID{Quadrant: 1, Position: 9 - number}
	case number >= 9 && number <= 16:
		return ID{Quadrant: 2, Position: number - 8}
	case number >= 17 && number <= 24:
		return ID{Quadrant: 3, Position: 25 - number}
	case number >= 25 && number <= 32:
		return ID{Quadrant: 4, Position: number - 24}
	default:
		panic(fmt.Sprintf("tooth: universal number %d out of range", number))
	}
}
