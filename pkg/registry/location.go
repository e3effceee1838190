package registry

import "strconv"

// Location points at a name in the caller's input. It is carried for error
// reporting only and never influences lookup.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"col"`
}

func (l Location) IsZero() bool { return l.Line == 0 && l.Column == 0 }

func (l Location) String() string {
	if l.IsZero() {
		return ""
	}
	return "[" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column) + "]"
}
