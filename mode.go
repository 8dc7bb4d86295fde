package meshzero

import "fmt"

// Mode selects the reference point that is moved to the origin. The zero
// value is ModeMin.
type Mode int

const (
	// ModeMin moves the minimum bounding box corner to the origin.
	ModeMin Mode = iota
	// ModeCenter moves the bounding box center to the origin.
	ModeCenter
	// ModeMass moves the center of mass to the origin.
	ModeMass
)

var modeNames = []string{"min", "center", "mass"}

// ParseMode maps min, center or mass to a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeMin, &InvalidModeError{s}
}

func (m Mode) Valid() bool {
	return m >= ModeMin && m <= ModeMass
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Set implements pflag.Value.
func (m *Mode) Set(s string) error {
	mode, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Type implements pflag.Value.
func (m *Mode) Type() string {
	return "min|center|mass"
}
