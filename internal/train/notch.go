package train

// Notch is the cab power handle position: -3..-1 brake, 0 neutral,
// +1..+3 power. Frontends step notches; the dynamics only ever see the
// scalar throttle.
type Notch int

const (
	MinNotch Notch = -3
	MaxNotch Notch = 3
)

// Inc moves the handle one notch toward full power.
func (n Notch) Inc() Notch {
	if n >= MaxNotch {
		return MaxNotch
	}
	return n + 1
}

// Dec moves the handle one notch toward full brake.
func (n Notch) Dec() Notch {
	if n <= MinNotch {
		return MinNotch
	}
	return n - 1
}

// Throttle maps the notch to the scalar input in [-1, 1].
func (n Notch) Throttle() float64 {
	return float64(n) / float64(MaxNotch)
}

func (n Notch) String() string {
	switch {
	case n > 0:
		return "P" + string('0'+rune(n))
	case n < 0:
		return "B" + string('0'+rune(-n))
	}
	return "N"
}
