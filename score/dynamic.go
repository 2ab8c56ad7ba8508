package score

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDynamic = errors.New("invalid dynamic")

// Dynamic is a notated loudness level.
type Dynamic int

const (
	PPP Dynamic = iota
	PP
	P
	MP
	MF
	F
	FF
	FFF
)

// Dynamics lists every level from softest to loudest.
var Dynamics = []Dynamic{PPP, PP, P, MP, MF, F, FF, FFF}

var dynamicNames = [...]string{"ppp", "pp", "p", "mp", "mf", "f", "ff", "fff"}

var dynamicVelocities = [...]uint8{16, 32, 48, 64, 80, 96, 112, 127}

func (d Dynamic) Valid() bool { return d >= PPP && d <= FFF }

func (d Dynamic) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Dynamic(%d)", int(d))
	}
	return dynamicNames[d]
}

// Velocity returns the device velocity (and volume) for the level.
func (d Dynamic) Velocity() uint8 {
	if !d.Valid() {
		return 0
	}
	return dynamicVelocities[d]
}

func (d Dynamic) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDynamic, int(d))
	}
	return []byte(dynamicNames[d]), nil
}

func (d *Dynamic) UnmarshalText(text []byte) error {
	parsed, err := ParseDynamic(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDynamic accepts the usual abbreviations ("pp", "mf", ...).
func ParseDynamic(s string) (Dynamic, error) {
	for i, name := range dynamicNames {
		if strings.EqualFold(s, name) {
			return Dynamic(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDynamic, s)
}
