package weather

import (
	"fmt"
	"slices"
)

// CompassCode is one of the 16 points of the compass rose as the station
// reports them (Catalan initials, O for west).
type CompassCode string

const (
	CompassN   CompassCode = "N"
	CompassNNE CompassCode = "NNE"
	CompassNE  CompassCode = "NE"
	CompassENE CompassCode = "ENE"
	CompassE   CompassCode = "E"
	CompassESE CompassCode = "ESE"
	CompassSE  CompassCode = "SE"
	CompassSSE CompassCode = "SSE"
	CompassS   CompassCode = "S"
	CompassSSO CompassCode = "SSO"
	CompassSO  CompassCode = "SO"
	CompassOSO CompassCode = "OSO"
	CompassO   CompassCode = "O"
	CompassONO CompassCode = "ONO"
	CompassNO  CompassCode = "NO"
	CompassNNO CompassCode = "NNO"
)

var compassCodes = [...]CompassCode{
	CompassN, CompassNNE, CompassNE, CompassENE,
	CompassE, CompassESE, CompassSE, CompassSSE,
	CompassS, CompassSSO, CompassSO, CompassOSO,
	CompassO, CompassONO, CompassNO, CompassNNO,
}

// Names of the traditional Catalan winds.
var windNames = map[CompassCode]string{
	CompassN:   "Tramuntana",
	CompassNNE: "Tramuntana / Gregal",
	CompassNE:  "Gregal",
	CompassENE: "Gregal / Llevant",
	CompassE:   "Llevant",
	CompassESE: "Llevant / Xaloc",
	CompassSE:  "Xaloc",
	CompassSSE: "Xaloc / Migjorn",
	CompassS:   "Migjorn",
	CompassSSO: "Migjorn / Garbí",
	CompassSO:  "Garbí",
	CompassOSO: "Garbí / Ponent",
	CompassO:   "Ponent",
	CompassONO: "Ponent / Mestral",
	CompassNO:  "Mestral",
	CompassNNO: "Mestral / Tramuntana",
}

// CompassCodes returns the 16 codes clockwise from north.
func CompassCodes() []CompassCode {
	return slices.Clone(compassCodes[:])
}

// Valid reports whether c is one of the 16 known codes.
func (c CompassCode) Valid() bool {
	_, ok := windNames[c]
	return ok
}

// Name returns the display name of the wind blowing from c.
func (c CompassCode) Name() (string, error) {
	name, ok := windNames[c]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, string(c))
	}
	return name, nil
}
