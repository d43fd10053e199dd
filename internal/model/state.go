package model

import "fmt"

// ColorMode is the display preference persisted across visits.
type ColorMode string

const (
	ColorModeAuto  ColorMode = "auto"
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

// DefaultColorMode is used when nothing valid is stored.
const DefaultColorMode = ColorModeAuto

// Storage keys.
const (
	ColorModeKey     = "colorMode"
	StudentSignupKey = "studentSignup"
	PupilSignupKey   = "pupilSignup"
)

// ValidColorModes are the allowed display modes.
var ValidColorModes = map[ColorMode]bool{
	ColorModeAuto:  true,
	ColorModeLight: true,
	ColorModeDark:  true,
}

// SessionKeys are the session-scoped form keys known to the site.
var SessionKeys = map[string]bool{
	StudentSignupKey: true,
	PupilSignupKey:   true,
}

// ParseColorMode validates s as a display mode.
func ParseColorMode(s string) (ColorMode, error) {
	m := ColorMode(s)
	if !ValidColorModes[m] {
		return "", fmt.Errorf("invalid color mode %q (use auto, light or dark)", s)
	}
	return m, nil
}

// SignupForm holds the free-form answers of a signup wizard.
type SignupForm = map[string]any
