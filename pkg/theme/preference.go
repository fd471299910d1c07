package theme

import "fmt"

// Mode is a resolved color mode.
type Mode string

// Resolved modes.
const (
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// Preference is what the user picked; "system" follows the environment.
type Preference string

// Preferences.
const (
	PreferDark   Preference = "dark"
	PreferLight  Preference = "light"
	PreferSystem Preference = "system"
)

// ParsePreference parses "dark", "light" or "system".
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(s); p {
	case PreferDark, PreferLight, PreferSystem:
		return p, nil
	}
	return "", fmt.Errorf("unknown theme preference %q (want dark, light or system)", s)
}

// Resolve returns the mode to render with.
func (p Preference) Resolve(systemDark bool) Mode {
	switch p {
	case PreferDark:
		return ModeDark
	case PreferLight:
		return ModeLight
	}
	if systemDark {
		return ModeDark
	}
	return ModeLight
}

// Next returns the preference after a toggle. From system it switches to the
// opposite of what is currently shown; then dark -> light -> system.
func (p Preference) Next(resolved Mode) Preference {
	switch p {
	case PreferDark:
		return PreferLight
	case PreferLight:
		return PreferSystem
	}
	if resolved == ModeDark {
		return PreferLight
	}
	return PreferDark
}

// Label is the human-readable name shown on the toggle.
func (p Preference) Label() string {
	switch p {
	case PreferDark:
		return "Dark"
	case PreferLight:
		return "Light"
	}
	return "System"
}
