package types

import "strings"

// Trip is the top-level grouping of routes, for example a daily commute.
type Trip struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Route is a specific path within a trip that is timed repeatedly.
type Route struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ParentTrip int64  `json:"parentTrip"`
}

// ValidateName trims name and returns it, or ErrInvalidName when nothing is left.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
