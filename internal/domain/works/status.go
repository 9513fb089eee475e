package works

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusStorage     Status = "En depósito"
	StatusExhibition  Status = "En exhibición"
	StatusRestoration Status = "En restauración"
	StatusLoan        Status = "En préstamo"
	StatusTransit     Status = "En tránsito"
	StatusOther       Status = "Otro"
)

var statuses = []Status{StatusStorage, StatusExhibition, StatusRestoration, StatusLoan, StatusTransit, StatusOther}

func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// ParseStatus accepts the known labels; an empty string maps to StatusOther.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusOther, nil
	}
	for _, st := range statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// StatusForLocation derives the status an artwork takes when it is moved to a
// location, based on the location name.
func StatusForLocation(locationName string) Status {
	name := strings.ToLower(locationName)
	switch {
	case strings.Contains(name, "depósito"):
		return StatusStorage
	case strings.Contains(name, "exhibición"):
		return StatusExhibition
	default:
		return StatusOther
	}
}
