package dixoncoles

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrUnknownTeam      = errors.New("unknown team")
)

// InsufficientDataError reports that a fit was refused before any
// optimization started. It matches ErrInsufficientData under errors.Is.
type InsufficientDataError struct {
	Matches int // usable matches after filtering
	Teams   int // distinct teams among them
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d usable matches (min %d), %d teams (min %d)",
		e.Matches, MinMatches, e.Teams, MinTeams)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// UnknownTeamError is returned when a prediction names a team absent from
// the fitted parameters. It matches ErrUnknownTeam under errors.Is.
type UnknownTeamError struct {
	TeamID int
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("unknown team %d", e.TeamID)
}

func (e *UnknownTeamError) Is(target error) bool { return target == ErrUnknownTeam }
