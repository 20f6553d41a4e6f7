package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// Role identifies which side of the marketplace an actor acts for.
type Role string

const (
	RoleClient      Role = "client"
	RoleBoatManager Role = "boat_manager"
	RoleCompany     Role = "company"
	RoleCorporate   Role = "corporate"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleBoatManager, RoleCompany, RoleCorporate:
		return true
	}
	return false
}

func ParseRole(v string) (Role, error) {
	r := Role(v)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown actor role %q", v)
	}
	return r, nil
}

// ActorContext is the explicit acting identity passed into every transition
// call. It is always threaded as a parameter, never kept in package state.
type ActorContext struct {
	Role Role
	ID   uuid.UUID
}

// Urgency is orthogonal to status: it drives prioritized display and a few
// readiness cues but never gates a transition.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyUrgent Urgency = "urgent"
)

func (u Urgency) IsValid() bool {
	return u == UrgencyNormal || u == UrgencyUrgent
}

func ParseUrgency(v string) (Urgency, error) {
	u := Urgency(v)
	if !u.IsValid() {
		return "", fmt.Errorf("unknown urgency %q", v)
	}
	return u, nil
}
