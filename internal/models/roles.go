package models

import (
	"strings"
	"time"
)

// Role is the closed set of account roles. Authorization decisions go
// through the predicates below, never through string comparison at call
// sites.
type Role string

const (
	RoleNationalCouncil    Role = "NATIONAL_COUNCIL"
	RoleNationalCouple     Role = "NATIONAL_COUPLE"
	RoleRegionalCouple     Role = "REGIONAL_COUPLE"
	RoleSpiritualDirector  Role = "SPIRITUAL_DIRECTOR"
	RoleArchdiocesanCouple Role = "ARCHDIOCESAN_COUPLE"
	RoleSectorCouple       Role = "SECTOR_COUPLE"
	RoleStage1Team         Role = "STAGE_1_TEAM"
	RoleStage2Team         Role = "STAGE_2_TEAM"
	RoleStage3Team         Role = "STAGE_3_TEAM"
	RoleCoupleUser         Role = "COUPLE_USER"
	RoleAdmin              Role = "ADMIN"
)

// AllRoles lists every valid role.
var AllRoles = []Role{
	RoleNationalCouncil,
	RoleNationalCouple,
	RoleRegionalCouple,
	RoleSpiritualDirector,
	RoleArchdiocesanCouple,
	RoleSectorCouple,
	RoleStage1Team,
	RoleStage2Team,
	RoleStage3Team,
	RoleCoupleUser,
	RoleAdmin,
}

// termBoundRoles may see registration data only while their term is running.
var termBoundRoles = map[Role]bool{
	RoleNationalCouncil:    true,
	RoleNationalCouple:     true,
	RoleRegionalCouple:     true,
	RoleArchdiocesanCouple: true,
	RoleSectorCouple:       true,
	RoleStage1Team:         true,
	RoleStage2Team:         true,
	RoleStage3Team:         true,
}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsLeadership reports whether r is any valid role other than a couple.
func (r Role) IsLeadership() bool {
	return r.Valid() && r != RoleCoupleUser
}

// Label is the human form used when a role signs a decision, e.g.
// "STAGE_1_TEAM" -> "STAGE 1 TEAM".
func (r Role) Label() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

// ParseRole normalizes s and returns the matching role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// TermActive reports whether now is strictly before the user's term end.
// A missing term end is never active.
func (u *User) TermActive(now time.Time) bool {
	return u.TermEnd != nil && now.Before(*u.TermEnd)
}

// TermExpired reports whether a leadership user's mandate has lapsed. The
// spiritual director, couples and admins carry no mandate.
func (u *User) TermExpired(now time.Time) bool {
	switch u.Role {
	case RoleSpiritualDirector, RoleCoupleUser, RoleAdmin:
		return false
	}
	return !u.TermActive(now)
}

// CanViewRegistrations governs access to couple registration data, the
// approval queue, history and the regional directory. It must be evaluated
// against a freshly loaded user on every request.
func CanViewRegistrations(u *User, now time.Time) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleSpiritualDirector {
		return true
	}
	return termBoundRoles[u.Role] && u.TermActive(now)
}

// CanManageTerms reports whether u may extend another user's term window.
func CanManageTerms(u *User) bool {
	return u != nil && (u.Role == RoleSpiritualDirector || u.Role == RoleAdmin)
}

// Rooms returns the chat rooms a role may read and post in.
func (r Role) Rooms() []Room {
	if r.IsLeadership() {
		return []Room{RoomAdmin, RoomSupport}
	}
	return []Room{RoomSupport}
}

// CanUseRoom reports whether r may use room.
func (r Role) CanUseRoom(room Room) bool {
	for _, allowed := range r.Rooms() {
		if allowed == room {
			return true
		}
	}
	return false
}
