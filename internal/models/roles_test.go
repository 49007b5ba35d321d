package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanViewRegistrations(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Second)

	cases := []struct {
		name    string
		user    *User
		allowed bool
	}{
		{"nil user", nil, false},
		{"spiritual director without term", &User{Role: RoleSpiritualDirector}, true},
		{"spiritual director with expired term", &User{Role: RoleSpiritualDirector, TermEnd: &past}, true},
		{"stage team with running term", &User{Role: RoleStage2Team, TermEnd: &future}, true},
		{"sector couple with running term", &User{Role: RoleSectorCouple, TermEnd: &future}, true},
		{"regional couple with expired term", &User{Role: RoleRegionalCouple, TermEnd: &past}, false},
		{"national council without term", &User{Role: RoleNationalCouncil}, false},
		{"term ending exactly now", &User{Role: RoleNationalCouple, TermEnd: &now}, false},
		{"couple user with running term", &User{Role: RoleCoupleUser, TermEnd: &future}, false},
		{"admin with running term", &User{Role: RoleAdmin, TermEnd: &future}, false},
		{"unknown role", &User{Role: Role("BISHOP"), TermEnd: &future}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanViewRegistrations(tc.user, now))
		})
	}
}

func TestTermExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&User{Role: RoleStage1Team}).TermExpired(now))
	assert.True(t, (&User{Role: RoleStage1Team, TermEnd: &past}).TermExpired(now))
	assert.False(t, (&User{Role: RoleStage1Team, TermEnd: &future}).TermExpired(now))
	assert.False(t, (&User{Role: RoleSpiritualDirector}).TermExpired(now))
	assert.False(t, (&User{Role: RoleCoupleUser}).TermExpired(now))
}

func TestRoleRooms(t *testing.T) {
	assert.True(t, RoleCoupleUser.CanUseRoom(RoomSupport))
	assert.False(t, RoleCoupleUser.CanUseRoom(RoomAdmin))
	assert.True(t, RoleStage3Team.CanUseRoom(RoomAdmin))
	assert.True(t, RoleAdmin.CanUseRoom(RoomSupport))
}

func TestParseRoleAndLabel(t *testing.T) {
	r, ok := ParseRole(" stage_1_team ")
	assert.True(t, ok)
	assert.Equal(t, RoleStage1Team, r)
	assert.Equal(t, "STAGE 1 TEAM", r.Label())

	_, ok = ParseRole("pope")
	assert.False(t, ok)
}
