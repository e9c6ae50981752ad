// team/model.go
package team

import (
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/user"
)

// MemberRole is the per-team role. It is separate from the global role:
// an admin is recorded as a coach on the teams they belong to.
type MemberRole string

const (
	MemberPlayer MemberRole = "player"
	MemberCoach  MemberRole = "coach"
)

func (r MemberRole) Valid() bool {
	return r == MemberPlayer || r == MemberCoach
}

// MemberRoleFor maps a global role onto the role a new membership gets.
func MemberRoleFor(role common.Role) MemberRole {
	if role == common.RolePlayer {
		return MemberPlayer
	}
	return MemberCoach
}

// Team represents a roster
type Team struct {
	models.BaseModel
	Name        string       `json:"name" gorm:"not null;index"`
	Description string       `json:"description"`
	PhotoURL    string       `json:"photo_url"`
	Members     []TeamMember `json:"members,omitempty"`
}

// TeamMember represents a user's membership in a team
type TeamMember struct {
	models.BaseModel
	TeamID uint       `json:"team_id" gorm:"not null;uniqueIndex:idx_team_members_team_user"`
	UserID uint       `json:"user_id" gorm:"not null;index;uniqueIndex:idx_team_members_team_user"`
	Role   MemberRole `json:"role" gorm:"type:varchar(16);not null;default:'player'"`
	Team   *Team      `json:"team,omitempty"`
	User   *user.User `json:"user,omitempty"`
}

// Roster splits a team's members for the team views.
type Roster struct {
	Team    Team         `json:"team"`
	Players []TeamMember `json:"players"`
	Coaches []TeamMember `json:"coaches"`
}

// SplitRoster partitions members by per-team role, keeping their order.
func SplitRoster(t Team, members []TeamMember) Roster {
	r := Roster{Team: t, Players: []TeamMember{}, Coaches: []TeamMember{}}
	for _, m := range members {
		if m.Role == MemberCoach {
			r.Coaches = append(r.Coaches, m)
		} else {
			r.Players = append(r.Players, m)
		}
	}
	return r
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	PhotoURL    *string `json:"photo_url"`
}

type AddMemberRequest struct {
	UserID uint       `json:"user_id" binding:"required"`
	Role   MemberRole `json:"role" binding:"omitempty,oneof=player coach"`
}

type UpdateMemberRoleRequest struct {
	Role MemberRole `json:"role" binding:"required,oneof=player coach"`
}
