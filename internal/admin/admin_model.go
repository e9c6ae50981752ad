package admin

import (
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/user"
)

// UserSummary is one row of the admin user table.
type UserSummary struct {
	user.UserResponse
	Memberships []team.TeamMember `json:"memberships"`
}

func summarize(u *user.User, memberships []team.TeamMember) UserSummary {
	if memberships == nil {
		memberships = []team.TeamMember{}
	}
	return UserSummary{UserResponse: user.FilterUserRecord(u), Memberships: memberships}
}

// --- DTOs for requests ---

type CreateUserRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	FullName string      `json:"full_name" binding:"required,max=200"`
	Phone    string      `json:"phone" binding:"max=32"`
	Role     common.Role `json:"role" binding:"required,oneof=player coach admin"`
	TeamID   *uint       `json:"team_id"`
}

type ChangeRoleRequest struct {
	Role common.Role `json:"role" binding:"required,oneof=player coach admin"`
}

type TeamAssignment struct {
	TeamID uint            `json:"team_id" binding:"required"`
	Role   team.MemberRole `json:"role" binding:"omitempty,oneof=player coach"`
}

// SyncTeamsRequest is the full set of teams the user should belong to.
type SyncTeamsRequest struct {
	Teams []TeamAssignment `json:"teams" binding:"dive"`
}
