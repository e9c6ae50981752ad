package admin

import (
	"context"
	"errors"

	"github.com/DhavalSuthar-24/dugout/internal/auth"
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"gorm.io/gorm"
)

// AdminRepository writes that span the user and team tables.
type AdminRepository interface {
	ListUsers(ctx context.Context, f user.ListFilter) ([]UserSummary, int64, error)
	CreateUser(ctx context.Context, u *user.User, teamID *uint) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) ListUsers(ctx context.Context, f user.ListFilter) ([]UserSummary, int64, error) {
	users, total, err := user.NewUserRepository(r.db).List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	memberships, err := team.NewTeamRepository(r.db).MembershipsForUsers(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserSummary, len(users))
	for i := range users {
		out[i] = summarize(&users[i], memberships[users[i].ID])
	}
	return out, total, nil
}

// CreateUser inserts the user, its player profile when the role is player,
// and the optional team membership together. Admins join a team as coach.
func (r *adminRepository) CreateUser(ctx context.Context, u *user.User, teamID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := user.NewUserRepository(tx)
		teams := team.NewTeamRepository(tx)

		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return auth.ErrEmailTaken
			}
			return common.Step("create user", err)
		}
		if u.Role == common.RolePlayer {
			if _, err := users.EnsurePlayerProfile(ctx, u.ID); err != nil {
				return common.Step("create player profile", err)
			}
		}
		if teamID == nil || *teamID == 0 {
			return nil
		}
		t, err := teams.GetByID(ctx, *teamID)
		if err != nil {
			return common.Step("add to team", err)
		}
		if t == nil {
			return common.Step("add to team", common.Invalid("team_id", "team does not exist"))
		}
		m := &team.TeamMember{TeamID: t.ID, UserID: u.ID, Role: team.MemberRoleFor(u.Role)}
		return common.Step("add to team", teams.AddMember(ctx, m))
	})
}
