package admin

import (
	"context"
	"fmt"

	"github.com/DhavalSuthar-24/dugout/internal/auth"
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"go.uber.org/zap"
)

// Service is the admin user directory. Every method expects an admin
// principal; the routes enforce it and the service checks again.
type Service struct {
	repo  AdminRepository
	users user.UserRepository
	teams team.TeamRepository
	auth  *auth.Service
	log   *zap.Logger
}

func NewService(repo AdminRepository, users user.UserRepository, teams team.TeamRepository, authSvc *auth.Service, log *zap.Logger) *Service {
	return &Service{repo: repo, users: users, teams: teams, auth: authSvc, log: log.Named("admin")}
}

func requireAdmin(p common.Principal) error {
	if !p.IsAdmin() {
		return fmt.Errorf("admin only: %w", common.ErrForbidden)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, p common.Principal, f user.ListFilter) ([]UserSummary, int64, error) {
	if err := requireAdmin(p); err != nil {
		return nil, 0, err
	}
	return s.repo.ListUsers(ctx, f)
}

func (s *Service) GetUser(ctx context.Context, p common.Principal, id uint) (*UserSummary, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, common.ErrNotFound)
	}
	memberships, err := s.teams.MembershipsForUser(ctx, id)
	if err != nil {
		return nil, err
	}
	out := summarize(u, memberships)
	return &out, nil
}

// CreateUser signs a user up on someone else's behalf and optionally places
// them on a team.
func (s *Service) CreateUser(ctx context.Context, p common.Principal, req CreateUserRequest) (*UserSummary, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	u, err := s.auth.NewUser(auth.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateUser(ctx, u, req.TeamID); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)), zap.Uint("by", p.UserID))
	return s.GetUser(ctx, p, u.ID)
}

// ChangeRole switches a user's role, creating the player profile when they
// become a player, and tells their open sessions to reload.
func (s *Service) ChangeRole(ctx context.Context, p common.Principal, id uint, role common.Role) (*UserSummary, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, common.ErrNotFound)
	}
	created, err := s.users.ChangeRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	if u.Role == role && !created {
		return s.GetUser(ctx, p, id)
	}
	if u.Role != role {
		s.auth.AnnounceRoleChange(ctx, id)
	}
	s.log.Info("role changed",
		zap.Uint("user_id", id),
		zap.String("from", string(u.Role)),
		zap.String("to", string(role)),
		zap.Bool("player_profile_created", created),
	)
	return s.GetUser(ctx, p, id)
}

// SyncTeams replaces the user's team memberships with the given set.
func (s *Service) SyncTeams(ctx context.Context, p common.Principal, id uint, req SyncTeamsRequest) (*UserSummary, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, common.ErrNotFound)
	}
	desired := make([]team.TeamMember, 0, len(req.Teams))
	for _, a := range req.Teams {
		role := a.Role
		if role == "" {
			role = team.MemberRoleFor(u.Role)
		}
		desired = append(desired, team.TeamMember{TeamID: a.TeamID, UserID: id, Role: role})
	}
	if err := s.teams.SyncMemberships(ctx, id, desired); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, p, id)
}

func (s *Service) DeleteUser(ctx context.Context, p common.Principal, id uint) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if id == p.UserID {
		return common.Invalid("user_id", "you cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.auth.AnnounceRoleChange(ctx, id)
	s.log.Info("user deleted", zap.Uint("user_id", id), zap.Uint("by", p.UserID))
	return nil
}
