package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/dugout/config"
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/realtime"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/DhavalSuthar-24/dugout/pkg/token"
	"github.com/DhavalSuthar-24/dugout/pkg/utils"
	hash "github.com/DhavalSuthar-24/dugout/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
	ErrEmailTaken         = errors.New("a user with this email already exists")
)

// Service issues and revokes sessions. Every sign-in, sign-out and refresh is
// announced on the sessions feed so open clients can rebuild their principal.
type Service struct {
	users user.UserRepository
	cfg   *config.Config
	pub   realtime.Publisher
	log   *zap.Logger
}

func NewService(users user.UserRepository, cfg *config.Config, pub realtime.Publisher, log *zap.Logger) *Service {
	return &Service{users: users, cfg: cfg, pub: pub, log: log.Named("auth")}
}

// NewUser validates the input and returns an unsaved user with a hashed
// password.
func (s *Service) NewUser(in SignUpInput) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.Invalid("email", "a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, common.Invalid("password", "must be at least 8 characters")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, common.Invalid("full_name", "is required")
	}
	role := in.Role
	if role == "" {
		role = common.RolePlayer
	}
	if !role.Valid() {
		return nil, common.Invalid("role", fmt.Sprintf("unknown role %q", role))
	}

	hashed, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &user.User{
		Email:    email,
		Password: hashed,
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     role,
	}, nil
}

// SignUp creates the account, and its player profile when the role is player.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*user.User, error) {
	u, err := s.NewUser(in)
	if err != nil {
		return nil, err
	}
	err = s.users.WithTransaction(ctx, func(repo user.UserRepository) error {
		if err := repo.Create(ctx, u); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		if u.Role == common.RolePlayer {
			_, err := repo.EnsurePlayerProfile(ctx, u.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user signed up", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// SignIn checks the password and issues a token pair.
func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !hash.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	resp, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, realtime.Event{Table: realtime.TableSessions, Action: realtime.ActionInsert, ID: u.ID, UserID: u.ID})
	return resp, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := utils.VerifyRefreshToken(refreshToken, s.cfg.JWT.RefreshTokenSecret)
	if err != nil {
		return "", ErrInvalidRefresh
	}
	rt, err := s.users.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if rt == nil || rt.UserID != userID {
		return "", ErrInvalidRefresh
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidRefresh
	}
	return token.GenerateJWT(u.ID, string(u.Role), s.cfg.JWT.AccessTokenSecret, s.cfg.JWT.AccessTokenExpiryMinutes)
}

// SignOut revokes one refresh token, or all of them.
func (s *Service) SignOut(ctx context.Context, userID uint, refreshToken string, all bool) error {
	if refreshToken != "" {
		if err := s.users.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return err
		}
	}
	if all {
		if err := s.users.RevokeAllRefreshTokens(ctx, userID); err != nil {
			return err
		}
	}
	s.pub.Publish(ctx, realtime.Event{Table: realtime.TableSessions, Action: realtime.ActionDelete, ID: userID, UserID: userID})
	return nil
}

// Issue signs a fresh token pair for an existing user.
func (s *Service) Issue(ctx context.Context, u *user.User) (*AuthResponse, error) {
	return s.issue(ctx, u)
}

func (s *Service) issue(ctx context.Context, u *user.User) (*AuthResponse, error) {
	access, err := token.GenerateJWT(u.ID, string(u.Role), s.cfg.JWT.AccessTokenSecret, s.cfg.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return nil, fmt.Errorf("access token generation failed: %w", err)
	}
	refresh, expiresAt, err := utils.GenerateRefreshToken(u.ID, s.cfg.JWT.RefreshTokenSecret, s.cfg.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return nil, fmt.Errorf("refresh token generation failed: %w", err)
	}
	if err := s.users.SaveRefreshToken(ctx, &user.RefreshToken{UserID: u.ID, Token: refresh, ExpiresAt: expiresAt}); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}
	return &AuthResponse{AccessToken: access, RefreshToken: refresh, User: user.FilterUserRecord(u)}, nil
}

// AnnounceRoleChange tells the affected user's clients to rebuild their
// principal.
func (s *Service) AnnounceRoleChange(ctx context.Context, userID uint) {
	s.pub.Publish(ctx, realtime.Event{Table: realtime.TableSessions, Action: realtime.ActionUpdate, ID: userID, UserID: userID, At: time.Now().UTC()})
}
