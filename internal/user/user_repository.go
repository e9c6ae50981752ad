package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	Role   common.Role
	Search string
	Page   int
	Limit  int
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f ListFilter) ([]User, int64, error)
	ListByIDs(ctx context.Context, ids []uint) ([]User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ChangeRole(ctx context.Context, id uint, role common.Role) (profileCreated bool, err error)
	Delete(ctx context.Context, id uint) error

	EnsurePlayerProfile(ctx context.Context, userID uint) (created bool, err error)
	GetPlayerProfile(ctx context.Context, userID uint) (*PlayerProfile, error)
	SavePlayerProfile(ctx context.Context, p *PlayerProfile) error

	ListContacts(ctx context.Context, userID uint) ([]UserContact, error)
	SaveContact(ctx context.Context, c *UserContact) error
	DeleteContact(ctx context.Context, userID, contactID uint) error

	SaveRefreshToken(ctx context.Context, t *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uint) error

	WithTransaction(ctx context.Context, fn func(UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTransaction(ctx context.Context, fn func(UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

func (r *userRepository) Create(ctx context.Context, u *User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("PlayerProfile").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, f ListFilter) ([]User, int64, error) {
	var users []User
	var total int64

	query := r.db.WithContext(ctx).Model(&User{})
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}
	if err := query.Preload("PlayerProfile").Order("full_name asc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []uint) ([]User, error) {
	var users []User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("full_name asc").Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	return common.RequireRows(res.RowsAffected, res.Error)
}

// ChangeRole updates the role and, when the new role is player, makes sure a
// PlayerProfile exists, all in one transaction.
func (r *userRepository) ChangeRole(ctx context.Context, id uint, role common.Role) (bool, error) {
	if !role.Valid() {
		return false, common.Invalid("role", fmt.Sprintf("unknown role %q", role))
	}
	var created bool
	err := r.WithTransaction(ctx, func(repo UserRepository) error {
		if err := repo.UpdateFields(ctx, id, map[string]interface{}{"role": role}); err != nil {
			return err
		}
		if role != common.RolePlayer {
			return nil
		}
		var err error
		created, err = repo.EnsurePlayerProfile(ctx, id)
		return err
	})
	return created, err
}

// userOwnedRows clears everything that belongs to a user, children before
// parents. Tables owned by other packages are skipped when absent.
var userOwnedRows = []struct {
	tables []string
	stmt   string
}{
	{[]string{"message_reads", "messages"}, `DELETE FROM message_reads WHERE user_id = @id OR message_id IN (
		SELECT id FROM messages WHERE sender_id = @id
		OR parent_message_id IN (SELECT id FROM messages WHERE sender_id = @id))`},
	{[]string{"messages"}, "DELETE FROM messages WHERE parent_message_id IN (SELECT id FROM messages WHERE sender_id = @id)"},
	{[]string{"messages"}, "DELETE FROM messages WHERE sender_id = @id"},
	{[]string{"conversation_participants"}, "DELETE FROM conversation_participants WHERE user_id = @id"},
	{[]string{"schedule_events"}, "DELETE FROM schedule_events WHERE player_id = @id"},
	{[]string{"training_program_assignments"}, "DELETE FROM training_program_assignments WHERE player_id = @id"},
	{[]string{"meal_plan_assignments"}, "DELETE FROM meal_plan_assignments WHERE player_id = @id"},
	{[]string{"performance_stats"}, "DELETE FROM performance_stats WHERE player_id = @id"},
	{[]string{"article_views"}, "DELETE FROM article_views WHERE user_id = @id"},
	{[]string{"ai_messages", "ai_conversations"}, "DELETE FROM ai_messages WHERE conversation_id IN (SELECT id FROM ai_conversations WHERE user_id = @id)"},
	{[]string{"ai_conversations"}, "DELETE FROM ai_conversations WHERE user_id = @id"},
	{[]string{"team_members"}, "DELETE FROM team_members WHERE user_id = @id"},
	{[]string{"refresh_tokens"}, "DELETE FROM refresh_tokens WHERE user_id = @id"},
	{[]string{"user_contacts"}, "DELETE FROM user_contacts WHERE user_id = @id"},
	{[]string{"player_profiles"}, "DELETE FROM player_profiles WHERE user_id = @id"},
}

// Delete removes the user with their messages, reads, memberships,
// player-scoped calendar rows, assignments, stats and assistant history in
// one transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range userOwnedRows {
			if !hasTables(tx, row.tables...) {
				continue
			}
			if err := tx.Exec(row.stmt, sql.Named("id", id)).Error; err != nil {
				return common.Step("delete "+row.tables[0], err)
			}
		}
		res := tx.Delete(&User{}, id)
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

func hasTables(tx *gorm.DB, tables ...string) bool {
	for _, t := range tables {
		if !tx.Migrator().HasTable(t) {
			return false
		}
	}
	return true
}

// --- Player profile ---

// EnsurePlayerProfile creates the profile if it is missing. The unique index
// on user_id keeps concurrent callers to a single row.
func (r *userRepository) EnsurePlayerProfile(ctx context.Context, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&PlayerProfile{UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) GetPlayerProfile(ctx context.Context, userID uint) (*PlayerProfile, error) {
	var p PlayerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) SavePlayerProfile(ctx context.Context, p *PlayerProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// --- Contacts ---

func (r *userRepository) ListContacts(ctx context.Context, userID uint) ([]UserContact, error) {
	var contacts []UserContact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("contact_type asc, sort_order asc, id asc").
		Find(&contacts).Error
	return contacts, err
}

// SaveContact inserts or updates a contact, refusing a fourth contact of the
// same type.
func (r *userRepository) SaveContact(ctx context.Context, c *UserContact) error {
	if c.ContactType != ContactEmail && c.ContactType != ContactPhone {
		return common.Invalid("contact_type", "must be email or phone")
	}
	if strings.TrimSpace(c.Value) == "" {
		return common.Invalid("value", "is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		q := tx.Model(&UserContact{}).Where("user_id = ? AND contact_type = ?", c.UserID, c.ContactType)
		if c.ID != 0 {
			q = q.Where("id <> ?", c.ID)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count >= MaxContactsPerType {
			return common.Invalid("contact_type", fmt.Sprintf("at most %d %s contacts allowed", MaxContactsPerType, c.ContactType))
		}
		if c.ID == 0 {
			return tx.Create(c).Error
		}
		res := tx.Model(&UserContact{}).
			Where("id = ? AND user_id = ?", c.ID, c.UserID).
			Updates(map[string]interface{}{
				"contact_type": c.ContactType,
				"value":        c.Value,
				"label":        c.Label,
				"sort_order":   c.SortOrder,
			})
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

func (r *userRepository) DeleteContact(ctx context.Context, userID, contactID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", contactID, userID).Delete(&UserContact{})
	return common.RequireRows(res.RowsAffected, res.Error)
}

// --- Refresh tokens ---

func (r *userRepository) SaveRefreshToken(ctx context.Context, t *RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *userRepository) GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	var rt RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ? AND revoked = ?", token, time.Now(), false).
		First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *userRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Model(&RefreshToken{}).Where("token = ?", token).Update("revoked", true).Error
}

func (r *userRepository) RevokeAllRefreshTokens(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
