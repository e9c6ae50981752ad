package team

import (
	"context"
	"errors"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tables owned by other packages that hold a team_id. Deleting a team clears
// the team-scoped rows and detaches conversations.
var (
	teamScopedTables = []string{"schedule_events", "training_program_assignments", "meal_plan_assignments"}
	teamLinkedTables = []string{"conversations"}
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	// Team operations
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id uint) (*Team, error)
	List(ctx context.Context) ([]Team, error)
	ListByUserID(ctx context.Context, userID uint) ([]Team, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error

	// TeamMember operations
	AddMember(ctx context.Context, member *TeamMember) error
	GetMember(ctx context.Context, teamID, userID uint) (*TeamMember, error)
	ListMembers(ctx context.Context, teamID uint) ([]TeamMember, error)
	MemberIDs(ctx context.Context, teamID uint) ([]uint, error)
	MembershipsForUser(ctx context.Context, userID uint) ([]TeamMember, error)
	MembershipsForUsers(ctx context.Context, userIDs []uint) (map[uint][]TeamMember, error)
	UpdateMemberRole(ctx context.Context, teamID, userID uint, role MemberRole) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
	SyncMemberships(ctx context.Context, userID uint, desired []TeamMember) error
	SharesTeam(ctx context.Context, userID, otherID uint) (bool, error)
	TeammateIDs(ctx context.Context, userID uint) ([]uint, error)

	WithTransaction(ctx context.Context, fn func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) WithTransaction(ctx context.Context, fn func(TeamRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&teamRepository{db: tx})
	})
}

// --- Team Operations ---

func (r *teamRepository) Create(ctx context.Context, team *Team) error {
	if team.Name == "" {
		return common.Invalid("name", "is required")
	}
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (*Team, error) {
	var team Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context) ([]Team, error) {
	var teams []Team
	err := r.db.WithContext(ctx).Order("name asc").Find(&teams).Error
	return teams, err
}

func (r *teamRepository) ListByUserID(ctx context.Context, userID uint) ([]Team, error) {
	var teams []Team
	err := r.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.name asc").
		Find(&teams).Error
	return teams, err
}

func (r *teamRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if name, ok := fields["name"].(string); ok && name == "" {
		return common.Invalid("name", "cannot be empty")
	}
	res := r.db.WithContext(ctx).Model(&Team{}).Where("id = ?", id).Updates(fields)
	return common.RequireRows(res.RowsAffected, res.Error)
}

// Delete removes the team with its memberships and team-scoped rows in one
// transaction. Users are untouched.
func (r *teamRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&TeamMember{}).Error; err != nil {
			return common.Step("delete memberships", err)
		}
		for _, table := range teamScopedTables {
			if !tx.Migrator().HasTable(table) {
				continue
			}
			if err := tx.Exec("DELETE FROM "+table+" WHERE team_id = ?", id).Error; err != nil {
				return common.Step("delete "+table, err)
			}
		}
		for _, table := range teamLinkedTables {
			if !tx.Migrator().HasTable(table) {
				continue
			}
			if err := tx.Exec("UPDATE "+table+" SET team_id = NULL WHERE team_id = ?", id).Error; err != nil {
				return common.Step("detach "+table, err)
			}
		}
		res := tx.Delete(&Team{}, id)
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

// --- TeamMember Operations ---

// AddMember inserts the membership, or updates its role when the user is
// already on the team.
func (r *teamRepository) AddMember(ctx context.Context, member *TeamMember) error {
	if member.Role == "" {
		member.Role = MemberPlayer
	}
	if !member.Role.Valid() {
		return common.Invalid("role", "must be player or coach")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(member).Error
}

func (r *teamRepository) GetMember(ctx context.Context, teamID, userID uint) (*TeamMember, error) {
	var member TeamMember
	err := r.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// ListMembers returns members with their user and player profile, ordered by
// name.
func (r *teamRepository) ListMembers(ctx context.Context, teamID uint) ([]TeamMember, error) {
	var members []TeamMember
	err := r.db.WithContext(ctx).
		Joins("User").
		Preload("User.PlayerProfile").
		Where("team_members.team_id = ?", teamID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "User", Name: "full_name"}}).
		Find(&members).Error
	return members, err
}

func (r *teamRepository) MemberIDs(ctx context.Context, teamID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&TeamMember{}).
		Where("team_id = ?", teamID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *teamRepository) MembershipsForUser(ctx context.Context, userID uint) ([]TeamMember, error) {
	var members []TeamMember
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&members).Error
	return members, err
}

// MembershipsForUsers groups memberships, with their team, by user.
func (r *teamRepository) MembershipsForUsers(ctx context.Context, userIDs []uint) (map[uint][]TeamMember, error) {
	out := make(map[uint][]TeamMember, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var members []TeamMember
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("user_id IN ?", userIDs).
		Order("created_at asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		out[m.UserID] = append(out[m.UserID], m)
	}
	return out, nil
}

func (r *teamRepository) UpdateMemberRole(ctx context.Context, teamID, userID uint, role MemberRole) error {
	if !role.Valid() {
		return common.Invalid("role", "must be player or coach")
	}
	res := r.db.WithContext(ctx).Model(&TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role)
	return common.RequireRows(res.RowsAffected, res.Error)
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID uint) error {
	res := r.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&TeamMember{})
	return common.RequireRows(res.RowsAffected, res.Error)
}

// SyncMemberships makes the user's memberships match desired: new teams are
// added, missing ones removed and changed roles updated, all in one
// transaction.
func (r *teamRepository) SyncMemberships(ctx context.Context, userID uint, desired []TeamMember) error {
	want := make(map[uint]MemberRole, len(desired))
	for _, d := range desired {
		role := d.Role
		if role == "" {
			role = MemberPlayer
		}
		if !role.Valid() {
			return common.Invalid("role", "must be player or coach")
		}
		want[d.TeamID] = role
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []TeamMember
		if err := tx.Where("user_id = ?", userID).Find(&current).Error; err != nil {
			return err
		}
		have := make(map[uint]TeamMember, len(current))
		for _, m := range current {
			have[m.TeamID] = m
			role, keep := want[m.TeamID]
			switch {
			case !keep:
				if err := tx.Delete(&TeamMember{}, m.ID).Error; err != nil {
					return common.Step("remove membership", err)
				}
			case role != m.Role:
				if err := tx.Model(&TeamMember{}).Where("id = ?", m.ID).Update("role", role).Error; err != nil {
					return common.Step("update membership", err)
				}
			}
		}
		var add []TeamMember
		for _, d := range desired {
			if _, ok := have[d.TeamID]; ok {
				continue
			}
			add = append(add, TeamMember{TeamID: d.TeamID, UserID: userID, Role: want[d.TeamID]})
			have[d.TeamID] = add[len(add)-1]
		}
		if len(add) > 0 {
			if err := tx.Create(&add).Error; err != nil {
				return common.Step("add membership", err)
			}
		}
		return nil
	})
}

// SharesTeam reports whether the two users are on at least one common team.
func (r *teamRepository) SharesTeam(ctx context.Context, userID, otherID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("team_members AS a").
		Joins("JOIN team_members AS b ON a.team_id = b.team_id").
		Where("a.user_id = ? AND b.user_id = ?", userID, otherID).
		Count(&count).Error
	return count > 0, err
}

// TeammateIDs lists everyone on any of the user's teams, the user excluded.
func (r *teamRepository) TeammateIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Table("team_members AS b").
		Distinct("b.user_id").
		Joins("JOIN team_members AS a ON a.team_id = b.team_id").
		Where("a.user_id = ? AND b.user_id <> ?", userID, userID).
		Order("b.user_id").
		Pluck("b.user_id", &ids).Error
	return ids, err
}
