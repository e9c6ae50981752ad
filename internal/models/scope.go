package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ScopeKind names which side of the team/player split a row belongs to.
type ScopeKind string

const (
	ScopeTeam   ScopeKind = "team"
	ScopePlayer ScopeKind = "player"
)

var (
	ErrInvalidScope = errors.New("exactly one of team_id or player_id must be set")
	ErrScopeFixed   = errors.New("team_id and player_id cannot change after creation")
)

// Scope is either Team(id) or Player(id). The zero value is neither and is
// rejected everywhere a scope is written.
type Scope struct {
	kind ScopeKind
	id   uint
}

func TeamScope(id uint) Scope   { return Scope{kind: ScopeTeam, id: id} }
func PlayerScope(id uint) Scope { return Scope{kind: ScopePlayer, id: id} }

// ParseScope builds a scope from wire values such as ?scope=team&id=3.
func ParseScope(kind string, id uint) (Scope, error) {
	if id == 0 {
		return Scope{}, fmt.Errorf("%w: missing id", ErrInvalidScope)
	}
	switch ScopeKind(kind) {
	case ScopeTeam:
		return TeamScope(id), nil
	case ScopePlayer:
		return PlayerScope(id), nil
	}
	return Scope{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidScope, kind)
}

func (s Scope) Kind() ScopeKind { return s.kind }
func (s Scope) ID() uint        { return s.id }
func (s Scope) IsZero() bool    { return s.kind == "" || s.id == 0 }

// Column is the foreign key column that carries this scope.
func (s Scope) Column() string {
	if s.kind == ScopeTeam {
		return "team_id"
	}
	return "player_id"
}

func (s Scope) String() string {
	return fmt.Sprintf("%s(%d)", s.kind, s.id)
}

// Where narrows a query to rows owned by the scope.
func (s Scope) Where(tx *gorm.DB) *gorm.DB {
	return tx.Where(s.Column()+" = ?", s.id)
}

// Scoped holds the two mutually exclusive foreign keys. Rows embed it and
// only ever write it through SetScope.
type Scoped struct {
	TeamID   *uint `json:"team_id" gorm:"index"`
	PlayerID *uint `json:"player_id" gorm:"index"`
}

// SetScope writes exactly one of the two keys.
func (s *Scoped) SetScope(sc Scope) {
	id := sc.ID()
	s.TeamID, s.PlayerID = nil, nil
	switch sc.Kind() {
	case ScopeTeam:
		s.TeamID = &id
	case ScopePlayer:
		s.PlayerID = &id
	}
}

// Scope reads the keys back as a tagged value.
func (s Scoped) Scope() (Scope, error) {
	switch {
	case s.TeamID != nil && s.PlayerID == nil && *s.TeamID != 0:
		return TeamScope(*s.TeamID), nil
	case s.PlayerID != nil && s.TeamID == nil && *s.PlayerID != 0:
		return PlayerScope(*s.PlayerID), nil
	}
	return Scope{}, ErrInvalidScope
}

// BeforeCreate rejects rows that carry both keys or neither.
func (s *Scoped) BeforeCreate(tx *gorm.DB) error {
	_, err := s.Scope()
	return err
}

// BeforeUpdate keeps the scope fixed once a row exists.
func (s *Scoped) BeforeUpdate(tx *gorm.DB) error {
	if tx != nil && tx.Statement.Changed("TeamID", "PlayerID") {
		return ErrScopeFixed
	}
	return nil
}
