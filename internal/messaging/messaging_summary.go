package messaging

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// SummaryReader answers the inbox and announcement queries with plain SQL.
// It shares the connection pool of the gorm handle it was built from.
type SummaryReader struct {
	db *sqlx.DB
}

// NewSummaryReader wraps the pool behind gdb. The driver name only selects
// the bind variable style.
func NewSummaryReader(gdb *gorm.DB) (*SummaryReader, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("summary reader: %w", err)
	}
	driver := gdb.Dialector.Name()
	if driver == "sqlite" {
		driver = "sqlite3"
	}
	return &SummaryReader{db: sqlx.NewDb(sqlDB, driver)}, nil
}

const summaryQuery = `
	SELECT c.id, c.type, c.title, c.team_id, t.name AS team_name,
		c.is_pinned, c.replies_disabled, c.created_by, c.created_at, c.updated_at
	FROM conversations c
	JOIN conversation_participants p ON p.conversation_id = c.id
	LEFT JOIN teams t ON t.id = c.team_id
	WHERE p.user_id = ?
	ORDER BY c.is_pinned DESC, c.updated_at DESC, c.id DESC`

const lastMessageQuery = `
	SELECT m.id, m.conversation_id, m.sender_id, m.content, m.created_at
	FROM messages m
	WHERE m.conversation_id IN (?)
	AND m.id = (SELECT MAX(m2.id) FROM messages m2 WHERE m2.conversation_id = m.conversation_id)`

const unreadQuery = `
	SELECT m.conversation_id, COUNT(*) AS unread
	FROM messages m
	LEFT JOIN message_reads r ON r.message_id = m.id AND r.user_id = ?
	WHERE m.conversation_id IN (?) AND m.sender_id <> ? AND r.id IS NULL
	GROUP BY m.conversation_id`

// Inbox lists the user's conversations, pinned first and then most recently
// active, each with its last message and unread count.
func (s *SummaryReader) Inbox(ctx context.Context, userID uint) ([]ConversationSummary, error) {
	out := []ConversationSummary{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(summaryQuery), userID); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]uint, len(out))
	index := make(map[uint]int, len(out))
	for i, c := range out {
		ids[i] = c.ID
		index[c.ID] = i
	}

	query, args, err := sqlx.In(lastMessageQuery, ids)
	if err != nil {
		return nil, err
	}
	var last []MessagePreview
	if err := s.db.SelectContext(ctx, &last, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("last messages: %w", err)
	}
	for i := range last {
		out[index[last[i].ConversationID]].LastMessage = &last[i]
	}

	query, args, err = sqlx.In(unreadQuery, userID, ids, userID)
	if err != nil {
		return nil, err
	}
	var counts []struct {
		ConversationID uint `db:"conversation_id"`
		Unread         int  `db:"unread"`
	}
	if err := s.db.SelectContext(ctx, &counts, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("unread counts: %w", err)
	}
	for _, c := range counts {
		out[index[c.ConversationID]].UnreadCount = c.Unread
	}
	return out, nil
}

// UnreadTotal sums unread messages across all of the user's conversations.
func (s *SummaryReader) UnreadTotal(ctx context.Context, userID uint) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM messages m
		JOIN conversation_participants p ON p.conversation_id = m.conversation_id AND p.user_id = ?
		LEFT JOIN message_reads r ON r.message_id = m.id AND r.user_id = ?
		WHERE m.sender_id <> ? AND r.id IS NULL`
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(q), userID, userID, userID)
	return n, err
}

const announcementQuery = `
	SELECT c.id, c.title, c.created_at, m.content, u.full_name AS author_name
	FROM conversations c
	LEFT JOIN messages m ON m.id = (SELECT MIN(m2.id) FROM messages m2 WHERE m2.conversation_id = c.id)
	LEFT JOIN users u ON u.id = c.created_by
	WHERE c.type = ? AND c.team_id = ?
	ORDER BY c.created_at DESC, c.id DESC
	LIMIT ?`

// TeamAnnouncements returns the team's most recent announcements.
func (s *SummaryReader) TeamAnnouncements(ctx context.Context, teamID uint, limit int) ([]Announcement, error) {
	if limit <= 0 {
		limit = 5
	}
	out := []Announcement{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(announcementQuery), string(TeamAnnouncement), teamID, limit)
	return out, err
}
