package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessagingRepository interface {
	CreateConversation(ctx context.Context, conv *Conversation, recipientIDs []uint, first *Message) error
	GetConversation(ctx context.Context, id uint) (*Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error)
	ListParticipants(ctx context.Context, conversationID uint) ([]ConversationParticipant, error)
	TogglePin(ctx context.Context, id uint) (bool, error)

	CreateMessage(ctx context.Context, m *Message) error
	GetMessage(ctx context.Context, id uint) (*Message, error)
	ListMessages(ctx context.Context, conversationID uint) ([]Message, error)

	MarkRead(ctx context.Context, conversationID, userID uint) (int64, error)
	ReadMessageIDs(ctx context.Context, conversationID, userID uint) ([]uint, error)

	Recipients(ctx context.Context, excludeID uint) ([]user.User, error)
	TeamName(ctx context.Context, teamID uint) (string, error)
	WithTransaction(ctx context.Context, fn func(MessagingRepository) error) error
}

type messagingRepository struct {
	db *gorm.DB
}

func NewMessagingRepository(db *gorm.DB) MessagingRepository {
	return &messagingRepository{db: db}
}

func (r *messagingRepository) WithTransaction(ctx context.Context, fn func(MessagingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&messagingRepository{db: tx})
	})
}

// CreateConversation writes the conversation, its participants and the
// opening message in one transaction. Any failure rolls all three back and is
// reported as a StepError naming the step.
func (r *messagingRepository) CreateConversation(ctx context.Context, conv *Conversation, recipientIDs []uint, first *Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := participantIDs(ctx, tx, conv, recipientIDs)
		if err != nil {
			return common.Step("resolve participants", err)
		}
		if err := tx.Create(conv).Error; err != nil {
			return common.Step("insert conversation", err)
		}

		parts := make([]ConversationParticipant, len(ids))
		for i, id := range ids {
			parts[i] = ConversationParticipant{ConversationID: conv.ID, UserID: id}
		}
		if err := tx.Create(&parts).Error; err != nil {
			return common.Step("insert participants", err)
		}

		first.ConversationID = conv.ID
		if err := tx.Create(first).Error; err != nil {
			return common.Step("insert message", err)
		}
		conv.Participants = parts
		return nil
	})
}

// participantIDs resolves who joins a new conversation. Announcements take a
// snapshot of the team roster; later roster changes do not alter it.
func participantIDs(ctx context.Context, tx *gorm.DB, conv *Conversation, recipientIDs []uint) ([]uint, error) {
	var ids []uint
	if conv.Type == TeamAnnouncement {
		teams := team.NewTeamRepository(tx)
		t, err := teams.GetByID(ctx, *conv.TeamID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, common.ErrNotFound
		}
		if ids, err = teams.MemberIDs(ctx, t.ID); err != nil {
			return nil, err
		}
	} else {
		var known int64
		unique := dedupe(recipientIDs)
		if err := tx.Model(&user.User{}).Where("id IN ?", unique).Count(&known).Error; err != nil {
			return nil, err
		}
		if int(known) != len(unique) {
			return nil, common.Invalid("recipient_ids", "unknown recipient")
		}
		ids = unique
	}
	return dedupe(append([]uint{conv.CreatedBy}, ids...)), nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (r *messagingRepository) GetConversation(ctx context.Context, id uint) (*Conversation, error) {
	var c Conversation
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *messagingRepository) IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *messagingRepository) ListParticipants(ctx context.Context, conversationID uint) ([]ConversationParticipant, error) {
	var parts []ConversationParticipant
	err := r.db.WithContext(ctx).
		Joins("User").
		Where("conversation_participants.conversation_id = ?", conversationID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "User", Name: "full_name"}}).
		Find(&parts).Error
	return parts, err
}

// TogglePin flips is_pinned and returns the new value.
func (r *messagingRepository) TogglePin(ctx context.Context, id uint) (bool, error) {
	var pinned bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Conversation{}).Where("id = ?", id).
			UpdateColumn("is_pinned", gorm.Expr("NOT is_pinned"))
		if err := common.RequireRows(res.RowsAffected, res.Error); err != nil {
			return err
		}
		var c Conversation
		if err := tx.Select("id", "is_pinned").First(&c, id).Error; err != nil {
			return err
		}
		pinned = c.IsPinned
		return nil
	})
	return pinned, err
}

// CreateMessage inserts the message and bumps the conversation so it sorts
// to the top of every inbox.
func (r *messagingRepository) CreateMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return common.Step("insert message", err)
		}
		res := tx.Model(&Conversation{}).Where("id = ?", m.ConversationID).
			UpdateColumn("updated_at", m.CreatedAt)
		return common.Step("touch conversation", common.RequireRows(res.RowsAffected, res.Error))
	})
}

func (r *messagingRepository) GetMessage(ctx context.Context, id uint) (*Message, error) {
	var m Message
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListMessages returns every message of the conversation with its sender,
// oldest first.
func (r *messagingRepository) ListMessages(ctx context.Context, conversationID uint) ([]Message, error) {
	var msgs []Message
	err := r.db.WithContext(ctx).
		Joins("Sender").
		Where("messages.conversation_id = ?", conversationID).
		Order("messages.created_at asc").
		Order("messages.id asc").
		Find(&msgs).Error
	return msgs, err
}

// MarkRead records a read for every message from others the user has not
// read yet. Existing reads are never touched.
func (r *messagingRepository) MarkRead(ctx context.Context, conversationID, userID uint) (int64, error) {
	db := r.db.WithContext(ctx)
	var unread []uint
	err := db.Model(&Message{}).
		Where("conversation_id = ? AND sender_id <> ?", conversationID, userID).
		Where("id NOT IN (?)", db.Model(&MessageRead{}).Select("message_id").Where("user_id = ?", userID)).
		Order("id").
		Pluck("id", &unread).Error
	if err != nil || len(unread) == 0 {
		return 0, err
	}

	now := time.Now().UTC()
	reads := make([]MessageRead, len(unread))
	for i, id := range unread {
		reads[i] = MessageRead{MessageID: id, UserID: userID, ReadAt: now}
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&reads)
	return res.RowsAffected, res.Error
}

func (r *messagingRepository) ReadMessageIDs(ctx context.Context, conversationID, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&MessageRead{}).
		Joins("JOIN messages ON messages.id = message_reads.message_id").
		Where("messages.conversation_id = ? AND message_reads.user_id = ?", conversationID, userID).
		Order("message_reads.message_id").
		Pluck("message_reads.message_id", &ids).Error
	return ids, err
}

// Recipients lists everyone the user can start a conversation with.
func (r *messagingRepository) Recipients(ctx context.Context, excludeID uint) ([]user.User, error) {
	var users []user.User
	err := r.db.WithContext(ctx).
		Select("id", "full_name", "role", "avatar_url").
		Where("id <> ?", excludeID).
		Order("full_name asc").
		Find(&users).Error
	return users, err
}

func (r *messagingRepository) TeamName(ctx context.Context, teamID uint) (string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&team.Team{}).Where("id = ?", teamID).Limit(1).Pluck("name", &names).Error
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[0], nil
}
