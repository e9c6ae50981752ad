package messaging

import (
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/user"
)

type ConversationType string

const (
	Direct           ConversationType = "direct"
	Group            ConversationType = "group"
	TeamAnnouncement ConversationType = "team_announcement"
)

func (t ConversationType) Valid() bool {
	switch t {
	case Direct, Group, TeamAnnouncement:
		return true
	}
	return false
}

type Conversation struct {
	models.BaseModel
	Type            ConversationType          `json:"type" gorm:"type:varchar(24);not null;index"`
	Title           *string                   `json:"title"`
	TeamID          *uint                     `json:"team_id" gorm:"index"`
	IsPinned        bool                      `json:"is_pinned" gorm:"default:false"`
	RepliesDisabled bool                      `json:"replies_disabled" gorm:"default:false"`
	CreatedBy       uint                      `json:"created_by" gorm:"not null"`
	Participants    []ConversationParticipant `json:"participants,omitempty"`
}

// CanReply reports whether a caller with the given global role may post.
// Disabled replies only silence players, and never in a direct conversation.
func (c Conversation) CanReply(role common.Role) bool {
	if !c.RepliesDisabled || c.Type == Direct {
		return true
	}
	return role.IsStaff()
}

// ConversationParticipant rows are written once, when the conversation is
// created.
type ConversationParticipant struct {
	models.BaseModel
	ConversationID uint       `json:"conversation_id" gorm:"not null;uniqueIndex:idx_conversation_participant"`
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_conversation_participant;index"`
	User           *user.User `json:"user,omitempty"`
}

type Message struct {
	models.BaseModel
	ConversationID  uint       `json:"conversation_id" gorm:"not null;index"`
	SenderID        uint       `json:"sender_id" gorm:"not null;index"`
	Content         string     `json:"content" gorm:"type:text;not null"`
	ParentMessageID *uint      `json:"parent_message_id" gorm:"index"`
	Sender          *user.User `json:"sender,omitempty"`
}

type MessageRead struct {
	models.BaseModel
	MessageID uint      `json:"message_id" gorm:"not null;uniqueIndex:idx_message_read"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_message_read;index"`
	ReadAt    time.Time `json:"read_at"`
}

// --- Read models ---

// MessagePreview is the last message shown in a conversation list.
type MessagePreview struct {
	ID             uint      `db:"id" json:"id"`
	ConversationID uint      `db:"conversation_id" json:"-"`
	SenderID       uint      `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ConversationSummary is one row of a user's inbox.
type ConversationSummary struct {
	ID              uint             `db:"id" json:"id"`
	Type            ConversationType `db:"type" json:"type"`
	Title           *string          `db:"title" json:"title"`
	TeamID          *uint            `db:"team_id" json:"team_id"`
	TeamName        *string          `db:"team_name" json:"team_name"`
	IsPinned        bool             `db:"is_pinned" json:"is_pinned"`
	RepliesDisabled bool             `db:"replies_disabled" json:"replies_disabled"`
	CreatedBy       uint             `db:"created_by" json:"created_by"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
	LastMessage     *MessagePreview  `db:"-" json:"last_message"`
	UnreadCount     int              `db:"-" json:"unread_count"`
}

// Announcement is a team announcement with its opening message.
type Announcement struct {
	ID         uint      `db:"id" json:"id"`
	Title      *string   `db:"title" json:"title"`
	Content    *string   `db:"content" json:"content"`
	AuthorName *string   `db:"author_name" json:"author_name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type ParticipantView struct {
	UserID    uint        `json:"user_id"`
	FullName  string      `json:"full_name"`
	Role      common.Role `json:"role"`
	AvatarURL string      `json:"avatar_url"`
}

type MessageView struct {
	Message
	SenderName string      `json:"sender_name"`
	SenderRole common.Role `json:"sender_role"`
	Read       bool        `json:"read"`
}

// Thread is a top-level message with its replies, oldest first.
type Thread struct {
	MessageView
	Replies []MessageView `json:"replies"`
}

type ConversationDetail struct {
	Conversation
	TeamName     string            `json:"team_name,omitempty"`
	Participants []ParticipantView `json:"participants"`
	Threads      []Thread          `json:"threads"`
	CanReply     bool              `json:"can_reply"`
}

// --- DTOs for requests ---

type CreateConversationRequest struct {
	Type            ConversationType `json:"type" binding:"required,oneof=direct group team_announcement"`
	Title           string           `json:"title" binding:"max=200"`
	TeamID          *uint            `json:"team_id"`
	RecipientIDs    []uint           `json:"recipient_ids"`
	Content         string           `json:"content" binding:"required"`
	RepliesDisabled bool             `json:"replies_disabled"`
}

type SendMessageRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentMessageID *uint  `json:"parent_message_id"`
}

type PinResponse struct {
	IsPinned bool `json:"is_pinned"`
}

type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}
