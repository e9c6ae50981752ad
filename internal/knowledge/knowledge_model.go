package knowledge

import (
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/models"
	"gorm.io/datatypes"
)

// TitleRunes is how much of the first question becomes a conversation title.
const TitleRunes = 50

type Category struct {
	models.BaseModel
	Name      string `json:"name" gorm:"not null"`
	Color     string `json:"color" gorm:"type:varchar(32);default:'blue'"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`
}

func (Category) TableName() string { return "knowledge_categories" }

type Article struct {
	models.BaseModel
	CategoryID  *uint                       `json:"category_id" gorm:"index"`
	AuthorID    uint                        `json:"author_id" gorm:"index"`
	Title       string                      `json:"title" gorm:"not null"`
	Summary     string                      `json:"summary"`
	Content     string                      `json:"content"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	ImageURL    string                      `json:"image_url"`
	VideoURL    string                      `json:"video_url"`
	ViewCount   int                         `json:"view_count" gorm:"not null;default:0"`
	IsPublished bool                        `json:"is_published" gorm:"default:false;index"`

	Category   *Category `json:"category,omitempty"`
	AuthorName string    `json:"author_name,omitempty" gorm:"-"`
}

func (Article) TableName() string { return "knowledge_articles" }

// ArticleView records one open of an article. Every open is a row.
type ArticleView struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ArticleID uint      `json:"article_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (ArticleView) TableName() string { return "article_views" }

type AIRole string

const (
	AIRoleUser      AIRole = "user"
	AIRoleAssistant AIRole = "assistant"
)

type AIConversation struct {
	models.BaseModel
	UserID uint    `json:"user_id" gorm:"not null;index"`
	Title  *string `json:"title"`
}

func (AIConversation) TableName() string { return "ai_conversations" }

type AIMessage struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	Role           AIRole    `json:"role" gorm:"type:varchar(16);not null"`
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (AIMessage) TableName() string { return "ai_messages" }

// AskResult is one completed question and answer.
type AskResult struct {
	Conversation AIConversation `json:"conversation"`
	Question     AIMessage      `json:"question"`
	Reply        AIMessage      `json:"reply"`
}

// ArticleFilter narrows the article list. Search matches title, summary and
// tags without regard to case.
type ArticleFilter struct {
	CategoryID    uint
	Search        string
	IncludeDrafts bool
}

// --- DTOs for requests ---

type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Color     string `json:"color" binding:"omitempty,max=32"`
	SortOrder int    `json:"sort_order"`
}

type ArticleRequest struct {
	CategoryID  *uint    `json:"category_id"`
	Title       string   `json:"title" binding:"required,max=200"`
	Summary     string   `json:"summary" binding:"max=500"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags" binding:"max=20,dive,max=50"`
	ImageURL    string   `json:"image_url" binding:"omitempty,url"`
	VideoURL    string   `json:"video_url" binding:"omitempty,url"`
	IsPublished bool     `json:"is_published"`
}

type AskRequest struct {
	ConversationID *uint  `json:"conversation_id"`
	Message        string `json:"message" binding:"required,max=4000"`
}
