package knowledge

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"gorm.io/gorm"
)

type KnowledgeRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error

	ListArticles(ctx context.Context, f ArticleFilter) ([]Article, error)
	GetArticle(ctx context.Context, id uint) (*Article, error)
	CreateArticle(ctx context.Context, a *Article) error
	UpdateArticle(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteArticle(ctx context.Context, id uint) error
	RecordView(ctx context.Context, articleID, userID uint) error

	CreateAIConversation(ctx context.Context, c *AIConversation) error
	GetAIConversation(ctx context.Context, id uint) (*AIConversation, error)
	ListAIConversations(ctx context.Context, userID uint) ([]AIConversation, error)
	ListAIMessages(ctx context.Context, conversationID uint) ([]AIMessage, error)
	AddAIMessage(ctx context.Context, m *AIMessage) error
	SetAITitle(ctx context.Context, conversationID uint, title string) error

	WithTransaction(ctx context.Context, fn func(KnowledgeRepository) error) error
}

type knowledgeRepository struct {
	db *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) KnowledgeRepository {
	return &knowledgeRepository{db: db}
}

func (r *knowledgeRepository) WithTransaction(ctx context.Context, fn func(KnowledgeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&knowledgeRepository{db: tx})
	})
}

// --- Categories ---

func (r *knowledgeRepository) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	err := r.db.WithContext(ctx).Order("sort_order asc, name asc").Find(&cats).Error
	return cats, err
}

func (r *knowledgeRepository) CreateCategory(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// --- Articles ---

// ListArticles returns articles newest first, each with its category and
// author name.
func (r *knowledgeRepository) ListArticles(ctx context.Context, f ArticleFilter) ([]Article, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	if !f.IncludeDrafts {
		q = q.Where("is_published = ?", true)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(CAST(tags AS TEXT)) LIKE ?", like, like, like)
	}

	articles := []Article{}
	if err := q.Order("created_at desc, id desc").Find(&articles).Error; err != nil {
		return nil, err
	}
	if err := r.fillAuthors(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *knowledgeRepository) fillAuthors(ctx context.Context, articles []Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.AuthorID)
	}
	var rows []struct {
		ID       uint
		FullName string
	}
	if err := r.db.WithContext(ctx).Table("users").Select("id, full_name").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return err
	}
	names := make(map[uint]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.FullName
	}
	for i := range articles {
		articles[i].AuthorName = names[articles[i].AuthorID]
	}
	return nil
}

func (r *knowledgeRepository) GetArticle(ctx context.Context, id uint) (*Article, error) {
	var a Article
	if err := r.db.WithContext(ctx).Preload("Category").First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	one := []Article{a}
	if err := r.fillAuthors(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (r *knowledgeRepository) CreateArticle(ctx context.Context, a *Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *knowledgeRepository) UpdateArticle(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Article{}).Where("id = ?", id).Updates(fields)
	return common.RequireRows(res.RowsAffected, res.Error)
}

func (r *knowledgeRepository) DeleteArticle(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&ArticleView{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Article{}, id)
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

// RecordView stores one view row and bumps the counter in the same
// transaction. Opens are not deduplicated.
func (r *knowledgeRepository) RecordView(ctx context.Context, articleID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ArticleView{ArticleID: articleID, UserID: userID}).Error; err != nil {
			return common.Step("record view", err)
		}
		res := tx.Model(&Article{}).Where("id = ?", articleID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		return common.Step("count view", common.RequireRows(res.RowsAffected, res.Error))
	})
}

// --- Assistant conversations ---

func (r *knowledgeRepository) CreateAIConversation(ctx context.Context, c *AIConversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *knowledgeRepository) GetAIConversation(ctx context.Context, id uint) (*AIConversation, error) {
	var c AIConversation
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *knowledgeRepository) ListAIConversations(ctx context.Context, userID uint) ([]AIConversation, error) {
	convs := []AIConversation{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc, id desc").
		Find(&convs).Error
	return convs, err
}

func (r *knowledgeRepository) ListAIMessages(ctx context.Context, conversationID uint) ([]AIMessage, error) {
	msgs := []AIMessage{}
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	return msgs, err
}

// AddAIMessage stores the message and moves the conversation to the top of
// its owner's list.
func (r *knowledgeRepository) AddAIMessage(ctx context.Context, m *AIMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		res := tx.Model(&AIConversation{}).Where("id = ?", m.ConversationID).
			UpdateColumn("updated_at", time.Now().UTC())
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

func (r *knowledgeRepository) SetAITitle(ctx context.Context, conversationID uint, title string) error {
	res := r.db.WithContext(ctx).Model(&AIConversation{}).Where("id = ?", conversationID).
		UpdateColumn("title", title)
	return common.RequireRows(res.RowsAffected, res.Error)
}
