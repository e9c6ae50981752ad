package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/pkg/assistant"
	"go.uber.org/zap"
)

type Service struct {
	repo      KnowledgeRepository
	completer assistant.Completer
	log       *zap.Logger
}

func NewService(repo KnowledgeRepository, completer assistant.Completer, log *zap.Logger) *Service {
	return &Service{repo: repo, completer: completer, log: log.Named("knowledge")}
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	c := &Category{Name: strings.TrimSpace(req.Name), Color: req.Color, SortOrder: req.SortOrder}
	if c.Name == "" {
		return nil, common.Invalid("name", "is required")
	}
	if c.Color == "" {
		c.Color = "blue"
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListArticles shows published articles to everyone and drafts to staff.
func (s *Service) ListArticles(ctx context.Context, p common.Principal, f ArticleFilter) ([]Article, error) {
	f.IncludeDrafts = f.IncludeDrafts && p.IsStaff()
	return s.repo.ListArticles(ctx, f)
}

// OpenArticle returns the article and counts the open. The count goes up on
// every call, including repeat opens by the same user.
func (s *Service) OpenArticle(ctx context.Context, p common.Principal, id uint) (*Article, error) {
	a, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || (!a.IsPublished && !p.IsStaff()) {
		return nil, common.ErrNotFound
	}
	if err := s.repo.RecordView(ctx, id, p.UserID); err != nil {
		return nil, err
	}
	a.ViewCount++
	return a, nil
}

func (s *Service) CreateArticle(ctx context.Context, p common.Principal, req ArticleRequest) (*Article, error) {
	a := &Article{
		CategoryID:  req.CategoryID,
		AuthorID:    p.UserID,
		Title:       strings.TrimSpace(req.Title),
		Summary:     strings.TrimSpace(req.Summary),
		Content:     req.Content,
		Tags:        cleanTags(req.Tags),
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		IsPublished: req.IsPublished,
	}
	if a.Title == "" {
		return nil, common.Invalid("title", "is required")
	}
	if err := s.repo.CreateArticle(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("article created", zap.Uint("article_id", a.ID), zap.Bool("published", a.IsPublished))
	a.AuthorName = p.FullName
	return a, nil
}

func (s *Service) UpdateArticle(ctx context.Context, id uint, req ArticleRequest) (*Article, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.Invalid("title", "is required")
	}
	err := s.repo.UpdateArticle(ctx, id, map[string]interface{}{
		"category_id":  req.CategoryID,
		"title":        title,
		"summary":      strings.TrimSpace(req.Summary),
		"content":      req.Content,
		"tags":         cleanTags(req.Tags),
		"image_url":    req.ImageURL,
		"video_url":    req.VideoURL,
		"is_published": req.IsPublished,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetArticle(ctx, id)
}

func (s *Service) DeleteArticle(ctx context.Context, id uint) error {
	return s.repo.DeleteArticle(ctx, id)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}

// --- Assistant ---

func (s *Service) ListAIConversations(ctx context.Context, p common.Principal) ([]AIConversation, error) {
	return s.repo.ListAIConversations(ctx, p.UserID)
}

func (s *Service) CreateAIConversation(ctx context.Context, p common.Principal) (*AIConversation, error) {
	c := &AIConversation{UserID: p.UserID}
	if err := s.repo.CreateAIConversation(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListAIMessages(ctx context.Context, p common.Principal, conversationID uint) ([]AIMessage, error) {
	if _, err := s.ownConversation(ctx, p, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListAIMessages(ctx, conversationID)
}

// Ask stores the question, asks the completion endpoint and stores the
// reply. Without a conversation id a new conversation is started. When the
// endpoint fails the question stays stored and the error names the
// "assistant reply" step. The first answered question titles the
// conversation.
func (s *Service) Ask(ctx context.Context, p common.Principal, conversationID *uint, text string) (*AskResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.Invalid("message", "is required")
	}

	var conv *AIConversation
	if conversationID == nil {
		c, err := s.CreateAIConversation(ctx, p)
		if err != nil {
			return nil, common.Step("create conversation", err)
		}
		conv = c
	} else {
		c, err := s.ownConversation(ctx, p, *conversationID)
		if err != nil {
			return nil, err
		}
		conv = c
	}

	question := AIMessage{ConversationID: conv.ID, Role: AIRoleUser, Content: text}
	if err := s.repo.AddAIMessage(ctx, &question); err != nil {
		return nil, common.Step("save question", err)
	}

	reply, err := s.completer.Complete(ctx, conv.ID, text)
	if err != nil {
		s.log.Warn("assistant reply failed", zap.Uint("conversation_id", conv.ID), zap.Error(err))
		return nil, common.Step("assistant reply", err)
	}

	answer := AIMessage{ConversationID: conv.ID, Role: AIRoleAssistant, Content: reply}
	if err := s.repo.AddAIMessage(ctx, &answer); err != nil {
		return nil, common.Step("save reply", err)
	}

	if conv.Title == nil {
		title := TruncateRunes(text, TitleRunes)
		if err := s.repo.SetAITitle(ctx, conv.ID, title); err != nil {
			return nil, common.Step("set title", err)
		}
		conv.Title = &title
	}
	return &AskResult{Conversation: *conv, Question: question, Reply: answer}, nil
}

func (s *Service) ownConversation(ctx context.Context, p common.Principal, id uint) (*AIConversation, error) {
	c, err := s.repo.GetAIConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.UserID != p.UserID {
		return nil, fmt.Errorf("assistant conversation %d: %w", id, common.ErrNotFound)
	}
	return c, nil
}

// TruncateRunes cuts s to at most n characters without splitting one.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
