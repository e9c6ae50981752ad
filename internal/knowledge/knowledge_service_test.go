package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/testdb"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubCompleter struct {
	reply string
	err   error
	calls []string
}

func (s *stubCompleter) Complete(_ context.Context, _ uint, message string) (string, error) {
	s.calls = append(s.calls, message)
	return s.reply, s.err
}

func setup(t *testing.T, completer *stubCompleter) (*Service, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t, &user.User{}, &Category{}, &Article{}, &ArticleView{}, &AIConversation{}, &AIMessage{})
	return NewService(NewKnowledgeRepository(db), completer, zap.NewNop()), db
}

func principal(t *testing.T, db *gorm.DB, name string, role common.Role) common.Principal {
	t.Helper()
	u := &user.User{Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com", FullName: name, Role: role}
	require.NoError(t, db.Create(u).Error)
	return common.Principal{UserID: u.ID, FullName: name, Role: role}
}

func TestArticlesSearchAndDrafts(t *testing.T) {
	svc, db := setup(t, &stubCompleter{})
	ctx := context.Background()
	coach := principal(t, db, "Coach Carter", common.RoleCoach)
	jane := principal(t, db, "Jane Doe", common.RolePlayer)

	hitting, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Hitting", SortOrder: 2})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Recovery", Color: "green", SortOrder: 1})
	require.NoError(t, err)
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Recovery", cats[0].Name)
	assert.Equal(t, "blue", cats[1].Color)

	_, err = svc.CreateArticle(ctx, coach, ArticleRequest{
		CategoryID:  &hitting.ID,
		Title:       "Staying Through the Ball",
		Summary:     "Finish your swing",
		Tags:        []string{"Swing", "mechanics", "swing", " "},
		IsPublished: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateArticle(ctx, coach, ArticleRequest{Title: "Ice Baths", Summary: "Cold plunge basics", IsPublished: true})
	require.NoError(t, err)
	_, err = svc.CreateArticle(ctx, coach, ArticleRequest{Title: "Unfinished swing drill", IsPublished: false})
	require.NoError(t, err)

	all, err := svc.ListArticles(ctx, jane, ArticleFilter{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Len(t, all, 2, "players never see drafts")

	staff, err := svc.ListArticles(ctx, coach, ArticleFilter{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Len(t, staff, 3)

	byTag, err := svc.ListArticles(ctx, jane, ArticleFilter{Search: "MECHANICS"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Staying Through the Ball", byTag[0].Title)
	assert.Equal(t, []string{"Swing", "mechanics"}, []string(byTag[0].Tags))
	assert.Equal(t, "Coach Carter", byTag[0].AuthorName)
	require.NotNil(t, byTag[0].Category)
	assert.Equal(t, "Hitting", byTag[0].Category.Name)

	bySummary, err := svc.ListArticles(ctx, jane, ArticleFilter{Search: "plunge"})
	require.NoError(t, err)
	assert.Len(t, bySummary, 1)

	byCategory, err := svc.ListArticles(ctx, jane, ArticleFilter{CategoryID: hitting.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)
}

func TestOpenArticleCountsEveryOpen(t *testing.T) {
	svc, db := setup(t, &stubCompleter{})
	ctx := context.Background()
	coach := principal(t, db, "Coach", common.RoleCoach)
	jane := principal(t, db, "Jane", common.RolePlayer)

	a, err := svc.CreateArticle(ctx, coach, ArticleRequest{Title: "Long Toss", IsPublished: true})
	require.NoError(t, err)
	draft, err := svc.CreateArticle(ctx, coach, ArticleRequest{Title: "Draft"})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		got, err := svc.OpenArticle(ctx, jane, a.ID)
		require.NoError(t, err)
		assert.Equal(t, i, got.ViewCount)
	}
	var views int64
	require.NoError(t, db.Model(&ArticleView{}).Where("article_id = ?", a.ID).Count(&views).Error)
	assert.EqualValues(t, 3, views)

	_, err = svc.OpenArticle(ctx, jane, draft.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.OpenArticle(ctx, coach, draft.ID)
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteArticle(ctx, a.ID))
	require.NoError(t, db.Model(&ArticleView{}).Where("article_id = ?", a.ID).Count(&views).Error)
	assert.Zero(t, views)
	assert.ErrorIs(t, svc.DeleteArticle(ctx, a.ID), common.ErrNotFoundOrForbidden)
}

func TestAskStartsConversationAndTitlesIt(t *testing.T) {
	stub := &stubCompleter{reply: "Keep your hands inside the ball."}
	svc, db := setup(t, stub)
	ctx := context.Background()
	jane := principal(t, db, "Jane", common.RolePlayer)

	question := strings.Repeat("é", 60)
	res, err := svc.Ask(ctx, jane, nil, "  "+question+"  ")
	require.NoError(t, err)
	require.NotNil(t, res.Conversation.Title)
	assert.Equal(t, 50, utf8.RuneCountInString(*res.Conversation.Title))
	assert.True(t, utf8.ValidString(*res.Conversation.Title))
	assert.Equal(t, AIRoleUser, res.Question.Role)
	assert.Equal(t, "Keep your hands inside the ball.", res.Reply.Content)

	_, err = svc.Ask(ctx, jane, &res.Conversation.ID, "And my stance?")
	require.NoError(t, err)
	assert.Equal(t, []string{question, "And my stance?"}, stub.calls)

	convs, err := svc.ListAIConversations(ctx, jane)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.NotNil(t, convs[0].Title)
	assert.Equal(t, *res.Conversation.Title, *convs[0].Title, "later questions keep the first title")

	msgs, err := svc.ListAIMessages(ctx, jane, res.Conversation.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, AIRoleAssistant, msgs[3].Role)

	other := principal(t, db, "Other", common.RolePlayer)
	_, err = svc.ListAIMessages(ctx, other, res.Conversation.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.Ask(ctx, other, &res.Conversation.ID, "hi")
	assert.ErrorIs(t, err, common.ErrNotFound)

	var ve *common.ValidationError
	_, err = svc.Ask(ctx, jane, nil, "   ")
	assert.ErrorAs(t, err, &ve)
}

func TestAskFailureKeepsQuestion(t *testing.T) {
	stub := &stubCompleter{err: errors.New("model overloaded")}
	svc, db := setup(t, stub)
	ctx := context.Background()
	jane := principal(t, db, "Jane", common.RolePlayer)

	conv, err := svc.CreateAIConversation(ctx, jane)
	require.NoError(t, err)

	_, err = svc.Ask(ctx, jane, &conv.ID, "Why does my arm hurt?")
	var se *common.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "assistant reply", se.Step)

	msgs, err := svc.ListAIMessages(ctx, jane, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, AIRoleUser, msgs[0].Role)
	assert.Equal(t, "Why does my arm hurt?", msgs[0].Content)

	convs, err := svc.ListAIConversations(ctx, jane)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Nil(t, convs[0].Title)

	// The retry is the first answered question, so it names the conversation.
	stub.err, stub.reply = nil, "Rest it for a few days."
	res, err := svc.Ask(ctx, jane, &conv.ID, "Should I keep throwing?")
	require.NoError(t, err)
	require.NotNil(t, res.Conversation.Title)
	assert.Equal(t, "Should I keep throwing?", *res.Conversation.Title)

	// Later answers leave it alone.
	_, err = svc.Ask(ctx, jane, &conv.ID, "How long?")
	require.NoError(t, err)
	convs, err = svc.ListAIConversations(ctx, jane)
	require.NoError(t, err)
	require.NotNil(t, convs[0].Title)
	assert.Equal(t, "Should I keep throwing?", *convs[0].Title)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("short", 50))
	assert.Equal(t, "日本", TruncateRunes("日本語", 2))
}
