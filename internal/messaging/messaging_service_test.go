package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/realtime"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/testdb"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *Service
	repo   MessagingRepository
	broker *realtime.Broker
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t,
		&user.User{}, &user.PlayerProfile{},
		&team.Team{}, &team.TeamMember{},
		&Conversation{}, &ConversationParticipant{}, &Message{}, &MessageRead{},
	)
	summaries, err := NewSummaryReader(db)
	require.NoError(t, err)
	broker := realtime.NewBroker(zap.NewNop())
	repo := NewMessagingRepository(db)
	return &fixture{db: db, svc: NewService(repo, summaries, broker, zap.NewNop()), repo: repo, broker: broker}
}

func (f *fixture) user(t *testing.T, name string, role common.Role) common.Principal {
	t.Helper()
	u := &user.User{Email: name + "@example.com", FullName: name, Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return common.Principal{UserID: u.ID, FullName: name, Role: role}
}

func TestDirectConversation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user(t, "Alice", common.RolePlayer)
	bob := f.user(t, "Bob", common.RolePlayer)

	conv, err := f.svc.CreateConversation(ctx, alice, CreateConversationRequest{
		Type:            Direct,
		Title:           "ignored",
		RecipientIDs:    []uint{bob.UserID, bob.UserID},
		Content:         "hey",
		RepliesDisabled: true,
	})
	require.NoError(t, err)
	assert.Nil(t, conv.Title)
	assert.False(t, conv.RepliesDisabled)
	assert.Len(t, conv.Participants, 2)

	var ve *common.ValidationError
	_, err = f.svc.CreateConversation(ctx, alice, CreateConversationRequest{Type: Direct, RecipientIDs: []uint{alice.UserID}, Content: "me"})
	assert.ErrorAs(t, err, &ve)
	_, err = f.svc.CreateConversation(ctx, alice, CreateConversationRequest{Type: Direct, RecipientIDs: []uint{bob.UserID, 99}, Content: "two"})
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.CreateConversation(ctx, alice, CreateConversationRequest{Type: Direct, RecipientIDs: []uint{99}, Content: "ghost"})
	var se *common.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "resolve participants", se.Step)
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.CreateConversation(ctx, alice, CreateConversationRequest{Type: Group, Title: "Squad", RecipientIDs: []uint{bob.UserID}, Content: "hi"})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestTeamAnnouncementWithRepliesDisabled(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	teams := team.NewTeamRepository(f.db)

	u14 := &team.Team{Name: "14U"}
	require.NoError(t, teams.Create(ctx, u14))
	jane := f.user(t, "Jane Doe", common.RolePlayer)
	coach := f.user(t, "Coach Carter", common.RoleCoach)
	require.NoError(t, teams.AddMember(ctx, &team.TeamMember{TeamID: u14.ID, UserID: jane.UserID, Role: team.MemberPlayer}))

	_, err := f.svc.CreateConversation(ctx, jane, CreateConversationRequest{Type: TeamAnnouncement, Title: "Nope", TeamID: &u14.ID, Content: "x"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	conv, err := f.svc.CreateConversation(ctx, coach, CreateConversationRequest{
		Type:            TeamAnnouncement,
		Title:           "Practice Update",
		TeamID:          &u14.ID,
		Content:         "Practice moves to 6pm",
		RepliesDisabled: true,
	})
	require.NoError(t, err)
	require.NotNil(t, conv.Title)
	assert.Equal(t, "Practice Update", *conv.Title)
	assert.Len(t, conv.Participants, 2)

	// Joining after the announcement does not add you to it.
	late := f.user(t, "Late Larry", common.RolePlayer)
	require.NoError(t, teams.AddMember(ctx, &team.TeamMember{TeamID: u14.ID, UserID: late.UserID, Role: team.MemberPlayer}))
	_, err = f.svc.GetConversation(ctx, late, conv.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	inbox, err := f.svc.ListConversations(ctx, jane)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.NotNil(t, inbox[0].TeamName)
	assert.Equal(t, "14U", *inbox[0].TeamName)
	assert.Equal(t, 1, inbox[0].UnreadCount)
	require.NotNil(t, inbox[0].LastMessage)
	assert.Equal(t, "Practice moves to 6pm", inbox[0].LastMessage.Content)

	detail, err := f.svc.GetConversation(ctx, jane, conv.ID)
	require.NoError(t, err)
	assert.False(t, detail.CanReply)
	assert.Equal(t, "14U", detail.TeamName)
	require.Len(t, detail.Threads, 1)
	assert.True(t, detail.Threads[0].Read)
	assert.Equal(t, "Coach Carter", detail.Threads[0].SenderName)

	_, err = f.svc.SendMessage(ctx, jane, conv.ID, SendMessageRequest{Content: "ok!"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	reply, err := f.svc.SendMessage(ctx, coach, conv.ID, SendMessageRequest{Content: "Bring water", ParentMessageID: &detail.Threads[0].ID})
	require.NoError(t, err)
	assert.Equal(t, detail.Threads[0].ID, *reply.ParentMessageID)

	inbox, err = f.svc.ListConversations(ctx, jane)
	require.NoError(t, err)
	assert.Equal(t, 1, inbox[0].UnreadCount)

	list, err := f.svc.ListTeamAnnouncements(ctx, u14.ID, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Content)
	assert.Equal(t, "Practice moves to 6pm", *list[0].Content)
	require.NotNil(t, list[0].AuthorName)
	assert.Equal(t, "Coach Carter", *list[0].AuthorName)
}

func TestRepliesAreNormalizedToTopLevel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user(t, "Alice", common.RolePlayer)
	bob := f.user(t, "Bob", common.RolePlayer)
	sub := f.broker.Subscribe(bob.UserID, realtime.TableMessages)
	defer sub.Close()

	conv, err := f.svc.CreateConversation(ctx, alice, CreateConversationRequest{Type: Direct, RecipientIDs: []uint{bob.UserID}, Content: "game at 5?"})
	require.NoError(t, err)
	detail, err := f.svc.GetConversation(ctx, bob, conv.ID)
	require.NoError(t, err)
	root := detail.Threads[0].ID

	first, err := f.svc.SendMessage(ctx, bob, conv.ID, SendMessageRequest{Content: "yes", ParentMessageID: &root})
	require.NoError(t, err)
	second, err := f.svc.SendMessage(ctx, alice, conv.ID, SendMessageRequest{Content: "great", ParentMessageID: &first.ID})
	require.NoError(t, err)
	assert.Equal(t, root, *second.ParentMessageID)

	select {
	case ev := <-sub.C:
		assert.Equal(t, realtime.TableMessages, ev.Table)
	case <-time.After(time.Second):
		t.Fatal("no message event delivered")
	}

	detail, err = f.svc.GetConversation(ctx, alice, conv.ID)
	require.NoError(t, err)
	require.Len(t, detail.Threads, 1)
	require.Len(t, detail.Threads[0].Replies, 2)
	assert.Equal(t, "yes", detail.Threads[0].Replies[0].Content)
	assert.Equal(t, "great", detail.Threads[0].Replies[1].Content)

	other, err := f.svc.CreateConversation(ctx, bob, CreateConversationRequest{Type: Direct, RecipientIDs: []uint{alice.UserID}, Content: "other"})
	require.NoError(t, err)
	_, err = f.svc.SendMessage(ctx, bob, other.ID, SendMessageRequest{Content: "cross", ParentMessageID: &root})
	var ve *common.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestTogglePinTwiceIsIdentity(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach", common.RoleCoach)
	player := f.user(t, "Player", common.RolePlayer)

	older, err := f.svc.CreateConversation(ctx, coach, CreateConversationRequest{Type: Group, Title: "Pitchers", RecipientIDs: []uint{player.UserID}, Content: "bullpen"})
	require.NoError(t, err)
	_, err = f.svc.CreateConversation(ctx, coach, CreateConversationRequest{Type: Direct, RecipientIDs: []uint{player.UserID}, Content: "newer"})
	require.NoError(t, err)

	_, err = f.svc.TogglePin(ctx, player, older.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	pinned, err := f.svc.TogglePin(ctx, coach, older.ID)
	require.NoError(t, err)
	assert.True(t, pinned)

	inbox, err := f.svc.ListConversations(ctx, player)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, older.ID, inbox[0].ID)
	assert.True(t, inbox[0].IsPinned)

	pinned, err = f.svc.TogglePin(ctx, coach, older.ID)
	require.NoError(t, err)
	assert.False(t, pinned)

	conv, err := f.repo.GetConversation(ctx, older.ID)
	require.NoError(t, err)
	assert.False(t, conv.IsPinned)

	_, err = f.svc.TogglePin(ctx, coach, 999)
	assert.ErrorIs(t, err, common.ErrNotFoundOrForbidden)
}

func TestMarkReadIsIdempotentAndMonotonic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user(t, "Alice", common.RolePlayer)
	bob := f.user(t, "Bob", common.RolePlayer)
	carol := f.user(t, "Carol", common.RolePlayer)

	conv, err := f.svc.CreateConversation(ctx, alice, CreateConversationRequest{Type: Direct, RecipientIDs: []uint{bob.UserID}, Content: "one"})
	require.NoError(t, err)
	_, err = f.svc.SendMessage(ctx, alice, conv.ID, SendMessageRequest{Content: "two"})
	require.NoError(t, err)

	n, err := f.svc.MarkConversationRead(ctx, bob, conv.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = f.svc.MarkConversationRead(ctx, bob, conv.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	before, err := f.repo.ReadMessageIDs(ctx, conv.ID, bob.UserID)
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, bob, conv.ID, SendMessageRequest{Content: "three"})
	require.NoError(t, err)
	_, err = f.svc.SendMessage(ctx, alice, conv.ID, SendMessageRequest{Content: "four"})
	require.NoError(t, err)
	total, err := f.svc.UnreadTotal(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = f.svc.MarkConversationRead(ctx, bob, conv.ID)
	require.NoError(t, err)
	after, err := f.repo.ReadMessageIDs(ctx, conv.ID, bob.UserID)
	require.NoError(t, err)
	assert.Subset(t, after, before)
	assert.Len(t, after, 3)

	_, err = f.svc.MarkConversationRead(ctx, carol, conv.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.MarkConversationRead(ctx, carol, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateConversationRollsBackOnFailedStep(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user(t, "Alice", common.RolePlayer)
	bob := f.user(t, "Bob", common.RolePlayer)
	require.NoError(t, f.db.Migrator().DropTable(&Message{}))

	_, err := f.svc.CreateConversation(ctx, alice, CreateConversationRequest{Type: Direct, RecipientIDs: []uint{bob.UserID}, Content: "lost"})
	var se *common.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "insert message", se.Step)

	var convs, parts int64
	require.NoError(t, f.db.Model(&Conversation{}).Count(&convs).Error)
	require.NoError(t, f.db.Model(&ConversationParticipant{}).Count(&parts).Error)
	assert.Zero(t, convs)
	assert.Zero(t, parts)
}

func TestBuildThreads(t *testing.T) {
	id := func(v uint) *uint { return &v }
	msg := func(mid uint, parent *uint) MessageView {
		m := MessageView{}
		m.ID = mid
		m.ParentMessageID = parent
		return m
	}

	threads := BuildThreads([]MessageView{
		msg(1, nil),
		msg(2, id(1)),
		msg(3, id(2)),  // reply to a reply
		msg(4, id(42)), // parent gone
		msg(5, nil),
	})
	require.Len(t, threads, 3)
	assert.EqualValues(t, 1, threads[0].ID)
	require.Len(t, threads[0].Replies, 2)
	assert.EqualValues(t, 3, threads[0].Replies[1].ID)
	assert.EqualValues(t, 4, threads[1].ID)
	assert.EqualValues(t, 5, threads[2].ID)
	assert.Empty(t, threads[2].Replies)
}

func TestCanReply(t *testing.T) {
	announcement := Conversation{Type: TeamAnnouncement, RepliesDisabled: true}
	assert.False(t, announcement.CanReply(common.RolePlayer))
	assert.True(t, announcement.CanReply(common.RoleCoach))
	assert.True(t, announcement.CanReply(common.RoleAdmin))

	direct := Conversation{Type: Direct, RepliesDisabled: true}
	assert.True(t, direct.CanReply(common.RolePlayer))
}
