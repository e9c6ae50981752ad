package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/realtime"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"go.uber.org/zap"
)

// Service holds the conversation rules. Writes go through the repository,
// inbox reads through the summary reader, and every change is announced on
// the realtime feed.
type Service struct {
	repo      MessagingRepository
	summaries *SummaryReader
	pub       realtime.Publisher
	log       *zap.Logger
}

func NewService(repo MessagingRepository, summaries *SummaryReader, pub realtime.Publisher, log *zap.Logger) *Service {
	return &Service{repo: repo, summaries: summaries, pub: pub, log: log.Named("messaging")}
}

// CreateConversation validates the request for its type and writes the
// conversation, participants and opening message together.
func (s *Service) CreateConversation(ctx context.Context, p common.Principal, req CreateConversationRequest) (*Conversation, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.Invalid("content", "is required")
	}
	title := strings.TrimSpace(req.Title)
	recipients := dedupe(req.RecipientIDs)

	conv := &Conversation{Type: req.Type, CreatedBy: p.UserID}
	switch req.Type {
	case Direct:
		if len(recipients) != 1 {
			return nil, common.Invalid("recipient_ids", "a direct conversation needs exactly one recipient")
		}
		if recipients[0] == p.UserID {
			return nil, common.Invalid("recipient_ids", "cannot start a conversation with yourself")
		}
	case Group:
		if !p.IsStaff() {
			return nil, fmt.Errorf("only coaches and admins can start group conversations: %w", common.ErrForbidden)
		}
		if title == "" {
			return nil, common.Invalid("title", "is required")
		}
		if len(recipients) == 0 {
			return nil, common.Invalid("recipient_ids", "select at least one recipient")
		}
		conv.Title = &title
		conv.RepliesDisabled = req.RepliesDisabled
	case TeamAnnouncement:
		if !p.IsStaff() {
			return nil, fmt.Errorf("only coaches and admins can post announcements: %w", common.ErrForbidden)
		}
		if title == "" {
			return nil, common.Invalid("title", "is required")
		}
		if req.TeamID == nil || *req.TeamID == 0 {
			return nil, common.Invalid("team_id", "is required")
		}
		teamID := *req.TeamID
		conv.Title = &title
		conv.TeamID = &teamID
		conv.RepliesDisabled = req.RepliesDisabled
		recipients = nil
	default:
		return nil, common.Invalid("type", "must be direct, group or team_announcement")
	}

	first := &Message{SenderID: p.UserID, Content: content}
	if err := s.repo.CreateConversation(ctx, conv, recipients, first); err != nil {
		return nil, err
	}

	s.log.Info("conversation created",
		zap.Uint("conversation_id", conv.ID),
		zap.String("type", string(conv.Type)),
		zap.Int("participants", len(conv.Participants)))
	s.publish(ctx, realtime.TableConversations, realtime.ActionInsert, conv.ID)
	s.publish(ctx, realtime.TableMessages, realtime.ActionInsert, first.ID)
	return conv, nil
}

// SendMessage posts into a conversation the caller belongs to. A reply to a
// reply is attached to the top-level message of its thread.
func (s *Service) SendMessage(ctx context.Context, p common.Principal, conversationID uint, req SendMessageRequest) (*Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.Invalid("content", "is required")
	}
	conv, err := s.participantConversation(ctx, p, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.CanReply(p.Role) {
		return nil, fmt.Errorf("replies are disabled in this conversation: %w", common.ErrForbidden)
	}

	m := &Message{ConversationID: conv.ID, SenderID: p.UserID, Content: content}
	if req.ParentMessageID != nil {
		parent, err := s.repo.GetMessage(ctx, *req.ParentMessageID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.ConversationID != conv.ID {
			return nil, common.Invalid("parent_message_id", "is not a message in this conversation")
		}
		root := parent.ID
		if parent.ParentMessageID != nil {
			root = *parent.ParentMessageID
		}
		m.ParentMessageID = &root
	}

	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.TableMessages, realtime.ActionInsert, m.ID)
	return m, nil
}

// MarkConversationRead records reads for everything others have posted and
// returns how many new reads were stored.
func (s *Service) MarkConversationRead(ctx context.Context, p common.Principal, conversationID uint) (int64, error) {
	if _, err := s.participantConversation(ctx, p, conversationID); err != nil {
		return 0, err
	}
	return s.repo.MarkRead(ctx, conversationID, p.UserID)
}

// GetConversation returns the conversation threaded for display. Opening it
// marks everything in it as read.
func (s *Service) GetConversation(ctx context.Context, p common.Principal, id uint) (*ConversationDetail, error) {
	conv, err := s.participantConversation(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.MarkRead(ctx, id, p.UserID); err != nil {
		return nil, common.Step("mark read", err)
	}

	parts, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	readIDs, err := s.repo.ReadMessageIDs(ctx, id, p.UserID)
	if err != nil {
		return nil, err
	}
	read := make(map[uint]bool, len(readIDs))
	for _, rid := range readIDs {
		read[rid] = true
	}

	detail := &ConversationDetail{
		Conversation: *conv,
		Participants: make([]ParticipantView, 0, len(parts)),
		CanReply:     conv.CanReply(p.Role),
	}
	if conv.TeamID != nil {
		if detail.TeamName, err = s.repo.TeamName(ctx, *conv.TeamID); err != nil {
			return nil, err
		}
	}
	for _, cp := range parts {
		pv := ParticipantView{UserID: cp.UserID}
		if cp.User != nil {
			pv.FullName = cp.User.FullName
			pv.Role = cp.User.Role
			pv.AvatarURL = cp.User.AvatarURL
		}
		detail.Participants = append(detail.Participants, pv)
	}

	views := make([]MessageView, len(msgs))
	for i, m := range msgs {
		views[i] = MessageView{Message: m, Read: m.SenderID == p.UserID || read[m.ID]}
		if m.Sender != nil {
			views[i].SenderName = m.Sender.FullName
			views[i].SenderRole = m.Sender.Role
		}
	}
	detail.Threads = BuildThreads(views)
	return detail, nil
}

// BuildThreads groups messages, already in display order, into top-level
// threads. A reply whose parent is itself a reply is filed under the root of
// that chain; a reply whose parent is missing becomes its own thread.
func BuildThreads(msgs []MessageView) []Thread {
	byID := make(map[uint]*MessageView, len(msgs))
	for i := range msgs {
		byID[msgs[i].ID] = &msgs[i]
	}
	rootOf := func(m *MessageView) uint {
		seen := map[uint]bool{}
		for m.ParentMessageID != nil && !seen[m.ID] {
			seen[m.ID] = true
			parent, ok := byID[*m.ParentMessageID]
			if !ok {
				break
			}
			m = parent
		}
		return m.ID
	}

	threads := []Thread{}
	index := make(map[uint]int)
	for i := range msgs {
		m := &msgs[i]
		root := rootOf(m)
		if root == m.ID {
			index[m.ID] = len(threads)
			threads = append(threads, Thread{MessageView: *m, Replies: []MessageView{}})
			continue
		}
		if ti, ok := index[root]; ok {
			threads[ti].Replies = append(threads[ti].Replies, *m)
			continue
		}
		// Parent posted later than the reply; should not happen with server
		// timestamps but keep the message visible.
		index[m.ID] = len(threads)
		threads = append(threads, Thread{MessageView: *m, Replies: []MessageView{}})
	}
	return threads
}

// TogglePin flips the pinned flag. Staff only.
func (s *Service) TogglePin(ctx context.Context, p common.Principal, id uint) (bool, error) {
	if !p.IsStaff() {
		return false, fmt.Errorf("only coaches and admins can pin conversations: %w", common.ErrForbidden)
	}
	pinned, err := s.repo.TogglePin(ctx, id)
	if err != nil {
		return false, err
	}
	s.publish(ctx, realtime.TableConversations, realtime.ActionUpdate, id)
	return pinned, nil
}

func (s *Service) ListConversations(ctx context.Context, p common.Principal) ([]ConversationSummary, error) {
	return s.summaries.Inbox(ctx, p.UserID)
}

func (s *Service) UnreadTotal(ctx context.Context, p common.Principal) (int, error) {
	return s.summaries.UnreadTotal(ctx, p.UserID)
}

func (s *Service) ListTeamAnnouncements(ctx context.Context, teamID uint, limit int) ([]Announcement, error) {
	return s.summaries.TeamAnnouncements(ctx, teamID, limit)
}

func (s *Service) Recipients(ctx context.Context, p common.Principal) ([]user.User, error) {
	return s.repo.Recipients(ctx, p.UserID)
}

func (s *Service) participantConversation(ctx context.Context, p common.Principal, id uint) (*Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, common.ErrNotFound
	}
	ok, err := s.repo.IsParticipant(ctx, id, p.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not a participant of this conversation: %w", common.ErrForbidden)
	}
	return conv, nil
}

func (s *Service) publish(ctx context.Context, table string, action realtime.Action, id uint) {
	s.pub.Publish(ctx, realtime.Event{Table: table, Action: action, ID: id, At: time.Now().UTC()})
}
