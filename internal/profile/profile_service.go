package profile

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/calendar"
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/messaging"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/DhavalSuthar-24/dugout/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AnnouncementSource lists a team's latest announcements.
type AnnouncementSource interface {
	TeamAnnouncements(ctx context.Context, teamID uint, limit int) ([]messaging.Announcement, error)
}

type Deps struct {
	Users         user.UserRepository
	Teams         team.TeamRepository
	Training      training.TrainingRepository
	Nutrition     nutrition.NutritionRepository
	Calendar      calendar.CalendarRepository
	Announcements AnnouncementSource
	Stats         StatsRepository
	Store         storage.ObjectStore
	Log           *zap.Logger
}

// Service assembles the profile, dashboard and my-team read models.
type Service struct {
	Deps
	log   *zap.Logger
	today func() datatypes.Date
}

func NewService(d Deps) *Service {
	return &Service{Deps: d, log: d.Log.Named("profile"), today: models.Today}
}

func canSee(p common.Principal, userID uint) bool {
	return p.UserID == userID || p.IsStaff()
}

// GetProfile joins a user's identity, player attributes, memberships,
// assignments and contacts. Players may read their own profile; staff may
// read any.
func (s *Service) GetProfile(ctx context.Context, p common.Principal, userID uint) (*Profile, error) {
	if !canSee(p, userID) {
		return nil, fmt.Errorf("profile %d: %w", userID, common.ErrForbidden)
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, common.ErrNotFound
	}

	memberships, err := s.Teams.MembershipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	teamIDs := make([]uint, len(memberships))
	for i, m := range memberships {
		teamIDs[i] = m.TeamID
	}

	programs, err := s.Training.AssignmentsFor(ctx, userID, teamIDs)
	if err != nil {
		return nil, err
	}
	plans, err := s.Nutrition.AssignmentsFor(ctx, userID, teamIDs)
	if err != nil {
		return nil, err
	}
	contacts, err := s.Users.ListContacts(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	out := &Profile{
		User:                user.FilterUserRecord(u),
		PlayerProfile:       u.PlayerProfile,
		Memberships:         memberships,
		TrainingAssignments: make([]TrainingAssignmentView, len(programs)),
		MealPlanAssignments: make([]MealPlanAssignmentView, len(plans)),
		Contacts:            contacts,
	}
	out.User.Profile = nil
	for i, a := range programs {
		out.TrainingAssignments[i] = TrainingAssignmentView{Assignment: a, Active: a.ActiveOn(today)}
	}
	for i, a := range plans {
		out.MealPlanAssignments[i] = MealPlanAssignmentView{MealPlanAssignment: a, Active: a.ActiveOn(today)}
	}
	return out, nil
}

// UpdateProfile writes identity fields, player attributes and contact
// upserts in one transaction. Users edit their own profile; admins edit
// anyone's.
func (s *Service) UpdateProfile(ctx context.Context, p common.Principal, userID uint, req UpdateProfileRequest) (*Profile, error) {
	if p.UserID != userID && !p.IsAdmin() {
		return nil, fmt.Errorf("profile %d: %w", userID, common.ErrForbidden)
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, common.Invalid("full_name", "is required")
	}

	err := s.Users.WithTransaction(ctx, func(repo user.UserRepository) error {
		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return common.ErrNotFound
		}
		fields := map[string]interface{}{"full_name": name, "phone": strings.TrimSpace(req.Phone)}
		if err := repo.UpdateFields(ctx, userID, fields); err != nil {
			return common.Step("update user", err)
		}

		if req.Player != nil {
			if u.Role != common.RolePlayer {
				return common.Invalid("player", "only players have player attributes")
			}
			if err := savePlayerFields(ctx, repo, userID, *req.Player); err != nil {
				return common.Step("update player profile", err)
			}
		}

		for _, c := range req.Contacts {
			contact := &user.UserContact{
				UserID:      userID,
				ContactType: c.ContactType,
				Value:       strings.TrimSpace(c.Value),
				Label:       strings.TrimSpace(c.Label),
				SortOrder:   c.SortOrder,
			}
			contact.ID = c.ID
			if err := repo.SaveContact(ctx, contact); err != nil {
				return common.Step("save contacts", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("profile updated", zap.Uint("user_id", userID), zap.Uint("by", p.UserID))
	return s.GetProfile(ctx, p, userID)
}

func savePlayerFields(ctx context.Context, repo user.UserRepository, userID uint, f PlayerFields) error {
	if _, err := repo.EnsurePlayerProfile(ctx, userID); err != nil {
		return err
	}
	pp, err := repo.GetPlayerProfile(ctx, userID)
	if err != nil {
		return err
	}
	pp.JerseyNumber = f.JerseyNumber
	pp.Position = strings.TrimSpace(f.Position)
	pp.Grade = strings.TrimSpace(f.Grade)
	pp.Height = strings.TrimSpace(f.Height)
	pp.Weight = f.Weight
	pp.Bats = f.Bats
	pp.Throws = f.Throws
	return repo.SavePlayerProfile(ctx, pp)
}

func (s *Service) DeleteContact(ctx context.Context, p common.Principal, contactID uint) error {
	return s.Users.DeleteContact(ctx, p.UserID, contactID)
}

// UploadAvatar stores the image under avatars/ and points avatar_url at it.
func (s *Service) UploadAvatar(ctx context.Context, p common.Principal, filename string, r io.Reader) (string, error) {
	key := storage.ObjectKey("avatars", p.UserID, filename, time.Now())
	if err := s.Store.Upload(ctx, key, r, true); err != nil {
		return "", common.Step("upload avatar", err)
	}
	url := s.Store.PublicURL(key)
	if err := s.Users.UpdateFields(ctx, p.UserID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", common.Step("save avatar url", err)
	}
	return url, nil
}

// Dashboard is the player home screen: their first team, its next three
// events and their latest stats.
func (s *Service) Dashboard(ctx context.Context, p common.Principal) (*Dashboard, error) {
	memberships, err := s.Teams.MembershipsForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Upcoming: []calendar.ScheduleEvent{}}
	if len(memberships) > 0 {
		d.Team = memberships[0].Team
		d.Upcoming, err = s.Calendar.UpcomingForTeams(ctx, []uint{memberships[0].TeamID}, s.today(), DashboardEvents)
		if err != nil {
			return nil, err
		}
	}
	d.LatestStats, err = s.Stats.Latest(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// MyTeam shows one of the caller's teams: roster, coaches, the next five
// events and the last five announcements. teamID 0 picks the first team the
// caller joined. Staff may open any team.
func (s *Service) MyTeam(ctx context.Context, p common.Principal, teamID uint) (*MyTeam, error) {
	memberships, err := s.Teams.MembershipsForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	view := &MyTeam{
		Teams:         []team.Team{},
		Players:       []team.TeamMember{},
		Coaches:       []team.TeamMember{},
		Upcoming:      []calendar.ScheduleEvent{},
		Announcements: []messaging.Announcement{},
	}
	member := false
	for _, m := range memberships {
		if m.Team != nil {
			view.Teams = append(view.Teams, *m.Team)
		}
		if m.TeamID == teamID {
			member = true
		}
	}
	if teamID == 0 {
		if len(memberships) == 0 {
			return view, nil
		}
		teamID, member = memberships[0].TeamID, true
	}
	if !member && !p.IsStaff() {
		return nil, fmt.Errorf("team %d: %w", teamID, common.ErrForbidden)
	}

	t, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, common.ErrNotFound
	}
	view.Team = t

	members, err := s.Teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	roster := team.SplitRoster(*t, members)
	view.Players, view.Coaches = roster.Players, roster.Coaches

	if view.Upcoming, err = s.Calendar.UpcomingForTeams(ctx, []uint{teamID}, s.today(), MyTeamEvents); err != nil {
		return nil, err
	}
	if view.Announcements, err = s.Announcements.TeamAnnouncements(ctx, teamID, MyTeamAnnouncements); err != nil {
		return nil, err
	}
	return view, nil
}

// RecordStat stores a stat sheet for a player. Staff only.
func (s *Service) RecordStat(ctx context.Context, p common.Principal, playerID uint, req StatRequest) (*PerformanceStat, error) {
	if !p.IsStaff() {
		return nil, fmt.Errorf("recording stats: %w", common.ErrForbidden)
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, common.Invalid("date", err.Error())
	}
	u, err := s.Users.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != common.RolePlayer {
		return nil, fmt.Errorf("player %d: %w", playerID, common.ErrNotFound)
	}
	st := &PerformanceStat{
		PlayerID:         playerID,
		Date:             date,
		BattingAverage:   req.BattingAverage,
		OnBasePct:        req.OnBasePct,
		SluggingPct:      req.SluggingPct,
		ERA:              req.ERA,
		ExitVelocity:     req.ExitVelocity,
		LaunchAngle:      req.LaunchAngle,
		SpinRate:         req.SpinRate,
		AvgDistance:      req.AvgDistance,
		HardHitRate:      req.HardHitRate,
		LineDriveRate:    req.LineDriveRate,
		ThrowingVelocity: req.ThrowingVelocity,
		SixtyYardTime:    req.SixtyYardTime,
		RecoveryScore:    req.RecoveryScore,
		Strain:           req.Strain,
		SleepHours:       req.SleepHours,
		Notes:            req.Notes,
		RecordedBy:       p.UserID,
	}
	if err := s.Stats.Record(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) ListStats(ctx context.Context, p common.Principal, playerID uint) ([]PerformanceStat, error) {
	if !canSee(p, playerID) {
		return nil, fmt.Errorf("stats of %d: %w", playerID, common.ErrForbidden)
	}
	return s.Stats.ListForPlayer(ctx, playerID)
}
