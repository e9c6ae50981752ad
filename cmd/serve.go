package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/dugout/config"
	"github.com/DhavalSuthar-24/dugout/internal/admin"
	"github.com/DhavalSuthar-24/dugout/internal/auth"
	"github.com/DhavalSuthar-24/dugout/internal/calendar"
	"github.com/DhavalSuthar-24/dugout/internal/knowledge"
	"github.com/DhavalSuthar-24/dugout/internal/messaging"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/profile"
	"github.com/DhavalSuthar-24/dugout/internal/realtime"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/DhavalSuthar-24/dugout/pkg/assistant"
	"github.com/DhavalSuthar-24/dugout/pkg/storage"
	"github.com/DhavalSuthar-24/dugout/routes"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and realtime server",
	RunE: func(cmd *cobra.Command, args []string) error {
		fx.New(serverModule()).Run()
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "run AutoMigrate before serving")
}

func serverModule() fx.Option {
	return fx.Options(
		fx.Provide(
			config.LoadConfig,
			config.NewLogger,
			newDatabase,
			newBroker,
			func(b *realtime.Broker) realtime.Publisher { return b },
			func(cfg *config.Config) storage.ObjectStore {
				return storage.NewDiskStore(cfg.Storage.Dir, cfg.Storage.BaseURL)
			},
			func(cfg *config.Config) assistant.Completer {
				timeout := time.Duration(cfg.Assistant.TimeoutSeconds) * time.Second
				return assistant.NewClient(cfg.Assistant.URL, cfg.Assistant.APIKey, timeout)
			},

			user.NewUserRepository,
			team.NewTeamRepository,
			training.NewTrainingRepository,
			nutrition.NewNutritionRepository,
			calendar.NewCalendarRepository,
			messaging.NewMessagingRepository,
			knowledge.NewKnowledgeRepository,
			profile.NewStatsRepository,
			admin.NewAdminRepository,
			messaging.NewSummaryReader,

			auth.NewService,
			messaging.NewService,
			knowledge.NewService,
			admin.NewService,
			newCalendarService,
			newProfileService,

			newRouter,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(startRelay, startHTTP),
	)
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	if serveMigrate {
		if err := db.AutoMigrate(schema()...); err != nil {
			return nil, err
		}
		log.Info("schema migrated")
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

func newBroker(log *zap.Logger) *realtime.Broker {
	return realtime.NewBroker(log)
}

// startRelay fans change events out to other API processes over Postgres
// LISTEN/NOTIFY. An empty channel keeps the broker process-local.
func startRelay(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, b *realtime.Broker, log *zap.Logger) {
	channel := cfg.Realtime.NotifyChannel
	if channel == "" {
		log.Info("realtime relay disabled")
		return
	}
	b.SetRelay(realtime.NewPGRelay(db, channel))
	l := realtime.NewListener(cfg.PostgresDSN(), channel, b, log)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return l.Start() },
		OnStop: func(context.Context) error {
			b.SetRelay(nil)
			return l.Stop()
		},
	})
}

type calendarDeps struct {
	fx.In
	Repo      calendar.CalendarRepository
	Teams     team.TeamRepository
	Users     user.UserRepository
	Training  training.TrainingRepository
	Nutrition nutrition.NutritionRepository
	Publisher realtime.Publisher
	Log       *zap.Logger
}

func newCalendarService(d calendarDeps) *calendar.Service {
	return calendar.NewService(calendar.Deps{
		Repo:      d.Repo,
		Teams:     d.Teams,
		Users:     d.Users,
		Training:  d.Training,
		Nutrition: d.Nutrition,
		Publisher: d.Publisher,
		Log:       d.Log,
	})
}

type profileDeps struct {
	fx.In
	Users     user.UserRepository
	Teams     team.TeamRepository
	Training  training.TrainingRepository
	Nutrition nutrition.NutritionRepository
	Calendar  calendar.CalendarRepository
	Summaries *messaging.SummaryReader
	Stats     profile.StatsRepository
	Store     storage.ObjectStore
	Log       *zap.Logger
}

func newProfileService(d profileDeps) *profile.Service {
	return profile.NewService(profile.Deps{
		Users:         d.Users,
		Teams:         d.Teams,
		Training:      d.Training,
		Nutrition:     d.Nutrition,
		Calendar:      d.Calendar,
		Announcements: d.Summaries,
		Stats:         d.Stats,
		Store:         d.Store,
		Log:           d.Log,
	})
}

type routerDeps struct {
	fx.In
	Config    *config.Config
	DB        *gorm.DB
	Log       *zap.Logger
	Store     storage.ObjectStore
	Broker    *realtime.Broker
	Users     user.UserRepository
	Auth      *auth.Service
	Messaging *messaging.Service
	Calendar  *calendar.Service
	Knowledge *knowledge.Service
	Profile   *profile.Service
	Admin     *admin.Service
}

func newRouter(d routerDeps) (*gin.Engine, error) {
	return routes.SetupRoutes(routes.Deps{
		Config:    d.Config,
		DB:        d.DB,
		Log:       d.Log,
		Store:     d.Store,
		Broker:    d.Broker,
		Users:     d.Users,
		Auth:      d.Auth,
		Messaging: d.Messaging,
		Calendar:  d.Calendar,
		Knowledge: d.Knowledge,
		Profile:   d.Profile,
		Admin:     d.Admin,
	})
}

func startHTTP(lc fx.Lifecycle, shutdown fx.Shutdowner, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
					_ = shutdown.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
