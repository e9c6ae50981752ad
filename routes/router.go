package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/dugout/config"
	"github.com/DhavalSuthar-24/dugout/internal/admin"
	"github.com/DhavalSuthar-24/dugout/internal/auth"
	"github.com/DhavalSuthar-24/dugout/internal/calendar"
	"github.com/DhavalSuthar-24/dugout/internal/knowledge"
	"github.com/DhavalSuthar-24/dugout/internal/messaging"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/profile"
	"github.com/DhavalSuthar-24/dugout/internal/realtime"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/DhavalSuthar-24/dugout/pkg/storage"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
)

// Deps is everything the HTTP layer mounts.
type Deps struct {
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

func SetupRoutes(d Deps) (*gin.Engine, error) {
	if d.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validator.RegisterCustomValidations(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(mw.Recovery(d.Log), mw.RequestLogger(d.Log.Named("http")))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{d.Config.App.FrontendURL}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", mw.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{mw.RequestIDHeader}
	r.Use(cors.New(corsCfg))

	r.Static("/public", "./public")

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "dugout", "docs": "/swagger/index.html"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	authMW := mw.AuthMiddleware(d.Config.JWT.AccessTokenSecret, d.DB)

	auth.RegisterAuthRoutes(api, d.Auth, d.Users, authMW)
	team.TeamRoutes(api, d.DB, d.Config, d.Store, d.Log)
	training.TrainingRoutes(api, d.DB, d.Config)
	nutrition.NutritionRoutes(api, d.DB, d.Config)
	messaging.MessagingRoutes(api, d.DB, d.Config, d.Messaging)
	calendar.CalendarRoutes(api, d.DB, d.Config, d.Calendar)
	knowledge.KnowledgeRoutes(api, d.DB, d.Config, d.Knowledge)
	profile.ProfileRoutes(api, d.DB, d.Config, d.Profile)
	admin.AdminRoutes(api, d.DB, d.Config, d.Admin)

	ws := realtime.NewHandler(d.Broker, d.Log)
	api.GET("/realtime", authMW, ws.Subscribe)

	return r, nil
}
