package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitcore/gym-manager/internal/audit"
	"github.com/fitcore/gym-manager/internal/config"
	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/handlers"
	infraRepo "github.com/fitcore/gym-manager/internal/infra/repository"
	"github.com/fitcore/gym-manager/internal/middleware"
	"github.com/fitcore/gym-manager/internal/token"
	ucRegistration "github.com/fitcore/gym-manager/internal/usecase/registration"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	gymRepo := infraRepo.NewGymGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// ======================================================
	// USE CASES
	// ======================================================
	registerUC := ucRegistration.NewService(gymRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(registerUC, gymRepo, issuer)
	gymHandler := handlers.NewGymHandler(db, gymRepo, auditDispatcher)
	userHandler := handlers.NewUserHandler(db)
	exerciseHandler := handlers.NewExerciseHandler(db)
	workoutHandler := handlers.NewWorkoutHandler(db)
	dietPlanHandler := handlers.NewDietPlanHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	adminOnly := middleware.RequireRoles(string(tenancy.RoleAdmin))
	staffOnly := middleware.RequireRoles(string(tenancy.RoleAdmin), string(tenancy.RoleTrainer))

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/gyms/validate/:gymCode", gymHandler.ValidateCode)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(issuer))
		{
			secured.GET("/auth/me", authHandler.Me)

			// ------------------------------
			// GYM
			// ------------------------------
			secured.GET("/gyms/my-gym", gymHandler.MyGym)

			gymAdmin := secured.Group("/gyms")
			gymAdmin.Use(adminOnly)
			{
				gymAdmin.GET("/statistics", gymHandler.Statistics)
				gymAdmin.GET("/users", gymHandler.ListUsers)
				gymAdmin.PUT("/users/:userId/status", gymHandler.UpdateUserStatus)
				gymAdmin.DELETE("/users/:userId", gymHandler.DeleteUser)
				gymAdmin.GET("/audit-logs", auditLogsHandler.List)
				gymAdmin.GET("/:id", gymHandler.GetGym)
				gymAdmin.PUT("/:id", gymHandler.UpdateGym)
			}

			// ------------------------------
			// USERS
			// ------------------------------
			users := secured.Group("/users")
			{
				users.GET("", staffOnly, userHandler.List)
				users.POST("", adminOnly, userHandler.Create)
				users.GET("/:id", userHandler.Get)
				users.PUT("/:id", userHandler.Update)
				users.DELETE("/:id", adminOnly, userHandler.Delete)
			}

			// ------------------------------
			// EXERCISES
			// ------------------------------
			exercises := secured.Group("/exercises")
			{
				exercises.GET("", exerciseHandler.List)
				exercises.GET("/:id", exerciseHandler.Get)
				exercises.POST("", staffOnly, exerciseHandler.Create)
				exercises.PUT("/:id", staffOnly, exerciseHandler.Update)
				exercises.DELETE("/:id", staffOnly, exerciseHandler.Delete)
			}

			// ------------------------------
			// WORKOUTS
			// ------------------------------
			workouts := secured.Group("/workouts")
			{
				workouts.GET("", workoutHandler.List)
				workouts.GET("/:id", workoutHandler.Get)
				workouts.POST("", staffOnly, workoutHandler.Create)
				workouts.PUT("/:id", staffOnly, workoutHandler.Update)
				workouts.DELETE("/:id", staffOnly, workoutHandler.Delete)
			}

			// ------------------------------
			// DIET PLANS
			// ------------------------------
			dietPlans := secured.Group("/diet-plans")
			{
				dietPlans.GET("", dietPlanHandler.List)
				dietPlans.GET("/:id", dietPlanHandler.Get)
				dietPlans.POST("", staffOnly, dietPlanHandler.Create)
				dietPlans.PUT("/:id", staffOnly, dietPlanHandler.Update)
				dietPlans.DELETE("/:id", staffOnly, dietPlanHandler.Delete)
			}
		}
	}
}
