package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthcare-org-admin/internal/config"
	"healthcare-org-admin/internal/database"
	"healthcare-org-admin/internal/email"
	"healthcare-org-admin/internal/logger"
	"healthcare-org-admin/internal/metrics"
	"healthcare-org-admin/internal/middleware"
	orghandler "healthcare-org-admin/internal/organization/handler"
	orgrepository "healthcare-org-admin/internal/organization/repository"
	orgservice "healthcare-org-admin/internal/organization/service"
	staffhandler "healthcare-org-admin/internal/staff/handler"
	staffservice "healthcare-org-admin/internal/staff/service"
	userhandler "healthcare-org-admin/internal/user/handler"
	userrepository "healthcare-org-admin/internal/user/repository"
	userservice "healthcare-org-admin/internal/user/service"
)

// Services groups the long-lived services the router wires up, so main can
// reach the ones that run background jobs.
type Services struct {
	User *userservice.UserService
}

func SetupRoutes(cfg *config.Config, db *database.Database) (*gin.Engine, *Services) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	router.GET("/metrics", metrics.Handler())

	mailer := email.NewMailer(cfg.Email)

	userRepository := userrepository.NewUserRepository(db)
	userService := userservice.NewService(userRepository, cfg, mailer)
	userHandler := userhandler.NewHandler(userService)

	orgRepository := orgrepository.NewOrganizationRepository(db)
	orgService := orgservice.NewService(orgRepository, mailer)
	orgHandler := orghandler.NewHandler(orgService)

	hospitalStaffHandler := staffhandler.NewHandler(staffservice.NewService(userRepository, mailer, staffservice.HospitalScope))
	pharmacyStaffHandler := staffhandler.NewHandler(staffservice.NewService(userRepository, mailer, staffservice.PharmacyScope))
	labStaffHandler := staffhandler.NewHandler(staffservice.NewService(userRepository, mailer, staffservice.LabScope))

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterAuthRoutes(v1)
		orgHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterProfileRoutes(protected)

			admin := protected.Group("/admin")
			admin.Use(middleware.SystemAdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
				orgHandler.RegisterAdminRoutes(admin)
			}

			hospital := protected.Group("/hospital-admin")
			hospital.Use(middleware.HospitalAdminOnly())
			{
				hospitalStaffHandler.RegisterRoutes(hospital)
			}

			pharmacy := protected.Group("/pharma-admin")
			pharmacy.Use(middleware.PharmaAdminOnly())
			{
				pharmacyStaffHandler.RegisterRoutes(pharmacy)
			}

			lab := protected.Group("/lab-admin")
			lab.Use(middleware.LabAdminOnly())
			{
				labStaffHandler.RegisterRoutes(lab)
			}
		}
	}

	logger.Info("All routes initialized")

	return router, &Services{User: userService}
}
