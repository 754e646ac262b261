package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"onerinn/internal/handlers"
	"onerinn/internal/middleware"
	"onerinn/internal/models"
	"onerinn/internal/ratelimit"
	"onerinn/internal/services"
)

type Deps struct {
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Listings     *handlers.ListingHandler
	Favorites    *handlers.FavoriteHandler
	Uploads      *handlers.UploadHandler
	Payouts      *handlers.PayoutHandler
	Verification *handlers.VerificationHandler
	Admin        *handlers.AdminHandler

	AuthService  services.AuthService
	AdminService services.AdminService
	Limiter      ratelimit.Limiter

	SessionCookie string
	AdminCookie   string
}

func SetupRoutes(r *gin.Engine, d Deps) *gin.Engine {
	r.Use(middleware.Locale())

	loginLimit := middleware.RateLimitByIP(d.Limiter, "login", 30, 10*time.Minute)

	// ---- public
	api := r.Group("/api")
	{
		api.POST("/auth/register", d.Auth.Register)
		api.POST("/auth/login", loginLimit, d.Auth.Login)
		api.POST("/login-register", loginLimit, d.Auth.LoginRegister)
		api.POST("/auth/logout", d.Auth.Logout)
		// анти-перебор по IP и identity — внутри сервиса, ответ всегда ok
		api.POST("/forgot-password", d.Auth.ForgotPassword)
		api.POST("/auth/reset-password", d.Auth.ResetPassword)

		api.GET("/listings", d.Listings.List)
		api.GET("/listings/:id", d.Listings.Get)
		// витрины по категориям — те же активные объявления
		api.GET("/artworks", d.Listings.ListCategory(models.CategoryArtwork))
		api.GET("/electronics", d.Listings.ListCategory(models.CategoryElectronics))
		api.GET("/artworks/:id", d.Listings.Get)
		api.GET("/electronics/:id", d.Listings.Get)
	}

	// ---- пользовательская сессия (JWT в cookie)
	user := r.Group("/api", middleware.RequireUser(d.AuthService, d.SessionCookie))
	{
		user.GET("/me", d.Auth.Me)
		user.PUT("/me", d.Users.UpdateProfile)
		user.PUT("/me/password", d.Users.ChangePassword)

		user.POST("/listings", d.Listings.Create)
		// создание через витрины — категория зашита в маршрут
		user.POST("/artworks", d.Listings.CreateCategory(models.CategoryArtwork))
		user.POST("/artworks/create", d.Listings.CreateCategory(models.CategoryArtwork))
		user.POST("/electronics", d.Listings.CreateCategory(models.CategoryElectronics))
		user.POST("/electronics/create", d.Listings.CreateCategory(models.CategoryElectronics))
		user.PUT("/listings/:id", d.Listings.Update)
		user.DELETE("/listings/:id", d.Listings.Delete)
		user.GET("/my/listings", d.Listings.Mine)

		user.GET("/favorites", d.Favorites.List)
		user.POST("/favorites/:id", d.Favorites.Add)
		user.DELETE("/favorites/:id", d.Favorites.Remove)

		user.POST("/uploads", d.Uploads.Upload)
		user.GET("/uploads/presign", d.Uploads.Presign)

		user.POST("/payouts", d.Payouts.Request)
		user.GET("/payouts", d.Payouts.Mine)
		user.GET("/payouts/:id/statement", d.Payouts.Statement)

		user.POST("/verification", d.Verification.Submit)
		user.GET("/verification", d.Verification.Status)
	}

	// ---- админка (opaque-сессия в БД)
	r.POST("/api/admin/login", loginLimit, d.Admin.Login)
	r.POST("/api/admin/forgot-password", d.Admin.ForgotPassword)
	r.POST("/api/admin/reset-password", d.Admin.ResetPassword)

	admin := r.Group("/api/admin", middleware.RequireAdmin(d.AdminService, d.AdminCookie))
	{
		admin.POST("/logout", d.Admin.Logout)
		admin.GET("/me", d.Admin.Me)

		admin.GET("/users", d.Admin.ListUsers)
		admin.POST("/users/:id/block", d.Admin.SetUserBlocked)

		admin.GET("/listings/pending", d.Admin.PendingListings)
		admin.POST("/listings/:id/moderate", d.Admin.ModerateListing)

		admin.GET("/verification", d.Admin.PendingVerifications)
		admin.POST("/verification/:id/review", d.Admin.ReviewVerification)

		admin.POST("/assistant", d.Admin.AskAssistant)

		// денежные операции — только superadmin
		money := admin.Group("/payouts", middleware.RequireSuperadmin())
		{
			money.GET("", d.Admin.ListPayouts)
			money.POST("/:id/approve", d.Admin.ApprovePayout)
			money.POST("/:id/reject", d.Admin.RejectPayout)
			money.POST("/:id/paid", d.Admin.MarkPayoutPaid)
			money.GET("/:id/statement", d.Admin.PayoutStatement)
		}
	}

	return r
}
