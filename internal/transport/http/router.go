package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/poller"
	"github.com/lifelink/lifelink-web/internal/session"
	"github.com/lifelink/lifelink-web/internal/snapshot"
	"github.com/lifelink/lifelink-web/internal/transport/http/handler"
	"github.com/lifelink/lifelink-web/internal/transport/http/middleware"
	sloggin "github.com/samber/slog-gin"
)

// RouterDeps collects everything the route tree needs.
type RouterDeps struct {
	API      *api.Client
	Sessions *session.Store
	Cookies  *session.Cookies
	Snapshot *snapshot.Analytics
	Poller   *poller.Poller
	Secure   bool
	Logger   *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Session(deps.Cookies, deps.Secure, deps.Logger))

	authH := handler.NewAuthHandler(deps.API, deps.Sessions, deps.Logger)
	navH := handler.NewNavHandler(deps.Sessions)
	registerH := handler.NewRegisterHandler(deps.API, deps.Sessions, deps.Logger)
	searchH := handler.NewSearchHandler(deps.API, deps.Sessions, deps.Logger)
	emergencyH := handler.NewEmergencyHandler(deps.API, deps.Sessions, deps.Logger)
	trackerH := handler.NewTrackerHandler(deps.API, deps.Sessions, deps.Logger)
	adminH := handler.NewAdminHandler(deps.API, deps.Sessions, deps.Logger)
	analyticsH := handler.NewAnalyticsHandler(deps.Snapshot, deps.Poller)
	eligibilityH := handler.NewEligibilityHandler()

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/login", authH.Login)
		apiGroup.POST("/auth/logout", authH.Logout)
		apiGroup.GET("/nav", navH.State)

		apiGroup.POST("/donors/register", registerH.Register)
		apiGroup.GET("/donors/search", searchH.Search)

		apiGroup.GET("/requests", emergencyH.Feed)
		apiGroup.POST("/requests", emergencyH.Create)

		apiGroup.GET("/analytics", analyticsH.Charts)
		apiGroup.POST("/analytics/visibility", analyticsH.Visibility)

		apiGroup.POST("/eligibility/bmi", eligibilityH.BMI)
		apiGroup.POST("/eligibility/wizard", eligibilityH.Wizard)

		tracker := apiGroup.Group("/tracker", middleware.RequireDonor(deps.Sessions))
		{
			tracker.GET("", trackerH.Dashboard)
			tracker.POST("/donations", trackerH.LogDonation)
		}

		admin := apiGroup.Group("/admin", middleware.RequireAdmin(deps.Sessions))
		{
			admin.GET("/dashboard", adminH.Dashboard)
			admin.GET("/analytics", adminH.Analytics)
			admin.GET("/donors", adminH.Donors)
			admin.GET("/requests", adminH.Requests)
			admin.POST("/requests", adminH.CreateRequest)
			admin.PUT("/requests/:id/status", adminH.UpdateStatus)
			admin.DELETE("/requests/:id", adminH.DeleteRequest)
			admin.DELETE("/donors/:id", adminH.DeleteDonor)
		}
	}

	return r
}
