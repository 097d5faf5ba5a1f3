// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	calendarfeature "github.com/cogitoedu/coursehub/internal/app/features/calendar"
	coursesfeature "github.com/cogitoedu/coursehub/internal/app/features/courses"
	healthfeature "github.com/cogitoedu/coursehub/internal/app/features/health"
	loginfeature "github.com/cogitoedu/coursehub/internal/app/features/login"
	logoutfeature "github.com/cogitoedu/coursehub/internal/app/features/logout"
	notificationsfeature "github.com/cogitoedu/coursehub/internal/app/features/notifications"
	quizzesfeature "github.com/cogitoedu/coursehub/internal/app/features/quizzes"
	coursestore "github.com/cogitoedu/coursehub/internal/app/store/courses"
	eventstore "github.com/cogitoedu/coursehub/internal/app/store/events"
	notificationstore "github.com/cogitoedu/coursehub/internal/app/store/notifications"
	quizstore "github.com/cogitoedu/coursehub/internal/app/store/quizzes"
	userstore "github.com/cogitoedu/coursehub/internal/app/store/users"
	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. Every feature gets its own chi
// sub-router; the session middleware loads the signed-in user into the
// request context for all of them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	db := deps.MongoDatabase
	courses := coursestore.New(db)
	events := eventstore.New(db)
	notifs := notificationstore.New(db)
	quizzes := quizstore.New(db)
	users := userstore.New(db)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded lesson files, served with pre-compressed file support
	r.Handle(appCfg.UploadBaseURL+"/*", fileserver.Handler(appCfg.UploadBaseURL, appCfg.UploadDir))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Courses and the content tree
	coursesHandler := coursesfeature.NewHandler(courses, events, notifs, appCfg.UploadDir, appCfg.UploadBaseURL, logger)
	r.Mount("/courses", coursesfeature.Routes(coursesHandler, sessionMgr))

	// Calendar events
	calendarHandler := calendarfeature.NewHandler(events, logger)
	r.Mount("/calendar", calendarfeature.Routes(calendarHandler, sessionMgr))

	// Per-user notifications
	notificationsHandler := notificationsfeature.NewHandler(notifs, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	// Quizzes referenced by content blocks
	quizzesHandler := quizzesfeature.NewHandler(quizzes, logger)
	r.Mount("/quizzes", quizzesfeature.Routes(quizzesHandler, sessionMgr))

	return r, nil
}
