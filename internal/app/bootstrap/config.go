// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CourseHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: COURSEHUB_MONGO_URI, COURSEHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "coursehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "coursehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Lesson file uploads
	{Name: "upload_dir", Default: "./uploads", Desc: "Local directory for uploaded lesson files"},
	{Name: "upload_base_url", Default: "/files", Desc: "URL prefix uploaded files are served under"},

	// Outbound email
	{Name: "sendgrid_key", Default: "", Desc: "SendGrid API key (blank logs email to the console instead)"},
	{Name: "mail_from", Default: "noreply@coursehub.edu", Desc: "From email address"},
	{Name: "mail_from_name", Default: "CourseHub", Desc: "From display name"},

	{Name: "site_name", Default: "CourseHub", Desc: "Site name used in email subjects and notifications"},

	// Deadline reminder worker
	{Name: "reminder_schedule", Default: "0 7 * * *", Desc: "Cron schedule for the deadline reminder worker"},
	{Name: "reminder_lookahead", Default: "24h", Desc: "How far ahead of a deadline reminders fire (e.g., 24h, 48h)"},

	// Initial admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the initial admin user (created or promoted on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, COURSEHUB_* for app), and
// command-line flags, with precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COURSEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		UploadDir:     appValues.String("upload_dir"),
		UploadBaseURL: appValues.String("upload_base_url"),

		SendGridKey:  appValues.String("sendgrid_key"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		SiteName: appValues.String("site_name"),

		ReminderSchedule:  appValues.String("reminder_schedule"),
		ReminderLookahead: appValues.Duration("reminder_lookahead", 24*time.Hour),

		AdminEmail: strings.ToLower(strings.TrimSpace(appValues.String("admin_email"))),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI and the reminder cron expression are both checked
// here so a typo fails fast instead of surfacing mid-run.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if _, err := cron.ParseStandard(appCfg.ReminderSchedule); err != nil {
		return fmt.Errorf("invalid reminder_schedule %q: %w", appCfg.ReminderSchedule, err)
	}
	if appCfg.ReminderLookahead <= 0 {
		return fmt.Errorf("reminder_lookahead must be positive, got %s", appCfg.ReminderLookahead)
	}

	if !strings.HasPrefix(appCfg.UploadBaseURL, "/") {
		return fmt.Errorf("upload_base_url must start with '/', got %q", appCfg.UploadBaseURL)
	}

	return nil
}
