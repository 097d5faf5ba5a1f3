// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS,
// logging level, request limits); AppConfig is everything specific to
// CourseHub. Values come from environment variables (COURSEHUB_*),
// config files, or command-line flags, loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max driver connection pool size
	MongoMinPoolSize uint64 // Min driver connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: coursehub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Lesson file uploads
	UploadDir     string // Local directory uploaded lesson files land in
	UploadBaseURL string // URL prefix the files are served under (e.g., "/files")

	// Outbound email (SendGrid when a key is set, console otherwise)
	SendGridKey  string
	MailFrom     string // From address (e.g., noreply@coursehub.edu)
	MailFromName string // From display name

	// SiteName appears in email subjects and notification bodies.
	SiteName string

	// Deadline reminder worker
	ReminderSchedule  string        // cron expression, e.g. "0 7 * * *"
	ReminderLookahead time.Duration // how far ahead of a deadline reminders fire

	// AdminEmail names the initial admin account, created or promoted
	// on startup when set.
	AdminEmail string
}
