// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	coursestore "github.com/cogitoedu/coursehub/internal/app/store/courses"
	eventstore "github.com/cogitoedu/coursehub/internal/app/store/events"
	notificationstore "github.com/cogitoedu/coursehub/internal/app/store/notifications"
	"github.com/cogitoedu/coursehub/internal/app/system/mailer"
	"github.com/cogitoedu/coursehub/internal/app/system/workers"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// reminderWorker is started here and stopped in Shutdown.
var reminderWorker *workers.DeadlineReminder

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It prepares the upload directory, bootstraps the initial admin account
// when one is configured, and starts the deadline reminder worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := os.MkdirAll(appCfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir %s: %w", appCfg.UploadDir, err)
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}

	mail, err := mailer.New(appCfg.SendGridKey, appCfg.MailFromName, appCfg.MailFrom, logger)
	if err != nil {
		return fmt.Errorf("mailer init: %w", err)
	}

	reminderWorker = workers.NewDeadlineReminder(
		eventstore.New(deps.MongoDatabase),
		coursestore.New(deps.MongoDatabase),
		notificationstore.New(deps.MongoDatabase),
		mail,
		logger,
		appCfg.SiteName,
		appCfg.ReminderSchedule,
		appCfg.ReminderLookahead,
	)
	if err := reminderWorker.Start(); err != nil {
		return fmt.Errorf("reminder worker start: %w", err)
	}

	return nil
}

// ensureAdmin guarantees an active admin account exists for the given
// email. An existing user is promoted; a missing one is created without
// a password (it must be set before the account can sign in).
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := deps.MongoDatabase.Collection("users")

	var existing models.User
	err := users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	switch {
	case err == mongo.ErrNoDocuments:
		now := time.Now().UTC()
		admin := models.User{
			ID:         primitive.NewObjectID(),
			FullName:   "Administrator",
			FullNameCI: text.Fold("Administrator"),
			Email:      email,
			Role:       "admin",
			Status:     "active",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := users.InsertOne(ctx, admin); err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		logger.Info("created initial admin user", zap.String("email", email))
		return nil

	case err != nil:
		return fmt.Errorf("look up admin user: %w", err)
	}

	if existing.Role == "admin" && existing.Status == "active" {
		return nil
	}

	_, err = users.UpdateByID(ctx, existing.ID, bson.M{"$set": bson.M{
		"role":       "admin",
		"status":     "active",
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("promote admin user: %w", err)
	}
	logger.Info("promoted existing user to admin", zap.String("email", email))
	return nil
}
