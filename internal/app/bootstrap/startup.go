// internal/app/bootstrap/startup.go
package bootstrap

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/secretsanta/internal/app/resources"
	userstore "github.com/dalemusser/secretsanta/internal/app/store/users"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if appCfg.AdminLoginID != "" {
		ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
		defer cancel()
		if err := ensureAdmin(ctx, deps, appCfg.AdminLoginID, appCfg.AdminPassword, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}
	return nil
}

// ensureAdmin makes sure an active admin with loginID exists. An existing
// account is promoted and re-enabled; its password is left alone. A missing
// account is created with password, or skipped with a warning when no
// password is configured.
func ensureAdmin(ctx context.Context, deps DBDeps, loginID, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByLoginID(ctx, loginID)
	switch {
	case err == nil:
		if u.Role == models.RoleAdmin && u.Status == models.StatusActive {
			logger.Debug("admin account already present", zap.String("login_id", u.LoginID))
			return nil
		}
		if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return err
		}
		if err := users.SetStatus(ctx, u.ID, models.StatusActive); err != nil {
			return err
		}
		logger.Info("promoted existing account to admin",
			zap.String("user_id", u.ID.Hex()), zap.String("login_id", u.LoginID))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		if password == "" {
			logger.Warn("admin account missing and no admin_password configured; skipping",
				zap.String("login_id", loginID))
			return nil
		}
		created, err := users.Create(ctx, models.User{
			FullName: "Administrator",
			LoginID:  loginID,
			Role:     models.RoleAdmin,
		}, password)
		if errors.Is(err, userstore.ErrDuplicateLoginID) {
			// Another instance created it between the lookup and the insert.
			logger.Info("admin account created concurrently", zap.String("login_id", loginID))
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("created admin account",
			zap.String("user_id", created.ID.Hex()), zap.String("login_id", created.LoginID))
		return nil

	default:
		return err
	}
}
