// internal/app/features/admin/handler.go
package admin

import (
	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	groupstore "github.com/dalemusser/secretsanta/internal/app/store/groups"
	loginstore "github.com/dalemusser/secretsanta/internal/app/store/logins"
	memberstore "github.com/dalemusser/secretsanta/internal/app/store/members"
	userstore "github.com/dalemusser/secretsanta/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin-only overview pages.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Groups  *groupstore.Store
	Members *memberstore.Store
	Users   *userstore.Store
	Logins  *loginstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Groups:  groupstore.New(db),
		Members: memberstore.New(db),
		Users:   userstore.New(db),
		Logins:  loginstore.New(db),
	}
}
