// internal/app/features/groups/handler.go
package groups

import (
	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	groupstore "github.com/dalemusser/secretsanta/internal/app/store/groups"
	memberstore "github.com/dalemusser/secretsanta/internal/app/store/members"
	userstore "github.com/dalemusser/secretsanta/internal/app/store/users"
	"github.com/dalemusser/secretsanta/internal/app/system/draw"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// List, create, view, membership, wishlist, draw, edit and delete all hang
// off it.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Groups  *groupstore.Store
	Members *memberstore.Store
	Users   *userstore.Store
	Draws   *draw.Service
}

// NewHandler constructs a groups Handler. It is called from the bootstrap
// BuildHandler function, where the application's DB and logger are
// already initialized.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Groups:  groupstore.New(db),
		Members: memberstore.New(db),
		Users:   userstore.New(db),
		Draws:   draw.New(db, logger),
	}
}
