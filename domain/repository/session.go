package repository

import (
	"context"
	"errors"

	"meta-ads-setup/domain/model"
)

// ErrSessionNotFound is returned by every store backend when the id is unknown.
var ErrSessionNotFound = errors.New("session not found")

// ISessionStore persists wizard sessions across redirects. Save writes the
// whole session in one operation.
type ISessionStore interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
}
