package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"meta-ads-setup/domain/model"
	"meta-ads-setup/domain/repository"
)

// SessionRepository stores each wizard session as a single JSON document so
// every transition lands in one write. A resumed session reads either the
// pre- or post-transition state, never a mix.
type SessionRepository struct{ db *sql.DB }

func NewSessionRepository(db *sql.DB) *SessionRepository { return &SessionRepository{db: db} }

func (r *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM wizard_sessions WHERE id=$1`, id)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	session := &model.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	q := `INSERT INTO wizard_sessions (id, data, updated_at)
		  VALUES ($1,$2,$3)
		  ON CONFLICT (id) DO UPDATE SET
			data=EXCLUDED.data,
			updated_at=EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, q, session.ID, data, session.UpdatedAt)
	return err
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM wizard_sessions WHERE id=$1`, id)
	return err
}
