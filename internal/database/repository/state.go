package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/jask/sublimepicker/internal/parcel"
)

// StateRepo keeps the coordinator's saved visibility state, one row per
// picker instance. Payloads are parcel-encoded.
type StateRepo struct {
	db *sql.DB
}

func NewStateRepo(db *sql.DB) *StateRepo { return &StateRepo{db: db} }

func (r *StateRepo) Save(ctx context.Context, instanceID string, st parcel.State) error {
	payload, err := parcel.Encode(st)
	if err != nil {
		return errors.Wrap(err, "encode picker state")
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO picker_state(instance_id, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(instance_id) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at;
	`, instanceID, payload)
	return errors.Wrap(err, "save picker state")
}

// Load returns nil, nil when nothing was saved for instanceID. A row that no
// longer decodes is reported as parcel.ErrMalformed.
func (r *StateRepo) Load(ctx context.Context, instanceID string) (*SavedState, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT instance_id, payload, updated_at FROM picker_state WHERE instance_id = ?`, instanceID)
	out, err := scanState(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (r *StateRepo) Delete(ctx context.Context, instanceID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM picker_state WHERE instance_id = ?`, instanceID)
	return errors.Wrap(err, "delete picker state")
}

// List returns every saved state, newest first.
func (r *StateRepo) List(ctx context.Context) ([]SavedState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT instance_id, payload, updated_at FROM picker_state ORDER BY updated_at DESC, instance_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavedState
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanState(row scanner) (*SavedState, error) {
	var (
		s       SavedState
		payload []byte
	)
	if err := row.Scan(&s.InstanceID, &payload, &s.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := parcel.Decode(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "decode state for %s", s.InstanceID)
	}
	s.State = st
	return &s, nil
}
