package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cinearc/cinearc-api/internal/model"
)

// SessionRepo provides CRUD operations for screening sessions.  A session
// joins one movie with one room at a given time; both references are
// enforced with cascading foreign keys.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span multiple repositories.
func (r *SessionRepo) DB() *sql.DB { return r.db }

// SessionDetail is a session joined with its movie and room for display.
type SessionDetail struct {
	ID          uint64    `json:"id"`
	MovieID     uint64    `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	DurationMin uint32    `json:"duration_min"`
	RoomID      uint64    `json:"room_id"`
	RoomName    string    `json:"room_name"`
	Capacity    uint32    `json:"capacity"`
	StartsAt    time.Time `json:"starts_at"`
}

// Create inserts a session and populates the generated ID.  A foreign key
// violation (error 1452) means the referenced movie or room does not
// exist and is reported as the corresponding not-found error.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO sessions (movie_id, room_id, starts_at) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.RoomID, s.StartsAt.UTC())
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1452") {
			return ErrSessionNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID returns one session with movie and room details.
// ErrSessionNotFound is returned when no row matches.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*SessionDetail, error) {
	const q = `SELECT s.id, s.movie_id, m.title, m.duration_min,
                      s.room_id, r.name, r.capacity, s.starts_at
               FROM sessions s
               JOIN movies m ON m.id = s.movie_id
               JOIN rooms r ON r.id = s.room_id
               WHERE s.id = ?`
	var d SessionDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.MovieID, &d.MovieTitle, &d.DurationMin,
		&d.RoomID, &d.RoomName, &d.Capacity, &d.StartsAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Exists reports whether a session with the given id is stored.
func (r *SessionRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all sessions with movie and room details ordered by start
// time.  When movieID is non-zero the list is restricted to that movie.
func (r *SessionRepo) List(ctx context.Context, movieID uint64) ([]SessionDetail, error) {
	q := `SELECT s.id, s.movie_id, m.title, m.duration_min,
                 s.room_id, r.name, r.capacity, s.starts_at
          FROM sessions s
          JOIN movies m ON m.id = s.movie_id
          JOIN rooms r ON r.id = s.room_id`
	args := []interface{}{}
	if movieID != 0 {
		q += ` WHERE s.movie_id = ?`
		args = append(args, movieID)
	}
	q += ` ORDER BY s.starts_at, s.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]SessionDetail, 0)
	for rows.Next() {
		var d SessionDetail
		if err := rows.Scan(
			&d.ID, &d.MovieID, &d.MovieTitle, &d.DurationMin,
			&d.RoomID, &d.RoomName, &d.Capacity, &d.StartsAt,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// Delete removes a session.  Baskets referencing it cascade with the row.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM sessions WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
