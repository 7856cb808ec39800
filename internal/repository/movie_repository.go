package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cinearc/cinearc-api/internal/model"
)

// MovieRepo provides read access to the `movies` table plus the
// conditional insert used by the catalog sync job.  Movies are imported
// from the external catalog and never updated or deleted afterwards; the
// unique key on api_id makes re-imports idempotent.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a new MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// ExistsByApiID reports whether a movie with the given external
// identifier is already stored.  The sync job uses it as a cheap
// pre-check before inserting; the unique key remains the actual guard.
func (r *MovieRepo) ExistsByApiID(ctx context.Context, apiID int64) (bool, error) {
	const q = `SELECT 1 FROM movies WHERE api_id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, apiID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertIfAbsent inserts the movie unless a row with the same api_id
// already exists.  It returns true when a row was inserted and false when
// the external identifier was already present.  A duplicate-key error from
// a concurrent insert is treated as "already present", not as a failure,
// so two overlapping sync runs cannot create duplicates or fail each
// other.
func (r *MovieRepo) InsertIfAbsent(ctx context.Context, m *model.Movie) (bool, error) {
	exists, err := r.ExistsByApiID(ctx, m.ApiID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	const q = `INSERT INTO movies (title, synopsis, duration_min, genre, release_date, poster_url, rating, api_id)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var release interface{}
	if m.ReleaseDate != nil {
		release = m.ReleaseDate.Format("2006-01-02")
	}
	res, err := r.db.ExecContext(ctx, q,
		m.Title, m.Synopsis, m.DurationMin, m.Genre, release, m.PosterURL, m.Rating, m.ApiID)
	if err != nil {
		// MySQL error 1062 = duplicate entry: lost the race, row exists
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return false, nil
		}
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	m.ID = uint64(id)
	return true, nil
}

// GetByID returns a single movie.  ErrMovieNotFound is returned when no
// row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, synopsis, duration_min, genre, release_date, poster_url, rating, api_id, created_at
               FROM movies WHERE id = ?`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns all movies ordered by title.  An empty slice is returned
// when the catalog is empty.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, synopsis, duration_min, genre, release_date, poster_url, rating, api_id, created_at
               FROM movies ORDER BY title, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// Count returns the number of stored movies.
func (r *MovieRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n)
	return n, err
}

// rowScanner lets scanMovie work for both QueryRow and Query results.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMovie(row rowScanner) (*model.Movie, error) {
	var m model.Movie
	var release sql.NullTime
	err := row.Scan(&m.ID, &m.Title, &m.Synopsis, &m.DurationMin, &m.Genre,
		&release, &m.PosterURL, &m.Rating, &m.ApiID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if release.Valid {
		t := release.Time
		m.ReleaseDate = &t
	}
	return &m, nil
}
