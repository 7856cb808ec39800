package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinearc/cinearc-api/internal/repository"
)

// fakeProvider spins up a stub catalog API.  Handlers can be nil to get
// a sensible default; any handler can be replaced per test.
type fakeProvider struct {
	genres     http.HandlerFunc
	nowPlaying http.HandlerFunc
	detail     http.HandlerFunc
}

func (f *fakeProvider) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		if f.genres != nil {
			f.genres(w, r)
			return
		}
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":12,"name":"Adventure"}]}`))
	})
	mux.HandleFunc("/movie/now_playing", func(w http.ResponseWriter, r *http.Request) {
		if f.nowPlaying != nil {
			f.nowPlaying(w, r)
			return
		}
		w.Write([]byte(`{"results":[
			{"id":101,"title":"First Film","overview":"a heist","genre_ids":[28],
			 "release_date":"2026-06-01","poster_path":"/first.jpg","vote_average":7.4},
			{"id":102,"title":"Second Film","overview":"a sequel","genre_ids":[28,12],
			 "release_date":"2026-07-15","poster_path":"/second.jpg","vote_average":6.1}
		]}`))
	})
	mux.HandleFunc("/movie/", func(w http.ResponseWriter, r *http.Request) {
		if f.detail != nil {
			f.detail(w, r)
			return
		}
		w.Write([]byte(`{"runtime":123}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSyncer(t *testing.T, srv *httptest.Server) (*Syncer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := NewClient(ClientConfig{
		BaseURL:  srv.URL,
		APIKey:   "test-key",
		Language: "fr-FR",
		Region:   "CH",
	})
	s := NewSyncer(client, repository.NewMovieRepo(db), SyncConfig{
		MaxMovies:         10,
		DefaultRuntimeMin: 90,
		ImageBaseURL:      "https://img.example/w500",
	})
	return s, mock
}

// expectAbsentEmpty arranges the existence pre-check to find nothing: an
// empty result set makes QueryRow surface sql.ErrNoRows.
func expectAbsentEmpty(mock sqlmock.Sqlmock, apiID int64) {
	mock.ExpectQuery("SELECT 1 FROM movies").
		WithArgs(apiID).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
}

func TestRunInsertsNowPlaying(t *testing.T) {
	srv := (&fakeProvider{}).start(t)
	s, mock := newTestSyncer(t, srv)

	expectAbsentEmpty(mock, 101)
	mock.ExpectExec("INSERT INTO movies").
		WithArgs("First Film", "a heist", 123, "Action", "2026-06-01",
			"https://img.example/w500/first.jpg", 7, int64(101)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	expectAbsentEmpty(mock, 102)
	mock.ExpectExec("INSERT INTO movies").
		WithArgs("Second Film", "a sequel", 123, "Action, Adventure", "2026-07-15",
			"https://img.example/w500/second.jpg", 6, int64(102)).
		WillReturnResult(sqlmock.NewResult(2, 1))

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Fetched)
	assert.Equal(t, 2, sum.Inserted)
	assert.Equal(t, 0, sum.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSkipsExisting(t *testing.T) {
	srv := (&fakeProvider{}).start(t)
	s, mock := newTestSyncer(t, srv)

	// 101 is already stored, 102 is new
	mock.ExpectQuery("SELECT 1 FROM movies").
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	expectAbsentEmpty(mock, 102)
	mock.ExpectExec("INSERT INTO movies").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Fetched)
	assert.Equal(t, 1, sum.Inserted)
	assert.Equal(t, 1, sum.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSecondPassIsNoOp(t *testing.T) {
	srv := (&fakeProvider{}).start(t)
	s, mock := newTestSyncer(t, srv)

	mock.ExpectQuery("SELECT 1 FROM movies").
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM movies").
		WithArgs(int64(102)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Inserted)
	assert.Equal(t, 2, sum.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunGenreFetchFailureDegrades(t *testing.T) {
	srv := (&fakeProvider{
		genres: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		nowPlaying: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"id":101,"title":"Solo","genre_ids":[28],
				"release_date":"2026-06-01","poster_path":"/s.jpg","vote_average":5.0}]}`))
		},
	}).start(t)
	s, mock := newTestSyncer(t, srv)

	expectAbsentEmpty(mock, 101)
	mock.ExpectExec("INSERT INTO movies").
		WithArgs("Solo", "", 123, "Unknown Genre (28)", "2026-06-01",
			"https://img.example/w500/s.jpg", 5, int64(101)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunDetailFailureUsesDefaultRuntime(t *testing.T) {
	srv := (&fakeProvider{
		nowPlaying: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"id":101,"title":"Solo","genre_ids":[28],
				"release_date":"2026-06-01","poster_path":"/s.jpg","vote_average":5.0}]}`))
		},
		detail: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	}).start(t)
	s, mock := newTestSyncer(t, srv)

	expectAbsentEmpty(mock, 101)
	mock.ExpectExec("INSERT INTO movies").
		WithArgs("Solo", "", 90, "Action", "2026-06-01",
			"https://img.example/w500/s.jpg", 5, int64(101)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunNowPlayingFailureAborts(t *testing.T) {
	srv := (&fakeProvider{
		nowPlaying: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
	}).start(t)
	s, mock := newTestSyncer(t, srv)

	sum, err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, sum.Fetched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCapsEntriesAtMaxMovies(t *testing.T) {
	srv := (&fakeProvider{
		nowPlaying: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[
				{"id":1,"title":"A"},{"id":2,"title":"B"},{"id":3,"title":"C"}
			]}`))
		},
	}).start(t)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k"})
	s := NewSyncer(client, repository.NewMovieRepo(db), SyncConfig{MaxMovies: 2, DefaultRuntimeMin: 90})

	for _, id := range []int64{1, 2} {
		expectAbsentEmpty(mock, id)
		mock.ExpectExec("INSERT INTO movies").WillReturnResult(sqlmock.NewResult(id, 1))
	}

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Fetched)
	assert.Equal(t, 2, sum.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeriveMovieDefaults(t *testing.T) {
	s := NewSyncer(NewClient(ClientConfig{}), mustRepo(t), SyncConfig{
		DefaultRuntimeMin: 90,
		ImageBaseURL:      "https://img.example/w500",
	})

	m := s.deriveMovie(NowPlayingEntry{ID: 7}, 90, nil)
	assert.Equal(t, "Unknown Title", m.Title)
	assert.Equal(t, "", m.PosterURL, "no poster path must not produce a bare base URL")
	assert.Nil(t, m.ReleaseDate)
	assert.Equal(t, uint32(90), m.DurationMin)
	assert.Equal(t, "", m.Genre)
}

func TestDeriveMovieTruncatesSynopsis(t *testing.T) {
	s := NewSyncer(NewClient(ClientConfig{}), mustRepo(t), SyncConfig{DefaultRuntimeMin: 90})

	long := strings.Repeat("é", 600) // multi-byte: truncation must cut runes, not bytes
	m := s.deriveMovie(NowPlayingEntry{ID: 7, Title: "X", Overview: long}, 90, nil)
	assert.Equal(t, 500, len([]rune(m.Synopsis)))
	assert.Equal(t, strings.Repeat("é", 500), m.Synopsis)
}

func TestJoinGenreNamesKeepsProviderOrder(t *testing.T) {
	names := map[int64]string{28: "Action", 12: "Adventure"}
	assert.Equal(t, "Adventure, Action", joinGenreNames([]int64{12, 28}, names))
	assert.Equal(t, "Action, Unknown Genre (99)", joinGenreNames([]int64{28, 99}, names))
	assert.Equal(t, "", joinGenreNames(nil, names))
}

func mustRepo(t *testing.T) *repository.MovieRepo {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewMovieRepo(db)
}
