package catalog

import (
    "context"
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/cinearc/cinearc-api/internal/model"
    "github.com/cinearc/cinearc-api/internal/repository"
)

const (
    // unknownTitle is stored when the provider returns a movie without a title.
    unknownTitle = "Unknown Title"
    // maxSynopsisLen bounds the synopsis column.
    maxSynopsisLen = 500
)

// SyncConfig tunes the sync job independently of the HTTP client.
type SyncConfig struct {
    MaxMovies         int    // at most this many now-playing entries per run
    DefaultRuntimeMin int    // duration substituted when the detail lookup fails
    ImageBaseURL      string // poster URL prefix, path appended as-is
}

// Summary reports the outcome of one sync run.
type Summary struct {
    Fetched  int // now-playing entries considered
    Inserted int // new movie rows created
    Skipped  int // entries whose external id was already stored
}

// String renders the summary the way operators read it in the job log.
func (s Summary) String() string {
    return fmt.Sprintf("%d movies added (%d fetched, %d already present)",
        s.Inserted, s.Fetched, s.Skipped)
}

// Syncer mirrors the provider's now-playing list into the movies table.
// Movies are keyed by the provider's identifier and inserted at most
// once; re-running against unchanged upstream data is a no-op.
type Syncer struct {
    client *Client
    movies *repository.MovieRepo
    cfg    SyncConfig
}

// NewSyncer constructs a Syncer.  client and movies must be non-nil.
func NewSyncer(client *Client, movies *repository.MovieRepo, cfg SyncConfig) *Syncer {
    if client == nil || movies == nil {
        panic("nil dependency passed to NewSyncer")
    }
    if cfg.MaxMovies <= 0 {
        cfg.MaxMovies = 10
    }
    if cfg.DefaultRuntimeMin <= 0 {
        cfg.DefaultRuntimeMin = 90
    }
    return &Syncer{client: client, movies: movies, cfg: cfg}
}

// Run executes one sync pass.
//
// The genre mapping and the per-movie detail lookups are secondary: when
// they fail the run degrades (placeholder genre labels, default runtime)
// instead of aborting.  A failure of the now-playing fetch itself aborts
// the run, and a storage error aborts it mid-batch; rows inserted before
// the error stay inserted.
func (s *Syncer) Run(ctx context.Context) (Summary, error) {
    var sum Summary

    genres, err := s.client.Genres(ctx)
    if err != nil {
        log.Printf("catalog-sync: genre list fetch failed: %v; continuing with empty mapping", err)
        genres = map[int64]string{}
    }

    entries, err := s.client.NowPlaying(ctx)
    if err != nil {
        return sum, fmt.Errorf("fetch now playing: %w", err)
    }
    if len(entries) > s.cfg.MaxMovies {
        entries = entries[:s.cfg.MaxMovies]
    }
    sum.Fetched = len(entries)

    for _, e := range entries {
        runtime := s.cfg.DefaultRuntimeMin
        if det, derr := s.client.Detail(ctx, e.ID); derr != nil {
            log.Printf("catalog-sync: detail lookup for %d failed: %v; using default runtime", e.ID, derr)
        } else if det.Runtime > 0 {
            runtime = det.Runtime
        }

        m := s.deriveMovie(e, runtime, genres)
        inserted, ierr := s.movies.InsertIfAbsent(ctx, m)
        if ierr != nil {
            return sum, fmt.Errorf("insert movie %d: %w", e.ID, ierr)
        }
        if inserted {
            sum.Inserted++
            log.Printf("catalog-sync: added %q (api_id=%d)", m.Title, m.ApiID)
        } else {
            sum.Skipped++
        }
    }
    return sum, nil
}

// deriveMovie maps one now-playing entry onto a Movie row, substituting
// defaults for every field the provider may omit.
func (s *Syncer) deriveMovie(e NowPlayingEntry, runtimeMin int, genres map[int64]string) *model.Movie {
    title := strings.TrimSpace(e.Title)
    if title == "" {
        title = unknownTitle
    }
    synopsis := e.Overview
    if r := []rune(synopsis); len(r) > maxSynopsisLen {
        synopsis = string(r[:maxSynopsisLen])
    }
    poster := ""
    if e.PosterPath != "" {
        poster = s.cfg.ImageBaseURL + e.PosterPath
    }
    var release *time.Time
    if t, err := time.Parse("2006-01-02", e.ReleaseDate); err == nil {
        release = &t
    }
    return &model.Movie{
        Title:       title,
        Synopsis:    synopsis,
        DurationMin: uint32(runtimeMin),
        Genre:       joinGenreNames(e.GenreIDs, genres),
        ReleaseDate: release,
        PosterURL:   poster,
        Rating:      int(e.VoteAverage),
        ApiID:       e.ID,
    }
}

// joinGenreNames resolves genre ids against the provider mapping and
// joins the names with ", " in the provider's order.  Ids missing from
// the mapping render as "Unknown Genre (<id>)" so a failed genre fetch
// degrades visibly instead of dropping information.
func joinGenreNames(ids []int64, names map[int64]string) string {
    if len(ids) == 0 {
        return ""
    }
    parts := make([]string, 0, len(ids))
    for _, id := range ids {
        if name, ok := names[id]; ok && name != "" {
            parts = append(parts, name)
        } else {
            parts = append(parts, fmt.Sprintf("Unknown Genre (%d)", id))
        }
    }
    return strings.Join(parts, ", ")
}
