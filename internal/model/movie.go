package model

import "time"

// Movie mirrors a row in the `movies` table.  Movies are written
// exclusively by the catalog sync job, which imports them from the
// external movie-metadata API.  The application never updates or
// deletes a movie; the external ApiID is unique so an entry is
// created at most once.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title ("Unknown Title" when absent upstream).
//  Synopsis    – overview text, truncated to 500 characters.
//  DurationMin – runtime in minutes (default applies when missing).
//  Genre       – comma-joined genre names.
//  ReleaseDate – release date (nil when unparseable upstream).
//  PosterURL   – full poster URL, empty when no poster path exists.
//  Rating      – vote average coerced to an integer.
//  ApiID       – the catalog provider's own identifier (unique).
//  CreatedAt   – timestamp when the row was imported.
type Movie struct {
    ID          uint64     // movies.id
    Title       string     // movies.title
    Synopsis    string     // movies.synopsis
    DurationMin uint32     // movies.duration_min
    Genre       string     // movies.genre
    ReleaseDate *time.Time // movies.release_date (nullable)
    PosterURL   string     // movies.poster_url
    Rating      int        // movies.rating
    ApiID       int64      // movies.api_id
    CreatedAt   time.Time  // movies.created_at
}
