// Package catalog talks to the external movie-metadata API and mirrors
// its "now playing" list into the local movies table.
package catalog

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/url"
    "time"
)

// ClientConfig carries everything the catalog client needs to reach the
// provider.  BaseURL is overridable so tests can point the client at a
// local server.
type ClientConfig struct {
    BaseURL  string // e.g. https://api.themoviedb.org/3
    APIKey   string // provider API key, sent on every request
    Language string // language parameter, e.g. "fr-FR"
    Region   string // region parameter for the now-playing list, e.g. "CH"
}

// Client is a thin HTTP client for the three provider endpoints the sync
// job needs: now-playing list, genre list and per-movie detail.
type Client struct {
    cfg  ClientConfig
    http *http.Client
}

// NewClient builds a Client with a bounded request timeout.
func NewClient(cfg ClientConfig) *Client {
    return &Client{
        cfg:  cfg,
        http: &http.Client{Timeout: 10 * time.Second},
    }
}

// NowPlayingEntry is one movie from the provider's now-playing list.
// All fields are owned by the provider; absent fields decode to zero
// values and the sync job substitutes defaults.
type NowPlayingEntry struct {
    ID          int64   `json:"id"`
    Title       string  `json:"title"`
    Overview    string  `json:"overview"`
    GenreIDs    []int64 `json:"genre_ids"`
    ReleaseDate string  `json:"release_date"`
    PosterPath  string  `json:"poster_path"`
    VoteAverage float64 `json:"vote_average"`
}

type nowPlayingResponse struct {
    Results []NowPlayingEntry `json:"results"`
}

type genreListResponse struct {
    Genres []struct {
        ID   int64  `json:"id"`
        Name string `json:"name"`
    } `json:"genres"`
}

// MovieDetail carries the subset of the per-movie detail response the
// sync job reads.
type MovieDetail struct {
    Runtime int `json:"runtime"`
}

// NowPlaying fetches the first page of currently playing movies for the
// configured language and region.
func (c *Client) NowPlaying(ctx context.Context) ([]NowPlayingEntry, error) {
    q := url.Values{}
    q.Set("api_key", c.cfg.APIKey)
    q.Set("language", c.cfg.Language)
    q.Set("page", "1")
    q.Set("region", c.cfg.Region)
    var resp nowPlayingResponse
    if err := c.getJSON(ctx, "/movie/now_playing", q, &resp); err != nil {
        return nil, err
    }
    return resp.Results, nil
}

// Genres fetches the provider's genre id to name mapping.
func (c *Client) Genres(ctx context.Context) (map[int64]string, error) {
    q := url.Values{}
    q.Set("api_key", c.cfg.APIKey)
    q.Set("language", c.cfg.Language)
    var resp genreListResponse
    if err := c.getJSON(ctx, "/genre/movie/list", q, &resp); err != nil {
        return nil, err
    }
    names := make(map[int64]string, len(resp.Genres))
    for _, g := range resp.Genres {
        names[g.ID] = g.Name
    }
    return names, nil
}

// Detail fetches the per-movie detail record, used for the runtime.
func (c *Client) Detail(ctx context.Context, movieID int64) (*MovieDetail, error) {
    q := url.Values{}
    q.Set("api_key", c.cfg.APIKey)
    q.Set("language", c.cfg.Language)
    var det MovieDetail
    if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), q, &det); err != nil {
        return nil, err
    }
    return &det, nil
}

// getJSON performs one GET request and decodes the JSON body into out.
// Non-2xx responses are reported as errors carrying the status code.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
    if err != nil {
        return err
    }
    res, err := c.http.Do(req)
    if err != nil {
        return err
    }
    defer res.Body.Close()
    if res.StatusCode < 200 || res.StatusCode > 299 {
        return fmt.Errorf("catalog API %s: unexpected status %d", path, res.StatusCode)
    }
    if err := json.NewDecoder(res.Body).Decode(out); err != nil {
        return fmt.Errorf("catalog API %s: decode: %w", path, err)
    }
    return nil
}
