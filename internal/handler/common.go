package handler

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID stored in context by the
// JWT middleware.  JWT numeric claims decode as float64; some clients
// encode the subject as a string, so both are accepted.
func getUserID(c echo.Context) (uint64, error) {
    switch v := c.Get("user_id").(type) {
    case float64:
        if v > 0 {
            return uint64(v), nil
        }
    case string:
        if id, err := strconv.ParseUint(v, 10, 64); err == nil && id > 0 {
            return id, nil
        }
    }
    return 0, errors.New("no user in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}
