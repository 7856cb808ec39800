package model

import "time"

// User represents an application user record as stored in the
// `users` table.  The email doubles as the login identifier and is
// unique.  Superusers may manage rooms and sessions and trigger the
// catalog sync manually.  JSON tags are omitted here because these
// structs are used by the repository layer; handlers define their
// own response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, used to log in.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name (may be empty).
//  LastName     – family name (may be empty).
//  IsSuperuser  – whether the user has administrative rights.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    IsSuperuser  bool      // users.is_superuser
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and carries metadata for expiry
// and revocation.  The plain token is never stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
