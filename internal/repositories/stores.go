package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage-level sentinel errors. Both backends report the same
// conditions through these so services never branch on driver errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it too, which is what the repository tests run against.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Stores bundles the per-entity repositories behind one injection
// point. The backend is chosen once at startup.
type Stores struct {
	Projects  ProjectRepository
	Users     UserRepository
	Sessions  SessionRepository
	Wishlist  WishlistRepository
	Analytics AnalyticsRepository
}

// NewPostgresStores wires every repository to the same pgx pool.
func NewPostgresStores(db *pgxpool.Pool) *Stores {
	return &Stores{
		Projects:  NewProjectRepo(db),
		Users:     NewUserRepo(db),
		Sessions:  NewSessionRepo(db),
		Wishlist:  NewWishlistRepo(db),
		Analytics: NewAnalyticsRepo(db),
	}
}

// mapPgError translates driver errors into the storage sentinels.
// 23505 is the Postgres unique_violation code.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
