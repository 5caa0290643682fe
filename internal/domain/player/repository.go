package player

import "context"

// Repository caches player profiles by provider id.
type Repository interface {
	Get(ctx context.Context, id int64) (Profile, bool, error)
	Upsert(ctx context.Context, profile Profile) error
	List(ctx context.Context) ([]Profile, error)
}
