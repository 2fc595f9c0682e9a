package store

import (
	"context"

	"github.com/yumelog/yumelog/internal/model"
)

// Store exposes persistence operations required by the service layer.
// Implementations live under internal/store/<driver>/ (sqlite, postgres).
type Store interface {
	Dreams() Dreams
	Tags() Tags
	Stats() Stats
	HealthPing(ctx context.Context) error
	Close() error
}

// Dreams persists journal entries. Create and Update replace the dream's tag
// links wholesale; Delete cascades them. Missing rows surface as
// model.ErrNotFound.
type Dreams interface {
	Create(ctx context.Context, d *model.Dream) (*model.Dream, error)
	Get(ctx context.Context, id int64) (*model.Dream, error)
	Update(ctx context.Context, d *model.Dream) (*model.Dream, error)
	Delete(ctx context.Context, id int64) error

	// Search applies AND-composed filters and orders by date descending,
	// then creation order descending.
	Search(ctx context.Context, req model.SearchRequest) ([]*model.Dream, error)

	// Month returns entries with date in [from, to] inclusive, ordered by
	// date ascending then creation order ascending. Tag sets are not loaded.
	Month(ctx context.Context, from, to string) ([]*model.Dream, error)
}

// Tags reads the tag vocabulary. Tag rows are created implicitly on first
// use and never pruned; Index only lists names currently linked to a dream.
type Tags interface {
	Index(ctx context.Context) (model.TagSet, error)
}

// Stats runs aggregate queries over an optional inclusive date range; empty
// bounds are omitted filters.
type Stats interface {
	Averages(ctx context.Context, from, to string) (*model.Averages, error)

	// TagCounts returns per-category tag frequencies ordered by descending
	// count then name, truncated to the top 10 per category.
	TagCounts(ctx context.Context, from, to string) (map[string][]model.TagCount, error)
}
