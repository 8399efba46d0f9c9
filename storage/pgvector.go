package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
)

// Collection ids are concatenations of a fixed prefix, an encoder name and
// a dataset kind, all lowercase identifiers. Anything else never names a
// table, so it is rejected before reaching SQL.
var validCollection = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// PgVectorBackend serves searches from Postgres with the pgvector
// extension. Each collection id maps to a table with the same columns the
// other backends project, plus an embedding column ordered by cosine
// distance.
type PgVectorBackend struct {
	pool *pgxpool.Pool
}

func NewPgVectorBackend(ctx context.Context, databaseURL string) (*PgVectorBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &PgVectorBackend{pool: pool}, nil
}

func (b *PgVectorBackend) Search(ctx context.Context, collection string, vector []float32, limit int, fields []string) ([]Hit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if !validCollection.MatchString(collection) {
		return nil, errors.Mark(errors.Newf("invalid collection id %q", collection), core.ErrUpstream)
	}

	perFrame := hasField(fields, "frame_n")
	var query string
	if perFrame {
		query = fmt.Sprintf(`SELECT video, frame_n FROM %s ORDER BY embedding <=> $1 LIMIT $2`, collection)
	} else {
		query = fmt.Sprintf(`SELECT video, start_frame, end_frame FROM %s ORDER BY embedding <=> $1 LIMIT $2`, collection)
	}

	rows, err := b.pool.Query(ctx, query, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "query collection %s", collection), core.ErrUpstream)
	}
	defer rows.Close()

	hits := make([]Hit, 0, limit)
	for rows.Next() {
		var h Hit
		if perFrame {
			if err := rows.Scan(&h.Video, &h.FrameN); err != nil {
				return nil, errors.Mark(errors.Wrap(err, "scan pgvector hit"), core.ErrUpstream)
			}
		} else {
			if err := rows.Scan(&h.Video, &h.StartFrame, &h.EndFrame); err != nil {
				return nil, errors.Mark(errors.Wrap(err, "scan pgvector hit"), core.ErrUpstream)
			}
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read collection %s", collection), core.ErrUpstream)
	}
	return hits, nil
}

func (b *PgVectorBackend) Close() {
	b.pool.Close()
}
