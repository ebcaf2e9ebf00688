package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSequenceRepository hands out counter values from the sequences table.
// The upsert makes each increment atomic, so concurrent callers can never
// observe the same value twice for one scope.
type PgxSequenceRepository struct {
	pool *pgxpool.Pool
}

func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{pool: pool}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

func (r *PgxSequenceRepository) Next(ctx context.Context, scope string, seed int64) (int64, error) {
	query := `
		INSERT INTO sequences (scope, value)
		VALUES ($1, $2 + 1)
		ON CONFLICT (scope) DO UPDATE SET value = sequences.value + 1
		RETURNING value;
	`
	var value int64
	if err := r.pool.QueryRow(ctx, query, scope, seed).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %q: %w", scope, err)
	}
	return value, nil
}
