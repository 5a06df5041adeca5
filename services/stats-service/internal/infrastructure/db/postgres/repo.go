package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/domain"
	"github.com/lib/pq"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveHit(ctx context.Context, h *domain.EndpointHit) error {
	err := r.db.QueryRowContext(ctx, sqlInsertHit, h.App, h.URI, h.IP, h.Timestamp).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("insert hit: %w", err)
	}
	return nil
}

func (r *Repo) Stats(ctx context.Context, q domain.StatsQuery) ([]domain.ViewStats, error) {
	query, args := buildStatsQuery(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ViewStats, 0, 16)
	for rows.Next() {
		var v domain.ViewStats
		if err := rows.Scan(&v.App, &v.URI, &v.Hits); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return out, nil
}

func buildStatsQuery(q domain.StatsQuery) (string, []any) {
	count := "COUNT(h.ip)"
	if q.Unique {
		count = "COUNT(DISTINCT h.ip)"
	}

	var sb strings.Builder
	sb.WriteString("SELECT h.app, h.uri, ")
	sb.WriteString(count)
	sb.WriteString(" AS hits FROM hits h WHERE h.created BETWEEN $1 AND $2")

	args := []any{q.Start, q.End}
	if len(q.URIs) > 0 {
		sb.WriteString(" AND h.uri = ANY($3)")
		args = append(args, pq.Array(q.URIs))
	}
	sb.WriteString(" GROUP BY h.app, h.uri ORDER BY hits DESC, h.app, h.uri")
	return sb.String(), args
}
