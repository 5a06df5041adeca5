package postgres

import (
	"context"
	"fmt"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepo stores categories and compilations.
type CatalogRepo struct {
	pool   *pgxpool.Pool
	events *EventRepo
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool, events: NewEventRepo(pool)}
}

func categoryNotFound(id int64) string {
	return fmt.Sprintf("category with id=%d was not found", id)
}

func compilationNotFound(id int64) string {
	return fmt.Sprintf("compilation with id=%d was not found", id)
}

// --- Categories ---

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	if pgCode(err) == pgUniqueViolation {
		return domain.ErrConflict(fmt.Sprintf("category name %q already exists", c.Name))
	}
	return err
}

func (r *CatalogRepo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if pgCode(err) == pgUniqueViolation {
		return domain.ErrConflict(fmt.Sprintf("category name %q already exists", c.Name))
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound(categoryNotFound(c.ID))
	}
	return nil
}

func (r *CatalogRepo) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if pgCode(err) == pgForeignKeyViolation {
		return domain.ErrConflict("the category is not empty")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound(categoryNotFound(id))
	}
	return nil
}

func (r *CatalogRepo) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, mapErr(err, categoryNotFound(id))
	}
	return &c, nil
}

func (r *CatalogRepo) ListCategories(ctx context.Context, page domain.Page) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id LIMIT $1 OFFSET $2`, page.Size, page.From)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- Compilations ---

func (r *CatalogRepo) CreateCompilation(ctx context.Context, c *domain.Compilation) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`,
			c.Title, c.Pinned,
		).Scan(&c.ID)
		if err != nil {
			return err
		}
		return linkEvents(ctx, tx, c.ID, c.EventIDs)
	})
}

func (r *CatalogRepo) UpdateCompilation(ctx context.Context, c *domain.Compilation) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE compilations SET title = $2, pinned = $3 WHERE id = $1`,
			c.ID, c.Title, c.Pinned,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound(compilationNotFound(c.ID))
		}
		if _, err := tx.Exec(ctx, `DELETE FROM compilation_events WHERE compilation_id = $1`, c.ID); err != nil {
			return err
		}
		return linkEvents(ctx, tx, c.ID, c.EventIDs)
	})
}

func linkEvents(ctx context.Context, tx pgx.Tx, compilationID int64, eventIDs []int64) error {
	if len(eventIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO compilation_events (compilation_id, event_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, compilationID, eventIDs)
	if pgCode(err) == pgForeignKeyViolation {
		return domain.ErrNotFound("one or more events were not found")
	}
	return err
}

func (r *CatalogRepo) DeleteCompilation(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound(compilationNotFound(id))
	}
	return nil
}

const compilationColumns = `
SELECT c.id, c.title, c.pinned,
       COALESCE(array_agg(ce.event_id ORDER BY ce.event_id) FILTER (WHERE ce.event_id IS NOT NULL), '{}')
FROM compilations c
LEFT JOIN compilation_events ce ON ce.compilation_id = c.id`

func scanCompilation(row scanner) (*domain.Compilation, error) {
	var c domain.Compilation
	if err := row.Scan(&c.ID, &c.Title, &c.Pinned, &c.EventIDs); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) GetCompilation(ctx context.Context, id int64) (*domain.Compilation, error) {
	c, err := scanCompilation(r.pool.QueryRow(ctx, compilationColumns+` WHERE c.id = $1 GROUP BY c.id`, id))
	if err != nil {
		return nil, mapErr(err, compilationNotFound(id))
	}
	return c, nil
}

func (r *CatalogRepo) ListCompilations(ctx context.Context, pinned *bool, page domain.Page) ([]*domain.Compilation, error) {
	var w where
	if pinned != nil {
		w.add("c.pinned = ?", *pinned)
	}
	sql := compilationColumns + w.sql() + " GROUP BY c.id ORDER BY c.id" + w.page(page)

	rows, err := r.pool.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) EventsByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	return r.events.EventsByIDs(ctx, ids)
}
