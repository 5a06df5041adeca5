package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

const commentColumns = `
SELECT c.id, c.event_id, u.id, u.name, c.text, c.created_on, c.updated_on
FROM comments c
JOIN users u ON u.id = c.author_id`

func commentNotFound(id int64) string {
	return fmt.Sprintf("comment with id=%d was not found", id)
}

func scanComment(row scanner) (*domain.Comment, error) {
	var (
		c       domain.Comment
		updated *time.Time
	)
	if err := row.Scan(&c.ID, &c.EventID, &c.Author.ID, &c.Author.Name, &c.Text, &c.CreatedOn, &updated); err != nil {
		return nil, err
	}
	c.CreatedOn = c.CreatedOn.UTC()
	if updated != nil {
		t := updated.UTC()
		c.UpdatedOn = &t
	}
	return &c, nil
}

func (r *CommentRepo) UserExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.pool, userExistsSQL, id)
}

func (r *CommentRepo) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return getEvent(ctx, r.pool, selectEventSQL, id)
}

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO comments (event_id, author_id, text, created_on) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.EventID, c.Author.ID, c.Text, c.CreatedOn,
	).Scan(&c.ID)
	if pgCode(err) == pgForeignKeyViolation {
		return domain.ErrNotFound("event or author not found")
	}
	return err
}

func (r *CommentRepo) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, commentColumns+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, mapErr(err, commentNotFound(id))
	}
	return c, nil
}

func (r *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	tag, err := r.pool.Exec(ctx, `UPDATE comments SET text = $2, updated_on = $3 WHERE id = $1`, c.ID, c.Text, c.UpdatedOn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound(commentNotFound(c.ID))
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound(commentNotFound(id))
	}
	return nil
}

func (r *CommentRepo) ListByEvent(ctx context.Context, eventID int64, page domain.Page) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx,
		commentColumns+` WHERE c.event_id = $1 ORDER BY c.created_on DESC, c.id DESC LIMIT $2 OFFSET $3`,
		eventID, page.Size, page.From,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
