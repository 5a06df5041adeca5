package postgres

import (
	"context"
	"fmt"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`, u.Name, u.Email,
	).Scan(&u.ID)
	if pgCode(err) == pgUniqueViolation {
		return domain.ErrConflict(fmt.Sprintf("email %q is already registered", u.Email))
	}
	return err
}

func (r *UserRepo) List(ctx context.Context, ids []int64, page domain.Page) ([]domain.User, error) {
	var w where
	if len(ids) > 0 {
		w.add("id = ANY(?)", ids)
	}
	sql := `SELECT id, name, email FROM users` + w.sql() + ` ORDER BY id` + w.page(page)

	rows, err := r.pool.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if pgCode(err) == pgForeignKeyViolation {
		return domain.ErrConflict("the user still has participation requests")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMissing("user", id)
	}
	return nil
}
