package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripmapper/backend/internal/domain"
)

// CategoryRepo defines the persistence operations for pin categories.
type CategoryRepo interface {
	// Create inserts a new category and returns the persisted record.
	Create(ctx context.Context, c domain.Category) (domain.Category, error)

	// GetByID retrieves a category by primary key.
	// Returns domain.ErrNotFound if no category with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Category, error)

	// ListForUser returns the user's categories ordered by name.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)

	// Delete removes a category owned by userID.
	// Returns domain.ErrNotFound if no such category exists under that owner,
	// and domain.ErrValidation if pins still reference it.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// pgCategoryRepo is the Postgres implementation of CategoryRepo.
type pgCategoryRepo struct {
	db db
}

// NewCategoryRepo constructs a CategoryRepo backed by the provided db connection.
func NewCategoryRepo(db db) CategoryRepo {
	return &pgCategoryRepo{db: db}
}

func (r *pgCategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	const q = `
		INSERT INTO categories (name, color_code, is_default, user_id)
		VALUES (@name, @color_code, @is_default, @user_id)
		RETURNING id, name, color_code, is_default, user_id`

	args := pgx.NamedArgs{
		"name":       c.Name,
		"color_code": c.ColorCode,
		"is_default": c.IsDefault,
		"user_id":    c.UserID,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCategory(row)
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	const q = `SELECT id, name, color_code, is_default, user_id FROM categories WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCategory(row)
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgCategoryRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	const q = `
		SELECT id, name, color_code, is_default, user_id
		FROM categories
		WHERE user_id = @user_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.CategoryRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	list := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CategoryRepo.ListForUser: scan: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CategoryRepo.ListForUser: rows: %w", err)
	}
	return list, nil
}

func (r *pgCategoryRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const q = `DELETE FROM categories WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		// 23503 foreign_key_violation: pins still reference the category.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("repo.CategoryRepo.Delete: %w: category is still in use", domain.ErrValidation)
		}
		return fmt.Errorf("repo.CategoryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CategoryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanCategory maps a single database row into a domain.Category.
func scanCategory(s scanner) (domain.Category, error) {
	var (
		c      domain.Category
		id     pgtype.UUID
		userID pgtype.UUID
	)

	err := s.Scan(&id, &c.Name, &c.ColorCode, &c.IsDefault, &userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, domain.ErrNotFound
		}
		return domain.Category{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.UserID = uuid.UUID(userID.Bytes)
	return c, nil
}
