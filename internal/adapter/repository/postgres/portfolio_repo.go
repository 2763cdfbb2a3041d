package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finboard/finboard-backend/internal/domain"
)

// portfolioRepository implements domain.PortfolioRepository
type portfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

// GetByID retrieves a portfolio by its ID
func (r *portfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	query := `
		SELECT id, name, description, created_at
		FROM portfolios
		WHERE id = $1
	`

	var portfolio domain.Portfolio
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&portfolio.ID,
		&portfolio.Name,
		&description,
		&portfolio.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio by ID: %w", err)
	}

	portfolio.Description = description.String

	return &portfolio, nil
}

// List retrieves all portfolios, most recently created first
func (r *portfolioRepository) List(ctx context.Context) ([]*domain.Portfolio, error) {
	query := `
		SELECT id, name, description, created_at
		FROM portfolios
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := make([]*domain.Portfolio, 0)
	for rows.Next() {
		var portfolio domain.Portfolio
		var description sql.NullString

		if err := rows.Scan(&portfolio.ID, &portfolio.Name, &description, &portfolio.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio row: %w", err)
		}
		portfolio.Description = description.String

		portfolios = append(portfolios, &portfolio)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portfolio rows: %w", err)
	}

	return portfolios, nil
}

// Create creates a new portfolio
func (r *portfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		portfolio.ID,
		portfolio.Name,
		portfolio.Description,
		portfolio.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	return nil
}

// Delete removes a portfolio. The holdings table carries an
// ON DELETE CASCADE foreign key, so the portfolio's holdings go with it.
func (r *portfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM portfolios WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrPortfolioNotFound
	}

	return nil
}
