package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

const holdingColumns = `id, portfolio_id, symbol, name, asset_type, quantity, purchase_price, purchase_date, notes`

// ListByPortfolio retrieves the holdings of one portfolio, most recently created first
func (r *holdingRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*domain.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE portfolio_id = $1
		ORDER BY purchase_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// ListAll retrieves every holding across all portfolios
func (r *holdingRepository) ListAll(ctx context.Context) ([]*domain.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		ORDER BY purchase_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all holdings: %w", err)
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// Create creates a new holding
func (r *holdingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	query := `
		INSERT INTO holdings (` + holdingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		holding.ID,
		holding.PortfolioID,
		holding.Symbol,
		holding.Name,
		string(holding.AssetType),
		holding.Quantity.String(),
		holding.PurchasePrice.String(),
		holding.PurchaseDate,
		holding.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}

	return nil
}

// Delete removes a holding by its ID
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM holdings WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrHoldingNotFound
	}

	return nil
}

// scanHoldings materializes holding rows, round-tripping DECIMAL columns
// through strings so no float precision is lost
func scanHoldings(rows *sql.Rows) ([]*domain.Holding, error) {
	holdings := make([]*domain.Holding, 0)

	for rows.Next() {
		var holding domain.Holding
		var assetType string
		var quantityStr, priceStr string
		var notes sql.NullString

		err := rows.Scan(
			&holding.ID,
			&holding.PortfolioID,
			&holding.Symbol,
			&holding.Name,
			&assetType,
			&quantityStr,
			&priceStr,
			&holding.PurchaseDate,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding row: %w", err)
		}

		holding.AssetType = domain.AssetType(assetType)
		holding.Notes = notes.String

		quantity, err := decimal.NewFromString(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse quantity: %w", err)
		}
		holding.Quantity = quantity

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse purchase_price: %w", err)
		}
		holding.PurchasePrice = price

		holdings = append(holdings, &holding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holding rows: %w", err)
	}

	return holdings, nil
}
