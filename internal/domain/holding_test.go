package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validHolding() Holding {
	return Holding{
		ID:            uuid.New(),
		PortfolioID:   uuid.New(),
		Symbol:        "TCS.NS",
		Name:          "TCS",
		AssetType:     AssetTypeStock,
		Quantity:      decimal.NewFromInt(10),
		PurchasePrice: decimal.NewFromInt(3500),
		PurchaseDate:  time.Now(),
	}
}

func TestHolding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Holding)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid holding should pass",
			mutate: func(h *Holding) {},
		},
		{
			name:    "missing portfolio reference should fail",
			mutate:  func(h *Holding) { h.PortfolioID = uuid.Nil },
			wantErr: true,
			errMsg:  "holding must reference a portfolio",
		},
		{
			name:    "empty symbol should fail",
			mutate:  func(h *Holding) { h.Symbol = "" },
			wantErr: true,
			errMsg:  "holding symbol cannot be empty",
		},
		{
			name:    "empty name should fail",
			mutate:  func(h *Holding) { h.Name = "" },
			wantErr: true,
			errMsg:  "holding name cannot be empty",
		},
		{
			name:    "unknown asset type should fail",
			mutate:  func(h *Holding) { h.AssetType = AssetType("bond") },
			wantErr: true,
			errMsg:  "asset type must be stock, crypto, etf, or other",
		},
		{
			name:    "negative quantity should fail",
			mutate:  func(h *Holding) { h.Quantity = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "holding quantity cannot be negative",
		},
		{
			name:   "zero quantity should pass",
			mutate: func(h *Holding) { h.Quantity = decimal.Zero },
		},
		{
			name:    "zero purchase price should fail",
			mutate:  func(h *Holding) { h.PurchasePrice = decimal.Zero },
			wantErr: true,
			errMsg:  "holding purchase price must be positive",
		},
		{
			name:   "crypto asset type should pass",
			mutate: func(h *Holding) { h.AssetType = AssetTypeCrypto },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHolding()
			tt.mutate(&h)

			err := h.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHolding_CostBasis(t *testing.T) {
	h := validHolding()
	h.Quantity = decimal.RequireFromString("2.5")
	h.PurchasePrice = decimal.NewFromInt(1000)

	assert.True(t, h.CostBasis().Equal(decimal.NewFromInt(2500)))
}

func TestPortfolio_Validate(t *testing.T) {
	p := Portfolio{ID: uuid.New(), Name: "Retirement", CreatedAt: time.Now()}
	assert.NoError(t, p.Validate())

	p.Name = ""
	err := p.Validate()
	assert.Error(t, err)
	assert.Equal(t, "portfolio name cannot be empty", err.Error())
}
