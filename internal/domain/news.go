package domain

import "time"

// NewsCategory groups articles in the market news feed
type NewsCategory string

const (
	NewsCategoryCrypto      NewsCategory = "crypto"
	NewsCategoryStocks      NewsCategory = "stocks"
	NewsCategoryEconomy     NewsCategory = "economy"
	NewsCategoryCommodities NewsCategory = "commodities"
	NewsCategoryEnergy      NewsCategory = "energy"
)

// NewsArticle is a single entry in the market news feed
type NewsArticle struct {
	ID          string
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt time.Time
	Category    NewsCategory
}
