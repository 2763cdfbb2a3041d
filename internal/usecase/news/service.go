package news

import (
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/finboard/finboard-backend/internal/domain"
)

// Service serves the market news feed. Articles come from a curated
// stand-in set pending a real news upstream; Refresh re-derives their
// timestamps so the feed reads as current.
type Service struct {
	log zerolog.Logger

	mu       sync.RWMutex
	articles []domain.NewsArticle
}

// NewService creates a news Service with the feed already populated
func NewService(log zerolog.Logger) *Service {
	s := &Service{log: log.With().Str("component", "news").Logger()}
	s.Refresh()
	return s
}

// List returns the articles of one category, newest first.
// An empty category or "all" returns the whole feed.
func (s *Service) List(category domain.NewsCategory) []domain.NewsArticle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.NewsArticle, 0, len(s.articles))
	for _, article := range s.articles {
		if category == "" || category == "all" || article.Category == category {
			out = append(out, article)
		}
	}
	return out
}

// Categories returns the distinct categories present in the feed, in feed order
func (s *Service) Categories() []domain.NewsCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[domain.NewsCategory]bool)
	out := make([]domain.NewsCategory, 0)
	for _, article := range s.articles {
		if !seen[article.Category] {
			seen[article.Category] = true
			out = append(out, article.Category)
		}
	}
	return out
}

// Refresh rebuilds the feed relative to the current time
func (s *Service) Refresh() {
	now := time.Now()
	articles := curatedArticles(now)

	s.mu.Lock()
	s.articles = articles
	s.mu.Unlock()

	s.log.Debug().Int("articles", len(articles)).Msg("news feed refreshed")
}

// curatedArticles is the stand-in feed. Each article is offset one hour
// further into the past so the feed has a plausible timeline.
func curatedArticles(now time.Time) []domain.NewsArticle {
	entries := []struct {
		title       string
		description string
		source      string
		category    domain.NewsCategory
	}{
		{
			title:       "Bitcoin Surges Past $50,000 as Institutional Investment Grows",
			description: "Major financial institutions are increasing their cryptocurrency holdings, driving Bitcoin to new highs. Analysts predict continued growth as adoption accelerates.",
			source:      "Crypto Times",
			category:    domain.NewsCategoryCrypto,
		},
		{
			title:       "Tech Stocks Rally on Strong Earnings Reports",
			description: "Major technology companies exceeded quarterly expectations, leading to a broad market rally. The Nasdaq composite reached a new all-time high.",
			source:      "Market Watch",
			category:    domain.NewsCategoryStocks,
		},
		{
			title:       "Federal Reserve Maintains Interest Rates, Signals Patience",
			description: "The Federal Reserve announced it will maintain current interest rates while monitoring economic indicators. Markets responded positively to the measured approach.",
			source:      "Financial News",
			category:    domain.NewsCategoryEconomy,
		},
		{
			title:       "Ethereum 2.0 Upgrade Shows Promising Performance Metrics",
			description: "The recent Ethereum network upgrade has significantly reduced transaction fees and improved processing speeds, attracting new developers to the platform.",
			source:      "Blockchain Daily",
			category:    domain.NewsCategoryCrypto,
		},
		{
			title:       "Gold Prices Rise Amid Market Uncertainty",
			description: "Investors are turning to traditional safe-haven assets as global economic uncertainty increases. Gold futures reached their highest level in six months.",
			source:      "Commodity Report",
			category:    domain.NewsCategoryCommodities,
		},
		{
			title:       "AI Stocks Lead Market Gains as Technology Sector Expands",
			description: "Companies focused on artificial intelligence saw significant gains today. The sector continues to attract both institutional and retail investors.",
			source:      "Tech Investor",
			category:    domain.NewsCategoryStocks,
		},
		{
			title:       "Decentralized Finance (DeFi) Protocols See Record Trading Volume",
			description: "DeFi platforms reported unprecedented trading volumes this week, signaling growing mainstream adoption of decentralized financial services.",
			source:      "DeFi News",
			category:    domain.NewsCategoryCrypto,
		},
		{
			title:       "Energy Sector Rebounds on Global Demand Increase",
			description: "Oil and gas companies posted strong quarterly results as global energy demand continues to recover. Analysts remain optimistic about the sector.",
			source:      "Energy Today",
			category:    domain.NewsCategoryEnergy,
		},
		{
			title:       "Emerging Markets ETFs Attract Record Investment Flows",
			description: "Investors are diversifying into emerging market exchange-traded funds, seeking growth opportunities beyond developed economies.",
			source:      "Global Investor",
			category:    domain.NewsCategoryStocks,
		},
		{
			title:       "NFT Market Shows Signs of Maturation with Quality Focus",
			description: "The non-fungible token market is evolving beyond speculation, with collectors focusing on high-quality digital art and utility-driven projects.",
			source:      "Digital Assets Weekly",
			category:    domain.NewsCategoryCrypto,
		},
	}

	articles := make([]domain.NewsArticle, 0, len(entries))
	for i, entry := range entries {
		articles = append(articles, domain.NewsArticle{
			ID:          strconv.Itoa(i + 1),
			Title:       entry.title,
			Description: entry.description,
			URL:         "#",
			Source:      entry.source,
			PublishedAt: now.Add(-time.Duration(i+1) * time.Hour),
			Category:    entry.category,
		})
	}
	return articles
}
