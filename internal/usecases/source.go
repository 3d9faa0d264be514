// Package usecases holds the page-level operations of the front-end: the
// listing controller, the home page join and the article detail lookup.
package usecases

import (
	"context"

	"bytethoughts/internal/domain"
)

// ListingSource fetches pages of recent articles.
type ListingSource interface {
	Articles(ctx context.Context, page, perPage int) domain.Batch
}

// HomeSource provides the three home page sections.
type HomeSource interface {
	ListingSource
	TopArticles(ctx context.Context, n int) domain.Batch
	TrendingArticles(ctx context.Context, n int) domain.Batch
}

// ArticleSource fetches a single article by id.
type ArticleSource interface {
	ArticleByID(ctx context.Context, id int64) (*domain.Article, error)
}
