package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bytethoughts/internal/content"
	"bytethoughts/internal/domain"
	"bytethoughts/pkg/log"
)

const (
	// SiteName is appended to every page title.
	SiteName = "ByteThoughts"

	// NotFoundTitle is the title of the not-found page.
	NotFoundTitle = "Article Not Found"

	metaDescriptionLength = 160
)

// ArticleView is an article ready for the detail page.
type ArticleView struct {
	Article domain.Article

	// Body is the prepared HTML body. It comes from the source and is
	// rendered unescaped.
	Body string

	MetaTitle       string
	MetaDescription string
	// OGImage is the cover image, empty when the article has none.
	OGImage string
}

// GetArticle loads one article for the detail page.
type GetArticle struct {
	source ArticleSource
}

func NewGetArticle(source ArticleSource) *GetArticle {
	return &GetArticle{source: source}
}

// Execute parses rawID and fetches the article.
//
// Errors:
//   - domain.ErrInvalidArticleID if rawID is not a positive integer
//   - domain.ErrArticleNotFound if the source has no such article
//   - any other source error otherwise
func (uc *GetArticle) Execute(ctx context.Context, rawID string) (*ArticleView, error) {
	id, err := ParseArticleID(rawID)
	if err != nil {
		return nil, err
	}

	article, err := uc.source.ArticleByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrArticleNotFound) {
			log.GlobalErrorCtx(ctx, "article fetch failed", "id", id, "error", err)
		}
		return nil, err
	}

	return NewArticleView(*article), nil
}

// NewArticleView prepares the body and page metadata of an article.
func NewArticleView(a domain.Article) *ArticleView {
	description := strings.TrimSpace(a.Description)
	if description == "" {
		description = content.Excerpt(a.BodyHTML, metaDescriptionLength)
	}

	return &ArticleView{
		Article:         a,
		Body:            content.PrepareBody(a.BodyHTML),
		MetaTitle:       PageTitle(a.Title),
		MetaDescription: description,
		OGImage:         a.CoverImage,
	}
}

// PageTitle returns "<title> | ByteThoughts", or the bare site name.
func PageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return SiteName
	}
	return title + " | " + SiteName
}

// ParseArticleID accepts decimal positive integers only.
func ParseArticleID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidArticleID, raw)
	}
	return id, nil
}
