package usecases_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"bytethoughts/internal/domain"
)

// fakeSource is an in-memory article source. Pages are generated on demand
// unless an error or a gate is configured.
type fakeSource struct {
	mu    sync.Mutex
	err   error
	pages map[int][]domain.Article
	gates map[int]chan struct{}
	calls []call

	top      domain.Batch
	trending domain.Batch
	byID     map[int64]domain.Article
	byIDErr  error
}

type call struct {
	op      string
	page    int
	perPage int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages: map[int][]domain.Article{},
		gates: map[int]chan struct{}{},
		byID:  map[int64]domain.Article{},

		top:      domain.NewBatch(nil),
		trending: domain.NewBatch(nil),
	}
}

// gate makes fetches of page block until the returned func is called.
func (f *fakeSource) gate(page int) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[page] = ch
	f.mu.Unlock()
	return func() { close(ch) }
}

func (f *fakeSource) Articles(ctx context.Context, page, perPage int) domain.Batch {
	f.mu.Lock()
	f.calls = append(f.calls, call{op: "articles", page: page, perPage: perPage})
	gate := f.gates[page]
	err := f.err
	articles, ok := f.pages[page]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return domain.FailedBatch(err)
	}
	if !ok {
		articles = generatePage(page, perPage)
	}
	return domain.NewBatch(articles)
}

func (f *fakeSource) TopArticles(_ context.Context, n int) domain.Batch {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "top", perPage: n})
	return f.top
}

func (f *fakeSource) TrendingArticles(_ context.Context, n int) domain.Batch {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "trending", perPage: n})
	return f.trending
}

func (f *fakeSource) ArticleByID(_ context.Context, id int64) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "byID", page: int(id)})
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get article %d: %w", id, domain.ErrArticleNotFound)
	}
	return &a, nil
}

func (f *fakeSource) callsFor(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// generatePage returns perPage articles for page. Every third one is tagged
// react, the rest go.
func generatePage(page, perPage int) []domain.Article {
	out := make([]domain.Article, 0, perPage)
	for i := 0; i < perPage; i++ {
		id := int64((page-1)*perPage + i + 1)
		tag := "go"
		if i%3 == 0 {
			tag = "react"
		}
		out = append(out, domain.Article{
			ID:          id,
			Title:       fmt.Sprintf("Article %d", id),
			Description: "page " + fmt.Sprint(page),
			Tags:        domain.TagList{tag},
		})
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
