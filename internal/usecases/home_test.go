package usecases_test

import (
	"context"
	"errors"
	"testing"

	"bytethoughts/internal/domain"
	"bytethoughts/internal/usecases"
)

func TestGetHome_Execute_RequestsAllSections(t *testing.T) {
	// Arrange
	source := newFakeSource()
	source.top = domain.NewBatch([]domain.Article{{ID: 1}, {ID: 2}})
	source.trending = domain.NewBatch([]domain.Article{{ID: 3}})
	uc := usecases.NewGetHome(source, usecases.HomeCounts{})

	// Act
	page := uc.Execute(context.Background())

	// Assert
	if len(page.Top.Articles) != 2 || len(page.Trending.Articles) != 1 {
		t.Errorf("top=%d trending=%d", len(page.Top.Articles), len(page.Trending.Articles))
	}
	if len(page.Latest.Articles) != usecases.HomeLatestCount {
		t.Errorf("latest: got %d, want %d", len(page.Latest.Articles), usecases.HomeLatestCount)
	}

	if c := source.callsFor("top"); len(c) != 1 || c[0].perPage != usecases.HomeTopCount {
		t.Errorf("top calls: %+v", c)
	}
	if c := source.callsFor("trending"); len(c) != 1 || c[0].perPage != usecases.HomeTrendingCount {
		t.Errorf("trending calls: %+v", c)
	}
	if c := source.callsFor("articles"); len(c) != 1 || c[0].page != 1 || c[0].perPage != usecases.HomeLatestCount {
		t.Errorf("latest calls: %+v", c)
	}
}

func TestGetHome_Execute_SectionsFailIndependently(t *testing.T) {
	boom := errors.New("boom")
	source := newFakeSource()
	source.top = domain.FailedBatch(boom)
	source.trending = domain.NewBatch(nil)
	uc := usecases.NewGetHome(source, usecases.HomeCounts{Latest: 2})

	page := uc.Execute(context.Background())

	if page.Top.State() != domain.Failed || !errors.Is(page.Top.Err, boom) {
		t.Errorf("top: %v %v", page.Top.State(), page.Top.Err)
	}
	if page.Trending.State() != domain.Empty {
		t.Errorf("trending: got %v, want empty", page.Trending.State())
	}
	if page.Latest.State() != domain.Loaded || len(page.Latest.Articles) != 2 {
		t.Errorf("latest: %v, %d articles", page.Latest.State(), len(page.Latest.Articles))
	}
}

func TestGetHome_Execute_WaitsForSlowSection(t *testing.T) {
	source := newFakeSource()
	release := source.gate(1)
	uc := usecases.NewGetHome(source, usecases.HomeCounts{})

	done := make(chan usecases.HomePage)
	go func() { done <- uc.Execute(context.Background()) }()

	waitForCalls(t, source, 1)
	select {
	case <-done:
		t.Fatal("home page returned before the latest section resolved")
	default:
	}

	release()
	page := <-done
	if len(page.Latest.Articles) == 0 {
		t.Error("latest section should be present after the join")
	}
}
