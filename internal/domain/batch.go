package domain

// BatchState says what a fetch produced.
type BatchState int

const (
	// Loaded means at least one article was returned.
	Loaded BatchState = iota
	// Empty means the request succeeded with no articles.
	Empty
	// Failed means the request failed; Batch.Err holds the reason.
	Failed
)

func (s BatchState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Batch is the result of a list fetch. Articles is never nil, so a caller that
// ignores Err sees a failure as an empty sequence. Callers that care can tell
// "no data" apart from "fetch failed" through State.
type Batch struct {
	Articles []Article
	Err      error
}

// NewBatch wraps a successful fetch.
func NewBatch(articles []Article) Batch {
	if articles == nil {
		articles = []Article{}
	}
	return Batch{Articles: articles}
}

// FailedBatch wraps a failed fetch.
func FailedBatch(err error) Batch {
	return Batch{Articles: []Article{}, Err: err}
}

// State classifies the batch.
func (b Batch) State() BatchState {
	switch {
	case b.Err != nil:
		return Failed
	case len(b.Articles) == 0:
		return Empty
	default:
		return Loaded
	}
}

// Filter returns a batch holding only the articles that match term. The
// error, if any, is kept.
func (b Batch) Filter(term string) Batch {
	return Batch{Articles: FilterArticles(b.Articles, term), Err: b.Err}
}
