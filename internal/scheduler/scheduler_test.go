package scheduler

import (
	"errors"
	"testing"

	"github.com/edunaija/teachershub/internal/collector"
	"github.com/edunaija/teachershub/internal/processor"
)

type stubFetcher struct {
	items   []collector.Candidate
	err     error
	started chan struct{} // closed-on-start signal, optional
	release chan struct{} // blocks Fetch until closed, optional
	calls   int
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch() ([]collector.Candidate, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.release != nil {
		<-f.release
	}
	return f.items, f.err
}

// memWriter dedupes by source URL like the real store.
type memWriter struct {
	byURL map[string]processor.Article
	err   error
}

func newMemWriter() *memWriter {
	return &memWriter{byURL: make(map[string]processor.Article)}
}

func (w *memWriter) InsertArticles(articles []processor.Article) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	inserted := 0
	for _, a := range articles {
		if _, ok := w.byURL[a.SourceURL]; ok {
			continue
		}
		w.byURL[a.SourceURL] = a
		inserted++
	}
	return inserted, nil
}

var feedItems = []collector.Candidate{
	{Title: "New Exam Policy for WAEC Students", Link: "https://x/1"},
	{Title: "Football Scores Update From Weekend", Link: "https://x/2"},
}

func newTestScheduler(t *testing.T, f collector.Fetcher, w ArticleWriter) *Scheduler {
	t.Helper()
	s, err := New("0 * * * *", f, processor.NewEducationProcessor(), w, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCycleFiltersAndInserts(t *testing.T) {
	w := newMemWriter()
	s := newTestScheduler(t, &stubFetcher{items: feedItems}, w)

	report, err := s.TriggerNow()
	if err != nil {
		t.Fatalf("TriggerNow: %v", err)
	}
	if report.Fetched != 2 || report.Kept != 1 || report.Inserted != 1 || report.Duplicates != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, ok := w.byURL["https://x/1"]; !ok {
		t.Fatalf("education article not stored")
	}
	if _, ok := w.byURL["https://x/2"]; ok {
		t.Fatalf("football article should have been filtered out")
	}
}

func TestSecondCycleOnUnchangedFeedInsertsNothing(t *testing.T) {
	w := newMemWriter()
	s := newTestScheduler(t, &stubFetcher{items: feedItems}, w)

	if _, err := s.TriggerNow(); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	report, err := s.TriggerNow()
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if report.Inserted != 0 {
		t.Fatalf("second run should be idempotent, inserted %d", report.Inserted)
	}
	if report.Duplicates != 1 {
		t.Fatalf("duplicate not counted: %+v", report)
	}
	if len(w.byURL) != 1 {
		t.Fatalf("store grew on unchanged feed: %d articles", len(w.byURL))
	}
}

func TestFetchFailureLeavesStoreUntouched(t *testing.T) {
	w := newMemWriter()
	s := newTestScheduler(t, &stubFetcher{err: collector.ErrNetwork}, w)

	report, err := s.TriggerNow()
	if !errors.Is(err, collector.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if report.Error == "" {
		t.Fatalf("report should carry the error")
	}
	if len(w.byURL) != 0 {
		t.Fatalf("store must be unchanged after fetch failure")
	}
}

func TestStoreFailureSurfacesToCaller(t *testing.T) {
	w := newMemWriter()
	w.err = errors.New("db down")
	s := newTestScheduler(t, &stubFetcher{items: feedItems}, w)

	_, err := s.TriggerNow()
	if err == nil || err.Error() != "db down" {
		t.Fatalf("store error not surfaced: %v", err)
	}
}

func TestOverlappingTriggerIsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := &stubFetcher{items: feedItems, started: started, release: release}
	s := newTestScheduler(t, f, newMemWriter())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.TriggerNow()
	}()

	<-started
	if _, err := s.TriggerNow(); !errors.Is(err, ErrCycleInProgress) {
		t.Fatalf("overlapping trigger should be rejected, got %v", err)
	}
	close(release)
	<-done

	// Once the first cycle finishes the guard is free again.
	if _, err := s.TriggerNow(); err != nil {
		t.Fatalf("trigger after completion: %v", err)
	}
	if f.calls != 2 {
		t.Fatalf("fetcher called %d times, want 2", f.calls)
	}
}

func TestScheduledRunSwallowsFailures(t *testing.T) {
	s := newTestScheduler(t, &stubFetcher{err: collector.ErrNetwork}, newMemWriter())
	// Must not panic and must release the guard.
	s.runScheduled()
	if _, err := s.TriggerNow(); !errors.Is(err, collector.ErrNetwork) {
		t.Fatalf("guard not released after scheduled failure: %v", err)
	}
}
