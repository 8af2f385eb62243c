package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/edunaija/teachershub/internal/collector"
	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/processor"
)

// ErrCycleInProgress is returned to a manual trigger that overlaps a
// running cycle. Scheduled runs that hit it are skipped silently.
var ErrCycleInProgress = errors.New("news collection cycle already running")

// ArticleWriter is the slice of the store the pipeline needs.
type ArticleWriter interface {
	InsertArticles(articles []processor.Article) (inserted int, err error)
}

// ImageResolver fills in a featured image for articles whose listing
// entry had none. Optional.
type ImageResolver interface {
	Resolve(articleURL string) string
}

// Report describes one completed (or aborted) cycle. The scheduled path
// logs it; the manual trigger returns it to the caller.
type Report struct {
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMS int64     `json:"durationMs"`
	Fetched    int       `json:"fetched"`
	Kept       int       `json:"kept"`
	Inserted   int       `json:"inserted"`
	Duplicates int       `json:"duplicates"`
	Error      string    `json:"error,omitempty"`
}

type Scheduler struct {
	cron    *cron.Cron
	fetcher collector.Fetcher
	proc    *processor.EducationProcessor
	store   ArticleWriter
	images  ImageResolver

	// Guards the whole cycle: scheduled and manual triggers must never
	// overlap or both could insert the same fresh URL.
	mu sync.Mutex
}

func New(spec string, f collector.Fetcher, p *processor.EducationProcessor, store ArticleWriter, images ImageResolver) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		fetcher: f,
		proc:    p,
		store:   store,
		images:  images,
	}

	if _, err := s.cron.AddFunc(spec, s.runScheduled); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// Delay the first cycle so startup traffic is not competing with the
	// scrape for the same process.
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() { go s.runScheduled() })
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// TriggerNow runs a single cycle on the caller's goroutine. It refuses to
// overlap a running cycle instead of racing it.
func (s *Scheduler) TriggerNow() (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer s.mu.Unlock()
	return s.runCycle()
}

// runScheduled is the cron entry point: failures are reported through the
// log and swallowed so the timer keeps going.
func (s *Scheduler) runScheduled() {
	if !s.mu.TryLock() {
		logger.Log.Warn("scheduled news cycle skipped, previous cycle still running")
		return
	}
	defer s.mu.Unlock()

	report, err := s.runCycle()
	entry := logger.Log.WithFields(logrus.Fields{
		"source":     report.Source,
		"fetched":    report.Fetched,
		"kept":       report.Kept,
		"inserted":   report.Inserted,
		"duplicates": report.Duplicates,
		"durationMs": report.DurationMS,
	})
	if err != nil {
		entry.WithField("error", report.Error).Error("news cycle failed")
		return
	}
	entry.Info("news cycle done")
}

func (s *Scheduler) runCycle() (*Report, error) {
	start := time.Now()
	report := &Report{Source: s.fetcher.Name(), StartedAt: start}
	defer func() { report.DurationMS = time.Since(start).Milliseconds() }()

	candidates, err := s.fetcher.Fetch()
	if err != nil {
		// Nothing was written; the next scheduled run is the retry.
		report.Error = err.Error()
		return report, err
	}
	report.Fetched = len(candidates)

	articles := s.proc.Process(candidates)
	report.Kept = len(articles)
	if len(articles) == 0 {
		return report, nil
	}

	if s.images != nil {
		for i := range articles {
			if articles[i].ImageURL == "" {
				articles[i].ImageURL = s.images.Resolve(articles[i].SourceURL)
			}
		}
	}

	inserted, err := s.store.InsertArticles(articles)
	report.Inserted = inserted
	report.Duplicates = report.Kept - inserted
	if err != nil {
		report.Duplicates = 0 // unknown past the failure point
		report.Error = err.Error()
		return report, err
	}
	return report, nil
}
