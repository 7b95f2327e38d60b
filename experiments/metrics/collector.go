package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Mode         string
	Workers      int
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
	Cutoff       int
}

type MoveMetric struct {
	Step   int
	Player string
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "none" on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers search statistics. Implementations must be safe for
// concurrent use by search workers.
type Collector interface {
	Start(mode string, workers, cutoff int)
	AddFullPlayout()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	mode         string
	workers      int
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(mode string, workers, cutoff int) {
	m.startTime = time.Now()
	m.mode = mode
	m.workers = workers
	m.cutoff = cutoff
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Mode:         m.mode,
		Workers:      m.workers,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Cutoff:       m.cutoff,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(mode string, workers, cutoff int) {}
func (m *dummyCollector) AddFullPlayout()                        {}
func (m *dummyCollector) AddEpisode()                            {}
func (m *dummyCollector) Complete() SearchMetric                 { return SearchMetric{} }
