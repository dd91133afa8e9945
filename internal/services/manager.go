// Package services orchestrates the analysis pipeline for the CLI and TUI.
package services

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/veskel/cityscan/internal/census"
	"github.com/veskel/cityscan/internal/config"
	"github.com/veskel/cityscan/internal/db"
	"github.com/veskel/cityscan/internal/kits"
	"github.com/veskel/cityscan/internal/logger"
	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/report"
	"github.com/veskel/cityscan/internal/snapshot"
)

type (
	// AnalysisUpdatedEvent is emitted after a snapshot has been processed.
	AnalysisUpdatedEvent struct {
		Analysis *models.Analysis
	}

	// HistoryUpdatedEvent is emitted when the run history changes.
	HistoryUpdatedEvent struct {
		Runs []models.RunRecord
	}

	// ErrorEvent is emitted when a pipeline stage fails.
	ErrorEvent struct {
		Stage string
		Error error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (AnalysisUpdatedEvent) isServiceEvent() {}
func (HistoryUpdatedEvent) isServiceEvent()  {}
func (ErrorEvent) isServiceEvent()           {}

// Manager runs the locate/parse/classify/report pipeline and routes events
// to subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	database    *db.DB
	watcher     *snapshot.Watcher
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	latest      *models.Analysis
	notify      bool
}

// NewManager creates a manager and opens the run history store.
func NewManager(cfg *config.Config) (*Manager, error) {
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Manager{
		cfg:      cfg,
		database: database,
		stopChan: make(chan struct{}),
	}, nil
}

// Config returns the manager's configuration.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database exposes the run history store for trend queries.
func (m *Manager) Database() *db.DB {
	return m.database
}

// LatestAnalysis returns the most recent analysis, or nil before the first
// run.
func (m *Manager) LatestAnalysis() *models.Analysis {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// History returns the most recent runs, newest first.
func (m *Manager) History(limit int) ([]models.RunRecord, error) {
	return m.database.GetRecentRuns(limit)
}

// Analyze locates the newest snapshot and runs classification and kit
// analysis for the given era, without writing any output files.
func (m *Manager) Analyze(eraName string) (*models.Analysis, error) {
	path, err := snapshot.Latest(m.cfg.InputDir)
	if err != nil {
		return nil, err
	}

	snap, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}

	analysis := &models.Analysis{
		SourceFile:  path,
		Era:         eraName,
		GeneratedAt: time.Now(),
		Census:      census.Aggregate(snap),
		Kits:        kits.Analyze(snap, eraName),
	}
	return analysis, nil
}

// Process runs the full pipeline: analyze the newest snapshot, write the
// census report, the kit reports and the workbook, and record the run.
func (m *Manager) Process(eraName string) (*models.Analysis, error) {
	analysis, err := m.Analyze(eraName)
	if err != nil {
		return nil, err
	}

	censusPath, err := report.WriteCensusReport(m.cfg.OutputDir, analysis.Census)
	if err != nil {
		return nil, err
	}
	analysis.OutputFiles = append(analysis.OutputFiles, censusPath)

	kitPaths, err := report.WriteKitReports(m.cfg.OutputDir, analysis.SourceFile, eraName, analysis.Kits)
	if err != nil {
		return nil, err
	}
	analysis.OutputFiles = append(analysis.OutputFiles, kitPaths...)

	workbookPath, err := report.WriteWorkbook(m.cfg.OutputDir, eraName, analysis.Kits)
	if err != nil {
		return nil, err
	}
	analysis.OutputFiles = append(analysis.OutputFiles, workbookPath)

	if err := m.recordRun(analysis); err != nil {
		logger.Error("failed to record run", "error", err)
	}

	m.mu.Lock()
	m.latest = analysis
	m.mu.Unlock()

	m.broadcast(AnalysisUpdatedEvent{Analysis: analysis})
	if runs, err := m.History(50); err == nil {
		m.broadcast(HistoryUpdatedEvent{Runs: runs})
	}

	return analysis, nil
}

// recordRun persists one processed snapshot to the run history store.
func (m *Manager) recordRun(analysis *models.Analysis) error {
	run := &models.RunRecord{
		CreatedAt:          analysis.GeneratedAt,
		SourceFile:         filepath.Base(analysis.SourceFile),
		Era:                analysis.Era,
		Total:              analysis.Census.Total,
		Classified:         analysis.Census.Classified,
		Unclassified:       analysis.Census.Unclassified,
		Skipped:            analysis.Census.Skipped,
		KitBuildings:       analysis.Kits.TotalBuildings(),
		ExpectedOneUp:      analysis.Kits.ExpectedFragments(models.OneUpKit),
		ExpectedRenovation: analysis.Kits.ExpectedFragments(models.RenovationKit),
	}
	return m.database.InsertRun(run, analysis.Census.SortedCategories())
}

// StartWatching processes every settled snapshot write in the input
// directory until Close is called. A desktop notification is sent for each
// processed snapshot.
func (m *Manager) StartWatching(eraName string) error {
	watcher, err := snapshot.NewWatcher(m.cfg.InputDir, m.cfg.WatchDebounce)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.watcher = watcher
	m.notify = true
	m.mu.Unlock()

	go m.watchLoop(eraName)
	return nil
}

func (m *Manager) watchLoop(eraName string) {
	for {
		select {
		case event := <-m.watcher.Events():
			switch event.Type {
			case snapshot.EventSnapshotWritten:
				m.handleSnapshot(eraName, event.Path)
			case snapshot.EventError:
				m.broadcast(ErrorEvent{Stage: "watch", Error: event.Err})
			}

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleSnapshot(eraName, path string) {
	logger.Info("processing snapshot", "file", filepath.Base(path))

	analysis, err := m.Process(eraName)
	if err != nil {
		m.broadcast(ErrorEvent{Stage: "process", Error: err})
		return
	}

	if m.notify {
		title := "cityscan"
		body := fmt.Sprintf("%s: %d entities, %d kit producers",
			filepath.Base(analysis.SourceFile),
			analysis.Census.Classified,
			analysis.Kits.TotalBuildings(),
		)
		_ = beeep.Notify(title, body, "")
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close stops watching and closes the run history store.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	watcher := m.watcher
	m.mu.Unlock()

	if watcher != nil {
		if err := watcher.Close(); err != nil {
			logger.Error("failed to close watcher", "error", err)
		}
	}

	return m.database.Close()
}
