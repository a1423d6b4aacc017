package monitoring

import (
	"fmt"
	"log"
	"time"
)

type Monitor struct {
	lastRunSuccess bool
	lastRunTime    time.Time
	lastSummary    string
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.lastSummary = summary

	log.Printf("✅ Run completed successfully - %s (took %v)", summary, duration)
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	// Partial failures (e.g. degraded publishing) don't flip health status
	log.Printf("⚠️  PARTIAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()

	log.Printf("🚨 CRITICAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) IsHealthy() bool {
	if m.lastRunTime.IsZero() {
		return true // No runs yet, assume healthy
	}

	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}

	if m.lastRunSuccess {
		return fmt.Sprintf("✅ Last run: %s (%s)", m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
	}
	return fmt.Sprintf("❌ Last run failed: %s", m.lastRunTime.Format("Jan 2 15:04"))
}
