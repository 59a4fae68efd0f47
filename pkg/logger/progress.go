package logger

import (
	"fmt"
	"time"
)

// ProgressReporter logs how far a sequential job has come
type ProgressReporter struct {
	total       int
	current     int
	description string
	startTime   time.Time
	logger      *Logger
}

func NewProgressReporter(total int, description string) *ProgressReporter {
	return &ProgressReporter{
		total:       total,
		description: description,
		startTime:   time.Now(),
		logger:      GetLogger().WithComponent("progress"),
	}
}

// Step advances the counter by one and logs the new position at debug
func (pr *ProgressReporter) Step(item string) {
	pr.current++
	pr.logger.WithFields(map[string]interface{}{
		"current": pr.current,
		"total":   pr.total,
		"item":    item,
	}).Debug(fmt.Sprintf("%s: %d/%d", pr.description, pr.current, pr.total))
}

// Complete logs the final count and elapsed time
func (pr *ProgressReporter) Complete() {
	pr.logger.WithFields(map[string]interface{}{
		"current": pr.current,
		"total":   pr.total,
		"elapsed": time.Since(pr.startTime).Round(time.Millisecond).String(),
	}).Info(fmt.Sprintf("%s completed", pr.description))
}

