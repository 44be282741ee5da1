package countrybed

import (
	"go.uber.org/zap"
)

// Reporter receives display events. It has no return values: a failing
// sink must never affect synchronization or lookups.
type Reporter interface {
	Message(msg string)
	Success(msg string)
	Error(msg string)
	Alert(msg string)
	Country(rec Record)
	Progress(current, total int, desc string)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) Message(string)            {}
func (NopReporter) Success(string)            {}
func (NopReporter) Error(string)              {}
func (NopReporter) Alert(string)              {}
func (NopReporter) Country(Record)            {}
func (NopReporter) Progress(int, int, string) {}

// LogReporter forwards events to a zap logger. Useful when output is
// not a terminal.
type LogReporter struct {
	Logger *zap.Logger
}

func (r LogReporter) Message(msg string) { r.Logger.Info(msg) }
func (r LogReporter) Success(msg string) { r.Logger.Info(msg, zap.Bool("success", true)) }
func (r LogReporter) Error(msg string)   { r.Logger.Error(msg) }
func (r LogReporter) Alert(msg string)   { r.Logger.Warn(msg) }

func (r LogReporter) Country(rec Record) {
	r.Logger.Info("country",
		zap.String("name", rec.Name),
		zap.String("capital", rec.Capital),
		zap.String("region", rec.Region),
		zap.String("population", rec.Population),
	)
}

func (r LogReporter) Progress(current, total int, desc string) {
	r.Logger.Debug(desc, zap.Int("current", current), zap.Int("total", total))
}
