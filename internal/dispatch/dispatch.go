package dispatch

import (
	"context"
	"log/slog"

	"github.com/playtrackhq/playtrack/internal/model"
)

// Sink consumes domain signals emitted by a revalidation pass. Signals are
// delivered one at a time, in the order the revalidator produced them.
type Sink interface {
	Dispatch(ctx context.Context, signal model.Signal)
}

// LogSink writes every signal to the structured log. It stands in for the
// notification/activity-feed delivery pipeline.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

var _ Sink = (*LogSink)(nil)

// Dispatch logs the signal
func (s *LogSink) Dispatch(ctx context.Context, signal model.Signal) {
	s.logger.Info("domain signal",
		slog.String("signal", string(signal.Type)),
		slog.String("user_id", string(signal.UserID)),
		slog.String("subject_id", string(signal.SubjectID)),
		slog.String("badge_type", string(signal.BadgeType)),
		slog.Int("variant", signal.Variant),
		slog.Bool("hardcore", signal.Hardcore),
	)
}

// Fanout delivers each signal to every wrapped sink in order
type Fanout struct {
	sinks []Sink
}

// NewFanout creates a Fanout over the given sinks
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

var _ Sink = (*Fanout)(nil)

// Dispatch forwards the signal to all sinks
func (f *Fanout) Dispatch(ctx context.Context, signal model.Signal) {
	for _, s := range f.sinks {
		s.Dispatch(ctx, signal)
	}
}

// Recorder captures dispatched signals for inspection in tests
type Recorder struct {
	Signals []model.Signal
}

// NewRecorder creates a Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

var _ Sink = (*Recorder)(nil)

// Dispatch appends the signal to the recorded list
func (r *Recorder) Dispatch(ctx context.Context, signal model.Signal) {
	r.Signals = append(r.Signals, signal)
}

// Reset clears the recorded signals
func (r *Recorder) Reset() {
	r.Signals = nil
}
