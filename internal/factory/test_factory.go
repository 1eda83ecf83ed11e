package factory

import (
	"time"

	"github.com/playtrackhq/playtrack/internal/dependencies/mocks"
	"github.com/playtrackhq/playtrack/internal/dispatch"
	"github.com/playtrackhq/playtrack/internal/storage/memory"
	"github.com/playtrackhq/playtrack/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Signals   *dispatch.Recorder
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	recorder := dispatch.NewRecorder()

	app := newWithDependencies(store, mockClock, recorder, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		Signals:   recorder,
	}
}
