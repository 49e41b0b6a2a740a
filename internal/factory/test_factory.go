package factory

import (
	"time"

	"github.com/spf13/afero"

	"github.com/mcoot/betsim/internal/dependencies/mocks"
	"github.com/mcoot/betsim/internal/storage/memory"
	"github.com/mcoot/betsim/internal/testutil"
)

// TestReportsDir is where a TestApp exports reports
const TestReportsDir = "/reports"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockRandom  *mocks.MockRandom
	MemoryStore *memory.Storage
	Fs          afero.Fs
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	fsys := afero.NewMemMapFs()

	app := newWithDependencies(store, mockClock, mockRandom, fsys, TestReportsDir, testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		MemoryStore: store,
		Fs:          fsys,
	}
}
