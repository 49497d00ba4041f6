package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/rgain-analyzer/internal/database"
	"github.com/killallgit/rgain-analyzer/internal/models"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

// MockAnalyzer is a mock implementation of GainAnalyzer
type MockAnalyzer struct {
	mock.Mock
	locator *replaygain.Locator
}

func newMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{locator: replaygain.NewLocator(replaygain.DefaultExecutable)}
}

func (m *MockAnalyzer) Run(ctx context.Context, req replaygain.Request) (replaygain.Metadata, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(replaygain.Metadata), args.Error(1)
}

func (m *MockAnalyzer) Profile() replaygain.Profile {
	return replaygain.DefaultProfile()
}

func (m *MockAnalyzer) Locator() *replaygain.Locator {
	return m.locator
}

// MockRepository is a mock implementation of AnalysisRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) GetByUUID(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisRecord), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, opts ListOptions) ([]models.AnalysisRecord, int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]models.AnalysisRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) DeleteByUUID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func setupTestRepository(t *testing.T) AnalysisRepository {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewRepository(db.DB)
}

// fixedClock advances by step on every call
func fixedClock(step time.Duration) func() time.Time {
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()
	const file = "/music/44100Hz-16bit-stereo.mp3"

	tests := []struct {
		name       string
		runResult  replaygain.Metadata
		runErr     error
		wantStatus models.AnalysisStatus
		wantGain   *float64
		wantExit   *int
		wantDiag   string
	}{
		{
			name:       "success records gain",
			runResult:  replaygain.Metadata{"title": "Signal", replaygain.KeyReplayGain: 5.02},
			wantStatus: models.AnalysisStatusSucceeded,
			wantGain:   func() *float64 { g := 5.02; return &g }(),
		},
		{
			name:       "tool not found",
			runResult:  replaygain.Metadata{"title": "Signal"},
			runErr:     &replaygain.ToolNotFoundError{Executable: "foosdaf", Err: errors.New("not found")},
			wantStatus: models.AnalysisStatusToolNotFound,
		},
		{
			name:       "tool failed keeps stderr",
			runResult:  replaygain.Metadata{"title": "Signal"},
			runErr:     &replaygain.ToolExecutionError{File: file, ExitCode: 1, Stderr: "could not decode"},
			wantStatus: models.AnalysisStatusToolFailed,
			wantExit:   func() *int { c := 1; return &c }(),
			wantDiag:   "could not decode",
		},
		{
			name:       "parse failure keeps raw output",
			runResult:  replaygain.Metadata{"title": "Signal"},
			runErr:     &replaygain.ParseError{File: file, RawOutput: "garbage", Err: replaygain.ErrNoReportMatched},
			wantStatus: models.AnalysisStatusParseFailed,
			wantDiag:   "garbage",
		},
		{
			name:       "timeout",
			runResult:  replaygain.Metadata{"title": "Signal"},
			runErr:     &replaygain.TimeoutError{File: file, Timeout: time.Second},
			wantStatus: models.AnalysisStatusTimedOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := newMockAnalyzer()
			repo := setupTestRepository(t)
			svc := NewService(analyzer, WithRepository(repo), WithClock(fixedClock(250*time.Millisecond)))

			req := replaygain.Request{FilePath: file, Metadata: replaygain.Metadata{"title": "Signal"}}
			analyzer.On("Run", ctx, req).Return(tt.runResult, tt.runErr)

			result, err := svc.Analyze(ctx, req)
			if tt.runErr != nil {
				assert.ErrorIs(t, err, tt.runErr)
			} else {
				require.NoError(t, err)
			}

			require.NotNil(t, result)
			assert.Equal(t, tt.runResult, result.Metadata)
			require.NotNil(t, result.Record)

			record := result.Record
			assert.Len(t, record.UUID, 36)
			assert.Equal(t, file, record.FilePath)
			assert.Equal(t, replaygain.ProfileRGain, record.Profile)
			assert.Equal(t, replaygain.DefaultExecutable, record.Executable)
			assert.Equal(t, tt.wantStatus, record.Status)
			assert.Equal(t, int64(250), record.DurationMS)
			assert.Equal(t, "Signal", record.Metadata["title"])

			if tt.wantGain != nil {
				require.NotNil(t, record.ReplayGain)
				assert.InDelta(t, *tt.wantGain, *record.ReplayGain, 1e-9)
			} else {
				assert.Nil(t, record.ReplayGain)
			}
			assert.Equal(t, tt.wantExit, record.ExitCode)
			if tt.wantDiag != "" {
				assert.Equal(t, tt.wantDiag, record.Diagnostic)
			}

			stored, err := svc.Get(ctx, record.UUID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)

			analyzer.AssertExpectations(t)
		})
	}
}

func TestService_AnalyzeNeverSkipsRun(t *testing.T) {
	ctx := context.Background()
	analyzer := newMockAnalyzer()
	svc := NewService(analyzer, WithRepository(setupTestRepository(t)))

	req := replaygain.Request{FilePath: "/music/a.mp3"}
	analyzer.On("Run", ctx, req).Return(replaygain.Metadata{replaygain.KeyReplayGain: 4.2}, nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := svc.Analyze(ctx, req)
		require.NoError(t, err)
	}

	analyzer.AssertNumberOfCalls(t, "Run", 2)

	records, total, err := svc.List(ctx, ListOptions{FilePath: "/music/a.mp3"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, records, 2)
}

func TestService_AnalyzeUsesRequestExecutable(t *testing.T) {
	ctx := context.Background()
	analyzer := newMockAnalyzer()
	repo := new(MockRepository)
	svc := NewService(analyzer, WithRepository(repo))

	req := replaygain.Request{FilePath: "/music/a.mp3", Executable: "/opt/rgain/replaygain"}
	analyzer.On("Run", ctx, req).Return(replaygain.Metadata{replaygain.KeyReplayGain: 1.0}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.AnalysisRecord")).
		Run(func(args mock.Arguments) {
			record := args.Get(1).(*models.AnalysisRecord)
			assert.Equal(t, "/opt/rgain/replaygain", record.Executable)
		}).
		Return(nil)

	_, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_AnalyzeRecordFailureDoesNotMaskResult(t *testing.T) {
	ctx := context.Background()
	analyzer := newMockAnalyzer()
	repo := new(MockRepository)
	svc := NewService(analyzer, WithRepository(repo))

	req := replaygain.Request{FilePath: "/music/a.mp3"}
	analyzer.On("Run", ctx, req).Return(replaygain.Metadata{replaygain.KeyReplayGain: 3.3}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	gain, ok := result.Metadata.ReplayGain()
	assert.True(t, ok)
	assert.InDelta(t, 3.3, gain, 1e-9)
	assert.Nil(t, result.Record)
}

func TestService_AnalyzeRecordsCancelledRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := newMockAnalyzer()
	repo := setupTestRepository(t)
	svc := NewService(analyzer, WithRepository(repo))

	req := replaygain.Request{FilePath: "/music/a.mp3"}
	analyzer.On("Run", ctx, req).Return(nil, context.Canceled)

	result, err := svc.Analyze(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result.Record)
	assert.Equal(t, models.AnalysisStatusCancelled, result.Record.Status)
}

func TestService_WithoutHistory(t *testing.T) {
	ctx := context.Background()
	analyzer := newMockAnalyzer()
	svc := NewService(analyzer)
	assert.False(t, svc.HistoryEnabled())

	req := replaygain.Request{FilePath: "/music/a.mp3"}
	analyzer.On("Run", ctx, req).Return(replaygain.Metadata{replaygain.KeyReplayGain: 2.0}, nil)

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, result.Record)

	_, err = svc.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, _, err = svc.List(ctx, ListOptions{})
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	assert.ErrorIs(t, svc.Delete(ctx, "x"), ErrHistoryDisabled)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises paging", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(newMockAnalyzer(), WithRepository(repo))

		repo.On("List", ctx, ListOptions{Limit: defaultListLimit}).Return([]models.AnalysisRecord{}, int64(0), nil).Once()
		repo.On("List", ctx, ListOptions{Limit: maxListLimit}).Return([]models.AnalysisRecord{}, int64(0), nil).Once()

		_, _, err := svc.List(ctx, ListOptions{Offset: -3})
		require.NoError(t, err)
		_, _, err = svc.List(ctx, ListOptions{Limit: 10000})
		require.NoError(t, err)

		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := NewService(newMockAnalyzer(), WithRepository(new(MockRepository)))
		_, _, err := svc.List(ctx, ListOptions{Status: "pending"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("filters by status against sqlite", func(t *testing.T) {
		analyzer := newMockAnalyzer()
		svc := NewService(analyzer, WithRepository(setupTestRepository(t)))

		ok := replaygain.Request{FilePath: "/music/ok.mp3"}
		bad := replaygain.Request{FilePath: "/music/bad.wma"}
		analyzer.On("Run", ctx, ok).Return(replaygain.Metadata{replaygain.KeyReplayGain: 5.0}, nil)
		analyzer.On("Run", ctx, bad).Return(nil, &replaygain.ToolExecutionError{File: bad.FilePath, ExitCode: 1})

		_, err := svc.Analyze(ctx, ok)
		require.NoError(t, err)
		_, err = svc.Analyze(ctx, bad)
		require.Error(t, err)

		records, total, err := svc.List(ctx, ListOptions{Status: models.AnalysisStatusToolFailed})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, records, 1)
		assert.Equal(t, "/music/bad.wma", records[0].FilePath)

		page, total, err := svc.List(ctx, ListOptions{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, page, 1)
	})
}

func TestService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	analyzer := newMockAnalyzer()
	svc := NewService(analyzer, WithRepository(setupTestRepository(t)))

	req := replaygain.Request{FilePath: "/music/a.mp3"}
	analyzer.On("Run", ctx, req).Return(replaygain.Metadata{replaygain.KeyReplayGain: 5.0}, nil)
	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	id := result.Record.UUID

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	require.NoError(t, svc.Delete(ctx, id))
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrAnalysisNotFound)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}
