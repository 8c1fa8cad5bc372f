package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/vms-predict/internal/common"
	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/Veraticus/vms-predict/internal/predictor"
	"github.com/Veraticus/vms-predict/internal/record"
	"github.com/Veraticus/vms-predict/internal/rules"
	"github.com/Veraticus/vms-predict/internal/storage"
	"github.com/Veraticus/vms-predict/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRecorder captures metric observations.
type mockRecorder struct {
	stages      map[string]int
	predictions []string
	failures    []string
	mu          sync.Mutex
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{stages: make(map[string]int)}
}

func (m *mockRecorder) ObserveStage(stage, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[stage+"/"+status]++
}

func (m *mockRecorder) ObservePrediction(method string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions = append(m.predictions, method)
}

func (m *mockRecorder) ObserveFailure(method, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, method+"/"+kind)
}

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.LoadOptions = testutil.LoadOptions
	return cfg
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

// steppingClock advances one minute on every call.
func steppingClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

func TestEngine_Predict(t *testing.T) {
	modelPath := testutil.WriteArtifact(t, testutil.BrakeBundle())
	rec := newMockRecorder()
	e := New(testConfig(), WithRecorder(rec), WithLogger(common.Discard()), WithClock(fixedClock()))

	p, err := e.Predict(context.Background(), testutil.BrakeRecord(), modelPath)
	require.NoError(t, err)

	assert.Equal(t, testutil.ClassBrake, p.Category)
	assert.Equal(t, model.MethodML, p.Method)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "2024-05-01T12:00:00Z", p.Timestamp)
	assert.Equal(t, []string{string(model.MethodML)}, rec.predictions)
	assert.Equal(t, 1, rec.stages[model.StageText+"/applied"])
	assert.Empty(t, rec.failures)
}

func TestEngine_ArtifactLoadedOnce(t *testing.T) {
	modelPath := testutil.WriteArtifact(t, testutil.BrakeBundle())
	e := New(testConfig(), WithLogger(common.Discard()))

	first, err := e.Artifact(modelPath)
	require.NoError(t, err)
	second, err := e.Artifact(modelPath)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestEngine_ArtifactError(t *testing.T) {
	rec := newMockRecorder()
	e := New(testConfig(), WithRecorder(rec), WithLogger(common.Discard()))

	_, err := e.Predict(context.Background(), testutil.BrakeRecord(), "/nonexistent/vms_model.bin")
	require.Error(t, err)
	assert.Equal(t, predictor.KindArtifact, predictor.KindOf(err))
	assert.Equal(t, "Could not load model: Model file does not exist: /nonexistent/vms_model.bin", err.Error())
	assert.Equal(t, []string{"ml_prediction/artifact"}, rec.failures)
}

func TestEngine_FallbackRules(t *testing.T) {
	tests := []struct {
		name      string
		modelPath func(*testing.T) string
		raw       map[string]any
		minConf   float64
		wantML    string
	}{
		{
			name:      "artifact missing",
			modelPath: func(*testing.T) string { return "/nonexistent/vms_model.bin" },
			raw:       testutil.BrakeRecord(),
			wantML:    "Could not load model",
		},
		{
			name: "confidence below threshold",
			modelPath: func(t *testing.T) string {
				return testutil.WriteArtifact(t, testutil.BrakeBundle())
			},
			raw:     map[string]any{record.Description: "Brake check"},
			minConf: 0.99,
			wantML:  "below",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.FallbackRules = true
			if tt.minConf > 0 {
				cfg.MinConfidence = tt.minConf
			}
			e := New(cfg, WithLogger(common.Discard()))

			p, err := e.Predict(context.Background(), tt.raw, tt.modelPath(t))
			require.NoError(t, err)

			assert.Equal(t, model.MethodRules, p.Method)
			assert.Equal(t, RulesModelType, p.ModelType)
			assert.Equal(t, rules.CategoryBrake, p.Category)
			assert.Contains(t, p.MLError, tt.wantML)
			require.NotNil(t, p.RiskScore)
			assert.GreaterOrEqual(t, p.Confidence, rules.MinConfidence)
			assert.LessOrEqual(t, p.Confidence, rules.MaxConfidence)
		})
	}
}

func TestEngine_NoFallbackWithoutFlag(t *testing.T) {
	modelPath := testutil.WriteArtifact(t, testutil.BrakeBundle())
	cfg := testConfig()
	cfg.MinConfidence = 0.99
	e := New(cfg, WithLogger(common.Discard()))

	p, err := e.Predict(context.Background(), map[string]any{record.Description: "Brake check"}, modelPath)
	require.NoError(t, err)
	assert.Equal(t, model.MethodML, p.Method)
}

func TestEngine_CacheAndHistory(t *testing.T) {
	modelPath := testutil.WriteArtifact(t, testutil.BrakeBundle())
	store := newTestStore(t)
	e := New(testConfig(), WithStore(store), WithLogger(common.Discard()), WithClock(fixedClock()))
	ctx := context.Background()

	first, err := e.Predict(ctx, testutil.BrakeRecord(), modelPath)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := e.Predict(ctx, testutil.BrakeRecord(), modelPath)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Category, second.Category)
	assert.InDelta(t, first.Confidence, second.Confidence, 1e-9)
	assert.NotEqual(t, first.ID, second.ID)

	history, err := store.RecentPredictions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, h := range history {
		assert.Equal(t, "VH-0042", h.Vehicle)
		assert.Equal(t, testutil.ClassBrake, h.Category)
		assert.NotEmpty(t, h.ModelChecksum)
	}
}

func TestEngine_FallbackRulesAppliedToCachedResults(t *testing.T) {
	modelPath := testutil.WriteArtifact(t, testutil.LegacyBundle())
	store := newTestStore(t)
	cfg := testConfig()
	cfg.FallbackRules = true
	cfg.MinConfidence = 0.9
	e := New(cfg, WithStore(store), WithLogger(common.Discard()), WithClock(steppingClock()))
	ctx := context.Background()

	first, err := e.Predict(ctx, testutil.BrakeRecord(), modelPath)
	require.NoError(t, err)
	second, err := e.Predict(ctx, testutil.BrakeRecord(), modelPath)
	require.NoError(t, err)

	for _, p := range []*model.Prediction{first, second} {
		assert.Equal(t, model.MethodRules, p.Method)
		assert.Contains(t, p.MLError, "below")
	}
	assert.Equal(t, first.Category, second.Category)
	assert.InDelta(t, first.Confidence, second.Confidence, 1e-9)
}

func TestEngine_CachedResultTimestamp(t *testing.T) {
	modelPath := testutil.WriteArtifact(t, testutil.BrakeBundle())
	store := newTestStore(t)
	clock := steppingClock()
	e := New(testConfig(), WithStore(store), WithLogger(common.Discard()), WithClock(clock))
	ctx := context.Background()

	first, err := e.Predict(ctx, testutil.BrakeRecord(), modelPath)
	require.NoError(t, err)
	second, err := e.Predict(ctx, testutil.BrakeRecord(), modelPath)
	require.NoError(t, err)

	require.True(t, second.FromCache)
	assert.NotEqual(t, first.Timestamp, second.Timestamp)
	ts, err := time.Parse(time.RFC3339Nano, second.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.Before(clock()))
}

func TestEngine_CacheDisabled(t *testing.T) {
	modelPath := testutil.WriteArtifact(t, testutil.BrakeBundle())
	store := newTestStore(t)
	cfg := testConfig()
	cfg.CacheTTL = 0
	e := New(cfg, WithStore(store), WithLogger(common.Discard()))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := e.Predict(ctx, testutil.BrakeRecord(), modelPath)
		require.NoError(t, err)
		assert.False(t, p.FromCache)
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	e := New(testConfig(), WithLogger(common.Discard()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Predict(ctx, testutil.BrakeRecord(), "unused")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHashRecord_OrderIndependent(t *testing.T) {
	a := map[string]any{"Odometer": 1, "Priority": 2}
	b := map[string]any{"Priority": 2, "Odometer": 1}
	assert.Equal(t, hashRecord(a), hashRecord(b))
	assert.NotEqual(t, hashRecord(a), hashRecord(map[string]any{"Odometer": 2, "Priority": 2}))
}
