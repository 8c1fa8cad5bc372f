package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(i int, created time.Time) *model.HistoryEntry {
	return &model.HistoryEntry{
		ID:            fmt.Sprintf("pred-%03d", i),
		RecordHash:    fmt.Sprintf("hash-%d", i),
		Vehicle:       fmt.Sprintf("VH-%04d", i),
		Category:      "brake_system",
		Confidence:    0.82,
		Method:        model.MethodML,
		Quality:       model.QualityHigh,
		ModelType:     "LogisticRegression",
		ModelChecksum: "abc123",
		FeatureCount:  22,
		FallbackCount: i % 3,
		CreatedAt:     created,
	}
}

func TestSavePrediction_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	want := makeEntry(1, created)
	want.FromCache = true
	require.NoError(t, store.SavePrediction(ctx, want))

	got, err := store.RecentPredictions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want.ID, got[0].ID)
	assert.Equal(t, want.Vehicle, got[0].Vehicle)
	assert.Equal(t, want.Category, got[0].Category)
	assert.InDelta(t, want.Confidence, got[0].Confidence, 1e-9)
	assert.Equal(t, want.Method, got[0].Method)
	assert.Equal(t, want.Quality, got[0].Quality)
	assert.Equal(t, want.ModelChecksum, got[0].ModelChecksum)
	assert.Equal(t, want.FeatureCount, got[0].FeatureCount)
	assert.True(t, got[0].FromCache)
	assert.True(t, created.Equal(got[0].CreatedAt), "created_at %v, want %v", got[0].CreatedAt, created)
}

func TestRecentPredictions_NewestFirstAndLimited(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SavePrediction(ctx, makeEntry(i, base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := store.RecentPredictions(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "pred-004", got[0].ID)
	assert.Equal(t, "pred-003", got[1].ID)
	assert.Equal(t, "pred-002", got[2].ID)

	all, err := store.RecentPredictions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSavePrediction_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		entry   *model.HistoryEntry
		wantErr error
		name    string
	}{
		{
			name:    "nil entry",
			entry:   nil,
			wantErr: ErrNilParameter,
		},
		{
			name: "missing id",
			entry: func() *model.HistoryEntry {
				e := makeEntry(1, now)
				e.ID = ""
				return e
			}(),
			wantErr: ErrInvalidPrediction,
		},
		{
			name: "missing category",
			entry: func() *model.HistoryEntry {
				e := makeEntry(1, now)
				e.Category = ""
				return e
			}(),
			wantErr: ErrInvalidPrediction,
		},
		{
			name: "confidence above one",
			entry: func() *model.HistoryEntry {
				e := makeEntry(1, now)
				e.Confidence = 1.5
				return e
			}(),
			wantErr: ErrInvalidPrediction,
		},
		{
			name:    "zero creation time",
			entry:   makeEntry(1, time.Time{}),
			wantErr: ErrInvalidPrediction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SavePrediction(ctx, tt.entry)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
