package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListActiveBySubject(ctx context.Context, subject string) ([]models.Question, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Question, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

// memoryCache is a map-backed CacheService.
type memoryCache struct {
	data    map[string][]byte
	failGet error
	failSet error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.failSet != nil {
		return m.failSet
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	if m.failGet != nil {
		return m.failGet
	}
	b, ok := m.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
		}
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQuestionCache_ListActiveBySubject(t *testing.T) {
	ctx := context.Background()
	questions := []models.Question{{ID: 1, Subject: "Matematika", Type: models.SingleChoice, ScoringWeight: 1}}

	t.Run("miss then hit", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		repo.On("ListActiveBySubject", ctx, "Matematika").Return(questions, nil).Once()
		qc := NewQuestionCache(repo, newMemoryCache(), time.Minute, discardLogger())

		first, err := qc.ListActiveBySubject(ctx, "Matematika")
		require.NoError(t, err)
		second, err := qc.ListActiveBySubject(ctx, "Matematika")
		require.NoError(t, err)

		assert.Equal(t, first[0].ID, second[0].ID)
		repo.AssertExpectations(t)
	})

	t.Run("empty result is not cached", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		repo.On("ListActiveBySubject", ctx, "Kimia").Return([]models.Question{}, nil).Twice()
		qc := NewQuestionCache(repo, newMemoryCache(), time.Minute, discardLogger())

		for i := 0; i < 2; i++ {
			got, err := qc.ListActiveBySubject(ctx, "Kimia")
			require.NoError(t, err)
			assert.Empty(t, got)
		}
		repo.AssertExpectations(t)
	})

	t.Run("cache failure falls back to repository", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		repo.On("ListActiveBySubject", ctx, "Matematika").Return(questions, nil)
		mc := newMemoryCache()
		mc.failGet = errors.New("connection refused")
		mc.failSet = errors.New("connection refused")
		qc := NewQuestionCache(repo, mc, time.Minute, discardLogger())

		got, err := qc.ListActiveBySubject(ctx, "Matematika")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("repository error is returned", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		repo.On("ListActiveBySubject", ctx, "Matematika").Return([]models.Question(nil), errors.New("db down"))
		qc := NewQuestionCache(repo, newMemoryCache(), time.Minute, discardLogger())

		_, err := qc.ListActiveBySubject(ctx, "Matematika")
		assert.EqualError(t, err, "db down")
	})
}

func TestQuestionCache_CreateBatchInvalidates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	mc := newMemoryCache()
	mc.data[questionKeyPrefix+"Matematika"] = []byte(`[]`)
	mc.data["other"] = []byte(`1`)

	batch := []*models.Question{{Subject: "Matematika"}}
	repo.On("CreateBatch", ctx, batch).Return(nil)
	qc := NewQuestionCache(repo, mc, time.Minute, discardLogger())

	require.NoError(t, qc.CreateBatch(ctx, batch))
	assert.NotContains(t, mc.data, questionKeyPrefix+"Matematika")
	assert.Contains(t, mc.data, "other")
}
