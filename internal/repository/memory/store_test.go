package memory_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/maxviazov/settings-service/internal/model"
	"github.com/maxviazov/settings-service/internal/repository"
	"github.com/maxviazov/settings-service/internal/repository/contract"
	"github.com/maxviazov/settings-service/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepositoryContract(t *testing.T) {
	contract.RunSettingsRepositoryContract(t, func(t *testing.T, clock *contract.Clock) (repository.SettingsRepository, func()) {
		return memory.New(memory.WithClock(clock.Now)), func() {}
	})
}

func TestPingerContract(t *testing.T) {
	contract.RunPingerContract(t, func(t *testing.T) (repository.Pinger, func()) {
		return memory.New(), func() {}
	})
}

func TestReturnedPayloadIsACopy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	created, err := store.Create(ctx, model.NewSettings(json.RawMessage(`{"a":1}`)))
	require.NoError(t, err)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	got.Data[1] = 'X'

	again, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(again.Data))
}

func TestCancelledContextIsStorageFailure(t *testing.T) {
	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrStorage)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, uuid.New()), repository.ErrStorage)
}

func TestConcurrentAccess(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := store.Create(ctx, model.NewSettings(json.RawMessage(fmt.Sprintf(`{"i":%d}`, i))))
			if !assert.NoError(t, err) {
				return
			}
			_, err = store.Update(ctx, s.ID, model.Settings{Data: json.RawMessage(`{"i":-1}`)})
			assert.NoError(t, err)
			_, err = store.List(ctx, repository.Page{Limit: 5})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	res, err := store.List(ctx, repository.Page{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Total)
}
