package persistence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{
		Backend:        config.StoreBackendMemory,
		ConnectTimeout: 5 * time.Second,
	}
}

func TestSelector_Connect_Memory(t *testing.T) {
	selector := NewSelector(testStoreConfig(), zap.NewNop())

	store, err := selector.Connect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, config.StoreBackendMemory, store.Backend())
	assert.NoError(t, store.Ping(context.Background()))
	assert.True(t, selector.Connected())
}

func TestSelector_Connect_Idempotent(t *testing.T) {
	var dials int32
	dial := func(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
		atomic.AddInt32(&dials, 1)
		return NewMemoryStore(), nil
	}
	selector := NewSelectorWithDial(testStoreConfig(), zap.NewNop(), dial)

	first, err := selector.Connect(context.Background())
	require.NoError(t, err)
	second, err := selector.Connect(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second, "repeated Connect returns the same store")
	assert.Equal(t, int32(1), atomic.LoadInt32(&dials))
}

func TestSelector_Connect_ConcurrentCallersShareOneDial(t *testing.T) {
	var dials int32
	release := make(chan struct{})
	dial := func(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
		atomic.AddInt32(&dials, 1)
		<-release
		return NewMemoryStore(), nil
	}
	selector := NewSelectorWithDial(testStoreConfig(), zap.NewNop(), dial)

	const callers = 16
	stores := make([]Store, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i], errs[i] = selector.Connect(context.Background())
		}(i)
	}

	// Let every caller reach the shared attempt before the dial resolves
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&dials), "all callers share one dial")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, stores[0], stores[i])
	}
}

func TestSelector_Connect_FailureClearsAttempt(t *testing.T) {
	dialErr := errors.New("connection refused")
	var dials int32
	dial := func(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
		if atomic.AddInt32(&dials, 1) == 1 {
			return nil, dialErr
		}
		return NewMemoryStore(), nil
	}
	selector := NewSelectorWithDial(testStoreConfig(), zap.NewNop(), dial)

	_, err := selector.Connect(context.Background())
	assert.ErrorIs(t, err, dialErr)
	assert.False(t, selector.Connected())

	store, err := selector.Connect(context.Background())
	require.NoError(t, err, "a failed attempt must not poison later connects")
	assert.NotNil(t, store)
	assert.Equal(t, int32(2), atomic.LoadInt32(&dials))
}

func TestSelector_Connect_ContextCanceled(t *testing.T) {
	dial := func(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	selector := NewSelectorWithDial(testStoreConfig(), zap.NewNop(), dial)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := selector.Connect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelector_Disconnect(t *testing.T) {
	var dials int32
	dial := func(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
		atomic.AddInt32(&dials, 1)
		return NewMemoryStore(), nil
	}
	selector := NewSelectorWithDial(testStoreConfig(), zap.NewNop(), dial)

	_, err := selector.Connect(context.Background())
	require.NoError(t, err)
	require.NoError(t, selector.Disconnect(context.Background()))
	assert.False(t, selector.Connected())

	_, err = selector.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&dials), "disconnect resets the cached connection")
}

func TestSelector_UnknownBackend(t *testing.T) {
	cfg := testStoreConfig()
	cfg.Backend = "cassandra"
	selector := NewSelector(cfg, zap.NewNop())

	_, err := selector.Connect(context.Background())
	assert.Error(t, err)
}
