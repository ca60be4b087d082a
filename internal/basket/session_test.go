package basket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestlane/farmbasket-backend/pkg/enums"
)

// fakeSessionClient mimics the redis commands the store issues. Eval applies
// the whole compare-and-set under one lock, matching redis's guarantee that a
// script runs without other commands interleaving.
type fakeSessionClient struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]int64
	gens   map[string]int64
}

func newFakeSessionClient() *fakeSessionClient {
	return &fakeSessionClient{
		values: map[string]string{},
		ttls:   map[string]int64{},
		gens:   map[string]int64{},
	}
}

func (f *fakeSessionClient) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return val, nil
}

func (f *fakeSessionClient) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	return nil
}

func (f *fakeSessionClient) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeSessionClient) Eval(_ context.Context, _ string, keys []string, args ...any) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keys[0]
	incoming := args[0].(int64)
	if current, ok := f.values[key]; ok {
		var stored struct {
			Generation int64 `json:"generation"`
		}
		if err := json.Unmarshal([]byte(current), &stored); err == nil && stored.Generation > incoming {
			return int64(0), nil
		}
	}
	f.values[key] = args[1].(string)
	f.ttls[key] = args[2].(int64)
	return int64(1), nil
}

func (f *fakeSessionClient) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gens[key]++
	return f.gens[key], nil
}

func (f *fakeSessionClient) BasketSessionKey(customerID string) string {
	return "fb:basket:session:" + customerID
}

func (f *fakeSessionClient) BasketGenerationKey(customerID string) string {
	return "fb:basket:generation:" + customerID
}

func sessionFixture(customerID uuid.UUID, generation int64) *Session {
	return &Session{
		CustomerID:  customerID,
		State:       enums.BasketStateGenerated,
		Generation:  generation,
		LocationKey: "94107",
		Items: []SelectionEntry{
			{ProductID: uuid.New(), ProductName: "Kale", Selected: true},
		},
	}
}

func TestSessionStoreSaveIfCurrentDiscardsStaleGeneration(t *testing.T) {
	client := newFakeSessionClient()
	store, err := NewSessionStore(client, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()
	customerID := uuid.New()

	// Two generates race: the newer generation lands first.
	newer := sessionFixture(customerID, 2)
	applied, err := store.SaveIfCurrent(ctx, newer)
	require.NoError(t, err)
	assert.True(t, applied)

	// The slower, older generation finishes afterwards and must be dropped.
	stale := sessionFixture(customerID, 1)
	stale.Items[0].ProductName = "Wilted Lettuce"
	applied, err = store.SaveIfCurrent(ctx, stale)
	require.NoError(t, err)
	assert.False(t, applied)

	loaded, err := store.Load(ctx, customerID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(2), loaded.Generation)
	assert.Equal(t, "Kale", loaded.Items[0].ProductName)
}

func TestSessionStoreSaveIfCurrentAcceptsNewerGeneration(t *testing.T) {
	client := newFakeSessionClient()
	store, err := NewSessionStore(client, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()
	customerID := uuid.New()

	applied, err := store.SaveIfCurrent(ctx, sessionFixture(customerID, 1))
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = store.SaveIfCurrent(ctx, sessionFixture(customerID, 3))
	require.NoError(t, err)
	assert.True(t, applied)

	loaded, err := store.Load(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), loaded.Generation)
}

func TestSessionStoreSaveIfCurrentFirstWrite(t *testing.T) {
	client := newFakeSessionClient()
	store, err := NewSessionStore(client, time.Minute)
	require.NoError(t, err)

	applied, err := store.SaveIfCurrent(context.Background(), sessionFixture(uuid.New(), 1))
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	client := newFakeSessionClient()
	store, err := NewSessionStore(client, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()
	customerID := uuid.New()

	missing, err := store.Load(ctx, customerID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	session := sessionFixture(customerID, 1)
	session.State = enums.BasketStateEditing
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, customerID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, enums.BasketStateEditing, loaded.State)
	assert.Equal(t, "94107", loaded.LocationKey)

	require.NoError(t, store.Delete(ctx, customerID))
	gone, err := store.Load(ctx, customerID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSessionStoreNextGenerationIncrements(t *testing.T) {
	client := newFakeSessionClient()
	store, err := NewSessionStore(client, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()
	customerID := uuid.New()

	first, err := store.NextGeneration(ctx, customerID)
	require.NoError(t, err)
	second, err := store.NextGeneration(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}
