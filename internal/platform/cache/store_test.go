package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_RoundTripAndExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.SetWithTTL(ctx, "k", "v", 100*time.Millisecond)

	got, age, ok := store.GetWithAge(ctx, "k")
	if !ok || got != "v" {
		t.Fatalf("immediate get = (%v, %v), want (v, true)", got, ok)
	}
	if age < 0 || age > 100*time.Millisecond {
		t.Fatalf("age = %v, want within [0, 100ms]", age)
	}

	time.Sleep(150 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire after ttl")
	}
}

func TestStore_SweepRemovesExpiredEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.SetWithTTL(ctx, "stale", 1, time.Millisecond)
	store.Set(ctx, "fresh", 2)

	time.Sleep(5 * time.Millisecond)
	store.sweep(time.Now())

	if store.Len() != 1 {
		t.Fatalf("len after sweep = %d, want 1", store.Len())
	}
	if keys := store.Keys(); len(keys) != 1 || keys[0] != "fresh" {
		t.Fatalf("keys after sweep = %v, want [fresh]", keys)
	}
}

func TestStore_DeleteRemovesEntry(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "k", "v")
	store.Delete(ctx, "k")

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("entry survived delete")
	}
}

func TestStore_GetOrLoad_SingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 16
	start := make(chan struct{})
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_LoaderErrorNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	wantErr := errors.New("load failed")
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, wantErr
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, wantErr) {
			t.Fatalf("GetOrLoad error = %v, want %v", err, wantErr)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2 (errors must not be cached)", got)
	}
}
