package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalLockerSerializes(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Obtain(ctx, "bill:1", time.Second)
			if err != nil {
				t.Errorf("Obtain: %v", err)
				return
			}
			defer release()

			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxSeen)
	}
}

func TestLocalLockerTimeout(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Obtain(ctx, "invoice:9", time.Second)
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	defer release()

	if _, err := l.Obtain(ctx, "invoice:9", 10*time.Millisecond); !errors.Is(err, ErrNotObtained) {
		t.Fatalf("expected ErrNotObtained, got %v", err)
	}

	other, err := l.Obtain(ctx, "invoice:10", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("independent key blocked: %v", err)
	}
	other()
}

func TestLocalLockerReleaseTwice(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Obtain(context.Background(), "k", time.Second)
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	release()
	release()

	again, err := l.Obtain(context.Background(), "k", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("lock not released: %v", err)
	}
	again()
}
