package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/tsimport/internal/store"
)

func TestRunRetentionJob(t *testing.T) {
	fs := newFakeStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	old := uuid.New()
	fresh := uuid.New()
	fs.imports[old] = store.Import{ID: old, CreatedAt: now.Add(-48 * time.Hour)}
	fs.imports[fresh] = store.Import{ID: fresh, CreatedAt: now.Add(-time.Hour)}

	svc := NewService(fs, Options{})
	svc.now = func() time.Time { return now }

	deleted := svc.runRetentionJob(context.Background(), 24*time.Hour)

	assert.Equal(t, int64(1), deleted)
	assert.NotContains(t, fs.imports, old)
	assert.Contains(t, fs.imports, fresh)
}

func TestRunRetentionJob_StoreError(t *testing.T) {
	fs := newFakeStore()
	fs.deleteErr = errors.New("connection refused")
	svc := NewService(fs, Options{})

	assert.Equal(t, int64(0), svc.runRetentionJob(context.Background(), time.Hour))
}

func TestStartRetentionScheduler_Disabled(t *testing.T) {
	svc := NewService(newFakeStore(), Options{})

	done := make(chan struct{})
	go func() {
		svc.StartRetentionScheduler(context.Background(), RetentionConfig{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler with zero MaxAge should return immediately")
	}
}

func TestStartRetentionScheduler_StopsOnCancel(t *testing.T) {
	fs := newFakeStore()
	id := uuid.New()
	fs.imports[id] = store.Import{ID: id, CreatedAt: time.Now().Add(-time.Hour)}
	svc := NewService(fs, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartRetentionScheduler(ctx, RetentionConfig{MaxAge: time.Minute, CheckInterval: time.Hour})
		close(done)
	}()

	// The first sweep runs before the ticker starts.
	assert.Eventually(t, func() bool {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		return len(fs.imports) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
