package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schemascan/schemascan/internal/schema"
)

func TestJobLifecycle(t *testing.T) {
	t.Parallel()

	store := NewJobStore()
	job := Job{ID: "job-1", Domain: "example.com"}
	require.NoError(t, store.Create(job))

	got, err := store.Get("job-1")
	require.NoError(t, err)
	require.Equal(t, JobQueued, got.Status)
	require.False(t, got.Submitted.IsZero())

	require.NoError(t, store.SetRunning("job-1"))
	got, err = store.Get("job-1")
	require.NoError(t, err)
	require.Equal(t, JobRunning, got.Status)
	require.NotNil(t, got.Started)

	require.NoError(t, store.SetProgress("job-1", 3, 7))
	require.NoError(t, store.AppendItems("job-1", []schema.Item{{Hash: "a"}, {Hash: "b"}}))
	require.NoError(t, store.Finish("job-1", JobCompleted, ""))

	got, err = store.Get("job-1")
	require.NoError(t, err)
	require.Equal(t, JobCompleted, got.Status)
	require.Equal(t, 3, got.PagesCrawled)
	require.Equal(t, 7, got.ItemsFound)
	require.NotNil(t, got.Finished)

	items, err := store.Items("job-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestCreateDuplicateID(t *testing.T) {
	t.Parallel()

	store := NewJobStore()
	require.NoError(t, store.Create(Job{ID: "dup"}))
	require.Error(t, store.Create(Job{ID: "dup"}))
}

func TestUnknownJobID(t *testing.T) {
	t.Parallel()

	store := NewJobStore()
	_, err := store.Get("missing")
	require.ErrorIs(t, err, ErrJobNotFound)
	require.ErrorIs(t, store.SetRunning("missing"), ErrJobNotFound)
	require.ErrorIs(t, store.SetProgress("missing", 1, 1), ErrJobNotFound)
	require.ErrorIs(t, store.AppendItems("missing", nil), ErrJobNotFound)
	require.ErrorIs(t, store.Finish("missing", JobError, "x"), ErrJobNotFound)
	_, err = store.Items("missing")
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestItemsReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewJobStore()
	require.NoError(t, store.Create(Job{ID: "job-1"}))
	require.NoError(t, store.AppendItems("job-1", []schema.Item{{Hash: "original"}}))

	items, err := store.Items("job-1")
	require.NoError(t, err)
	items[0].Hash = "mutated"

	again, err := store.Items("job-1")
	require.NoError(t, err)
	require.Equal(t, "original", again[0].Hash)
}

func TestConcurrentProgressUpdates(t *testing.T) {
	t.Parallel()

	store := NewJobStore()
	require.NoError(t, store.Create(Job{ID: "job-1", Submitted: time.Now().UTC()}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.SetProgress("job-1", n, n)
			_ = store.AppendItems("job-1", []schema.Item{{Hash: "h"}})
			_, _ = store.Get("job-1")
		}(i)
	}
	wg.Wait()

	items, err := store.Items("job-1")
	require.NoError(t, err)
	require.Len(t, items, 16)
}
