package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/database/memstore"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry[database.Collection]()

	isNew, err := r.Register("movies", memstore.New("movies"))
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("movies", memstore.New("movies"))
	require.NoError(t, err)
	assert.False(t, isNew)

	_, err = r.Register("", memstore.New("x"))
	assert.ErrorIs(t, err, common.ErrRequiredField)

	col, exists := r.Get("movies")
	require.True(t, exists)
	assert.Equal(t, "movies", col.Name())

	_, err = r.MustGet("actors")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r := NewRegistry[int]()
	var calls int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GetOrCreate("counter", func() (int, error) {
				mu.Lock()
				defer mu.Unlock()
				calls++
				return 42, nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)

	_, err := r.GetOrCreate("broken", func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	_, exists := r.Get("broken")
	assert.False(t, exists)
}

func TestNamesAndClearAll(t *testing.T) {
	r := NewRegistry[string]()
	_, _ = r.Register("genres", "g")
	_, _ = r.Register("actors", "a")
	assert.Equal(t, []string{"actors", "genres"}, r.Names())

	count, err := r.ClearAll(func(string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, r.Names())
}
