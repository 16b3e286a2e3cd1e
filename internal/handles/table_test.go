package handles

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dropCounter struct{ drops int }

func (d *dropCounter) Drop() { d.drops++ }

func TestTable_InsertGetRemove(t *testing.T) {
	tbl := New[string]()

	h, err := tbl.Insert("alpha")
	require.NoError(t, err)
	assert.NotZero(t, h)

	v, ok := tbl.Get(h)
	require.True(t, ok)
	assert.Equal(t, "alpha", v)
	assert.Equal(t, 1, tbl.Len())

	v, ok = tbl.Remove(h)
	require.True(t, ok)
	assert.Equal(t, "alpha", v)

	_, ok = tbl.Remove(h)
	assert.False(t, ok, "second remove must not yield the value again")
	_, ok = tbl.Get(h)
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
}

func TestTable_ZeroAndUnknownHandles(t *testing.T) {
	tbl := New[int]()
	_, ok := tbl.Get(0)
	assert.False(t, ok)
	_, ok = tbl.Get(42)
	assert.False(t, ok)
	_, ok = tbl.Remove(0)
	assert.False(t, ok)
}

func TestTable_StaleHandleAfterReuse(t *testing.T) {
	tbl := New[string]()

	old, err := tbl.Insert("first")
	require.NoError(t, err)
	_, ok := tbl.Remove(old)
	require.True(t, ok)

	fresh, err := tbl.Insert("second")
	require.NoError(t, err)
	assert.NotEqual(t, old, fresh)
	assert.Equal(t, old.slot(), fresh.slot(), "slot should be reused")

	_, ok = tbl.Get(old)
	assert.False(t, ok, "stale handle must not resolve to the new value")
	_, ok = tbl.Remove(old)
	assert.False(t, ok)

	v, ok := tbl.Get(fresh)
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestTable_GenerationOutlivesManyReuses(t *testing.T) {
	tbl := New[int]()

	first, err := tbl.Insert(0)
	require.NoError(t, err)
	_, ok := tbl.Remove(first)
	require.True(t, ok)

	var last Handle
	for i := 1; i <= 300; i++ {
		last, err = tbl.Insert(i)
		require.NoError(t, err)
		require.Equal(t, first.slot(), last.slot())
		if i < 300 {
			_, ok = tbl.Remove(last)
			require.True(t, ok)
		}
	}

	assert.Equal(t, uint32(300), last.generation())
	_, ok = tbl.Get(first)
	assert.False(t, ok, "handle from 300 reuses ago must not resolve")
	_, ok = tbl.Get(makeHandle(first.slot(), 300&0xff))
	assert.False(t, ok)

	v, ok := tbl.Get(last)
	require.True(t, ok)
	assert.Equal(t, 300, v)
}

func TestTable_CloseDropsLiveValues(t *testing.T) {
	tbl := New[*dropCounter]()
	a, b := &dropCounter{}, &dropCounter{}

	_, err := tbl.Insert(a)
	require.NoError(t, err)
	hb, err := tbl.Insert(b)
	require.NoError(t, err)
	_, ok := tbl.Remove(hb)
	require.True(t, ok)

	require.NoError(t, tbl.Close())
	assert.Equal(t, 1, a.drops)
	assert.Equal(t, 0, b.drops)

	require.NoError(t, tbl.Close())
	assert.Equal(t, 1, a.drops)

	_, err = tbl.Insert(&dropCounter{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTable_ConcurrentInsertRemove(t *testing.T) {
	tbl := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			h, err := tbl.Insert(n)
			if !assert.NoError(t, err) {
				return
			}
			v, ok := tbl.Remove(h)
			assert.True(t, ok)
			assert.Equal(t, n, v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, tbl.Len())
}
