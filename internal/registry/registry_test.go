package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/gatescope/internal/network"
)

func testNetwork(t *testing.T, name string, params ...network.Parameter) *network.Network {
	t.Helper()
	freq := []float64{1e9, 1.01e9, 1.02e9}
	data := make(map[network.Parameter][]complex128)
	for _, p := range params {
		data[p] = []complex128{1, 0.5, 0.25}
	}
	n, err := network.New(name, 2, 50, freq, data)
	require.NoError(t, err)
	return n
}

func TestMemoryStore_PutGetClear(t *testing.T) {
	s := NewMemoryStore()
	s.Put(NewEntry("B", testNetwork(t, "B", network.S11)))
	s.Put(NewEntry("A", testNetwork(t, "A", network.S11, network.S21)))

	e, ok := s.Get("A")
	require.True(t, ok)
	assert.Equal(t, []network.Parameter{network.S11, network.S21}, e.Parameters)

	all := s.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].FileID)
	assert.Equal(t, "B", all[1].FileID)

	assert.True(t, s.Delete("B"))
	assert.False(t, s.Delete("B"))
	assert.Equal(t, 1, s.Len())

	assert.Equal(t, 1, s.Clear())
	_, ok = s.Get("A")
	assert.False(t, ok)
	assert.Empty(t, s.GetAll())
}

func TestMemoryStore_ReplaceOnReupload(t *testing.T) {
	s := NewMemoryStore()
	s.Put(NewEntry("A", testNetwork(t, "A", network.S11)))
	s.Put(NewEntry("A", testNetwork(t, "A", network.S11, network.S22)))

	e, ok := s.Get("A")
	require.True(t, ok)
	assert.Len(t, e.Parameters, 2)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	n := testNetwork(t, "x", network.S11)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			s.Put(NewEntry(fmt.Sprintf("f%d", i), n))
		}(i)
		go func(i int) {
			defer wg.Done()
			s.Get(fmt.Sprintf("f%d", i))
			s.GetAll()
		}(i)
		go func() {
			defer wg.Done()
			if i%5 == 0 {
				s.Clear()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 16)
}

func TestResolve(t *testing.T) {
	s := NewMemoryStore()
	s.Put(NewEntry("A", testNetwork(t, "A", network.S11, network.S21)))

	t.Run("all present", func(t *testing.T) {
		got, err := Resolve(s, []Selection{{FileID: "A", Parameter: "S21"}, {FileID: "A", Parameter: "s11"}})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, network.S21, got[0].Parameter)
		assert.Equal(t, network.S11, got[1].Parameter)
		assert.Equal(t, "A", got[0].FileID)
	})

	t.Run("unknown file fails batch", func(t *testing.T) {
		got, err := Resolve(s, []Selection{{FileID: "A", Parameter: "s21"}, {FileID: "B", Parameter: "s11"}})
		assert.Nil(t, got)
		require.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrUnsupportedParameter)

		var selErr *SelectionError
		require.True(t, errors.As(err, &selErr))
		assert.Equal(t, Selection{FileID: "B", Parameter: "s11"}, selErr.Selection)
	})

	t.Run("parameter absent from measurement", func(t *testing.T) {
		_, err := Resolve(s, []Selection{{FileID: "A", Parameter: "s22"}})
		assert.ErrorIs(t, err, ErrUnsupportedParameter)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown parameter name", func(t *testing.T) {
		_, err := Resolve(s, []Selection{{FileID: "A", Parameter: "z11"}})
		assert.ErrorIs(t, err, ErrUnsupportedParameter)
	})

	t.Run("first failure in request order wins", func(t *testing.T) {
		_, err := Resolve(s, []Selection{{FileID: "C", Parameter: "s11"}, {FileID: "B", Parameter: "s11"}})
		var selErr *SelectionError
		require.True(t, errors.As(err, &selErr))
		assert.Equal(t, "C", selErr.Selection.FileID)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Resolve(s, nil)
		assert.ErrorIs(t, err, ErrNoSelections)
	})
}
