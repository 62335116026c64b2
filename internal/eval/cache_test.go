package eval

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/engine"
	"github.com/hailam/gameplay/internal/storage"
)

// counting wraps Chess and counts its calls.
type counting struct {
	mu    sync.Mutex
	calls int
}

func (c *counting) Evaluate(pos *board.Position) float64 {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return Chess(pos)
}

func TestCacheHit(t *testing.T) {
	inner := &counting{}
	cache := NewCache[*board.Position](inner, 1000)
	assert.Equal(t, 512, cache.Size())

	pos := board.NewPosition()
	first := cache.Evaluate(pos)
	second := cache.Evaluate(pos.Clone())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.InDelta(t, 50.0, cache.HitRate(), 1e-9)

	cache.Clear()
	assert.Zero(t, cache.HitRate())
	cache.Evaluate(pos)
	assert.Equal(t, 2, inner.calls)
}

func TestCacheVerifiesKeys(t *testing.T) {
	inner := &counting{}
	cache := NewCache[*board.Position](inner, 1)
	assert.Equal(t, 1, cache.Size())

	a := board.NewPosition()
	b := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	assert.Equal(t, Chess(a), cache.Evaluate(a))
	assert.Equal(t, Chess(b), cache.Evaluate(b))
	assert.Equal(t, Chess(a), cache.Evaluate(a))
	assert.Equal(t, 3, inner.calls)
}

func TestCacheBypassesDecidedPositions(t *testing.T) {
	inner := &counting{}
	cache := NewCache[*board.Position](inner, 64)

	pos := mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	cache.Evaluate(pos)
	cache.Evaluate(pos)
	assert.Equal(t, 2, inner.calls)
	assert.Zero(t, cache.HitRate())
}

func TestCacheConcurrent(t *testing.T) {
	cache := NewCache[*board.Position](engine.EvaluatorFunc[*board.Position](Chess), 256)
	root := board.NewPosition()
	want := make(map[string]float64)
	for _, m := range root.LegalMoves() {
		root.Apply(m)
		want[m.String()] = Chess(root)
		root.Undo()
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pos := root.Clone()
			for _, m := range pos.LegalMoves() {
				pos.Apply(m)
				assert.Equal(t, want[m.String()], cache.Evaluate(pos))
				pos.Undo()
			}
		}()
	}
	wg.Wait()
}

func TestPersistent(t *testing.T) {
	store, err := storage.Open("", storage.InMemory())
	require.NoError(t, err)
	defer store.Close()

	pos := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")

	inner := &counting{}
	p := NewPersistent[*board.Position](inner, store, "chess", zerolog.Nop())
	want := Chess(pos)
	assert.Equal(t, want, p.Evaluate(pos))
	assert.Equal(t, want, p.Evaluate(pos))
	assert.Equal(t, 1, inner.calls)

	// A second evaluator over the same store starts warm.
	fresh := &counting{}
	p2 := NewPersistent[*board.Position](fresh, store, "chess", zerolog.Nop())
	assert.Equal(t, want, p2.Evaluate(pos))
	assert.Zero(t, fresh.calls)

	// Other namespaces are separate.
	p3 := NewPersistent[*board.Position](fresh, store, "other", zerolog.Nop())
	p3.Evaluate(pos)
	assert.Equal(t, 1, fresh.calls)
}

type brokenStore struct{}

func (brokenStore) GetEval(string, uint64) (float64, bool, error) {
	return 0, false, errors.New("disk on fire")
}

func (brokenStore) PutEval(string, uint64, float64) error {
	return errors.New("disk on fire")
}

func TestPersistentFallsBackOnStoreErrors(t *testing.T) {
	inner := &counting{}
	p := NewPersistent[*board.Position](inner, brokenStore{}, "chess", zerolog.Nop())
	pos := board.NewPosition()
	assert.Equal(t, Chess(pos), p.Evaluate(pos))
	assert.Equal(t, 1, inner.calls)
}
