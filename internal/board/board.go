package board

import (
	"sync"
	"time"

	"github.com/inamate/rectboard/internal/document"
	"github.com/inamate/rectboard/internal/engine"
)

// Board is one editing surface. The engine is single-threaded, so every access
// goes through the board's mutex; a whole command runs before the next starts.
type Board struct {
	ID        string
	CreatedAt time.Time

	mu  sync.Mutex
	eng *engine.Engine
}

func newBoard(id string, opts engine.Options) *Board {
	return &Board{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		eng:       engine.NewEngine(opts),
	}
}

// Apply runs fn against the engine and returns the resulting state. The state
// is returned even when fn fails, since a failed command may still have
// resolved an edit session.
func (b *Board) Apply(fn func(e *engine.Engine) error) (document.BoardState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := fn(b.eng)
	return b.eng.State(), err
}

// State returns a snapshot of the board.
func (b *Board) State() document.BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eng.State()
}

func (b *Board) ShapeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eng.ShapeCount()
}

// Render returns the board's draw commands.
func (b *Board) Render() []engine.DrawCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eng.Render()
}
