package board

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/inamate/rectboard/internal/auth"
	"github.com/inamate/rectboard/internal/engine"
	"github.com/inamate/rectboard/internal/typeid"
)

var ErrNotFound = errors.New("board not found")

// Service keeps boards in memory for the lifetime of the process.
type Service struct {
	mu     sync.RWMutex
	boards map[string]*Board
	opts   engine.Options
	tokens *auth.Service
}

func NewService(tokens *auth.Service, opts engine.Options) *Service {
	return &Service{
		boards: make(map[string]*Board),
		opts:   opts,
		tokens: tokens,
	}
}

// Summary is the listing view of a board.
type Summary struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"createdAt"`
	ShapeCount int    `json:"shapeCount"`
}

// Created is returned once, when a board is made; the token is not stored.
type Created struct {
	Summary
	Token string `json:"token"`
}

func (s *Service) Create() (*Created, error) {
	b := newBoard(typeid.NewBoardID(), s.opts)

	token, err := s.tokens.IssueBoardToken(b.ID)
	if err != nil {
		return nil, fmt.Errorf("issue board token: %w", err)
	}

	s.mu.Lock()
	s.boards[b.ID] = b
	s.mu.Unlock()

	return &Created{Summary: summarize(b), Token: token}, nil
}

func (s *Service) Get(boardID string) (*Board, error) {
	if err := typeid.Validate(boardID, typeid.PrefixBoard); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[boardID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, boardID)
	}
	return b, nil
}

// List returns all boards, oldest first.
func (s *Service) List() []Summary {
	s.mu.RLock()
	boards := make([]*Board, 0, len(s.boards))
	for _, b := range s.boards {
		boards = append(boards, b)
	}
	s.mu.RUnlock()

	// typeids are time ordered
	sort.Slice(boards, func(i, j int) bool { return boards[i].ID < boards[j].ID })

	out := make([]Summary, len(boards))
	for i, b := range boards {
		out[i] = summarize(b)
	}
	return out
}

func summarize(b *Board) Summary {
	return Summary{
		ID:         b.ID,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		ShapeCount: b.ShapeCount(),
	}
}
