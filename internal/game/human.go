package game

import "sync"

// HumanEngine buffers decisions submitted out of band, typically from a
// terminal prompt. GetDecision returns nil until a decision for the acting
// player has been submitted, letting the caller drive its own input loop
// between steps.
type HumanEngine struct {
	mu      sync.Mutex
	pending map[string]*Decision
}

// NewHumanEngine creates an empty adapter.
func NewHumanEngine() *HumanEngine {
	return &HumanEngine{pending: make(map[string]*Decision)}
}

// Submit queues a decision for the player, replacing any unconsumed one.
func (h *HumanEngine) Submit(playerID string, d Decision) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[playerID] = &d
}

// GetDecision consumes and returns the queued decision, or nil if none.
func (h *HumanEngine) GetDecision(playerID string, _ Snapshot) (*Decision, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d := h.pending[playerID]
	delete(h.pending, playerID)
	return d, nil
}

// HasDecisionForPlayer reports whether a decision is queued.
func (h *HumanEngine) HasDecisionForPlayer(playerID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.pending[playerID]
	return ok
}

// ResetForNewHand drops any unconsumed decisions.
func (h *HumanEngine) ResetForNewHand() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.pending)
}
