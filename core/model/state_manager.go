package model

import (
	"sync"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
)

// StateManager holds the fitted state of a model behind an RWMutex.
//
// T is the immutable fit result (for example a posterior). Fit builds a
// complete new T off-lock and publishes it with Store; readers take a
// snapshot with Snapshot or Require and never observe a partially updated state. A failed
// fit simply never calls Store, so the previous state stays in place.
type StateManager[T any] struct {
	mu      sync.RWMutex
	current *T

	nFeatures int
	nSamples  int
}

// NewStateManager creates an unfitted StateManager.
func NewStateManager[T any]() *StateManager[T] {
	return &StateManager[T]{}
}

// IsFitted returns whether a fit result has been stored.
func (s *StateManager[T]) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Store atomically replaces the fit result and its dimensions.
func (s *StateManager[T]) Store(state *T, nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = state
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Snapshot returns the fit result together with the raw feature count seen at fit time.
func (s *StateManager[T]) Snapshot() (state *T, nFeatures int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.nFeatures
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager[T]) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// Require returns the current fit result, or a NotFitted error naming the
// model and the method that needed it.
func (s *StateManager[T]) Require(modelName, method string) (*T, int, error) {
	state, nFeatures := s.Snapshot()
	if state == nil {
		return nil, 0, errors.NewNotFittedError(modelName, method)
	}
	return state, nFeatures, nil
}

// ModelState is the serializable summary of a StateManager.
type ModelState struct {
	Fitted    bool `json:"fitted"`
	NFeatures int  `json:"n_features,omitempty"`
	NSamples  int  `json:"n_samples,omitempty"`
}

// GetState returns the current state summary.
func (s *StateManager[T]) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ModelState{
		Fitted:    s.current != nil,
		NFeatures: s.nFeatures,
		NSamples:  s.nSamples,
	}
}
