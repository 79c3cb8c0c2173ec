package client

import (
	"context"
	"sync"
)

// InterestToggler flips wishlist membership optimistically. The new state is
// visible immediately; the server call runs afterwards and a failure rolls
// the state back and reports through the error callback.
type InterestToggler struct {
	client  *Client
	onError func(propertyID string, err error)

	mu    sync.Mutex
	state map[string]bool
}

func NewInterestToggler(client *Client, onError func(propertyID string, err error)) *InterestToggler {
	if onError == nil {
		onError = func(string, error) {}
	}
	return &InterestToggler{
		client:  client,
		onError: onError,
		state:   make(map[string]bool),
	}
}

// Interested reports the last known state for the property, fetching it from
// the server on first use.
func (t *InterestToggler) Interested(ctx context.Context, propertyID string) (bool, error) {
	t.mu.Lock()
	interested, known := t.state[propertyID]
	t.mu.Unlock()
	if known {
		return interested, nil
	}

	interested, err := t.client.CheckInterest(ctx, propertyID)
	if err != nil {
		return false, err
	}

	t.mu.Lock()
	t.state[propertyID] = interested
	t.mu.Unlock()
	return interested, nil
}

type toggleCommand struct {
	run        func(ctx context.Context) error
	compensate func()
}

// Toggle adds or removes the interest based on the last known server state.
// Unauthenticated calls return ErrLoginRequired without touching the network
// or the local state.
func (t *InterestToggler) Toggle(ctx context.Context, propertyID string) error {
	if !t.client.authenticated() {
		return ErrLoginRequired
	}

	wasInterested, err := t.Interested(ctx, propertyID)
	if err != nil {
		return err
	}

	command := t.buildCommand(propertyID, wasInterested)

	t.mu.Lock()
	t.state[propertyID] = !wasInterested
	t.mu.Unlock()

	if err := command.run(ctx); err != nil {
		command.compensate()
		t.onError(propertyID, err)
		return err
	}
	return nil
}

func (t *InterestToggler) buildCommand(propertyID string, wasInterested bool) toggleCommand {
	revert := func() {
		t.mu.Lock()
		t.state[propertyID] = wasInterested
		t.mu.Unlock()
	}
	if wasInterested {
		return toggleCommand{
			run:        func(ctx context.Context) error { return t.client.RemoveInterest(ctx, propertyID) },
			compensate: revert,
		}
	}
	return toggleCommand{
		run:        func(ctx context.Context) error { return t.client.AddInterest(ctx, propertyID) },
		compensate: revert,
	}
}
