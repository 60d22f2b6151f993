package seatlock

import (
	"context"
	"sort"
)

// Memory is an in-process Locker for single-node deployments. Each seat key
// maps to a one-slot channel acting as a mutex; keys are acquired in sorted
// order so overlapping multi-seat requests cannot deadlock.
type Memory struct {
	sem chan struct{} // guards locks map
	// locks entries are never removed; the map is bounded by the number of
	// distinct seats ever locked.
	locks map[string]chan struct{}
}

func NewMemory() *Memory {
	m := &Memory{
		sem:   make(chan struct{}, 1),
		locks: make(map[string]chan struct{}),
	}
	return m
}

func (m *Memory) Lock(ctx context.Context, scheduleID int64, seatIDs []string) (func(), error) {
	keys := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		keys[i] = seatKey(scheduleID, id)
	}
	sort.Strings(keys)

	acquired := make([]chan struct{}, 0, len(keys))

	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			<-acquired[i]
		}
	}

	for _, key := range keys {
		ch, err := m.slot(ctx, key)
		if err != nil {
			release()
			return nil, err
		}

		select {
		case ch <- struct{}{}:
			acquired = append(acquired, ch)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}

	return release, nil
}

func (m *Memory) slot(ctx context.Context, key string) (chan struct{}, error) {
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-m.sem }()

	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}

	return ch, nil
}
