package team

import (
	"sync"

	domain "mainstage/internal/domain/team"
	"mainstage/pkg/metrics"
)

// Feed fans committed team record snapshots out to live subscribers. Delivery
// is per-team ordered (committed version order) and at-least-once: a slow
// subscriber's pending snapshot is superseded by a newer one rather than
// blocking the writer, so every subscriber always converges on the latest
// committed state.
type Feed struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*Subscription
	nextID uint64
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[string]map[uint64]*Subscription)}
}

// Subscribe registers a subscriber for one team's snapshots.
// POST: The subscription receives every subsequent committed snapshot for
// teamID until Close is called or the feed fails the team.
func (f *Feed) Subscribe(teamID string) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sub := &Subscription{
		id:      f.nextID,
		teamID:  teamID,
		feed:    f,
		updates: make(chan domain.Record, 1),
	}
	if f.subs[teamID] == nil {
		f.subs[teamID] = make(map[uint64]*Subscription)
	}
	f.subs[teamID][sub.id] = sub
	return sub
}

// Publish delivers a committed snapshot to every subscriber of its team.
// Snapshots older than one a subscriber already saw are dropped, preserving
// per-team version ordering even when publishers race.
// PRE: rec carries the committed Version
func (f *Feed) Publish(rec domain.Record) {
	f.mu.RLock()
	targets := make([]*Subscription, 0, len(f.subs[rec.ID]))
	for _, sub := range f.subs[rec.ID] {
		targets = append(targets, sub)
	}
	f.mu.RUnlock()

	for _, sub := range targets {
		sub.push(rec)
	}
}

// Fail terminates every subscription on a team with an error. Subscribers
// see the error after draining their channel and must re-subscribe.
func (f *Feed) Fail(teamID string, err error) {
	f.mu.Lock()
	failed := f.subs[teamID]
	delete(f.subs, teamID)
	f.mu.Unlock()

	for _, sub := range failed {
		sub.fail(err)
	}
}

// unsubscribe removes a subscription from the fan-out set.
func (f *Feed) unsubscribe(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if teamSubs, ok := f.subs[sub.teamID]; ok {
		delete(teamSubs, sub.id)
		if len(teamSubs) == 0 {
			delete(f.subs, sub.teamID)
		}
	}
}

// Subscription is one live listener on a team's record.
type Subscription struct {
	id     uint64
	teamID string
	feed   *Feed

	mu          sync.Mutex
	lastVersion int64
	err         error
	closed      bool
	updates     chan domain.Record
}

// Updates returns the snapshot channel. The channel closes when the
// subscription is closed or fails; check Err afterwards.
func (s *Subscription) Updates() <-chan domain.Record {
	return s.updates
}

// Err returns the terminal error, if the subscription failed.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops delivery immediately. Safe to call more than once.
func (s *Subscription) Close() {
	s.feed.unsubscribe(s)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
}

// push delivers a snapshot, superseding any undelivered older one.
func (s *Subscription) push(rec domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || rec.Version <= s.lastVersion {
		return
	}
	s.lastVersion = rec.Version

	// Drop an undelivered stale snapshot so the writer never blocks.
	select {
	case <-s.updates:
		metrics.RecordFeedCoalesced()
	default:
	}
	select {
	case s.updates <- rec:
		metrics.RecordFeedDelivery()
	default:
	}
}

// fail records a terminal error and closes the channel.
func (s *Subscription) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.err = err
	s.closed = true
	close(s.updates)
}
