// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"fmt"
	"sort"
)

// Store holds the normalized tabular training inputs: interactions,
// event features, and optional user profiles. LoadData replaces the
// contents wholesale, mirroring a fresh training cycle; there are no
// partial or merge semantics.
//
// Store itself is not synchronized; the Engine owns access.
type Store struct {
	interactions []Interaction
	events       []Event
	eventsByID   map[string]*Event
	profiles     map[string]UserProfile

	// Canonical orderings, ascending by ID, fixed at load time.
	eventIDs []string
	userIDs  []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		eventsByID: make(map[string]*Event),
		profiles:   make(map[string]UserProfile),
	}
}

// LoadData replaces the store contents. Interactions must carry a user
// ID, event ID, and a valid interaction type, and a non-negative score.
// Events must carry unique IDs and non-negative prices. Profiles are
// optional. Interactions referencing events absent from the event set
// are legal; such events participate in collaborative signal only.
func (s *Store) LoadData(interactions []Interaction, events []Event, profiles []UserProfile) error {
	eventsByID := make(map[string]*Event, len(events))
	for i := range events {
		ev := &events[i]
		if ev.ID == "" {
			return fmt.Errorf("event at index %d: missing event_id", i)
		}
		if ev.Price < 0 {
			return fmt.Errorf("event %q: negative price %g", ev.ID, ev.Price)
		}
		if _, dup := eventsByID[ev.ID]; dup {
			return fmt.Errorf("event %q: duplicate event_id", ev.ID)
		}
		eventsByID[ev.ID] = ev
	}

	userSet := make(map[string]struct{})
	for i := range interactions {
		in := &interactions[i]
		if in.UserID == "" {
			return fmt.Errorf("interaction at index %d: missing user_id", i)
		}
		if in.EventID == "" {
			return fmt.Errorf("interaction at index %d: missing event_id", i)
		}
		if !in.Type.Valid() {
			return fmt.Errorf("interaction at index %d: unknown interaction type", i)
		}
		if in.Score < 0 {
			return fmt.Errorf("interaction at index %d: negative score %g", i, in.Score)
		}
		userSet[in.UserID] = struct{}{}
	}

	profileMap := make(map[string]UserProfile, len(profiles))
	for i := range profiles {
		p := profiles[i]
		if p.UserID == "" {
			return fmt.Errorf("user profile at index %d: missing user_id", i)
		}
		profileMap[p.UserID] = p
	}

	eventIDs := make([]string, 0, len(eventsByID))
	for id := range eventsByID {
		eventIDs = append(eventIDs, id)
	}
	sort.Strings(eventIDs)

	userIDs := make([]string, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	s.interactions = interactions
	s.events = events
	s.eventsByID = eventsByID
	s.profiles = profileMap
	s.eventIDs = eventIDs
	s.userIDs = userIDs

	return nil
}

// Empty reports whether the store holds no events.
func (s *Store) Empty() bool {
	return len(s.events) == 0
}

// Interactions returns the loaded interactions.
func (s *Store) Interactions() []Interaction {
	return s.interactions
}

// Events returns the loaded events.
func (s *Store) Events() []Event {
	return s.events
}

// Event looks up an event by ID.
func (s *Store) Event(id string) (*Event, bool) {
	ev, ok := s.eventsByID[id]
	return ev, ok
}

// Profile looks up a user profile by user ID.
func (s *Store) Profile(userID string) (UserProfile, bool) {
	p, ok := s.profiles[userID]
	return p, ok
}

// EventIDs returns the canonical ascending event ID ordering.
func (s *Store) EventIDs() []string {
	return s.eventIDs
}

// UserIDs returns the canonical ascending user ID ordering.
func (s *Store) UserIDs() []string {
	return s.userIDs
}

// clone returns an independent copy of the store for embedding in an
// immutable trained state.
func (s *Store) clone() *Store {
	cp := NewStore()

	cp.interactions = make([]Interaction, len(s.interactions))
	copy(cp.interactions, s.interactions)

	cp.events = make([]Event, len(s.events))
	copy(cp.events, s.events)
	for i := range cp.events {
		cp.eventsByID[cp.events[i].ID] = &cp.events[i]
	}

	for id, p := range s.profiles {
		cp.profiles[id] = p
	}

	cp.eventIDs = make([]string, len(s.eventIDs))
	copy(cp.eventIDs, s.eventIDs)

	cp.userIDs = make([]string, len(s.userIDs))
	copy(cp.userIDs, s.userIDs)

	return cp
}
