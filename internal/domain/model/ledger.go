package model

import "encoding/json"

// Ledger is the aggregate the rating system owns for the lifetime of a run
// and the exact document the persistence boundary round-trips.
type Ledger struct {
	Config      ScoringConfig              `json:"config"`
	Competitors map[string]*Competitor     `json:"competitors"`
	Events      map[string]*ProcessedEvent `json:"processed_contests"`
}

// NewLedger creates an empty ledger carrying the given config.
func NewLedger(cfg ScoringConfig) *Ledger {
	return &Ledger{
		Config:      cfg,
		Competitors: make(map[string]*Competitor),
		Events:      make(map[string]*ProcessedEvent),
	}
}

// UnmarshalJSON allocates the maps, then backfills the map keys into the
// entries (the document keys competitors by user name and events by id
// rather than repeating them in the value).
func (l *Ledger) UnmarshalJSON(b []byte) error {
	type alias Ledger
	tmp := alias{
		Config:      DefaultScoringConfig(),
		Competitors: make(map[string]*Competitor),
		Events:      make(map[string]*ProcessedEvent),
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	for user, comp := range tmp.Competitors {
		comp.UserName = user
	}
	for id, ev := range tmp.Events {
		ev.EventID = id
	}
	*l = Ledger(tmp)
	return nil
}

// Event looks up a registry entry by event id.
func (l *Ledger) Event(id string) (*ProcessedEvent, bool) {
	ev, ok := l.Events[id]
	return ev, ok
}

// EnsureCompetitor returns the competitor for user, creating it lazily on
// first appearance. The team name is refreshed either way.
func (l *Ledger) EnsureCompetitor(user, team string) *Competitor {
	comp, ok := l.Competitors[user]
	if !ok {
		comp = NewCompetitor(user, team)
		l.Competitors[user] = comp
	}
	comp.TeamName = team
	return comp
}

// CountByKind returns how many processed events share the given kind.
func (l *Ledger) CountByKind(k Kind) int {
	n := 0
	for _, ev := range l.Events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}

// NextSeq returns the registration sequence for the next first-time event.
func (l *Ledger) NextSeq() int {
	next := 0
	for _, ev := range l.Events {
		if ev.Seq >= next {
			next = ev.Seq + 1
		}
	}
	return next
}

// RemoveCompetitor deletes a competitor and purges the name from every
// event's participant set, keeping the registry consistent for consumers.
// Callers must re-aggregate scores afterwards.
func (l *Ledger) RemoveCompetitor(user string) bool {
	if _, ok := l.Competitors[user]; !ok {
		return false
	}
	delete(l.Competitors, user)
	for _, ev := range l.Events {
		ev.Participants.Remove(user)
	}
	return true
}

// RemoveEvent deletes a registry entry and every trace of it from the
// competitors: the stored performance, the participation counter, and the
// event's upsolving contribution. Callers must re-aggregate afterwards.
func (l *Ledger) RemoveEvent(id string) bool {
	ev, ok := l.Events[id]
	if !ok {
		return false
	}
	delete(l.Events, id)
	for _, comp := range l.Competitors {
		if _, had := comp.Performances(ev.Kind)[id]; had {
			delete(comp.Performances(ev.Kind), id)
			if ev.Kind == KindHomework {
				comp.HomeworksParticipated--
			} else {
				comp.ContestsParticipated--
			}
		}
		if up, had := comp.UpsolvingByEvent[id]; had {
			comp.TotalUpsolving -= up
			delete(comp.UpsolvingByEvent, id)
		}
	}
	return true
}

// Entry is one row of the standings projection.
type Entry struct {
	Position        int     `json:"position"`
	UserName        string  `json:"user_name"`
	TeamName        string  `json:"team_name"`
	Status          Status  `json:"status"`
	ContestPoints   float64 `json:"contest_points"`
	HomeworkPoints  float64 `json:"homework_points"`
	UpsolvingPoints float64 `json:"upsolving_points"`
	FinalScore      float64 `json:"final_score"`
	// Eligible reports whether the competitor meets the configured minimum
	// participation; ineligible rows still appear, flagged, for review.
	Eligible bool `json:"eligible"`
}
