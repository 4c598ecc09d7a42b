// Package scoreboard decodes raw scoreboard documents as produced by the
// external spreadsheet converter: a JSON array of participant records with
// per-problem solve cells.
//
// Decoding is row-tolerant: a malformed record becomes a skip entry with a
// reason instead of failing the document, and the caller decides whether
// skips are acceptable.
package scoreboard

import (
	"encoding/json"
	"fmt"
	"sort"
)

// rawProblem mirrors one problem cell. Time is "H:MM:SS" for an accepted
// submission and null otherwise.
type rawProblem struct {
	Solved          *bool   `json:"solved"`
	Time            *string `json:"time"`
	PenaltyAttempts int     `json:"penalty_attempts"`
	TotalAttempts   int     `json:"total_attempts"`
}

// rawEntry mirrors one participant record. Pointer fields distinguish a
// missing required field from a zero value.
type rawEntry struct {
	UserName *string               `json:"user_name"`
	TeamName *string               `json:"team_name"`
	Score    *int                  `json:"score"`
	Penalty  *int                  `json:"penalty"`
	Problems map[string]rawProblem `json:"problems"`
}

// Row is one fully decoded participant with derived on-time figures.
// Rank is assigned by Rank, not by the decoder.
type Row struct {
	UserName       string
	TeamName       string
	TotalSolved    int
	OnTimeSolved   int
	UpsolvingCount int
	Penalty        int
	Rank           int
}

// Skip describes a row the decoder rejected.
type Skip struct {
	Index    int    `json:"index"`
	Identity string `json:"identity,omitempty"`
	Reason   string `json:"reason"`
}

// Decode parses a raw scoreboard document and derives each participant's
// on-time solve count against the duration cutoff. Rows that are missing
// required fields come back in skips; only an unparsable document is an
// error. Input order is preserved so later ranking stays deterministic.
func Decode(data []byte, durationMinutes int) ([]Row, []Skip, error) {
	var entries []rawEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	rows := make([]Row, 0, len(entries))
	var skips []Skip
	for i, e := range entries {
		row, reason := decodeEntry(e, durationMinutes)
		if reason != "" {
			skips = append(skips, Skip{Index: i, Identity: identity(e), Reason: reason})
			continue
		}
		rows = append(rows, row)
	}
	return rows, skips, nil
}

func identity(e rawEntry) string {
	if e.UserName != nil {
		return *e.UserName
	}
	if e.TeamName != nil {
		return *e.TeamName
	}
	return ""
}

func decodeEntry(e rawEntry, durationMinutes int) (Row, string) {
	if e.TeamName == nil {
		return Row{}, "missing team_name"
	}
	if e.Score == nil {
		return Row{}, "missing score"
	}
	if e.Penalty == nil {
		return Row{}, "missing penalty"
	}
	if e.Problems == nil {
		return Row{}, "missing problems"
	}

	// user_name may be null in the converter output; the team name is the
	// stable identity then.
	user := *e.TeamName
	if e.UserName != nil {
		user = *e.UserName
	}

	onTime := 0
	for id, p := range e.Problems {
		if p.Solved == nil {
			return Row{}, fmt.Sprintf("problem %s: missing solved flag", id)
		}
		if !*p.Solved || p.Time == nil {
			continue
		}
		minutes, err := solveMinutes(*p.Time)
		if err != nil {
			return Row{}, fmt.Sprintf("problem %s: %v", id, err)
		}
		if minutes <= durationMinutes {
			onTime++
		}
	}

	if *e.Score < onTime {
		return Row{}, fmt.Sprintf("score %d lower than %d on-time solves", *e.Score, onTime)
	}

	return Row{
		UserName:       user,
		TeamName:       *e.TeamName,
		TotalSolved:    *e.Score,
		OnTimeSolved:   onTime,
		UpsolvingCount: *e.Score - onTime,
		Penalty:        *e.Penalty,
	}, ""
}

// solveMinutes converts an "H:MM:SS" solve time to whole minutes from the
// event start. Seconds are dropped, matching the cutoff comparison the
// scoreboards were historically judged with.
func solveMinutes(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("bad solve time %q", s)
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("bad solve time %q", s)
	}
	return h*60 + m, nil
}

// Rank orders rows by on-time solves descending, then penalty ascending, and
// assigns dense 1-based ranks. The sort is stable over input order, so equal
// keys receive distinct consecutive ranks deterministically.
func Rank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].OnTimeSolved != rows[j].OnTimeSolved {
			return rows[i].OnTimeSolved > rows[j].OnTimeSolved
		}
		return rows[i].Penalty < rows[j].Penalty
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// MaxOnTimeSolved returns the best on-time solve count, zero for an empty
// scoreboard.
func MaxOnTimeSolved(rows []Row) int {
	best := 0
	for _, r := range rows {
		if r.OnTimeSolved > best {
			best = r.OnTimeSolved
		}
	}
	return best
}
