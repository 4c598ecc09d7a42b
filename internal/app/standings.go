package app

import (
	"sort"

	"github.com/maratona/rating/internal/domain/model"
)

// Standings projects the ledger into ranked rows: final score descending,
// name ascending on ties for a stable listing. Blacklisted competitors are
// omitted; guests appear flagged but do not consume ranked positions;
// competitors below the minimum participation thresholds are listed with
// Eligible=false.
func (s *Service) Standings() []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.ledger.Config
	entries := make([]model.Entry, 0, len(s.ledger.Competitors))
	for _, comp := range s.ledger.Competitors {
		if comp.Status == model.StatusBlacklisted {
			continue
		}
		entries = append(entries, model.Entry{
			UserName:        comp.UserName,
			TeamName:        comp.TeamName,
			Status:          comp.Status,
			ContestPoints:   comp.TotalContestPoints,
			HomeworkPoints:  comp.TotalHomeworkPoints,
			UpsolvingPoints: comp.TotalUpsolvingPoints,
			FinalScore:      comp.FinalScore,
			Eligible: comp.ContestsParticipated >= cfg.MinContestsRequired &&
				comp.HomeworksParticipated >= cfg.MinHomeworksRequired,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FinalScore != entries[j].FinalScore {
			return entries[i].FinalScore > entries[j].FinalScore
		}
		return entries[i].UserName < entries[j].UserName
	})

	pos := 0
	for i := range entries {
		if entries[i].Status == model.StatusGuest {
			continue
		}
		pos++
		entries[i].Position = pos
	}
	return entries
}
