package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type DashboardStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	// Parishes counts distinct parishes among approved couples.
	Parishes int          `json:"parishes"`
	ByState  []StateCount `json:"by_state"`
}

// Dashboard summarizes the registrations. ByState covers approved couples
// only, largest first.
func (s *RegistrationService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	couples, err := s.couples.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{Total: len(couples), ByState: make([]StateCount, 0)}
	parishes := make(map[string]struct{})
	states := make(map[string]int)
	for _, c := range couples {
		switch c.Status {
		case models.RegistrationPending:
			stats.Pending++
		case models.RegistrationRejected:
			stats.Rejected++
		case models.RegistrationApproved:
			stats.Approved++
			parishes[c.Parish] = struct{}{}
			states[c.State]++
		}
	}
	stats.Parishes = len(parishes)

	for state, n := range states {
		stats.ByState = append(stats.ByState, StateCount{State: state, Count: n})
	}
	sort.Slice(stats.ByState, func(i, j int) bool {
		a, b := stats.ByState[i], stats.ByState[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.State < b.State
	})
	return stats, nil
}

// EncounterHistory lists every encounter recorded on any couple, once per
// (stage, number, date), highest number first. search matches theme, motto
// or the encounter number.
func (s *RegistrationService) EncounterHistory(ctx context.Context, search string) ([]models.EncounterRecord, error) {
	couples, err := s.couples.List(ctx)
	if err != nil {
		return nil, err
	}

	type key struct {
		stage  models.Stage
		number int
		date   int64
	}
	seen := make(map[key]bool)
	out := make([]models.EncounterRecord, 0)
	for _, c := range couples {
		for _, e := range c.Encounters {
			k := key{e.Stage, e.Number, e.Date.Unix()}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number > out[j].Number })

	search = strings.TrimSpace(search)
	if search == "" {
		return out, nil
	}
	filtered := out[:0]
	for _, e := range out {
		if containsFold(search, e.Theme, e.Motto) || strings.Contains(strconv.Itoa(e.Number), search) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}
