package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
	"github.com/hourkeep/hourkeep/internal/timecalc"
)

// UserSummary aggregates one user's entries over a date range.
type UserSummary struct {
	UserID        string  `json:"userId"`
	UserName      string  `json:"userName"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	ActualHours   float64 `json:"actualHours"`
	BillableHours float64 `json:"billableHours"`
	TotalHours    float64 `json:"totalHours"`
	ExpectedHours float64 `json:"expectedHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	EntryCount    int     `json:"entryCount"`
	PendingCount  int     `json:"pendingCount"`
	ApprovedCount int     `json:"approvedCount"`
	RejectedCount int     `json:"rejectedCount"`
}

// TeamSummary is a per-member breakdown of everything logged against a
// team's associated targets over a range. Entries are matched to the team
// by target id; an entry shows up no matter who logged it, as long as the
// target belongs to the team.
type TeamSummary struct {
	TeamID        string        `json:"teamId"`
	TeamName      string        `json:"teamName"`
	Start         string        `json:"start"`
	End           string        `json:"end"`
	ActualHours   float64       `json:"actualHours"`
	BillableHours float64       `json:"billableHours"`
	Members       []UserSummary `json:"members"`
}

// ReportService computes summaries over stored entries. All aggregation
// happens in memory on filtered lists; ranges are bounded by the UI to at
// most a few months, so a single query per report is fine.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReportService(db *sql.DB, rm repomanager.RepositoryManager) *ReportService {
	return &ReportService{db: db, repomanager: rm}
}

// SummarizeUser totals one user's hours between start and end inclusive.
// Employees may only summarize themselves.
func (s *ReportService) SummarizeUser(ctx context.Context, actor Actor, userID, start, end string) (*UserSummary, error) {
	if !actor.Role.CanApprove() && actor.ID != userID {
		return nil, common.ErrorForbidden
	}
	from, to, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.repomanager.Entries(s.db).ListByUserAndRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	summary := summarize(user.ID, user.Name, start, end, from, to, list)
	return &summary, nil
}

// SummarizeTeam reports on a team's associated targets, grouped per member.
// Hours logged by non-members against those targets are folded into a
// synthetic "(external)" row so team totals still reconcile with the
// target totals.
func (s *ReportService) SummarizeTeam(ctx context.Context, actor Actor, teamID, start, end string) (*TeamSummary, error) {
	if !actor.Role.CanApprove() {
		return nil, common.ErrorForbidden
	}
	from, to, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}

	team, err := s.repomanager.Teams(s.db).Get(ctx, teamID)
	if err != nil {
		return nil, err
	}

	summary := &TeamSummary{TeamID: team.ID, TeamName: team.Name, Start: start, End: end}
	if len(team.AssociatedTargetIDs) == 0 {
		summary.Members = []UserSummary{}
		return summary, nil
	}

	list, err := s.repomanager.Entries(s.db).ListByTargetIDs(ctx, team.AssociatedTargetIDs, start, end)
	if err != nil {
		return nil, err
	}

	members := make(map[string]struct{}, len(team.MemberIDs))
	for _, id := range team.MemberIDs {
		members[id] = struct{}{}
	}

	grouped := make(map[string][]*models.TimeEntry)
	names := make(map[string]string)
	for _, e := range list {
		key := e.UserID
		name := e.UserName
		if _, ok := members[key]; !ok {
			key, name = "", "(external)"
		}
		grouped[key] = append(grouped[key], e)
		names[key] = name
		summary.ActualHours += e.ActualHours
		if e.IsBillable {
			summary.BillableHours += e.BillableHours
		}
	}

	summary.Members = make([]UserSummary, 0, len(grouped))
	for id, entries := range grouped {
		summary.Members = append(summary.Members, summarize(id, names[id], start, end, from, to, entries))
	}
	sort.Slice(summary.Members, func(i, j int) bool {
		return summary.Members[i].UserName < summary.Members[j].UserName
	})
	return summary, nil
}

func summarize(userID, userName, start, end string, from, to time.Time, list []*models.TimeEntry) UserSummary {
	s := UserSummary{UserID: userID, UserName: userName, Start: start, End: end}
	for _, e := range list {
		s.EntryCount++
		s.ActualHours += e.ActualHours
		s.TotalHours += e.TotalHours
		if e.IsBillable {
			s.BillableHours += e.BillableHours
		}
		switch e.Status {
		case models.StatusPending:
			s.PendingCount++
		case models.StatusApproved:
			s.ApprovedCount++
		case models.StatusRejected:
			s.RejectedCount++
		}
	}
	s.ExpectedHours = timecalc.ExpectedHours(from, to)
	s.OvertimeHours = timecalc.Overtime(s.ActualHours, from, to)
	return s
}

func validateRange(start, end string) (time.Time, time.Time, error) {
	from, err := timecalc.ParseDay(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start: %v", common.ErrorValidation, err)
	}
	to, err := timecalc.ParseDay(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end: %v", common.ErrorValidation, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end before start", common.ErrorValidation)
	}
	return from, to, nil
}
