package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/logging"
	"github.com/hourkeep/hourkeep/internal/server/config"
	"github.com/hourkeep/hourkeep/internal/server/models"
	approvalsrepo "github.com/hourkeep/hourkeep/internal/server/repositories/approvals"
	entriesrepo "github.com/hourkeep/hourkeep/internal/server/repositories/entries"
	notificationsrepo "github.com/hourkeep/hourkeep/internal/server/repositories/notifications"
	refreshtokensrepo "github.com/hourkeep/hourkeep/internal/server/repositories/refreshtokens"
	targetsrepo "github.com/hourkeep/hourkeep/internal/server/repositories/targets"
	teamsrepo "github.com/hourkeep/hourkeep/internal/server/repositories/teams"
	usersrepo "github.com/hourkeep/hourkeep/internal/server/repositories/users"
	"github.com/hourkeep/hourkeep/internal/server/services"
)

// memStore is one in-memory backing store; small per-aggregate adapters
// implement the repository interfaces over it. The DBTX vended by the
// manager is ignored, transactional flows run Begin/Commit against sqlmock.
type memStore struct {
	entries       map[string]*models.TimeEntry
	users         map[string]*models.User
	tokens        map[string]*models.RefreshToken
	targets       []*models.BillingTarget
	teams         []*models.Team
	approvals     []*models.ApprovalAction
	notifications []*models.Notification
}

func newMemStore() *memStore {
	return &memStore{
		entries: make(map[string]*models.TimeEntry),
		users:   make(map[string]*models.User),
		tokens:  make(map[string]*models.RefreshToken),
	}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *memStore) Entries(dbx.DBTX) entriesrepo.Repository             { return memEntries{m} }
func (m *memStore) Users(dbx.DBTX) usersrepo.Repository                 { return memUsers{m} }
func (m *memStore) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return memTokens{m} }
func (m *memStore) Teams(dbx.DBTX) teamsrepo.Repository                 { return memTeams{m} }
func (m *memStore) Targets(dbx.DBTX) targetsrepo.Repository             { return memTargets{m} }
func (m *memStore) Approvals(dbx.DBTX) approvalsrepo.Repository         { return memApprovals{m} }
func (m *memStore) Notifications(dbx.DBTX) notificationsrepo.Repository { return memNotifications{m} }

type memEntries struct{ s *memStore }

func (r memEntries) Save(ctx context.Context, e *models.TimeEntry) error {
	cp := *e
	r.s.entries[e.ID] = &cp
	return nil
}

func (r memEntries) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	e, ok := r.s.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (r memEntries) Delete(ctx context.Context, id string) error {
	delete(r.s.entries, id)
	return nil
}

func (r memEntries) sorted() []*models.TimeEntry {
	out := make([]*models.TimeEntry, 0, len(r.s.entries))
	for _, e := range r.s.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (r memEntries) List(ctx context.Context) ([]*models.TimeEntry, error) {
	return r.sorted(), nil
}

func (r memEntries) ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, e := range r.sorted() {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEntries) ListByDateRange(ctx context.Context, start, end string) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, e := range r.sorted() {
		if e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEntries) ListByUserAndRange(ctx context.Context, userID, start, end string) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, e := range r.sorted() {
		if e.UserID == userID && e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEntries) ListByTargetIDs(ctx context.Context, targetIDs []string, start, end string) ([]*models.TimeEntry, error) {
	want := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		want[id] = struct{}{}
	}
	var out []*models.TimeEntry
	for _, e := range r.sorted() {
		if _, ok := want[e.ProjectDetails.TargetID]; ok && e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEntries) ListByStatus(ctx context.Context, status models.EntryStatus) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, e := range r.sorted() {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEntries) UpdateStatus(ctx context.Context, id string, status models.EntryStatus, updatedAt time.Time) error {
	e, ok := r.s.entries[id]
	if !ok {
		return common.ErrorNotFound
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	return nil
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = u
	return u, nil
}

func (r memUsers) Get(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memTokens struct{ s *memStore }

func (r memTokens) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	r.s.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return rt, nil
}

func (r memTokens) Delete(ctx context.Context, token string) error {
	delete(r.s.tokens, token)
	return nil
}

type memTargets struct{ s *memStore }

func (r memTargets) Create(ctx context.Context, t *models.BillingTarget) error {
	r.s.targets = append(r.s.targets, t)
	return nil
}

func (r memTargets) Get(ctx context.Context, id string) (*models.BillingTarget, error) {
	for _, t := range r.s.targets {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memTargets) GetByCategoryAndName(ctx context.Context, category, name string) (*models.BillingTarget, error) {
	for _, t := range r.s.targets {
		if t.Category == category && t.Name == name {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memTargets) List(ctx context.Context) ([]*models.BillingTarget, error) {
	return r.s.targets, nil
}

func (r memTargets) ListByCategory(ctx context.Context, category string) ([]*models.BillingTarget, error) {
	var out []*models.BillingTarget
	for _, t := range r.s.targets {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTargets) ListByIDs(ctx context.Context, ids []string) ([]*models.BillingTarget, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*models.BillingTarget
	for _, t := range r.s.targets {
		if _, ok := want[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type memTeams struct{ s *memStore }

func (r memTeams) Create(ctx context.Context, team *models.Team) error {
	r.s.teams = append(r.s.teams, team)
	return nil
}

func (r memTeams) Get(ctx context.Context, id string) (*models.Team, error) {
	for _, t := range r.s.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memTeams) List(ctx context.Context) ([]*models.Team, error) {
	return r.s.teams, nil
}

func (r memTeams) ListByMember(ctx context.Context, userID string) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range r.s.teams {
		for _, id := range t.MemberIDs {
			if id == userID {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

type memApprovals struct{ s *memStore }

func (r memApprovals) Append(ctx context.Context, a *models.ApprovalAction) error {
	r.s.approvals = append(r.s.approvals, a)
	return nil
}

func (r memApprovals) ListByEntry(ctx context.Context, entryID string) ([]*models.ApprovalAction, error) {
	var out []*models.ApprovalAction
	for _, a := range r.s.approvals {
		if a.EntryID == entryID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memNotifications struct{ s *memStore }

func (r memNotifications) Create(ctx context.Context, n *models.Notification) error {
	r.s.notifications = append(r.s.notifications, n)
	return nil
}

func (r memNotifications) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r memNotifications) MarkRead(ctx context.Context, id string) error {
	for _, n := range r.s.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r memNotifications) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

const testSecret = "test-secret"

type testEnv struct {
	server *Server
	store  *memStore
	mock   sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := newMemStore()
	cfg := &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 24 * time.Hour,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := NewServer(
		":0",
		logger,
		services.NewUserService(db, store, cfg),
		services.NewEntryService(db, store),
		services.NewApprovalService(db, store),
		services.NewResolverService(db, store),
		services.NewReportService(db, store),
		services.NewExportService(db, store, cfg),
		services.NewNotifyService(db, store),
		services.NewCatalogService(db, store),
		testSecret,
	)
	return &testEnv{server: srv, store: store, mock: mock}
}
