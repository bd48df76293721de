package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/models"
	approvalsrepo "github.com/hourkeep/hourkeep/internal/server/repositories/approvals"
	entriesrepo "github.com/hourkeep/hourkeep/internal/server/repositories/entries"
	notificationsrepo "github.com/hourkeep/hourkeep/internal/server/repositories/notifications"
	refreshtokensrepo "github.com/hourkeep/hourkeep/internal/server/repositories/refreshtokens"
	targetsrepo "github.com/hourkeep/hourkeep/internal/server/repositories/targets"
	teamsrepo "github.com/hourkeep/hourkeep/internal/server/repositories/teams"
	usersrepo "github.com/hourkeep/hourkeep/internal/server/repositories/users"
)

// In-memory repositories shared by the service tests. They ignore the
// DBTX handle, so transactional paths are exercised against a sqlmock DB
// with Begin/Commit expectations while the data lives here.

func newMockDB(t interface {
	Helper()
	Fatalf(string, ...any)
}) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeEntriesRepo struct {
	byID map[string]*models.TimeEntry

	saveErr         error
	getErr          error
	updateStatusErr error
}

func newFakeEntriesRepo() *fakeEntriesRepo {
	return &fakeEntriesRepo{byID: make(map[string]*models.TimeEntry)}
}

func (f *fakeEntriesRepo) Save(ctx context.Context, e *models.TimeEntry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEntriesRepo) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEntriesRepo) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeEntriesRepo) all() []*models.TimeEntry {
	out := make([]*models.TimeEntry, 0, len(f.byID))
	for _, e := range f.byID {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (f *fakeEntriesRepo) List(ctx context.Context) ([]*models.TimeEntry, error) {
	return f.all(), nil
}

func (f *fakeEntriesRepo) ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, e := range f.all() {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntriesRepo) ListByDateRange(ctx context.Context, start, end string) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, e := range f.all() {
		if e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntriesRepo) ListByUserAndRange(ctx context.Context, userID, start, end string) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, e := range f.all() {
		if e.UserID == userID && e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntriesRepo) ListByTargetIDs(ctx context.Context, targetIDs []string, start, end string) ([]*models.TimeEntry, error) {
	ids := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		ids[id] = struct{}{}
	}
	var out []*models.TimeEntry
	for _, e := range f.all() {
		if _, ok := ids[e.ProjectDetails.TargetID]; ok && e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntriesRepo) ListByStatus(ctx context.Context, status models.EntryStatus) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, e := range f.all() {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntriesRepo) UpdateStatus(ctx context.Context, id string, status models.EntryStatus, updatedAt time.Time) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	e, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	return nil
}

type fakeUsersRepo struct {
	byID map[string]*models.User

	createErr error
	getErr    error
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: make(map[string]*models.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorValidation
		}
	}
	u.CreatedAt = time.Now()
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) Get(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeRefreshRepo struct {
	byToken map[string]*models.RefreshToken

	createErr error
	findErr   error
	deleteErr error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{byToken: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byToken[token] = &models.RefreshToken{
		UserID:  userID,
		Token:   token,
		Expires: time.Now().Add(validity),
	}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	rt, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return rt, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byToken, token)
	return nil
}

type fakeTeamsRepo struct {
	teams []*models.Team

	listByMemberErr error
}

func (f *fakeTeamsRepo) Create(ctx context.Context, team *models.Team) error {
	f.teams = append(f.teams, team)
	return nil
}

func (f *fakeTeamsRepo) Get(ctx context.Context, id string) (*models.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTeamsRepo) List(ctx context.Context) ([]*models.Team, error) {
	return f.teams, nil
}

func (f *fakeTeamsRepo) ListByMember(ctx context.Context, userID string) ([]*models.Team, error) {
	if f.listByMemberErr != nil {
		return nil, f.listByMemberErr
	}
	var out []*models.Team
	for _, t := range f.teams {
		for _, m := range t.MemberIDs {
			if m == userID {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

type fakeTargetsRepo struct {
	targets []*models.BillingTarget

	getErr error
}

func (f *fakeTargetsRepo) Create(ctx context.Context, target *models.BillingTarget) error {
	f.targets = append(f.targets, target)
	return nil
}

func (f *fakeTargetsRepo) Get(ctx context.Context, id string) (*models.BillingTarget, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, t := range f.targets {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTargetsRepo) GetByCategoryAndName(ctx context.Context, category, name string) (*models.BillingTarget, error) {
	for _, t := range f.targets {
		if t.Category == category && t.Name == name {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTargetsRepo) List(ctx context.Context) ([]*models.BillingTarget, error) {
	return f.targets, nil
}

func (f *fakeTargetsRepo) ListByCategory(ctx context.Context, category string) ([]*models.BillingTarget, error) {
	var out []*models.BillingTarget
	for _, t := range f.targets {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTargetsRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.BillingTarget, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*models.BillingTarget
	for _, t := range f.targets {
		if _, ok := want[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeApprovalsRepo struct {
	actions []*models.ApprovalAction

	appendErr error
}

func (f *fakeApprovalsRepo) Append(ctx context.Context, a *models.ApprovalAction) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.actions = append(f.actions, a)
	return nil
}

func (f *fakeApprovalsRepo) ListByEntry(ctx context.Context, entryID string) ([]*models.ApprovalAction, error) {
	var out []*models.ApprovalAction
	for _, a := range f.actions {
		if a.EntryID == entryID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeNotificationsRepo struct {
	notifications []*models.Notification

	createErr error
}

func (f *fakeNotificationsRepo) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationsRepo) MarkRead(ctx context.Context, id string) error {
	for _, n := range f.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeNotificationsRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

type fakeRepoManager struct {
	entries       *fakeEntriesRepo
	users         *fakeUsersRepo
	refresh       *fakeRefreshRepo
	teams         *fakeTeamsRepo
	targets       *fakeTargetsRepo
	approvals     *fakeApprovalsRepo
	notifications *fakeNotificationsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		entries:       newFakeEntriesRepo(),
		users:         newFakeUsersRepo(),
		refresh:       newFakeRefreshRepo(),
		teams:         &fakeTeamsRepo{},
		targets:       &fakeTargetsRepo{},
		approvals:     &fakeApprovalsRepo{},
		notifications: &fakeNotificationsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Entries(dbx.DBTX) entriesrepo.Repository      { return m.entries }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository {
	return m.refresh
}
func (m *fakeRepoManager) Teams(dbx.DBTX) teamsrepo.Repository       { return m.teams }
func (m *fakeRepoManager) Targets(dbx.DBTX) targetsrepo.Repository   { return m.targets }
func (m *fakeRepoManager) Approvals(dbx.DBTX) approvalsrepo.Repository {
	return m.approvals
}
func (m *fakeRepoManager) Notifications(dbx.DBTX) notificationsrepo.Repository {
	return m.notifications
}
