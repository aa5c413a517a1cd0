package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
)

// In-memory repository fakes. Each keeps rows in a map guarded by a
// mutex and mirrors the behavior the GORM implementations promise:
// First returns gorm.ErrRecordNotFound, idempotent creates report
// whether the insert happened.

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*model.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) ListActiveByVessel(_ context.Context, imo string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		if u.IsActive && u.AssignedTo(imo) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

type mockVesselRepo struct {
	mu      sync.Mutex
	vessels map[string]*model.Vessel
}

func newMockVesselRepo() *mockVesselRepo {
	return &mockVesselRepo{vessels: map[string]*model.Vessel{}}
}

func (m *mockVesselRepo) Create(_ context.Context, vessel *model.Vessel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *vessel
	m.vessels[vessel.IMO] = &cp
	return nil
}

func (m *mockVesselRepo) GetByIMO(_ context.Context, imo string) (*model.Vessel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vessels[imo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockVesselRepo) GetByIMOWithUsers(ctx context.Context, imo string) (*model.Vessel, error) {
	return m.GetByIMO(ctx, imo)
}

func (m *mockVesselRepo) ListByIMOs(_ context.Context, imos []string) ([]model.Vessel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Vessel
	for _, imo := range imos {
		if v, ok := m.vessels[imo]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockVesselRepo) List(_ context.Context) ([]model.Vessel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Vessel, 0, len(m.vessels))
	for _, v := range m.vessels {
		out = append(out, *v)
	}
	return out, nil
}

type mockDefectRepo struct {
	mu      sync.Mutex
	defects map[string]*model.Defect
}

func newMockDefectRepo() *mockDefectRepo {
	return &mockDefectRepo{defects: map[string]*model.Defect{}}
}

func (m *mockDefectRepo) CreateIdempotent(_ context.Context, defect *model.Defect) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.defects[defect.DefectID]; exists {
		return false, nil
	}
	if defect.CreatedAt.IsZero() {
		defect.CreatedAt = time.Now()
	}
	cp := *defect
	m.defects[defect.DefectID] = &cp
	return true, nil
}

func (m *mockDefectRepo) GetByID(_ context.Context, id string) (*model.Defect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.defects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDefectRepo) List(_ context.Context, filters repository.DefectListFilters) ([]model.Defect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Defect{}
	for _, d := range m.defects {
		if d.IsDeleted {
			continue
		}
		if filters.VesselIMOs != nil && !contains(filters.VesselIMOs, d.VesselIMO) {
			continue
		}
		if filters.VesselIMO != "" && d.VesselIMO != filters.VesselIMO {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDefectRepo) Update(_ context.Context, defect *model.Defect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *defect
	m.defects[defect.DefectID] = &cp
	return nil
}

type mockThreadRepo struct {
	mu      sync.Mutex
	threads map[string]*model.Thread
	order   []string
}

func newMockThreadRepo() *mockThreadRepo {
	return &mockThreadRepo{threads: map[string]*model.Thread{}}
}

func (m *mockThreadRepo) CreateIdempotent(_ context.Context, thread *model.Thread) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.threads[thread.ThreadID]; exists {
		return false, nil
	}
	m.insert(thread)
	return true, nil
}

func (m *mockThreadRepo) Create(_ context.Context, thread *model.Thread) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if thread.ThreadID == "" {
		thread.ThreadID = fmt.Sprintf("thread-%d", len(m.threads)+1)
	}
	m.insert(thread)
	return nil
}

func (m *mockThreadRepo) insert(thread *model.Thread) {
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = time.Now()
	}
	cp := *thread
	m.threads[thread.ThreadID] = &cp
	m.order = append(m.order, thread.ThreadID)
}

func (m *mockThreadRepo) GetByID(_ context.Context, id string) (*model.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockThreadRepo) ListByDefect(_ context.Context, defectID string) ([]model.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Thread{}
	for _, id := range m.order {
		if t := m.threads[id]; t.DefectID == defectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

type mockAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[string]*model.Attachment
}

func newMockAttachmentRepo() *mockAttachmentRepo {
	return &mockAttachmentRepo{attachments: map[string]*model.Attachment{}}
}

func (m *mockAttachmentRepo) CreateIdempotent(_ context.Context, attachment *model.Attachment) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.attachments[attachment.AttachmentID]; exists {
		return false, nil
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now()
	}
	cp := *attachment
	m.attachments[attachment.AttachmentID] = &cp
	return true, nil
}

func (m *mockAttachmentRepo) GetByID(_ context.Context, id string) (*model.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attachments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

type mockPrEntryRepo struct {
	mu      sync.Mutex
	entries map[string]*model.PrEntry
}

func newMockPrEntryRepo() *mockPrEntryRepo {
	return &mockPrEntryRepo{entries: map[string]*model.PrEntry{}}
}

func (m *mockPrEntryRepo) Create(_ context.Context, entry *model.PrEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.PrEntryID == "" {
		entry.PrEntryID = fmt.Sprintf("pr-%d", len(m.entries)+1)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	cp := *entry
	m.entries[entry.PrEntryID] = &cp
	return nil
}

func (m *mockPrEntryRepo) GetByID(_ context.Context, id string) (*model.PrEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockPrEntryRepo) ListByDefect(_ context.Context, defectID string) ([]model.PrEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.PrEntry{}
	for _, e := range m.entries {
		if e.DefectID == defectID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockPrEntryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

type mockTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*model.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: map[string]*model.Task{}}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task.TaskID == "" {
		task.TaskID = fmt.Sprintf("task-%d", len(m.tasks)+1)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	cp := *task
	m.tasks[task.TaskID] = &cp
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTaskRepo) ListByAssignee(_ context.Context, userID string) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Task{}
	for _, t := range m.tasks {
		if t.AssignedToID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *task
	m.tasks[task.TaskID] = &cp
	return nil
}

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: map[string]*model.Notification{}}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if notification.NotificationID == "" {
		notification.NotificationID = fmt.Sprintf("notif-%d", len(m.notifications)+1)
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	cp := *notification
	m.notifications[notification.NotificationID] = &cp
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Notification{}
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) Update(_ context.Context, notification *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *notification
	m.notifications[notification.NotificationID] = &cp
	return nil
}

func (m *mockNotificationRepo) MarkAllSeen(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsSeen = true
		}
	}
	return nil
}

// newMockRepository assembles an aggregate over the in-memory fakes.
// The db handle stays nil, so Transaction runs callbacks directly.
func newMockRepository() (*repository.Repository, *mocks) {
	m := &mocks{
		users:         newMockUserRepo(),
		vessels:       newMockVesselRepo(),
		defects:       newMockDefectRepo(),
		threads:       newMockThreadRepo(),
		attachments:   newMockAttachmentRepo(),
		prEntries:     newMockPrEntryRepo(),
		tasks:         newMockTaskRepo(),
		notifications: newMockNotificationRepo(),
	}
	repo := &repository.Repository{
		User:         m.users,
		Vessel:       m.vessels,
		Defect:       m.defects,
		Thread:       m.threads,
		Attachment:   m.attachments,
		PrEntry:      m.prEntries,
		Task:         m.tasks,
		Notification: m.notifications,
	}
	return repo, m
}

type mocks struct {
	users         *mockUserRepo
	vessels       *mockVesselRepo
	defects       *mockDefectRepo
	threads       *mockThreadRepo
	attachments   *mockAttachmentRepo
	prEntries     *mockPrEntryRepo
	tasks         *mockTaskRepo
	notifications *mockNotificationRepo
}

// mockMailer records the events it was asked to send.
type mockMailer struct {
	mu     sync.Mutex
	events []EmailEvent
}

func (m *mockMailer) SendDefectEvent(event EmailEvent, _ model.Defect, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// mockSigner mints predictable URLs.
type mockSigner struct{}

func (mockSigner) WriteURL(blobName string) (string, error) {
	return "https://example.blob.core.windows.net/c/" + blobName + "?sig=w", nil
}

func (mockSigner) ReadURL(blobPath string) (string, error) {
	return "https://example.blob.core.windows.net/c/" + blobPath + "?sig=r", nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
