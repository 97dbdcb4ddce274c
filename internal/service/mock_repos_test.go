package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/repository"
)

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups map[uint]*model.Group
	nextID uint
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[uint]*model.Group)}
}

func (m *mockGroupRepo) Create(_ context.Context, g *model.Group) error {
	m.nextID++
	g.ID = m.nextID
	g.CreatedAt = time.Now().UTC()
	g.UpdatedAt = g.CreatedAt
	m.groups[g.ID] = g
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id uint) (*model.Group, error) {
	if g, ok := m.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.Group, error) {
	result := make([]model.Group, 0, len(m.groups))
	for _, g := range m.groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id uint) error {
	delete(m.groups, id)
	return nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[uint]*model.Event
	nextID uint
	// createErr 非空时 Create 直接返回该错误
	createErr error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[uint]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.events {
		if existing.AccessCode == e.AccessCode {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id uint) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) GetByAccessCode(_ context.Context, code string) (*model.Event, error) {
	for _, e := range m.events {
		if e.AccessCode == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) GetByAccessCodeForUpdate(ctx context.Context, code string) (*model.Event, error) {
	return m.GetByAccessCode(ctx, code)
}

func (m *mockEventRepo) ListByGroup(_ context.Context, groupID uint) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		if e.GroupID == groupID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockEventRepo) UpdateStatus(_ context.Context, id uint, status model.EventStatus) error {
	if e, ok := m.events[id]; ok {
		e.Status = status
		e.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id uint) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) DeleteByGroup(_ context.Context, groupID uint) error {
	for id, e := range m.events {
		if e.GroupID == groupID {
			delete(m.events, id)
		}
	}
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records []*model.Attendance
	nextID  uint
	events  *mockEventRepo
}

func newMockAttendanceRepo(events *mockEventRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{events: events}
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockAttendanceRepo) ListByEvent(_ context.Context, eventID uint) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.records {
		if a.EventID == eventID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CheckInTime.Equal(result[j].CheckInTime) {
			return result[i].CheckInTime.After(result[j].CheckInTime)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (m *mockAttendanceRepo) CountByEvent(_ context.Context, eventID uint) (int64, error) {
	var n int64
	for _, a := range m.records {
		if a.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) DeleteByEvent(_ context.Context, eventID uint) error {
	kept := m.records[:0]
	for _, a := range m.records {
		if a.EventID != eventID {
			kept = append(kept, a)
		}
	}
	m.records = kept
	return nil
}

func (m *mockAttendanceRepo) DeleteByGroup(_ context.Context, groupID uint) error {
	kept := m.records[:0]
	for _, a := range m.records {
		if e, ok := m.events.events[a.EventID]; ok && e.GroupID == groupID {
			continue
		}
		kept = append(kept, a)
	}
	m.records = kept
	return nil
}

// ── 聚合 ──

type mockRepos struct {
	group      *mockGroupRepo
	event      *mockEventRepo
	attendance *mockAttendanceRepo
	repo       *repository.Repository
}

func newMockRepos() *mockRepos {
	g := newMockGroupRepo()
	e := newMockEventRepo()
	a := newMockAttendanceRepo(e)
	return &mockRepos{
		group:      g,
		event:      e,
		attendance: a,
		repo: &repository.Repository{
			Group:      g,
			Event:      e,
			Attendance: a,
		},
	}
}

// seedEvent 直接写入一个分组和活动
func (m *mockRepos) seedEvent(code string, status model.EventStatus) *model.Event {
	g := &model.Group{Name: "X"}
	_ = m.group.Create(context.Background(), g)
	e := &model.Event{
		GroupID:         g.ID,
		Name:            "Lab",
		StartTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 120,
		AccessCode:      code,
		Status:          status,
	}
	_ = m.event.Create(context.Background(), e)
	return e
}
