package client

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/report"
)

// DefaultWatchInterval 签到名单轮询间隔
const DefaultWatchInterval = 3 * time.Second

var ErrNoSession = errors.New("no session started")

// SessionOptions Start 使用的分组与活动参数
type SessionOptions struct {
	GroupName       string
	EventName       string
	DurationMinutes int
}

// DefaultSessionOptions 一节课的默认参数
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		GroupName:       "WebTech Class",
		EventName:       "Web Technologies Session",
		DurationMinutes: 120,
	}
}

// Organizer 组织者角色：开场、展示二维码、实时查看名单、导出
type Organizer struct {
	api    *Client
	opts   SessionOptions
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	groupID     uint
	event       *dto.EventResponse
	attendance  []dto.AttendanceResponse
	cancelWatch context.CancelFunc
	watchDone   chan struct{}
}

// NewOrganizer 创建组织者；groupID 非 0 时复用已有分组
func NewOrganizer(api *Client, opts SessionOptions, groupID uint, logger *zap.Logger) *Organizer {
	return &Organizer{
		api:     api,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		groupID: groupID,
	}
}

// ════════════════════════════════════════════════════════════
// Start
// ════════════════════════════════════════════════════════════

// Start 确保分组存在，创建活动并立即开放签到
func (o *Organizer) Start(ctx context.Context) (*dto.EventResponse, error) {
	groupID, err := o.ensureGroup(ctx)
	if err != nil {
		return nil, err
	}

	start := o.now().UTC()
	event, err := o.api.CreateEvent(ctx, groupID, &dto.CreateEventRequest{
		Name:            o.opts.EventName,
		StartTime:       &start,
		DurationMinutes: o.opts.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}

	opened, err := o.api.SetEventStatus(ctx, event.ID, "OPEN")
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.event = opened
	o.attendance = nil
	o.mu.Unlock()

	o.logger.Info("签到已开放",
		zap.Uint("event_id", opened.ID),
		zap.String("access_code", opened.AccessCode),
	)
	return opened, nil
}

func (o *Organizer) ensureGroup(ctx context.Context) (uint, error) {
	o.mu.Lock()
	id := o.groupID
	o.mu.Unlock()
	if id != 0 {
		return id, nil
	}

	group, err := o.api.CreateGroup(ctx, &dto.CreateGroupRequest{Name: o.opts.GroupName})
	if err != nil {
		return 0, err
	}

	o.mu.Lock()
	o.groupID = group.ID
	o.mu.Unlock()
	return group.ID, nil
}

// Event 当前活动（未开场时为 nil）
func (o *Organizer) Event() *dto.EventResponse {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.event
}

// Attendance 最近一次同步到的签到名单
func (o *Organizer) Attendance() []dto.AttendanceResponse {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]dto.AttendanceResponse, len(o.attendance))
	copy(out, o.attendance)
	return out
}

// QRCode 获取当前活动访问码的二维码
func (o *Organizer) QRCode(ctx context.Context, size int) ([]byte, error) {
	event := o.Event()
	if event == nil {
		return nil, ErrNoSession
	}
	return o.api.QRCode(ctx, event.ID, size)
}

// Close 关闭当前活动的签到
func (o *Organizer) Close(ctx context.Context) error {
	event := o.Event()
	if event == nil {
		return ErrNoSession
	}
	_, err := o.api.SetEventStatus(ctx, event.ID, "CLOSED")
	return err
}

// ════════════════════════════════════════════════════════════
// Watch
// ════════════════════════════════════════════════════════════

// Sync 拉取一次签到名单
func (o *Organizer) Sync(ctx context.Context) ([]dto.AttendanceResponse, error) {
	event := o.Event()
	if event == nil {
		return nil, ErrNoSession
	}

	list, err := o.api.ListAttendance(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.attendance = list
	o.mu.Unlock()
	return list, nil
}

// Watch 每隔 interval 同步一次名单并回调 fn，直到 ctx 取消。
// 同一 Organizer 只保留一个轮询：再次调用会先停止上一个。
// 同步失败只记录日志，不中断轮询。
func (o *Organizer) Watch(ctx context.Context, interval time.Duration, fn func([]dto.AttendanceResponse)) error {
	if o.Event() == nil {
		return ErrNoSession
	}
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	o.mu.Lock()
	prevCancel, prevDone := o.cancelWatch, o.watchDone
	o.cancelWatch, o.watchDone = cancel, done
	o.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	defer close(done)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			list, err := o.Sync(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				o.logger.Warn("同步签到名单失败", zap.Error(err))
				continue
			}
			if fn != nil {
				fn(list)
			}
		}
	}
}

// StopWatch 停止当前轮询并等待其退出
func (o *Organizer) StopWatch() {
	o.mu.Lock()
	cancel, done := o.cancelWatch, o.watchDone
	o.cancelWatch, o.watchDone = nil, nil
	o.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// ════════════════════════════════════════════════════════════
// Export
// ════════════════════════════════════════════════════════════

// Export 将当前持有的名单写为 xlsx
func (o *Organizer) Export(w io.Writer) error {
	o.mu.Lock()
	event := o.event
	rows := make([]report.Row, 0, len(o.attendance))
	for _, a := range o.attendance {
		rows = append(rows, report.Row{ParticipantName: a.ParticipantName, CheckInTime: a.CheckInTime})
	}
	o.mu.Unlock()

	if event == nil {
		return ErrNoSession
	}
	return report.Write(w, report.Sheet{
		Title:    event.Name,
		Rows:     rows,
		Location: time.Local,
	})
}

// ExportFilename 本地导出文件名
func (o *Organizer) ExportFilename() string {
	name := o.opts.EventName
	if event := o.Event(); event != nil {
		name = event.Name
	}
	return report.Filename(name, o.now())
}
