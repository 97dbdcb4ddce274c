package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/report"
)

// fakeServer 记录请求并返回固定数据的最小服务端
type fakeServer struct {
	mu          sync.Mutex
	groupsMade  int
	status      string
	listCalls   int32
	failList    atomic.Bool
	attendances []dto.AttendanceResponse
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.groupsMade++
		f.mu.Unlock()
		writeEnvelope(w, http.StatusCreated, "ok", dto.GroupResponse{ID: 7, Name: "WebTech Class"})
	})
	mux.HandleFunc("/groups/7/events", func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateEventRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.StartTime == nil || req.DurationMinutes != 120 {
			t.Errorf("unexpected event request %+v", req)
		}
		writeEnvelope(w, http.StatusCreated, "ok", dto.EventResponse{ID: 3, GroupID: 7, Name: req.Name, AccessCode: "K7Q2MX", Status: "CLOSED"})
	})
	mux.HandleFunc("/events/3/status", func(w http.ResponseWriter, r *http.Request) {
		var req dto.UpdateEventStatusRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.status = req.Status
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, "ok", dto.EventResponse{ID: 3, GroupID: 7, Name: "Web Technologies Session", AccessCode: "K7Q2MX", Status: req.Status})
	})
	mux.HandleFunc("/events/3/attendance", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.listCalls, 1)
		if f.failList.Load() {
			writeEnvelope(w, http.StatusInternalServerError, "Server error.", nil)
			return
		}
		f.mu.Lock()
		list := f.attendances
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, "success", list)
	})
	mux.HandleFunc("/events/3/qrcode", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\x89PNG"))
	})
	return mux
}

func setupOrganizer(t *testing.T) (*Organizer, *fakeServer) {
	t.Helper()
	f := &fakeServer{}
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewOrganizer(New(srv.URL, nil), DefaultSessionOptions(), 0, zap.NewNop()), f
}

func TestOrganizer_Start(t *testing.T) {
	o, f := setupOrganizer(t)
	ctx := context.Background()

	event, err := o.Start(ctx)
	if err != nil {
		t.Fatalf("Start should succeed: %v", err)
	}
	if event.Status != "OPEN" || event.AccessCode != "K7Q2MX" {
		t.Errorf("unexpected event %+v", event)
	}

	// 第二次开场复用已创建的分组
	if _, err := o.Start(ctx); err != nil {
		t.Fatalf("second Start should succeed: %v", err)
	}
	if f.groupsMade != 1 {
		t.Errorf("group should be created once, got %d", f.groupsMade)
	}

	png, err := o.QRCode(ctx, 0)
	if err != nil || string(png) != "\x89PNG" {
		t.Errorf("unexpected QR result %q, %v", png, err)
	}

	if err := o.Close(ctx); err != nil {
		t.Fatalf("Close should succeed: %v", err)
	}
	if f.status != "CLOSED" {
		t.Errorf("expected CLOSED, got %s", f.status)
	}
}

func TestOrganizer_NoSession(t *testing.T) {
	o := NewOrganizer(New("http://127.0.0.1:0", nil), DefaultSessionOptions(), 0, zap.NewNop())

	if _, err := o.QRCode(context.Background(), 0); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if err := o.Watch(context.Background(), time.Millisecond, nil); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if err := o.Export(&bytes.Buffer{}); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestOrganizer_Watch(t *testing.T) {
	o, f := setupOrganizer(t)
	if _, err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.attendances = []dto.AttendanceResponse{{ID: 1, EventID: 3, ParticipantName: "Ana", CheckInTime: time.Now().UTC()}}

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan []dto.AttendanceResponse, 10)
	errCh := make(chan error, 1)
	go func() {
		errCh <- o.Watch(ctx, 10*time.Millisecond, func(list []dto.AttendanceResponse) {
			updates <- list
		})
	}()

	select {
	case list := <-updates:
		if len(list) != 1 || list[0].ParticipantName != "Ana" {
			t.Errorf("unexpected list %+v", list)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if got := o.Attendance(); len(got) != 1 {
		t.Errorf("held list should be kept, got %d", len(got))
	}
}

func TestOrganizer_Watch_SurvivesErrors(t *testing.T) {
	o, f := setupOrganizer(t)
	o.Start(context.Background())
	f.failList.Store(true)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	err := o.Watch(ctx, 10*time.Millisecond, func([]dto.AttendanceResponse) {
		t.Error("callback should not run when sync fails")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if atomic.LoadInt32(&f.listCalls) < 2 {
		t.Errorf("polling should continue after failures, got %d calls", atomic.LoadInt32(&f.listCalls))
	}
}

func TestOrganizer_Watch_ReplacesPrevious(t *testing.T) {
	o, _ := setupOrganizer(t)
	o.Start(context.Background())

	firstErr := make(chan error, 1)
	go func() {
		firstErr <- o.Watch(context.Background(), 10*time.Millisecond, nil)
	}()
	time.Sleep(30 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	secondErr := make(chan error, 1)
	go func() {
		secondErr <- o.Watch(ctx, 10*time.Millisecond, nil)
	}()

	select {
	case err := <-firstErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("first watch should be cancelled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first watch was not stopped")
	}

	cancel()
	<-secondErr
	o.StopWatch()
}

func TestOrganizer_Export(t *testing.T) {
	o, f := setupOrganizer(t)
	o.Start(context.Background())
	f.attendances = []dto.AttendanceResponse{
		{ID: 2, ParticipantName: "Bob", CheckInTime: time.Now()},
		{ID: 1, ParticipantName: "Ana", CheckInTime: time.Now()},
	}
	if _, err := o.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	var buf bytes.Buffer
	if err := o.Export(&buf); err != nil {
		t.Fatalf("Export should succeed: %v", err)
	}

	f2, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f2.Close()
	name, _ := f2.GetCellValue(report.SheetName, "B3")
	if name != "Bob" {
		t.Errorf("expected first row Bob, got %q", name)
	}
	if fn := o.ExportFilename(); !strings.HasPrefix(fn, "Report_Web_Technologies_Session_") {
		t.Errorf("unexpected filename %s", fn)
	}
}
