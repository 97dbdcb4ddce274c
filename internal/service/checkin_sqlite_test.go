package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/config"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/repository"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/advice"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/database"
)

// setupSQLiteService 使用内存 SQLite 与真实迁移构建完整 Service
func setupSQLiteService(t *testing.T) *Service {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.NewDB(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   fmt.Sprintf("file:svc_%d?mode=memory&cache=shared", time.Now().UnixNano()),
	}, "error", logger)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(sqlDB, config.DriverSQLite, logger))

	return NewService(&config.Config{}, repository.NewRepository(db), advice.Static("Keep going."), logger)
}

// 完整流程：建组、建活动、开放、签到、查询、关闭后拒绝
func TestCheckinFlow_SQLite(t *testing.T) {
	svc := setupSQLiteService(t)
	ctx := context.Background()

	group, err := svc.Group.Create(ctx, &dto.CreateGroupRequest{Name: "WebTech"})
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	event, err := svc.Event.Create(ctx, group.ID, &dto.CreateEventRequest{
		Name:            "Session 1",
		StartTime:       &start,
		DurationMinutes: 120,
	})
	require.NoError(t, err)
	require.Equal(t, "CLOSED", event.Status)

	_, err = svc.Checkin.CheckIn(ctx, &dto.CheckinRequest{AccessCode: event.AccessCode, ParticipantName: "Ana"})
	require.ErrorIs(t, err, ErrEventClosed)

	_, err = svc.Event.SetStatus(ctx, event.ID, &dto.UpdateEventStatusRequest{Status: "OPEN"})
	require.NoError(t, err)

	result, err := svc.Checkin.CheckIn(ctx, &dto.CheckinRequest{AccessCode: event.AccessCode, ParticipantName: "Ana"})
	require.NoError(t, err)
	require.Equal(t, "Check-in successful for Ana!", result.Message)
	require.Equal(t, "Keep going.", result.Advice)

	_, err = svc.Checkin.CheckIn(ctx, &dto.CheckinRequest{AccessCode: "ZZZZZZ", ParticipantName: "Ana"})
	require.ErrorIs(t, err, ErrInvalidAccessCode)

	list, err := svc.Checkin.ListAttendance(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ana", list[0].ParticipantName)

	_, err = svc.Event.SetStatus(ctx, event.ID, &dto.UpdateEventStatusRequest{Status: "CLOSED"})
	require.NoError(t, err)
	_, err = svc.Checkin.CheckIn(ctx, &dto.CheckinRequest{AccessCode: event.AccessCode, ParticipantName: "Bob"})
	require.ErrorIs(t, err, ErrEventClosed)

	require.NoError(t, svc.Group.Delete(ctx, group.ID))
	_, err = svc.Event.GetByID(ctx, event.ID)
	require.ErrorIs(t, err, ErrEventNotFound)
}

// 并发签到全部落库
func TestCheckinConcurrent_SQLite(t *testing.T) {
	svc := setupSQLiteService(t)
	ctx := context.Background()

	group, err := svc.Group.Create(ctx, &dto.CreateGroupRequest{Name: "Load"})
	require.NoError(t, err)
	start := time.Now().UTC()
	event, err := svc.Event.Create(ctx, group.ID, &dto.CreateEventRequest{
		Name: "Rush", StartTime: &start, DurationMinutes: 60,
	})
	require.NoError(t, err)
	_, err = svc.Event.SetStatus(ctx, event.ID, &dto.UpdateEventStatusRequest{Status: "OPEN"})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Checkin.CheckIn(ctx, &dto.CheckinRequest{
				AccessCode:      event.AccessCode,
				ParticipantName: fmt.Sprintf("Student %02d", i),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	list, err := svc.Checkin.ListAttendance(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, list, n)
}
