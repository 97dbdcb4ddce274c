package service

import (
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
)

func toGroupResponse(g *model.Group) *dto.GroupResponse {
	return &dto.GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toEventResponse(e *model.Event) *dto.EventResponse {
	return &dto.EventResponse{
		ID:              e.ID,
		GroupID:         e.GroupID,
		Name:            e.Name,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime(),
		DurationMinutes: e.DurationMinutes,
		AccessCode:      e.AccessCode,
		Status:          string(e.Status),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toAttendanceResponse(a *model.Attendance) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		ID:              a.ID,
		EventID:         a.EventID,
		ParticipantName: a.ParticipantName,
		CheckInTime:     a.CheckInTime,
	}
}
