package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yeremiapane/hostel-app/models"
)

// SlotGroup holds the slots of one time window, machines ascending.
type SlotGroup struct {
	TimeSlot string               `json:"time_slot"`
	Window   string               `json:"window"`
	Slots    []models.LaundrySlot `json:"slots"`
}

type SlotSummary struct {
	Date       string `json:"date,omitempty"`
	Available  int64  `json:"available"`
	Booked     int64  `json:"booked"`
	InProgress int64  `json:"in_progress"`
	Total      int64  `json:"total"`
	HasBooking bool   `json:"has_booking"`
}

// ListSlots returns the slots of the caller's hostel, restricted to date when it is not empty.
// Slots are ordered by date, then morning to evening, then machine number.
func (s *LaundryService) ListSlots(ctx context.Context, userID uint, date string) ([]models.LaundrySlot, error) {
	if date != "" && !isValidDate(date) {
		return nil, ErrInvalidInput
	}

	student, err := s.ResolveStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := s.DB.WithContext(ctx).Preload("Student.User", occupantColumns(false)).Where("hostel_id = ?", student.HostelID)
	if date != "" {
		query = query.Where("date = ?", date)
	}

	var slots []models.LaundrySlot
	if err := query.Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list slots for hostel %d: %w", student.HostelID, err)
	}

	for i := range slots {
		slots[i].SetOccupant(false)
	}
	SortSlots(slots)
	return slots, nil
}

// SortSlots orders slots by date, time window and machine number.
func SortSlots(slots []models.LaundrySlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if ra, rb := models.TimeSlotRank(a.TimeSlot), models.TimeSlotRank(b.TimeSlot); ra != rb {
			return ra < rb
		}
		return a.MachineNumber < b.MachineNumber
	})
}

// GroupSlots groups slots by time window in the fixed morning to evening order.
// Windows without slots are omitted.
func GroupSlots(slots []models.LaundrySlot) []SlotGroup {
	byLabel := make(map[string][]models.LaundrySlot)
	for _, slot := range slots {
		byLabel[slot.TimeSlot] = append(byLabel[slot.TimeSlot], slot)
	}

	groups := make([]SlotGroup, 0, len(byLabel))
	for _, label := range models.TimeSlots {
		members, ok := byLabel[label]
		if !ok {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].MachineNumber < members[j].MachineNumber
		})
		groups = append(groups, SlotGroup{
			TimeSlot: label,
			Window:   models.TimeSlotWindow(label),
			Slots:    members,
		})
	}
	return groups
}

// Summary counts the caller's hostel slots per status.
func (s *LaundryService) Summary(ctx context.Context, userID uint, date string) (*SlotSummary, error) {
	if date != "" && !isValidDate(date) {
		return nil, ErrInvalidInput
	}

	student, err := s.ResolveStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status models.SlotStatus
		Total  int64
	}
	query := s.DB.WithContext(ctx).Model(&models.LaundrySlot{}).
		Select("status, COUNT(*) AS total").
		Where("hostel_id = ?", student.HostelID)
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("summarise slots: %w", err)
	}

	summary := &SlotSummary{Date: date}
	for _, row := range rows {
		switch row.Status {
		case models.SlotAvailable:
			summary.Available = row.Total
		case models.SlotBooked:
			summary.Booked = row.Total
		case models.SlotInProgress:
			summary.InProgress = row.Total
		}
		summary.Total += row.Total
	}

	if date != "" {
		var mine int64
		if err := s.DB.WithContext(ctx).Model(&models.LaundrySlot{}).
			Where("student_id = ? AND date = ? AND status = ?", userID, date, models.SlotBooked).
			Count(&mine).Error; err != nil {
			return nil, fmt.Errorf("count own bookings: %w", err)
		}
		summary.HasBooking = mine > 0
	}

	return summary, nil
}
