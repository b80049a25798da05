package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

// LaundryService owns the laundry slot catalog and the booking workflow.
// Every call receives the authenticated user id explicitly.
type LaundryService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewLaundryService(db *gorm.DB) *LaundryService {
	return &LaundryService{DB: db, Now: time.Now}
}

type BookSlotInput struct {
	MachineNumber int
	Date          string
	TimeSlot      string
}

// ResolveStudent returns the student record for userID, which carries the hostel membership.
func (s *LaundryService) ResolveStudent(ctx context.Context, userID uint) (*models.Student, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	var student models.Student
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve student %d: %w", userID, err)
	}
	return &student, nil
}

// GetSlot returns one slot of the caller's hostel with occupant and hostel details.
func (s *LaundryService) GetSlot(ctx context.Context, userID, slotID uint) (*models.LaundrySlot, error) {
	student, err := s.ResolveStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	var slot models.LaundrySlot
	err = s.DB.WithContext(ctx).
		Preload("Student.User", occupantColumns(true)).
		Preload("Hostel").
		Where("id = ? AND hostel_id = ?", slotID, student.HostelID).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %d: %w", slotID, err)
	}
	slot.SetOccupant(true)
	return &slot, nil
}

// BookSlot books the slot identified by (hostel, machine, date, time slot) for userID.
// The availability check and the write are a single conditional update, so two
// concurrent bookers cannot both win.
func (s *LaundryService) BookSlot(ctx context.Context, userID uint, in BookSlotInput) (*models.LaundrySlot, error) {
	if in.MachineNumber < 1 || !isValidDate(in.Date) || !models.IsValidTimeSlot(in.TimeSlot) {
		return nil, ErrInvalidInput
	}

	student, err := s.ResolveStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	var slotID uint
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.LaundrySlot{}).
			Where("student_id = ? AND date = ? AND status = ?", userID, in.Date, models.SlotBooked).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing bookings: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateBooking
		}

		var slot models.LaundrySlot
		err := tx.Select("id").
			Where("hostel_id = ? AND machine_number = ? AND date = ? AND time_slot = ?",
				student.HostelID, in.MachineNumber, in.Date, in.TimeSlot).
			First(&slot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		if err != nil {
			return fmt.Errorf("find slot: %w", err)
		}

		res := tx.Model(&models.LaundrySlot{}).
			Where("id = ? AND status = ?", slot.ID, models.SlotAvailable).
			Updates(map[string]interface{}{
				"status":     models.SlotBooked,
				"student_id": userID,
				"updated_at": s.Now(),
			})
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			// a concurrent request booked another slot for the same day
			return ErrDuplicateBooking
		}
		if res.Error != nil {
			return fmt.Errorf("book slot %d: %w", slot.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSlotUnavailable
		}

		slotID = slot.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"slot_id": slotID,
		"user_id": userID,
		"date":    in.Date,
	}).Info("laundry slot booked")

	return s.loadSlot(ctx, slotID)
}

// CancelBooking releases a slot booked by userID back to available.
// Slots held by someone else fail with ErrNotAuthorized; slots not booked fail with ErrSlotNotBooked.
func (s *LaundryService) CancelBooking(ctx context.Context, userID, slotID uint) (*models.LaundrySlot, error) {
	student, err := s.ResolveStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.LaundrySlot
		err := tx.Where("id = ? AND hostel_id = ?", slotID, student.HostelID).First(&slot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		if err != nil {
			return fmt.Errorf("find slot %d: %w", slotID, err)
		}

		if slot.OccupantID != nil && *slot.OccupantID != userID {
			return ErrNotAuthorized
		}
		if slot.Status != models.SlotBooked {
			return ErrSlotNotBooked
		}

		res := tx.Model(&models.LaundrySlot{}).
			Where("id = ? AND status = ? AND student_id = ?", slot.ID, models.SlotBooked, userID).
			Updates(map[string]interface{}{
				"status":     models.SlotAvailable,
				"student_id": nil,
				"updated_at": s.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("cancel slot %d: %w", slot.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSlotNotBooked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"slot_id": slotID,
		"user_id": userID,
	}).Info("laundry booking cancelled")

	return s.loadSlot(ctx, slotID)
}

func (s *LaundryService) loadSlot(ctx context.Context, slotID uint) (*models.LaundrySlot, error) {
	var slot models.LaundrySlot
	if err := s.DB.WithContext(ctx).Preload("Student.User", occupantColumns(false)).First(&slot, slotID).Error; err != nil {
		return nil, fmt.Errorf("reload slot %d: %w", slotID, err)
	}
	slot.SetOccupant(false)
	return &slot, nil
}

// occupantColumns limits the occupant's user row to display fields. Contact details
// never leave the detail view.
func occupantColumns(withEmail bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if withEmail {
			return db.Select("id", "full_name", "email")
		}
		return db.Select("id", "full_name")
	}
}

func isValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

const dateLayout = "2006-01-02"
