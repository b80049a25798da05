package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProvisionInput struct {
	HostelID  uint
	Date      string
	Machines  int
	TimeSlots []string // empty means every window
}

// ProvisionSlots creates the machines x windows grid of available slots for one date.
// Tuples that already exist are skipped. It returns the number of slots created.
func (s *LaundryService) ProvisionSlots(ctx context.Context, in ProvisionInput) (int64, error) {
	if in.Machines < 1 || !isValidDate(in.Date) {
		return 0, ErrInvalidInput
	}

	labels := in.TimeSlots
	if len(labels) == 0 {
		labels = models.TimeSlots
	}
	for _, label := range labels {
		if !models.IsValidTimeSlot(label) {
			return 0, fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, label)
		}
	}

	var hostel models.Hostel
	err := s.DB.WithContext(ctx).First(&hostel, in.HostelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrHostelNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find hostel %d: %w", in.HostelID, err)
	}

	slots := make([]models.LaundrySlot, 0, in.Machines*len(labels))
	for _, label := range labels {
		for machine := 1; machine <= in.Machines; machine++ {
			slots = append(slots, models.LaundrySlot{
				HostelID:      hostel.ID,
				MachineNumber: machine,
				Date:          in.Date,
				TimeSlot:      label,
				Status:        models.SlotAvailable,
			})
		}
	}

	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&slots)
	if res.Error != nil {
		return 0, fmt.Errorf("provision slots: %w", res.Error)
	}

	utils.InfoLogger.Printf("Provisioned %d laundry slots for hostel %s on %s", res.RowsAffected, hostel.Code, in.Date)
	return res.RowsAffected, nil
}
