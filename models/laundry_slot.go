package models

import "time"

type SlotStatus string

const (
	SlotAvailable  SlotStatus = "available"
	SlotBooked     SlotStatus = "booked"
	SlotInProgress SlotStatus = "in_progress"
)

// TimeSlots lists the bookable windows in display order.
var TimeSlots = []string{
	"morning-1",
	"morning-2",
	"morning-3",
	"afternoon-1",
	"afternoon-2",
	"evening-1",
	"evening-2",
}

var timeSlotWindows = map[string]string{
	"morning-1":   "6:00 AM - 7:00 AM",
	"morning-2":   "7:00 AM - 8:00 AM",
	"morning-3":   "8:00 AM - 9:00 AM",
	"afternoon-1": "2:00 PM - 3:00 PM",
	"afternoon-2": "3:00 PM - 4:00 PM",
	"evening-1":   "6:00 PM - 7:00 PM",
	"evening-2":   "7:00 PM - 8:00 PM",
}

// TimeSlotRank returns the position of label in TimeSlots, or -1.
func TimeSlotRank(label string) int {
	for i, ts := range TimeSlots {
		if ts == label {
			return i
		}
	}
	return -1
}

func IsValidTimeSlot(label string) bool {
	return TimeSlotRank(label) >= 0
}

// TimeSlotWindow returns the wall-clock window for label, e.g. "6:00 AM - 7:00 AM".
func TimeSlotWindow(label string) string {
	return timeSlotWindows[label]
}

// LaundrySlot is one bookable unit of machine time.
// OccupantID is set if and only if Status is SlotBooked.
type LaundrySlot struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	HostelID      uint       `gorm:"not null;uniqueIndex:idx_laundry_slot_tuple,priority:1" json:"hostel_id"`
	Hostel        *Hostel    `gorm:"foreignKey:HostelID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"hostel,omitempty"`
	MachineNumber int        `gorm:"not null;uniqueIndex:idx_laundry_slot_tuple,priority:2" json:"machine_number"`
	Date          string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_laundry_slot_tuple,priority:3;uniqueIndex:idx_laundry_occupant_day,priority:2" json:"date"`
	TimeSlot      string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_laundry_slot_tuple,priority:4" json:"time_slot"`
	Status        SlotStatus `gorm:"type:varchar(15);not null;default:'available';index" json:"status"`
	OccupantID    *uint      `gorm:"column:student_id;uniqueIndex:idx_laundry_occupant_day,priority:1" json:"student_id"`
	Student       *Student   `gorm:"foreignKey:OccupantID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Occupant      *Occupant  `gorm:"-" json:"student,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

// Window is the wall-clock window of the slot's time label.
func (s LaundrySlot) Window() string {
	return TimeSlotWindow(s.TimeSlot)
}

// Occupant is what other students may see about whoever holds a slot.
// Email is only filled on the slot detail view.
type Occupant struct {
	UserID    uint   `json:"user_id"`
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
}

// SetOccupant fills Occupant from the preloaded Student, or clears it when the slot is free.
func (s *LaundrySlot) SetOccupant(withEmail bool) {
	if s.Student == nil {
		s.Occupant = nil
		return
	}
	s.Occupant = &Occupant{
		UserID:    s.Student.UserID,
		StudentID: s.Student.StudentID,
		FullName:  s.Student.User.FullName,
	}
	if withEmail {
		s.Occupant.Email = s.Student.User.Email
	}
}
