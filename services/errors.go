package services

import "errors"

var (
	ErrUnauthenticated  = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStudentNotFound  = errors.New("student record not found")
	ErrHostelNotFound   = errors.New("hostel not found")
	ErrSlotNotFound     = errors.New("laundry slot not found")
	ErrDuplicateBooking = errors.New("you already have a booking for this date")
	ErrSlotUnavailable  = errors.New("slot is not available")
	ErrSlotNotBooked    = errors.New("slot is not booked by you")
	ErrNotAuthorized    = errors.New("not authorized to update this slot")
)
