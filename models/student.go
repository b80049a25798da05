package models

import "time"

type Student struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	StudentID   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"student_id"`
	HostelID    uint      `gorm:"not null;index" json:"hostel_id"`
	Hostel      *Hostel   `gorm:"foreignKey:HostelID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"hostel,omitempty"`
	Department  string    `gorm:"type:varchar(128)" json:"department,omitempty"`
	YearOfStudy int       `json:"year_of_study,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
