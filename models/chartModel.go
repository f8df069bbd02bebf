package models

import (
	"time"
)

// Dentist model
type Dentist struct {
	ID        string    `gorm:"primaryKey;column:id" json:"_id"`
	FirstName string    `gorm:"column:first_name;not null" json:"firstName"`
	LastName  string    `gorm:"column:last_name;not null;index" json:"lastName"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Dentist) TableName() string {
	return "dentist"
}

// Patient model
type Patient struct {
	ID          string       `gorm:"primaryKey;column:id" json:"id"`
	FirstName   string       `gorm:"column:first_name;not null" json:"first_name"`
	LastName    string       `gorm:"column:last_name;not null;index" json:"last_name"`
	DateOfBirth string       `gorm:"column:date_of_birth;not null;index" json:"date_of_birth"`
	Phone       string       `gorm:"column:phone" json:"phone"`
	Email       string       `gorm:"column:email" json:"email"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ChartTeeth  []ChartTooth `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// ChartTooth holds one tooth of a patient's denormalized dental chart. A
// patient has at most one row per universal tooth number.
type ChartTooth struct {
	ID          uint             `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID   string           `gorm:"column:patient_id;not null;index;uniqueIndex:idx_patient_tooth" json:"patient_id"`
	ToothNumber int              `gorm:"column:tooth_number;not null;uniqueIndex:idx_patient_tooth;check:tooth_number BETWEEN 1 AND 32" json:"tooth_number"`
	Procedures  []ChartProcedure `gorm:"foreignKey:ChartToothID;references:ID" json:"procedures"`
	Patient     Patient          `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (ChartTooth) TableName() string {
	return "chart_tooth"
}

// ChartProcedure is one procedure record in a tooth's history.
type ChartProcedure struct {
	ID           uint       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ChartToothID uint       `gorm:"column:chart_tooth_id;not null;index" json:"chart_tooth_id"`
	Procedure    string     `gorm:"column:procedure;not null" json:"procedure"`
	Notes        string     `gorm:"column:notes" json:"notes"`
	PerformedAt  time.Time  `gorm:"column:performed_at;not null;index" json:"performed_at"`
	DentistID    string     `gorm:"column:dentist_id;index" json:"dentist_id"`
	ChartTooth   ChartTooth `gorm:"foreignKey:ChartToothID;references:ID" json:"-"`
}

func (ChartProcedure) TableName() string {
	return "chart_procedure"
}
