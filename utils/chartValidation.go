package utils

import (
	"DentalChart/chart"
	"DentalChart/tooth"
	"errors"
	"fmt"
	"log"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validation errors
var (
	ErrInvalidToothID = errors.New("tooth id must be quadrant-position, e.g. 2-3")
	ErrInvalidStatus  = errors.New("unknown tooth status")
)

// ToothSubmission carries the editable fields of the tooth panel form.
type ToothSubmission struct {
	ToothID   string `json:"toothId"`
	Status    string `json:"status"`
	Procedure string `json:"procedure"`
	Notes     string `json:"notes"`
	DentistID string `json:"dentistId"`
}

// ValidateToothSubmission validates a tooth panel save using ozzo-validation.
func ValidateToothSubmission(sub ToothSubmission) error {
	err := validation.Errors{
		"toothId":   validation.Validate(sub.ToothID, validation.Required, validation.By(validateToothID)),
		"status":    validation.Validate(sub.Status, validation.Required, validation.By(validateStatus)),
		"procedure": validation.Validate(sub.Procedure, validation.Length(0, 120)),
		"notes":     validation.Validate(sub.Notes, validation.Length(0, 2000)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateToothID checks a bare tooth identifier.
func ValidateToothID(toothID string) error {
	err := validation.Errors{
		"toothId": validation.Validate(toothID, validation.Required, validation.By(validateToothID)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

func validateToothID(value interface{}) error {
	s, _ := value.(string)
	if _, ok := tooth.Parse(s); !ok {
		return ErrInvalidToothID
	}
	return nil
}

func validateStatus(value interface{}) error {
	s, _ := value.(string)
	if !chart.Status(s).Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ValidateDentalChart checks an inbound chart payload: at most one record per
// tooth, every tooth number in the universal 1..32 range.
func ValidateDentalChart(records []chart.ToothRecord) error {
	if len(records) > 32 {
		return errors.New("dental chart cannot carry more than 32 teeth")
	}
	seen := make(map[int]bool, len(records))
	for _, rec := range records {
		if rec.ToothNumber < 1 || rec.ToothNumber > 32 {
			return fmt.Errorf("tooth number %d is out of range", rec.ToothNumber)
		}
		if seen[rec.ToothNumber] {
			return fmt.Errorf("duplicate record for tooth %d", rec.ToothNumber)
		}
		seen[rec.ToothNumber] = true
	}
	return nil
}
