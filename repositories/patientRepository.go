package repositories

import (
	"DentalChart/cache"
	"DentalChart/database"
	"DentalChart/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PatientCacheExpiry = 24 * time.Hour
	patientsCacheKey   = "patients_cache"
)

type PatientRepository struct {
	cache *cache.Cache
}

func NewPatientRepository(cache *cache.Cache) *PatientRepository {
	return &PatientRepository{cache: cache}
}

func (r *PatientRepository) getPatientCacheKey(id string) string {
	return fmt.Sprintf("patient_cache:%s", id)
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s_%s_%s", patient.FirstName, patient.LastName, patient.DateOfBirth)
	lockValue := uuid.New().String() // Generate a unique lock value
	// Retry logic for acquiring lock
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	// Check if a record with the same unique fields already exists
	var existingPatient models.Patient
	if err := database.DB.Where("first_name = ? AND last_name = ? AND date_of_birth = ?",
		patient.FirstName, patient.LastName, patient.DateOfBirth).First(&existingPatient).Error; err == nil {
		return errors.New("patient with the same name and date of birth already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing patient: %w", err)
	}

	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}

	if err := database.DB.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return r.cache.Delete(ctx, patientsCacheKey)
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getPatientCacheKey(id)
	cachedPatient, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedPatient != "" {
		var patient models.Patient
		if err := json.Unmarshal([]byte(cachedPatient), &patient); err == nil {
			return &patient, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	err = database.DB.WithContext(ctx).First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	patientJSON, err := json.Marshal(&patient)
	if err == nil {
		if err := r.cache.Set(ctx, cacheKey, patientJSON, PatientCacheExpiry); err != nil {
			log.Printf("Failed to cache patient: %v", err)
		}
	}
	return &patient, nil
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cachedPatients, err := r.cache.Get(ctx, patientsCacheKey)
	if err == nil && cachedPatients != "" {
		var patients []models.Patient
		if err := json.Unmarshal([]byte(cachedPatients), &patients); err == nil {
			return patients, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get patients from cache: %v", err)
	}

	var patients []models.Patient
	if err := database.DB.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to get patients: %w", err)
	}

	patientsJSON, err := json.Marshal(patients)
	if err == nil {
		if err := r.cache.Set(ctx, patientsCacheKey, patientsJSON, PatientCacheExpiry); err != nil {
			log.Printf("Failed to cache patients: %v", err)
		}
	}
	return patients, nil
}

// Delete removes a patient together with their dental chart rows.
func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var toothIDs []uint
		if err := tx.Model(&models.ChartTooth{}).
			Where("patient_id = ?", id).
			Pluck("id", &toothIDs).Error; err != nil {
			return fmt.Errorf("failed to list chart teeth: %w", err)
		}
		if len(toothIDs) > 0 {
			if err := tx.Where("chart_tooth_id IN ?", toothIDs).
				Delete(&models.ChartProcedure{}).Error; err != nil {
				return fmt.Errorf("failed to delete chart procedures: %w", err)
			}
			if err := tx.Where("patient_id = ?", id).
				Delete(&models.ChartTooth{}).Error; err != nil {
				return fmt.Errorf("failed to delete chart teeth: %w", err)
			}
		}
		if err := tx.Delete(&models.Patient{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return r.cache.DeleteBatch(ctx,
		r.getPatientCacheKey(id),
		fmt.Sprintf("dental_chart_cache:%s", id),
		patientsCacheKey,
	)
}
