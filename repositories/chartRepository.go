package repositories

import (
	"DentalChart/cache"
	"DentalChart/database"
	"DentalChart/models"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChartCacheExpiry = 24 * time.Hour
)

type ChartRepository struct {
	cache *cache.Cache
}

func NewChartRepository(cache *cache.Cache) *ChartRepository {
	return &ChartRepository{cache: cache}
}

func (r *ChartRepository) getChartCacheKey(patientID string) string {
	return fmt.Sprintf("dental_chart_cache:%s", patientID)
}

// GetByPatientID returns every charted tooth for a patient with its full
// procedure history, newest first within each tooth.
func (r *ChartRepository) GetByPatientID(ctx context.Context, patientID string) ([]models.ChartTooth, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getChartCacheKey(patientID)
	cachedChart, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedChart != "" {
		var teeth []models.ChartTooth
		if err := json.Unmarshal([]byte(cachedChart), &teeth); err == nil {
			return teeth, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get dental chart from cache: %v", err)
	}

	var teeth []models.ChartTooth
	err = database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Preload("Procedures", func(db *gorm.DB) *gorm.DB {
			return db.Order("performed_at DESC")
		}).
		Order("tooth_number ASC").
		Find(&teeth).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get dental chart: %w", err)
	}

	chartJSON, err := json.Marshal(teeth)
	if err == nil {
		if err := r.cache.Set(ctx, cacheKey, chartJSON, ChartCacheExpiry); err != nil {
			log.Printf("Failed to cache dental chart: %v", err)
		}
	}
	return teeth, nil
}

// Replace swaps a patient's entire chart for the supplied teeth. The chart
// is written as a whole so a half-applied save can never leave a tooth with
// another tooth's history.
func (r *ChartRepository) Replace(ctx context.Context, patientID string, teeth []models.ChartTooth) error {
	lockKey := fmt.Sprintf("dental_chart_lock:%s", patientID)
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

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existingIDs []uint
		if err := tx.Model(&models.ChartTooth{}).
			Where("patient_id = ?", patientID).
			Pluck("id", &existingIDs).Error; err != nil {
			return fmt.Errorf("failed to list existing chart teeth: %w", err)
		}
		if len(existingIDs) > 0 {
			if err := tx.Where("chart_tooth_id IN ?", existingIDs).
				Delete(&models.ChartProcedure{}).Error; err != nil {
				return fmt.Errorf("failed to clear chart procedures: %w", err)
			}
			if err := tx.Where("patient_id = ?", patientID).
				Delete(&models.ChartTooth{}).Error; err != nil {
				return fmt.Errorf("failed to clear chart teeth: %w", err)
			}
		}
		for i := range teeth {
			teeth[i].ID = 0
			teeth[i].PatientID = patientID
			for j := range teeth[i].Procedures {
				teeth[i].Procedures[j].ID = 0
				teeth[i].Procedures[j].ChartToothID = 0
			}
		}
		if len(teeth) > 0 {
			if err := tx.Create(&teeth).Error; err != nil {
				return fmt.Errorf("failed to create chart teeth: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, r.getChartCacheKey(patientID)); err != nil {
		log.Printf("Failed to invalidate dental chart cache: %v", err)
	}
	return nil
}
