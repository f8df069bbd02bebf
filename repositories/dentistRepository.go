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
	DentistCacheExpiry = 7 * 24 * time.Hour
	dentistsCacheKey   = "dentists_cache"
)

type DentistRepository struct {
	cache *cache.Cache
}

func NewDentistRepository(cache *cache.Cache) *DentistRepository {
	return &DentistRepository{cache: cache}
}

func (r *DentistRepository) Create(ctx context.Context, dentist *models.Dentist) error {
	lockKey := fmt.Sprintf("dentist_lock:%s_%s", dentist.FirstName, dentist.LastName)
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
	var existingDentist models.Dentist
	if err := database.DB.Where("first_name = ? AND last_name = ?", dentist.FirstName, dentist.LastName).First(&existingDentist).Error; err == nil {
		return errors.New("dentist with the same name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing dentist: %w", err)
	}

	if dentist.ID == "" {
		dentist.ID = uuid.New().String()
	}

	if err := database.DB.WithContext(ctx).Create(dentist).Error; err != nil {
		return fmt.Errorf("failed to create dentist: %w", err)
	}
	return r.cache.Delete(ctx, dentistsCacheKey)
}

func (r *DentistRepository) GetAll(ctx context.Context) ([]models.Dentist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cachedDentists, err := r.cache.Get(ctx, dentistsCacheKey)
	if err == nil && cachedDentists != "" {
		var dentists []models.Dentist
		if err := json.Unmarshal([]byte(cachedDentists), &dentists); err == nil {
			return dentists, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get dentists from cache: %v", err)
	}

	var dentists []models.Dentist
	if err := database.DB.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&dentists).Error; err != nil {
		return nil, fmt.Errorf("failed to get dentists: %w", err)
	}

	dentistsJSON, err := json.Marshal(dentists)
	if err == nil {
		if err := r.cache.Set(ctx, dentistsCacheKey, dentistsJSON, DentistCacheExpiry); err != nil {
			log.Printf("Failed to cache dentists: %v", err)
		}
	}
	return dentists, nil
}
