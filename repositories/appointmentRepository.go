package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"medisight/cache"
	"medisight/database"
	"medisight/models"

	"gorm.io/gorm"
)

const (
	AppointmentCacheExpiry = 12 * time.Hour
)

type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

// GetByID fetches one appointment, read-through cached.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getAppointmentCacheKey(id)
	cachedAppointment, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedAppointment != "" {
		var appointment models.Appointment
		if err := json.Unmarshal([]byte(cachedAppointment), &appointment); err == nil {
			return &appointment, nil
		}
	} else if err != nil {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var appointment models.Appointment
	if err := database.DB.WithContext(ctx).First(&appointment, "appointment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	appointmentJSON, err := json.Marshal(appointment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appointment: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, appointmentJSON, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointment in cache: %v", err)
	}

	return &appointment, nil
}

// Create inserts an appointment row, typically mirrored back from an EHR
// system after create_appointment succeeds there.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if err := database.DB.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getAppointmentCacheKey(appointment.AppointmentID)); err != nil {
		log.Printf("Failed to delete appointment cache: %v", err)
	}
	return nil
}

// MarkNoShow flips an appointment to no_show and invalidates its cache.
func (r *AppointmentRepository) MarkNoShow(ctx context.Context, id string) error {
	result := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("appointment_id = ?", id).
		Update("status", "no_show")
	if result.Error != nil {
		return fmt.Errorf("failed to mark appointment no-show: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrAppointmentNotFound
	}
	return r.cache.Delete(ctx, r.getAppointmentCacheKey(id))
}

func (r *AppointmentRepository) getAppointmentCacheKey(id string) string {
	return fmt.Sprintf("appointment_cache:%s", id)
}
