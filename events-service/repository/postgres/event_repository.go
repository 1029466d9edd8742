package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/repository"
	"gorm.io/gorm"
)

type PostgresEventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// CreateEvent stores an event together with its reservation reference
func (r *PostgresEventRepository) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	venueCode := req.VenueCode
	reference := req.Reference
	event := &model.Event{
		Title:             req.Title,
		EventTypeID:       req.EventTypeID,
		SelectedVenueCode: &venueCode,
		SelectedDate:      req.Date,
		Reference:         &reference,
	}

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// GetEventByID retrieves an event without its associations
func (r *PostgresEventRepository) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// GetEventDetails retrieves an event with guests and staff attached
func (r *PostgresEventRepository) GetEventDetails(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Bookings.Guest").
		Preload("StaffAssignments.Staff").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event details: %w", err)
	}
	return &event, nil
}

func (r *PostgresEventRepository) ListEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Order("selected_date ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateEventTitle compares the version token at write time. A write that
// matches no row is resolved by re-checking existence.
func (r *PostgresEventRepository) UpdateEventTitle(ctx context.Context, req model.UpdateEventTitleRequest) (*model.Event, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&model.Event{}).
		Where("id = ? AND version = ?", req.ID, req.Version).
		Updates(map[string]interface{}{
			"title":      req.Title,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update event: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&model.Event{}).Where("id = ?", req.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check event existence: %w", err)
		}
		if count == 0 {
			return nil, repository.ErrEventNotFound
		}
		return nil, repository.ErrVersionConflict
	}

	return r.GetEventByID(ctx, req.ID)
}

// DeleteEvent removes the event row and the bookings and staff assignments that point at it
func (r *PostgresEventRepository) DeleteEvent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete bookings: %w", err)
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.StaffAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to delete staff assignments: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&model.Event{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrEventNotFound
		}
		return nil
	})
}

func (r *PostgresEventRepository) RecordOrphanedReservation(ctx context.Context, orphan model.OrphanedReservation) error {
	if err := r.db.WithContext(ctx).Create(&orphan).Error; err != nil {
		return fmt.Errorf("failed to record orphaned reservation: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) ListOrphanedReservations(ctx context.Context) ([]model.OrphanedReservation, error) {
	var orphans []model.OrphanedReservation
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&orphans).Error; err != nil {
		return nil, fmt.Errorf("failed to list orphaned reservations: %w", err)
	}
	return orphans, nil
}

// GetDB returns the database instance for health checks
func (r *PostgresEventRepository) GetDB() *gorm.DB {
	return r.db
}

var _ repository.EventRepository = (*PostgresEventRepository)(nil)
