package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/repository"
	"gorm.io/gorm"
)

// PostgresBookingRepository manages bookings and staff assignments. Duplicates
// are rejected by an existence query issued right before the insert; there is
// no unique constraint behind it.
type PostgresBookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

// AddBooking books a guest onto an event
func (r *PostgresBookingRepository) AddBooking(ctx context.Context, guestID, eventID string, isAttending bool) (*model.Booking, error) {
	db := r.db.WithContext(ctx)

	if err := r.ensureEvent(db, eventID); err != nil {
		return nil, err
	}

	var guest model.Guest
	if err := db.Where("id = ?", guestID).First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}

	var existing int64
	if err := db.Model(&model.Booking{}).
		Where("event_id = ? AND guest_id = ?", eventID, guestID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}
	if existing > 0 {
		return nil, repository.ErrDuplicateBooking
	}

	booking := &model.Booking{
		GuestID:     guestID,
		EventID:     eventID,
		IsAttending: isAttending,
	}
	if err := db.Omit("Guest").Create(booking).Error; err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	booking.Guest = guest

	return booking, nil
}

// RemoveBooking deletes the (guest, event) booking
func (r *PostgresBookingRepository) RemoveBooking(ctx context.Context, guestID, eventID string) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND guest_id = ?", eventID, guestID).
		Delete(&model.Booking{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookingNotFound
	}
	return nil
}

// SetAttendance records whether a booked guest attended
func (r *PostgresBookingRepository) SetAttendance(ctx context.Context, guestID, eventID string, isAttending bool) (*model.Booking, error) {
	db := r.db.WithContext(ctx)

	var booking model.Booking
	err := db.Preload("Guest").
		Where("event_id = ? AND guest_id = ?", eventID, guestID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if err := db.Model(&booking).Update("is_attending", isAttending).Error; err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	booking.IsAttending = isAttending

	return &booking, nil
}

func (r *PostgresBookingRepository) ListBookings(ctx context.Context, eventID string) ([]model.Booking, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureEvent(db, eventID); err != nil {
		return nil, err
	}

	var bookings []model.Booking
	if err := db.Preload("Guest").Where("event_id = ?", eventID).Order("created_at ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// AssignStaff assigns a member of staff to an event
func (r *PostgresBookingRepository) AssignStaff(ctx context.Context, staffID, eventID string) (*model.StaffAssignment, error) {
	db := r.db.WithContext(ctx)

	if err := r.ensureEvent(db, eventID); err != nil {
		return nil, err
	}

	var staff model.Staff
	if err := db.Where("id = ?", staffID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	var existing int64
	if err := db.Model(&model.StaffAssignment{}).
		Where("event_id = ? AND staff_id = ?", eventID, staffID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}
	if existing > 0 {
		return nil, repository.ErrDuplicateAssignment
	}

	assignment := &model.StaffAssignment{
		StaffID: staffID,
		EventID: eventID,
	}
	if err := db.Omit("Staff").Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to create staff assignment: %w", err)
	}
	assignment.Staff = staff

	return assignment, nil
}

// UnassignStaff removes the (staff, event) assignment
func (r *PostgresBookingRepository) UnassignStaff(ctx context.Context, staffID, eventID string) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND staff_id = ?", eventID, staffID).
		Delete(&model.StaffAssignment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete staff assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrAssignmentNotFound
	}
	return nil
}

func (r *PostgresBookingRepository) ListStaffAssignments(ctx context.Context, eventID string) ([]model.StaffAssignment, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureEvent(db, eventID); err != nil {
		return nil, err
	}

	var assignments []model.StaffAssignment
	if err := db.Preload("Staff").Where("event_id = ?", eventID).Order("created_at ASC").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff assignments: %w", err)
	}
	return assignments, nil
}

func (r *PostgresBookingRepository) ensureEvent(db *gorm.DB, eventID string) error {
	var count int64
	if err := db.Model(&model.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check event existence: %w", err)
	}
	if count == 0 {
		return repository.ErrEventNotFound
	}
	return nil
}

var _ repository.BookingRepository = (*PostgresBookingRepository)(nil)
