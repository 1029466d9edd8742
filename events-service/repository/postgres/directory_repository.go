package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/repository"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PostgresDirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *PostgresDirectoryRepository {
	return &PostgresDirectoryRepository{db: db}
}

func (r *PostgresDirectoryRepository) CreateGuest(ctx context.Context, req model.CreateGuestRequest) (*model.Guest, error) {
	guest := &model.Guest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if err := r.db.WithContext(ctx).Create(guest).Error; err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return guest, nil
}

func (r *PostgresDirectoryRepository) GetGuest(ctx context.Context, id string) (*model.Guest, error) {
	var guest model.Guest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return &guest, nil
}

func (r *PostgresDirectoryRepository) ListGuests(ctx context.Context) ([]model.Guest, error) {
	var guests []model.Guest
	if err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, nil
}

func (r *PostgresDirectoryRepository) UpdateGuest(ctx context.Context, req model.UpdateGuestRequest) (*model.Guest, error) {
	guest, err := r.GetGuest(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	guest.FirstName = req.FirstName
	guest.LastName = req.LastName
	guest.Email = req.Email
	guest.PhoneNumber = req.PhoneNumber
	if err := r.db.WithContext(ctx).Save(guest).Error; err != nil {
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}
	return guest, nil
}

// DeleteGuest removes the guest and every booking held by them
func (r *PostgresDirectoryRepository) DeleteGuest(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", id).Delete(&model.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete guest bookings: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&model.Guest{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete guest: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrGuestNotFound
		}
		return nil
	})
}

// AnonymiseGuest replaces the guest's name and contact details with fixed
// placeholders. Bookings are left in place.
func (r *PostgresDirectoryRepository) AnonymiseGuest(ctx context.Context, id string) (*model.Guest, error) {
	guest, err := r.GetGuest(ctx, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(guest).Updates(model.Guest{
		FirstName:   model.AnonymousName,
		LastName:    model.AnonymousName,
		Email:       model.AnonymousEmail,
		PhoneNumber: model.AnonymousPhone,
	})
	if result.Error != nil {
		// The row may have gone between the read and the write.
		if _, getErr := r.GetGuest(ctx, id); errors.Is(getErr, repository.ErrGuestNotFound) {
			return nil, repository.ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to anonymise guest: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrGuestNotFound
	}

	guest.FirstName = model.AnonymousName
	guest.LastName = model.AnonymousName
	guest.Email = model.AnonymousEmail
	guest.PhoneNumber = model.AnonymousPhone
	return guest, nil
}

func (r *PostgresDirectoryRepository) GuestEventIDs(ctx context.Context, guestID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("guest_id = ?", guestID).
		Distinct().
		Pluck("event_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list guest events: %w", err)
	}
	return ids, nil
}

func (r *PostgresDirectoryRepository) CreateStaff(ctx context.Context, req model.CreateStaffRequest) (*model.Staff, error) {
	staff := &model.Staff{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Qualifications: pq.StringArray(req.Qualifications),
	}
	if err := r.db.WithContext(ctx).Create(staff).Error; err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return staff, nil
}

func (r *PostgresDirectoryRepository) GetStaff(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return &staff, nil
}

func (r *PostgresDirectoryRepository) ListStaff(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	if err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (r *PostgresDirectoryRepository) UpdateStaff(ctx context.Context, req model.UpdateStaffRequest) (*model.Staff, error) {
	staff, err := r.GetStaff(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	staff.FirstName = req.FirstName
	staff.LastName = req.LastName
	staff.Qualifications = pq.StringArray(req.Qualifications)
	if err := r.db.WithContext(ctx).Save(staff).Error; err != nil {
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}
	return staff, nil
}

// DeleteStaff removes the staff member and their event assignments
func (r *PostgresDirectoryRepository) DeleteStaff(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", id).Delete(&model.StaffAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to delete staff assignments: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&model.Staff{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete staff member: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrStaffNotFound
		}
		return nil
	})
}

func (r *PostgresDirectoryRepository) StaffEventIDs(ctx context.Context, staffID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.StaffAssignment{}).
		Where("staff_id = ?", staffID).
		Distinct().
		Pluck("event_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff events: %w", err)
	}
	return ids, nil
}

var _ repository.DirectoryRepository = (*PostgresDirectoryRepository)(nil)
