package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"design_portal/internal/models"
	"design_portal/internal/status"
)

// DetailReview is one staff decision on a disputed line item.
type DetailReview struct {
	DetailID    uint
	Accepted    bool
	Description string
}

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id uint) (*models.Complaint, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Complaint, error)
	GetAll(ctx context.Context) ([]models.Complaint, error)
	ListOpen(ctx context.Context) ([]models.Complaint, error)
	CommitStatus(ctx context.Context, complaint *models.Complaint, next status.ComplaintStatus, actor string) error
	UpdateDetails(ctx context.Context, complaintID uint, reviews []DetailReview) error
	SetDeliveryCode(ctx context.Context, complaint *models.Complaint, code string) error
	SetEvidence(ctx context.Context, complaint *models.Complaint, videoURL string) error
	SetReason(ctx context.Context, complaint *models.Complaint, reason string) error
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Order").
		Preload("Order.Customer").
		Preload("Details").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("complaint_status_events.id ASC")
		})
}

func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *complaintRepository) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.preloaded(ctx).First(&complaint, id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.preloaded(ctx).Where("public_id = ?", publicID).First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) GetAll(ctx context.Context) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.preloaded(ctx).Order("id DESC").Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) ListOpen(ctx context.Context) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.preloaded(ctx).
		Where("status NOT IN ?", []status.ComplaintStatus{
			status.ComplaintComplete, status.ComplaintRejected,
		}).
		Order("id DESC").
		Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) CommitStatus(ctx context.Context, complaint *models.Complaint, next status.ComplaintStatus, actor string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Complaint{}).
			Where("id = ?", complaint.ID).
			Update("status", next).Error; err != nil {
			return err
		}
		event := models.ComplaintStatusEvent{ComplaintID: complaint.ID, Status: next, Actor: actor}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		complaint.Status = next
		complaint.StatusHistory = append(complaint.StatusHistory, event)
		return nil
	})
}

func (r *complaintRepository) UpdateDetails(ctx context.Context, complaintID uint, reviews []DetailReview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rv := range reviews {
			res := tx.Model(&models.ComplaintDetail{}).
				Where("id = ? AND complaint_id = ?", rv.DetailID, complaintID).
				Updates(map[string]interface{}{
					"is_check":    rv.Accepted,
					"description": rv.Description,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *complaintRepository) SetDeliveryCode(ctx context.Context, complaint *models.Complaint, code string) error {
	if complaint.DeliveryCode != "" {
		return errors.New("delivery code is immutable once set")
	}
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ? AND (delivery_code IS NULL OR delivery_code = '')", complaint.ID).
		Update("delivery_code", code).Error
	if err != nil {
		return err
	}
	complaint.DeliveryCode = code
	return nil
}

func (r *complaintRepository) SetEvidence(ctx context.Context, complaint *models.Complaint, videoURL string) error {
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", complaint.ID).
		Update("video_url", videoURL).Error
	if err != nil {
		return err
	}
	complaint.VideoURL = videoURL
	return nil
}

func (r *complaintRepository) SetReason(ctx context.Context, complaint *models.Complaint, reason string) error {
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", complaint.ID).
		Update("reason", reason).Error
	if err != nil {
		return err
	}
	complaint.Reason = reason
	return nil
}
