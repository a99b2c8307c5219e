package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"design_portal/internal/lifecycle"
	"design_portal/internal/models"
	"design_portal/internal/notify"
	"design_portal/internal/orchestrator"
	"design_portal/internal/repository"
	"design_portal/internal/status"
	"design_portal/internal/store"
)

type ComplaintService interface {
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetAll(ctx context.Context) ([]models.Complaint, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Complaint, error)
	RequestTransition(ctx context.Context, publicID string, requested status.ComplaintStatus,
		actor lifecycle.Actor, input orchestrator.ComplaintInput) (*models.Complaint, *orchestrator.Result, error)
	// ReviewLineItems records staff decisions and returns the derived
	// aggregate reason template for pre-populating the approval form.
	ReviewLineItems(ctx context.Context, publicID string, reviews []repository.DetailReview) (string, error)
	AttachEvidence(ctx context.Context, publicID string, videoURL string) error
	StatusTable() []status.Info
}

type complaintService struct {
	complaints repository.ComplaintRepository
	orch       *orchestrator.ComplaintOrchestrator
	store      *store.Store
	notifier   notify.Notifier
}

func NewComplaintService(
	complaints repository.ComplaintRepository,
	orch *orchestrator.ComplaintOrchestrator,
	st *store.Store,
	notifier notify.Notifier,
) ComplaintService {
	return &complaintService{complaints: complaints, orch: orch, store: st, notifier: notifier}
}

func (s *complaintService) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if !complaint.ComplaintType.Valid() {
		return &lifecycle.ValidationError{Field: "complaint_type", Reason: "complaint type must be Refund or ProductReturn"}
	}
	if complaint.PublicID == "" {
		complaint.PublicID = uuid.NewString()
	}
	complaint.Status = status.ComplaintPending
	return s.complaints.Create(ctx, complaint)
}

func (s *complaintService) GetAll(ctx context.Context) ([]models.Complaint, error) {
	return s.complaints.GetAll(ctx)
}

func (s *complaintService) GetByPublicID(ctx context.Context, publicID string) (*models.Complaint, error) {
	complaint, err := s.complaints.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	s.store.Reconcile(store.Key{Kind: store.KindComplaint, ID: publicID}, complaint)
	return complaint, nil
}

func (s *complaintService) RequestTransition(
	ctx context.Context,
	publicID string,
	requested status.ComplaintStatus,
	actor lifecycle.Actor,
	input orchestrator.ComplaintInput,
) (*models.Complaint, *orchestrator.Result, error) {
	complaint, result, err := s.orch.Transition(ctx, publicID, requested, actor, input)
	if err == nil {
		s.notifier.ComplaintStatusChanged(complaint)
	}
	return complaint, result, err
}

func (s *complaintService) ReviewLineItems(ctx context.Context, publicID string, reviews []repository.DetailReview) (string, error) {
	complaint, err := s.complaints.GetByPublicID(ctx, publicID)
	if err != nil {
		return "", err
	}
	for _, rv := range reviews {
		if !rv.Accepted && strings.TrimSpace(rv.Description) == "" {
			return "", &lifecycle.ValidationError{Field: "description", Reason: "a reason is required for every rejected line item"}
		}
	}
	if err := s.complaints.UpdateDetails(ctx, complaint.ID, reviews); err != nil {
		return "", err
	}
	refreshed, err := s.complaints.GetByPublicID(ctx, publicID)
	if err != nil {
		return "", err
	}
	s.store.Reconcile(store.Key{Kind: store.KindComplaint, ID: publicID}, refreshed)
	return lifecycle.AggregateRejectionReason(refreshed), nil
}

func (s *complaintService) AttachEvidence(ctx context.Context, publicID string, videoURL string) error {
	if strings.TrimSpace(videoURL) == "" {
		return &lifecycle.ValidationError{Field: "video_url", Reason: "a video URL is required"}
	}
	complaint, err := s.complaints.GetByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	return s.complaints.SetEvidence(ctx, complaint, videoURL)
}

func (s *complaintService) StatusTable() []status.Info {
	return status.ComplaintStatusTable()
}
