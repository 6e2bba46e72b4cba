package customer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/customer-onboarding/internal/core/events"
)

const EventCustomerSubmitted = "customer.submitted"

// DocumentUpload carries one attachment's bytes from the submission flow to
// the upload handler. Content never touches the database.
type DocumentUpload struct {
	DocumentID  int64
	Slot        string
	FileName    string
	ContentType string
	Content     []byte
}

type SubmittedEvent struct {
	events.BaseEvent
	CustomerID     int64
	CustomerNumber string
	Uploads        []DocumentUpload
}

func NewSubmittedEvent(customerID int64, customerNumber string, uploads []DocumentUpload) SubmittedEvent {
	return SubmittedEvent{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventCustomerSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"customer_id":     customerID,
				"customer_number": customerNumber,
				"documents":       len(uploads),
			},
		},
		CustomerID:     customerID,
		CustomerNumber: customerNumber,
		Uploads:        uploads,
	}
}

// DocumentStore pushes attachment bytes to the external document service and
// returns a storage reference.
type DocumentStore interface {
	Upload(ctx context.Context, customerNumber, slot, fileName, contentType string, content []byte) (storageRef string, err error)
}

// UploadEventHandler moves submitted attachments into the document store and
// records the outcome per document. A failed upload marks the document
// failed; the submission itself is already persisted and unaffected.
type UploadEventHandler struct {
	store  DocumentStore
	repo   Repository
	logger *slog.Logger
}

func NewUploadEventHandler(store DocumentStore, repo Repository, logger *slog.Logger) *UploadEventHandler {
	return &UploadEventHandler{store: store, repo: repo, logger: logger}
}

// Register subscribes the handler on the bus.
func (h *UploadEventHandler) Register(bus *events.EventBus) {
	bus.Subscribe(EventCustomerSubmitted, h.Handle)
}

func (h *UploadEventHandler) Handle(ctx context.Context, event events.Event) error {
	submitted, ok := event.(SubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	for _, upload := range submitted.Uploads {
		ref, err := h.store.Upload(ctx, submitted.CustomerNumber, upload.Slot, upload.FileName, upload.ContentType, upload.Content)
		if err != nil {
			h.logger.Error("document upload failed",
				"customer_id", submitted.CustomerID,
				"document_id", upload.DocumentID,
				"slot", upload.Slot,
				"error", err)
			if updErr := h.repo.UpdateDocumentUpload(upload.DocumentID, UploadStatusFailed, nil); updErr != nil {
				h.logger.Error("failed to record upload failure",
					"document_id", upload.DocumentID, "error", updErr)
			}
			continue
		}

		if err := h.repo.UpdateDocumentUpload(upload.DocumentID, UploadStatusUploaded, &ref); err != nil {
			h.logger.Error("failed to record upload success",
				"document_id", upload.DocumentID, "error", err)
			continue
		}

		h.logger.Info("document uploaded",
			"customer_id", submitted.CustomerID,
			"document_id", upload.DocumentID,
			"slot", upload.Slot,
			"storage_ref", ref)
	}

	return nil
}
