package domain

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Category classifies a document and governs upload eligibility: candidates
// may only self-upload resumes, hr/admin may upload any category.
type Category string

const (
	CategoryResume   Category = "resume"
	CategoryContract Category = "contract"
	CategoryOffer    Category = "offer"
	CategoryOther    Category = "other"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryResume, CategoryContract, CategoryOffer, CategoryOther:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown document category %q", s)
}

// Document is a stored file owned by exactly one user. UploadedBy records the
// actor that performed the upload, which differs from the owner when hr/admin
// uploads on someone's behalf.
type Document struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	Category   Category  `json:"category"`
	StorageRef string    `json:"storage_ref"`
	URL        string    `json:"url"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// OwnedDocument is a listing row. Owner and Uploader are only populated in
// the hr/admin aggregated view; self listings leave them nil.
type OwnedDocument struct {
	Document
	Owner    *UserIdentity `json:"owner,omitempty"`
	Uploader *UserIdentity `json:"uploader,omitempty"`
}

// DocumentListing is the role-appropriate view returned by List: the actor's
// own documents plus resume slot for candidate/employee, every user's
// documents with identity enrichment for hr/admin.
type DocumentListing struct {
	Documents []OwnedDocument `json:"documents"`
	Resume    *ResumeSlot     `json:"resume,omitempty"`
}

// UploadInput carries one inbound file. FileType is the declared mime type;
// the extension checked by validation is derived from it, never from FileName.
type UploadInput struct {
	TargetUserID string    `json:"-"`
	Category     string    `json:"category" validate:"required"`
	FileName     string    `json:"file_name" validate:"required"`
	FileType     string    `json:"file_type" validate:"required"`
	Size         int64     `json:"size" validate:"gt=0"`
	Content      io.Reader `json:"-" validate:"required"`
}

// DocumentRepository owns document rows and keeps the owner's resume slot
// consistent with them. Append and Remove are single atomic mutations against
// the backing store; there is deliberately no whole-record load-then-save.
type DocumentRepository interface {
	// Append inserts the document and, for category=resume, updates the
	// owner's resume slot in the same transaction.
	Append(ctx context.Context, doc *Document) error
	// GetByID returns (nil, nil) when the owner has no such document.
	GetByID(ctx context.Context, ownerID, docID string) (*Document, error)
	// Remove deletes the document row and repoints the owner's resume slot
	// to the most recent remaining resume document (or clears it) in the
	// same transaction.
	Remove(ctx context.Context, ownerID, docID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Document, error)
	// ListAll flattens every user's documents, enriched with owner and
	// uploader identity snapshots.
	ListAll(ctx context.Context) ([]OwnedDocument, error)
}

type DocumentUsecase interface {
	Upload(ctx context.Context, in UploadInput) (*Document, error)
	List(ctx context.Context) (*DocumentListing, error)
	Delete(ctx context.Context, docID, targetUserID string) error
}
