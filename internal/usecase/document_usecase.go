package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hr-portal-backend/internal/domain"
	"hr-portal-backend/internal/permission"
	"hr-portal-backend/pkg/apperror"
	"hr-portal-backend/pkg/events"
	"hr-portal-backend/pkg/logger"
	"hr-portal-backend/pkg/security"
	"hr-portal-backend/pkg/storage"
	"hr-portal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type documentUsecase struct {
	users     domain.UserRepository
	docs      domain.DocumentRepository
	store     storage.Gateway
	publisher *events.Publisher
	validate  *validator.Validate
}

func NewDocumentUsecase(
	users domain.UserRepository,
	docs domain.DocumentRepository,
	store storage.Gateway,
	publisher *events.Publisher,
	validate *validator.Validate,
) domain.DocumentUsecase {
	return &documentUsecase{
		users:     users,
		docs:      docs,
		store:     store,
		publisher: publisher,
		validate:  validate,
	}
}

// Upload runs validate → resolve target → authorize → store → persist.
// Validation and authorization failures return before any external call; a
// storage failure aborts before any metadata is written, so no record can
// reference a blob that was never stored.
func (u *documentUsecase) Upload(ctx context.Context, in domain.UploadInput) (*domain.Document, error) {
	if err := u.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(validation.FormatAsSingleMessage(err))
	}

	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// Extension is derived from the declared mime type, never from the
	// client-supplied filename.
	ext, _ := security.ExtensionFromMIME(in.FileType)
	if verr := security.ValidateDocument(in.FileType, ext, in.Size); verr != nil {
		return nil, apperror.Validation(verr.Message)
	}

	actorID, role, aerr := actorFromContext(ctx)
	if aerr != nil {
		return nil, aerr
	}

	// hr/admin address an explicit target; everyone else uploads to self.
	ownerID := actorID
	if role.CanActForOthers() {
		ownerID = in.TargetUserID
	}

	if derr := permission.Decide(role, permission.ActionUpload, actorID, ownerID, category); derr != nil {
		return nil, derr
	}

	owner, err := u.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if owner == nil {
		return nil, apperror.NotFound("Target user not found")
	}

	stored, err := u.store.Store(ctx, in.Content, "documents", resourceKind(in.FileType))
	if err != nil {
		return nil, asStorageError("failed to store file", err)
	}

	doc := &domain.Document{
		ID:         uuid.NewString(),
		OwnerID:    owner.ID,
		FileName:   in.FileName,
		FileType:   in.FileType,
		Category:   category,
		StorageRef: stored.Ref,
		URL:        stored.URL,
		UploadedBy: actorID,
		UploadedAt: time.Now().UTC(),
	}

	if err := u.docs.Append(ctx, doc); err != nil {
		// The blob was written but its record was not: an orphan the
		// operator must reconcile. Deleting the blob here could destroy a
		// file whose record write actually committed.
		logger.Log.Error("document record save failed after storage write",
			"storage_ref", stored.Ref, "owner_id", owner.ID, "error", err)
		return nil, apperror.Persistence("failed to save document record", err)
	}

	u.publish(events.DocumentUploaded, doc)
	return doc, nil
}

// List builds the role-appropriate view: hr/admin see every user's documents
// flattened with owner and uploader identity, everyone else sees their own
// collection plus resume slot.
func (u *documentUsecase) List(ctx context.Context) (*domain.DocumentListing, error) {
	actorID, role, aerr := actorFromContext(ctx)
	if aerr != nil {
		return nil, aerr
	}

	if role.CanActForOthers() {
		if derr := permission.Decide(role, permission.ActionView, actorID, "", ""); derr != nil {
			return nil, derr
		}
		docs, err := u.docs.ListAll(ctx)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.DocumentListing{Documents: docs}, nil
	}

	if derr := permission.Decide(role, permission.ActionView, actorID, actorID, ""); derr != nil {
		return nil, derr
	}

	user, err := u.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	owned, err := u.docs.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	listing := &domain.DocumentListing{
		Documents: make([]domain.OwnedDocument, 0, len(owned)),
		Resume:    user.Resume,
	}
	for _, d := range owned {
		listing.Documents = append(listing.Documents, domain.OwnedDocument{Document: d})
	}
	return listing, nil
}

// Delete destroys the blob first and removes the record only after the store
// confirms. A storage failure leaves both the file and the record in place,
// a consistent state that is safe to retry.
func (u *documentUsecase) Delete(ctx context.Context, docID, targetUserID string) error {
	actorID, role, aerr := actorFromContext(ctx)
	if aerr != nil {
		return aerr
	}

	// Naming an explicit target is the on-behalf path, reserved for hr/admin
	// even when the target happens to be the caller's own id.
	ownerID := actorID
	if targetUserID != "" {
		if !role.CanActForOthers() {
			return apperror.Forbidden("You can only access your own documents")
		}
		ownerID = targetUserID
	}

	if derr := permission.Decide(role, permission.ActionDelete, actorID, ownerID, ""); derr != nil {
		return derr
	}

	owner, err := u.users.GetByID(ctx, ownerID)
	if err != nil {
		return apperror.Internal(err)
	}
	if owner == nil {
		return apperror.NotFound("User not found")
	}

	doc, err := u.docs.GetByID(ctx, ownerID, docID)
	if err != nil {
		return apperror.Internal(err)
	}
	if doc == nil {
		return apperror.NotFound("Document not found")
	}

	if err := u.store.Destroy(ctx, doc.StorageRef, resourceKind(doc.FileType)); err != nil {
		return asStorageError("failed to delete file from storage", err)
	}

	if err := u.docs.Remove(ctx, ownerID, docID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Removed concurrently between lookup and delete.
			return apperror.NotFound("Document not found")
		}
		logger.Log.Error("document record removal failed after storage delete",
			"storage_ref", doc.StorageRef, "owner_id", ownerID, "error", err)
		return apperror.Persistence("failed to remove document record", err)
	}

	u.publish(events.DocumentDeleted, doc)
	return nil
}

func (u *documentUsecase) publish(routingKey string, doc *domain.Document) {
	err := u.publisher.Publish(routingKey, events.DocumentEvent{
		DocumentID: doc.ID,
		OwnerID:    doc.OwnerID,
		UploadedBy: doc.UploadedBy,
		Category:   string(doc.Category),
		FileType:   doc.FileType,
		URL:        doc.URL,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		// Events are advisory; a broker outage never fails the operation.
		logger.Log.Warn("failed to publish document event",
			"routing_key", routingKey, "document_id", doc.ID, "error", err)
	}
}

func resourceKind(fileType string) storage.ResourceKind {
	if security.IsImageMIME(fileType) {
		return storage.ResourceKindImage
	}
	return storage.ResourceKindRaw
}

func asStorageError(message string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Storage(message, err)
}

// actorFromContext reads the authenticated actor. Works with both Gin context
// (c.Set) and standard context.WithValue.
func actorFromContext(ctx context.Context) (string, domain.Role, *apperror.AppError) {
	id, _ := ctx.Value(string(domain.KeyUserID)).(string)
	if id == "" {
		id, _ = ctx.Value(domain.KeyUserID).(string)
	}

	roleStr, _ := ctx.Value(string(domain.KeyUserRole)).(string)
	if roleStr == "" {
		roleStr, _ = ctx.Value(domain.KeyUserRole).(string)
	}

	if id == "" || roleStr == "" {
		return "", "", apperror.Unauthorized("User not authenticated")
	}

	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return "", "", apperror.New(apperror.KindAuthorization, http.StatusForbidden,
			fmt.Sprintf("role %q is not recognized", roleStr), err)
	}

	return id, role, nil
}
