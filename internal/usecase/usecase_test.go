package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"hr-portal-backend/internal/domain"
	"hr-portal-backend/internal/usecase"
	"hr-portal-backend/pkg/apperror"
	"hr-portal-backend/pkg/logger"
	"hr-portal-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context) ([]domain.UserSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Append(ctx context.Context, doc *domain.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, ownerID, docID string) (*domain.Document, error) {
	args := m.Called(ctx, ownerID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) Remove(ctx context.Context, ownerID, docID string) error {
	return m.Called(ctx, ownerID, docID).Error(0)
}

func (m *MockDocumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListAll(ctx context.Context) ([]domain.OwnedDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnedDocument), args.Error(1)
}

type MockStorageGateway struct {
	mock.Mock
}

func (m *MockStorageGateway) Store(ctx context.Context, r io.Reader, folder string, kind storage.ResourceKind) (*storage.StoredObject, error) {
	args := m.Called(ctx, r, folder, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.StoredObject), args.Error(1)
}

func (m *MockStorageGateway) Destroy(ctx context.Context, ref string, kind storage.ResourceKind) error {
	return m.Called(ctx, ref, kind).Error(0)
}

func actorCtx(id string, role string) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, id)
	return context.WithValue(ctx, domain.KeyUserRole, role)
}

func pdfUpload(category string, size int64) domain.UploadInput {
	return domain.UploadInput{
		Category: category,
		FileName: "cv.pdf",
		FileType: "application/pdf",
		Size:     size,
		Content:  bytes.NewReader([]byte("%PDF-1.4")),
	}
}

func newDocumentUC(users *MockUserRepo, docs *MockDocumentRepo, gw *MockStorageGateway) domain.DocumentUsecase {
	return usecase.NewDocumentUsecase(users, docs, gw, nil, validator.New())
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
}

func TestUploadRoundTrip(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	ctx := actorCtx("cand1", "candidate")
	candidate := &domain.User{ID: "cand1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleCandidate}

	users.On("GetByID", mock.Anything, "cand1").Return(candidate, nil).Once()
	gw.On("Store", mock.Anything, mock.Anything, "documents", storage.ResourceKindRaw).
		Return(&storage.StoredObject{Ref: "documents/abc123", URL: "https://cdn.example.com/documents/abc123"}, nil)

	var saved domain.Document
	docs.On("Append", mock.Anything, mock.AnythingOfType("*domain.Document")).
		Run(func(args mock.Arguments) {
			saved = *args.Get(1).(*domain.Document)
		}).Return(nil)

	doc, err := uc.Upload(ctx, pdfUpload("resume", 2*1024*1024))
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/documents/abc123", doc.URL)
	assert.Equal(t, "cand1", saved.OwnerID)
	assert.Equal(t, "cand1", saved.UploadedBy)
	assert.Equal(t, domain.CategoryResume, saved.Category)
	assert.NotEmpty(t, saved.ID)

	// Listing as the same candidate yields the one document and a populated
	// resume slot.
	withResume := &domain.User{
		ID: "cand1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleCandidate,
		Resume: &domain.ResumeSlot{StorageRef: saved.StorageRef, URL: saved.URL},
	}
	users.On("GetByID", mock.Anything, "cand1").Return(withResume, nil).Once()
	docs.On("ListByOwner", mock.Anything, "cand1").Return([]domain.Document{saved}, nil)

	listing, err := uc.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, listing.Documents, 1)
	assert.Equal(t, "cv.pdf", listing.Documents[0].FileName)
	assert.Equal(t, domain.CategoryResume, listing.Documents[0].Category)
	assert.NotNil(t, listing.Resume)
	assert.Equal(t, saved.URL, listing.Resume.URL)
}

func TestUploadDeniedBeforeStorage(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	t.Run("candidate cannot upload a contract", func(t *testing.T) {
		_, err := uc.Upload(actorCtx("cand1", "candidate"), pdfUpload("contract", 1024))
		assert.Error(t, err)
		assertKind(t, err, apperror.KindAuthorization)
	})

	t.Run("employee cannot upload at all", func(t *testing.T) {
		_, err := uc.Upload(actorCtx("emp1", "employee"), pdfUpload("resume", 1024))
		assert.Error(t, err)
		assertKind(t, err, apperror.KindAuthorization)
	})

	// No side effects: neither the user store nor the blob store was touched
	gw.AssertNotCalled(t, "Store")
	users.AssertNotCalled(t, "GetByID")
	docs.AssertNotCalled(t, "Append")
}

func TestUploadValidationRunsFirst(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	t.Run("oversize file is a validation error even when authorization would deny", func(t *testing.T) {
		_, err := uc.Upload(actorCtx("emp1", "employee"), pdfUpload("resume", 5*1024*1024+1))
		assert.Error(t, err)
		assertKind(t, err, apperror.KindValidation)
	})

	t.Run("exactly 5 MiB passes validation", func(t *testing.T) {
		users.On("GetByID", mock.Anything, "cand1").Return(
			&domain.User{ID: "cand1", Role: domain.RoleCandidate}, nil)
		gw.On("Store", mock.Anything, mock.Anything, "documents", storage.ResourceKindRaw).
			Return(&storage.StoredObject{Ref: "documents/x", URL: "https://cdn/x"}, nil)
		docs.On("Append", mock.Anything, mock.Anything).Return(nil)

		_, err := uc.Upload(actorCtx("cand1", "candidate"), pdfUpload("resume", 5*1024*1024))
		assert.NoError(t, err)
	})

	t.Run("unsupported mime type is rejected", func(t *testing.T) {
		in := pdfUpload("resume", 1024)
		in.FileType = "application/x-msdownload"
		_, err := uc.Upload(actorCtx("cand1", "candidate"), in)
		assert.Error(t, err)
		assertKind(t, err, apperror.KindValidation)
	})
}

func TestUploadDelegation(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	employee := &domain.User{ID: "E123", Name: "Ben", Email: "ben@example.com", Role: domain.RoleEmployee}
	users.On("GetByID", mock.Anything, "E123").Return(employee, nil)
	gw.On("Store", mock.Anything, mock.Anything, "documents", storage.ResourceKindRaw).
		Return(&storage.StoredObject{Ref: "documents/offer1", URL: "https://cdn/offer1"}, nil)

	var saved domain.Document
	docs.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = *args.Get(1).(*domain.Document)
		}).Return(nil)

	in := pdfUpload("offer", 1024)
	in.TargetUserID = "E123"

	_, err := uc.Upload(actorCtx("hr9", "hr"), in)
	assert.NoError(t, err)
	assert.Equal(t, "E123", saved.OwnerID)
	assert.Equal(t, "hr9", saved.UploadedBy, "uploader must be the acting hr user, not the owner")
}

func TestUploadTargetRequired(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	_, err := uc.Upload(actorCtx("hr9", "hr"), pdfUpload("offer", 1024))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "target user is required")
	users.AssertNotCalled(t, "GetByID")
	gw.AssertNotCalled(t, "Store")
}

func TestUploadTargetNotFound(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	users.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

	in := pdfUpload("contract", 1024)
	in.TargetUserID = "ghost"

	_, err := uc.Upload(actorCtx("adm1", "admin"), in)
	assert.Error(t, err)
	assertKind(t, err, apperror.KindNotFound)
	gw.AssertNotCalled(t, "Store")
}

func TestUploadStorageFailure(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	users.On("GetByID", mock.Anything, "cand1").Return(
		&domain.User{ID: "cand1", Role: domain.RoleCandidate}, nil)
	gw.On("Store", mock.Anything, mock.Anything, "documents", storage.ResourceKindRaw).
		Return(nil, errors.New("bucket unreachable"))

	_, err := uc.Upload(actorCtx("cand1", "candidate"), pdfUpload("resume", 1024))
	assert.Error(t, err)
	assertKind(t, err, apperror.KindStorage)

	// No orphaned metadata: the record write is never attempted
	docs.AssertNotCalled(t, "Append")
}

func TestDeleteStorageFailureKeepsDocument(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	users.On("GetByID", mock.Anything, "cand1").Return(
		&domain.User{ID: "cand1", Role: domain.RoleCandidate}, nil)
	doc := &domain.Document{
		ID: "doc1", OwnerID: "cand1", FileName: "cv.pdf", FileType: "application/pdf",
		Category: domain.CategoryResume, StorageRef: "documents/abc", URL: "https://cdn/abc",
		UploadedBy: "cand1", UploadedAt: time.Now(),
	}
	docs.On("GetByID", mock.Anything, "cand1", "doc1").Return(doc, nil)
	gw.On("Destroy", mock.Anything, "documents/abc", storage.ResourceKindRaw).
		Return(errors.New("backend down"))

	err := uc.Delete(actorCtx("cand1", "candidate"), "doc1", "")
	assert.Error(t, err)
	assertKind(t, err, apperror.KindStorage)

	// Metadata survives a failed blob delete so the operation can be retried
	docs.AssertNotCalled(t, "Remove")
}

func TestDeleteNotFoundIdempotent(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	users.On("GetByID", mock.Anything, "cand1").Return(
		&domain.User{ID: "cand1", Role: domain.RoleCandidate}, nil)
	docs.On("GetByID", mock.Anything, "cand1", "missing").Return(nil, nil)

	ctx := actorCtx("cand1", "candidate")
	for i := 0; i < 2; i++ {
		err := uc.Delete(ctx, "missing", "")
		assert.Error(t, err)
		assertKind(t, err, apperror.KindNotFound)
	}

	gw.AssertNotCalled(t, "Destroy")
	docs.AssertNotCalled(t, "Remove")
}

func TestDeleteOnBehalf(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	t.Run("candidate cannot target another user", func(t *testing.T) {
		err := uc.Delete(actorCtx("cand1", "candidate"), "doc1", "E123")
		assert.Error(t, err)
		assertKind(t, err, apperror.KindAuthorization)
		users.AssertNotCalled(t, "GetByID")
	})

	// An explicit target is denied for non-hr/admin even when it names the
	// caller's own id; only the implicit self path is theirs.
	t.Run("candidate cannot name an explicit target, even self", func(t *testing.T) {
		err := uc.Delete(actorCtx("cand1", "candidate"), "doc1", "cand1")
		assert.Error(t, err)
		assertKind(t, err, apperror.KindAuthorization)
		users.AssertNotCalled(t, "GetByID")
		gw.AssertNotCalled(t, "Destroy")
	})

	t.Run("employee cannot name an explicit target, even self", func(t *testing.T) {
		err := uc.Delete(actorCtx("E123", "employee"), "doc1", "E123")
		assert.Error(t, err)
		assertKind(t, err, apperror.KindAuthorization)
		users.AssertNotCalled(t, "GetByID")
		gw.AssertNotCalled(t, "Destroy")
	})

	t.Run("hr deletes another user's document", func(t *testing.T) {
		users.On("GetByID", mock.Anything, "E123").Return(
			&domain.User{ID: "E123", Role: domain.RoleEmployee}, nil)
		doc := &domain.Document{
			ID: "doc1", OwnerID: "E123", FileType: "application/pdf",
			Category: domain.CategoryContract, StorageRef: "documents/c1",
		}
		docs.On("GetByID", mock.Anything, "E123", "doc1").Return(doc, nil)
		gw.On("Destroy", mock.Anything, "documents/c1", storage.ResourceKindRaw).Return(nil)
		docs.On("Remove", mock.Anything, "E123", "doc1").Return(nil)

		err := uc.Delete(actorCtx("hr9", "hr"), "doc1", "E123")
		assert.NoError(t, err)
		docs.AssertCalled(t, "Remove", mock.Anything, "E123", "doc1")
	})
}

func TestListAggregation(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	owner := &domain.UserIdentity{Name: "Ben", Email: "ben@example.com"}
	uploader := &domain.UserIdentity{Name: "Hana", Email: "hana@example.com"}
	all := []domain.OwnedDocument{
		{Document: domain.Document{ID: "d1", OwnerID: "E123", UploadedBy: "hr9"}, Owner: owner, Uploader: uploader},
		{Document: domain.Document{ID: "d2", OwnerID: "E123", UploadedBy: "E123"}, Owner: owner, Uploader: owner},
		{Document: domain.Document{ID: "d3", OwnerID: "cand1", UploadedBy: "cand1"}, Owner: uploader, Uploader: uploader},
	}
	docs.On("ListAll", mock.Anything).Return(all, nil)

	listing, err := uc.List(actorCtx("hr9", "hr"))
	assert.NoError(t, err)
	assert.Len(t, listing.Documents, 3)
	assert.Nil(t, listing.Resume)

	seen := map[string]bool{}
	for _, d := range listing.Documents {
		assert.False(t, seen[d.ID], "document %s appears twice", d.ID)
		seen[d.ID] = true
	}

	// Delegated upload keeps real authorship: owner and uploader differ
	assert.Equal(t, "Ben", listing.Documents[0].Owner.Name)
	assert.Equal(t, "Hana", listing.Documents[0].Uploader.Name)

	// hr listing never needs a per-user record fetch
	users.AssertNotCalled(t, "GetByID")
}

func TestActorResolution(t *testing.T) {
	users := new(MockUserRepo)
	docs := new(MockDocumentRepo)
	gw := new(MockStorageGateway)
	uc := newDocumentUC(users, docs, gw)

	t.Run("missing actor fails safe", func(t *testing.T) {
		_, err := uc.List(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not authenticated")
	})

	t.Run("unrecognized role is a distinct error", func(t *testing.T) {
		_, err := uc.List(actorCtx("u1", "superuser"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not recognized")
	})
}

func TestUserDirectory(t *testing.T) {
	users := new(MockUserRepo)
	uc := usecase.NewUserUsecase(users)

	t.Run("hr can list users", func(t *testing.T) {
		users.On("List", mock.Anything).Return([]domain.UserSummary{
			{ID: "E123", Name: "Ben"},
			{ID: "cand1", Name: "Ana"},
		}, nil)

		got, err := uc.ListUsers(actorCtx("hr9", "hr"))
		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("candidate cannot list users", func(t *testing.T) {
		_, err := uc.ListUsers(actorCtx("cand1", "candidate"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Only hr and admin")
	})
}
