package postgres

import (
	"context"
	"errors"
	"fmt"

	"hr-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// documentRepo keeps documents in their own table keyed by generated id.
// Append and Remove mutate one row per document inside a transaction that
// also syncs the resume slot, with the user row locked while the slot moves,
// so two concurrent operations on the same owner can never lose each other's
// writes the way a whole-record read-modify-write would.
type documentRepo struct {
	db *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) domain.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Append(ctx context.Context, doc *domain.Document) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO documents (id, owner_id, file_name, file_type, category,
		                       storage_ref, url, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.Exec(ctx, insert,
		doc.ID, doc.OwnerID, doc.FileName, doc.FileType, string(doc.Category),
		doc.StorageRef, doc.URL, doc.UploadedBy, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	// A resume upload becomes the owner's current resume.
	if doc.Category == domain.CategoryResume {
		slotUpdate := `UPDATE users SET resume_ref = $1, resume_url = $2 WHERE id = $3`
		if _, err := tx.Exec(ctx, slotUpdate, doc.StorageRef, doc.URL, doc.OwnerID); err != nil {
			return fmt.Errorf("failed to update resume slot: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *documentRepo) GetByID(ctx context.Context, ownerID, docID string) (*domain.Document, error) {
	query := `
		SELECT id, owner_id, file_name, file_type, category, storage_ref,
		       url, uploaded_by, uploaded_at
		FROM documents WHERE id = $1 AND owner_id = $2`

	doc, err := scanDocument(r.db.QueryRow(ctx, query, docID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (r *documentRepo) Remove(ctx context.Context, ownerID, docID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		category   string
		storageRef string
	)
	del := `DELETE FROM documents WHERE id = $1 AND owner_id = $2
	        RETURNING category, storage_ref`
	if err := tx.QueryRow(ctx, del, docID, ownerID).Scan(&category, &storageRef); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if category == string(domain.CategoryResume) {
		if err := r.syncResumeSlot(ctx, tx, ownerID, storageRef); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// syncResumeSlot keeps the owner's resume slot in step after a resume
// document was deleted in the same transaction. The user row is locked so a
// concurrent resume upload or delete on the same owner serializes behind it.
func (r *documentRepo) syncResumeSlot(ctx context.Context, tx pgx.Tx, ownerID, deletedRef string) error {
	var curRef, curURL *string
	lock := `SELECT resume_ref, resume_url FROM users WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRow(ctx, lock, ownerID).Scan(&curRef, &curURL); err != nil {
		return fmt.Errorf("failed to lock resume slot: %w", err)
	}

	var remaining *domain.ResumeSlot
	latest := `
		SELECT storage_ref, url FROM documents
		WHERE owner_id = $1 AND category = 'resume'
		ORDER BY uploaded_at DESC LIMIT 1`
	var candidate domain.ResumeSlot
	err := tx.QueryRow(ctx, latest, ownerID).Scan(&candidate.StorageRef, &candidate.URL)
	switch {
	case err == nil:
		remaining = &candidate
	case errors.Is(err, pgx.ErrNoRows):
		// No resume documents left.
	default:
		return fmt.Errorf("failed to find remaining resume: %w", err)
	}

	next, changed := nextResumeSlot(slotFromColumns(curRef, curURL), deletedRef, remaining)
	if !changed {
		return nil
	}

	var nextRef, nextURL *string
	if next != nil {
		nextRef, nextURL = &next.StorageRef, &next.URL
	}
	update := `UPDATE users SET resume_ref = $1, resume_url = $2 WHERE id = $3`
	if _, err := tx.Exec(ctx, update, nextRef, nextURL, ownerID); err != nil {
		return fmt.Errorf("failed to update resume slot: %w", err)
	}
	return nil
}

// nextResumeSlot decides where the owner's resume slot should point after the
// resume document with deletedRef was removed. remaining is the most recent
// resume document still on record, or nil. The slot moves only when it pointed
// at the deleted document: it repoints to remaining, or clears when nothing is
// left. Deleting an older resume never touches the slot.
func nextResumeSlot(current *domain.ResumeSlot, deletedRef string, remaining *domain.ResumeSlot) (*domain.ResumeSlot, bool) {
	if current == nil || current.StorageRef != deletedRef {
		return current, false
	}
	return remaining, true
}

func slotFromColumns(ref, url *string) *domain.ResumeSlot {
	if ref == nil || *ref == "" {
		return nil
	}
	slot := &domain.ResumeSlot{StorageRef: *ref}
	if url != nil {
		slot.URL = *url
	}
	return slot
}

func (r *documentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	query := `
		SELECT id, owner_id, file_name, file_type, category, storage_ref,
		       url, uploaded_by, uploaded_at
		FROM documents WHERE owner_id = $1 ORDER BY uploaded_at`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (r *documentRepo) ListAll(ctx context.Context) ([]domain.OwnedDocument, error) {
	// Owner identity comes from the owning user record; uploader identity is
	// resolved from uploaded_by so on-behalf uploads keep real authorship.
	query := `
		SELECT d.id, d.owner_id, d.file_name, d.file_type, d.category,
		       d.storage_ref, d.url, d.uploaded_by, d.uploaded_at,
		       o.name, o.email,
		       COALESCE(up.name, ''), COALESCE(up.email, '')
		FROM documents d
		JOIN users o ON o.id = d.owner_id
		LEFT JOIN users up ON up.id = d.uploaded_by
		ORDER BY d.owner_id, d.uploaded_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.OwnedDocument{}
	for rows.Next() {
		var (
			od       domain.OwnedDocument
			category string
			owner    domain.UserIdentity
			uploader domain.UserIdentity
		)
		err := rows.Scan(
			&od.ID, &od.OwnerID, &od.FileName, &od.FileType, &category,
			&od.StorageRef, &od.URL, &od.UploadedBy, &od.UploadedAt,
			&owner.Name, &owner.Email,
			&uploader.Name, &uploader.Email,
		)
		if err != nil {
			return nil, err
		}
		od.Category = domain.Category(category)
		od.Owner = &owner
		od.Uploader = &uploader
		docs = append(docs, od)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc      domain.Document
		category string
	)
	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.FileName, &doc.FileType, &category,
		&doc.StorageRef, &doc.URL, &doc.UploadedBy, &doc.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Category = domain.Category(category)
	return &doc, nil
}
