package postgres

import (
	"context"
	"errors"

	"hr-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, email, role, COALESCE(skills, '{}'),
		       resume_ref, resume_url, created_at
		FROM users WHERE id = $1`

	var (
		user      domain.User
		roleStr   string
		skills    []string
		resumeRef *string
		resumeURL *string
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &roleStr, pq.Array(&skills),
		&resumeRef, &resumeURL, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.Skills = skills

	if resumeRef != nil && *resumeRef != "" {
		user.Resume = &domain.ResumeSlot{StorageRef: *resumeRef}
		if resumeURL != nil {
			user.Resume.URL = *resumeURL
		}
	}

	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.UserSummary, error) {
	query := `SELECT id, name FROM users ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.UserSummary
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
