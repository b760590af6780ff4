package bill

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=bill
type Repository interface {
	CreateBill(ctx context.Context, b *Bill) error
	GetBill(ctx context.Context, id uuid.UUID) (*Bill, error)
	UpdateBill(ctx context.Context, b *Bill) error
	ListBills(ctx context.Context, filter ListFilter) ([]*Bill, error)
}

// FileStorage keeps receipt attachments and hands back the URL they are served from.
type FileStorage interface {
	Put(ctx context.Context, f File) (string, error)
}

type ListFilter struct {
	Email string
}

type Service struct {
	repo  Repository
	files FileStorage
}

func NewService(repo Repository, files FileStorage) *Service {
	return &Service{repo: repo, files: files}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Bill, error) {
	return s.repo.ListBills(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.repo.GetBill(ctx, id)
}

func (s *Service) Create(ctx context.Context, b *Bill, f *File) (*Bill, error) {
	if b.Status == "" {
		b.Status = StatusPending
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	if f != nil {
		url, err := s.files.Put(ctx, *f)
		if err != nil {
			return nil, fmt.Errorf("storing attachment: %w", err)
		}

		b.FileURL = url
		b.FileName = f.Name
	}

	if err := s.repo.CreateBill(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Update(ctx context.Context, b *Bill) (*Bill, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBill(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// Scoped returns an API limited to the bills of one employee.
// An empty email gives the unrestricted admin view.
func (s *Service) Scoped(email string) API {
	return scoped{svc: s, email: email}
}

type scoped struct {
	svc   *Service
	email string
}

func (s scoped) List(ctx context.Context) ([]*Bill, error) {
	return s.svc.List(ctx, ListFilter{Email: s.email})
}

func (s scoped) Create(ctx context.Context, b *Bill, f *File) (*Bill, error) {
	if s.email != "" {
		b.Email = s.email
	}

	return s.svc.Create(ctx, b, f)
}

func (s scoped) Update(ctx context.Context, b *Bill) (*Bill, error) {
	if s.email != "" {
		existing, err := s.svc.Get(ctx, b.ID)
		if err != nil {
			return nil, err
		}

		if existing.Email != s.email {
			return nil, ErrNotFound
		}

		// Employees edit the details of their bill. The review outcome and the
		// stored receipt stay as they are.
		b.Email = s.email
		b.Status = existing.Status
		b.CommentAdmin = existing.CommentAdmin
		b.FileURL = existing.FileURL
		b.FileName = existing.FileName
	}

	return s.svc.Update(ctx, b)
}

// Local serves a Store straight from the service, without going over the network.
type Local struct {
	svc   *Service
	email string
}

func NewLocal(svc *Service, email string) Local {
	return Local{svc: svc, email: email}
}

func (l Local) Bills() API {
	return l.svc.Scoped(l.email)
}
