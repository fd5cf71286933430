package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"invoice-backend/internal/models"
)

// PersonStore is the persistence PersonService relies on.
type PersonStore interface {
	Create(ctx context.Context, p *models.Person) (*models.Person, error)
	Get(ctx context.Context, name string) (*models.Person, error)
	List(ctx context.Context) ([]*models.Person, error)
	Delete(ctx context.Context, name string) error
}

type PersonService struct {
	Repo PersonStore
}

func NewPersonService(repo PersonStore) *PersonService {
	return &PersonService{Repo: repo}
}

func (s *PersonService) CreatePerson(ctx context.Context, req *models.CreatePersonRequest) (*models.Person, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, req.Email)
		}
	}

	return s.Repo.Create(ctx, &models.Person{
		Name:    name,
		Address: strings.TrimSpace(req.Address),
		Email:   strings.TrimSpace(req.Email),
	})
}

func (s *PersonService) GetPerson(ctx context.Context, name string) (*models.Person, error) {
	return s.Repo.Get(ctx, name)
}

func (s *PersonService) ListPersons(ctx context.Context) ([]*models.Person, error) {
	return s.Repo.List(ctx)
}

func (s *PersonService) DeletePerson(ctx context.Context, name string) error {
	return s.Repo.Delete(ctx, name)
}
