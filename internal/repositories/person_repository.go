package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"invoice-backend/internal/database"
	"invoice-backend/internal/models"
)

type PersonRepository struct {
	DB *pgxpool.Pool
}

func NewPersonRepository(db *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{DB: db}
}

// Create inserts a person. Names are unique.
func (r *PersonRepository) Create(ctx context.Context, p *models.Person) (*models.Person, error) {
	var created *models.Person
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		exists, err := s.Exists(ctx, "persons", database.Filters{"person_name": p.Name})
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("person %q: %w", p.Name, ErrDuplicate)
		}

		// ON CONFLICT covers a concurrent insert between the check and here
		row := s.QueryRow(ctx,
			`INSERT INTO persons(person_name, address, email)
			 VALUES($1, $2, $3)
			 ON CONFLICT (person_name) DO NOTHING
			 RETURNING person_name, address, email`,
			p.Name, p.Address, p.Email)
		created, err = scanPerson(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("person %q: %w", p.Name, ErrDuplicate)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PersonRepository) Get(ctx context.Context, name string) (*models.Person, error) {
	var person *models.Person
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		var err error
		person, err = getPerson(ctx, s, name)
		return err
	})
	return person, err
}

func (r *PersonRepository) List(ctx context.Context) ([]*models.Person, error) {
	var persons []*models.Person
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		rows, err := s.Rows(ctx, `SELECT person_name, address, email FROM persons ORDER BY person_name`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			person, err := scanPerson(rows)
			if err != nil {
				return err
			}
			persons = append(persons, person)
		}
		return rows.Err()
	})
	return persons, err
}

// Delete removes a person. Persons named on an invoice cannot be deleted.
func (r *PersonRepository) Delete(ctx context.Context, name string) error {
	return database.WithSession(ctx, r.DB, func(s *database.Session) error {
		tag, err := s.Exec(ctx, `DELETE FROM persons WHERE person_name=$1`, name)
		if isPgError(err, foreignKeyViolation) {
			return fmt.Errorf("person %q: %w", name, ErrReferenced)
		}
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("person %q: %w", name, ErrNotFound)
		}
		return nil
	})
}

func getPerson(ctx context.Context, s *database.Session, name string) (*models.Person, error) {
	row := s.QueryRow(ctx, `SELECT person_name, address, email FROM persons WHERE person_name=$1`, name)
	person, err := scanPerson(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("person %q: %w", name, ErrNotFound)
	}
	return person, err
}

func scanPerson(row pgx.Row) (*models.Person, error) {
	var p models.Person
	if err := row.Scan(&p.Name, &p.Address, &p.Email); err != nil {
		return nil, err
	}
	return &p, nil
}
