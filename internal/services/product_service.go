// Package services holds the business layer between HTTP handlers and the
// repositories: input validation, uniqueness feedback, and credential checks.
package services

import (
	"errors"

	"github.com/nkhandel/bookstock/internal/models"
	"github.com/nkhandel/bookstock/internal/repositories"
	"github.com/nkhandel/bookstock/pkg/metrics"
	"github.com/nkhandel/bookstock/pkg/validate"
)

// FieldErrors aggregates validation failures as field → messages, the shape
// the API returns and the dashboard renders.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Any reports whether at least one field failed.
func (fe FieldErrors) Any() bool { return len(fe) > 0 }

// Distinct duplicate messages, kept separate so the dashboard can tell the
// user exactly which identity field collided.
const (
	msgBarcodeExists = "The barcode already exists."
	msgNameExists    = "The product name already exists."
)

// ProductInput is the request body for create and update. Price and
// Quantity are pointers so an explicit 0 is distinguishable from an
// omitted field.
type ProductInput struct {
	Barcode     string   `json:"barcode"     validate:"required,max=255"`
	Name        string   `json:"name"        validate:"required,max=255"`
	Description string   `json:"description" validate:"nullable"`
	Price       *float64 `json:"price"       validate:"required,numeric,gte=0"`
	Quantity    *int     `json:"quantity"    validate:"required,integer,gte=0"`
	Category    string   `json:"category"    validate:"required,max=255"`
}

// ProductService validates product input and drives the repository. The
// validation here is fast feedback; the unique indexes in the repository
// remain the enforcement of record.
type ProductService struct {
	repo *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{repo: repositories.NewProductRepository()}
}

// NewProductServiceOn wires an explicit repository (tests).
func NewProductServiceOn(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// List returns all products, order unspecified.
func (s *ProductService) List() ([]models.Product, error) {
	return s.repo.All()
}

// Get returns the product with the given barcode, or
// repositories.ErrNotFound.
func (s *ProductService) Get(barcode string) (models.Product, error) {
	return s.repo.FindByBarcode(barcode)
}

// Create validates in, checks uniqueness, and persists the product. When
// validation fails nothing is written and the aggregated field errors are
// returned.
func (s *ProductService) Create(in ProductInput) (models.Product, FieldErrors, error) {
	fieldErrs, err := s.check(in, 0)
	if err != nil {
		return models.Product{}, nil, err
	}
	if fieldErrs.Any() {
		return models.Product{}, fieldErrs, nil
	}

	product := models.Product{
		Barcode:     in.Barcode,
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Quantity:    *in.Quantity,
		Category:    in.Category,
	}

	if err := s.repo.Create(&product); err != nil {
		// A concurrent create can slip past the pre-check; the unique
		// index rejects it and we report the same field error.
		if dup := duplicateFieldErrors(err); dup != nil {
			metrics.ProductMutations.WithLabelValues("create", "error").Inc()
			return models.Product{}, dup, nil
		}
		metrics.ProductMutations.WithLabelValues("create", "error").Inc()
		return models.Product{}, nil, err
	}

	metrics.ProductMutations.WithLabelValues("create", "ok").Inc()
	return product, nil, nil
}

// Update replaces every field of the product identified by barcode.
// The record's own identity fields are excluded from the uniqueness check,
// so re-submitting an unchanged barcode or name succeeds.
func (s *ProductService) Update(barcode string, in ProductInput) (models.Product, FieldErrors, error) {
	existing, err := s.repo.FindByBarcode(barcode)
	if err != nil {
		return models.Product{}, nil, err
	}

	fieldErrs, err := s.check(in, existing.ID)
	if err != nil {
		return models.Product{}, nil, err
	}
	if fieldErrs.Any() {
		return models.Product{}, fieldErrs, nil
	}

	existing.Barcode = in.Barcode
	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = *in.Price
	existing.Quantity = *in.Quantity
	existing.Category = in.Category

	if err := s.repo.Update(&existing); err != nil {
		if dup := duplicateFieldErrors(err); dup != nil {
			metrics.ProductMutations.WithLabelValues("update", "error").Inc()
			return models.Product{}, dup, nil
		}
		metrics.ProductMutations.WithLabelValues("update", "error").Inc()
		return models.Product{}, nil, err
	}

	metrics.ProductMutations.WithLabelValues("update", "ok").Inc()
	return existing, nil, nil
}

// Delete removes the product permanently; repositories.ErrNotFound when the
// barcode does not exist.
func (s *ProductService) Delete(barcode string) error {
	product, err := s.repo.FindByBarcode(barcode)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(&product); err != nil {
		metrics.ProductMutations.WithLabelValues("delete", "error").Inc()
		return err
	}

	metrics.ProductMutations.WithLabelValues("delete", "ok").Inc()
	return nil
}

// check runs tag validation and the uniqueness pre-checks. excludeID is the
// record being updated (0 on create) so its own identity never collides
// with itself.
func (s *ProductService) check(in ProductInput, excludeID uint) (FieldErrors, error) {
	fieldErrs := FieldErrors{}
	for field, msg := range validate.Struct(&in) {
		fieldErrs.add(field, msg)
	}

	if in.Barcode != "" {
		taken, err := s.repo.BarcodeTaken(in.Barcode, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			fieldErrs.add("barcode", msgBarcodeExists)
		}
	}

	if in.Name != "" {
		taken, err := s.repo.NameTaken(in.Name, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			fieldErrs.add("name", msgNameExists)
		}
	}

	return fieldErrs, nil
}

func duplicateFieldErrors(err error) FieldErrors {
	switch {
	case errors.Is(err, repositories.ErrDuplicateBarcode):
		return FieldErrors{"barcode": {msgBarcodeExists}}
	case errors.Is(err, repositories.ErrDuplicateName):
		return FieldErrors{"name": {msgNameExists}}
	default:
		return nil
	}
}
