// Package repositories holds the database access layer. Uniqueness of
// barcode and name is enforced here by the unique indexes on the products
// table; duplicate-key violations are translated into per-field sentinel
// errors so callers never race a check-then-write.
package repositories

import (
	"errors"

	"github.com/nkhandel/bookstock/config"
	"github.com/nkhandel/bookstock/internal/models"
	"github.com/nkhandel/bookstock/pkg/cache"
	"github.com/nkhandel/bookstock/pkg/orm"
	"gorm.io/gorm"
)

// listCacheKey is the Redis key holding the full product list.
const listCacheKey = "bookstock:products:all"

var (
	// ErrNotFound is returned when no product matches the given barcode.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateBarcode is returned when another product already owns
	// the barcode.
	ErrDuplicateBarcode = errors.New("barcode already exists")
	// ErrDuplicateName is returned when another product already owns
	// the name.
	ErrDuplicateName = errors.New("product name already exists")
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository uses the shared application connection.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// NewProductRepositoryOn uses an explicit connection (tests).
func NewProductRepositoryOn(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) q() *orm.Query {
	if r.db != nil {
		return orm.Use(r.db)
	}
	return orm.DB()
}

// All returns every product. The result is served from Redis when fresh;
// mutations invalidate the key.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := r.q().Model(&models.Product{}).
		Cache(listCacheKey, config.ListCacheTTL(), &products)
	return products, err
}

// FindByBarcode looks up a single product; ErrNotFound when absent.
func (r *ProductRepository) FindByBarcode(barcode string) (models.Product, error) {
	var product models.Product
	err := r.q().Model(&models.Product{}).Where("barcode = ?", barcode).First(&product)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, ErrNotFound
	}
	return product, err
}

// Create persists a new product. A unique-index violation is attributed to
// barcode or name and returned as the matching sentinel.
func (r *ProductRepository) Create(product *models.Product) error {
	if err := r.q().Create(product); err != nil {
		return r.translateDuplicate(err, product)
	}

	cache.Forget(listCacheKey) //nolint:errcheck
	return nil
}

// Update overwrites all fields of an existing product (last write wins).
func (r *ProductRepository) Update(product *models.Product) error {
	if err := r.q().Save(product); err != nil {
		return r.translateDuplicate(err, product)
	}

	cache.Forget(listCacheKey) //nolint:errcheck
	return nil
}

// Delete removes the product permanently.
func (r *ProductRepository) Delete(product *models.Product) error {
	if err := r.q().Model(&models.Product{}).
		Unscoped().
		Where("id = ?", product.ID).
		Delete(&models.Product{}); err != nil {
		return err
	}

	cache.Forget(listCacheKey) //nolint:errcheck
	return nil
}

// BarcodeTaken reports whether a product other than excludeID owns barcode.
// excludeID 0 means "no record is exempt" (create path); on update the
// record's own ID is passed so its unchanged barcode never counts as a
// collision.
func (r *ProductRepository) BarcodeTaken(barcode string, excludeID uint) (bool, error) {
	var n int64
	err := r.q().Model(&models.Product{}).
		Where("barcode = ? AND id <> ?", barcode, excludeID).
		Count(&n)
	return n > 0, err
}

// NameTaken reports whether a product other than excludeID owns name.
func (r *ProductRepository) NameTaken(name string, excludeID uint) (bool, error) {
	var n int64
	err := r.q().Model(&models.Product{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&n)
	return n > 0, err
}

// translateDuplicate maps a constraint violation onto the colliding field.
// The write has already been rejected by the database, so the lookup here
// only attributes the failure; it cannot race the constraint.
func (r *ProductRepository) translateDuplicate(err error, product *models.Product) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	taken, lookupErr := r.BarcodeTaken(product.Barcode, product.ID)
	if lookupErr == nil && taken {
		return ErrDuplicateBarcode
	}
	return ErrDuplicateName
}
