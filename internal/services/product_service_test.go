package services_test

import (
	"path/filepath"
	"testing"

	"github.com/nkhandel/bookstock/internal/models"
	"github.com/nkhandel/bookstock/internal/repositories"
	"github.com/nkhandel/bookstock/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newService(t *testing.T) *services.ProductService {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return services.NewProductServiceOn(repositories.NewProductRepositoryOn(db))
}

func fl(v float64) *float64 { return &v }
func num(v int) *int        { return &v }

func validInput() services.ProductInput {
	return services.ProductInput{
		Barcode:     "123456789012",
		Name:        "Book A",
		Description: "First edition",
		Price:       fl(9.99),
		Quantity:    num(5),
		Category:    "Fiction",
	}
}

func TestCreateProduct(t *testing.T) {
	svc := newService(t)

	product, fieldErrs, err := svc.Create(validInput())
	require.NoError(t, err)
	require.False(t, fieldErrs.Any())
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Book A", product.Name)

	got, err := svc.Get("123456789012")
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
}

func TestCreateValidationAggregatesAllFields(t *testing.T) {
	svc := newService(t)

	_, fieldErrs, err := svc.Create(services.ProductInput{})
	require.NoError(t, err)
	require.True(t, fieldErrs.Any())

	for _, field := range []string{"barcode", "name", "price", "quantity", "category"} {
		assert.Contains(t, fieldErrs, field, "missing error for %s", field)
	}

	// Nothing was written.
	all, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateDuplicateBarcodeMessage(t *testing.T) {
	svc := newService(t)

	_, fieldErrs, err := svc.Create(validInput())
	require.NoError(t, err)
	require.False(t, fieldErrs.Any())

	second := validInput()
	second.Name = "Book B" // same barcode, different name
	_, fieldErrs, err = svc.Create(second)
	require.NoError(t, err)
	assert.Equal(t, []string{"The barcode already exists."}, fieldErrs["barcode"])
	assert.NotContains(t, fieldErrs, "name")

	// The existing record is untouched.
	got, err := svc.Get("123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Book A", got.Name)

	all, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateDuplicateNameMessage(t *testing.T) {
	svc := newService(t)

	_, _, err := svc.Create(validInput())
	require.NoError(t, err)

	second := validInput()
	second.Barcode = "999999999999"
	_, fieldErrs, err := svc.Create(second)
	require.NoError(t, err)
	assert.Equal(t, []string{"The product name already exists."}, fieldErrs["name"])
}

func TestCreateExplicitZeroPriceAndQuantity(t *testing.T) {
	svc := newService(t)

	in := validInput()
	in.Price = fl(0)
	in.Quantity = num(0)
	product, fieldErrs, err := svc.Create(in)
	require.NoError(t, err)
	require.False(t, fieldErrs.Any())
	assert.Zero(t, product.Price)
	assert.Zero(t, product.Quantity)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	svc := newService(t)

	_, _, err := svc.Create(validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Book A (Revised)"
	in.Description = ""
	in.Price = fl(14.99)
	in.Quantity = num(3)
	in.Category = "History"

	updated, fieldErrs, err := svc.Update("123456789012", in)
	require.NoError(t, err)
	require.False(t, fieldErrs.Any())
	assert.Equal(t, "Book A (Revised)", updated.Name)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, 14.99, updated.Price)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, "History", updated.Category)
}

func TestUpdateOwnIdentityIsNotACollision(t *testing.T) {
	svc := newService(t)

	_, _, err := svc.Create(validInput())
	require.NoError(t, err)

	// Re-submitting the record's own barcode and name must pass.
	in := validInput()
	in.Price = fl(11)
	_, fieldErrs, err := svc.Update("123456789012", in)
	require.NoError(t, err)
	assert.False(t, fieldErrs.Any())
}

func TestUpdateCollidesWithOtherRecord(t *testing.T) {
	svc := newService(t)

	_, _, err := svc.Create(validInput())
	require.NoError(t, err)

	other := services.ProductInput{
		Barcode: "222", Name: "Book B",
		Price: fl(1), Quantity: num(1), Category: "Fiction",
	}
	_, _, err = svc.Create(other)
	require.NoError(t, err)

	// Renaming Book B to Book A must be rejected with the name message.
	other.Name = "Book A"
	_, fieldErrs, err := svc.Update("222", other)
	require.NoError(t, err)
	assert.Equal(t, []string{"The product name already exists."}, fieldErrs["name"])
}

func TestUpdateUnknownBarcode(t *testing.T) {
	svc := newService(t)

	_, _, err := svc.Update("missing", validInput())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeleteThenGone(t *testing.T) {
	svc := newService(t)

	_, _, err := svc.Create(validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete("123456789012"))

	_, err = svc.Get("123456789012")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, svc.Delete("123456789012"), repositories.ErrNotFound)
}
