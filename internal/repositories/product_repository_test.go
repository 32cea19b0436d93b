package repositories_test

import (
	"path/filepath"
	"testing"

	"github.com/nkhandel/bookstock/internal/models"
	"github.com/nkhandel/bookstock/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}, &models.Category{}))
	return db
}

func sampleProduct() models.Product {
	return models.Product{
		Barcode:     "123456789012",
		Name:        "Book A",
		Description: "First edition",
		Price:       9.99,
		Quantity:    5,
		Category:    "Fiction",
	}
}

func TestCreateAndFindByBarcode(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	p := sampleProduct()
	require.NoError(t, repo.Create(&p))
	require.NotZero(t, p.ID)

	got, err := repo.FindByBarcode("123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Book A", got.Name)
	assert.Equal(t, 9.99, got.Price)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, "Fiction", got.Category)
}

func TestFindByBarcodeNotFound(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	_, err := repo.FindByBarcode("does-not-exist")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCreateDuplicateBarcode(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	p := sampleProduct()
	require.NoError(t, repo.Create(&p))

	dup := sampleProduct()
	dup.Name = "Book B" // different name, same barcode
	err := repo.Create(&dup)
	assert.ErrorIs(t, err, repositories.ErrDuplicateBarcode)
}

func TestCreateDuplicateName(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	p := sampleProduct()
	require.NoError(t, repo.Create(&p))

	dup := sampleProduct()
	dup.Barcode = "999999999999" // different barcode, same name
	err := repo.Create(&dup)
	assert.ErrorIs(t, err, repositories.ErrDuplicateName)
}

func TestUpdateKeepsOwnIdentity(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	p := sampleProduct()
	require.NoError(t, repo.Create(&p))

	// Re-saving with its own barcode and name must not collide with itself.
	p.Price = 12.50
	require.NoError(t, repo.Update(&p))

	got, err := repo.FindByBarcode(p.Barcode)
	require.NoError(t, err)
	assert.Equal(t, 12.50, got.Price)
}

func TestUpdateCollidesWithOtherRecord(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	a := sampleProduct()
	require.NoError(t, repo.Create(&a))

	b := models.Product{Barcode: "222", Name: "Book B", Price: 1, Quantity: 1, Category: "Fiction"}
	require.NoError(t, repo.Create(&b))

	b.Barcode = a.Barcode
	err := repo.Update(&b)
	assert.ErrorIs(t, err, repositories.ErrDuplicateBarcode)
}

func TestTakenChecks(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	p := sampleProduct()
	require.NoError(t, repo.Create(&p))

	taken, err := repo.BarcodeTaken(p.Barcode, 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// The record's own ID is exempt on update.
	taken, err = repo.BarcodeTaken(p.Barcode, p.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.NameTaken("Book A", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.NameTaken("No Such Book", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDeleteFreesIdentity(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	p := sampleProduct()
	require.NoError(t, repo.Create(&p))
	require.NoError(t, repo.Delete(&p))

	_, err := repo.FindByBarcode(p.Barcode)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// The barcode and name are free again after a delete.
	again := sampleProduct()
	assert.NoError(t, repo.Create(&again))
}

func TestAllListsEveryProduct(t *testing.T) {
	repo := repositories.NewProductRepositoryOn(testDB(t))

	a := sampleProduct()
	require.NoError(t, repo.Create(&a))
	b := models.Product{Barcode: "222", Name: "Book B", Price: 1, Quantity: 1, Category: "History"}
	require.NoError(t, repo.Create(&b))

	all, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
