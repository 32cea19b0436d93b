package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nkhandel/bookstock/internal/repositories"
	"github.com/nkhandel/bookstock/internal/services"
	"github.com/nkhandel/bookstock/pkg/bind"
	"github.com/nkhandel/bookstock/pkg/logger"
	"github.com/nkhandel/bookstock/pkg/response"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{service: services.NewProductService()}
}

// NewProductControllerOn wires an explicit service (tests).
func NewProductControllerOn(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Index returns every product.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List()
	if err != nil {
		logger.WithCtx(r.Context()).Error("list products failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, products)
}

// Store creates a product from the request body.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if err := bind.Decode(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	product, fieldErrs, err := c.service.Create(in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("create product failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if fieldErrs.Any() {
		response.ValidationError(w, fieldErrs)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "barcode", product.Barcode)
	response.Created(w, product)
}

// Show returns one product by barcode.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	product, err := c.service.Get(barcode)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("get product failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, product)
}

// Update replaces all fields of the product at the given barcode.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	var in services.ProductInput
	if err := bind.Decode(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	product, fieldErrs, err := c.service.Update(barcode, in)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("update product failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if fieldErrs.Any() {
		response.ValidationError(w, fieldErrs)
		return
	}

	logger.WithCtx(r.Context()).Info("product updated", "barcode", product.Barcode)
	response.Success(w, product)
}

// Destroy removes the product permanently.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	if err := c.service.Delete(barcode); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("delete product failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithCtx(r.Context()).Info("product deleted", "barcode", barcode)
	response.NoContent(w)
}

// writeDecodeError keeps a wrong-typed field inside the validation
// contract: "price": "abc" answers 422 with errors["price"], while
// malformed JSON stays a 400.
func writeDecodeError(w http.ResponseWriter, err error) {
	var fieldErr *bind.FieldError
	if errors.As(err, &fieldErr) {
		response.ValidationError(w, map[string][]string{fieldErr.Field: {fieldErr.Message}})
		return
	}
	response.Error(w, http.StatusBadRequest, err.Error())
}
