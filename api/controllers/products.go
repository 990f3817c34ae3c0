package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pratm1304/FouShack/api/responses"
	"github.com/pratm1304/FouShack/api/validators"
	product "github.com/pratm1304/FouShack/internal/products"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
	"github.com/pratm1304/FouShack/pkg/logger"
)

const (
	maxTitleLength    = 120
	maxContentLength  = 2000
	maxImageURLLength = 1024
)

type createProductRequest struct {
	Title    string          `json:"title" validate:"required"`
	Content  string          `json:"content"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url" validate:"omitempty,url"`
}

func (p createProductRequest) toInput() product.CreateProductInput {
	return product.CreateProductInput{
		Title:    validators.SanitizeString(p.Title, maxTitleLength),
		Content:  validators.SanitizeString(p.Content, maxContentLength),
		Price:    p.Price,
		ImageURL: validators.SanitizeString(p.ImageURL, maxImageURLLength),
	}
}

type updateProductRequest struct {
	Title    *string          `json:"title,omitempty"`
	Content  *string          `json:"content,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	ImageURL *string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

func (p updateProductRequest) toInput() product.UpdateProductInput {
	input := product.UpdateProductInput{Price: p.Price}
	if p.Title != nil {
		v := validators.SanitizeString(*p.Title, maxTitleLength)
		input.Title = &v
	}
	if p.Content != nil {
		v := validators.SanitizeString(*p.Content, maxContentLength)
		input.Content = &v
	}
	if p.ImageURL != nil {
		v := validators.SanitizeString(*p.ImageURL, maxImageURLLength)
		input.ImageURL = &v
	}
	return input
}

// ListProducts returns the storefront catalog.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		items, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateProduct(r.Context(), productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminDeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, nil
}
