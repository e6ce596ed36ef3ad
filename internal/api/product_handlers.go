package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"livemart-be/internal/account"
	"livemart-be/internal/logger"
	"livemart-be/internal/product"
	"livemart-be/internal/transport"
)

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter product.Filter
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		filter.CategoryID = &id
	}
	if v := q.Get("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid min_price")
			return
		}
		filter.MinPrice = &p
	}
	if v := q.Get("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid max_price")
			return
		}
		filter.MaxPrice = &p
	}
	filter.SortBy = q.Get("sort_by")

	products, err := s.products.List(r.Context(), filter)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list products", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if products == nil {
		products = []*product.Product{}
	}
	transport.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := s.products.Get(r.Context(), id)
	if errors.Is(err, product.ErrProductNotFound) {
		transport.WriteError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("get product", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load product")
		return
	}
	transport.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.GetCategories(r.Context())
	if err != nil {
		logger.FromCtx(r.Context()).Error("list categories", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list categories")
		return
	}
	transport.WriteJSON(w, http.StatusOK, categories)
}

// handleRetailerLocations lists stores with coordinates for the map view.
func (s *Server) handleRetailerLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.accounts.RetailerLocations(r.Context())
	if err != nil {
		logger.FromCtx(r.Context()).Error("list retailer locations", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list retailer locations")
		return
	}
	if locations == nil {
		locations = []*account.RetailerLocation{}
	}
	transport.WriteJSON(w, http.StatusOK, locations)
}

// handleCreateProduct accepts multipart form data so the listing and its
// image arrive in one request.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	name := r.FormValue("name")
	price, priceErr := strconv.ParseFloat(r.FormValue("price"), 64)
	stock, stockErr := strconv.Atoi(r.FormValue("stock"))
	if name == "" || priceErr != nil || stockErr != nil {
		transport.WriteError(w, http.StatusBadRequest, "name, price and stock are required")
		return
	}
	if price < 0 || stock < 0 {
		transport.WriteError(w, http.StatusBadRequest, "price and stock must be non-negative")
		return
	}

	params := product.CreateParams{
		RetailerID: retailer.ID,
		Name:       name,
		Price:      price,
		Stock:      stock,
	}
	if v := r.FormValue("description"); v != "" {
		params.Description = &v
	}
	if v := r.FormValue("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		params.CategoryID = &id
	}

	imageURL, err := saveUpload(r, "image", s.cfg.ProductImageDir, "/product_images")
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "could not read uploaded image")
		return
	}
	params.ImageURL = imageURL

	p, err := s.products.Create(r.Context(), params)
	if err != nil {
		logger.FromCtx(r.Context()).Error("create product", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not create product")
		return
	}
	transport.WriteJSON(w, http.StatusCreated, p)
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	CategoryID  *int64   `json:"category_id"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateProductRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		transport.WriteError(w, http.StatusBadRequest, "price must be non-negative")
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		transport.WriteError(w, http.StatusBadRequest, "stock must be non-negative")
		return
	}

	p, err := s.products.Update(r.Context(), retailer.ID, id, product.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if !s.writeProductError(w, r, err, "could not update product") {
		return
	}
	transport.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	err = s.products.Delete(r.Context(), retailer.ID, id)
	if !s.writeProductError(w, r, err, "could not delete product") {
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (s *Server) handleMyProducts(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}

	products, err := s.products.ListByRetailer(r.Context(), retailer.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list retailer products", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if products == nil {
		products = []*product.Product{}
	}
	transport.WriteJSON(w, http.StatusOK, products)
}

// writeProductError reports whether the caller may proceed: it writes
// the response itself when err is non-nil.
func (s *Server) writeProductError(w http.ResponseWriter, r *http.Request, err error, fallback string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, product.ErrProductNotFound):
		transport.WriteError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, product.ErrNotOwner):
		transport.WriteError(w, http.StatusForbidden, "you do not own this product")
	default:
		logger.FromCtx(r.Context()).Error("product", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, fallback)
	}
	return false
}
