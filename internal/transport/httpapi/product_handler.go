package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"maison-be/internal/product"
	"maison-be/internal/salonservice"
	"maison-be/internal/utils"
)

type ProductHandler struct {
	svc         product.Service
	serviceRepo salonservice.Repository
}

func NewProductHandler(svc product.Service, serviceRepo salonservice.Repository) *ProductHandler {
	return &ProductHandler{svc: svc, serviceRepo: serviceRepo}
}

type productResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	CategoryName  string   `json:"category_name,omitempty"`
	Price         float64  `json:"price"`
	Stock         int      `json:"stock"`
	Status        string   `json:"status"`
	Description   *string  `json:"description,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	ColorVariants []string `json:"color_variants,omitempty"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		CategoryName:  p.CategoryName,
		Price:         p.Price,
		Stock:         p.Stock,
		Status:        p.Status,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		ColorVariants: p.ColorVariants,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := product.ProductQueryOptions{
		SortField: q.Get("sort"),
		SortAsc:   q.Get("order") != "desc",
	}
	if search := q.Get("search"); search != "" {
		opts.Search = &search
	}
	if categoryID := q.Get("category_id"); categoryID != "" {
		opts.CategoryID = &categoryID
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		l := int32(limit)
		opts.Limit = &l
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		p := int32(page)
		opts.Page = &p
	}

	products, err := h.svc.GetProducts(r.Context(), opts)
	if err != nil {
		utils.WriteJSONError(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, toProductResponse(p))
}

// Services lists the bookable services for the booking flow.
func (h *ProductHandler) Services(w http.ResponseWriter, r *http.Request) {
	services, err := h.serviceRepo.GetActive(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "failed to load services", http.StatusInternalServerError)
		return
	}

	type serviceResponse struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		Price           float64 `json:"price"`
		DurationMinutes int     `json:"duration_minutes"`
		Description     *string `json:"description,omitempty"`
	}

	out := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, serviceResponse{
			ID:              s.ID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
			Description:     s.Description,
		})
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"services": out})
}

type newProductRequest struct {
	Name          string   `json:"name"`
	CategoryID    string   `json:"category_id"`
	Price         float64  `json:"price"`
	Stock         int      `json:"stock"`
	Description   *string  `json:"description,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	ColorVariants []string `json:"color_variants,omitempty"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req newProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), product.NewProductInput{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Price:         req.Price,
		Stock:         req.Stock,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		ColorVariants: req.ColorVariants,
	})
	if err != nil {
		if errors.Is(err, product.ErrMissingName) || errors.Is(err, product.ErrInvalidPrice) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteJSONError(w, "failed to create product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, toProductResponse(p))
}

type updateProductRequest struct {
	Name          *string  `json:"name,omitempty"`
	CategoryID    *string  `json:"category_id,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	Status        *string  `json:"status,omitempty"`
	Description   *string  `json:"description,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	ColorVariants []string `json:"color_variants,omitempty"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), product.UpdateProductInput{
		ProductID:     r.PathValue("id"),
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Price:         req.Price,
		Stock:         req.Stock,
		Status:        req.Status,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		ColorVariants: req.ColorVariants,
	})
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, product.ErrInvalidPrice):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			utils.WriteJSONError(w, "failed to update product", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, toProductResponse(p))
}

// Archive retires a product from the storefront while keeping its rows for
// order history.
func (h *ProductHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ArchiveProduct(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to archive product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"archived": true})
}

type newServiceRequest struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Description     *string `json:"description,omitempty"`
}

func (h *ProductHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req newServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Price <= 0 || req.DurationMinutes <= 0 {
		utils.WriteJSONError(w, "name, price and duration_minutes are required", http.StatusBadRequest)
		return
	}

	svc, err := h.serviceRepo.Create(r.Context(), &salonservice.SalonService{
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
		Description:     req.Description,
	})
	if err != nil {
		utils.WriteJSONError(w, "failed to create service", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":               svc.ID,
		"name":             svc.Name,
		"price":            svc.Price,
		"duration_minutes": svc.DurationMinutes,
		"active":           svc.Active,
	})
}

func (h *ProductHandler) SetServiceActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.serviceRepo.SetActive(r.Context(), r.PathValue("id"), req.Active); err != nil {
		if errors.Is(err, salonservice.ErrServiceNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to update service", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"active": req.Active})
}
