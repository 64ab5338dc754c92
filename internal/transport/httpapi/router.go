package httpapi

import (
	"net/http"

	"maison-be/internal/logger"
	"maison-be/internal/middleware"
	"maison-be/internal/payment/webhook"
)

type Handlers struct {
	Auth     *AuthHandler
	Product  *ProductHandler
	Category *CategoryHandler
	Cart     *CartHandler
	Booking  *BookingHandler
	Order    *OrderHandler
	Webhook  *webhook.Handler
}

// NewRouter wires the routes and wraps them in the shared middleware chain.
// Handlers behind RequireAuth reject anonymous requests; the rest read the
// user from context when a token happens to be present.
func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.Detail)
	mux.HandleFunc("GET /api/services", h.Product.Services)
	mux.HandleFunc("GET /api/categories", h.Category.List)

	mux.Handle("POST /api/admin/products", middleware.RequireAdmin(http.HandlerFunc(h.Product.Create)))
	mux.Handle("PATCH /api/admin/products/{id}", middleware.RequireAdmin(http.HandlerFunc(h.Product.Update)))
	mux.Handle("DELETE /api/admin/products/{id}", middleware.RequireAdmin(http.HandlerFunc(h.Product.Archive)))
	mux.Handle("POST /api/admin/services", middleware.RequireAdmin(http.HandlerFunc(h.Product.CreateService)))
	mux.Handle("PATCH /api/admin/services/{id}", middleware.RequireAdmin(http.HandlerFunc(h.Product.SetServiceActive)))
	mux.Handle("POST /api/admin/categories", middleware.RequireAdmin(http.HandlerFunc(h.Category.Create)))
	mux.Handle("PUT /api/admin/categories/{id}", middleware.RequireAdmin(http.HandlerFunc(h.Category.Rename)))
	mux.Handle("DELETE /api/admin/categories/{id}", middleware.RequireAdmin(http.HandlerFunc(h.Category.Delete)))

	mux.Handle("GET /api/cart", middleware.RequireAuth(http.HandlerFunc(h.Cart.Get)))
	mux.Handle("POST /api/cart", middleware.RequireAuth(http.HandlerFunc(h.Cart.Add)))
	mux.Handle("PATCH /api/cart/items", middleware.RequireAuth(http.HandlerFunc(h.Cart.UpdateQuantity)))
	mux.Handle("DELETE /api/cart/items", middleware.RequireAuth(http.HandlerFunc(h.Cart.Remove)))
	mux.Handle("GET /api/cart/count", middleware.RequireAuth(http.HandlerFunc(h.Cart.Count)))
	mux.Handle("POST /api/cart/merge", middleware.RequireAuth(http.HandlerFunc(h.Cart.Merge)))

	mux.HandleFunc("GET /api/bookings/booked-times", h.Booking.BookedTimes)
	mux.Handle("POST /api/bookings", middleware.RequireAuth(http.HandlerFunc(h.Booking.Submit)))
	mux.Handle("GET /api/bookings/{id}", middleware.RequireAuth(http.HandlerFunc(h.Booking.Detail)))
	mux.Handle("POST /api/bookings/{id}/cancel", middleware.RequireAuth(http.HandlerFunc(h.Booking.Cancel)))

	mux.Handle("POST /api/orders", middleware.RequireAuth(http.HandlerFunc(h.Order.Checkout)))
	mux.Handle("GET /api/orders", middleware.RequireAuth(http.HandlerFunc(h.Order.List)))
	mux.Handle("GET /api/orders/{id}", middleware.RequireAuth(http.HandlerFunc(h.Order.Detail)))
	mux.Handle("GET /api/orders/{id}/payment", middleware.RequireAuth(http.HandlerFunc(h.Order.PaymentStatus)))

	mux.HandleFunc("POST /webhook/payment", h.Webhook.WebhookHandler)

	var handler http.Handler = mux
	handler = middleware.AuthMiddleware(handler)
	handler = middleware.RateLimitMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORS(handler)
	handler = logger.RequestIDMiddleware(handler)

	return handler
}
