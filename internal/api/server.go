package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"livemart-be/internal/account"
	"livemart-be/internal/cart"
	"livemart-be/internal/category"
	"livemart-be/internal/config"
	"livemart-be/internal/feedback"
	"livemart-be/internal/logger"
	"livemart-be/internal/mail"
	"livemart-be/internal/middleware"
	"livemart-be/internal/oauth"
	"livemart-be/internal/order"
	"livemart-be/internal/product"
	"livemart-be/internal/wholesale"
)

type Server struct {
	cfg *config.Config

	accounts   account.Service
	products   product.Service
	categories category.Repository
	carts      cart.Service
	orders     order.Service
	wholesale  wholesale.Service
	feedback   feedback.Service
	mailer     mail.Dispatcher
	google     *oauth.GoogleClient
}

func NewServer(
	cfg *config.Config,
	accounts account.Service,
	products product.Service,
	categories category.Repository,
	carts cart.Service,
	orders order.Service,
	ws wholesale.Service,
	fb feedback.Service,
	mailer mail.Dispatcher,
	google *oauth.GoogleClient,
) *Server {
	return &Server{
		cfg:        cfg,
		accounts:   accounts,
		products:   products,
		categories: categories,
		carts:      carts,
		orders:     orders,
		wholesale:  ws,
		feedback:   fb,
		mailer:     mailer,
		google:     google,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	// public
	r.Post("/signup/{role}", s.handleSignup)
	r.Post("/login/{role}", s.handleLogin)
	r.Get("/login/google", s.handleGoogleLogin)
	r.Get("/auth/google/callback", s.handleGoogleCallback)

	r.Post("/auth/verify-account", s.handleVerifyAccount)
	r.Post("/auth/resend-verification", s.handleResendVerification)
	r.Post("/auth/forgot-password", s.handleForgotPassword)
	r.Post("/auth/verify-otp", s.handleVerifyResetOTP)
	r.Post("/auth/reset-password", s.handleResetPassword)

	r.Get("/products", s.handleListProducts)
	r.Get("/products/{id}", s.handleGetProduct)
	r.Get("/products/{id}/feedback", s.handleProductFeedback)
	r.Get("/categories", s.handleListCategories)
	r.Get("/retailers/locations", s.handleRetailerLocations)

	r.Post("/contact", s.handleContact)

	// customer
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(s.cfg.JWTSecret, string(account.RoleCustomer)))

		r.Get("/customer/me", s.handleCustomerMe)
		r.Patch("/customer/me", s.handleUpdateCustomer)
		r.Post("/customer/me/picture", s.handleUploadProfilePicture)

		r.Get("/cart", s.handleGetCart)
		r.Post("/cart/add", s.handleAddToCart)
		r.Post("/order/checkout", s.handleCheckout)
		r.Get("/customer/orders", s.handleCustomerOrders)
		r.Post("/feedback", s.handleAddFeedback)
	})

	// retailer
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(s.cfg.JWTSecret, string(account.RoleRetailer)))

		r.Get("/retailer/me", s.handleRetailerMe)
		r.Post("/products", s.handleCreateProduct)
		r.Put("/retailer/products/{id}", s.handleUpdateProduct)
		r.Delete("/retailer/products/{id}", s.handleDeleteProduct)
		r.Get("/retailer/my-products", s.handleMyProducts)

		r.Get("/retailer/orders", s.handleRetailerOrders)
		r.Put("/retailer/orders/{id}/status", s.handleUpdateOrderStatus)
		r.Get("/retailer/customer-history", s.handleCustomerHistory)
		r.Get("/retailer/feedback", s.handleRetailerFeedback)

		r.Get("/retailer/wholesale-market", s.handleWholesaleMarket)
		r.Post("/retailer/wholesale-orders", s.handlePlaceWholesaleOrder)
		r.Get("/retailer/wholesale-orders", s.handleRetailerWholesaleOrders)
	})

	// wholesaler
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(s.cfg.JWTSecret, string(account.RoleWholesaler)))

		r.Get("/wholesaler/me", s.handleWholesalerMe)
		r.Post("/wholesaler/products", s.handleCreateWholesaleProduct)
		r.Get("/wholesaler/products", s.handleWholesaleProducts)
		r.Put("/wholesaler/products/{id}", s.handleUpdateWholesaleProduct)

		r.Get("/wholesaler/orders", s.handleWholesaleOrders)
		r.Get("/wholesaler/history", s.handleWholesaleHistory)
		r.Put("/wholesaler/orders/{id}/status", s.handleUpdateWholesaleOrderStatus)
	})

	fileServer(r, "/product_images", s.cfg.ProductImageDir)
	fileServer(r, "/profile_pictures", s.cfg.ProfilePictureDir)

	return r
}

func fileServer(r chi.Router, path, dir string) {
	fs := http.StripPrefix(path+"/", http.FileServer(http.Dir(dir)))
	r.Get(path+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}
