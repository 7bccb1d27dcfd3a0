package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	authapp "github.com/blipwear/blip-server/application/auth"
	cartapp "github.com/blipwear/blip-server/application/cart"
	orderapp "github.com/blipwear/blip-server/application/order"
	productapp "github.com/blipwear/blip-server/application/product"
)

type RestHandler struct {
	AuthApp    authapp.AuthApp
	ProductApp productapp.ProductApp
	CartApp    cartapp.CartApp
	OrderApp   orderapp.OrderApp
}

func NewTransport(authApp authapp.AuthApp, productApp productapp.ProductApp, cartApp cartapp.CartApp, orderApp orderapp.OrderApp) http.Handler {
	router := mux.NewRouter()

	rh := &RestHandler{
		AuthApp:    authApp,
		ProductApp: productApp,
		CartApp:    cartApp,
		OrderApp:   orderApp,
	}

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Public routes
	router.HandleFunc("/auth/request-otp", rh.RequestOTP).Methods(http.MethodPost)
	router.HandleFunc("/auth/verify-otp", rh.VerifyOTP).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", rh.Logout).Methods(http.MethodPost)
	router.HandleFunc("/products", rh.ListProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{id:[0-9]+}", rh.GetProduct).Methods(http.MethodGet)

	// Authenticated routes
	router.HandleFunc("/cart", rh.AddToCart).Methods(http.MethodPost)
	router.HandleFunc("/cart", rh.GetCart).Methods(http.MethodGet)
	router.HandleFunc("/cart/items/{id:[0-9]+}", rh.RemoveFromCart).Methods(http.MethodDelete)
	router.HandleFunc("/orders", rh.Checkout).Methods(http.MethodPost)
	router.HandleFunc("/orders", rh.ListOrders).Methods(http.MethodGet)
	router.HandleFunc("/profile/password", rh.SetPassword).Methods(http.MethodPost)

	// Admin routes
	router.HandleFunc("/admin/products", rh.CreateProduct).Methods(http.MethodPost)
	router.HandleFunc("/admin/products/{id:[0-9]+}", rh.UpdateProduct).Methods(http.MethodPut)
	router.HandleFunc("/admin/products/{id:[0-9]+}", rh.DeleteProduct).Methods(http.MethodDelete)

	// middleware
	router.Use(LoggingMiddleware())
	router.Use(AuthMiddleware(authApp))
	router.Use(AdminMiddleware(authApp))

	return router
}
