package httpapi

import (
	"net/http"

	"motoauto-service/internal/ports/inbound"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// API holds the HTTP handlers of the marketplace
type API struct {
	listings     inbound.ListingService
	auctions     inbound.AuctionService
	auth         inbound.AuthService
	websocket    http.Handler
	cookieName   string
	cookieSecure bool
	loginPath    string
	origins      []string
	logger       zerolog.Logger
}

type APIParams struct {
	ListingService inbound.ListingService
	AuctionService inbound.AuctionService
	AuthService    inbound.AuthService
	// WebSocket serves /ws; the route is left out when nil
	WebSocket      http.Handler
	SessionCookie  string
	CookieSecure   bool
	LoginPath      string
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewAPI creates the HTTP handlers
func NewAPI(params APIParams) *API {
	api := &API{
		listings:     params.ListingService,
		auctions:     params.AuctionService,
		auth:         params.AuthService,
		websocket:    params.WebSocket,
		cookieName:   params.SessionCookie,
		cookieSecure: params.CookieSecure,
		loginPath:    params.LoginPath,
		origins:      params.AllowedOrigins,
		logger:       params.Logger.With().Str("component", "http_api").Logger(),
	}
	if api.cookieName == "" {
		api.cookieName = "session"
	}
	if api.loginPath == "" {
		api.loginPath = "/login"
	}
	return api
}

// Routes builds the router with its middleware chains
func (api *API) Routes() http.Handler {
	baseMiddleware := alice.New(api.recoverPanic, api.logRequest)
	standardMiddleware := baseMiddleware.Append(secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(api.requireSession)
	pageMiddleware := standardMiddleware.Append(api.requirePage)

	r := mux.NewRouter()

	// Listings
	r.Handle("/api/listings", standardMiddleware.ThenFunc(api.listListings)).Methods(http.MethodGet)
	r.Handle("/api/listings", authMiddleware.ThenFunc(api.createListing)).Methods(http.MethodPost)
	r.Handle("/api/listings/{id}", standardMiddleware.ThenFunc(api.getListing)).Methods(http.MethodGet)
	r.Handle("/api/listings/{id}", authMiddleware.ThenFunc(api.updateListing)).Methods(http.MethodPatch)
	r.Handle("/api/listings/{id}", authMiddleware.ThenFunc(api.deleteListing)).Methods(http.MethodDelete)
	r.Handle("/api/me/listings", authMiddleware.ThenFunc(api.myListings)).Methods(http.MethodGet)

	// Auctions
	r.Handle("/api/auctions", standardMiddleware.ThenFunc(api.listAuctions)).Methods(http.MethodGet)
	r.Handle("/api/auctions/{id}", standardMiddleware.ThenFunc(api.getAuction)).Methods(http.MethodGet)
	r.Handle("/api/auctions/{id}/bid-panel", standardMiddleware.ThenFunc(api.bidPanel)).Methods(http.MethodGet)
	r.Handle("/api/auctions/{id}/bids/validate", standardMiddleware.ThenFunc(api.validateBid)).Methods(http.MethodPost)

	// Auth
	r.Handle("/api/auth/signup", standardMiddleware.ThenFunc(api.signUp)).Methods(http.MethodPost)
	r.Handle("/api/auth/signin", standardMiddleware.ThenFunc(api.signIn)).Methods(http.MethodPost)
	r.Handle("/api/auth/signout", standardMiddleware.ThenFunc(api.signOut)).Methods(http.MethodPost)

	// Pages
	r.Handle("/dashboard", pageMiddleware.ThenFunc(api.dashboard)).Methods(http.MethodGet)
	r.Handle("/new-listing", pageMiddleware.ThenFunc(api.newListing)).Methods(http.MethodGet)

	r.Handle("/health", standardMiddleware.ThenFunc(api.handleHealth)).Methods(http.MethodGet)

	if api.websocket != nil {
		r.Handle("/ws", baseMiddleware.Then(api.websocket)).Methods(http.MethodGet)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   api.origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r)
}
