package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"motoauto-service/internal/adapters/scheduler"
	"motoauto-service/internal/app"
	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WsHandler manages WebSocket connections and message routing
type WsHandler struct {
	clients         map[string]*WsClient // clientID -> Client
	clientsMu       sync.RWMutex
	upgrader        websocket.Upgrader
	listings        inbound.ListingSearcher
	auctions        inbound.AuctionService
	identify        func(r *http.Request) (uuid.UUID, bool)
	debounce        time.Duration
	interval        time.Duration
	endingThreshold time.Duration
	logger          zerolog.Logger
}

type WsHandlerParams struct {
	Upgrader       websocket.Upgrader
	ListingService inbound.ListingSearcher
	AuctionService inbound.AuctionService
	// Identify resolves the signed-in user of the upgrade request, if any
	Identify          func(r *http.Request) (uuid.UUID, bool)
	SearchDebounce    time.Duration
	CountdownInterval time.Duration
	EndingThreshold   time.Duration
	Logger            zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	return &WsHandler{
		clients:         make(map[string]*WsClient),
		upgrader:        params.Upgrader,
		listings:        params.ListingService,
		auctions:        params.AuctionService,
		identify:        params.Identify,
		debounce:        params.SearchDebounce,
		interval:        params.CountdownInterval,
		endingThreshold: params.EndingThreshold,
		logger:          params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// ServeHTTP handles WebSocket connection upgrades. Visitors need not be signed in.
func (handler *WsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := uuid.Nil
	if handler.identify != nil {
		if id, ok := handler.identify(r); ok {
			userID = id
		}
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		UserID:  userID,
		Conn:    conn,
		Handler: handler,
		Logger:  handler.logger,
	})
	client.search = app.NewSearchSession(client.ctx, app.SearchSessionParams{
		Searcher: handler.listings,
		Debounce: handler.debounce,
		OnUpdate: func(update app.SearchUpdate) {
			if err := client.Send(NewSearchResultsMessage(update)); err != nil && !errors.Is(err, shared.ErrSessionClosed) {
				client.logger.Warn().Err(err).Msg("Dropped search results")
			}
		},
		Logger: client.logger,
	})

	handler.registerClient(client)

	client.Start()

	// Wait for client to disconnect
	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.id).Str("user_id", client.userID.String()).Msg("WebSocket client connected")
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
	handler.logger.Debug().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	delete(handler.clients, client.id)
	total := len(handler.clients)
	handler.clientsMu.Unlock()

	client.Stop()

	handler.logger.Info().Str("client_id", client.id).Str("user_id", client.userID.String()).Int("total_clients", total).Msg("WebSocket client disconnected")
}

// Shutdown disconnects every client
func (handler *WsHandler) Shutdown() {
	handler.clientsMu.RLock()
	clients := make([]*WsClient, 0, len(handler.clients))
	for _, client := range handler.clients {
		clients = append(clients, client)
	}
	handler.clientsMu.RUnlock()

	for _, client := range clients {
		client.Stop()
	}
}

// GetConnectedClients returns the number of connected clients
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}

func (handler *WsHandler) HandleClientMessage(client *WsClient, msg *ClientMessage) error {
	switch msg.Type {
	case MessageTypeSetFilters:
		client.search.SetFilter(msg.FilterOrEmpty())
		return nil

	case MessageTypeApplyFilters:
		client.search.ApplyFilter(msg.FilterOrEmpty())
		return nil

	case MessageTypeLoadMore:
		if !client.search.LoadMore() {
			client.logger.Debug().Msg("Nothing more to load")
		}
		return nil

	case MessageTypeWatchCountdown:
		return handler.handleWatchCountdown(client, msg)

	case MessageTypeUnwatchCountdown:
		if !client.unwatch(*msg.ListingID) {
			client.logger.Debug().Str("listing_id", msg.ListingID.String()).Msg("No countdown to stop")
		}
		return nil

	default:
		handler.logger.Warn().Str("client_id", client.id).Str("message_type", string(msg.Type)).Msg("Unknown message type from client")
		return shared.ErrUnknownMessageType
	}
}

func (handler *WsHandler) handleWatchCountdown(client *WsClient, msg *ClientMessage) error {
	listingID := *msg.ListingID

	ctx, cancel := context.WithTimeout(client.ctx, 5*time.Second)
	defer cancel()

	a, err := handler.auctions.Get(ctx, listingID)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), &listingID))
	}

	countdown := scheduler.NewCountdown(scheduler.CountdownParams{
		AuctionID:       listingID.String(),
		End:             a.EndTime(),
		Interval:        handler.interval,
		EndingThreshold: handler.endingThreshold,
		OnTick: func(tick scheduler.Tick) {
			client.Send(NewCountdownTickMessage(listingID, tick))
		},
		OnExpire: func(string) {
			client.Send(NewCountdownExpiredMessage(listingID))
		},
		Logger: client.logger,
	})

	client.logger.Info().Str("listing_id", listingID.String()).Time("end_time", a.EndTime()).Msg("Watching auction countdown")
	return client.watch(listingID, countdown)
}
