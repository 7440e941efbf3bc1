package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"motoauto-service/internal/adapters/scheduler"
	"motoauto-service/internal/app"
	"motoauto-service/internal/config"
	"motoauto-service/internal/domain/shared"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	maxMessageSize = 64 * 1024
	sendBuffer     = 100
)

type WsClient struct {
	id         string
	userID     uuid.UUID
	conn       *websocket.Conn
	sendChan   chan *ServerMessage
	ctx        context.Context
	cancel     context.CancelFunc
	handler    *WsHandler
	workerPool *pond.WorkerPool
	search     *app.SearchSession
	countdowns map[uuid.UUID]*scheduler.Countdown
	stopped    bool
	mu         sync.Mutex
	logger     zerolog.Logger
}

type WsClientParams struct {
	// UserID is uuid.Nil for anonymous visitors
	UserID  uuid.UUID
	Conn    *websocket.Conn
	Handler *WsHandler
	Logger  zerolog.Logger
}

// NewClient creates a new WebSocket client
func NewClient(params WsClientParams) *WsClient {
	ctx, cancel := context.WithCancel(context.Background())

	// a single worker keeps the messages of one connection in arrival order
	pool := pond.New(
		config.WSMaxWorkers,
		config.WSMaxCapacity,
		pond.Context(ctx),
	)
	id := uuid.New().String()
	client := &WsClient{
		id:         id,
		userID:     params.UserID,
		conn:       params.Conn,
		sendChan:   make(chan *ServerMessage, sendBuffer),
		ctx:        ctx,
		cancel:     cancel,
		handler:    params.Handler,
		workerPool: pool,
		countdowns: make(map[uuid.UUID]*scheduler.Countdown),
		logger:     params.Logger.With().Str("client_id", id).Str("user_id", params.UserID.String()).Logger(),
	}

	return client
}

func (c *WsClient) Start() {
	go c.messageSender()
	go c.messageReceiver()
}

// Stop closes the connection and tears down the client's search and countdowns
func (client *WsClient) Stop() {
	client.mu.Lock()
	// Prevent double closing
	if client.stopped {
		client.mu.Unlock()
		return
	}
	client.stopped = true
	countdowns := client.countdowns
	client.countdowns = make(map[uuid.UUID]*scheduler.Countdown)
	client.mu.Unlock()

	if client.search != nil {
		client.search.Close()
	}
	for _, countdown := range countdowns {
		countdown.Stop()
	}

	client.cancel()
	client.conn.Close()

	// Stop the worker pool
	if client.workerPool != nil {
		client.workerPool.Stop()
	}
}

// Send queues a message for the client
func (client *WsClient) Send(msg *ServerMessage) error {
	client.mu.Lock()
	if client.stopped {
		client.mu.Unlock()
		return shared.ErrSessionClosed
	}
	client.mu.Unlock()

	select {
	case client.sendChan <- msg:
		return nil
	case <-client.ctx.Done():
		return shared.ErrSessionClosed
	default:
		// Channel is full, try to send with a timeout
		select {
		case client.sendChan <- msg:
			return nil
		case <-client.ctx.Done():
			return shared.ErrSessionClosed
		case <-time.After(100 * time.Millisecond):
			return fmt.Errorf("client send channel is full")
		}
	}
}

// watch replaces any countdown already running for listingID
func (client *WsClient) watch(listingID uuid.UUID, countdown *scheduler.Countdown) error {
	client.mu.Lock()
	if client.stopped {
		client.mu.Unlock()
		return shared.ErrSessionClosed
	}
	previous := client.countdowns[listingID]
	client.countdowns[listingID] = countdown
	client.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}
	countdown.Start()
	return nil
}

// unwatch stops the countdown for listingID and reports whether one existed
func (client *WsClient) unwatch(listingID uuid.UUID) bool {
	client.mu.Lock()
	countdown, ok := client.countdowns[listingID]
	delete(client.countdowns, listingID)
	client.mu.Unlock()

	if ok {
		countdown.Stop()
	}
	return ok
}

func (client *WsClient) messageSender() {
	for {
		select {
		case msg := <-client.sendChan:
			if err := client.sendMessage(msg); err != nil {
				client.logger.Error().Err(err).Msg("Failed to send message to client")
				client.cancel()
				return
			}
		case <-client.ctx.Done():
			return
		}
	}
}

func (client *WsClient) messageReceiver() {
	client.conn.SetReadLimit(maxMessageSize)

	for {
		select {
		case <-client.ctx.Done():
			return
		default:
			_, message, err := client.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					client.logger.Error().Err(err).Msg("WebSocket read error for client")
				} else {
					client.logger.Info().Str("error", err.Error()).Msg("WebSocket connection closed for client")
				}
				// Cancel context to notify handler about disconnection
				client.cancel()
				return
			}
			client.logger.Debug().Int("bytes", len(message)).Msg("Message received from client")

			if !client.dispatch(message) {
				if client.ctx.Err() != nil {
					return
				}
				client.logger.Warn().Msg("Client message queue full, dropping message")
				client.Send(NewErrorMessage("too many pending messages", nil))
			}
		}
	}
}

// dispatch queues message on the worker pool. It reports false once the
// client is stopped or the queue is full; it never blocks.
func (client *WsClient) dispatch(message []byte) bool {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.stopped || client.ctx.Err() != nil || client.workerPool.Stopped() {
		return false
	}
	return client.workerPool.TrySubmit(func() {
		if err := client.handleMessage(message); err != nil {
			client.logger.Warn().Err(err).Msg("Failed to handle client message")
			client.Send(NewErrorMessage(err.Error(), nil))
		}
	})
}

func (client *WsClient) sendMessage(msg *ServerMessage) error {
	return client.conn.WriteJSON(msg)
}

func (client *WsClient) handleMessage(data []byte) error {
	msg, err := ParseClientMessage(data)
	if err != nil {
		return fmt.Errorf("invalid message format: %w", err)
	}

	// Validate the message
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("message validation failed: %w", err)
	}

	if msg.Type == MessageTypePing {
		return client.Send(NewServerMessage(MessageTypePong))
	}

	if client.handler != nil {
		return client.handler.HandleClientMessage(client, msg)
	}
	return fmt.Errorf("handler not available")
}
