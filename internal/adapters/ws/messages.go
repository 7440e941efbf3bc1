package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"motoauto-service/internal/adapters/scheduler"
	"motoauto-service/internal/app"
	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeSetFilters       MessageType = "set_filters"
	MessageTypeApplyFilters     MessageType = "apply_filters"
	MessageTypeLoadMore         MessageType = "load_more"
	MessageTypeWatchCountdown   MessageType = "watch_countdown"
	MessageTypeUnwatchCountdown MessageType = "unwatch_countdown"
	MessageTypePing             MessageType = "ping"

	// Server to Client message types
	MessageTypeSearchResults    MessageType = "search_results"
	MessageTypeCountdownTick    MessageType = "countdown_tick"
	MessageTypeCountdownExpired MessageType = "countdown_expired"
	MessageTypeError            MessageType = "error"
	MessageTypePong             MessageType = "pong"
)

type ClientMessage struct {
	Type      MessageType     `json:"type"`
	ListingID *uuid.UUID      `json:"listing_id,omitempty"`
	Filter    *listing.Filter `json:"filter,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType            `json:"type"`
	ListingID *uuid.UUID             `json:"listing_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]interface{}),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string, listingID *uuid.UUID) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		ListingID: listingID,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// NewSearchResultsMessage carries the accumulated results of the latest search
func NewSearchResultsMessage(update app.SearchUpdate) *ServerMessage {
	if update.Err != nil {
		return NewErrorMessage(update.Err.Error(), nil)
	}
	msg := NewServerMessage(MessageTypeSearchResults)
	msg.Data["seq"] = update.Seq
	msg.Data["items"] = update.Items
	msg.Data["append"] = update.Append
	msg.Data["total_count"] = update.Page.TotalCount
	msg.Data["page"] = update.Page.Page
	msg.Data["page_size"] = update.Page.PageSize
	msg.Data["total_pages"] = update.Page.TotalPages
	msg.Data["has_more"] = update.Page.HasMore
	return msg
}

// NewCountdownTickMessage creates a countdown refresh message
func NewCountdownTickMessage(listingID uuid.UUID, tick scheduler.Tick) *ServerMessage {
	msg := NewServerMessage(MessageTypeCountdownTick)
	msg.ListingID = &listingID
	msg.Data["remaining_ms"] = tick.RemainingMs
	msg.Data["days"] = tick.Breakdown.Days
	msg.Data["hours"] = tick.Breakdown.Hours
	msg.Data["minutes"] = tick.Breakdown.Minutes
	msg.Data["seconds"] = tick.Breakdown.Seconds
	msg.Data["phase"] = tick.Phase
	return msg
}

// NewCountdownExpiredMessage creates the one-time expiry message
func NewCountdownExpiredMessage(listingID uuid.UUID) *ServerMessage {
	msg := NewServerMessage(MessageTypeCountdownExpired)
	msg.ListingID = &listingID
	return msg
}

func (m *ClientMessage) validateListingID() error {
	if m.ListingID == nil || *m.ListingID == uuid.Nil {
		return shared.ErrListingIDRequired
	}
	return nil
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	// Validate required fields
	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeSetFilters, MessageTypeApplyFilters:
		if m.Filter != nil {
			return m.Filter.Validate()
		}
	case MessageTypeWatchCountdown, MessageTypeUnwatchCountdown:
		if err := m.validateListingID(); err != nil {
			return err
		}
	case MessageTypeLoadMore:

	case MessageTypePing:

	default:
		return shared.ErrUnknownMessageType
	}

	return nil
}

// FilterOrEmpty returns the message filter, or the empty filter when absent
func (m *ClientMessage) FilterOrEmpty() listing.Filter {
	if m.Filter == nil {
		return listing.Filter{}
	}
	return *m.Filter
}
