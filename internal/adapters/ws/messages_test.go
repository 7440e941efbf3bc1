package ws

import (
	"errors"
	"testing"

	"motoauto-service/internal/app"
	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"
)

func TestParseAndValidateClientMessage(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"missing type", `{"filter":{}}`, shared.ErrMessageTypeRequired},
		{"unknown type", `{"type":"place_bid"}`, shared.ErrUnknownMessageType},
		{"watch without listing", `{"type":"watch_countdown"}`, shared.ErrListingIDRequired},
		{"bad filter", `{"type":"apply_filters","filter":{"sort_by":"views"}}`, shared.ErrInvalidFilter},
		{"set filters", `{"type":"set_filters","filter":{"query":"golf","category":"motocykle"}}`, nil},
		{"filters may be omitted", `{"type":"apply_filters"}`, nil},
		{"watch", `{"type":"watch_countdown","listing_id":"7d9f3c1e-2b4a-4e8f-9c0d-1a2b3c4d5e6f"}`, nil},
		{"load more", `{"type":"load_more"}`, nil},
		{"ping", `{"type":"ping"}`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := ParseClientMessage([]byte(tc.raw))
			if err == nil {
				err = msg.Validate()
			}
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFilterOrEmpty(t *testing.T) {
	msg, _ := ParseClientMessage([]byte(`{"type":"set_filters","filter":{"query":"golf"}}`))
	if got := msg.FilterOrEmpty(); got.Query != "golf" {
		t.Fatalf("unexpected filter %+v", got)
	}
	msg, _ = ParseClientMessage([]byte(`{"type":"set_filters"}`))
	if got := msg.FilterOrEmpty(); got != (listing.Filter{}) {
		t.Fatalf("expected empty filter got %+v", got)
	}
}

func TestSearchResultsMessage(t *testing.T) {
	f := listing.Filter{Page: 2}.Normalize()
	page := listing.NewPage([]*listing.Listing{{Title: "Golf"}}, 13, f)
	msg := NewSearchResultsMessage(app.SearchUpdate{Seq: 7, Page: page, Items: page.Items, Append: true})

	if msg.Type != MessageTypeSearchResults {
		t.Fatalf("unexpected type %s", msg.Type)
	}
	if msg.Data["has_more"] != false || msg.Data["total_pages"] != 2 || msg.Data["append"] != true {
		t.Fatalf("unexpected data %v", msg.Data)
	}

	failed := NewSearchResultsMessage(app.SearchUpdate{Err: shared.ErrInvalidFilter})
	if failed.Type != MessageTypeError || failed.Error == nil {
		t.Fatalf("expected error message got %+v", failed)
	}
}
