package app

import (
	"context"
	"sync"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/ports/inbound"

	"github.com/rs/zerolog"
)

// DefaultSearchDebounce is the quiet period before a typed filter is searched
const DefaultSearchDebounce = 300 * time.Millisecond

// SearchUpdate is delivered each time the latest search of a session completes
type SearchUpdate struct {
	Seq    uint64
	Filter listing.Filter
	// Items holds every result loaded for Filter so far, across pages
	Items []*listing.Listing
	// Page is the page that just arrived
	Page   *listing.Page
	Append bool
	Err    error
}

// SearchSession drives one user's live search. Filter edits are debounced;
// applying a filter or loading more issues immediately. Only the response to
// the most recent request is delivered.
type SearchSession struct {
	searcher inbound.ListingSearcher
	debounce time.Duration
	onUpdate func(SearchUpdate)
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	filter listing.Filter
	seq    uint64
	timer  *time.Timer
	items  []*listing.Listing
	last   *listing.Page
	closed bool
}

type SearchSessionParams struct {
	Searcher inbound.ListingSearcher
	Debounce time.Duration
	// OnUpdate is called with the session lock held, in request order. It
	// must not call back into the session.
	OnUpdate func(SearchUpdate)
	Logger   zerolog.Logger
}

// NewSearchSession creates a session. A negative debounce falls back to the default.
func NewSearchSession(ctx context.Context, params SearchSessionParams) *SearchSession {
	sessionCtx, cancel := context.WithCancel(ctx)
	session := &SearchSession{
		searcher: params.Searcher,
		debounce: params.Debounce,
		onUpdate: params.OnUpdate,
		logger:   params.Logger.With().Str("component", "search_session").Logger(),
		ctx:      sessionCtx,
		cancel:   cancel,
	}
	if session.debounce < 0 {
		session.debounce = DefaultSearchDebounce
	}
	if session.onUpdate == nil {
		session.onUpdate = func(SearchUpdate) {}
	}
	return session
}

// SetFilter replaces the filter and schedules a search after the debounce
// period. Earlier pending or in-flight requests are superseded.
func (session *SearchSession) SetFilter(f listing.Filter) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return
	}
	seq := session.reset(f)

	if session.debounce == 0 {
		session.issue(seq, session.filter, false)
		return
	}
	session.timer = time.AfterFunc(session.debounce, func() {
		session.fire(seq)
	})
}

// ApplyFilter replaces the filter and searches immediately
func (session *SearchSession) ApplyFilter(f listing.Filter) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return
	}
	seq := session.reset(f)
	session.issue(seq, session.filter, false)
}

// LoadMore fetches the next page of the current filter. It reports false,
// issuing nothing, when there is no loaded page or no further page.
func (session *SearchSession) LoadMore() bool {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed || session.last == nil || !session.last.HasMore {
		return false
	}
	next := session.filter
	next.Page = session.last.Page + 1
	next.PageSize = session.last.PageSize

	session.seq++
	session.issue(session.seq, next, true)
	return true
}

// Close cancels in-flight requests; later completions and timers are dropped
func (session *SearchSession) Close() {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return
	}
	session.closed = true
	session.stopTimer()
	session.cancel()
}

// reset must be called with the lock held
func (session *SearchSession) reset(f listing.Filter) uint64 {
	session.stopTimer()
	f.Page = 1
	session.filter = f
	session.items = nil
	session.last = nil
	session.seq++
	return session.seq
}

func (session *SearchSession) stopTimer() {
	if session.timer != nil {
		session.timer.Stop()
		session.timer = nil
	}
}

func (session *SearchSession) fire(seq uint64) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed || seq != session.seq {
		return
	}
	session.timer = nil
	session.issue(seq, session.filter, false)
}

// issue must be called with the lock held
func (session *SearchSession) issue(seq uint64, f listing.Filter, appendPage bool) {
	session.logger.Debug().Uint64("seq", seq).Int("page", f.Page).Msg("Issuing search")
	go func() {
		page, err := session.searcher.Search(session.ctx, f)
		session.complete(seq, f, page, err, appendPage)
	}()
}

func (session *SearchSession) complete(seq uint64, f listing.Filter, page *listing.Page, err error, appendPage bool) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed || seq != session.seq {
		session.logger.Debug().Uint64("seq", seq).Uint64("latest", session.seq).Msg("Discarding stale search response")
		return
	}

	update := SearchUpdate{Seq: seq, Filter: f, Append: appendPage, Err: err}
	if err == nil {
		if appendPage {
			session.items = append(session.items, page.Items...)
		} else {
			session.items = append([]*listing.Listing{}, page.Items...)
		}
		session.last = page
		update.Page = page
		update.Items = append([]*listing.Listing{}, session.items...)
	}
	session.onUpdate(update)
}
