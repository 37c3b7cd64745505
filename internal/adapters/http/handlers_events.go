package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"clubhouse/internal/application/projections"
)

// eventJSON is the public wire shape of an event.
type eventJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	EventDate   string  `json:"event_date"`
	LocalDate   string  `json:"event_date_local"`
	Location    string  `json:"location"`
	Status      string  `json:"status"`
	ImageURL    string  `json:"image_url,omitempty"`
	ImageAspect string  `json:"image_aspect"`
	TicketPrice *string `json:"ticket_price"`
	TicketsURL  string  `json:"tickets_url,omitempty"`
	Festival    string  `json:"festival,omitempty"`
}

func toEventJSON(v projections.EventView) eventJSON {
	out := eventJSON{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		EventDate:   v.EventDate.UTC().Format(time.RFC3339),
		LocalDate:   v.DateInput,
		Location:    v.Location,
		Status:      v.Status,
		ImageURL:    v.ImageURL,
		ImageAspect: string(v.ImageAspect),
		TicketsURL:  v.TicketsURL,
		Festival:    v.Festival,
	}
	if v.HasPrice() {
		price := v.PriceLabel()
		out.TicketPrice = &price
	}
	return out
}

func eventListDeps() projections.EventListDeps {
	return projections.EventListDeps{EventStore: stores.EventStore, Venue: cfg.Location, Now: timeNow}
}

// listPublicEvents runs the public list query. A failed fetch is logged and
// yields the empty state.
func listPublicEvents(r *http.Request, query projections.EventListQuery) projections.EventListResult {
	result, err := projections.QueryEventList(r.Context(), query, eventListDeps())
	if err != nil {
		slog.Error("event_list_failed", "festival", query.Festival, "error", err)
		return projections.EventListResult{Festival: query.Festival}
	}
	return result
}

// handleHome renders upcoming published events (GET /)
func handleHome(w http.ResponseWriter, r *http.Request) {
	result := listPublicEvents(r, projections.EventListQuery{UpcomingOnly: true})
	renderTemplate(w, r, "home.html", map[string]any{
		"Events":    result.Events,
		"Festivals": result.Festivals,
	})
}

// handleEvents renders all published events, optionally filtered by festival (GET /events)
func handleEvents(w http.ResponseWriter, r *http.Request) {
	result := listPublicEvents(r, projections.EventListQuery{Festival: r.URL.Query().Get("festival")})
	renderTemplate(w, r, "events.html", map[string]any{
		"Events":    result.Events,
		"Festival":  result.Festival,
		"Festivals": result.Festivals,
	})
}

// handleFestival renders the sub-listing for one festival tag (GET /festival/{tag})
func handleFestival(w http.ResponseWriter, r *http.Request) {
	result := listPublicEvents(r, projections.EventListQuery{Festival: r.PathValue("tag")})
	renderTemplate(w, r, "events.html", map[string]any{
		"Events":    result.Events,
		"Festival":  result.Festival,
		"Festivals": result.Festivals,
	})
}

// handleEventDetail renders one published event (GET /events/{id})
// POST: drafts, cancelled and hidden events are 404
func handleEventDetail(w http.ResponseWriter, r *http.Request) {
	view, err := projections.QueryEventDetail(r.Context(), r.PathValue("id"), projections.EventDetailDeps{
		EventStore: stores.EventStore,
		Venue:      cfg.Location,
	})
	if errors.Is(err, projections.ErrEventNotFound) {
		renderTemplateStatus(w, r, http.StatusNotFound, "error.html", map[string]any{
			"Title":   "Event not found",
			"Message": "This event does not exist or is not published.",
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "event.html", map[string]any{"Event": view})
}

// handleAPIEvents returns published events as JSON (GET /api/events)
func handleAPIEvents(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryEventList(r.Context(), projections.EventListQuery{
		Festival: r.URL.Query().Get("festival"),
	}, eventListDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]eventJSON, 0, len(result.Events))
	for _, v := range result.Events {
		out = append(out, toEventJSON(v))
	}
	writeJSONList(w, out)
}

// handleAPIEventDetail returns one published event as JSON (GET /api/events/{id})
func handleAPIEventDetail(w http.ResponseWriter, r *http.Request) {
	view, err := projections.QueryEventDetail(r.Context(), r.PathValue("id"), projections.EventDetailDeps{
		EventStore: stores.EventStore,
		Venue:      cfg.Location,
	})
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventJSON(view))
}
