package web

import (
	"errors"
	"net/http"
	"time"

	"clubhouse/internal/adapters/upload"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
)

// maxEventForm bounds the admin event form, image included.
const maxEventForm = upload.MaxImageSize + 1<<20

// imageStore returns the upload store, or nil when uploads are disabled.
func imageStore() orchestrators.ImageStore {
	if images == nil {
		return nil
	}
	return images
}

func saveEventDeps() orchestrators.SaveEventDeps {
	return orchestrators.SaveEventDeps{
		EventStore: stores.EventStore,
		Images:     imageStore(),
		Prober:     prober,
		Audit:      auditDeps(),
		Venue:      cfg.Location,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

func renderAdminEvents(w http.ResponseWriter, r *http.Request, status int, form *projections.EventForm, formErr string) {
	result, err := projections.QueryAdminEvents(r.Context(), projections.AdminEventsQuery{
		EditID: r.URL.Query().Get("edit"),
	}, projections.AdminEventsDeps{EventStore: stores.EventStore, Venue: cfg.Location})
	if err != nil {
		internalError(w, err)
		return
	}
	if form != nil {
		result.Form = *form
		result.Editing = form.ID != ""
	}
	renderTemplateStatus(w, r, status, "admin_events.html", map[string]any{
		"Events":   result.Events,
		"Form":     result.Form,
		"Editing":  result.Editing,
		"Statuses": result.Statuses,
		"Error":    formErr,
	})
}

// handleAdminEvents renders the event manager (GET /admin/events)
// PRE: User must be authenticated as admin
// POST: ?edit=<id> prefills the form with the event in venue wall-clock time
func handleAdminEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	renderAdminEvents(w, r, http.StatusOK, nil, "")
}

// handleAdminEventSave creates or updates an event from the form (POST /admin/events)
// PRE: User must be authenticated as admin; an empty ID creates
// POST: validation errors re-render the form with the submitted values
func handleAdminEventSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxEventForm)
	if err := r.ParseMultipartForm(maxEventForm); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			redirectWithError(w, r, "/admin/events", upload.ErrTooLarge)
			return
		}
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	form := projections.EventForm{
		ID:          r.FormValue("ID"),
		Title:       r.FormValue("Title"),
		Description: r.FormValue("Description"),
		EventDate:   r.FormValue("EventDate"),
		Location:    r.FormValue("Location"),
		Status:      r.FormValue("Status"),
		ImageURL:    r.FormValue("ImageURL"),
		TicketPrice: r.FormValue("TicketPrice"),
		TicketsURL:  r.FormValue("TicketsURL"),
		Festival:    r.FormValue("Festival"),
	}
	input := orchestrators.SaveEventInput{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		EventDate:   form.EventDate,
		Location:    form.Location,
		Status:      form.Status,
		ImageURL:    form.ImageURL,
		TicketPrice: form.TicketPrice,
		TicketsURL:  form.TicketsURL,
		Festival:    form.Festival,
		Actor:       actorFrom(r, sess),
	}
	if file, _, err := r.FormFile("Image"); err == nil {
		defer file.Close()
		input.Image = file
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid image upload", http.StatusBadRequest)
		return
	}

	e, err := orchestrators.ExecuteSaveEvent(r.Context(), input, saveEventDeps())
	if err != nil {
		if isUserError(err) {
			renderAdminEvents(w, r, http.StatusBadRequest, &form, err.Error())
			return
		}
		redirectWithError(w, r, "/admin/events", err)
		return
	}
	msg := "Event updated."
	if form.ID == "" {
		msg = "Event created."
	}
	redirectWithSuccess(w, r, "/admin/events?edit="+e.ID, msg)
}

// handleAdminEventStatus sets an event's status from the list (POST /admin/events/status)
func handleAdminEventStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteChangeEventStatus(r.Context(), orchestrators.ChangeEventStatusInput{
		ID:     r.FormValue("ID"),
		Status: r.FormValue("Status"),
		Actor:  actorFrom(r, sess),
	}, orchestrators.ChangeEventStatusDeps{EventStore: stores.EventStore, Audit: auditDeps(), Now: timeNow})
	if err != nil {
		redirectWithError(w, r, "/admin/events", err)
		return
	}
	redirectWithSuccess(w, r, "/admin/events", "Status updated.")
}

// handleAdminEventDeleteConfirm asks before deleting (GET /admin/events/delete?id=)
func handleAdminEventDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id := r.URL.Query().Get("id")
	e, err := stores.EventStore.GetByID(r.Context(), id)
	if err != nil {
		redirectWithError(w, r, "/admin/events", err)
		return
	}
	renderTemplate(w, r, "confirm_delete.html", map[string]any{
		"Kind":   "event",
		"ID":     e.ID,
		"Label":  e.Title,
		"Action": "/admin/events/delete",
		"Cancel": "/admin/events",
	})
}

// handleAdminEventDelete deletes after confirmation (POST /admin/events/delete)
// POST: anything but confirm=yes leaves the event unchanged
func handleAdminEventDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	deleted, err := orchestrators.ExecuteDeleteEvent(r.Context(), orchestrators.DeleteEventInput{
		ID:        r.FormValue("ID"),
		Confirmed: r.FormValue("confirm") == "yes",
		Actor:     actorFrom(r, sess),
	}, orchestrators.DeleteEventDeps{EventStore: stores.EventStore, Images: imageStore(), Audit: auditDeps()})
	if err != nil {
		redirectWithError(w, r, "/admin/events", err)
		return
	}
	if !deleted {
		http.Redirect(w, r, "/admin/events", http.StatusSeeOther)
		return
	}
	redirectWithSuccess(w, r, "/admin/events", "Event deleted.")
}

// --- JSON ---

// adminEventJSON adds the admin-only fields to the public shape.
type adminEventJSON struct {
	eventJSON
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toAdminEventJSON(v projections.EventView) adminEventJSON {
	return adminEventJSON{
		eventJSON: toEventJSON(v),
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleAPIAdminEvents lists every event, drafts and hidden included (GET /api/admin/events)
func handleAPIAdminEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	result, err := projections.QueryAdminEvents(r.Context(), projections.AdminEventsQuery{},
		projections.AdminEventsDeps{EventStore: stores.EventStore, Venue: cfg.Location})
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]adminEventJSON, 0, len(result.Events))
	for _, v := range result.Events {
		out = append(out, toAdminEventJSON(v))
	}
	writeJSONList(w, out)
}

// handleAPIAdminEventSave creates or updates an event (POST /api/admin/events)
// POST: 201 on create, 200 on update
func handleAPIAdminEventSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var body struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		EventDate   string `json:"event_date"`
		Location    string `json:"location"`
		Status      string `json:"status"`
		ImageURL    string `json:"image_url"`
		TicketPrice string `json:"ticket_price"`
		TicketsURL  string `json:"tickets_url"`
		Festival    string `json:"festival"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	e, err := orchestrators.ExecuteSaveEvent(r.Context(), orchestrators.SaveEventInput{
		ID:          body.ID,
		Title:       body.Title,
		Description: body.Description,
		EventDate:   body.EventDate,
		Location:    body.Location,
		Status:      body.Status,
		ImageURL:    body.ImageURL,
		TicketPrice: body.TicketPrice,
		TicketsURL:  body.TicketsURL,
		Festival:    body.Festival,
		Actor:       actorFrom(r, sess),
	}, saveEventDeps())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	status := http.StatusOK
	if body.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, toAdminEventJSON(projections.NewEventView(e, cfg.Location)))
}

// handleAPIAdminEventStatus sets an event's status (POST /api/admin/events/status)
func handleAPIAdminEventStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteChangeEventStatus(r.Context(), orchestrators.ChangeEventStatusInput{
		ID: body.ID, Status: body.Status, Actor: actorFrom(r, sess),
	}, orchestrators.ChangeEventStatusDeps{EventStore: stores.EventStore, Audit: auditDeps(), Now: timeNow})
	if err != nil {
		writeAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIAdminEventDelete deletes an event (DELETE /api/admin/events?id=&confirm=true)
// POST: without confirm=true responds 428 and leaves the event unchanged
func handleAPIAdminEventDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	deleted, err := orchestrators.ExecuteDeleteEvent(r.Context(), orchestrators.DeleteEventInput{
		ID:        q.Get("id"),
		Confirmed: q.Get("confirm") == "true",
		Actor:     actorFrom(r, sess),
	}, orchestrators.DeleteEventDeps{EventStore: stores.EventStore, Images: imageStore(), Audit: auditDeps()})
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if !deleted {
		http.Error(w, "add confirm=true to delete", http.StatusPreconditionRequired)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
