package web

import (
	"net/http"
	"strings"
	"time"

	"clubhouse/internal/application/listutil"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/contact"
)

const messagesPath = "/admin/messages"

func messageAdminDeps() orchestrators.MessageAdminDeps {
	return orchestrators.MessageAdminDeps{MessageStore: stores.MessageStore, Audit: auditDeps()}
}

// backTo returns the list URL the form was posted from, keeping filter and page.
func backTo(r *http.Request) string {
	back := r.FormValue("back")
	if back == messagesPath || strings.HasPrefix(back, messagesPath+"?") {
		return back
	}
	return messagesPath
}

func queryMessages(r *http.Request) (projections.MessageListResult, error) {
	q := r.URL.Query()
	return projections.QueryMessageList(r.Context(), projections.MessageListQuery{
		Status:     listutil.ParseEnumFilter(q, "status", contact.ValidStatuses),
		PageParams: listutil.ParsePageParams(q),
	}, projections.MessageListDeps{
		MessageStore: stores.MessageStore,
		Venue:        cfg.Location,
		ClubName:     cfg.ClubName,
	})
}

// handleAdminMessages renders the contact message inbox (GET /admin/messages)
// PRE: User must be authenticated as admin
// POST: newest first, optionally filtered by ?status=
func handleAdminMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	result, err := queryMessages(r)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_messages.html", map[string]any{
		"Messages":       result.Messages,
		"Status":         result.Status,
		"Statuses":       result.Statuses,
		"Page":           result.Page,
		"PerPageOptions": listutil.PerPageOptions,
		"Back":           r.URL.RequestURI(),
	})
}

// handleAdminMessageStatus writes only the status column (POST /admin/messages/status)
func handleAdminMessageStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteUpdateMessageStatus(r.Context(), orchestrators.UpdateMessageStatusInput{
		ID:     r.FormValue("ID"),
		Status: r.FormValue("Status"),
		Actor:  actorFrom(r, sess),
	}, messageAdminDeps())
	if err != nil {
		redirectWithError(w, r, backTo(r), err)
		return
	}
	redirectWithSuccess(w, r, backTo(r), "Status updated.")
}

// handleAdminMessageNotes writes only the notes column (POST /admin/messages/notes)
func handleAdminMessageNotes(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteSaveMessageNotes(r.Context(), orchestrators.SaveMessageNotesInput{
		ID:    r.FormValue("ID"),
		Notes: r.FormValue("Notes"),
		Actor: actorFrom(r, sess),
	}, messageAdminDeps())
	if err != nil {
		redirectWithError(w, r, backTo(r), err)
		return
	}
	redirectWithSuccess(w, r, backTo(r), "Notes saved.")
}

// handleAdminMessageReply emails the visitor from the panel (POST /admin/messages/reply)
func handleAdminMessageReply(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteReplyToMessage(r.Context(), orchestrators.ReplyToMessageInput{
		ID:    r.FormValue("ID"),
		Body:  r.FormValue("Body"),
		Actor: actorFrom(r, sess),
	}, orchestrators.ReplyToMessageDeps{
		MessageStore: stores.MessageStore,
		Sender:       emailSender,
		ClubName:     cfg.ClubName,
		ReplyTo:      cfg.ReplyTo,
		Audit:        auditDeps(),
	})
	if err != nil {
		redirectWithError(w, r, backTo(r), err)
		return
	}
	redirectWithSuccess(w, r, backTo(r), "Reply sent.")
}

// handleAdminMessageDeleteConfirm asks before deleting (GET /admin/messages/delete?id=)
func handleAdminMessageDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	m, err := stores.MessageStore.GetByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		redirectWithError(w, r, messagesPath, err)
		return
	}
	renderTemplate(w, r, "confirm_delete.html", map[string]any{
		"Kind":   "message",
		"ID":     m.ID,
		"Label":  "from " + m.Name + " <" + m.Email + ">",
		"Action": messagesPath + "/delete",
		"Cancel": messagesPath,
	})
}

// handleAdminMessageDelete deletes after confirmation (POST /admin/messages/delete)
// POST: anything but confirm=yes leaves the message unchanged
func handleAdminMessageDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	deleted, err := orchestrators.ExecuteDeleteMessage(r.Context(), orchestrators.DeleteMessageInput{
		ID:        r.FormValue("ID"),
		Confirmed: r.FormValue("confirm") == "yes",
		Actor:     actorFrom(r, sess),
	}, messageAdminDeps())
	if err != nil {
		redirectWithError(w, r, messagesPath, err)
		return
	}
	if !deleted {
		http.Redirect(w, r, messagesPath, http.StatusSeeOther)
		return
	}
	redirectWithSuccess(w, r, messagesPath, "Message deleted.")
}

// --- JSON ---

type messageJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	AdminNotes string `json:"admin_notes"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	MailtoURL  string `json:"mailto_url"`
}

// handleAPIAdminMessages lists one page of messages (GET /api/admin/messages)
func handleAPIAdminMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	result, err := queryMessages(r)
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]messageJSON, 0, len(result.Messages))
	for _, m := range result.Messages {
		out = append(out, messageJSON{
			ID:         m.ID,
			Name:       m.Name,
			Email:      m.Email,
			Message:    m.Message.Message,
			AdminNotes: m.AdminNotes,
			Status:     m.Status,
			CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
			MailtoURL:  m.MailtoURL,
		})
	}
	writeJSONList(w, out)
}

// handleAPIAdminMessageStatus sets a message's status (POST /api/admin/messages/status)
func handleAPIAdminMessageStatus(w http.ResponseWriter, r *http.Request) {
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
	err := orchestrators.ExecuteUpdateMessageStatus(r.Context(), orchestrators.UpdateMessageStatusInput{
		ID: body.ID, Status: body.Status, Actor: actorFrom(r, sess),
	}, messageAdminDeps())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIAdminMessageNotes saves a message's notes (POST /api/admin/messages/notes)
func handleAPIAdminMessageNotes(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var body struct {
		ID    string `json:"id"`
		Notes string `json:"notes"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteSaveMessageNotes(r.Context(), orchestrators.SaveMessageNotesInput{
		ID: body.ID, Notes: body.Notes, Actor: actorFrom(r, sess),
	}, messageAdminDeps())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIAdminMessageDelete deletes a message (DELETE /api/admin/messages?id=&confirm=true)
func handleAPIAdminMessageDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	deleted, err := orchestrators.ExecuteDeleteMessage(r.Context(), orchestrators.DeleteMessageInput{
		ID:        q.Get("id"),
		Confirmed: q.Get("confirm") == "true",
		Actor:     actorFrom(r, sess),
	}, messageAdminDeps())
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
