package projections

import (
	"context"
	"time"

	"clubhouse/internal/adapters/storage/contact"
	"clubhouse/internal/application/listutil"
	domainContact "clubhouse/internal/domain/contact"
)

// MessageListQuery carries query parameters.
type MessageListQuery struct {
	Status string
	listutil.PageParams
}

// MessageView is a contact message prepared for the admin panel.
type MessageView struct {
	domainContact.Message
	Received  string
	MailtoURL string
}

// MessageListResult carries the query result.
type MessageListResult struct {
	Messages []MessageView
	Status   string
	Statuses []string
	Page     listutil.PageInfo
}

// MessageListDeps holds dependencies for MessageList.
type MessageListDeps struct {
	MessageStore MessageStore
	Venue        *time.Location
	ClubName     string
}

// QueryMessageList returns one page of contact messages, newest first.
// PRE: Status is empty or a valid message status
// POST: Page is clamped to the available pages
func QueryMessageList(ctx context.Context, query MessageListQuery, deps MessageListDeps) (MessageListResult, error) {
	filter := contact.ListFilter{Status: query.Status}
	total, err := deps.MessageStore.Count(ctx, filter)
	if err != nil {
		return MessageListResult{}, err
	}
	page := listutil.NewPageInfo(query.Page, query.PerPage, total)
	filter.Limit = page.PerPage
	filter.Offset = page.Offset()

	msgs, err := deps.MessageStore.List(ctx, filter)
	if err != nil {
		return MessageListResult{}, err
	}
	result := MessageListResult{
		Messages: make([]MessageView, 0, len(msgs)),
		Status:   query.Status,
		Statuses: domainContact.ValidStatuses,
		Page:     page,
	}
	for _, m := range msgs {
		result.Messages = append(result.Messages, MessageView{
			Message:   m,
			Received:  m.CreatedAt.In(deps.Venue).Format("2006-01-02 15:04"),
			MailtoURL: m.ReplyMailto(deps.ClubName),
		})
	}
	return result, nil
}
