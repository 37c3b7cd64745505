package email

import (
	"bytes"
	"html/template"
	"strings"
)

var replyTmpl = template.Must(template.New("reply").Parse(`<p>Hi {{.Name}},</p>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}<hr>
<p style="color:#666">You wrote:</p>
<blockquote style="color:#666">{{.Original}}</blockquote>
<p>{{.ClubName}}</p>
`))

var membershipTmpl = template.Must(template.New("membership").Parse(`<p>Hi {{.Name}},</p>
<p>Thanks for signing up as a member of {{.ClubName}}. To complete your membership, finish the payment at
<a href="{{.CheckoutURL}}">{{.CheckoutURL}}</a> if you have not already done so.</p>
<p>See you at the next concert!</p>
`))

// Reply builds the email an admin sends in answer to a contact message.
// PRE: to is the visitor's address; body is plain text from the admin
func Reply(to, name, subject, body, original, clubName, replyTo string) (SendRequest, error) {
	var buf bytes.Buffer
	err := replyTmpl.Execute(&buf, map[string]any{
		"Name":       name,
		"Paragraphs": paragraphs(body),
		"Original":   original,
		"ClubName":   clubName,
	})
	if err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:      []string{to},
		Subject: subject,
		HTML:    buf.String(),
		Text:    body + "\n\n> " + strings.ReplaceAll(original, "\n", "\n> ") + "\n",
		ReplyTo: replyTo,
	}, nil
}

// MembershipConfirmation builds the receipt sent after a membership sign-up.
func MembershipConfirmation(to, name, clubName, checkoutURL, replyTo string) (SendRequest, error) {
	var buf bytes.Buffer
	err := membershipTmpl.Execute(&buf, map[string]any{
		"Name":        name,
		"ClubName":    clubName,
		"CheckoutURL": checkoutURL,
	})
	if err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Welcome to " + clubName,
		HTML:    buf.String(),
		ReplyTo: replyTo,
	}, nil
}

// paragraphs splits plain text on blank lines.
func paragraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
