package canvas

import (
	"context"
	"net/url"
	"strconv"
)

// CreateConversation messages one user. group_conversation is set so the
// message shows up as a new conversation rather than appending to an old one.
func (c *Client) CreateConversation(ctx context.Context, userID int, subject, body string) error {
	form := url.Values{}
	form.Add("recipients[]", strconv.Itoa(userID))
	form.Set("subject", subject)
	form.Set("body", body)
	form.Set("group_conversation", "true")
	return c.send(ctx, "POST", "/conversations", form, nil)
}
