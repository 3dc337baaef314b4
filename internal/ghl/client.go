package ghl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/sjson"

	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/upstream"
)

// APIVersion is the mandatory Version header for the CRM v2 API.
const APIVersion = "2021-07-28"

// Target names the CRM in dispatch logs, metrics and error envelopes.
const Target = "ghl"

// Client calls the CRM REST API. Every call carries the configured bearer
// token and the pinned API version; calls scoped to a location always use
// the configured location, never one supplied by the caller.
type Client struct {
	cfg      config.GHL
	dispatch *upstream.Client
}

// NewClient creates a CRM client on top of the shared dispatcher.
func NewClient(cfg config.GHL, dispatch *upstream.Client) *Client {
	return &Client{cfg: cfg, dispatch: dispatch}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*upstream.Result, error) {
	target := c.cfg.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	header.Set("Version", APIVersion)
	header.Set("Accept", "application/json")
	return c.dispatch.Do(ctx, &upstream.Request{
		Target: Target,
		Method: method,
		URL:    target,
		Header: header,
		Body:   body,
	})
}

// withLocation writes the configured location into a JSON body, replacing
// any caller-supplied value.
func (c *Client) withLocation(body []byte) ([]byte, error) {
	out, err := sjson.SetBytes(body, "locationId", c.cfg.LocationID)
	if err != nil {
		return nil, fmt.Errorf("unable to inject location: %w", err)
	}
	return out, nil
}

// mergeQuery copies the caller's query parameters and forces the configured
// location under the given key.
func (c *Client) mergeQuery(params url.Values, locationKey string) url.Values {
	merged := url.Values{}
	for key, values := range params {
		for _, value := range values {
			merged.Add(key, value)
		}
	}
	merged.Set(locationKey, c.cfg.LocationID)
	return merged
}

// CreateContact creates a contact under the configured location.
func (c *Client) CreateContact(ctx context.Context, body []byte) (*upstream.Result, error) {
	payload, err := c.withLocation(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/contacts/", nil, payload)
}

// Contact fetches one contact by id.
func (c *Client) Contact(ctx context.Context, id string) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(id), nil, nil)
}

// UpdateContact updates a contact. The CRM rejects a location on update, so
// the body passes through untouched.
func (c *Client) UpdateContact(ctx context.Context, id string, body []byte) (*upstream.Result, error) {
	return c.do(ctx, http.MethodPut, "/contacts/"+url.PathEscape(id), nil, body)
}

// DeleteContact deletes a contact by id.
func (c *Client) DeleteContact(ctx context.Context, id string) (*upstream.Result, error) {
	return c.do(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, nil)
}

// SearchContacts runs the contact search with the configured location.
func (c *Client) SearchContacts(ctx context.Context, body []byte) (*upstream.Result, error) {
	payload, err := c.withLocation(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/contacts/search", nil, payload)
}

// AddContactTags adds tags to a contact.
func (c *Client) AddContactTags(ctx context.Context, id string, body []byte) (*upstream.Result, error) {
	return c.do(ctx, http.MethodPost, "/contacts/"+url.PathEscape(id)+"/tags", nil, body)
}

// RemoveContactTags removes tags from a contact. The CRM expects the tag
// list in the DELETE body.
func (c *Client) RemoveContactTags(ctx context.Context, id string, body []byte) (*upstream.Result, error) {
	return c.do(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id)+"/tags", nil, body)
}

// ContactNotes lists the notes on a contact.
func (c *Client) ContactNotes(ctx context.Context, id string) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(id)+"/notes", nil, nil)
}

// CreateContactNote adds a note to a contact.
func (c *Client) CreateContactNote(ctx context.Context, id string, body []byte) (*upstream.Result, error) {
	return c.do(ctx, http.MethodPost, "/contacts/"+url.PathEscape(id)+"/notes", nil, body)
}

// ContactTasks lists the tasks on a contact.
func (c *Client) ContactTasks(ctx context.Context, id string) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(id)+"/tasks", nil, nil)
}

// CreateContactTask adds a task to a contact.
func (c *Client) CreateContactTask(ctx context.Context, id string, body []byte) (*upstream.Result, error) {
	return c.do(ctx, http.MethodPost, "/contacts/"+url.PathEscape(id)+"/tasks", nil, body)
}

// SearchConversations searches conversations in the configured location.
// Caller filters such as contactId pass through.
func (c *Client) SearchConversations(ctx context.Context, params url.Values) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/conversations/search", c.mergeQuery(params, "locationId"), nil)
}

// ConversationMessages lists the messages of one conversation.
func (c *Client) ConversationMessages(ctx context.Context, id string, params url.Values) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/conversations/"+url.PathEscape(id)+"/messages", params, nil)
}

// SendMessage sends an outbound conversation message.
func (c *Client) SendMessage(ctx context.Context, body []byte) (*upstream.Result, error) {
	return c.do(ctx, http.MethodPost, "/conversations/messages", nil, body)
}

// PhoneCall records an outbound call as a conversation message. The message
// type is forced to Call regardless of the caller's payload.
func (c *Client) PhoneCall(ctx context.Context, body []byte) (*upstream.Result, error) {
	payload, err := sjson.SetBytes(body, "type", "Call")
	if err != nil {
		return nil, fmt.Errorf("unable to set message type: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/conversations/messages", nil, payload)
}

// Calendars lists the calendars of the configured location.
func (c *Client) Calendars(ctx context.Context, params url.Values) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/calendars/", c.mergeQuery(params, "locationId"), nil)
}

// CalendarEvents lists events on one calendar. Time range filters pass
// through from the caller.
func (c *Client) CalendarEvents(ctx context.Context, calendarID string, params url.Values) (*upstream.Result, error) {
	query := c.mergeQuery(params, "locationId")
	query.Set("calendarId", calendarID)
	return c.do(ctx, http.MethodGet, "/calendars/events", query, nil)
}

// CreateAppointment books a calendar appointment under the configured
// location.
func (c *Client) CreateAppointment(ctx context.Context, body []byte) (*upstream.Result, error) {
	payload, err := c.withLocation(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/calendars/events/appointments", nil, payload)
}

// Users lists the users of the configured location.
func (c *Client) Users(ctx context.Context, params url.Values) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/users/", c.mergeQuery(params, "locationId"), nil)
}

// Pipelines lists the opportunity pipelines of the configured location.
func (c *Client) Pipelines(ctx context.Context) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/opportunities/pipelines", c.mergeQuery(nil, "locationId"), nil)
}

// CreateOpportunity creates an opportunity under the configured location.
func (c *Client) CreateOpportunity(ctx context.Context, body []byte) (*upstream.Result, error) {
	payload, err := c.withLocation(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/opportunities/", nil, payload)
}

// SearchOpportunities runs the opportunity search. This endpoint is the one
// place the CRM reads the location from a snake_case parameter.
func (c *Client) SearchOpportunities(ctx context.Context, params url.Values) (*upstream.Result, error) {
	return c.do(ctx, http.MethodGet, "/opportunities/search", c.mergeQuery(params, "location_id"), nil)
}
