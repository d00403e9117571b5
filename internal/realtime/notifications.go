package realtime

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ifor-lux/luxconsole/internal/constants"
)

const notificationsNode = "notifications"

// Notification delivery channels. The wire value for push predates the
// in-app channel and stays "notification" for client compatibility.
const (
	NotificationPush  = "notification"
	NotificationInApp = "in-app"
)

// In-app display frequencies.
const (
	FrequencyOnce   = "once"
	FrequencyAlways = "always"
)

// Notification is one broadcast record pushed to client devices.
type Notification struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Type        string `json:"type"`
	Frequency   string `json:"frequency"`
	Timestamp   string `json:"timestamp"`
	Sent        bool   `json:"sent"`
	Active      bool   `json:"active"`
}

// NewNotification validates the fields and assembles a ready-to-send
// record. Frequency only means anything for in-app messages; push
// notifications are delivered once by nature, so the field is pinned.
func NewNotification(title, description, image, typ, frequency string) (*Notification, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	image = strings.TrimSpace(image)

	if len(title) < constants.MinNotificationTitleLen {
		return nil, fmt.Errorf("title must be at least %d characters", constants.MinNotificationTitleLen)
	}
	if len(description) < constants.MinNotificationBodyLen {
		return nil, fmt.Errorf("description must be at least %d characters", constants.MinNotificationBodyLen)
	}
	if typ != NotificationPush && typ != NotificationInApp {
		return nil, fmt.Errorf("type must be %q or %q", NotificationPush, NotificationInApp)
	}
	if image != "" {
		if _, err := url.ParseRequestURI(image); err != nil {
			return nil, fmt.Errorf("image URL is not valid")
		}
	}
	if typ == NotificationPush {
		frequency = FrequencyOnce
	} else if frequency != FrequencyOnce && frequency != FrequencyAlways {
		return nil, fmt.Errorf("frequency must be %q or %q", FrequencyOnce, FrequencyAlways)
	}

	return &Notification{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Image:       image,
		Type:        typ,
		Frequency:   frequency,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Sent:        true,
		Active:      true,
	}, nil
}

// SendNotification pushes a broadcast record under the notifications node
// and returns its database key.
func (c *Client) SendNotification(ctx context.Context, n *Notification) (string, error) {
	key, err := c.Push(ctx, notificationsNode, n)
	if err != nil {
		return "", err
	}
	c.logger.Infof("sent %s notification %q", n.Type, n.Title)
	return key, nil
}
