package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nhle/tasko/internal/model"
)

const notificationsPath = "/tasko/api/notifications/"

// ListNotifications returns the stored notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var list []model.Notification
	if err := c.Get(ctx, notificationsPath, &list); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	if list == nil {
		list = []model.Notification{}
	}
	return list, nil
}

// MarkNotificationRead sets read=true on one server notification.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := notificationsPath + strconv.FormatInt(id, 10) + "/"
	body := map[string]bool{"read": true}
	if err := c.Patch(ctx, path, body, nil); err != nil {
		return fmt.Errorf("marking notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every server notification read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.Post(ctx, notificationsPath+"mark_all_read/", nil, nil); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// ClearNotifications deletes every server notification.
func (c *Client) ClearNotifications(ctx context.Context) error {
	if err := c.Delete(ctx, notificationsPath+"clear_all/", nil); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}
