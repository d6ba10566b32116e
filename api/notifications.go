package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// ListNotifications returns notifications, optionally filtered by read state
// (nil means both).
func (c *Client) ListNotifications(ctx context.Context, read *bool) ([]Notification, error) {
	params := url.Values{}
	if read != nil {
		params.Set("read", strconv.FormatBool(*read))
	}

	var notifications []Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", params, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

type unreadCount struct {
	UnreadCount int `json:"unread_count"`
}

func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var count unreadCount
	if err := c.do(ctx, http.MethodGet, "/api/notifications/count", nil, nil, &count); err != nil {
		return 0, err
	}
	return count.UnreadCount, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (*Notification, error) {
	var notification Notification
	if err := c.do(ctx, http.MethodPatch, "/api/notifications/"+id+"/read", nil, nil, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

type markedCount struct {
	MarkedCount int `json:"marked_count"`
}

// MarkAllNotificationsRead marks everything read and returns how many
// notifications were affected.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var count markedCount
	if err := c.do(ctx, http.MethodPatch, "/api/notifications/mark-all-read", nil, nil, &count); err != nil {
		return 0, err
	}
	return count.MarkedCount, nil
}

// NotificationPreferences controls which reminder notifications the backend
// generates for the user.
type NotificationPreferences struct {
	InterviewReminders    bool `json:"interview_reminders"`
	AssessmentDeadlines   bool `json:"assessment_deadlines"`
	ApplicationFollowUps  bool `json:"application_follow_ups"`
	ReminderLeadTimeHours int  `json:"reminder_lead_time_hours"`
}

func (c *Client) GetNotificationPreferences(ctx context.Context) (*NotificationPreferences, error) {
	var prefs NotificationPreferences
	if err := c.do(ctx, http.MethodGet, "/api/users/notification-preferences", nil, nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (c *Client) UpdateNotificationPreferences(ctx context.Context, prefs NotificationPreferences) (*NotificationPreferences, error) {
	var updated NotificationPreferences
	if err := c.do(ctx, http.MethodPut, "/api/users/notification-preferences", nil, prefs, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
