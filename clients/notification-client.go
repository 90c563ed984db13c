package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationClient delivers user notifications to the notifications
// service over HTTP, behind a circuit breaker. The service stores and
// renders them; this side only posts.
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewNotificationClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *NotificationClient {
	return &NotificationClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

type notificationPayload struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

func (c *NotificationClient) NotifyUser(ctx context.Context, userID primitive.ObjectID, message string) error {
	payload, err := json.Marshal(notificationPayload{UserID: userID.Hex(), Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %v", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notifications", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("notifications service returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
