package botsports_client

import (
	"context"
	"fmt"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

func (c *Client) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	if err := c.Get(ctx, TopicsEndpoint, &topics); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

func (c *Client) CreateTopic(ctx context.Context, req models.CreateTopicRequest) (*models.Topic, error) {
	var topic models.Topic
	if err := c.Post(ctx, TopicsEndpoint, req, &topic); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}
	return &topic, nil
}
