package sessions

import (
	redisclient "appointment-ivr/internal/clients/redis"
	"appointment-ivr/internal/observability"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const redisKeyPrefix = "ivr:session:"

// RedisStore keeps each session as a Redis list of JSON messages so that
// several server instances can serve the same call.
type RedisStore struct {
	client *redisclient.Client
	ttl    time.Duration
	logger *observability.Logger
}

func NewRedisStore(client *redisclient.Client, ttl time.Duration, logger *observability.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (r *RedisStore) Append(ctx context.Context, sessionID string, messages ...Message) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if len(messages) == 0 {
		return nil
	}

	values := make([]interface{}, len(messages))
	for i, msg := range messages {
		encoded, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal session message: %w", err)
		}
		values[i] = encoded
	}

	if err := r.client.AppendWithTTL(ctx, redisKey(sessionID), r.ttl, values...); err != nil {
		return fmt.Errorf("failed to append session messages: %w", err)
	}
	return nil
}

func (r *RedisStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	raw, err := r.client.LRange(ctx, redisKey(sessionID), 0, -1)
	if err != nil {
		r.logger.Error(ctx, "failed to read session history", err)
		return nil, fmt.Errorf("failed to read session history: %w", err)
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			r.logger.Error(ctx, "skipping corrupt session message", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *RedisStore) End(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, redisKey(sessionID)); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}
