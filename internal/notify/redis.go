package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const changeStream = "debate:changes"

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// RedisPublisher writes change events to a Redis Stream so every instance
// of the service can fan them out to its own websocket clients.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) PublishChange(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal change event: %v", err)
		return
	}
	err = p.rdb.XAdd(context.Background(), &redis.XAddArgs{
		Stream: changeStream,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{"event": string(payload)},
	}).Err()
	if err != nil {
		log.Printf("failed to publish change event: %v", err)
	}
}

// StreamConsumer tails the change stream and hands each event to a local
// sink (the websocket hub).
type StreamConsumer struct {
	rdb  *redis.Client
	sink Publisher
}

func NewStreamConsumer(rdb *redis.Client, sink Publisher) *StreamConsumer {
	return &StreamConsumer{rdb: rdb, sink: sink}
}

// Run blocks reading the stream until ctx is cancelled
func (c *StreamConsumer) Run(ctx context.Context) {
	lastID := "$"
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := c.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{changeStream, lastID},
			Count:   100,
			Block:   5000,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("change stream read error: %v", err)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				raw, ok := msg.Values["event"].(string)
				if !ok {
					continue
				}
				var event Event
				if err := json.Unmarshal([]byte(raw), &event); err != nil {
					log.Printf("failed to parse change event: %v", err)
					continue
				}
				c.sink.PublishChange(event)
			}
		}
	}
}
