package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type PresenceRepository interface {
	SetOnline(ctx context.Context, userID uint) error
	SetOffline(ctx context.Context, userID uint) error
	OnlineSubset(ctx context.Context, userIDs []uint) ([]uint, error)
}

type presenceRepository struct {
	client *redis.Client
}

func NewPresenceRepository(client *redis.Client) PresenceRepository {
	return &presenceRepository{client: client}
}

func presenceKey(userID uint) string {
	return "presence:" + strconv.FormatUint(uint64(userID), 10)
}

// SetOnline marks a user online with a 5 minute TTL; the hub refreshes it
// for as long as the session lives.
func (r *presenceRepository) SetOnline(ctx context.Context, userID uint) error {
	return r.client.Set(ctx, presenceKey(userID), "online", 5*time.Minute).Err()
}

// SetOffline keeps a short-lived offline marker to avoid status flicker on
// quick reconnects.
func (r *presenceRepository) SetOffline(ctx context.Context, userID uint) error {
	return r.client.Set(ctx, presenceKey(userID), "offline", time.Minute).Err()
}

// OnlineSubset returns the user IDs from the input that are currently
// marked online. Lookups are pipelined to cut roundtrips.
func (r *presenceRepository) OnlineSubset(ctx context.Context, userIDs []uint) ([]uint, error) {
	online := make([]uint, 0)
	if len(userIDs) == 0 {
		return online, nil
	}

	cmds, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Get(ctx, presenceKey(id))
		}
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, err
	}

	for i, cmd := range cmds {
		if val, _ := cmd.(*redis.StringCmd).Result(); val == "online" {
			online = append(online, userIDs[i])
		}
	}
	return online, nil
}
