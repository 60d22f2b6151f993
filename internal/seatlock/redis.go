package seatlock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLeaseTTL      = 10 * time.Second
	defaultRetryInterval = 50 * time.Millisecond
)

// acquireScript claims every key or none. Each key is set to the caller's
// lease token with a TTL so a crashed node cannot wedge a seat forever.
var acquireScript = redis.NewScript(`
	for i = 1, #KEYS do
		if redis.call("EXISTS", KEYS[i]) == 1 then
			return 0
		end
	end

	for i = 1, #KEYS do
		redis.call("SET", KEYS[i], ARGV[1], "PX", ARGV[2])
	end

	return 1
`)

// releaseScript deletes only keys still carrying the caller's token, so an
// expired lease reacquired by another node is left untouched.
var releaseScript = redis.NewScript(`
	local released = 0

	for i = 1, #KEYS do
		if redis.call("GET", KEYS[i]) == ARGV[1] then
			redis.call("DEL", KEYS[i])
			released = released + 1
		end
	end

	return released
`)

// Redis is a Locker backed by a shared Redis instance, for multi-node
// deployments where an in-process mutex cannot serialize writers.
type Redis struct {
	client        redis.UniversalClient
	leaseTTL      time.Duration
	retryInterval time.Duration
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{
		client:        client,
		leaseTTL:      defaultLeaseTTL,
		retryInterval: defaultRetryInterval,
	}
}

func (r *Redis) Lock(ctx context.Context, scheduleID int64, seatIDs []string) (func(), error) {
	keys := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		keys[i] = seatKey(scheduleID, id)
	}

	token := uuid.New().String()

	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := acquireScript.Run(ctx, r.client, keys, token, r.leaseTTL.Milliseconds()).Int()
		if err != nil {
			return nil, err
		}

		if ok == 1 {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()

				releaseScript.Run(releaseCtx, r.client, keys, token)
			}

			return release, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
