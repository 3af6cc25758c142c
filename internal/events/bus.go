package events

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "plans:changed:"

// Bus fans out plan-change notifications over Redis pub/sub, one channel per
// user. Subscribers get a poke, not a payload; they re-read the list and
// push the full snapshot, same replace-everything contract the live query
// clients already expect.
type Bus struct {
	rdb *redis.Client
}

// NewBus returns a new Bus.
func NewBus(rdb *redis.Client) *Bus {
	return &Bus{rdb: rdb}
}

func channel(userID int64) string {
	return channelPrefix + strconv.FormatInt(userID, 10)
}

// PublishPlansChanged notifies the user's subscribers that their plan list
// changed.
func (b *Bus) PublishPlansChanged(ctx context.Context, userID int64) error {
	return b.rdb.Publish(ctx, channel(userID), "plans_changed").Err()
}

// SubscribePlans returns a channel that receives one value per change
// notification for the user, and a stop function that releases the
// subscription. The channel closes after stop or when ctx ends.
func (b *Bus) SubscribePlans(ctx context.Context, userID int64) (<-chan struct{}, func()) {
	sub := b.rdb.Subscribe(ctx, channel(userID))
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default: // a pending poke already covers this change
				}
			}
		}
	}()

	stop := func() { _ = sub.Close() }
	return out, stop
}
