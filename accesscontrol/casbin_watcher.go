// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package accesscontrol

import (
	"context"
	"log/slog"

	"github.com/casbin/casbin/v2/persist"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const policyChangeChannel = "genoguard:policy-change"

type casbinRedisWatcher struct {
	rdb      *redis.Client
	id       string
	callback func(string)
	cancel   context.CancelFunc
}

var _ persist.Watcher = &casbinRedisWatcher{}

func newCasbinRedisWatcher(rdb *redis.Client) *casbinRedisWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	watcher := &casbinRedisWatcher{
		rdb:    rdb,
		id:     uuid.NewString(),
		cancel: cancel,
	}
	sub := rdb.Subscribe(ctx, policyChangeChannel)
	go watcher.listenForUpdates(ctx, sub)
	return watcher
}

func (w *casbinRedisWatcher) listenForUpdates(ctx context.Context, sub *redis.PubSub) {
	defer sub.Close()
	slog.Debug("listening for policy change notifications")
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// our own change is already applied
			if msg.Payload == w.id || w.callback == nil {
				continue
			}
			slog.Debug("received policy change notification")
			w.callback("policy updated")
		}
	}
}

func (w *casbinRedisWatcher) SetUpdateCallback(callback func(string)) error {
	w.callback = callback
	return nil
}

func (w *casbinRedisWatcher) Update() error {
	if w.callback == nil {
		return errors.New("no callback set")
	}
	if err := w.rdb.Publish(context.Background(), policyChangeChannel, w.id).Err(); err != nil {
		slog.Error("could not publish policy change", "err", err)
	}
	return nil
}

func (w *casbinRedisWatcher) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.callback = nil
}
