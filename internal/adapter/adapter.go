// Package adapter consumes the runtime's raw event streams, converts them
// into UI-facing events, folds them into the state and broadcasts them on the
// bus. It is the only writer of runtime events into the state.
package adapter

import (
	"context"
	"log"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/user/uplink-client/internal/bridge"
	"github.com/user/uplink-client/internal/models"
	"github.com/user/uplink-client/internal/runtime"
	"github.com/user/uplink-client/internal/state"
)

type Adapter struct {
	account   runtime.Account
	messaging runtime.Messaging
	calling   runtime.Calling
	streams   *bridge.StreamManager
	store     *state.Store
	bus       *Bus
}

func New(account runtime.Account, messaging runtime.Messaging, calling runtime.Calling, streams *bridge.StreamManager, store *state.Store, bus *Bus) *Adapter {
	return &Adapter{
		account:   account,
		messaging: messaging,
		calling:   calling,
		streams:   streams,
		store:     store,
		bus:       bus,
	}
}

// Run subscribes to every raw stream and pumps events until the context is
// canceled. Subscriptions retry with backoff since the runtime may still be
// starting up.
func (a *Adapter) Run(ctx context.Context) error {
	backoff := func() retry.Backoff {
		return retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	}

	var accountEvents <-chan runtime.AccountEvent
	err := retry.Do(ctx, backoff(), func(ctx context.Context) error {
		var err error
		accountEvents, err = a.account.Subscribe(ctx)
		return retry.RetryableError(err)
	})
	if err != nil {
		return err
	}

	var convEvents <-chan runtime.ConversationEvent
	err = retry.Do(ctx, backoff(), func(ctx context.Context) error {
		var err error
		convEvents, err = a.messaging.Subscribe(ctx)
		return retry.RetryableError(err)
	})
	if err != nil {
		return err
	}

	var callEvents <-chan runtime.CallEvent
	err = retry.Do(ctx, backoff(), func(ctx context.Context) error {
		var err error
		callEvents, err = a.calling.Subscribe(ctx)
		return retry.RetryableError(err)
	})
	if err != nil {
		return err
	}

	for {
		var (
			ev      models.Event
			convErr error
		)
		select {
		case raw, ok := <-accountEvents:
			if !ok {
				return nil
			}
			ev, convErr = a.convertAccount(ctx, raw)
		case raw, ok := <-convEvents:
			if !ok {
				return nil
			}
			ev, convErr = a.convertConversation(ctx, raw)
		case raw, ok := <-a.streams.Events():
			if !ok {
				return nil
			}
			ev, convErr = a.convertMessage(ctx, raw)
		case raw, ok := <-callEvents:
			if !ok {
				return nil
			}
			ev = a.convertCall(raw)
		case <-ctx.Done():
			return ctx.Err()
		}
		if convErr != nil {
			// a failed conversion drops the event, never the loop
			log.Printf("convert event: %v", convErr)
			continue
		}
		if ev == nil {
			continue
		}
		a.store.ProcessEvent(ev)
		a.bus.Publish(ev)
	}
}
