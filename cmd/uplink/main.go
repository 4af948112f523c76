package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/user/uplink-client/internal/adapter"
	"github.com/user/uplink-client/internal/bridge"
	"github.com/user/uplink-client/internal/config"
	"github.com/user/uplink-client/internal/models"
	"github.com/user/uplink-client/internal/runtime/memory"
	"github.com/user/uplink-client/internal/state"
)

const bootstrapTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()

	store := state.NewStore(cfg.StatePath())
	// environment overrides only; persisted settings stand otherwise
	if cfg.General.Theme != "" {
		store.Mutate(state.SetTheme{Theme: cfg.General.Theme})
	}
	if cfg.General.Language != "" {
		store.Mutate(state.SetLanguage{Language: cfg.General.Language})
	}
	if cfg.General.FontScale > 0 {
		store.Mutate(state.SetFontScale{Scale: cfg.General.FontScale})
	}

	// In-process runtime. A networked runtime plugs in behind the same
	// interfaces.
	self := models.PlaceholderIdentity(cfg.Developer.DID)
	self.Username = cfg.Developer.Username
	self.Presence = models.PresenceOnline
	self.Platform = models.PlatformDesktop
	account := memory.NewAccount(self)
	messaging := memory.NewMessaging(self.DID)
	files := memory.NewStorage()
	calling := memory.NewCalling(self.DID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streams := bridge.NewStreamManager(ctx, messaging)
	defer streams.Close()

	br := bridge.New()
	worker := bridge.NewWorker(account, messaging, files, calling, streams)

	bus := adapter.NewBus()
	defer bus.Close()
	ad := adapter.New(account, messaging, calling, streams, store, bus)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(ctx, br.Commands()) })
	g.Go(func() error { return ad.Run(ctx) })
	g.Go(func() error {
		// speaking decay, typing expiry, toast countdowns
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				store.Tick(now)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	g.Go(func() error {
		bootstrap(ctx, br, store)
		return nil
	})

	log.Printf("uplink started as %s", self.Short())
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Printf("shutdown: %v", err)
	}

	br.Close()
	if err := store.Flush(); err != nil {
		log.Printf("flush state: %v", err)
	}
	log.Println("uplink stopped")
}

// bootstrap loads the initial state through the bridge: own identity, friend
// lists and every known conversation.
func bootstrap(ctx context.Context, br *bridge.Bridge, store *state.Store) {
	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	own := bridge.FetchOwnIdentity{Rsp: bridge.NewRsp[bridge.IdentityRsp]()}
	if err := br.Send(own); err != nil {
		log.Printf("bootstrap: %v", err)
		return
	}
	if rsp, err := bridge.Await(ctx, own.Rsp.C); err != nil {
		log.Printf("bootstrap identity: %v", err)
	} else if rsp.Err != nil {
		log.Printf("bootstrap identity: %v", rsp.Err)
	} else {
		store.Mutate(state.SetIdentity{Identity: rsp.Identity})
	}

	friends := bridge.FetchFriends{Rsp: bridge.NewRsp[bridge.IdentitiesRsp]()}
	if err := br.Send(friends); err == nil {
		if rsp, err := bridge.Await(ctx, friends.Rsp.C); err == nil && rsp.Err == nil {
			for _, id := range rsp.Identities {
				store.Mutate(state.RequestAccepted{Identity: id})
			}
		}
	}

	requests := bridge.FetchRequests{Rsp: bridge.NewRsp[bridge.RequestsRsp]()}
	if err := br.Send(requests); err == nil {
		if rsp, err := bridge.Await(ctx, requests.Rsp.C); err == nil && rsp.Err == nil {
			for _, id := range rsp.Incoming {
				store.Mutate(state.NewIncomingRequest{Identity: id})
			}
			for _, id := range rsp.Outgoing {
				store.Mutate(state.NewOutgoingRequest{Identity: id})
			}
		}
	}

	convs := bridge.FetchConversations{Rsp: bridge.NewRsp[bridge.ChatsRsp]()}
	if err := br.Send(convs); err == nil {
		if rsp, err := bridge.Await(ctx, convs.Rsp.C); err == nil && rsp.Err == nil {
			for _, chat := range rsp.Chats {
				store.Mutate(state.AddChat{
					Conversation: chat.Conversation,
					Identities:   chat.Identities,
					Messages:     chat.Messages,
					HasMore:      chat.HasMore,
				})
				store.Mutate(state.AddToSidebar{ID: chat.Conversation.ID})
			}
		}
	}
}
