package bridge

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/user/uplink-client/internal/models"
	"github.com/user/uplink-client/internal/runtime"
)

// history page fetched when a conversation is first hydrated
const defaultPageSize = 50

// Worker is the single consumer of the bridge. Commands execute strictly in
// arrival order; a slow command delays everything behind it, which is what
// keeps command effects observable in the order they were issued.
type Worker struct {
	account   runtime.Account
	messaging runtime.Messaging
	storage   runtime.Storage
	calling   runtime.Calling
	streams   *StreamManager
	validate  *validator.Validate
}

func NewWorker(account runtime.Account, messaging runtime.Messaging, storage runtime.Storage, calling runtime.Calling, streams *StreamManager) *Worker {
	return &Worker{
		account:   account,
		messaging: messaging,
		storage:   storage,
		calling:   calling,
		streams:   streams,
		validate:  validator.New(),
	}
}

// Run consumes commands until the bridge closes or the context is canceled.
func (w *Worker) Run(ctx context.Context, commands <-chan Command) error {
	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			w.dispatch(ctx, cmd)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, cmd Command) {
	if err := w.validate.Struct(cmd); err != nil {
		log.Printf("invalid command %T: %v", cmd, err)
		w.failInvalid(cmd, err)
		return
	}

	switch cmd := cmd.(type) {
	case CreateAccount:
		id, err := w.account.CreateAccount(ctx, cmd.Username, cmd.Passphrase)
		cmd.deliver(IdentityRsp{Identity: id, Err: err})
	case RecoverAccount:
		id, err := w.account.RecoverAccount(ctx, cmd.SeedPhrase)
		cmd.deliver(IdentityRsp{Identity: id, Err: err})
	case Login:
		id, err := w.account.Login(ctx, cmd.Passphrase)
		cmd.deliver(IdentityRsp{Identity: id, Err: err})
	case FetchOwnIdentity:
		id, err := w.ownIdentity(ctx)
		cmd.deliver(IdentityRsp{Identity: id, Err: err})
	case FetchIdentities:
		ids, err := w.identities(ctx, cmd.DIDs)
		cmd.deliver(IdentitiesRsp{Identities: ids, Err: err})
	case UpdateProfile:
		cmd.deliver(w.updateProfile(ctx, cmd))
	case UpdateProfilePicture:
		cmd.deliver(w.refreshAfter(ctx, w.account.UpdateProfilePicture(ctx, cmd.DataURI)))
	case UpdateBanner:
		cmd.deliver(w.refreshAfter(ctx, w.account.UpdateBanner(ctx, cmd.DataURI)))
	case RequestFriend:
		cmd.deliver(w.account.SendFriendRequest(ctx, cmd.DID))
	case AcceptRequest:
		cmd.deliver(w.account.AcceptRequest(ctx, cmd.DID))
	case DenyRequest:
		cmd.deliver(w.account.DenyRequest(ctx, cmd.DID))
	case CancelRequest:
		cmd.deliver(w.account.CloseRequest(ctx, cmd.DID))
	case RemoveFriend:
		cmd.deliver(w.account.RemoveFriend(ctx, cmd.DID))
	case BlockPeer:
		cmd.deliver(w.account.Block(ctx, cmd.DID))
	case UnblockPeer:
		cmd.deliver(w.account.Unblock(ctx, cmd.DID))
	case FetchFriends:
		cmd.deliver(w.identityList(ctx, w.account.ListFriends))
	case FetchBlockList:
		cmd.deliver(w.identityList(ctx, w.account.BlockList))
	case FetchRequests:
		cmd.deliver(w.fetchRequests(ctx))

	case CreateConversation:
		conv, err := w.messaging.CreateConversation(ctx, cmd.DID)
		cmd.deliver(w.hydrateChat(ctx, conv, err))
	case CreateGroupConversation:
		conv, err := w.messaging.CreateGroupConversation(ctx, cmd.Name, cmd.DIDs)
		cmd.deliver(w.hydrateChat(ctx, conv, err))
	case FetchConversations:
		cmd.deliver(w.fetchConversations(ctx))
	case DeleteConversation:
		err := w.messaging.DeleteConversation(ctx, cmd.ConversationID)
		if err == nil {
			w.streams.Remove(cmd.ConversationID)
		}
		cmd.deliver(err)
	case FetchMessages:
		cmd.deliver(w.fetchMessages(ctx, cmd))
	case SendMessage:
		m, err := w.messaging.Send(ctx, cmd.ConversationID, cmd.Content, cmd.Attachments)
		cmd.deliver(MessageRsp{Message: m, Err: err})
	case ReplyToMessage:
		m, err := w.messaging.Reply(ctx, cmd.ConversationID, cmd.InReplyTo, cmd.Content)
		cmd.deliver(MessageRsp{Message: m, Err: err})
	case PinMessage:
		cmd.deliver(w.messaging.Pin(ctx, cmd.ConversationID, cmd.MessageID, cmd.Pinned))
	case ReactToMessage:
		cmd.deliver(w.messaging.React(ctx, cmd.ConversationID, cmd.MessageID, cmd.Emoji, cmd.Add))
	case SendTyping:
		cmd.deliver(w.messaging.SendTyping(ctx, cmd.ConversationID))

	case CreateDirectory:
		cmd.deliver(w.storage.CreateDirectory(ctx, cmd.Path))
	case ListDirectory:
		cmd.deliver(w.listDirectory(ctx, cmd.Path))
	case UploadFile:
		cmd.deliver(w.storage.Upload(ctx, cmd.LocalPath, cmd.RemotePath))
	case DownloadFile:
		cmd.deliver(w.storage.Download(ctx, cmd.RemotePath, cmd.LocalPath))
	case RenameItem:
		cmd.deliver(w.storage.Rename(ctx, cmd.OldPath, cmd.NewPath))
	case DeleteItem:
		cmd.deliver(w.storage.Delete(ctx, cmd.Path))
	case FetchStorageSize:
		size, err := w.storage.TotalSize(ctx)
		cmd.deliver(StorageSizeRsp{Size: size, Err: err})

	case OfferCall:
		id, err := w.calling.Offer(ctx, cmd.ConversationID, cmd.Participants)
		cmd.deliver(CallRsp{CallID: id, Err: err})
	case AnswerCall:
		cmd.deliver(w.calling.Answer(ctx, cmd.CallID))
	case LeaveCall:
		cmd.deliver(w.calling.Leave(ctx, cmd.CallID))
	case MuteSelf:
		cmd.deliver(w.calling.MuteSelf(ctx))
	case UnmuteSelf:
		cmd.deliver(w.calling.UnmuteSelf(ctx))
	case AdjustVolume:
		cmd.deliver(w.calling.AdjustVolume(ctx, cmd.DID, cmd.Multiplier))

	default:
		log.Printf("unhandled command %T", cmd)
		cmd.cancel()
	}
}

// failInvalid reports a validation error through the command's response
// channel: bare-error payloads get the error directly, struct payloads carry
// it in their Err field.
func (w *Worker) failInvalid(cmd Command, err error) {
	switch r := cmd.(type) {
	case interface{ deliver(error) }:
		r.deliver(err)
	case interface{ deliver(IdentityRsp) }:
		r.deliver(IdentityRsp{Err: err})
	case interface{ deliver(IdentitiesRsp) }:
		r.deliver(IdentitiesRsp{Err: err})
	case interface{ deliver(RequestsRsp) }:
		r.deliver(RequestsRsp{Err: err})
	case interface{ deliver(ChatRsp) }:
		r.deliver(ChatRsp{Err: err})
	case interface{ deliver(ChatsRsp) }:
		r.deliver(ChatsRsp{Err: err})
	case interface{ deliver(MessagesRsp) }:
		r.deliver(MessagesRsp{Err: err})
	case interface{ deliver(MessageRsp) }:
		r.deliver(MessageRsp{Err: err})
	case interface{ deliver(FilesRsp) }:
		r.deliver(FilesRsp{Err: err})
	case interface{ deliver(StorageSizeRsp) }:
		r.deliver(StorageSizeRsp{Err: err})
	case interface{ deliver(CallRsp) }:
		r.deliver(CallRsp{Err: err})
	default:
		cmd.cancel()
	}
}

// ownIdentity fetches the local identity enriched with presence and platform.
func (w *Worker) ownIdentity(ctx context.Context) (models.Identity, error) {
	id, err := w.account.OwnIdentity(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	w.enrich(ctx, &id)
	return id, nil
}

// refreshAfter is the mutate-then-refetch pattern: a profile mutation never
// returns the new identity itself, so a fresh own-identity read follows every
// successful update.
func (w *Worker) refreshAfter(ctx context.Context, err error) IdentityRsp {
	if err != nil {
		return IdentityRsp{Err: err}
	}
	id, err := w.ownIdentity(ctx)
	return IdentityRsp{Identity: id, Err: err}
}

func (w *Worker) updateProfile(ctx context.Context, cmd UpdateProfile) IdentityRsp {
	if cmd.Username != "" {
		if err := w.account.UpdateUsername(ctx, cmd.Username); err != nil {
			return IdentityRsp{Err: err}
		}
	}
	if cmd.StatusMessage != "" {
		if err := w.account.UpdateStatusMessage(ctx, cmd.StatusMessage); err != nil {
			return IdentityRsp{Err: err}
		}
	}
	id, err := w.ownIdentity(ctx)
	return IdentityRsp{Identity: id, Err: err}
}

// enrich fills in presence and platform, best effort. A peer that cannot be
// reached just keeps the zero values.
func (w *Worker) enrich(ctx context.Context, id *models.Identity) {
	if p, err := w.account.IdentityPresence(ctx, id.DID); err == nil {
		id.Presence = p
	}
	if p, err := w.account.IdentityPlatform(ctx, id.DID); err == nil {
		id.Platform = p
	}
}

func (w *Worker) identities(ctx context.Context, dids []string) ([]models.Identity, error) {
	ids := make([]models.Identity, 0, len(dids))
	for _, did := range dids {
		id, err := w.account.Identity(ctx, did)
		if err != nil {
			// an unreachable peer still renders as a placeholder
			log.Printf("fetch identity %s: %v", did, err)
			id = models.PlaceholderIdentity(did)
		}
		w.enrich(ctx, &id)
		ids = append(ids, id)
	}
	return ids, nil
}

func (w *Worker) identityList(ctx context.Context, list func(context.Context) ([]string, error)) IdentitiesRsp {
	dids, err := list(ctx)
	if err != nil {
		return IdentitiesRsp{Err: err}
	}
	ids, err := w.identities(ctx, dids)
	return IdentitiesRsp{Identities: ids, Err: err}
}

func (w *Worker) fetchRequests(ctx context.Context) RequestsRsp {
	in, err := w.account.ListIncomingRequests(ctx)
	if err != nil {
		return RequestsRsp{Err: err}
	}
	out, err := w.account.ListOutgoingRequests(ctx)
	if err != nil {
		return RequestsRsp{Err: err}
	}
	incoming, _ := w.identities(ctx, in)
	outgoing, _ := w.identities(ctx, out)
	return RequestsRsp{Incoming: incoming, Outgoing: outgoing}
}

// hydrateChat turns a bare conversation into the payload the state layer
// wants: participants resolved to identities, the newest history page loaded
// and the live message stream registered.
func (w *Worker) hydrateChat(ctx context.Context, conv models.Conversation, err error) ChatRsp {
	if err != nil {
		return ChatRsp{Err: err}
	}
	total, err := w.messaging.MessageCount(ctx, conv.ID)
	if err != nil {
		return ChatRsp{Err: err}
	}
	msgs, err := w.messaging.Messages(ctx, conv.ID, runtime.MessageOptions{Limit: defaultPageSize})
	if err != nil {
		return ChatRsp{Err: err}
	}
	ids, _ := w.identities(ctx, conv.Participants)
	if err := w.streams.Add(conv.ID); err != nil {
		log.Printf("stream for conversation %s: %v", conv.ID, err)
	}
	return ChatRsp{
		Conversation: conv,
		Identities:   ids,
		Messages:     msgs,
		HasMore:      total > len(msgs),
	}
}

func (w *Worker) fetchConversations(ctx context.Context) ChatsRsp {
	convs, err := w.messaging.ListConversations(ctx)
	if err != nil {
		return ChatsRsp{Err: err}
	}
	chats := make([]ChatRsp, 0, len(convs))
	for _, conv := range convs {
		hydrated := w.hydrateChat(ctx, conv, nil)
		if hydrated.Err != nil {
			log.Printf("hydrate conversation %s: %v", conv.ID, hydrated.Err)
			continue
		}
		chats = append(chats, hydrated)
	}
	return ChatsRsp{Chats: chats}
}

func (w *Worker) fetchMessages(ctx context.Context, cmd FetchMessages) MessagesRsp {
	total, err := w.messaging.MessageCount(ctx, cmd.ConversationID)
	if err != nil {
		return MessagesRsp{Err: err}
	}
	msgs, err := w.messaging.Messages(ctx, cmd.ConversationID, runtime.MessageOptions{
		Limit:  cmd.Limit,
		Before: cmd.Before,
	})
	if err != nil {
		return MessagesRsp{Err: err}
	}
	return MessagesRsp{Messages: msgs, HasMore: total > len(msgs)}
}

func (w *Worker) listDirectory(ctx context.Context, path string) FilesRsp {
	files, err := w.storage.List(ctx, path)
	if err != nil {
		return FilesRsp{Err: err}
	}
	entries := make([]FileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, FileEntry{Name: f.Name, Size: f.Size, Directory: f.Directory})
	}
	return FilesRsp{Files: entries}
}

