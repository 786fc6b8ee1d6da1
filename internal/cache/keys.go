package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	DeckVersionKeyPrefix    = "deck:%d:version"
	DeckContentsKeyShape    = "deck:%d:v%d:contents"
	PublicDecksVersionKey   = "decks:public:version"
	PublicDecksPageKeyShape = "decks:public:v%d:%d:%d"
	OAuthStateKeyPrefix     = "oauth_state:%s"
)

const (
	DeckContentsTTL = 5 * time.Minute
	PublicDecksTTL  = time.Minute
	OAuthStateTTL   = 10 * time.Minute
)

func DeckVersionKey(deckID uint) string {
	return fmt.Sprintf(DeckVersionKeyPrefix, deckID)
}

// DeckContentsKey builds the key for a deck's cached cards and tags at its current
// version. Read the key before loading: a write that lands mid-load bumps the
// version, so the stale result is stored under a key no reader will ask for.
func DeckContentsKey(ctx context.Context, deckID uint) string {
	var version int64
	if client != nil {
		if v, err := client.Get(ctx, DeckVersionKey(deckID)).Int64(); err == nil {
			version = v
		}
	}
	return fmt.Sprintf(DeckContentsKeyShape, deckID, version)
}

func OAuthStateKey(state string) string {
	return fmt.Sprintf(OAuthStateKeyPrefix, state)
}

// PublicDecksKey builds the key for one public listing page. The key embeds the
// current listing version so a version bump orphans every cached page at once.
func PublicDecksKey(ctx context.Context, limit, offset int) string {
	var version int64
	if client != nil {
		if v, err := client.Get(ctx, PublicDecksVersionKey).Int64(); err == nil {
			version = v
		}
	}
	return fmt.Sprintf(PublicDecksPageKeyShape, version, limit, offset)
}

// InvalidateDeck bumps the deck's version, orphaning its cached contents.
func InvalidateDeck(ctx context.Context, deckID uint) {
	if client != nil {
		client.Incr(ctx, DeckVersionKey(deckID))
	}
}

// InvalidatePublicDecks bumps the public listing version.
func InvalidatePublicDecks(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, PublicDecksVersionKey)
	}
}
