package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pencilhero402/rift-rewind/internal/models"
	"github.com/pencilhero402/rift-rewind/internal/riot"
)

// ErrPlayerNotFound marks an unknown riot ID. It is terminal; the caller
// should not retry.
var ErrPlayerNotFound = errors.New("ingest: player not found")

const (
	defaultRegion = "na1"
	defaultTier   = "UNRANKED"
)

// RiotClient is the provider surface the orchestrator needs.
type RiotClient interface {
	AccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
	ActiveRegion(ctx context.Context, game, puuid string) (*riot.Region, error)
	SummonerByPUUID(ctx context.Context, puuid string) (*riot.Summoner, error)
	LeagueEntriesByPUUID(ctx context.Context, puuid string) ([]riot.LeagueEntry, error)
	MatchIDsByPUUID(ctx context.Context, puuid string, opts riot.MatchListOptions) ([]string, error)
	MatchByID(ctx context.Context, matchID string) (json.RawMessage, error)
	TimelineByID(ctx context.Context, matchID string) (json.RawMessage, error)
}

// Store is the cache surface the orchestrator writes through.
type Store interface {
	UpsertPlayer(ctx context.Context, p models.Player) error
	DeletePlayer(ctx context.Context, puuid string) error
	GetPlayerByRiotID(ctx context.Context, gameName, tagLine string) (*models.Player, error)
	MatchExists(ctx context.Context, matchID string) (bool, error)
	TimelineExists(ctx context.Context, matchID string) (bool, error)
	InsertMatch(ctx context.Context, matchID string, data json.RawMessage) error
	InsertTimeline(ctx context.Context, matchID string, data json.RawMessage) error
}

// BatchResult reports the outcome of a batch ingestion. Failed holds the
// IDs that were skipped after an error; their presence never fails the
// batch itself.
type BatchResult struct {
	Cached  int
	Skipped int
	Failed  []string
}

// Orchestrator drives the fetch-then-cache pipeline from provider to
// store.
type Orchestrator struct {
	client       RiotClient
	store        Store
	defaultQueue int
	logger       *zap.SugaredLogger
}

func New(client RiotClient, store Store, defaultQueue int, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{client: client, store: store, defaultQueue: defaultQueue, logger: logger}
}

// IngestPlayer resolves a riot ID and caches the player record. The
// account lookup is the only hard dependency: region falls back to the
// default platform and rank to unranked when their lookups fail, matching
// the provider's habit of lagging behind account creation.
func (o *Orchestrator) IngestPlayer(ctx context.Context, gameName, tagLine string) (*models.Player, error) {
	account, err := o.client.AccountByRiotID(ctx, gameName, tagLine)
	if errors.Is(err, riot.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s#%s", ErrPlayerNotFound, gameName, tagLine)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve account %s#%s: %w", gameName, tagLine, err)
	}

	player := models.Player{
		PUUID:    account.PUUID,
		GameName: account.GameName,
		TagLine:  account.TagLine,
		Region:   defaultRegion,
		Tier:     defaultTier,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		region, err := o.client.ActiveRegion(gctx, "lol", account.PUUID)
		if err != nil {
			o.logger.Warnw("region lookup failed, using default",
				"puuid", account.PUUID, "error", err)
			return nil
		}
		player.Region = region.Region
		return nil
	})
	g.Go(func() error {
		summoner, err := o.client.SummonerByPUUID(gctx, account.PUUID)
		if err != nil {
			return fmt.Errorf("summoner lookup for %s: %w", account.PUUID, err)
		}
		player.SummonerIconID = summoner.ProfileIconID
		player.SummonerLevel = summoner.SummonerLevel
		return nil
	})
	g.Go(func() error {
		entries, err := o.client.LeagueEntriesByPUUID(gctx, account.PUUID)
		if err != nil {
			o.logger.Warnw("rank lookup failed, using default",
				"puuid", account.PUUID, "error", err)
			return nil
		}
		if solo := riot.SoloQueueEntry(entries); solo != nil {
			player.Tier = solo.Tier
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := o.store.UpsertPlayer(ctx, player); err != nil {
		return nil, err
	}
	o.logger.Infow("ingested player",
		"puuid", player.PUUID, "riot_id", gameName+"#"+tagLine, "region", player.Region)
	return &player, nil
}

// DeletePlayer removes a cached player resolved by riot ID.
func (o *Orchestrator) DeletePlayer(ctx context.Context, gameName, tagLine string) error {
	player, err := o.store.GetPlayerByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return err
	}
	return o.store.DeletePlayer(ctx, player.PUUID)
}

// ListMatchIDs lists match IDs for a cached player, applying the default
// queue filter when the options carry none.
func (o *Orchestrator) ListMatchIDs(ctx context.Context, puuid string, opts riot.MatchListOptions) ([]string, error) {
	if opts.Queue == 0 {
		opts.Queue = o.defaultQueue
	}
	return o.client.MatchIDsByPUUID(ctx, puuid, opts)
}

// IngestMatches caches match blobs for every ID not already present. One
// failing ID is logged and skipped; the batch always runs to completion.
func (o *Orchestrator) IngestMatches(ctx context.Context, matchIDs []string) BatchResult {
	return o.ingestBlobs(ctx, matchIDs, "match",
		o.store.MatchExists, o.client.MatchByID, o.store.InsertMatch)
}

// IngestTimelines is IngestMatches for timeline blobs.
func (o *Orchestrator) IngestTimelines(ctx context.Context, matchIDs []string) BatchResult {
	return o.ingestBlobs(ctx, matchIDs, "timeline",
		o.store.TimelineExists, o.client.TimelineByID, o.store.InsertTimeline)
}

func (o *Orchestrator) ingestBlobs(
	ctx context.Context,
	ids []string,
	kind string,
	exists func(context.Context, string) (bool, error),
	fetch func(context.Context, string) (json.RawMessage, error),
	insert func(context.Context, string, json.RawMessage) error,
) BatchResult {
	var result BatchResult
	for _, id := range ids {
		ok, err := exists(ctx, id)
		if err != nil {
			o.logger.Errorw("existence check failed, skipping", "kind", kind, "id", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		if ok {
			result.Skipped++
			continue
		}

		blob, err := fetch(ctx, id)
		if err != nil {
			o.logger.Errorw("fetch failed, skipping", "kind", kind, "id", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		if err := insert(ctx, id, blob); err != nil {
			o.logger.Errorw("insert failed, skipping", "kind", kind, "id", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Cached++
	}
	return result
}
