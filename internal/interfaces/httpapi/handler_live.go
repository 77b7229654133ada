package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/livefeed"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamReadLimit  = 512
)

func (h *Handler) GetLiveLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveLeague")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	if err := h.validateRequest(ctx, leaguePathParams{LeagueID: leagueID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.liveService.LeagueSnapshot(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.leagueSnapshotDTO(ctx, snap))
}

func (h *Handler) GetLiveMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveMatch")
	defer span.End()

	matchID, err := h.matchIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.liveService.MatchSnapshot(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.matchSnapshotDTO(ctx, snap))
}

// StreamLiveLeague upgrades to a websocket and pushes every league snapshot.
func (h *Handler) StreamLiveLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamLiveLeague")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	if err := h.validateRequest(ctx, leaguePathParams{LeagueID: leagueID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	updates, unsubscribe, err := h.liveService.SubscribeLeague(leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", "league_id", leagueID, "error", err)
		return
	}
	defer conn.Close()

	subscriberID := h.subscriberID()
	h.logger.InfoContext(ctx, "live stream opened", "league_id", leagueID, "subscriber_id", subscriberID)
	err = streamSnapshots(ctx, conn, updates, func(snap livefeed.Snapshot[[]fixture.Fixture]) any {
		return h.leagueSnapshotDTO(ctx, snap)
	})
	h.logger.InfoContext(ctx, "live stream closed", "league_id", leagueID, "subscriber_id", subscriberID, "reason", err)
}

// StreamLiveMatch upgrades to a websocket and pushes every match snapshot.
func (h *Handler) StreamLiveMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamLiveMatch")
	defer span.End()

	matchID, err := h.matchIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updates, unsubscribe, err := h.liveService.SubscribeMatch(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", "match_id", matchID, "error", err)
		return
	}
	defer conn.Close()

	subscriberID := h.subscriberID()
	h.logger.InfoContext(ctx, "live stream opened", "match_id", matchID, "subscriber_id", subscriberID)
	err = streamSnapshots(ctx, conn, updates, func(snap livefeed.Snapshot[fixture.Details]) any {
		return h.matchSnapshotDTO(ctx, snap)
	})
	h.logger.InfoContext(ctx, "live stream closed", "match_id", matchID, "subscriber_id", subscriberID, "reason", err)
}

func (h *Handler) subscriberID() string {
	id, err := h.ids.NewID()
	if err != nil {
		return "unknown"
	}
	return id
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(h.allowedOrigins, r.Header.Get("Origin"))
		},
	}
}

func (h *Handler) leagueSnapshotDTO(ctx context.Context, snap livefeed.Snapshot[[]fixture.Fixture]) liveSnapshotDTO[[]fixtureDTO] {
	now := h.now().UTC()
	out := snapshotToDTO(ctx, snap, func(items []fixture.Fixture) []fixtureDTO {
		return fixturesToDTO(items, now)
	})
	if out.Data == nil {
		out.Data = []fixtureDTO{}
	}
	return out
}

func (h *Handler) matchSnapshotDTO(ctx context.Context, snap livefeed.Snapshot[fixture.Details]) liveSnapshotDTO[*matchDTO] {
	now := h.now().UTC()
	return snapshotToDTO(ctx, snap, func(d fixture.Details) *matchDTO {
		out := matchToDTO(d, now)
		return &out
	})
}

// streamSnapshots writes each snapshot as a JSON text frame until the peer goes away,
// the request context ends or the feed closes. Inbound frames are discarded.
func streamSnapshots[T any](
	ctx context.Context,
	conn *websocket.Conn,
	updates <-chan livefeed.Snapshot[T],
	encode func(livefeed.Snapshot[T]) any,
) error {
	peerGone := make(chan error, 1)
	go func() {
		conn.SetReadLimit(streamReadLimit)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				peerGone <- err
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(streamWriteWait))
			return ctx.Err()
		case err := <-peerGone:
			return err
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "feed closed"),
					time.Now().Add(streamWriteWait))
				return nil
			}
			payload, err := sonic.Marshal(encode(snap))
			if err != nil {
				return err
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
