package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/vacuum-planner/internal/planner"
	"github.com/vancomm/vacuum-planner/internal/world"
)

const (
	wsProgress = "progress"
	wsPlan     = "plan"
	wsError    = "error"
)

type wsMessage struct {
	Type     string        `json:"type"`
	Progress *ProgressDTO  `json:"progress,omitempty"`
	Plan     *PlanResponse `json:"plan,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// parsePlanRequest splits a message of the form "strategy\n<world file>".
func parsePlanRequest(text string) (planner.Strategy, *world.World, error) {
	name, body, found := strings.Cut(text, "\n")
	if !found {
		return 0, nil, fmt.Errorf("expected strategy on the first line followed by the world")
	}
	s, err := planner.ParseStrategy(strings.TrimSpace(name))
	if err != nil {
		return 0, nil, err
	}
	w, err := world.Parse(strings.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	return s, w, nil
}

// ConnectWS plans one world per text message and streams progress while the
// search runs. The connection stays open for further requests.
func (h *PlanHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	h.logger.Debug("established WS connection")

	if err := h.wsRunPlanLoop(r.Context(), conn); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return
		}
		h.logger.Warn("error in ws loop", slog.Any("error", err))
	}
}

func (h *PlanHandler) wsRunPlanLoop(ctx context.Context, conn *websocket.Conn) error {
	conn.SetReadLimit(maxWorldBytes)
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		s, wld, err := parsePlanRequest(string(buf))
		if err != nil {
			if err := conn.WriteJSON(wsMessage{Type: wsError, Error: err.Error()}); err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
			continue
		}

		msg, err := h.wsPlan(ctx, conn, s, wld)
		if err != nil {
			return err
		}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}

func (h *PlanHandler) wsPlan(
	ctx context.Context, conn *websocket.Conn, s planner.Strategy, wld *world.World,
) (*wsMessage, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var writeErr error
	progress := planner.WithProgress(h.ws.ProgressEvery, func(st planner.Stats) {
		if writeErr != nil {
			return
		}
		writeErr = conn.WriteJSON(wsMessage{
			Type: wsProgress,
			Progress: &ProgressDTO{
				NodesGenerated: st.Generated,
				NodesExpanded:  st.Expanded,
				Frontier:       st.Frontier,
			},
		})
		if writeErr != nil {
			cancel()
		}
	})

	digest := wld.Digest()
	plan, err := h.search(ctx, wld, digest, s, h.limits.MaxExpanded, progress)
	if writeErr != nil {
		return nil, fmt.Errorf("unable to write progress: %w", writeErr)
	}
	if internalSearchError(err) {
		h.logger.Error("search failed", slog.String("digest", digest), slog.Any("error", err))
		return &wsMessage{Type: wsError, Error: "search failed"}, nil
	}

	resp := newPlanResponse(plan, digest, err)
	if err == nil || errors.Is(err, planner.ErrNoSolution) {
		resp.PlanRunId = h.record(ctx, wld, digest, plan)
	}
	return &wsMessage{Type: wsPlan, Plan: resp}, nil
}
