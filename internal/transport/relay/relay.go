// Package relay is the realtime middle tier: it terminates the browser
// websocket, maintains the upstream model session, and dispatches tool calls
// in between.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lunavoice/luna/internal/tools"
)

// Config holds the upstream realtime endpoint settings.
type Config struct {
	// URL is the websocket endpoint of the realtime model API.
	URL string
	// APIKey authenticates the upstream dial.
	APIKey string
	// Voice selects the synthesized voice for the session.
	Voice string
}

// Relay accepts browser sessions and bridges them to the realtime model,
// injecting the session configuration and intercepting tool calls.
type Relay struct {
	cfg      Config
	registry *tools.Registry
	logger   *zap.Logger
}

// New creates a realtime relay over the given tool registry.
func New(cfg Config, registry *tools.Registry, logger *zap.Logger) *Relay {
	return &Relay{cfg: cfg, registry: registry, logger: logger}
}

// dialTimeout bounds the upstream websocket handshake.
const dialTimeout = 15 * time.Second

// ServeHTTP upgrades the browser connection and runs the session until
// either side closes.
func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	client, err := websocket.Accept(w, r, &websocket.AcceptOptions{})
	if err != nil {
		rl.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer client.Close(websocket.StatusInternalError, "session ended")

	ctx := r.Context()

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	upstream, _, err := websocket.Dial(dialCtx, rl.cfg.URL, &websocket.DialOptions{
		HTTPHeader: http.Header{"api-key": []string{rl.cfg.APIKey}},
	})
	cancel()
	if err != nil {
		rl.logger.Error("upstream dial failed", zap.Error(err))
		client.Close(websocket.StatusInternalError, "upstream unavailable")
		return
	}
	defer upstream.Close(websocket.StatusInternalError, "session ended")

	// Tool results can be large; the defaults are sized for control frames.
	client.SetReadLimit(1 << 24)
	upstream.SetReadLimit(1 << 24)

	rl.logger.Info("realtime session opened", zap.String("remote", r.RemoteAddr))

	s := &session{relay: rl, client: client, upstream: upstream}
	if err := s.run(ctx); err != nil && !isClosed(err) {
		rl.logger.Warn("realtime session failed", zap.Error(err))
		return
	}

	rl.logger.Info("realtime session closed", zap.String("remote", r.RemoteAddr))
	client.Close(websocket.StatusNormalClosure, "")
	upstream.Close(websocket.StatusNormalClosure, "")
}

// session is one live browser-to-model bridge.
type session struct {
	relay    *Relay
	client   *websocket.Conn
	upstream *websocket.Conn

	// pendingTools counts tool calls dispatched inside the current model
	// response; a follow-up response is requested once it completes. Only
	// the upstream pump touches it.
	pendingTools int
}

// run pumps both directions until one side fails or the context ends.
func (s *session) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.pumpClient(gctx) })
	g.Go(func() error { return s.pumpUpstream(gctx) })
	return g.Wait()
}

// pumpClient forwards browser events upstream, rewriting session.update on
// the way through.
func (s *session) pumpClient(ctx context.Context) error {
	for {
		_, raw, err := s.client.Read(ctx)
		if err != nil {
			return fmt.Errorf("read client: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode client event: %w", err)
		}

		if env.Type == typeSessionUpdate {
			raw, err = injectSession(raw, s.relay.cfg.Voice, s.relay.registry.Schemas())
			if err != nil {
				return err
			}
		}

		if err := s.upstream.Write(ctx, websocket.MessageText, raw); err != nil {
			return fmt.Errorf("write upstream: %w", err)
		}
	}
}

// pumpUpstream forwards model events to the browser, intercepting tool calls
// and suppressing their plumbing events.
func (s *session) pumpUpstream(ctx context.Context) error {
	for {
		_, raw, err := s.upstream.Read(ctx)
		if err != nil {
			return fmt.Errorf("read upstream: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode upstream event: %w", err)
		}

		switch env.Type {
		case typeItemDone:
			var evt itemDoneEvent
			if err := json.Unmarshal(raw, &evt); err != nil {
				return fmt.Errorf("decode output item: %w", err)
			}
			if evt.Item.Type == "function_call" {
				if err := s.handleToolCall(ctx, evt.Item); err != nil {
					return err
				}
				continue
			}

		case typeItemAdded:
			var evt itemDoneEvent
			if err := json.Unmarshal(raw, &evt); err != nil {
				return fmt.Errorf("decode output item: %w", err)
			}
			if evt.Item.Type == "function_call" {
				continue
			}

		case typeArgsDelta, typeArgsDone:
			continue

		case typeResponseDone:
			stripped, _, err := stripFunctionCalls(raw)
			if err != nil {
				return err
			}
			raw = stripped
			if s.pendingTools > 0 {
				s.pendingTools = 0
				followUp, err := json.Marshal(map[string]any{"type": typeResponseCreate})
				if err != nil {
					return fmt.Errorf("encode response.create: %w", err)
				}
				if err := s.upstream.Write(ctx, websocket.MessageText, followUp); err != nil {
					return fmt.Errorf("write upstream: %w", err)
				}
			}
		}

		if err := s.client.Write(ctx, websocket.MessageText, raw); err != nil {
			return fmt.Errorf("write client: %w", err)
		}
	}
}

// handleToolCall resolves one completed function call and feeds its result
// back to the model, or to the browser for client-bound results. A failed
// invocation is terminal for that invocation only; the session stays up.
func (s *session) handleToolCall(ctx context.Context, item outputItem) error {
	s.relay.logger.Info("tool call", zap.String("tool", item.Name))

	output, clientEvent, err := resolveToolCall(ctx, s.relay.registry, item, s.relay.logger)
	if err != nil {
		return err
	}
	s.pendingTools++

	reply, err := functionCallOutput(item.CallID, output)
	if err != nil {
		return fmt.Errorf("encode tool output: %w", err)
	}
	if err := s.upstream.Write(ctx, websocket.MessageText, reply); err != nil {
		return fmt.Errorf("write upstream: %w", err)
	}

	if clientEvent != nil {
		if err := s.client.Write(ctx, websocket.MessageText, clientEvent); err != nil {
			return fmt.Errorf("write client: %w", err)
		}
	}
	return nil
}

// resolveToolCall dispatches the call and renders the model-bound output plus
// the optional client-bound event. A dispatch failure is converted into an
// apology instruction for the model rather than an error, so one bad
// invocation never tears down the conversation. Client-bound results are not
// re-read by the model; it only sees that the call completed.
func resolveToolCall(ctx context.Context, reg *tools.Registry, item outputItem, logger *zap.Logger) (string, []byte, error) {
	res, err := reg.Dispatch(ctx, item.Name, json.RawMessage(item.Arguments))
	if err != nil {
		logger.Warn("tool call failed", zap.String("tool", item.Name), zap.Error(err))
		return failedToolOutput(item.Name, err), nil, nil
	}

	var output string
	if res.Direction == tools.ToServer {
		output = res.Text
		if res.Payload != nil {
			encoded, err := json.Marshal(res.Payload)
			if err != nil {
				return "", nil, fmt.Errorf("encode tool payload: %w", err)
			}
			output = string(encoded)
		}
	}

	var clientEvent []byte
	if res.Direction == tools.ToClient {
		clientEvent, err = toolResponseToClient(item.Name, res.Payload)
		if err != nil {
			return "", nil, err
		}
	}
	return output, clientEvent, nil
}

// failedToolOutput is the function output handed to the model when a tool
// invocation fails.
func failedToolOutput(tool string, err error) string {
	return fmt.Sprintf("The %s call failed: %v. Briefly apologize to the user and do not invent an answer.", tool, err)
}

// isClosed reports whether the error is an orderly websocket shutdown.
func isClosed(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
