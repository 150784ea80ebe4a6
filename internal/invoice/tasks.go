package invoice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-arot/internal/events"
	"github.com/noah-isme/backend-arot/internal/obs"
	"github.com/noah-isme/backend-arot/internal/trade"
)

const (
	// QueueDefault is the queue invoice render tasks run on.
	QueueDefault = "default"
	// TaskTypeRender is the task type for rendering an invoice snapshot.
	TaskTypeRender = "invoice:render"
)

// RenderPayload identifies the trade to render.
type RenderPayload struct {
	TradeID uuid.UUID `json:"trade_id"`
}

// NewRenderTask constructs an asynq task.
func NewRenderTask(tradeID uuid.UUID) (*asynq.Task, error) {
	data, err := json.Marshal(RenderPayload{TradeID: tradeID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRender, data), nil
}

// Scheduler enqueues a render task for every recorded trade. It implements
// the event bus scheduler contract.
type Scheduler struct {
	Client *asynq.Client
	Queue  string
}

// Schedule enqueues the render task when the event is a trade recording.
func (s *Scheduler) Schedule(ctx context.Context, event events.Event) error {
	if s == nil || s.Client == nil {
		return nil
	}
	if event.Topic != events.TopicTradeRecorded {
		return nil
	}
	task, err := NewRenderTask(event.AggregateID)
	if err != nil {
		return err
	}
	queue := s.Queue
	if queue == "" {
		queue = QueueDefault
	}
	_, err = s.Client.EnqueueContext(ctx, task, asynq.Queue(queue))
	return err
}

// TradeSource is the slice of the trade store the renderer needs.
type TradeSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (trade.Trade, error)
}

// Renderer processes render tasks: load the trade, build the snapshot,
// insert it. Re-delivery is safe because the insert is conflict-free on
// trade_id.
type Renderer struct {
	Trades TradeSource
	Store  *Store
	Logger zerolog.Logger
}

// HandleRenderTask processes TaskTypeRender tasks.
func (r *Renderer) HandleRenderTask(ctx context.Context, t *asynq.Task) error {
	var payload RenderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		r.recordResult("bad_payload")
		return fmt.Errorf("decode render payload: %w", asynq.SkipRetry)
	}
	tr, err := r.Trades.GetByID(ctx, payload.TradeID)
	if err != nil {
		r.recordResult("error")
		return fmt.Errorf("load trade %s: %w", payload.TradeID, err)
	}
	inserted, err := r.Store.Insert(ctx, Build(tr))
	if err != nil {
		r.recordResult("error")
		return fmt.Errorf("insert invoice for trade %s: %w", payload.TradeID, err)
	}
	if !inserted {
		r.recordResult("duplicate")
		r.Logger.Debug().Stringer("trade_id", payload.TradeID).Msg("invoice already rendered")
		return nil
	}
	r.recordResult("ok")
	r.Logger.Info().
		Stringer("trade_id", payload.TradeID).
		Int64("memo_no", tr.MemoNo).
		Msg("invoice rendered")
	return nil
}

func (r *Renderer) recordResult(result string) {
	if obs.InvoiceRenderTotal != nil {
		obs.InvoiceRenderTotal.WithLabelValues(result).Inc()
	}
}
