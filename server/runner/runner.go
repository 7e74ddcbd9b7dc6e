package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ambush/server/application"
	"ambush/server/domain"
	"ambush/utils"
)

const (
	tracerName       = "ambush/server/runner"
	watchdogInterval = time.Second
	eventBuffer      = 64
	writeBuffer      = 64
	maxCloseReason   = 123
)

// ErrKicked はホストからKickを受け取った場合に返されるエラーです。
var ErrKicked = errors.New("kicked by host")

type eventKind uint8

const (
	evSensor eventKind = iota
	evRoundStart
	evBattleEnd
)

type event struct {
	kind  eventKind
	batch *domain.SensorBatch
}

// Runner は1本の接続上で1体のエージェントを動かします。
// 受信・判断・送信・死活監視をそれぞれ別のgoroutineで回し、
// Controller には判断用のgoroutineからしか触れません。
type Runner struct {
	transport  domain.Transport
	controller application.Controller
	session    *domain.Session
	watchdog   *domain.IdleWatchdog
	tracer     trace.Tracer
	logger     *slog.Logger

	idleTimeout time.Duration

	events  chan event
	writeCh chan []byte

	seq      atomic.Uint32
	assigned atomic.Bool
}

type Option func(*Runner)

// WithIdleTimeout はホストが無言のまま接続を保つ上限です。0 なら監視しません。
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.idleTimeout = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

func New(transport domain.Transport, controller application.Controller, opts ...Option) *Runner {
	r := &Runner{
		transport:  transport,
		controller: controller,
		session:    domain.NewSession(),
		tracer:     otel.Tracer(tracerName),
		logger:     slog.Default(),
		events:     make(chan event, eventBuffer),
		writeCh:    make(chan []byte, writeBuffer),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.watchdog = domain.NewIdleWatchdog(watchdogInterval, r.idleTimeout, r.session)
	return r
}

func (r *Runner) Session() *domain.Session {
	return r.session
}

// Run は接続が切れるか ctx がキャンセルされるまでエージェントを動かします。
// ctx のキャンセルで終わった場合は nil を返します。
func (r *Runner) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return r.readLoop(ctx)
	})
	eg.Go(func() error {
		return r.tickLoop(ctx)
	})
	eg.Go(func() error {
		return r.writeLoop(ctx)
	})
	eg.Go(func() error {
		return r.watchdog.Run(ctx)
	})

	err := eg.Wait()
	r.close(err)
	return err
}

func (r *Runner) close(cause error) {
	if !r.session.Close() {
		return
	}
	reason := "shutdown"
	if cause != nil {
		reason = cause.Error()
	}
	// クローズ理由は制御フレームの上限 (123バイト) に収める
	reason = domain.TruncateUTF8(reason, maxCloseReason)
	if err := r.transport.Close(domain.CloseNormal, reason); err != nil {
		r.logger.Debug("close transport", "err", err)
	}
}

func (r *Runner) readLoop(ctx context.Context) error {
	for {
		data, err := r.transport.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		r.session.TouchRead()
		if err := r.handleData(ctx, data); err != nil {
			return err
		}
	}
}

func (r *Runner) handleData(ctx context.Context, data []byte) error {
	frame, err := domain.ParseFrame(data)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to parse frame", "err", err)
		return nil
	}

	switch frame.PayloadHeader.DataType {
	case domain.DataTypeControl:
		return r.handleControl(ctx, frame)
	case domain.DataTypeSensor:
		if id := frame.SessionID(); r.assigned.Load() && id != "" && id != r.session.ID() {
			r.logger.WarnContext(ctx, "session ID mismatch", "expected", r.session.ID(), "got", id)
			return nil
		}
		batch, err := domain.ParseSensorBatch(frame.Body)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to parse sensor batch", "err", err)
			return nil
		}
		if !utils.FinitePoint(batch.Status.Position()) {
			r.logger.WarnContext(ctx, "non-finite position dropped", "tick", batch.Status.Tick)
			return nil
		}
		return r.dispatch(ctx, event{kind: evSensor, batch: batch})
	default:
		r.logger.WarnContext(ctx, "unknown data type", "dataType", frame.PayloadHeader.DataType)
		return nil
	}
}

func (r *Runner) handleControl(ctx context.Context, frame *domain.Frame) error {
	switch subType := domain.ControlSubType(frame.PayloadHeader.SubType); subType {
	case domain.ControlSubTypeAssign:
		r.session.SetID(frame.SessionID())
		r.assigned.Store(true)
		r.logger.InfoContext(ctx, "session assigned", "sessionID", r.session.ID())
		return r.send(ctx, domain.EncodeControlMessage(r.session.ID(), r.nextSeq(), domain.ControlSubTypeJoin))
	case domain.ControlSubTypePing:
		r.session.TouchPong()
		return r.send(ctx, domain.EncodeControlMessage(r.session.ID(), r.nextSeq(), domain.ControlSubTypePong))
	case domain.ControlSubTypeRoundStart:
		return r.dispatch(ctx, event{kind: evRoundStart})
	case domain.ControlSubTypeBattleEnd:
		return r.dispatch(ctx, event{kind: evBattleEnd})
	case domain.ControlSubTypeKick:
		return ErrKicked
	case domain.ControlSubTypeError:
		r.logger.WarnContext(ctx, "host reported an error", "body", string(frame.Body))
		return nil
	default:
		r.logger.DebugContext(ctx, "ignored control message", "subType", subType)
		return nil
	}
}

// dispatch はイベントを判断ループへ渡します。
// 判断が追いつかない場合は受信側を待たせます。
func (r *Runner) dispatch(ctx context.Context, ev event) error {
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
	return nil
}

func (r *Runner) send(ctx context.Context, data []byte) error {
	select {
	case r.writeCh <- data:
	case <-ctx.Done():
	}
	return nil
}

func (r *Runner) nextSeq() uint16 {
	return uint16(r.seq.Add(1) - 1)
}

func (r *Runner) tickLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-r.events:
			switch ev.kind {
			case evSensor:
				if err := r.tick(ctx, ev.batch); err != nil {
					return err
				}
			case evRoundStart:
				r.controller.StartRound()
				r.logger.InfoContext(ctx, "round started")
			case evBattleEnd:
				r.controller.Reset()
				r.logger.InfoContext(ctx, "battle ended")
			}
		}
	}
}

// tick は1tick分の判断をスパンで囲み、結果のコマンドを送信キューに積みます。
func (r *Runner) tick(ctx context.Context, batch *domain.SensorBatch) error {
	ctx, span := r.tracer.Start(ctx, "agent.tick",
		trace.WithAttributes(attribute.Int64("agent.tick", batch.Status.Tick)))
	defer span.End()

	cmd := r.controller.Step(ctx, batch)
	if !utils.FiniteCommand(cmd) {
		r.logger.WarnContext(ctx, "non-finite command replaced", "tick", batch.Status.Tick, "command", cmd)
		span.SetStatus(codes.Error, "non-finite command")
		cmd = holdStation()
	}

	span.SetAttributes(
		attribute.Bool("agent.locked", !cmd.Radar.Sweep),
		attribute.Bool("agent.fire", cmd.Fire != nil),
	)
	if cmd.Fire != nil {
		span.SetAttributes(attribute.Float64("agent.fire.power", cmd.Fire.Power))
	}

	return r.send(ctx, domain.EncodeCommandMessage(r.session.ID(), r.nextSeq(), cmd))
}

func holdStation() *domain.CommandBatch {
	return &domain.CommandBatch{Radar: domain.RadarTurn{Sweep: true}}
}

func (r *Runner) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-r.writeCh:
			if err := r.transport.Write(ctx, data); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("write: %w", err)
			}
			r.session.TouchWrite()
		}
	}
}
