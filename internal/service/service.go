// Package service evaluates nbase operations on behalf of the command line
// tool, the REPL and the HTTP server. It parses operands, enforces input
// limits, runs the operation under a context deadline and records traces,
// metrics and debug logs for every evaluation.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/logging"
	"github.com/agbru/nbase/pkg/nbase"
)

var (
	// ErrUnknownOp is returned when the requested operation is not registered.
	ErrUnknownOp = errors.New("unknown operation")
	// ErrArity is returned when the number of operands does not match.
	ErrArity = errors.New("wrong number of operands")
	// ErrInputTooLarge is returned when an operand exceeds the input limit.
	ErrInputTooLarge = errors.New("operand exceeds input limit")
	// ErrExponentTooLarge is returned when a pow exponent exceeds the limit.
	ErrExponentTooLarge = errors.New("exponent exceeds limit")
)

// Request describes one evaluation over textual operands. A zero Base means
// decimal.
type Request struct {
	Op        string
	Args      []string
	Base      int
	Charset   string
	ToBase    int
	ToCharset string
}

// Limits bounds the work a single request may ask for. Zero disables a
// limit.
type Limits struct {
	// MaxInput is the largest operand length in symbols.
	MaxInput int
	// MaxExponent is the largest pow exponent.
	MaxExponent int64
}

// Service defines the interface for evaluation services.
type Service interface {
	// Evaluate parses the request operands and applies the operation.
	//
	// Parameters:
	//   - ctx: The context for cancellation and deadlines.
	//   - req: The request.
	//
	// Returns:
	//   - Result: The outcome.
	//   - error: An error if validation, parsing or the operation fails.
	Evaluate(ctx context.Context, req Request) (Result, error)

	// Apply runs an operation over already parsed operands.
	Apply(ctx context.Context, op string, args []*nbase.Integer, target Target) (Result, error)

	// CheckInput reports whether operand i, written as s, fits the input
	// limit. Front ends that parse operands themselves call it before Apply.
	CheckInput(i int, s string) error

	// Factory returns the factory operands are created with.
	Factory() *nbase.Factory

	// Ops lists the available operations.
	Ops() []Op
}

// Evaluator is the default Service.
type Evaluator struct {
	factory *nbase.Factory
	ops     *Registry
	limits  Limits
	logger  logging.Logger
	metrics *Metrics
}

// Ensure Evaluator implements Service interface.
var _ Service = (*Evaluator)(nil)

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLimits sets the input limits.
func WithLimits(l Limits) EvaluatorOption {
	return func(e *Evaluator) { e.limits = l }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) EvaluatorOption {
	return func(e *Evaluator) { e.logger = l }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *Metrics) EvaluatorOption {
	return func(e *Evaluator) { e.metrics = m }
}

// WithRegistry replaces the standard operation registry.
func WithRegistry(r *Registry) EvaluatorOption {
	return func(e *Evaluator) { e.ops = r }
}

// NewEvaluator creates an Evaluator over factory.
//
// Parameters:
//   - factory: The factory operands are created with.
//   - opts: Optional settings.
//
// Returns:
//   - *Evaluator: The evaluator.
func NewEvaluator(factory *nbase.Factory, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		factory: factory,
		ops:     NewRegistry(),
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Factory returns the factory operands are created with.
func (e *Evaluator) Factory() *nbase.Factory { return e.factory }

// Ops lists the available operations.
func (e *Evaluator) Ops() []Op { return e.ops.List() }

// Limits returns the configured limits.
func (e *Evaluator) Limits() Limits { return e.limits }

// Evaluate parses the request operands and applies the operation.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (Result, error) {
	op, err := e.lookup(req.Op, len(req.Args))
	if err != nil {
		return Result{}, err
	}
	base := req.Base
	if base == 0 {
		base = 10
	}
	repr, err := e.factory.Repr(base, req.Charset)
	if err != nil {
		return Result{}, apperrors.NewEvalError(req.Op, err)
	}
	args := make([]*nbase.Integer, len(req.Args))
	for i, s := range req.Args {
		if err := e.CheckInput(i, s); err != nil {
			return Result{}, err
		}
		e.metrics.observeOperand(utf8.RuneCountInString(s))
		if args[i], err = repr.Parse(s); err != nil {
			return Result{}, apperrors.NewEvalError(req.Op, err)
		}
	}
	return e.run(ctx, op, args, Target{Base: req.ToBase, Charset: req.ToCharset})
}

// CheckInput fails with ErrInputTooLarge when s has more symbols than the
// MaxInput limit allows.
func (e *Evaluator) CheckInput(i int, s string) error {
	n := utf8.RuneCountInString(s)
	if e.limits.MaxInput > 0 && n > e.limits.MaxInput {
		return apperrors.ValidationError{
			Field:   fmt.Sprintf("args[%d]", i),
			Message: fmt.Sprintf("operand has %d symbols, limit is %d", n, e.limits.MaxInput),
			Cause:   ErrInputTooLarge,
		}
	}
	return nil
}

// Apply runs an operation over already parsed operands.
func (e *Evaluator) Apply(ctx context.Context, name string, args []*nbase.Integer, target Target) (Result, error) {
	op, err := e.lookup(name, len(args))
	if err != nil {
		return Result{}, err
	}
	return e.run(ctx, op, args, target)
}

func (e *Evaluator) lookup(name string, n int) (Op, error) {
	op, ok := e.ops.Get(name)
	if !ok {
		return Op{}, apperrors.ValidationError{Field: "op", Message: fmt.Sprintf("unknown operation %q", name), Value: name, Cause: ErrUnknownOp}
	}
	if n != op.Arity {
		return Op{}, apperrors.ValidationError{
			Field:   "args",
			Message: fmt.Sprintf("%s takes %d operand(s), got %d", name, op.Arity, n),
			Value:   n,
			Cause:   ErrArity,
		}
	}
	return op, nil
}

func (e *Evaluator) checkExponent(op Op, args []*nbase.Integer) error {
	if op.Name != "pow" || e.limits.MaxExponent <= 0 {
		return nil
	}
	n, err := args[1].Int64()
	if err != nil || n > e.limits.MaxExponent {
		return apperrors.ValidationError{
			Field:   "args[1]",
			Message: fmt.Sprintf("exponent %s exceeds the limit %d", args[1], e.limits.MaxExponent),
			Cause:   ErrExponentTooLarge,
		}
	}
	return nil
}

func (e *Evaluator) checkTarget(op Op, t Target) error {
	if op.Name != "convert" || t.Base != 0 {
		return nil
	}
	return apperrors.ValidationError{Field: "to_base", Message: "convert needs a target base"}
}

// run executes op with tracing, metrics and logging. The operation itself
// cannot be interrupted; when ctx ends first the caller gets ctx.Err() and
// the computation finishes in the background.
func (e *Evaluator) run(ctx context.Context, op Op, args []*nbase.Integer, target Target) (res Result, err error) {
	tracer := otel.Tracer("nbase/service")
	ctx, span := tracer.Start(ctx, "Evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("nbase.op", op.Name),
		attribute.Int("nbase.base", args[0].Base()),
	)

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		e.metrics.observe(op.Name, status, duration.Seconds())
		e.logger.Debug("evaluation completed",
			logging.String("op", op.Name),
			logging.Int("base", args[0].Base()),
			logging.String("status", status),
			logging.Duration("duration", duration),
		)
	}()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := e.checkExponent(op, args); err != nil {
		return Result{}, err
	}
	if err := e.checkTarget(op, target); err != nil {
		return Result{}, err
	}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := op.Fn(args, target)
		done <- outcome{r, err}
	}()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return Result{}, apperrors.NewEvalError(op.Name, o.err)
		}
		return o.res, nil
	}
}
