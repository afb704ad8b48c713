package nbase

import (
	"io"
	"math/big"
	"sync"

	"fortio.org/safecast"
	"github.com/agbru/nbase/internal/digits"
	"github.com/rs/zerolog"
)

// DefaultMaxBase is the largest base a Factory accepts unless configured
// otherwise.
const DefaultMaxBase = 1_000_000

// MaxSupportedBase is the ceiling for WithMaxBase.
const MaxSupportedBase = digits.MaxSupportedBase

// Factory creates integers. It owns the charset registry, the default charset
// and the base limit, so independent factories never share configuration.
// A Factory is safe for concurrent use.
type Factory struct {
	registry       *Registry
	defaultCharset *Charset
	maxBase        int
	logger         zerolog.Logger
}

type factoryOptions struct {
	registry       *Registry
	defaultCharset string
	maxBase        int
	logger         zerolog.Logger
}

// Option configures a Factory.
type Option func(*factoryOptions)

// WithRegistry makes the factory use r instead of a private registry.
func WithRegistry(r *Registry) Option {
	return func(o *factoryOptions) { o.registry = r }
}

// WithDefaultCharset sets the charset used when none is given.
func WithDefaultCharset(symbols string) Option {
	return func(o *factoryOptions) { o.defaultCharset = symbols }
}

// WithMaxBase sets the largest accepted base.
func WithMaxBase(n int) Option {
	return func(o *factoryOptions) { o.maxBase = n }
}

// WithLogger sets the logger handed to the private registry.
func WithLogger(l zerolog.Logger) Option {
	return func(o *factoryOptions) { o.logger = l }
}

// NewFactory creates a Factory. It fails if the default charset is invalid or
// the max base is outside [2, MaxSupportedBase].
func NewFactory(opts ...Option) (*Factory, error) {
	o := factoryOptions{
		defaultCharset: DefaultCharset,
		maxBase:        DefaultMaxBase,
		logger:         zerolog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxBase < 2 || o.maxBase > MaxSupportedBase {
		return nil, newError("factory", ErrInvalidBase, "max base must be in [2, %d], got %d", MaxSupportedBase, o.maxBase)
	}
	if o.registry == nil {
		o.registry = NewRegistry(WithRegistryLogger(o.logger))
	}
	def, err := o.registry.Validate(o.defaultCharset)
	if err != nil {
		return nil, err
	}
	return &Factory{
		registry:       o.registry,
		defaultCharset: def,
		maxBase:        o.maxBase,
		logger:         o.logger,
	}, nil
}

var defaultFactory = sync.OnceValue(func() *Factory {
	f, err := NewFactory()
	if err != nil {
		panic(err)
	}
	return f
})

// Default returns a process-wide Factory with default settings. The zero
// Integer and the zero Repr belong to it.
func Default() *Factory { return defaultFactory() }

// Registry returns the factory's charset registry.
func (f *Factory) Registry() *Registry { return f.registry }

// DefaultCharset returns the charset used when none is given.
func (f *Factory) DefaultCharset() *Charset { return f.defaultCharset }

// MaxBase returns the largest accepted base.
func (f *Factory) MaxBase() int { return f.maxBase }

func (f *Factory) checkBase(op string, base int) error {
	if base < 2 || base > f.maxBase {
		return newError(op, ErrInvalidBase, "base must be an integer in [2, %d], got %d", f.maxBase, base)
	}
	return nil
}

// Repr returns the representation for base and charset. An empty charset
// selects the default charset when it is long enough for base, and the raw
// representation otherwise.
func (f *Factory) Repr(base int, charset string) (Repr, error) {
	if err := f.checkBase("repr", base); err != nil {
		return Repr{}, err
	}
	b, err := safecast.Conv[uint32](base)
	if err != nil {
		return Repr{}, newError("repr", ErrInvalidBase, "%v", err)
	}
	r := Repr{f: f, base: b}
	switch {
	case charset != "":
		c, err := f.registry.ForBase(charset, base)
		if err != nil {
			return Repr{}, err
		}
		r.charset = c
	case f.defaultCharset.Supports(base):
		r.charset = f.defaultCharset
	}
	return r, nil
}

// FromInt64 is shorthand for Repr followed by Repr.FromInt64.
func (f *Factory) FromInt64(n int64, base int, charset string) (*Integer, error) {
	r, err := f.Repr(base, charset)
	if err != nil {
		return nil, err
	}
	return r.FromInt64(n), nil
}

// FromBigInt is shorthand for Repr followed by Repr.FromBigInt.
func (f *Factory) FromBigInt(x *big.Int, base int, charset string) (*Integer, error) {
	r, err := f.Repr(base, charset)
	if err != nil {
		return nil, err
	}
	return r.FromBigInt(x), nil
}

// Parse is shorthand for Repr followed by Repr.Parse.
func (f *Factory) Parse(s string, base int, charset string) (*Integer, error) {
	r, err := f.Repr(base, charset)
	if err != nil {
		return nil, err
	}
	return r.Parse(s)
}

// FromDigits is shorthand for Repr followed by Repr.FromDigits.
func (f *Factory) FromDigits(ds []int, base int, negative bool) (*Integer, error) {
	r, err := f.Repr(base, "")
	if err != nil {
		return nil, err
	}
	return r.FromDigits(ds, negative)
}

// Restore rebuilds an integer from a snapshot, validating every field.
func (f *Factory) Restore(s Snapshot) (*Integer, error) {
	r, err := f.Repr(s.Base, s.Charset)
	if err != nil {
		return nil, err
	}
	if len(s.Digits) == 0 {
		return nil, newError("restore", ErrInvalidArgument, "snapshot has no digits")
	}
	mag := make(digits.Vector, len(s.Digits))
	for i, d := range s.Digits {
		if d >= r.base {
			return nil, newError("restore", ErrInvalidArgument, "digit %d at position %d is out of range for base %d", d, i, r.base)
		}
		mag[i] = d
	}
	return r.build(digits.Purge(mag), s.Negative), nil
}

// Repr is a (base, charset) pair bound to a Factory. Integers of the same
// Repr can be combined. A nil charset is the raw representation: values
// format as comma separated decimal digits and cannot be parsed from text.
//
// The zero Repr is base 10 with the default charset of Default().
type Repr struct {
	f       *Factory
	base    uint32
	charset *Charset
}

func decimalRepr() Repr {
	f := Default()
	return Repr{f: f, base: 10, charset: f.defaultCharset}
}

func (r Repr) norm() Repr {
	if r.f == nil {
		return decimalRepr()
	}
	return r
}

// Base returns the base.
func (r Repr) Base() int { return int(r.norm().base) }

// Charset returns the charset, or nil for the raw representation.
func (r Repr) Charset() *Charset { return r.norm().charset }

// IsRaw reports whether r has no charset.
func (r Repr) IsRaw() bool { return r.norm().charset == nil }

// Factory returns the factory r belongs to.
func (r Repr) Factory() *Factory { return r.norm().f }

// Equal reports whether r and o denote the same representation.
func (r Repr) Equal(o Repr) bool {
	r, o = r.norm(), o.norm()
	return r.base == o.base && sameCharset(r.charset, o.charset)
}

func (r Repr) build(mag digits.Vector, neg bool) *Integer {
	return &Integer{r: r, mag: mag, neg: neg && !digits.IsZero(mag)}
}

// Zero returns 0.
func (r Repr) Zero() *Integer { return r.norm().build(digits.Zero(), false) }

// FromInt64 returns n.
func (r Repr) FromInt64(n int64) *Integer {
	u := uint64(n)
	if n < 0 {
		u = -u
	}
	r = r.norm()
	return r.build(digits.FromUint64(u, r.base), n < 0)
}

// FromUint64 returns n.
func (r Repr) FromUint64(n uint64) *Integer {
	r = r.norm()
	return r.build(digits.FromUint64(n, r.base), false)
}

// FromBigInt returns the value of x.
func (r Repr) FromBigInt(x *big.Int) *Integer {
	r = r.norm()
	be := x.Bytes()
	v := make(digits.Vector, len(be))
	for i, b := range be {
		v[len(be)-1-i] = uint32(b)
	}
	return r.build(digits.Convert(digits.Purge(v), 256, r.base), x.Sign() < 0)
}

// FromDigits builds an integer from its digits, most significant first.
// Every digit must be in [0, base).
func (r Repr) FromDigits(ds []int, negative bool) (*Integer, error) {
	const op = "from digits"
	r = r.norm()
	if len(ds) == 0 {
		return nil, newError(op, ErrInvalidArgument, "digit list is empty")
	}
	mag := make(digits.Vector, len(ds))
	for i, d := range ds {
		u, err := safecast.Conv[uint32](d)
		if err != nil || u >= r.base {
			return nil, newError(op, ErrInvalidArgument, "digit %d at position %d is out of range for base %d", d, i, r.base)
		}
		mag[len(ds)-1-i] = u
	}
	return r.build(digits.Purge(mag), negative), nil
}
