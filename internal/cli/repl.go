package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/internal/ui"
	"github.com/agbru/nbase/pkg/nbase"
)

// lastVar holds the result of the previous evaluation.
const lastVar = "_"

var varName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Base is the initial base.
	Base int
	// Charset is the initial charset; empty selects the default charset.
	Charset string
	// Timeout is the maximum duration for each evaluation.
	Timeout time.Duration
	// Verbose prints long values in full.
	Verbose bool
}

// REPL is an interactive evaluation session. Operands are literals in the
// current base and charset, or $name references to stored variables, which
// are converted to the current base on use.
type REPL struct {
	config  REPLConfig
	svc     service.Service
	repr    nbase.Repr
	charset string
	vars    map[string]*nbase.Integer
	in      io.Reader
	out     io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - svc: The evaluation service.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
//   - error: An error if the initial base or charset is invalid.
func NewREPL(svc service.Service, config REPLConfig) (*REPL, error) {
	if config.Base == 0 {
		config.Base = 10
	}
	r := &REPL{
		config: config,
		svc:    svc,
		vars:   make(map[string]*nbase.Integer),
		in:     os.Stdin,
		out:    os.Stdout,
	}
	if err := r.setRepr(config.Base, config.Charset); err != nil {
		return nil, err
	}
	return r, nil
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Var returns the variable stored under name.
func (r *REPL) Var(name string) (*nbase.Integer, bool) {
	x, ok := r.vars[name]
	return x, ok
}

// Start reads commands until "exit", EOF or the end of ctx.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	fmt.Fprintf(r.out, "Type %s for the list of commands.\n\n", ui.Warning("help"))

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for {
		fmt.Fprint(r.out, ui.Success(fmt.Sprintf("nbase[%d]> ", r.repr.Base())))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Fprintln(r.out, ui.Error("Read error: ", err))
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		if ctx.Err() != nil {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintln(r.out, ui.Primary("nbase interactive mode"))
	fmt.Fprintf(r.out, "Base %s, charset %s.\n", ui.Info(r.repr.Base()), ui.Info(r.charsetName()))
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, ui.Bold("Available commands:"))
	help := [][2]string{
		{"<op> <args...>", "Evaluate an operation, e.g. add 12 $x (result in $_)"},
		{"convert <arg> <base> [charset]", "Write a value in another base"},
		{"let <name> <op> <args...>", "Evaluate and store the result"},
		{"set <name> <value>", "Store a value"},
		{"unset <name>", "Remove a variable"},
		{"vars", "List variables"},
		{"info <arg>", "Describe a value"},
		{"base [n]", "Show or change the base"},
		{"charset [symbols|default]", "Show or change the charset"},
		{"ops", "List operations"},
		{"save <file> / load <file>", "Save or restore the session"},
		{"help", "Display this help"},
		{"exit / quit", "Exit interactive mode"},
	}
	for _, h := range help {
		fmt.Fprintf(r.out, "  %-32s - %s\n", h[0], h[1])
	}
}

// processCommand parses and executes a command. It returns false when the
// REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	var err error
	switch cmd {
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, ui.Success("Goodbye!"))
		return false
	case "help", "h", "?":
		r.printHelp()
	case "ops":
		r.cmdOps()
	case "vars":
		r.cmdVars()
	case "set":
		err = r.cmdSet(args)
	case "let":
		err = r.cmdLet(ctx, args)
	case "unset":
		err = r.cmdUnset(args)
	case "info":
		err = r.cmdInfo(args)
	case "base":
		err = r.cmdBase(args)
	case "charset":
		err = r.cmdCharset(args)
	case "save":
		err = r.cmdSave(args)
	case "load":
		err = r.cmdLoad(args)
	default:
		if len(args) == 0 && !r.isOp(cmd) {
			// A lone value is echoed back.
			var x *nbase.Integer
			if x, err = r.operand(0, parts[0]); err == nil {
				r.store(lastVar, x)
				fmt.Fprintln(r.out, ui.Success(Abbreviate(x, r.config.Verbose)))
			}
			break
		}
		err = r.evaluate(ctx, lastVar, cmd, args)
	}
	if err != nil {
		fmt.Fprintln(r.out, ui.Error("Error: ", err))
	}
	return true
}

// operand resolves a literal or a $name reference in the current base. i is
// the operand position reported by input limit errors.
func (r *REPL) operand(i int, tok string) (*nbase.Integer, error) {
	if name, ok := strings.CutPrefix(tok, "$"); ok {
		x, found := r.vars[name]
		if !found {
			return nil, fmt.Errorf("undefined variable $%s", name)
		}
		if x.Repr().Equal(r.repr) {
			return x, nil
		}
		return x.Rebase(r.repr)
	}
	if strings.HasPrefix(tok, "-$") {
		x, err := r.operand(i, tok[1:])
		if err != nil {
			return nil, err
		}
		return x.Neg(), nil
	}
	if err := r.svc.CheckInput(i, tok); err != nil {
		return nil, err
	}
	return r.repr.Parse(tok)
}

func (r *REPL) evaluate(ctx context.Context, dest, op string, args []string) error {
	var target service.Target
	if op == "convert" {
		if len(args) < 2 || len(args) > 3 {
			return errors.New("usage: convert <arg> <base> [charset]")
		}
		base, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid base %q", args[1])
		}
		target.Base = base
		if len(args) == 3 {
			target.Charset = args[2]
		}
		args = args[:1]
	}

	operands := make([]*nbase.Integer, len(args))
	for i, a := range args {
		x, err := r.operand(i, a)
		if err != nil {
			return err
		}
		operands[i] = x
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	start := time.Now()
	res, err := r.svc.Apply(ctx, op, operands, target)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	switch {
	case res.Ordering != nil:
		r.store(dest, r.repr.FromInt64(int64(*res.Ordering)))
	case res.Value != nil:
		r.store(dest, res.Value)
	}
	if res.Remainder != nil {
		r.store(dest+"_rem", res.Remainder)
	}
	if err := DisplayResult(r.out, res, duration, OutputConfig{Verbose: r.config.Verbose}); err != nil {
		return err
	}
	if duration > time.Second {
		fmt.Fprintf(r.out, "(%s)\n", ui.Secondary(ui.FormatDuration(duration)))
	}
	return nil
}

func (r *REPL) isOp(name string) bool {
	return slices.ContainsFunc(r.svc.Ops(), func(op service.Op) bool { return op.Name == name })
}

func (r *REPL) store(name string, x *nbase.Integer) { r.vars[name] = x }

func (r *REPL) cmdOps() {
	fmt.Fprintln(r.out, ui.Bold("Operations:"))
	for _, op := range r.svc.Ops() {
		fmt.Fprintf(r.out, "  %s%s - %s\n", ui.Warning(op.Name), strings.Repeat(" ", max(0, 8-len(op.Name))), op.Summary)
	}
}

func (r *REPL) cmdVars() {
	if len(r.vars) == 0 {
		fmt.Fprintln(r.out, "No variables.")
		return
	}
	for _, name := range slices.Sorted(maps.Keys(r.vars)) {
		x := r.vars[name]
		fmt.Fprintf(r.out, "  %s = %s %s\n", ui.Info("$"+name), ui.Success(Abbreviate(x, r.config.Verbose)),
			ui.Secondary(fmt.Sprintf("(base %d)", x.Base())))
	}
}

func (r *REPL) cmdSet(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set <name> <value>")
	}
	if !varName.MatchString(args[0]) {
		return fmt.Errorf("invalid variable name %q", args[0])
	}
	x, err := r.operand(0, args[1])
	if err != nil {
		return err
	}
	r.store(args[0], x)
	fmt.Fprintf(r.out, "%s = %s\n", ui.Info("$"+args[0]), ui.Success(Abbreviate(x, r.config.Verbose)))
	return nil
}

func (r *REPL) cmdLet(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: let <name> <op> <args...>")
	}
	if !varName.MatchString(args[0]) {
		return fmt.Errorf("invalid variable name %q", args[0])
	}
	return r.evaluate(ctx, args[0], strings.ToLower(args[1]), args[2:])
}

func (r *REPL) cmdUnset(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: unset <name>")
	}
	name := strings.TrimPrefix(args[0], "$")
	if _, ok := r.vars[name]; !ok {
		return fmt.Errorf("undefined variable $%s", name)
	}
	delete(r.vars, name)
	return nil
}

func (r *REPL) cmdInfo(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: info <arg>")
	}
	x, err := r.operand(0, args[0])
	if err != nil {
		return err
	}
	DisplayDetails(r.out, x, 0)
	return nil
}

func (r *REPL) cmdBase(args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Base: %s\n", ui.Info(r.repr.Base()))
		return nil
	}
	base, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid base %q", args[0])
	}
	if err := r.setRepr(base, r.charset); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Base changed to %s.\n", ui.Info(base))
	return nil
}

func (r *REPL) cmdCharset(args []string) error {
	if len(args) == 0 {
		if c := r.repr.Charset(); c != nil {
			DisplayCharset(r.out, c, DefaultCharsetColumns)
		} else {
			fmt.Fprintln(r.out, "Charset: raw (values are written as comma separated digits)")
		}
		return nil
	}
	charset := args[0]
	if charset == "default" {
		charset = ""
	}
	if err := r.setRepr(r.repr.Base(), charset); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Charset changed to %s.\n", ui.Info(r.charsetName()))
	return nil
}

func (r *REPL) setRepr(base int, charset string) error {
	rep, err := r.svc.Factory().Repr(base, charset)
	if err != nil {
		return err
	}
	// Variables follow the session representation; nothing changes unless
	// every one of them can be rebased.
	vars := make(map[string]*nbase.Integer, len(r.vars))
	for name, x := range r.vars {
		if x.Repr().Equal(rep) {
			vars[name] = x
			continue
		}
		if vars[name], err = x.Rebase(rep); err != nil {
			return fmt.Errorf("rebasing $%s: %w", name, err)
		}
	}
	r.repr, r.charset, r.vars = rep, charset, vars
	return nil
}

func (r *REPL) charsetName() string {
	switch {
	case r.repr.IsRaw():
		return "raw"
	case r.charset == "":
		return "default"
	default:
		return r.charset
	}
}

func (r *REPL) cmdSave(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: save <file>")
	}
	s := Session{Base: r.repr.Base(), Charset: r.charset, Vars: make(map[string]nbase.Snapshot, len(r.vars))}
	for name, x := range r.vars {
		s.Vars[name] = x.Snapshot()
	}
	if err := SaveSession(args[0], s); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved %d variable(s) to %s.\n", len(s.Vars), args[0])
	return nil
}

func (r *REPL) cmdLoad(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <file>")
	}
	s, err := LoadSession(args[0])
	if err != nil {
		return err
	}
	vars := make(map[string]*nbase.Integer, len(s.Vars))
	for name, snap := range s.Vars {
		x, err := r.svc.Factory().Restore(snap)
		if err != nil {
			return fmt.Errorf("variable $%s: %w", name, err)
		}
		vars[name] = x
	}
	prev := r.vars
	r.vars = vars
	if err := r.setRepr(s.Base, s.Charset); err != nil {
		r.vars = prev
		return err
	}
	fmt.Fprintf(r.out, "Loaded %d variable(s) from %s.\n", len(vars), args[0])
	return nil
}
