package scenario

import (
	"fmt"

	"go.uber.org/zap"

	rerr "github.com/Quizert/refs/errors"
	"github.com/Quizert/refs/shared"
	"github.com/Quizert/refs/trace"
)

// Box is the scenario payload: an integer, optionally wrapping an inner
// box for aliasing steps.
type Box struct {
	Inner *Box
	Value int
}

// Runner executes steps against live handles. Handle names are a flat
// namespace shared between owning and observing handles; a name is free
// again once released or moved away.
type Runner struct {
	reg   *trace.Registry
	jrn   *trace.Journal
	obs   shared.Observer
	sh    map[string]shared.Shared[Box]
	wk    map[string]shared.Weak[Box]
	drops int
}

// NewRunner creates a runner with a registry and journal attached to
// every block it constructs. A non-nil log additionally gets every
// lifecycle event.
func NewRunner(log *zap.Logger) *Runner {
	reg := trace.NewRegistry()
	jrn := trace.NewJournal(0)
	obs := []shared.Observer{reg, jrn}
	if log != nil {
		obs = append(obs, trace.NewLogObserver(log))
	}
	return &Runner{
		reg: reg,
		jrn: jrn,
		obs: trace.Tee(obs...),
		sh:  make(map[string]shared.Shared[Box]),
		wk:  make(map[string]shared.Weak[Box]),
	}
}

// Registry returns the runner's live-block registry.
func (r *Runner) Registry() *trace.Registry { return r.reg }

// Journal returns the runner's event journal.
func (r *Runner) Journal() *trace.Journal { return r.jrn }

// Drops returns how many payloads have been torn down so far.
func (r *Runner) Drops() int { return r.drops }

// StepResult records one applied step and the observable state after it.
type StepResult struct {
	Step Step
	Note string
}

// Result is the outcome of a full run.
type Result struct {
	Name  string
	Steps []StepResult
	Leaks []trace.BlockInfo
	Drops int
}

// Run applies every step in order, failing fast. The returned Result is
// valid (with the leak snapshot filled in) even when err is non-nil.
func (r *Runner) Run(sc *Scenario) (*Result, error) {
	res := &Result{Name: sc.Name}
	for i, st := range sc.Steps {
		if err := r.Apply(st, stepPath(i)); err != nil {
			res.Drops = r.drops
			res.Leaks = r.reg.Live()
			return res, err
		}
		res.Steps = append(res.Steps, StepResult{Step: st, Note: r.describe(st)})
	}
	res.Drops = r.drops
	res.Leaks = r.reg.Live()
	return res, nil
}

// Apply executes one step. path names the step in errors.
func (r *Runner) Apply(st Step, path string) error {
	if err := st.validate(); err != nil {
		return rerr.New(rerr.OpScenario, rerr.KindInvalidInput).
			Path(path).Cause(err).Detail("invalid step").Build()
	}

	switch st.Op {
	case OpNew, OpFrom:
		return r.construct(st, path)
	case OpClone:
		return r.clone(st, path)
	case OpAssign:
		return r.assign(st, path)
	case OpMove:
		return r.move(st, path)
	case OpAlias:
		return r.alias(st, path)
	case OpRelease:
		return r.release(st, path)
	case OpSwap:
		return r.swap(st, path)
	case OpWeak:
		return r.demote(st, path)
	case OpLock, OpUpgrade:
		return r.promote(st, path)
	case OpExpect:
		return r.expect(st, path)
	default:
		return rerr.InvalidInput(rerr.OpScenario, []string{path}, "unknown op "+st.Op)
	}
}

func (r *Runner) construct(st Step, path string) error {
	if err := r.reserve(st.Handle, path); err != nil {
		return err
	}

	box := Box{}
	if st.Value != nil {
		box.Value = *st.Value
	}
	if st.Inner != nil {
		box.Inner = &Box{Value: *st.Inner}
	}
	label := st.Label
	if label == "" {
		label = st.Handle
	}
	fin := func(*Box) { r.drops++ }
	opts := []shared.Option{shared.WithObserver(r.obs), shared.WithLabel(label)}

	if st.Op == OpFrom {
		r.sh[st.Handle] = shared.From(&box, fin, opts...)
	} else {
		r.sh[st.Handle] = shared.NewDrop(box, fin, opts...)
	}
	return nil
}

func (r *Runner) clone(st Step, path string) error {
	if err := r.reserve(st.Handle, path); err != nil {
		return err
	}
	if s, ok := r.sh[st.From]; ok {
		r.sh[st.Handle] = s.Clone()
		return nil
	}
	if w, ok := r.wk[st.From]; ok {
		r.wk[st.Handle] = w.Clone()
		return nil
	}
	return r.notFound(st.From, path)
}

func (r *Runner) assign(st Step, path string) error {
	src, ok := r.sh[st.From]
	if !ok {
		return r.notFound(st.From, path)
	}
	dst, ok := r.sh[st.Handle]
	if !ok {
		return r.notFound(st.Handle, path)
	}
	dst.Assign(src)
	r.sh[st.Handle] = dst
	return nil
}

func (r *Runner) move(st Step, path string) error {
	if err := r.reserve(st.Handle, path); err != nil {
		return err
	}
	if s, ok := r.sh[st.From]; ok {
		r.sh[st.Handle] = s.Move()
		delete(r.sh, st.From)
		return nil
	}
	if w, ok := r.wk[st.From]; ok {
		r.wk[st.Handle] = w.Move()
		delete(r.wk, st.From)
		return nil
	}
	return r.notFound(st.From, path)
}

func (r *Runner) alias(st Step, path string) error {
	if err := r.reserve(st.Handle, path); err != nil {
		return err
	}
	src, ok := r.sh[st.From]
	if !ok {
		return r.notFound(st.From, path)
	}
	if src.IsNil() || src.Get().Inner == nil {
		return rerr.InvalidInput(rerr.OpScenario, []string{path},
			fmt.Sprintf("handle %q has no inner box to alias", st.From))
	}
	r.sh[st.Handle] = shared.Alias(src, src.Get().Inner)
	return nil
}

func (r *Runner) release(st Step, path string) error {
	if s, ok := r.sh[st.Handle]; ok {
		s.Release()
		delete(r.sh, st.Handle)
		return nil
	}
	if w, ok := r.wk[st.Handle]; ok {
		w.Release()
		delete(r.wk, st.Handle)
		return nil
	}
	return r.notFound(st.Handle, path)
}

func (r *Runner) swap(st Step, path string) error {
	if a, ok := r.sh[st.Handle]; ok {
		b, ok := r.sh[st.From]
		if !ok {
			return r.notFound(st.From, path)
		}
		a.Swap(&b)
		r.sh[st.Handle], r.sh[st.From] = a, b
		return nil
	}
	if a, ok := r.wk[st.Handle]; ok {
		b, ok := r.wk[st.From]
		if !ok {
			return r.notFound(st.From, path)
		}
		a.Swap(&b)
		r.wk[st.Handle], r.wk[st.From] = a, b
		return nil
	}
	return r.notFound(st.Handle, path)
}

func (r *Runner) demote(st Step, path string) error {
	if err := r.reserve(st.Handle, path); err != nil {
		return err
	}
	src, ok := r.sh[st.From]
	if !ok {
		return r.notFound(st.From, path)
	}
	r.wk[st.Handle] = src.Weak()
	return nil
}

func (r *Runner) promote(st Step, path string) error {
	if err := r.reserve(st.Handle, path); err != nil {
		return err
	}
	w, ok := r.wk[st.From]
	if !ok {
		return r.notFound(st.From, path)
	}

	if st.Op == OpLock {
		r.sh[st.Handle] = w.Lock()
		return nil
	}

	s, err := w.Upgrade()
	if err != nil {
		return rerr.New(rerr.OpScenario, rerr.KindExpired).
			Path(path).Cause(err).
			Detail("cannot upgrade %q", st.From).
			Build()
	}
	r.sh[st.Handle] = s
	return nil
}

func (r *Runner) expect(st Step, path string) error {
	mismatch := func(what string, want, got any) error {
		return rerr.Mismatch(rerr.OpScenario, []string{path, what}, want, got)
	}

	if st.Drops != nil {
		if r.drops != *st.Drops {
			return mismatch("drops", *st.Drops, r.drops)
		}
		return nil
	}

	if s, ok := r.sh[st.Handle]; ok {
		if st.Strong != nil && s.RefCount() != *st.Strong {
			return mismatch("strong", *st.Strong, s.RefCount())
		}
		if st.Empty != nil && s.IsNil() != *st.Empty {
			return mismatch("empty", *st.Empty, s.IsNil())
		}
		if st.Value != nil {
			if s.IsNil() {
				return mismatch("value", *st.Value, "empty handle")
			}
			if s.Get().Value != *st.Value {
				return mismatch("value", *st.Value, s.Get().Value)
			}
		}
		if st.Expired != nil {
			return rerr.InvalidInput(rerr.OpScenario, []string{path},
				"expired applies to weak handles")
		}
		return nil
	}

	if w, ok := r.wk[st.Handle]; ok {
		if st.Strong != nil && w.RefCount() != *st.Strong {
			return mismatch("strong", *st.Strong, w.RefCount())
		}
		if st.Expired != nil && w.Expired() != *st.Expired {
			return mismatch("expired", *st.Expired, w.Expired())
		}
		if st.Empty != nil || st.Value != nil {
			return rerr.InvalidInput(rerr.OpScenario, []string{path},
				"empty and value apply to shared handles")
		}
		return nil
	}

	return r.notFound(st.Handle, path)
}

// ApplyCommand parses and applies one interactive command line, returning
// a short note about the touched handle's state.
func (r *Runner) ApplyCommand(line, path string) (string, error) {
	st, err := ParseCommand(line)
	if err != nil {
		return "", err
	}
	if err := r.Apply(st, path); err != nil {
		return "", err
	}
	return r.describe(st), nil
}

// reserve fails when name is already bound.
func (r *Runner) reserve(name, path string) error {
	_, inShared := r.sh[name]
	_, inWeak := r.wk[name]
	if inShared || inWeak {
		return rerr.New(rerr.OpScenario, rerr.KindInvalidInput).
			Path(path).
			Detail("handle %q already defined", name).
			Build()
	}
	return nil
}

func (r *Runner) notFound(name, path string) error {
	err := rerr.NotFound(rerr.OpScenario, "handle", name)
	err.Path = []string{path}
	return err
}

func (r *Runner) describe(st Step) string {
	if st.Op == OpExpect {
		return "ok"
	}
	if s, ok := r.sh[st.Handle]; ok {
		if s.IsNil() {
			return "empty"
		}
		return fmt.Sprintf("value=%d strong=%d", s.Get().Value, s.RefCount())
	}
	if w, ok := r.wk[st.Handle]; ok {
		if w.Expired() {
			return "weak, expired"
		}
		return fmt.Sprintf("weak, strong=%d", w.RefCount())
	}
	return "released"
}
