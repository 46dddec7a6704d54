package scenario

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	rerr "github.com/Quizert/refs/errors"
)

// Ops understood by the runner.
const (
	OpNew     = "new"     // combined construction (single allocation)
	OpFrom    = "from"    // pointer construction (two allocations)
	OpClone   = "clone"   // copy a shared or weak handle
	OpAssign  = "assign"  // copy-assign over an existing handle
	OpMove    = "move"    // transfer a handle, source becomes empty
	OpAlias   = "alias"   // expose the payload's inner box, share the block
	OpRelease = "release" // give the handle's claim back
	OpSwap    = "swap"    // exchange two handles
	OpWeak    = "weak"    // demote a shared handle
	OpLock    = "lock"    // promote a weak handle, empty on failure
	OpUpgrade = "upgrade" // promote a weak handle, fail on expiry
	OpExpect  = "expect"  // assert observable state
)

// Scenario is a scripted sequence of handle operations.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one operation. Handle names a new or target handle, From names
// the source. The pointer fields are expectations and construction
// parameters; nil means unset.
type Step struct {
	Op     string `yaml:"op"`
	Handle string `yaml:"handle,omitempty"`
	From   string `yaml:"from,omitempty"`
	Label  string `yaml:"label,omitempty"`
	Value  *int   `yaml:"value,omitempty"`
	Inner  *int   `yaml:"inner,omitempty"`

	// op: expect
	Strong  *int  `yaml:"strong,omitempty"`
	Expired *bool `yaml:"expired,omitempty"`
	Empty   *bool `yaml:"empty,omitempty"`
	Drops   *int  `yaml:"drops,omitempty"`
}

func (s Step) String() string {
	var b strings.Builder
	b.WriteString(s.Op)
	if s.Handle != "" {
		b.WriteByte(' ')
		b.WriteString(s.Handle)
	}
	if s.From != "" {
		b.WriteString(" from ")
		b.WriteString(s.From)
	}
	if s.Value != nil {
		fmt.Fprintf(&b, " value=%d", *s.Value)
	}
	if s.Strong != nil {
		fmt.Fprintf(&b, " strong=%d", *s.Strong)
	}
	if s.Expired != nil {
		fmt.Fprintf(&b, " expired=%t", *s.Expired)
	}
	if s.Empty != nil {
		fmt.Fprintf(&b, " empty=%t", *s.Empty)
	}
	if s.Drops != nil {
		fmt.Fprintf(&b, " drops=%d", *s.Drops)
	}
	return b.String()
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, rerr.Parse(rerr.OpScenario, err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a YAML scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rerr.Parse(rerr.OpScenario, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

func (sc *Scenario) validate() error {
	if len(sc.Steps) == 0 {
		return rerr.InvalidInput(rerr.OpScenario, nil, "scenario has no steps")
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return rerr.New(rerr.OpScenario, rerr.KindInvalidInput).
				Path(stepPath(i)).
				Cause(err).
				Detail("invalid step %q", st.Op).
				Build()
		}
	}
	return nil
}

func (s Step) validate() error {
	needsHandle := func() error {
		if s.Handle == "" {
			return fmt.Errorf("op %q requires a handle name", s.Op)
		}
		return nil
	}
	needsBoth := func() error {
		if s.Handle == "" || s.From == "" {
			return fmt.Errorf("op %q requires handle and from", s.Op)
		}
		return nil
	}

	switch s.Op {
	case OpNew, OpFrom, OpRelease:
		return needsHandle()
	case OpClone, OpAssign, OpMove, OpAlias, OpSwap, OpWeak, OpLock, OpUpgrade:
		return needsBoth()
	case OpExpect:
		if s.Drops != nil {
			return nil
		}
		if err := needsHandle(); err != nil {
			return err
		}
		if s.Strong == nil && s.Expired == nil && s.Empty == nil && s.Value == nil {
			return fmt.Errorf("expect step asserts nothing")
		}
		return nil
	case "":
		return fmt.Errorf("step has no op")
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
}

func stepPath(i int) string {
	return "steps[" + strconv.Itoa(i) + "]"
}

// ParseCommand turns an interactive command line into a Step. The grammar
// is positional:
//
//	new <h> [value] [inner <n>]
//	from <h> [value]
//	clone|assign|move|alias|weak|lock|upgrade|swap <h> <from>
//	release <h>
//	expect <h> strong|value <n> | expect <h> expired|empty true|false
//	expect drops <n>
func ParseCommand(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, rerr.InvalidInput(rerr.OpScenario, nil, "empty command")
	}

	bad := func(detail string) (Step, error) {
		return Step{}, rerr.InvalidInput(rerr.OpScenario, []string{fields[0]}, detail)
	}

	st := Step{Op: fields[0]}
	args := fields[1:]

	switch st.Op {
	case OpNew, OpFrom:
		if len(args) < 1 {
			return bad("usage: " + st.Op + " <handle> [value] [inner <n>]")
		}
		st.Handle = args[0]
		args = args[1:]
		if len(args) > 0 && args[0] != "inner" {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return bad("value must be an integer")
			}
			st.Value = &v
			args = args[1:]
		}
		if len(args) == 2 && args[0] == "inner" {
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return bad("inner must be an integer")
			}
			st.Inner = &v
		} else if len(args) != 0 {
			return bad("trailing arguments")
		}
	case OpClone, OpAssign, OpMove, OpAlias, OpWeak, OpLock, OpUpgrade, OpSwap:
		if len(args) != 2 {
			return bad("usage: " + st.Op + " <handle> <from>")
		}
		st.Handle, st.From = args[0], args[1]
	case OpRelease:
		if len(args) != 1 {
			return bad("usage: release <handle>")
		}
		st.Handle = args[0]
	case OpExpect:
		if len(args) == 2 && args[0] == "drops" {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return bad("drops must be an integer")
			}
			st.Drops = &n
			break
		}
		if len(args) != 3 {
			return bad("usage: expect <handle> <strong|value|expired|empty> <arg> | expect drops <n>")
		}
		st.Handle = args[0]
		switch args[1] {
		case "strong":
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return bad("strong must be an integer")
			}
			st.Strong = &n
		case "value":
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return bad("value must be an integer")
			}
			st.Value = &n
		case "expired":
			b, err := strconv.ParseBool(args[2])
			if err != nil {
				return bad("expired must be a boolean")
			}
			st.Expired = &b
		case "empty":
			b, err := strconv.ParseBool(args[2])
			if err != nil {
				return bad("empty must be a boolean")
			}
			st.Empty = &b
		default:
			return bad("unknown expectation " + strconv.Quote(args[1]))
		}
	default:
		return bad("unknown op " + strconv.Quote(st.Op))
	}

	if err := st.validate(); err != nil {
		return Step{}, rerr.InvalidInput(rerr.OpScenario, []string{st.Op}, err.Error())
	}
	return st, nil
}
