package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pleimann/ctlmap/internal/action"
)

// ParseKeySpec converts a decoded YAML/TOML value into a keyspec tree:
//
//	"Return"                    a single key
//	500                         a pause in milliseconds
//	[a, [Control_L, s], 200]    a sequence; a list inside a list is a chord
//	{chord: [Control_L, s]}     a chord
//	{sleep: 200}                a pause
//	{command: [notify-send, x]} an external command (a string is split on spaces)
//	{sequence: [...]}           a nested sequence
//
// A nil value parses to a nil keyspec, the placeholder that does nothing.
func ParseKeySpec(v any) (action.KeySpec, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("empty key name")
		}
		return action.Key{Name: v}, nil
	case []any:
		return parseSequence(v)
	case map[string]any:
		return parseTagged(v)
	default:
		if ms, ok := millis(v); ok {
			return sleep(ms)
		}
		return nil, fmt.Errorf("unsupported keyspec %v (%T)", v, v)
	}
}

func parseSequence(items []any) (action.KeySpec, error) {
	seq := action.Sequence{Specs: make([]action.KeySpec, 0, len(items))}
	for i, item := range items {
		var (
			spec action.KeySpec
			err  error
		)
		if names, ok := item.([]any); ok {
			spec, err = parseChord(names)
		} else {
			spec, err = ParseKeySpec(item)
		}
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if spec == nil {
			return nil, fmt.Errorf("element %d: empty keyspec", i)
		}
		seq.Specs = append(seq.Specs, spec)
	}
	return seq, nil
}

func parseTagged(m map[string]any) (action.KeySpec, error) {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("keyspec map must have exactly one of chord, sleep, command, sequence or key; got %v", keys)
	}

	var (
		tag string
		v   any
	)
	for tag, v = range m {
	}

	switch tag {
	case "key":
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("key: want a string, got %T", v)
		}
		return ParseKeySpec(name)
	case "chord":
		names, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("chord: want a list of key names, got %T", v)
		}
		return parseChord(names)
	case "sleep":
		ms, ok := millis(v)
		if !ok {
			return nil, fmt.Errorf("sleep: want milliseconds, got %v", v)
		}
		return sleep(ms)
	case "command":
		return parseCommand(v)
	case "sequence":
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("sequence: want a list, got %T", v)
		}
		return parseSequence(items)
	default:
		return nil, fmt.Errorf("unknown keyspec type %q", tag)
	}
}

func parseChord(items []any) (action.KeySpec, error) {
	names, err := stringList(items)
	if err != nil {
		return nil, fmt.Errorf("chord: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("chord must name at least one key")
	}
	return action.NewChord(names...), nil
}

func parseCommand(v any) (action.KeySpec, error) {
	var args []string
	switch v := v.(type) {
	case string:
		args = strings.Fields(v)
	case []any:
		var err error
		if args, err = stringList(v); err != nil {
			return nil, fmt.Errorf("command: %w", err)
		}
	default:
		return nil, fmt.Errorf("command: want a list of arguments, got %T", v)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("command must not be empty")
	}
	return action.Command{Args: args}, nil
}

func sleep(ms int) (action.KeySpec, error) {
	if ms < 0 {
		return nil, fmt.Errorf("sleep must not be negative: %d", ms)
	}
	return action.Millis(ms), nil
}

func stringList(items []any) ([]string, error) {
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("element %d: want a key name, got %v", i, item)
		}
		out[i] = s
	}
	return out, nil
}

// millis accepts the integer shapes YAML and TOML decoders produce
func millis(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// Action converts the file form into an action
func (a ActionConfig) Action() (action.Action, error) {
	if a.Reinit {
		if a.Keys != nil {
			return action.Action{}, fmt.Errorf("reinit actions take no keys")
		}
		return action.Reinit(a.Desc), nil
	}
	spec, err := ParseKeySpec(a.Keys)
	if err != nil {
		return action.Action{}, err
	}
	return action.New(spec, a.Desc), nil
}

func (a ActionConfig) check() error {
	_, err := a.Action()
	return err
}
