package rng

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/replaycore/types"
)

// compositeFuncs are wrappers implemented on top of primitive draws.
var compositeFuncs = map[string]bool{
	"rnl": true,
	"rne": true,
	"rnz": true,
}

// IsComposite reports whether fn names a composite draw.
func IsComposite(fn string) bool {
	return compositeFuncs[fn]
}

// Payload returns the compared part of an entry: "fn(a,b)=r".
func Payload(e types.RngLogEntry) string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = strconv.Itoa(a)
	}
	return fmt.Sprintf("%s(%s)=%d", e.Func, strings.Join(args, ","), e.Result)
}

// Format renders an entry in trace-line form.
func Format(e types.RngLogEntry) string {
	switch e.Kind {
	case types.EntryEnter:
		return ">" + e.Func
	case types.EntryExit:
		return "<" + e.Func
	}
	s := Payload(e)
	if e.Site != "" {
		s += " @ " + e.Site
	}
	return s
}

// Parse reads one trace line. The " @ site" suffix is kept in Site and
// never compared.
func Parse(line string) (types.RngLogEntry, error) {
	raw := line
	line = strings.TrimSpace(line)
	if line == "" {
		return types.RngLogEntry{}, fmt.Errorf("empty rng entry")
	}

	switch line[0] {
	case '>':
		return types.RngLogEntry{Kind: types.EntryEnter, Func: strings.TrimSpace(line[1:]), Raw: raw}, nil
	case '<':
		return types.RngLogEntry{Kind: types.EntryExit, Func: strings.TrimSpace(line[1:]), Raw: raw}, nil
	}

	var site string
	if i := strings.Index(line, " @ "); i >= 0 {
		site = strings.TrimSpace(line[i+3:])
		line = strings.TrimSpace(line[:i])
	}

	open := strings.IndexByte(line, '(')
	closeIdx := strings.LastIndexByte(line, ')')
	if open <= 0 || closeIdx < open {
		return types.RngLogEntry{}, fmt.Errorf("malformed rng entry %q", raw)
	}
	rest := strings.TrimSpace(line[closeIdx+1:])
	if !strings.HasPrefix(rest, "=") {
		return types.RngLogEntry{}, fmt.Errorf("rng entry %q has no result", raw)
	}
	result, err := strconv.Atoi(strings.TrimSpace(rest[1:]))
	if err != nil {
		return types.RngLogEntry{}, fmt.Errorf("rng entry %q: result: %w", raw, err)
	}

	var args []int
	if inner := strings.TrimSpace(line[open+1 : closeIdx]); inner != "" {
		for _, part := range strings.Split(inner, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return types.RngLogEntry{}, fmt.Errorf("rng entry %q: argument: %w", raw, err)
			}
			args = append(args, v)
		}
	}

	fn := strings.TrimSpace(line[:open])
	kind := types.EntryDraw
	if IsComposite(fn) {
		kind = types.EntryComposite
	}
	return types.RngLogEntry{
		Kind:   kind,
		Func:   fn,
		Args:   args,
		Result: result,
		Site:   site,
		Raw:    raw,
	}, nil
}

// ParseTrace parses a list of trace lines.
func ParseTrace(lines []string) ([]types.RngLogEntry, error) {
	out := make([]types.RngLogEntry, 0, len(lines))
	for i, line := range lines {
		e, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// FormatTrace renders entries as trace lines.
func FormatTrace(entries []types.RngLogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = Format(e)
	}
	return out
}
