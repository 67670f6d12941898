// Package session reads recorded sessions: JSON documents, optionally
// zstd-compressed, checked against an embedded JSON schema and then
// materialized into types.Session.
package session

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/nathoo/replaycore/engine/parser"
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/types"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed session.schema.json
var schemaText string

const schemaURL = "session.schema.json"

// FormatVersion is the session version written when none is given.
const FormatVersion = 1

// MalformedError reports a session that cannot be replayed at all.
type MalformedError struct {
	Path     string
	Problems []string
}

func (e *MalformedError) Error() string {
	name := e.Path
	if name == "" {
		name = "session"
	}
	return fmt.Sprintf("%s is malformed:\n  %s", name, strings.Join(e.Problems, "\n  "))
}

// rawFrame mirrors one step or the startup block on disk.
type rawFrame struct {
	Key    string   `json:"key"`
	Action string   `json:"action"`
	Rng    []string `json:"rng"`
	Screen []string `json:"screen"`
	Grid   [][]int  `json:"grid"`
}

type rawSession struct {
	Version   int             `json:"version"`
	Seed      int64           `json:"seed"`
	Character types.Character `json:"character"`
	Startup   *rawFrame       `json:"startup"`
	Steps     []rawFrame      `json:"steps"`
}

var schema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(schemaText)); err != nil {
		panic(fmt.Sprintf("session schema: %v", err))
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("session schema: %v", err))
	}
	return s
}

// Load reads a session file. Files ending in .zst are decompressed first.
func Load(path string) (*types.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", path, err)
	}
	s, err := Decode(data)
	if err != nil {
		var me *MalformedError
		if errors.As(err, &me) {
			me.Path = path
		}
		return nil, err
	}
	s.Source = path
	return s, nil
}

// Decode validates and materializes a session document.
func Decode(data []byte) (*types.Session, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &MalformedError{Problems: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &MalformedError{Problems: schemaProblems(err)}
	}

	var raw rawSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedError{Problems: []string{err.Error()}}
	}
	sess, err := materialize(&raw)
	if err != nil {
		return nil, err
	}
	HoistStartup(sess)
	return sess, nil
}

func schemaProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	for _, be := range ve.BasicOutput().Errors {
		if be.Error == "" || strings.HasPrefix(be.Error, "doesn't validate with") {
			continue
		}
		loc := be.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out = append(out, fmt.Sprintf("%s: %s", loc, be.Error))
	}
	if len(out) == 0 {
		out = append(out, ve.Error())
	}
	return out
}

func materialize(raw *rawSession) (*types.Session, error) {
	s := &types.Session{
		Version:   raw.Version,
		Seed:      raw.Seed,
		Character: raw.Character,
		Steps:     make([]types.SessionStep, 0, len(raw.Steps)),
	}
	if s.Version == 0 {
		s.Version = FormatVersion
	}
	var problems []string

	if raw.Startup != nil {
		st, err := frame(raw.Startup, true)
		if err != nil {
			problems = append(problems, "startup: "+err.Error())
		}
		s.Startup = &st
	}
	for i := range raw.Steps {
		st, err := frame(&raw.Steps[i], false)
		if err != nil {
			problems = append(problems, fmt.Sprintf("step %d: %v", i, err))
			continue
		}
		s.Steps = append(s.Steps, st)
	}

	if len(problems) > 0 {
		return nil, &MalformedError{Problems: problems}
	}
	return s, nil
}

func frame(f *rawFrame, startup bool) (types.SessionStep, error) {
	st := types.SessionStep{Key: f.Key, Action: f.Action, Grid: f.Grid}
	if !startup && len(parser.ParseKey(f.Key)) == 0 {
		return st, fmt.Errorf("key %q names no key bytes", f.Key)
	}
	entries, err := rng.ParseTrace(f.Rng)
	if err != nil {
		return st, err
	}
	st.Rng = entries
	if f.Screen != nil {
		st.Screen = NormalizeScreen(f.Screen)
	}
	return st, nil
}

// NormalizeScreen right-trims every line and pads to the full screen height.
func NormalizeScreen(lines []string) []string {
	out := make([]string, types.ScreenRows)
	for i := 0; i < len(lines) && i < types.ScreenRows; i++ {
		out[i] = strings.TrimRight(lines[i], " ")
	}
	return out
}

// StartsAtStartup reports whether the first recorded step is really the
// pre-game pseudo-step some recorders write inline instead of as a
// separate startup block.
func StartsAtStartup(s *types.Session) bool {
	if s.Startup != nil || len(s.Steps) == 0 {
		return false
	}
	first := s.Steps[0]
	return strings.EqualFold(first.Action, "startup") || first.Key == "startup"
}

// HoistStartup moves an inline startup step into the Startup slot.
func HoistStartup(s *types.Session) {
	if !StartsAtStartup(s) {
		return
	}
	st := s.Steps[0]
	s.Startup = &st
	s.Steps = s.Steps[1:]
}
