package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource string

// Load error codes.
const (
	ErrCodeRead   = "E101" // experiment file could not be read
	ErrCodeSyntax = "E102" // CUE did not compile
	ErrCodeSchema = "E103" // value does not satisfy #Experiment
	ErrCodeDecode = "E104" // concrete value could not be decoded
)

// LoadError reports a problem with an experiment file, with the CUE
// position when one is known.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads and decodes the experiment file at path.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse decodes experiment source. filename is used in error positions.
func Parse(filename string, src []byte) (*Experiment, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Experiment"))

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, loadError(ErrCodeSyntax, err, v)
	}

	u := def.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return nil, loadError(ErrCodeSchema, err, v)
	}

	var exp Experiment
	if err := u.Decode(&exp); err != nil {
		return nil, loadError(ErrCodeDecode, err, v)
	}
	if exp.Params == nil {
		exp.Params = map[string]float64{}
	}
	return &exp, nil
}

// loadError keeps the first CUE error and a position for it. Positions in
// the experiment file win over positions in the schema. Unification
// errors may carry none, so the offending field of src is used instead.
func loadError(code string, err error, src cue.Value) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}

	var fallback token.Pos
	for _, e := range errs {
		for _, pos := range cueerrors.Positions(e) {
			if pos.Filename() == srcFilename(src) {
				le.Pos = pos
				return le
			}
			if !fallback.IsValid() {
				fallback = pos
			}
		}
	}
	if path := first.Path(); len(path) > 0 {
		if pos := src.LookupPath(cue.ParsePath(strings.Join(path, "."))).Pos(); pos.IsValid() {
			le.Pos = pos
			return le
		}
	}
	le.Pos = fallback
	return le
}

// srcFilename is the file name src was compiled from, "" when unknown.
func srcFilename(src cue.Value) string {
	if pos := src.Pos(); pos.IsValid() {
		return pos.Filename()
	}
	return ""
}
