package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/riposte/internal/combat"
)

//go:embed schema.cue
var schemaSource string

// Error codes for profile loading.
const (
	ErrCodeNotFound = "PROFILE_NOT_FOUND"
	ErrCodeParse    = "PROFILE_PARSE"
	ErrCodeSchema   = "PROFILE_SCHEMA"
)

// ProfileError is a load-time failure with a stable code callers can
// branch on.
type ProfileError struct {
	Code    string
	Path    string
	Message string
}

func (e *ProfileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSchemaError reports whether err is a schema validation failure.
// Uses errors.As to handle wrapped errors.
func IsSchemaError(err error) bool {
	var pe *ProfileError
	return errors.As(err, &pe) && pe.Code == ErrCodeSchema
}

// profileFile is the on-disk YAML shape. Job keys stay strings here: the
// schema quotes them, and yaml.v3 will not coerce a !!str key into an
// integer map key.
type profileFile struct {
	Jobs map[string]JobConfig `yaml:"jobs"`
}

// Load reads, validates, and parses a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ProfileError{Code: ErrCodeNotFound, Path: path, Message: "profile not found"}
		}
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		var pe *ProfileError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return p, nil
}

// Parse validates profile YAML against the embedded CUE schema and builds
// a Profile. The loaded profile starts at version 1.
func Parse(data []byte) (*Profile, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ProfileError{Code: ErrCodeParse, Message: err.Error()}
	}

	p := Default()
	for key, jc := range file.Jobs {
		job, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return nil, &ProfileError{Code: ErrCodeParse, Message: fmt.Sprintf("job key %q: %v", key, err)}
		}
		if jc.Rules != nil {
			normalized := make(map[string]bool, len(jc.Rules))
			for label, enabled := range jc.Rules {
				normalized[norm.NFC.String(label)] = enabled
			}
			jc.Rules = normalized
		}
		p.jobs[combat.JobID(job)] = jc
	}
	return p, nil
}

// validateSchema unifies the YAML document with #Profile. CUE reports
// structural mismatches (unknown keys, wrong value types) that yaml.v3
// would silently drop.
func validateSchema(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile embedded schema: %w", err)
	}
	profileDef := schema.LookupPath(cue.ParsePath("#Profile"))
	if err := profileDef.Err(); err != nil {
		return fmt.Errorf("lookup #Profile: %w", err)
	}

	file, err := cueyaml.Extract("profile.yaml", data)
	if err != nil {
		return &ProfileError{Code: ErrCodeParse, Message: err.Error()}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &ProfileError{Code: ErrCodeParse, Message: err.Error()}
	}

	unified := profileDef.Unify(doc)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return &ProfileError{Code: ErrCodeSchema, Message: err.Error()}
	}
	return nil
}
