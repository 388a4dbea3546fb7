package patterns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// tierSchema constrains persisted tier documents: each category is either a
// bare phrase list (legacy shape) or a scored object.
const tierSchema = `{
  "type": "object",
  "properties": {
    "risks": {"$ref": "#/$defs/categories"},
    "good_points": {"$ref": "#/$defs/categories"}
  },
  "additionalProperties": false,
  "$defs": {
    "categories": {
      "type": "object",
      "additionalProperties": {
        "oneOf": [
          {"type": "array", "items": {"type": "string"}},
          {
            "type": "object",
            "required": ["patterns"],
            "properties": {
              "score": {"type": "integer", "minimum": 1, "maximum": 5},
              "patterns": {"type": "array", "items": {"type": "string"}}
            },
            "additionalProperties": false
          }
        ]
      }
    }
  }
}`

// FileTierRepository persists each tier as a JSON document on disk, the
// layout produced by earlier deployments (custom_patterns.json and
// pending_patterns.json). Missing files read as empty tiers. Writes go
// through a temp file and rename so a crashed write never truncates a tier.
type FileTierRepository struct {
	paths  map[Tier]string
	schema *jsonschema.Schema
}

// NewFileTierRepository creates a file-backed tier repository
func NewFileTierRepository(customPath, pendingPath string) (*FileTierRepository, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("tier.schema.json", strings.NewReader(tierSchema)); err != nil {
		return nil, fmt.Errorf("add tier schema: %w", err)
	}
	schema, err := compiler.Compile("tier.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile tier schema: %w", err)
	}

	return &FileTierRepository{
		paths: map[Tier]string{
			TierCustom:  customPath,
			TierPending: pendingPath,
		},
		schema: schema,
	}, nil
}

func (r *FileTierRepository) path(tier Tier) (string, error) {
	p, ok := r.paths[tier]
	if !ok {
		return "", fmt.Errorf("unknown tier %q", tier)
	}
	return p, nil
}

// Load reads and validates one tier document
func (r *FileTierRepository) Load(ctx context.Context, tier Tier) (*Document, error) {
	path, err := r.path(tier)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := r.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%s does not match tier schema: %w", path, err)
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// Save rewrites one tier document atomically
func (r *FileTierRepository) Save(ctx context.Context, tier Tier, doc *Document) error {
	path, err := r.path(tier)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s tier: %w", tier, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
