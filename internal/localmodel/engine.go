// Package localmodel provides the locally resident fallback translation
// engine. Each direction loads a phrase lexicon from disk on first use and
// translates deterministically with greedy longest-match substitution.
package localmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"translator-go/internal/types"
	"translator-go/internal/utils"

	"github.com/sirupsen/logrus"
)

// ErrModelUnavailable is returned when the model artifact for a direction
// cannot be loaded. The condition is fatal for the request; the caller maps
// it to a generic service error.
var ErrModelUnavailable = errors.New("local translation model unavailable")

// modelFileName is the artifact expected under each direction subdirectory.
const modelFileName = "model.json"

// modelFile is the on-disk artifact layout. Phrases map lowercase source
// phrases to target text; longer phrases win over their prefixes.
type modelFile struct {
	Name    string            `json:"name"`
	Phrases map[string]string `json:"phrases"`
}

// directionModel is one loaded direction. Load happens at most once; a failed
// load is cached so subsequent requests fail fast instead of re-reading disk.
type directionModel struct {
	once    sync.Once
	loadErr error

	name string
	// phrases sorted by descending token length, then lexicographically,
	// so the greedy matcher always prefers the longest phrase.
	phrases []phrase
}

type phrase struct {
	tokens []string
	target string
}

// Engine owns the lazily loaded per-direction models. It is safe for
// concurrent use; concurrent first calls for a direction share one load.
type Engine struct {
	modelDir string
	models   map[types.Direction]*directionModel
}

// NewEngine creates the fallback engine. No model is loaded until the first
// translation request for its direction.
func NewEngine(cfg types.LocalModelConfig) *Engine {
	return &Engine{
		modelDir: cfg.ModelDir,
		models: map[types.Direction]*directionModel{
			types.DirectionENUR: {},
			types.DirectionUREN: {},
		},
	}
}

// Translate translates text with the direction's local model, loading it on
// first use. Returns ErrModelUnavailable when the artifact cannot be loaded.
func (e *Engine) Translate(text string, direction types.Direction) (string, error) {
	model, ok := e.models[direction]
	if !ok {
		return "", fmt.Errorf("%w: unsupported direction %q", ErrModelUnavailable, direction)
	}

	model.once.Do(func() {
		start := time.Now()
		model.loadErr = e.load(model, direction)
		if model.loadErr != nil {
			logrus.WithFields(logrus.Fields{
				"direction": direction,
				"error":     model.loadErr,
			}).Error("Failed to load local translation model")
			return
		}
		logrus.WithFields(logrus.Fields{
			"direction": direction,
			"model":     model.name,
			"phrases":   len(model.phrases),
			"duration":  time.Since(start),
		}).Info("Local translation model loaded")
	})
	if model.loadErr != nil {
		return "", fmt.Errorf("%w: %s", ErrModelUnavailable, model.loadErr)
	}

	return model.translate(utils.NormalizeText(text)), nil
}

// load reads and indexes the direction's model artifact.
func (e *Engine) load(model *directionModel, direction types.Direction) error {
	path := filepath.Join(e.modelDir, string(direction), modelFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if len(file.Phrases) == 0 {
		return fmt.Errorf("model %s contains no phrases", path)
	}

	phrases := make([]phrase, 0, len(file.Phrases))
	for source, target := range file.Phrases {
		tokens := strings.Fields(strings.ToLower(source))
		if len(tokens) == 0 || target == "" {
			continue
		}
		phrases = append(phrases, phrase{tokens: tokens, target: target})
	}
	if len(phrases) == 0 {
		return fmt.Errorf("model %s contains no usable phrases", path)
	}

	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i].tokens) != len(phrases[j].tokens) {
			return len(phrases[i].tokens) > len(phrases[j].tokens)
		}
		return strings.Join(phrases[i].tokens, " ") < strings.Join(phrases[j].tokens, " ")
	})

	model.name = file.Name
	model.phrases = phrases
	return nil
}

// translate runs greedy longest-phrase substitution over the input tokens.
// Tokens no phrase covers pass through unchanged, so partial lexicons still
// produce usable output.
func (m *directionModel) translate(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return ""
	}

	lowered := make([]string, len(tokens))
	for i, token := range tokens {
		lowered[i] = strings.ToLower(strings.Trim(token, ".,!?;:\"'()[]"))
	}

	var out []string
	for i := 0; i < len(tokens); {
		matched := false
		for _, p := range m.phrases {
			if matchAt(lowered, i, p.tokens) {
				out = append(out, p.target)
				i += len(p.tokens)
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return strings.Join(out, " ")
}

// matchAt reports whether the phrase tokens occur at position i.
func matchAt(tokens []string, i int, phraseTokens []string) bool {
	if i+len(phraseTokens) > len(tokens) {
		return false
	}
	for j, pt := range phraseTokens {
		if tokens[i+j] != pt {
			return false
		}
	}
	return true
}
