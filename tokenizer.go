package main

import (
	"fmt"
	"strings"
	"sync"

	_ "github.com/jadenpxrk/tc/internal/tokenizerenv"
	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"go.uber.org/zap"
)

// Tokenizer counts the tokens in a piece of text. Implementations are created once per run
// and shared by every worker.
type Tokenizer interface {
	CountTokens(text string) (int, error)
	Close()
}

// TokenizerOptions selects and configures the tokenizer backend.
type TokenizerOptions struct {
	Type  string // tiktoken, huggingface or estimate
	Model string
	File  string // local tokenizer.json, huggingface only
}

// --- Tiktoken Wrapper ---

type tiktokenCounter struct {
	ttk *tiktoken.Tiktoken
}

func (c *tiktokenCounter) CountTokens(text string) (int, error) {
	return len(c.ttk.EncodeOrdinary(text)), nil
}

func (c *tiktokenCounter) Close() {}

// --- HuggingFace (sugarme) Wrapper ---

// hfCounter serialises calls; the sugarme models keep internal caches that are not
// documented as safe for concurrent use.
type hfCounter struct {
	mu  sync.Mutex
	htk *hf.Tokenizer
}

func (c *hfCounter) CountTokens(text string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	en, err := c.htk.EncodeSingle(text, false)
	if err != nil {
		return 0, err
	}
	return len(en.Tokens), nil
}

func (c *hfCounter) Close() {}

// --- Estimator ---

// estimateCounter approximates one token per four bytes. It needs no model data.
type estimateCounter struct{}

func (estimateCounter) CountTokens(text string) (int, error) {
	if len(text) == 0 {
		return 0, nil
	}
	return (len(text) + 3) / 4, nil
}

func (estimateCounter) Close() {}

// --- Tokenizer Loading Logic ---

const defaultTiktokenEncoding = "cl100k_base"
const defaultHFModel = "gpt2"

// newTokenizer builds the backend named in opts. An unknown backend or model is an error;
// there is no fallback, since counts from a different model would be silently wrong.
func newTokenizer(opts TokenizerOptions, logger *zap.Logger) (Tokenizer, error) {
	logger.Debug("initializing tokenizer",
		zap.String("type", opts.Type),
		zap.String("model", opts.Model),
		zap.String("file", opts.File))

	switch strings.ToLower(opts.Type) {
	case "", "tiktoken":
		return loadTiktoken(opts.Model)
	case "huggingface", "hf":
		return loadHuggingFace(opts, logger)
	case "estimate":
		return estimateCounter{}, nil
	default:
		return nil, fmt.Errorf("unsupported tokenizer type: %s. Use 'tiktoken', 'huggingface' or 'estimate'", opts.Type)
	}
}

// loadTiktoken accepts either a model name (gpt-4o) or an encoding name (cl100k_base).
func loadTiktoken(model string) (Tokenizer, error) {
	if model == "" {
		model = defaultTiktokenEncoding
	}
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		var encErr error
		tke, encErr = tiktoken.GetEncoding(model)
		if encErr != nil {
			return nil, fmt.Errorf("unknown tiktoken model or encoding %q: %w", model, err)
		}
	}
	return &tiktokenCounter{ttk: tke}, nil
}

func loadHuggingFace(opts TokenizerOptions, logger *zap.Logger) (Tokenizer, error) {
	if opts.File != "" {
		logger.Debug("loading huggingface tokenizer from file", zap.String("file", opts.File))
		ttk, err := pretrained.FromFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", opts.File, err)
		}
		return &hfCounter{htk: ttk}, nil
	}

	model := opts.Model
	if model == "" {
		model = defaultHFModel
	}
	logger.Debug("resolving huggingface tokenizer (may download)", zap.String("model", model))

	configFilePath, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache path for model %s: %w", model, err)
	}
	ttk, err := pretrained.FromFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pretrained tokenizer for model %s (from %s): %w", model, configFilePath, err)
	}
	return &hfCounter{htk: ttk}, nil
}
