// Package memorial assembles complete description documents from survey
// report files: the opening paragraphs, the classified area sections, the lot
// descriptions and the ideal fraction table.
package memorial

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/memorial/pkg/classify"
	"github.com/coolbeans/memorial/pkg/config"
	"github.com/coolbeans/memorial/pkg/report"
	"github.com/coolbeans/memorial/pkg/survey"
)

// Mode selects the kind of document to build.
type Mode string

const (
	// ModeLots describes a condominium or a subdivision: its areas, blocks
	// and lots. Project.Condominium picks between the two.
	ModeLots Mode = "lots"
	// ModeAreas describes only the named areas of civil reports.
	ModeAreas Mode = "areas"
	// ModeUnification describes parcels merged into one.
	ModeUnification Mode = "unification"
	// ModeDismemberment describes a tract split into glebes.
	ModeDismemberment Mode = "dismemberment"
	// ModeUnifyDismember describes a unification followed by a split.
	ModeUnifyDismember Mode = "unify-dismember"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeLots, ModeAreas, ModeUnification, ModeDismemberment, ModeUnifyDismember}

// ErrUnknownMode is returned for a mode name that is not in Modes.
var ErrUnknownMode = errors.New("unknown document mode")

// ParseMode reads a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownMode)
}

// Input is the raw content of one report file.
type Input struct {
	Name string
	Data []byte
}

// ParsedFile is a report file after parsing.
type ParsedFile struct {
	Name    string         `json:"name"`
	Dialect report.Dialect `json:"dialect"`
	// Block is the block label inferred from the file name. It is only
	// meaningful for lot reports.
	Block string `json:"block,omitempty"`
	// Civil is set for civil reports of named areas.
	Civil bool          `json:"civil"`
	Items []survey.Item `json:"items"`
}

// Engine builds documents for one project.
type Engine struct {
	project    config.Project
	classifier *classify.Classifier
	parser     *report.Parser
	logger     *zap.Logger
	newID      func() uuid.UUID
	workers    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClassifier replaces the built-in classification rules.
func WithClassifier(c *classify.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithIDGenerator sets the function that assigns document IDs.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithWorkers bounds how many files are parsed at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an engine for a project.
func New(project config.Project, opts ...Option) *Engine {
	e := &Engine{
		project:    project,
		classifier: classify.Default(),
		parser:     report.NewParser(),
		logger:     zap.NewNop(),
		newID:      uuid.New,
		workers:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Project returns the project the engine was built with.
func (e *Engine) Project() config.Project {
	return e.project
}

// Classifier returns the classifier used for area sections.
func (e *Engine) Classifier() *classify.Classifier {
	return e.classifier
}

// ParseFiles parses inputs concurrently. Results keep the input order. The
// first file that cannot be parsed cancels the rest.
func (e *Engine) ParseFiles(ctx context.Context, inputs []Input) ([]ParsedFile, error) {
	results := make([]ParsedFile, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pf, err := e.ParseFile(in)
			if err != nil {
				return err
			}
			results[i] = pf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ParseFile detects the dialect of one input and parses it.
func (e *Engine) ParseFile(in Input) (ParsedFile, error) {
	dialect, err := report.DetectDialect(in.Name, in.Data)
	if err != nil {
		return ParsedFile{}, err
	}
	items, err := e.parser.Parse(in.Data, dialect)
	if err != nil {
		return ParsedFile{}, fmt.Errorf("%s: %w", in.Name, err)
	}

	pf := ParsedFile{
		Name:    in.Name,
		Dialect: dialect,
		Civil:   report.IsCivilReport(in.Name),
		Items:   items,
	}
	if !pf.Civil {
		pf.Block = report.InferBlock(in.Name)
	}

	e.logger.Debug("parsed report",
		zap.String("file", in.Name),
		zap.String("dialect", string(dialect)),
		zap.Int("items", len(items)),
	)
	if len(items) == 0 {
		e.logger.Warn("report has no items", zap.String("file", in.Name))
	}
	return pf, nil
}

// Build parses inputs and assembles the document for mode.
func (e *Engine) Build(ctx context.Context, mode Mode, inputs []Input) (*Document, error) {
	files, err := e.ParseFiles(ctx, inputs)
	if err != nil {
		return nil, err
	}

	var doc *Document
	switch mode {
	case ModeLots:
		doc = e.LotsDocument(files)
	case ModeAreas:
		doc = e.AreasDocument(files)
	case ModeUnification, ModeDismemberment, ModeUnifyDismember:
		doc = e.UnificationDocument(files, mode)
	default:
		return nil, fmt.Errorf("%q: %w", mode, ErrUnknownMode)
	}

	e.logger.Info("built document",
		zap.String("id", doc.ID.String()),
		zap.String("mode", string(mode)),
		zap.Int("files", len(files)),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("placeholders", doc.Placeholders()),
	)
	return doc, nil
}

// IsReportFile reports whether a file name has a report extension.
func IsReportFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".htm", ".html":
		return true
	}
	return false
}

// ReadFiles reads paths into inputs named by their base names.
func ReadFiles(paths []string) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading report: %w", err)
		}
		inputs = append(inputs, Input{Name: filepath.Base(path), Data: data})
	}
	return inputs, nil
}

// ReadDir reads every report file directly inside dir, sorted by name.
func ReadDir(dir string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading report directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsReportFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return ReadFiles(paths)
}
