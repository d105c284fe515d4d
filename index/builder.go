// Package index builds knowledge maps: it samples every document of a
// directory, asks a model for a description and key concepts and falls back
// to deterministic heuristics when the model fails.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/fs"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents analyzed in parallel.
const DefaultConcurrency = 2

// Builder creates knowledge maps.
type Builder struct {
	Reader    locallm.DocumentReader
	Model     locallm.Model
	Maps      locallm.KnowledgeMapService
	ModelName string

	// Filename of the knowledge map, excluded from discovery.
	Filename string

	// Locks returns the guard for a directory. Rebuild runs unguarded when nil.
	Locks func(dir string) locallm.Locker

	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Result holds the outcome of a build.
type Result struct {
	Indexed   int
	Skipped   int
	Fallbacks int
	Warnings  []string
}

// ProgressEvent reports progress during a build.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressIndexed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting build progress.
type ProgressFunc func(event ProgressEvent)

// fileResult holds the outcome of analyzing a single document.
type fileResult struct {
	position int
	path     string
	entry    *locallm.KnowledgeMapEntry
	fallback bool
	warnings []string
	err      error
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Build indexes every supported document under dir and saves the map.
// Unreadable or empty documents are skipped with a warning. The map is not
// saved when ctx is cancelled.
func (b *Builder) Build(ctx context.Context, dir string, mode locallm.BuildMode, progress ProgressFunc) (*locallm.KnowledgeMap, *Result, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	filename := b.Filename
	if filename == "" {
		filename = locallm.DefaultKnowledgeMapFilename
	}
	paths, err := fs.Discover(root, filename)
	if err != nil {
		return nil, nil, fmt.Errorf("discovering documents: %w", err)
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(paths)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan fileResult, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, path := range paths {
			g.Go(func() error {
				resultCh <- b.processFile(gctx, root, i, path, mode)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in discovery order.
	results := make([]fileResult, total)
	var completed atomic.Int64
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressIndexed,
			Completed: int(completed.Load()),
			Total:     total,
			Path:      result.path,
		}
		if result.err != nil {
			event.Type = ProgressSkipped
			event.Error = result.err
		}
		progress(event)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	m := &locallm.KnowledgeMap{
		Version:   locallm.KnowledgeMapVersion,
		Directory: root,
		Documents: []*locallm.KnowledgeMapEntry{},
	}
	res := &Result{}
	for _, result := range results {
		res.Warnings = append(res.Warnings, result.warnings...)
		if result.err != nil {
			res.Skipped++
			continue
		}
		if result.fallback {
			res.Fallbacks++
		}
		result.entry.ID = locallm.EntryID(len(m.Documents))
		m.Documents = append(m.Documents, result.entry)
	}
	m.TotalDocuments = len(m.Documents)
	res.Indexed = m.TotalDocuments

	if err := b.Maps.SaveKnowledgeMap(ctx, m); err != nil {
		return nil, nil, fmt.Errorf("saving knowledge map: %w", err)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return m, res, nil
}

// processFile reads and analyzes a single document.
func (b *Builder) processFile(ctx context.Context, root string, position int, path string, mode locallm.BuildMode) fileResult {
	result := fileResult{position: position, path: path}
	name := filepath.Base(path)

	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	content, err := b.Reader.ReadDocument(ctx, path)
	if err != nil {
		result.err = err
		result.warnings = append(result.warnings, fmt.Sprintf("skipped (read error): %s: %s", name, locallm.ErrorMessage(err)))
		b.logger().Warn("skipping document", "path", path, "err", err)
		return result
	}
	if strings.TrimSpace(content) == "" {
		result.err = locallm.Errorf(locallm.EINVALID, "empty document: %s", name)
		result.warnings = append(result.warnings, "skipped (empty file): "+name)
		b.logger().Warn("skipping empty document", "path", path)
		return result
	}

	info, err := os.Stat(path)
	if err != nil {
		result.err = err
		result.warnings = append(result.warnings, fmt.Sprintf("skipped (stat error): %s: %s", name, err))
		return result
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = name
	}
	title := locallm.Title(path)
	fileType := locallm.FileType(path)
	upperType := strings.ToUpper(fileType)

	var description string
	var concepts []string
	var fellBack bool
	if mode == locallm.BuildModeFast {
		description, concepts, fellBack, err = b.analyzeFast(ctx, title, upperType, path, content)
	} else {
		description, concepts, fellBack, err = b.analyzeFull(ctx, title, name, upperType, content)
	}
	if err != nil {
		result.err = err
		return result
	}
	if fellBack {
		result.warnings = append(result.warnings, "used fallback analysis: "+name)
	}

	if len(concepts) == 0 {
		concepts = FilenameConcepts(title, upperType)
		result.warnings = append(result.warnings, "using filename as keywords: "+name)
	}

	result.fallback = fellBack
	result.entry = &locallm.KnowledgeMapEntry{
		Title:       title,
		Path:        filepath.ToSlash(rel),
		FileType:    fileType,
		SizeKB:      math.Round(float64(info.Size())/1024*100) / 100,
		Description: description,
		KeyConcepts: concepts,
		LastUpdated: locallm.EpochSeconds(info.ModTime()),
	}
	return result
}

// analyzeFull asks the model to read a large sample of the document. Any
// failure, or a description under 100 runes, selects the fallback.
func (b *Builder) analyzeFull(ctx context.Context, title, name, fileType, content string) (string, []string, bool, error) {
	sample := SampleFull(content)

	response, err := b.generate(ctx, locallm.GenerateRequest{
		Model:  b.ModelName,
		Prompt: fullPrompt(name, fileType, sample),
		Options: locallm.ModelOptions{
			Temperature: temperature,
			NumPredict:  fullNumPredict,
			NumCtx:      fullNumCtx,
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, false, ctx.Err()
		}
		b.logger().Warn("model analysis failed, using fallback", "title", title, "err", err)
		description, concepts := Fallback(title, sample, fileType)
		return description, concepts, true, nil
	}

	analysis, err := ParseAnalysis(response)
	if err != nil || runeLen(analysis.Description) < minFullDescription {
		b.logger().Warn("unusable model analysis, using fallback", "title", title, "err", err)
		description, concepts := Fallback(title, sample, fileType)
		return description, concepts, true, nil
	}
	return analysis.Description, FilterConcepts(analysis.KeyConcepts), false, nil
}

// analyzeFast asks the model to summarize only an abstract or table of
// contents. Markdown documents without either use their heading outline;
// anything shorter than 100 runes is replaced by the leading text.
func (b *Builder) analyzeFast(ctx context.Context, title, fileType, path, content string) (string, []string, bool, error) {
	sample := SampleFast(content)

	block := ExtractTOCOrAbstract(sample, extractLimit)
	if block == "" && isMarkdown(path) {
		block = ExtractOutline(content, extractLimit)
	}
	if runeLen(block) < minFastBlock {
		block = truncate(sample, extractLimit)
	}

	response, err := b.generate(ctx, locallm.GenerateRequest{
		Model:  b.ModelName,
		Prompt: fastPrompt(title, fileType, block),
		Options: locallm.ModelOptions{
			Temperature: temperature,
			NumPredict:  fastNumPredict,
			NumCtx:      fastNumCtx,
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, false, ctx.Err()
		}
		b.logger().Warn("model analysis failed, using fallback", "title", title, "err", err)
		description, concepts := Fallback(title, sample, fileType)
		return description, concepts, true, nil
	}

	analysis, err := ParseAnalysis(response)
	if err != nil {
		b.logger().Warn("unusable model analysis, using fallback", "title", title, "err", err)
		description, concepts := Fallback(title, sample, fileType)
		return description, concepts, true, nil
	}

	description := analysis.Description
	if description == "" {
		description = "Document: " + title
	}
	return description, FilterConcepts(analysis.KeyConcepts), false, nil
}

func (b *Builder) generate(ctx context.Context, req locallm.GenerateRequest) (string, error) {
	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	generate := func(ctx context.Context) (string, error) {
		return b.Model.Generate(ctx, req)
	}
	onRetry := func(attempt int, err error) {
		b.logger().Debug("retrying model call", "attempt", attempt, "err", err)
	}
	return GenerateWithRetry(ctx, generate, onRetry, delays)
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
