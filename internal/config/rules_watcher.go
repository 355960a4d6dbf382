package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/maretraitesuisse/simulator/internal/calculation"
	"github.com/maretraitesuisse/simulator/internal/domain"
)

// RulesReload reports the outcome of one reload triggered by a file change
type RulesReload struct {
	Rules domain.LegalRules
	Err   error
}

// RulesWatcher holds the active legal rule set and swaps it atomically when the
// override file changes. Readers take a snapshot per request.
type RulesWatcher struct {
	path    string
	parser  *InputParser
	logger  calculation.Logger
	current atomic.Pointer[domain.LegalRules]
}

// NewRulesWatcher loads the initial rule set. An empty path serves the built-in defaults.
func NewRulesWatcher(path string, parser *InputParser, logger calculation.Logger) (*RulesWatcher, error) {
	if parser == nil {
		parser = NewInputParser()
	}
	if logger == nil {
		logger = calculation.NopLogger{}
	}

	w := &RulesWatcher{path: path, parser: parser, logger: logger}
	if path == "" {
		rules := domain.DefaultLegalRules()
		w.current.Store(&rules)
		return w, nil
	}

	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Rules returns the active rule set
func (w *RulesWatcher) Rules() domain.LegalRules {
	return w.current.Load().Clone()
}

// Path returns the watched override file, empty when the defaults are served
func (w *RulesWatcher) Path() string {
	return w.path
}

// Store validates and activates a rule set
func (w *RulesWatcher) Store(rules domain.LegalRules) error {
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("rules validation failed: %w", err)
	}
	rules = rules.Clone()
	w.current.Store(&rules)
	return nil
}

// Reload re-reads the override file. On error the previous rule set stays active.
func (w *RulesWatcher) Reload() error {
	if w.path == "" {
		return nil
	}
	rules, err := w.parser.LoadRulesFromFile(w.path)
	if err != nil {
		return err
	}
	w.current.Store(&rules)
	w.logger.Infof("legal rules %d loaded from %s", rules.Year, w.path)
	return nil
}

// Watch monitors the override file until ctx is done. The directory is watched rather
// than the file so that editors replacing the file by rename are still seen.
// Reload outcomes are published on the returned channel; they are dropped when nobody reads.
func (w *RulesWatcher) Watch(ctx context.Context) (<-chan RulesReload, error) {
	if w.path == "" {
		return nil, fmt.Errorf("no rules file to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	target := filepath.Clean(w.path)
	reloads := make(chan RulesReload, 8)

	go func() {
		defer close(reloads)
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
					continue
				}

				result := RulesReload{Err: w.Reload()}
				if result.Err != nil {
					w.logger.Errorf("rules reload failed, keeping previous set: %v", result.Err)
				}
				result.Rules = w.Rules()

				select {
				case reloads <- result:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Warnf("rules watcher: %v", err)
			}
		}
	}()

	return reloads, nil
}
