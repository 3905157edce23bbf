// Package importer decides whether an incoming OTM document creates a new
// remote project, updates an existing one, or is rejected as a conflict,
// then issues the chosen remote operation.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/otm-exchange/otmctl/internal/identity"
	"github.com/otm-exchange/otmctl/internal/layout"
	"github.com/otm-exchange/otmctl/internal/logger"
	"github.com/otm-exchange/otmctl/internal/platform"
	"github.com/otm-exchange/otmctl/internal/result"
	"github.com/otm-exchange/otmctl/internal/schema"
)

// Platform is the remote transport consumed by the engine.
type Platform interface {
	CreateProject(ctx context.Context, doc []byte) (*platform.ProjectInfo, error)
	UpdateProject(ctx context.Context, ref string, doc []byte) (*platform.ProjectInfo, error)
}

// ExistenceChecker answers whether a project with the exact OTM project id
// already exists, and if so under which remote UUID.
type ExistenceChecker interface {
	ExistsByID(ctx context.Context, id string) (exists bool, uuid string, err error)
}

// ErrNoIdentity is returned when no project id can be extracted from the
// document, so conflict resolution cannot proceed.
var ErrNoIdentity = errors.New("cannot determine project identity from document")

// NameConflictError means the remote has a project whose name collides with
// the document's but whose id does not match. Automatic update is refused
// so an unrelated project is not silently overwritten.
type NameConflictError struct {
	ProjectID string
	Remote    string // message from the platform's conflict response
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("name conflict for project %q: a remote project with a colliding name exists but its id does not match; rename the project or pass the existing id as the update target (%s)", e.ProjectID, e.Remote)
}

// ValidationFailedError carries the path-qualified schema errors.
type ValidationFailedError struct {
	Errors []string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("document failed validation:\n%s", strings.Join(e.Errors, "\n"))
}

// Options controls one import call.
type Options struct {
	// UpdateRef, when set, skips creation and updates this project id or
	// UUID directly.
	UpdateRef string
	// AutoUpdate resolves a creation conflict into an update when the
	// existence check confirms an exact id match.
	AutoUpdate bool
	// ResetLayout strips representations blocks before submission.
	ResetLayout bool
}

// DefaultOptions enables auto-update, the normal mode.
func DefaultOptions() Options {
	return Options{AutoUpdate: true}
}

// Engine orchestrates validator, identity extractor, and the remote
// collaborators. All collaborators are injected at construction; the engine
// holds no state across calls.
type Engine struct {
	platform  Platform
	checker   ExistenceChecker
	validator schema.Validator
	extractor identity.Extractor
	log       *slog.Logger
}

// New builds an engine. A nil validator skips validation (NoopValidator);
// a nil extractor defaults to the structured YAML extractor.
func New(p Platform, checker ExistenceChecker, v schema.Validator, e identity.Extractor) *Engine {
	if v == nil {
		v = schema.NoopValidator{}
	}
	if e == nil {
		e = identity.YAMLExtractor{}
	}
	return &Engine{platform: p, checker: checker, validator: v, extractor: e, log: logger.Default}
}

// ImportFile imports the document at path.
func (eng *Engine) ImportFile(ctx context.Context, path string, opts Options) (*result.ImportResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return eng.Import(ctx, src, opts)
}

// Import validates the document and reconciles it against remote state:
// explicit update target -> update by that ref; otherwise attempt creation
// and, on a remote conflict, either update by the looked-up UUID (exact id
// match, auto-update on) or reject as a name conflict.
func (eng *Engine) Import(ctx context.Context, src []byte, opts Options) (*result.ImportResult, error) {
	if opts.ResetLayout {
		src = layout.StripSource(src)
	}

	if rep := eng.validator.Validate(src); rep.Outcome == schema.OutcomeFailed {
		return nil, &ValidationFailedError{Errors: rep.Errors}
	} else if rep.Outcome == schema.OutcomeSkipped {
		eng.log.Debug("schema validation skipped")
	}

	if opts.UpdateRef != "" {
		info, err := eng.platform.UpdateProject(ctx, opts.UpdateRef, src)
		if err != nil {
			return nil, err
		}
		return &result.ImportResult{ID: info.ID, Name: info.Name, Action: result.ActionUpdated, UUID: info.UUID}, nil
	}

	info, err := eng.platform.CreateProject(ctx, src)
	if err == nil {
		return &result.ImportResult{ID: info.ID, Name: info.Name, Action: result.ActionCreated, UUID: info.UUID}, nil
	}
	var conflict *platform.ConflictError
	if !errors.As(err, &conflict) {
		return nil, err
	}
	return eng.resolveConflict(ctx, src, conflict, opts)
}

func (eng *Engine) resolveConflict(ctx context.Context, src []byte, conflict *platform.ConflictError, opts Options) (*result.ImportResult, error) {
	id, ok := eng.extractor.ProjectID(src)
	if !ok {
		return nil, ErrNoIdentity
	}

	if !opts.AutoUpdate {
		return nil, &NameConflictError{ProjectID: id, Remote: conflict.Message}
	}

	exists, remoteUUID, err := eng.checker.ExistsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("existence check for %q: %w", id, err)
	}
	if !exists {
		return nil, &NameConflictError{ProjectID: id, Remote: conflict.Message}
	}
	if _, err := uuid.Parse(remoteUUID); err != nil {
		return nil, fmt.Errorf("existence check for %q returned malformed uuid %q: %w", id, remoteUUID, err)
	}

	eng.log.Info("project exists, updating in place", "id", id, "uuid", remoteUUID)
	info, err := eng.platform.UpdateProject(ctx, remoteUUID, src)
	if err != nil {
		return nil, err
	}
	res := &result.ImportResult{ID: info.ID, Name: info.Name, Action: result.ActionUpdated, UUID: remoteUUID}
	if res.ID == "" {
		res.ID = id
	}
	return res, nil
}
