// Package publish commits drafts to the remote repository as Markdown files.
package publish

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/gateway"
	"github.com/debemdeboas/the-drafts/internal/model"
)

var publishLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	publishLogger = l
}

var ErrNotConfigured = errors.New(config.ErrNotConfigured)

// Gateway is the part of the contents API the workflow writes through.
type Gateway interface {
	PutFile(ctx context.Context, req gateway.PutFileRequest) (gateway.PutFileResult, error)
	FileSHA(ctx context.Context, path, ref string) (string, error)
}

// Recorder receives publish counters. *metrics.Collector implements it.
type Recorder interface {
	RecordResult(ok bool)
	RecordConflictRetry()
	RecordBatch(status int)
}

type nopRecorder struct{}

func (nopRecorder) RecordResult(bool)    {}
func (nopRecorder) RecordConflictRetry() {}
func (nopRecorder) RecordBatch(int)      {}

type Workflow struct {
	gw      Gateway
	cfg     config.GitHubConfig
	now     func() time.Time
	metrics Recorder
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

func WithMetrics(r Recorder) Option {
	return func(w *Workflow) {
		if r != nil {
			w.metrics = r
		}
	}
}

func NewWorkflow(gw Gateway, cfg config.GitHubConfig, opts ...Option) *Workflow {
	w := &Workflow{
		gw:      gw,
		cfg:     cfg,
		now:     time.Now,
		metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready reports whether the workflow has the credentials it needs.
func (w *Workflow) Ready() bool {
	return w.gw != nil && w.cfg.PublishReady()
}

// Publish commits every draft in order and returns one result per draft.
// Individual failures are recorded in the report and never stop the batch.
func (w *Workflow) Publish(ctx context.Context, drafts []model.Draft) (model.Report, error) {
	if !w.Ready() {
		return model.Report{}, ErrNotConfigured
	}

	report := model.NewReport(len(drafts))
	for _, d := range drafts {
		res := w.publishOne(ctx, d)
		w.metrics.RecordResult(res.OK())
		report.Results = append(report.Results, res)
	}

	logFor(ctx).Info().
		Int("drafts", len(drafts)).
		Int("failed", report.Failed()).
		Msg("Publish finished")

	return report, nil
}

func (w *Workflow) publishOne(ctx context.Context, d model.Draft) model.PublishResult {
	log := logFor(ctx)
	path := w.cfg.TargetPath + "/" + Filename(d.Title, w.now())

	attempt := func(ctx context.Context, sha string) (gateway.PutFileResult, error) {
		return w.gw.PutFile(ctx, gateway.PutFileRequest{
			Path:    path,
			Message: CommitMessage(d.Title),
			Content: []byte(ComposeContent(d.Title, d.Body)),
			Branch:  w.cfg.Branch,
			SHA:     sha,
		})
	}

	precondition := func(ctx context.Context) (string, error) {
		sha, err := w.gw.FileSHA(ctx, path, w.cfg.Branch)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Could not read existing file sha")
			return "", err
		}
		w.metrics.RecordConflictRetry()
		log.Info().Str("path", path).Msg("Path exists, retrying with sha")
		return sha, nil
	}

	res, err := WithConflictRetry(ctx, attempt, gateway.IsConflict, precondition)
	if err != nil {
		failure := failureFrom(err)
		log.Error().
			Err(err).
			Str("draft", d.Title).
			Str("path", path).
			Int("status", failure.Status).
			Msg("Draft publish failed")
		return model.PublishResult{Draft: d.Title, Outcome: failure}
	}

	log.Info().
		Str("draft", d.Title).
		Str("path", res.Path).
		Str("commit", res.Commit).
		Msg("Draft published")

	return model.PublishResult{
		Draft:   d.Title,
		Outcome: model.Success{Path: res.Path, Commit: res.Commit},
	}
}

func failureFrom(err error) model.Failure {
	var ge *gateway.Error
	if errors.As(err, &ge) {
		msg := ge.Message
		if msg == "" {
			msg = config.ErrUnknownGateway
		}
		return model.Failure{Status: ge.Status, Message: msg, DocumentationURL: ge.DocumentationURL}
	}
	return model.Failure{Message: err.Error()}
}

// logFor prefers the request scoped logger carried by ctx.
func logFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &publishLogger
}
