// Package session drives the interactive explore loop: collect a selection,
// load it, report on it, optionally page the raw rows, and offer a restart.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/pager"
	"bikeshare/internal/prompt"
	"bikeshare/internal/stats"
)

// Questions asked after the statistics
const (
	RawDataQuestion = "\nWould you like to view first five rows of raw data? Enter yes or no."
	RestartQuestion = "\nWould you like to restart? Enter Yes or No."
)

// State is a step of the session loop.
type State string

const (
	StateInit       State = "init"
	StateCollect    State = "collect_input"
	StateLoad       State = "load"
	StateReport     State = "report"
	StateRawPrompt  State = "raw_data_prompt"
	StateRawPage    State = "raw_data_page"
	StateRestart    State = "restart_prompt"
	StateTerminated State = "terminated"
)

// Loader resolves a selection to its filtered table.
type Loader interface {
	Load(ctx context.Context, sel config.Selection) (*dataset.Table, error)
}

// Exporter persists a finished report.
type Exporter interface {
	Export(ctx context.Context, report *stats.Report) ([]string, error)
}

// Options wires a Session. Exporter and Telemetry are optional.
type Options struct {
	In        io.Reader
	Out       io.Writer
	Loader    Loader
	Exporter  Exporter
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
}

// Session runs the explore loop on one input and output stream.
type Session struct {
	prompter *prompt.Prompter
	loader   Loader
	reporter *stats.Reporter
	pager    *pager.Pager
	exporter Exporter
	logger   *slog.Logger
	tel      *infrastructure.Telemetry

	state      State
	iterations int
}

// New creates a session in StateInit.
func New(opts Options) *Session {
	tel := opts.Telemetry
	if tel == nil {
		tel = infrastructure.NoopTelemetry()
	}
	prompter := prompt.New(opts.In, opts.Out, opts.Logger)
	return &Session{
		prompter: prompter,
		loader:   opts.Loader,
		reporter: stats.NewReporter(opts.Out, opts.Logger, tel),
		pager:    pager.New(opts.Out, prompter, opts.Logger),
		exporter: opts.Exporter,
		logger:   infrastructure.WithComponent(opts.Logger, "session"),
		tel:      tel,
		state:    StateInit,
	}
}

// State returns the current step.
func (s *Session) State() State {
	return s.state
}

// Iterations returns how many selections have been reported on.
func (s *Session) Iterations() int {
	return s.iterations
}

// Run loops until the user declines to restart, or input ends at the restart
// prompt, and then returns nil. Any other failure ends the loop with an error.
func (s *Session) Run(ctx context.Context) error {
	for {
		restart, err := s.iterate(infrastructure.ContextWithTraceID(ctx))
		if err != nil {
			s.transition(ctx, StateTerminated)
			return err
		}
		if !restart {
			s.transition(ctx, StateTerminated)
			return nil
		}
	}
}

// iterate runs one pass from input collection to the restart prompt.
func (s *Session) iterate(ctx context.Context) (restart bool, err error) {
	ctx, span := s.tel.StartSpan(ctx, "session.iteration",
		attribute.String("trace_id", infrastructure.GetTraceID(ctx)))
	defer func() { infrastructure.EndSpan(span, err) }()

	s.transition(ctx, StateCollect)
	sel, err := s.prompter.CollectSelection()
	if err != nil {
		return false, err
	}

	s.transition(ctx, StateLoad)
	table, err := s.loader.Load(ctx, sel)
	if err != nil {
		return false, err
	}

	s.transition(ctx, StateReport)
	report, err := s.reporter.Run(ctx, table)
	if err != nil {
		return false, err
	}
	s.iterations++
	s.tel.Metrics.Sessions.Add(ctx, 1)

	if s.exporter != nil {
		// Export failures are logged but never end the session
		if _, err := s.exporter.Export(ctx, report); err != nil {
			infrastructure.WithError(s.logger, err).ErrorContext(ctx, "Failed to export statistics",
				slog.String("selection", sel.String()))
		}
	}

	s.transition(ctx, StateRawPrompt)
	view, err := s.prompter.Confirm(RawDataQuestion)
	if err != nil {
		return false, err
	}
	if view {
		s.transition(ctx, StateRawPage)
		if err := s.pager.Show(table); err != nil {
			return false, err
		}
	}

	s.transition(ctx, StateRestart)
	restart, err = s.prompter.Confirm(RestartQuestion)
	if errors.Is(err, io.EOF) && apperrors.IsType(err, apperrors.ErrTypeInput) {
		s.logger.InfoContext(ctx, "Input closed at restart prompt")
		return false, nil
	}
	return restart, err
}

func (s *Session) transition(ctx context.Context, next State) {
	s.logger.DebugContext(ctx, "Session state changed",
		slog.String("from", string(s.state)),
		slog.String("to", string(next)))
	s.state = next
}
