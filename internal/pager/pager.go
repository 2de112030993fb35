// Package pager shows the raw rows of a loaded table a page at a time.
package pager

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	"bikeshare/internal/infrastructure"
)

// MorePrompt asks whether to show the next page.
const MorePrompt = "\nWould you like to view next five rows of raw data? Enter Yes or No."

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Pager prints table rows in fixed-size pages.
type Pager struct {
	out     io.Writer
	confirm Confirmer
	size    int
	logger  *slog.Logger
}

// New creates a pager printing config.PageSize rows per page.
func New(out io.Writer, confirm Confirmer, logger *slog.Logger) *Pager {
	return &Pager{
		out:     out,
		confirm: confirm,
		size:    config.PageSize,
		logger:  infrastructure.WithComponent(logger, "pager"),
	}
}

// Show prints the first page, then one more page each time the user answers
// "yes". It returns when the user declines or input fails.
func (p *Pager) Show(t *dataset.Table) error {
	offset := 0
	for {
		// Past the end the page is simply empty
		header, rows := t.Page(offset, p.size)
		if len(rows) > 0 {
			if err := p.render(header, rows); err != nil {
				return err
			}
		}

		p.logger.Debug("Page shown",
			slog.Int("offset", offset),
			slog.Int("rows", len(rows)),
			slog.Int("total", t.Len()))

		more, err := p.confirm.Confirm(MorePrompt)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		offset += p.size
	}
}

func (p *Pager) render(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
