package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

const progressPrefix = "PROGRESS: "

// Progress writes line-oriented status events to a side stream, keeping
// stdout free for the final result.
type Progress struct {
	log     zerolog.Logger
	out     io.Writer
	withBar bool
	bar     *progressbar.ProgressBar
}

func newProgressLogger(out io.Writer) zerolog.Logger {
	w := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		PartsOrder: []string{zerolog.MessageFieldName},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%s%v", progressPrefix, i)
		},
	}
	return zerolog.New(w).Level(zerolog.InfoLevel)
}

// NewProgress reports to out. With withBar set, per-item events drive a
// progress bar instead of printing one line each.
func NewProgress(out io.Writer, withBar bool) *Progress {
	return &Progress{log: newProgressLogger(out), out: out, withBar: withBar}
}

// Logger is for events that carry structured fields beyond the message.
func (p *Progress) Logger() zerolog.Logger {
	return p.log
}

func (p *Progress) Info(msg string) {
	p.log.Info().Msg(msg)
}

func (p *Progress) Warn(msg string, err error) {
	p.log.Warn().Err(err).Msg(msg)
}

// StartItems begins a run over total inputs.
func (p *Progress) StartItems(total int, description string) {
	if !p.withBar {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// Item marks input i (1-based) of total as being processed.
func (p *Progress) Item(i, total int, name string) {
	if p.bar != nil {
		p.bar.Add(1)
		return
	}
	p.log.Info().Str("file", name).Msg(fmt.Sprintf("processing activity %d/%d ...", i, total))
}

func (p *Progress) FinishItems() {
	if p.bar == nil {
		return
	}
	if err := p.bar.Finish(); err != nil {
		p.log.Debug().Err(err).Msg("progress bar finish")
	}
	p.bar = nil
}
