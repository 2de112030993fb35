package prompt

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
)

// Prompt wording shown to the user
const (
	Greeting = "Hello!! Time to explore some bikeshare data!!"

	CityQuestion = "Which city data do you want to examine: Washington, Chicago, or New York City?"
	CityRetry    = "The city you have entered is not recognized. Please enter: Washington, Chicago, or New York City: "

	MonthQuestion = "Which month data would you like to see? We have data from January to June. If you would like to see all months, enter ALL: "
	MonthRetry    = "This is not a valid month. Please enter a month from January to June: "

	DayQuestion = "Which day of the week would you like to view? If you would like to see all days, please enter ALL: "
	DayRetry    = "This is not a valid day. Please try again: "
)

// MaxAnswerLength caps how much of one input line is kept. A longer line is
// read to its end and discarded, which makes it an invalid answer.
const MaxAnswerLength = 4096

// Validator decides whether a normalized answer is acceptable.
type Validator func(answer string) bool

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

// New creates a Prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer, logger *slog.Logger) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
		logger: infrastructure.WithComponent(logger, "prompt"),
	}
}

// Ask prints question and keeps re-prompting with retry until valid accepts
// the lowercased, trimmed answer. There is no retry limit; only the end of
// input stops it, reported as an INPUT error wrapping io.EOF.
func (p *Prompter) Ask(question, retry string, valid Validator) (string, error) {
	p.print(question)
	for {
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if valid(answer) {
			return answer, nil
		}
		p.logger.Debug("Rejected input", slog.String("answer", answer))
		p.print(retry)
	}
}

// Confirm prints question and reports whether the answer is "yes".
func (p *Prompter) Confirm(question string) (bool, error) {
	p.print(question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

// Println writes a line to the prompt output.
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// CollectSelection greets the user and asks for city, month and day.
func (p *Prompter) CollectSelection() (config.Selection, error) {
	p.Println(Greeting)

	city, err := p.Ask(CityQuestion, CityRetry, config.IsCity)
	if err != nil {
		return config.Selection{}, err
	}
	month, err := p.Ask(MonthQuestion, MonthRetry, config.IsMonth)
	if err != nil {
		return config.Selection{}, err
	}
	day, err := p.Ask(DayQuestion, DayRetry, config.IsDay)
	if err != nil {
		return config.Selection{}, err
	}

	p.Println(config.Separator())

	sel := config.NewSelection(city, month, day)
	if err := sel.Validate(); err != nil {
		return config.Selection{}, apperrors.NewInputError("selection rejected", err)
	}
	p.logger.Info("Selection collected",
		slog.String("city", sel.City),
		slog.String("month", sel.Month),
		slog.String("day", sel.Day))
	return sel, nil
}

func (p *Prompter) print(text string) {
	if strings.HasSuffix(text, " ") {
		fmt.Fprint(p.out, text)
		return
	}
	fmt.Fprintln(p.out, text)
}

func (p *Prompter) readLine() (string, error) {
	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := p.reader.ReadLine()
		if err != nil {
			return "", apperrors.NewInputError("input closed", err)
		}
		if len(line)+len(chunk) > MaxAnswerLength {
			tooLong = true
			line = nil
		} else if !tooLong {
			line = append(line, chunk...)
		}
		if !isPrefix {
			break
		}
	}

	if tooLong {
		p.logger.Warn("Discarded over-long input", slog.Int("max_length", MaxAnswerLength))
		return "", nil
	}
	return config.Normalize(string(line)), nil
}
