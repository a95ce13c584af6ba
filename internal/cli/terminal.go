// Package cli is the terminal front end of an intake session.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/deepgram/intake/internal/services/intake"
	"github.com/deepgram/intake/pkg/logger"
)

const prompt = "You: "

// Prompter reads one line of user input per turn
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Prompt(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// Renderer prints assistant replies as terminal markdown
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
}

// NewRenderer builds a renderer; with no options it picks a style for the
// current terminal and wraps at 80 columns
func NewRenderer(out io.Writer, opts ...glamour.TermRendererOption) *Renderer {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		}
	}

	md, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		logger.Warn(logger.CHAT, "Markdown rendering unavailable, printing plain text: %v", err)
	}
	return &Renderer{out: out, markdown: md}
}

func (r *Renderer) Render(result *intake.TurnResult) {
	if result.Exchange != nil {
		fmt.Fprintf(r.out, "%s:\n%s\n", models.AssistantName, r.markdownOf(result.Exchange.Assistant.Content))
	}

	switch result.Status {
	case models.StatusComplete:
		switch {
		case result.Err != nil:
			fmt.Fprintf(r.out, "Intake complete, but the record could not be saved: %v\n", result.Err)
		case result.Record != nil:
			fmt.Fprintf(r.out, "Intake complete. Record saved for %s.\n", displayName(result.Record))
		default:
			fmt.Fprintln(r.out, "Intake complete.")
		}
	case models.StatusAborted:
		fmt.Fprintln(r.out, "Session ended. Nothing was saved.")
	default:
		if result.Err != nil && !result.Progress {
			fmt.Fprintf(r.out, "The assistant did not answer (%v). Please try again.\n", result.Err)
		}
	}
}

func (r *Renderer) markdownOf(content string) string {
	if r.markdown == nil {
		return content
	}
	rendered, err := r.markdown.Render(content)
	if err != nil {
		logger.Debug(logger.CHAT, "Falling back to plain text: %v", err)
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func displayName(record *models.ExtractedRecord) string {
	if record.Name == "" {
		return "this candidate"
	}
	return record.Name
}
