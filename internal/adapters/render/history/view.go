package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/questionnaire/internal/domain"
)

const defaultPerPage = 10

type RenderOptions struct {
	// PerPage is the number of entries per page; zero means 10.
	PerPage int
}

func renderView(history domain.History, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Session History"),
		s.header.Render(headerLine(history)),
	}

	if len(history.Entries) == 0 {
		lines = append(lines, s.empty.Render("No saved session."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	pages := newPaginator(len(history.Entries), opts.PerPage)
	for page := 0; page < pages.TotalPages; page++ {
		pages.Page = page
		start, end := pages.GetSliceBounds(len(history.Entries))
		if pages.TotalPages > 1 {
			lines = append(lines, s.page.Render("page "+pages.View()))
		}
		for _, entry := range history.Entries[start:end] {
			lines = append(lines, renderEntry(history, entry, s))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func newPaginator(items, perPage int) paginator.Model {
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	pages := paginator.New()
	pages.Type = paginator.Arabic
	pages.PerPage = perPage
	pages.SetTotalPages(items)
	return pages
}

func renderEntry(history domain.History, entry domain.HistoryEntry, s styles) string {
	prompt := strings.TrimSpace(entry.PromptText)
	if prompt == "" {
		prompt = "(untitled prompt)"
	}

	answers := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.viewer.Render("you: "+formatAnswers(history.ViewerAnswers(entry))),
		"   ",
		s.partner.Render("partner: "+formatAnswers(history.PartnerAnswers(entry))),
	)

	return lipgloss.JoinVertical(lipgloss.Left, s.prompt.Render(prompt), s.section.Render(answers))
}

func headerLine(history domain.History) string {
	parts := []string{fmt.Sprintf("entries: %d", len(history.Entries)), "you played " + history.ViewerHalf().String()}
	if !history.SavedAt.IsZero() {
		parts = append([]string{"saved " + history.SavedAt.UTC().Format(time.DateTime) + " UTC"}, parts...)
	}
	return strings.Join(parts, " · ")
}

func formatAnswers(joined string) string {
	if joined == "" {
		return "-"
	}
	return strings.Join(strings.Split(joined, domain.HistorySeparator), ", ")
}
