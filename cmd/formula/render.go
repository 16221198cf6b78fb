// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"nickandperla.net/formula/internal/eval"
	"nickandperla.net/formula/internal/provider"
	"nickandperla.net/formula/internal/token"
	"nickandperla.net/formula/pkg/formula"
)

const (
	prompt       = "ƒ "
	cursorMarker = "│"
)

type styles struct {
	number   lipgloss.Style
	operator lipgloss.Style
	tag      lipgloss.Style
	option   lipgloss.Style
	pending  lipgloss.Style
	cursor   lipgloss.Style
	result   lipgloss.Style
	invalid  lipgloss.Style
	dim      lipgloss.Style
	selected lipgloss.Style
}

// newStyles builds styles for w. Writers that are not terminals get plain text.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		number:   r.NewStyle().Foreground(lipgloss.Color("252")),
		operator: r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		tag:      r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		option:   r.NewStyle().Foreground(lipgloss.Color("244")),
		pending:  r.NewStyle().Underline(true),
		cursor:   r.NewStyle().Foreground(lipgloss.Color("205")),
		result:   r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		invalid:  r.NewStyle().Foreground(lipgloss.Color("196")),
		dim:      r.NewStyle().Foreground(lipgloss.Color("240")),
		selected: r.NewStyle().Reverse(true),
	}
}

func (st styles) token(tok token.Token) string {
	switch t := tok.(type) {
	case token.Tag:
		out := st.tag.Render(t.Name)
		if t.Option != "" {
			out += st.option.Render("[" + t.Option + "]")
		}
		return out
	case token.Operator:
		return st.operator.Render(t.Symbol)
	default:
		return st.number.Render(tok.String())
	}
}

// formula renders the tokens with the pending text and cursor marker at the
// cursor. col is the display width up to the end of the pending text.
func (st styles) formula(state formula.State, pending string) (line string, col int) {
	var before, after []string
	for i, tok := range state.Tokens {
		if i < state.Cursor {
			before = append(before, st.token(tok))
		} else {
			after = append(after, st.token(tok))
		}
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString(strings.Join(before, " "))
	if len(before) > 0 {
		sb.WriteByte(' ')
	}
	if pending != "" {
		sb.WriteString(st.pending.Render(pending))
	}
	col = lipgloss.Width(sb.String())
	sb.WriteString(st.cursor.Render(cursorMarker))
	if len(after) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(after, " "))
	}
	return sb.String(), col
}

func (st styles) resultLine(r eval.Result) string {
	if !r.OK() {
		return st.invalid.Render("= " + r.String())
	}
	return st.result.Render("= " + r.String())
}

// suggestions renders the dropdown on one line, highlighting selected.
func (st styles) suggestions(items []provider.Suggestion, selected int) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, it := range items {
		label := it.Name
		if i == selected {
			label = st.selected.Render(label)
		}
		if it.Category != "" {
			label += " " + st.dim.Render("("+it.Category+")")
		}
		parts[i] = label
	}
	return strings.Join(parts, st.dim.Render(" · "))
}

// writeSuggestions prints items as a table.
func writeSuggestions(w io.Writer, items []provider.Suggestion) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "VALUE")
	for _, it := range items {
		t.Row(it.ID, it.Name, it.Category, it.Value.String())
	}
	io.WriteString(w, t.String()+"\n")
}
