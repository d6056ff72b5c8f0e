package ui

import (
	"fmt"
	"time"
)

// renderHeader renders the status bar: logo, API connectivity, endpoint and
// the current page.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	parts := []string{bg.Render("rentdesk", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render("● OFFLINE", styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)))
		if !m.snapshot.LastSuccess.IsZero() {
			parts = append(parts,
				bg.Render("last ok", styles.FaintText)+bg.Space()+
					bg.Render(m.snapshot.LastSuccess.Format("15:04:05"), styles.MutedText))
		}
	case m.snapshot.Seen():
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("● CONNECTING", styles.WarningText.Bold(true)))
	}

	if url := m.apiURL(); url != "" && !compact {
		parts = append(parts,
			bg.Render("api", styles.FaintText)+bg.Space()+
				bg.Render(truncateMiddle(url, 40), styles.MutedText))
	}

	title := m.route.page.String()
	if m.pageLoading() {
		title += " " + m.spinner.View()
	}
	parts = append(parts, bg.Render(title, styles.AccentText.Bold(true)))

	if m.snapshot.ServerErrors > 0 && !compact {
		parts = append(parts,
			bg.Render("Server errors:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.snapshot.ServerErrors), styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// apiURL returns the endpoint shown in the header.
func (m Model) apiURL() string {
	if m.config != nil {
		return m.config.APIURL
	}
	return ""
}

// pageLoading reports whether the current page has a load in flight.
func (m Model) pageLoading() bool {
	switch m.route.page {
	case PageHome:
		return m.home.loader.Loading()
	case PageFilms:
		return m.films.recent.Loading() || m.films.results.Loading()
	case PageFilm:
		return m.film.loader.Loading() || m.film.inventory.Loading()
	case PageActor:
		return m.actor.loader.Loading()
	case PageCustomers:
		return m.customers.loader.Loading()
	case PageCustomerNew, PageCustomerEdit:
		return m.form.countries.Loading() || m.form.loader.Loading()
	case PageRentals:
		return m.rentals.loader.Loading()
	}
	return false
}

// renderCommandBar renders the command hints for the current page.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.route.page {
	case PageHome:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"Tab", "Pane"},
			{"Enter", "Open"},
			{"2", "Films"},
			{"3", "Customers"},
		}
	case PageFilms:
		if m.films.input.Focused() {
			commands = []cmd{{"Enter", "Search"}, {"Esc", "Cancel"}}
		} else {
			commands = []cmd{
				{"/", "Search"},
				{"t", "By " + string(m.searchType)},
				{"c", "Clear"},
				{"Enter", "Open"},
				{"Esc", "Back"},
			}
		}
	case PageFilm:
		if m.film.input.Focused() {
			commands = []cmd{{"Enter", "Rent"}, {"Esc", "Cancel"}}
		} else {
			commands = []cmd{
				{"R", "Rent"},
				{"Enter", "Actor"},
				{"Esc", m.backLabel()},
			}
		}
	case PageActor:
		commands = []cmd{{"Enter", "Film"}, {"Esc", m.backLabel()}}
	case PageCustomers:
		if m.customers.input.Focused() {
			commands = []cmd{{"Enter", "Search"}, {"Esc", "Cancel"}}
		} else {
			commands = []cmd{
				{"/", "Search"},
				{"c", "Clear"},
				{"[/]", "Page"},
				{"a", "Add"},
				{"e", "Edit"},
				{"Enter", "Rentals"},
			}
		}
	case PageCustomerNew, PageCustomerEdit:
		commands = []cmd{{"Tab", "Field"}, {"ctrl+s", "Save"}}
		if m.route.page == PageCustomerEdit {
			commands = append(commands, cmd{"ctrl+d", "Delete"})
		}
		commands = append(commands, cmd{"Esc", "Cancel"})
	case PageRentals:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"R", "Return"},
			{"e", "Edit"},
			{"Esc", m.backLabel()},
		}
	case PageDiagnostics:
		followLabel := "Pause"
		if !m.diag.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"f", "Level " + m.diag.levelLabel()},
			{"j/k", "Scroll"},
			{"Esc", "Back"},
		}
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// sinceLabel renders how long ago t was, for the diagnostics stats line.
func sinceLabel(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return t.Format("15:04:05") + " (now)"
	case d < time.Hour:
		return fmt.Sprintf("%s (%dm ago)", t.Format("15:04:05"), int(d.Minutes()))
	default:
		return fmt.Sprintf("%s (%dh ago)", t.Format("15:04:05"), int(d.Hours()))
	}
}
