package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumapix/lumapix-client/pkg/format"
	"github.com/lumapix/lumapix-client/pkg/models"
)

const treePaneWidth = 32

// View implements tea.Model.
func (a App) View() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelp()
	case ModeMove:
		return a.renderMovePicker()
	case ModeNewFolder, ModeRename:
		return a.renderNamePrompt()
	}

	paneHeight := a.height - 8
	if paneHeight < 4 {
		paneHeight = 4
	}
	photosWidth := a.width - treePaneWidth - 10
	if photosWidth < 20 {
		photosWidth = 20
	}

	treePane := a.renderTreePane(treePaneWidth, paneHeight)
	photosPane := a.renderPhotosPane(photosWidth, paneHeight)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, treePane, photosPane)

	return a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.renderBreadcrumb(),
			columns,
			a.renderStatusBar(),
			a.renderHelpBar(),
		),
	)
}

func (a App) renderTreePane(width, height int) string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Folders"))
	b.WriteString("\n")

	if len(a.treeRows) == 0 {
		b.WriteString(a.styles.Empty.Render("No folders yet"))
	}

	for i, row := range a.treeRows {
		if i >= height-1 {
			break
		}
		marker := "  "
		if row.hasKids {
			if row.expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}
		line := strings.Repeat("  ", row.depth) + marker + row.folder.Name
		switch {
		case i == a.treeCursor && a.focus == FocusTree:
			line = a.styles.ItemCursor.Render(line)
		case row.folder.ID == a.currentFolderID:
			line = a.styles.ItemSelected.Render(line)
		default:
			line = a.styles.Item.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	style := a.styles.Pane
	if a.focus == FocusTree && a.mode == ModeNormal {
		style = a.styles.PaneActive
	}
	return style.Width(width).Height(height).Render(b.String())
}

func (a App) renderPhotosPane(width, height int) string {
	var b strings.Builder

	title := "Photos"
	if a.folderName != "" {
		title = a.folderName
	}
	b.WriteString(a.styles.Title.Render(title))
	if a.query != "" {
		b.WriteString(a.styles.Meta.Render(fmt.Sprintf("  matching %q", a.query)))
	}
	b.WriteString("\n")

	if a.mode == ModeSearch {
		b.WriteString(a.styles.Input.Render("/" + a.searchInput.View()))
		b.WriteString("\n")
	}

	switch {
	case a.currentFolderID == "":
		b.WriteString(a.styles.Empty.Render("Open a folder to browse its photos"))
	case a.loading:
		b.WriteString(a.styles.Empty.Render("Loading..."))
	case len(a.photos) == 0 && a.query != "":
		b.WriteString(a.styles.Empty.Render("No photos match your search"))
	case len(a.photos) == 0:
		b.WriteString(a.styles.Empty.Render("This folder is empty"))
	default:
		now := time.Now()
		for i, p := range a.photos {
			if i >= height-3 {
				b.WriteString(a.styles.Meta.Render(fmt.Sprintf("  ... and %d more on this page", len(a.photos)-i)))
				b.WriteString("\n")
				break
			}
			b.WriteString(a.renderPhotoLine(p, i, now))
			b.WriteString("\n")
		}
	}

	style := a.styles.Pane
	if a.focus == FocusPhotos && a.mode == ModeNormal {
		style = a.styles.PaneActive
	}
	return style.Width(width).Height(height).Render(b.String())
}

func (a App) renderPhotoLine(p models.Photo, index int, now time.Time) string {
	mark := "[ ]"
	if a.sel.IsSelected(p.ID) {
		mark = "[x]"
	}

	kind := format.ClassifyMime(p.MimeType).Label()
	taken := p.UploadedAt
	if p.TakenAt != nil {
		taken = *p.TakenAt
	}
	meta := fmt.Sprintf("%-5s %9s  %s", kind, format.Bytes(p.SizeInBytes), format.RelTime(taken, now))

	line := fmt.Sprintf("%s %s  %s", mark, p.FileName, a.styles.Meta.Render(meta))
	if index == a.cursor && a.focus == FocusPhotos {
		return a.styles.ItemCursor.Render(line)
	}
	if a.sel.IsSelected(p.ID) {
		return a.styles.ItemSelected.Render(line)
	}
	return a.styles.Item.Render(line)
}

func (a App) renderBreadcrumb() string {
	if a.currentFolderID == "" {
		return a.styles.Breadcrumb.Render("lumapix")
	}
	return a.styles.Breadcrumb.Render("lumapix / " + folderPath(a.tree, a.currentFolderID))
}

func (a App) renderStatusBar() string {
	if a.mode == ModeConfirmDelete {
		n := a.sel.Count()
		prompt := fmt.Sprintf("Delete %d photo", n)
		if n != 1 {
			prompt += "s"
		}
		prompt += "? enter to confirm, esc to cancel"
		return a.styles.StatusWarning.Render(prompt)
	}

	if a.statusErr != nil {
		return a.styles.StatusError.Render(a.status)
	}
	if a.status != "" {
		return a.styles.Status.Render(a.status)
	}

	var parts []string
	if a.sel.IsSelectionMode() {
		parts = append(parts, fmt.Sprintf("%d selected (%s)", a.sel.Count(), format.Bytes(a.selectedBytes())))
	}
	if a.currentFolderID != "" && a.pagination.Total > 0 {
		parts = append(parts, fmt.Sprintf("page %d/%d · %d photos", a.page, totalPages(a.pagination), a.pagination.Total))
	}
	return a.styles.Status.Render(strings.Join(parts, "  "))
}

func (a App) selectedBytes() int64 {
	selected := make(map[string]bool, a.sel.Count())
	for _, id := range a.sel.SelectedIDs() {
		selected[id] = true
	}
	var total int64
	for _, p := range a.photos {
		if selected[p.ID] {
			total += p.SizeInBytes
		}
	}
	return total
}

func (a App) renderMovePicker() string {
	var b strings.Builder
	n := a.sel.Count()
	b.WriteString(a.styles.Title.Render(fmt.Sprintf("Move %d photo(s) to...", n)))
	b.WriteString("\n")
	b.WriteString(a.styles.Input.Render(a.moveInput.View()))
	b.WriteString("\n\n")

	if len(a.moveFiltered) == 0 {
		b.WriteString(a.styles.Empty.Render("No matching folders"))
	}
	for i, c := range a.moveFiltered {
		if i >= a.height-8 {
			break
		}
		if i == a.moveCursor {
			b.WriteString(a.styles.ItemCursor.Render(c.path))
		} else {
			b.WriteString(a.styles.Item.Render(c.path))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("enter move · esc cancel · up/down choose"))
	return a.styles.App.Render(b.String())
}

func (a App) renderNamePrompt() string {
	title := "New folder"
	if a.mode == ModeRename {
		title = "Rename folder"
	}
	var b strings.Builder
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(a.styles.Input.Render(a.nameInput.View()))
	b.WriteString("\n")
	if a.statusErr != nil {
		b.WriteString(a.styles.StatusError.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("enter save · esc cancel"))
	return a.styles.App.Render(b.String())
}

func (a App) renderHelp() string {
	rows := []struct{ keys, desc string }{
		{"j/k", "move"},
		{"tab", "switch pane"},
		{"l/enter", "open folder"},
		{"h", "collapse / back"},
		{"space", "toggle select"},
		{"v", "select only this"},
		{"V", "select range to here"},
		{"a", "select all on page"},
		{"esc", "clear selection"},
		{"d", "delete selected"},
		{"m", "move selected"},
		{"y", "copy photo link"},
		{"/", "search in folder"},
		{"n/p", "next/previous page"},
		{"A", "new folder"},
		{"r", "rename folder"},
		{"R", "refresh"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", r.keys, a.styles.Meta.Render(r.desc)))
	}
	b.WriteString(a.styles.Help.Render("press any key to close"))
	return a.styles.App.Render(b.String())
}

func (a App) renderHelpBar() string {
	hints := "tab panes · space select · d delete · m move · / search · ? help · q quit"
	return a.styles.Help.Render(hints)
}
