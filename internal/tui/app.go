// Package tui implements the interactive photo browser: a folder tree
// pane, a paginated photo pane with bulk selection, and the modal flows
// for search, move, delete, and folder management.
package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/lumapix/lumapix-client/pkg/client"
	"github.com/lumapix/lumapix-client/pkg/debounce"
	"github.com/lumapix/lumapix-client/pkg/foldertree"
	"github.com/lumapix/lumapix-client/pkg/format"
	"github.com/lumapix/lumapix-client/pkg/models"
	"github.com/lumapix/lumapix-client/pkg/protocol"
	"github.com/lumapix/lumapix-client/pkg/query"
	"github.com/lumapix/lumapix-client/pkg/selection"
)

// Mode is the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeMove
	ModeConfirmDelete
	ModeNewFolder
	ModeRename
	ModeHelp
)

// Focus is the pane receiving navigation keys.
type Focus int

const (
	FocusTree Focus = iota
	FocusPhotos
)

// treeRow is one visible line of the folder tree.
type treeRow struct {
	folder   models.Folder
	depth    int
	expanded bool
	hasKids  bool
}

// moveChoice is one target in the move-to-folder picker.
type moveChoice struct {
	id   string
	path string
}

const statusLinger = 4 * time.Second

// App is the main bubbletea model.
type App struct {
	api    API
	cache  *query.Cache
	keys   KeyMap
	styles Styles

	ctx    context.Context
	cancel context.CancelFunc

	tree *foldertree.Tree
	sel  *selection.Store

	mode  Mode
	focus Focus

	treeRows   []treeRow
	treeCursor int

	currentFolderID string
	folderName      string

	photos     []models.Photo
	pagination protocol.Pagination
	page       int
	pageSize   int
	sort       string
	cursor     int
	loading    bool

	searchInput textinput.Model
	search      *debounce.Value[string]
	searchCh    chan string
	query       string

	moveInput    textinput.Model
	moveChoices  []moveChoice
	moveFiltered []moveChoice
	moveCursor   int

	nameInput    textinput.Model
	renameTarget string

	status    string
	statusErr error

	events <-chan protocol.Event
	inval  *query.Invalidator

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	API            API
	Cache          *query.Cache
	Events         <-chan protocol.Event
	PageSize       int
	Sort           string
	SearchDebounce time.Duration
	Keys           *KeyMap
	Styles         *Styles
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	if params.Cache == nil {
		params.Cache = query.NewCache(0)
	}
	if params.PageSize <= 0 {
		params.PageSize = 50
	}
	if params.Sort == "" {
		params.Sort = "uploadedAt:desc"
	}
	if params.SearchDebounce <= 0 {
		params.SearchDebounce = 300 * time.Millisecond
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search photos..."
	searchInput.CharLimit = 128

	moveInput := textinput.New()
	moveInput.Placeholder = "Filter folders..."
	moveInput.CharLimit = 128

	nameInput := textinput.New()
	nameInput.Placeholder = "Folder name"
	nameInput.CharLimit = 255

	searchCh := make(chan string, 8)
	search := debounce.NewValue("", params.SearchDebounce)
	search.Subscribe(func(q string) {
		select {
		case searchCh <- q:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())

	return App{
		api:         params.API,
		cache:       params.Cache,
		ctx:         ctx,
		cancel:      cancel,
		keys:        keys,
		styles:      styles,
		tree:        foldertree.New(nil),
		sel:         selection.NewStore(),
		page:        1,
		pageSize:    params.PageSize,
		sort:        params.Sort,
		searchInput: searchInput,
		moveInput:   moveInput,
		nameInput:   nameInput,
		search:      search,
		searchCh:    searchCh,
		events:      params.Events,
		inval:       query.NewInvalidator(params.Cache),
		loading:     true,
		width:       80,
		height:      24,
	}
}

// CurrentFolderID returns the folder whose photos are shown ("" if none).
func (a App) CurrentFolderID() string { return a.currentFolderID }

// Photos returns the photos on the current page.
func (a App) Photos() []models.Photo { return a.photos }

// Cursor returns the photo cursor position.
func (a App) Cursor() int { return a.cursor }

// TreeCursor returns the tree cursor position.
func (a App) TreeCursor() int { return a.treeCursor }

// Selection returns the bulk selection store.
func (a App) Selection() *selection.Store { return a.sel }

// Tree returns the folder tree.
func (a App) Tree() *foldertree.Tree { return a.tree }

// CurrentMode returns the interaction mode.
func (a App) CurrentMode() Mode { return a.mode }

// CurrentFocus returns the focused pane.
func (a App) CurrentFocus() Focus { return a.focus }

// Query returns the committed search query.
func (a App) Query() string { return a.query }

// Page returns the current page number.
func (a App) Page() int { return a.page }

// Status returns the transient status line and its error, if any.
func (a App) Status() (string, error) { return a.status, a.statusErr }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadFolders(),
		waitSearch(a.searchCh),
		waitEvent(a.events),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case foldersLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.tree.SetFolders(msg.folders)
		a.refreshTreeRows()
		return a, nil

	case photosLoadedMsg:
		a.loading = false
		// A stale response for a folder, page, or search we have since left.
		if msg.folderID != a.currentFolderID || msg.page != a.page || msg.search != a.query {
			return a, nil
		}
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.photos = msg.resp.Data
		a.pagination = msg.resp.Pagination
		if a.cursor >= len(a.photos) {
			a.cursor = max(0, len(a.photos)-1)
		}
		return a, nil

	case bulkDoneMsg:
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.sel.Clear()
		a.status = bulkSummary(msg)
		a.statusErr = nil
		a.loading = true
		return a, tea.Batch(a.loadPhotos(), clearStatusAfter(statusLinger))

	case folderSavedMsg:
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.status = "Saved " + msg.folder.Name
		a.statusErr = nil
		return a, tea.Batch(a.loadFolders(), clearStatusAfter(statusLinger))

	case searchCommittedMsg:
		// Re-arm the listener whatever else happens.
		cmd := waitSearch(a.searchCh)
		if msg.query == a.query {
			return a, cmd
		}
		a.query = msg.query
		a.page = 1
		a.cursor = 0
		if a.currentFolderID == "" {
			return a, cmd
		}
		a.loading = true
		return a, tea.Batch(a.loadPhotos(), cmd)

	case eventMsg:
		if !msg.ok {
			return a, nil
		}
		a.inval.Apply(msg.event)
		cmds := []tea.Cmd{waitEvent(a.events)}
		switch msg.event.Type {
		case protocol.EventFolderChanged:
			cmds = append(cmds, a.loadFolders())
		default:
			if a.currentFolderID != "" &&
				(msg.event.FolderID == "" || msg.event.FolderID == a.currentFolderID) {
				cmds = append(cmds, a.loadPhotos())
			}
		}
		return a, tea.Batch(cmds...)

	case yankedMsg:
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.status = "Copied " + msg.url
		a.statusErr = nil
		return a, clearStatusAfter(statusLinger)

	case statusClearMsg:
		a.status = ""
		a.statusErr = nil
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeSearch:
		return a.handleSearchKey(msg)
	case ModeMove:
		return a.handleMoveKey(msg)
	case ModeConfirmDelete:
		return a.handleConfirmKey(msg)
	case ModeNewFolder, ModeRename:
		return a.handleNameKey(msg)
	case ModeHelp:
		a.mode = ModeNormal
		return a, nil
	}
	return a.handleNormalKey(msg)
}

func (a App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.search.Cancel()
		a.cancel()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
		return a, nil

	case key.Matches(msg, a.keys.FocusNext):
		if a.focus == FocusTree {
			a.focus = FocusPhotos
		} else {
			a.focus = FocusTree
		}
		return a, nil

	case key.Matches(msg, a.keys.Refresh):
		a.cache.Invalidate(query.FoldersKey())
		cmds := []tea.Cmd{a.loadFolders()}
		if a.currentFolderID != "" {
			a.cache.Invalidate(query.PhotosPrefix(a.currentFolderID))
			a.loading = true
			cmds = append(cmds, a.loadPhotos())
		}
		return a, tea.Batch(cmds...)

	case key.Matches(msg, a.keys.Search):
		if a.currentFolderID == "" {
			return a, nil
		}
		a.mode = ModeSearch
		a.searchInput.SetValue(a.query)
		a.searchInput.CursorEnd()
		a.searchInput.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.NewFolder):
		a.mode = ModeNewFolder
		a.nameInput.Reset()
		a.nameInput.Placeholder = "Folder name"
		a.nameInput.Focus()
		return a, textinput.Blink
	}

	if a.focus == FocusTree {
		return a.handleTreeKey(msg)
	}
	return a.handlePhotosKey(msg)
}

func (a App) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Down):
		if a.treeCursor < len(a.treeRows)-1 {
			a.treeCursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.treeCursor > 0 {
			a.treeCursor--
		}

	case key.Matches(msg, a.keys.Right):
		row, ok := a.currentTreeRow()
		if !ok {
			break
		}
		if row.hasKids && !row.expanded {
			a.tree.Expand(row.folder.ID)
			a.refreshTreeRows()
		}
		return a.openFolder(row.folder)

	case key.Matches(msg, a.keys.Toggle):
		row, ok := a.currentTreeRow()
		if ok && row.hasKids {
			a.tree.Toggle(row.folder.ID)
			a.refreshTreeRows()
		}

	case key.Matches(msg, a.keys.Left):
		row, ok := a.currentTreeRow()
		if !ok {
			break
		}
		if row.expanded {
			a.tree.Collapse(row.folder.ID)
			a.refreshTreeRows()
			break
		}
		if row.folder.ParentID != nil && *row.folder.ParentID != "" {
			a.moveTreeCursorTo(*row.folder.ParentID)
		}

	case key.Matches(msg, a.keys.Rename):
		row, ok := a.currentTreeRow()
		if !ok {
			break
		}
		a.mode = ModeRename
		a.renameTarget = row.folder.ID
		a.nameInput.SetValue(row.folder.Name)
		a.nameInput.CursorEnd()
		a.nameInput.Placeholder = "New name"
		a.nameInput.Focus()
		return a, textinput.Blink
	}
	return a, nil
}

func (a App) handlePhotosKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.photos)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Left):
		// Climb back to the tree pane.
		a.focus = FocusTree

	case key.Matches(msg, a.keys.Toggle):
		if p, ok := a.currentPhoto(); ok {
			a.sel.Toggle(p.ID)
		}

	case key.Matches(msg, a.keys.SelectOne):
		if p, ok := a.currentPhoto(); ok {
			a.sel.SelectOnly(p.ID)
		}

	case key.Matches(msg, a.keys.SelectRange):
		if p, ok := a.currentPhoto(); ok {
			a.sel.SelectRange(photoIDs(a.photos), p.ID)
		}

	case key.Matches(msg, a.keys.SelectAll):
		a.sel.SelectAll(photoIDs(a.photos))

	case key.Matches(msg, a.keys.Clear):
		a.sel.Clear()

	case key.Matches(msg, a.keys.Delete):
		if a.sel.Count() > 0 {
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Move):
		if a.sel.Count() > 0 {
			return a.enterMoveMode()
		}

	case key.Matches(msg, a.keys.Yank):
		if p, ok := a.currentPhoto(); ok {
			return a, yankURL(format.FileDisplayURL(&p, a.api.BaseURL()))
		}

	case key.Matches(msg, a.keys.NextPage):
		if a.page < totalPages(a.pagination) {
			a.page++
			a.cursor = 0
			a.loading = true
			return a, a.loadPhotos()
		}

	case key.Matches(msg, a.keys.PrevPage):
		if a.page > 1 {
			a.page--
			a.cursor = 0
			a.loading = true
			return a, a.loadPhotos()
		}
	}
	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.search.Cancel()
		a.mode = ModeNormal
		a.searchInput.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		a.search.Set(a.searchInput.Value())
		a.search.Flush()
		a.mode = ModeNormal
		a.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.search.Set(a.searchInput.Value())
	return a, cmd
}

func (a App) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.moveInput.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		if a.moveCursor >= len(a.moveFiltered) {
			return a, nil
		}
		target := a.moveFiltered[a.moveCursor]
		a.mode = ModeNormal
		a.moveInput.Blur()
		a.loading = true
		return a, a.bulkMove(a.sel.SelectedIDs(), target.id)

	case msg.Type == tea.KeyDown || msg.Type == tea.KeyCtrlN:
		if a.moveCursor < len(a.moveFiltered)-1 {
			a.moveCursor++
		}
		return a, nil

	case msg.Type == tea.KeyUp || msg.Type == tea.KeyCtrlP:
		if a.moveCursor > 0 {
			a.moveCursor--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.moveInput, cmd = a.moveInput.Update(msg)
	a.filterMoveChoices()
	return a, cmd
}

func (a App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.mode = ModeNormal
		a.loading = true
		return a, a.bulkDelete(a.sel.SelectedIDs())
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
	}
	return a, nil
}

func (a App) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.nameInput.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		name := a.nameInput.Value()
		if err := format.ValidateFolderName(name); err != nil {
			return a.fail(err)
		}
		mode := a.mode
		a.mode = ModeNormal
		a.nameInput.Blur()
		if mode == ModeRename {
			return a, a.renameFolder(a.renameTarget, name)
		}
		var parentID *string
		if row, ok := a.currentTreeRow(); ok && a.focus == FocusTree {
			id := row.folder.ID
			parentID = &id
		} else if a.currentFolderID != "" {
			id := a.currentFolderID
			parentID = &id
		}
		return a, a.createFolder(name, parentID)
	}

	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

// openFolder switches the photo pane to folder, resetting pagination,
// search, and the bulk selection.
func (a App) openFolder(folder models.Folder) (tea.Model, tea.Cmd) {
	if folder.ID == a.currentFolderID {
		a.focus = FocusPhotos
		return a, nil
	}
	a.currentFolderID = folder.ID
	a.folderName = folder.Name
	a.page = 1
	a.cursor = 0
	a.query = ""
	a.search.Cancel()
	a.searchInput.Reset()
	a.sel.Clear()
	a.tree.AutoExpandPath(a.tree.PathTo(folder.ID))
	a.refreshTreeRows()
	a.moveTreeCursorTo(folder.ID)
	a.focus = FocusPhotos
	a.loading = true
	return a, a.loadPhotos()
}

func (a *App) refreshTreeRows() {
	rows := make([]treeRow, 0, a.tree.Len())
	a.tree.Walk(func(f models.Folder, depth int) {
		rows = append(rows, treeRow{
			folder:   f,
			depth:    depth,
			expanded: a.tree.IsExpanded(f.ID),
			hasKids:  len(a.tree.ChildrenOf(f.ID)) > 0,
		})
	})
	a.treeRows = rows
	if a.treeCursor >= len(rows) {
		a.treeCursor = max(0, len(rows)-1)
	}
}

func (a *App) moveTreeCursorTo(folderID string) {
	for i, row := range a.treeRows {
		if row.folder.ID == folderID {
			a.treeCursor = i
			return
		}
	}
}

func (a App) currentTreeRow() (treeRow, bool) {
	if a.treeCursor < 0 || a.treeCursor >= len(a.treeRows) {
		return treeRow{}, false
	}
	return a.treeRows[a.treeCursor], true
}

func (a App) currentPhoto() (models.Photo, bool) {
	if a.cursor < 0 || a.cursor >= len(a.photos) {
		return models.Photo{}, false
	}
	return a.photos[a.cursor], true
}

func (a App) enterMoveMode() (tea.Model, tea.Cmd) {
	choices := make([]moveChoice, 0, a.tree.Len())
	for _, f := range allFolders(a.tree) {
		if f.ID == a.currentFolderID {
			continue
		}
		choices = append(choices, moveChoice{id: f.ID, path: folderPath(a.tree, f.ID)})
	}
	if len(choices) == 0 {
		return a, nil
	}
	a.mode = ModeMove
	a.moveChoices = choices
	a.moveFiltered = choices
	a.moveCursor = 0
	a.moveInput.Reset()
	a.moveInput.Focus()
	return a, textinput.Blink
}

func (a *App) filterMoveChoices() {
	pattern := a.moveInput.Value()
	if pattern == "" {
		a.moveFiltered = a.moveChoices
		a.moveCursor = 0
		return
	}
	paths := make([]string, len(a.moveChoices))
	for i, c := range a.moveChoices {
		paths[i] = c.path
	}
	matches := fuzzy.Find(pattern, paths)
	filtered := make([]moveChoice, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, a.moveChoices[m.Index])
	}
	a.moveFiltered = filtered
	a.moveCursor = 0
}

func (a App) fail(err error) (tea.Model, tea.Cmd) {
	a.loading = false
	a.statusErr = err
	a.status = client.Describe(err)
	return a, clearStatusAfter(statusLinger)
}

func photoIDs(photos []models.Photo) []string {
	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	return ids
}

func bulkSummary(msg bulkDoneMsg) string {
	verb := "Deleted"
	if msg.action == "move" {
		verb = "Moved"
	}
	s := verb + " " + strconv.Itoa(msg.done) + " photo"
	if msg.done != 1 {
		s += "s"
	}
	if len(msg.failed) > 0 {
		reasons := make([]string, 0, len(msg.failed))
		for _, f := range msg.failed {
			reasons = append(reasons, f.Reason)
		}
		s += " (" + strconv.Itoa(len(msg.failed)) + " failed: " + strings.Join(reasons, ", ") + ")"
	}
	return s
}

func totalPages(p protocol.Pagination) int {
	if p.PerPage <= 0 {
		return 1
	}
	pages := (p.Total + p.PerPage - 1) / p.PerPage
	if pages < 1 {
		return 1
	}
	return pages
}

// allFolders returns every folder the tree knows, in list order.
func allFolders(t *foldertree.Tree) []models.Folder {
	var out []models.Folder
	var visit func(folders []models.Folder)
	visit = func(folders []models.Folder) {
		for _, f := range folders {
			out = append(out, f)
			visit(t.ChildrenOf(f.ID))
		}
	}
	visit(t.Roots())
	return out
}

// folderPath renders a folder's ancestry as "Parent / Child".
func folderPath(t *foldertree.Tree, id string) string {
	var names []string
	for _, pid := range t.PathTo(id) {
		if f, ok := t.Get(pid); ok {
			names = append(names, f.Name)
		}
	}
	return strings.Join(names, " / ")
}
