package tui_test

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumapix/lumapix-client/internal/logging"
	"github.com/lumapix/lumapix-client/internal/tui"
	"github.com/lumapix/lumapix-client/pkg/client"
	"github.com/lumapix/lumapix-client/pkg/models"
	"github.com/lumapix/lumapix-client/pkg/protocol"
)

func TestMain(m *testing.M) {
	logging.Nop()
	m.Run()
}

func stringPtr(s string) *string { return &s }

// fakeAPI serves canned folders and photos and records bulk calls.
type fakeAPI struct {
	folders []models.Folder
	photos  map[string][]models.Photo

	deleted [][]string
	moved   []struct {
		ids    []string
		target string
	}
}

func (f *fakeAPI) ListFolders(ctx context.Context) ([]models.Folder, error) {
	return f.folders, nil
}

func (f *fakeAPI) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	folder := models.Folder{ID: "new-" + name, Name: name, ParentID: parentID}
	f.folders = append(f.folders, folder)
	return &folder, nil
}

func (f *fakeAPI) RenameFolder(ctx context.Context, folderID, name string) (*models.Folder, error) {
	for i := range f.folders {
		if f.folders[i].ID == folderID {
			f.folders[i].Name = name
			return &f.folders[i], nil
		}
	}
	return nil, &client.HTTPError{Status: 404, StatusText: "Not Found"}
}

func (f *fakeAPI) ListPhotos(ctx context.Context, p client.ListPhotosParams) (*protocol.PhotoListResponse, error) {
	photos := f.photos[p.FolderID]
	if p.Search != "" {
		var filtered []models.Photo
		for _, ph := range photos {
			if strings.Contains(ph.FileName, p.Search) {
				filtered = append(filtered, ph)
			}
		}
		photos = filtered
	}
	return &protocol.PhotoListResponse{
		Data:       photos,
		Pagination: protocol.Pagination{Page: p.Page, PerPage: p.PerPage, Total: len(photos)},
	}, nil
}

func (f *fakeAPI) BulkDeletePhotos(ctx context.Context, photoIDs []string) (*protocol.BulkDeleteResponse, error) {
	f.deleted = append(f.deleted, photoIDs)
	resp := &protocol.BulkDeleteResponse{Deleted: photoIDs}
	resp.Summary.Total = len(photoIDs)
	resp.Summary.DeletedCount = len(photoIDs)
	return resp, nil
}

func (f *fakeAPI) BulkMovePhotos(ctx context.Context, photoIDs []string, targetFolderID string) (*protocol.BulkMoveResponse, error) {
	f.moved = append(f.moved, struct {
		ids    []string
		target string
	}{photoIDs, targetFolderID})
	resp := &protocol.BulkMoveResponse{Moved: photoIDs}
	resp.Summary.Total = len(photoIDs)
	resp.Summary.MovedCount = len(photoIDs)
	return resp, nil
}

func (f *fakeAPI) BaseURL() string { return "https://photos.example.com" }

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		folders: []models.Folder{
			{ID: "f1", Name: "Vacation"},
			{ID: "f2", Name: "Pets"},
			{ID: "f3", Name: "Italy", ParentID: stringPtr("f1")},
		},
		photos: map[string][]models.Photo{
			"f1": {
				{ID: "p1", FileName: "beach.jpg", MimeType: "image/jpeg", SizeInBytes: 2048, UploadedAt: time.Now()},
				{ID: "p2", FileName: "sunset.jpg", MimeType: "image/jpeg", SizeInBytes: 4096, UploadedAt: time.Now()},
				{ID: "p3", FileName: "drone.mp4", MimeType: "video/mp4", SizeInBytes: 1 << 20, UploadedAt: time.Now()},
				{ID: "p4", FileName: "lunch.jpg", MimeType: "image/jpeg", SizeInBytes: 1024, UploadedAt: time.Now()},
			},
		},
	}
}

// drive runs msgs through Update, executing each returned command and
// feeding its message back in, so async loads settle synchronously in
// tests. Commands that do not produce a message promptly (the channel
// listeners, delayed ticks) are dropped.
func drive(t *testing.T, app tui.App, msgs ...tea.Msg) tui.App {
	t.Helper()
	queue := msgs
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		model, cmd := app.Update(msg)
		app = model.(tui.App)
		if cmd != nil {
			queue = append(queue, runCmd(cmd)...)
		}
	}
	return app
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case m := <-out:
		if m == nil {
			return nil
		}
		if batch, ok := m.(tea.BatchMsg); ok {
			var msgs []tea.Msg
			for _, c := range batch {
				if c != nil {
					msgs = append(msgs, runCmd(c)...)
				}
			}
			return msgs
		}
		return []tea.Msg{m}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// newTestApp builds an app with folders loaded and f1 open. It drives
// the initial load manually instead of through Init so the test never
// blocks on the search or event listeners.
func newTestApp(t *testing.T, api *fakeAPI) tui.App {
	t.Helper()
	// A long window keeps the timer from firing mid-test; only the
	// explicit flush on enter commits.
	app := tui.NewApp(tui.AppParams{API: api, PageSize: 50, SearchDebounce: time.Minute})

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(tui.App)
	if cmd != nil {
		t.Fatal("window size should not produce a command")
	}

	folders, err := api.ListFolders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	app = drive(t, app, foldersMsg(folders))
	return app
}

// foldersMsg fabricates the folder load result the Init command would
// produce.
func foldersMsg(folders []models.Folder) tea.Msg {
	return tui.FoldersLoaded(folders, nil)
}

func openFirstFolder(t *testing.T, app tui.App) tui.App {
	t.Helper()
	app = drive(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.CurrentFolderID() != "f1" {
		t.Fatalf("current folder = %q, want f1", app.CurrentFolderID())
	}
	return app
}

func TestApp_OpenFolderLoadsPhotos(t *testing.T) {
	app := newTestApp(t, newFakeAPI())
	app = openFirstFolder(t, app)

	if len(app.Photos()) != 4 {
		t.Fatalf("got %d photos, want 4", len(app.Photos()))
	}
	if app.CurrentFocus() != tui.FocusPhotos {
		t.Error("opening a folder should focus the photo pane")
	}
}

func TestApp_CursorMovesWithinBounds(t *testing.T) {
	app := newTestApp(t, newFakeAPI())
	app = openFirstFolder(t, app)

	app = drive(t, app, keyRune('j'), keyRune('j'))
	if app.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", app.Cursor())
	}

	app = drive(t, app, keyRune('j'), keyRune('j'), keyRune('j'))
	if app.Cursor() != 3 {
		t.Errorf("cursor should stop at the last photo, got %d", app.Cursor())
	}

	app = drive(t, app, keyRune('k'), keyRune('k'), keyRune('k'), keyRune('k'))
	if app.Cursor() != 0 {
		t.Errorf("cursor should stop at 0, got %d", app.Cursor())
	}
}

func TestApp_ToggleSelection(t *testing.T) {
	app := newTestApp(t, newFakeAPI())
	app = openFirstFolder(t, app)

	app = drive(t, app, keyRune(' '))
	if !app.Selection().IsSelected("p1") {
		t.Error("space should select the photo under the cursor")
	}

	app = drive(t, app, keyRune(' '))
	if app.Selection().IsSelected("p1") {
		t.Error("space again should deselect")
	}
}

func TestApp_RangeSelection(t *testing.T) {
	app := newTestApp(t, newFakeAPI())
	app = openFirstFolder(t, app)

	// Anchor at p1, move to p3, extend.
	app = drive(t, app, keyRune('v'), keyRune('j'), keyRune('j'), keyRune('V'))

	sel := app.Selection()
	for _, id := range []string{"p1", "p2", "p3"} {
		if !sel.IsSelected(id) {
			t.Errorf("%s should be in the range", id)
		}
	}
	if sel.IsSelected("p4") {
		t.Error("p4 is outside the range")
	}
}

func TestApp_SelectAllAndClear(t *testing.T) {
	app := newTestApp(t, newFakeAPI())
	app = openFirstFolder(t, app)

	app = drive(t, app, keyRune('a'))
	if app.Selection().Count() != 4 {
		t.Errorf("selected %d, want 4", app.Selection().Count())
	}

	app = drive(t, app, tea.KeyMsg{Type: tea.KeyEscape})
	if app.Selection().Count() != 0 {
		t.Error("esc should clear the selection")
	}
}

func TestApp_NavigationClearsSelection(t *testing.T) {
	api := newFakeAPI()
	app := newTestApp(t, api)
	app = openFirstFolder(t, app)

	app = drive(t, app, keyRune(' '))
	if app.Selection().Count() != 1 {
		t.Fatal("expected one selected photo")
	}

	// Back to the tree. Vacation is expanded, so Pets sits two rows down.
	app = drive(t, app, keyRune('h'), keyRune('j'), keyRune('j'), tea.KeyMsg{Type: tea.KeyEnter})
	if app.CurrentFolderID() != "f2" {
		t.Fatalf("current folder = %q, want f2", app.CurrentFolderID())
	}
	if app.Selection().Count() != 0 {
		t.Error("changing folders should clear the selection")
	}
}

func TestApp_BulkDeleteFlow(t *testing.T) {
	api := newFakeAPI()
	app := newTestApp(t, api)
	app = openFirstFolder(t, app)

	app = drive(t, app, keyRune(' '), keyRune('j'), keyRune(' '))
	app = drive(t, app, keyRune('d'))
	if app.CurrentMode() != tui.ModeConfirmDelete {
		t.Fatal("d with a selection should ask for confirmation")
	}

	app = drive(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if len(api.deleted) != 1 {
		t.Fatalf("expected one bulk delete call, got %d", len(api.deleted))
	}
	if got := api.deleted[0]; len(got) != 2 || got[0] != "p1" || got[1] != "p2" {
		t.Errorf("deleted IDs = %v", got)
	}
	if app.Selection().Count() != 0 {
		t.Error("selection should clear after a bulk delete")
	}
	if app.CurrentMode() != tui.ModeNormal {
		t.Error("mode should return to normal")
	}
}

func TestApp_DeleteWithoutSelectionDoesNothing(t *testing.T) {
	api := newFakeAPI()
	app := newTestApp(t, api)
	app = openFirstFolder(t, app)

	app = drive(t, app, keyRune('d'))
	if app.CurrentMode() != tui.ModeNormal {
		t.Error("d without a selection should not open the confirm prompt")
	}
	if len(api.deleted) != 0 {
		t.Error("no delete call expected")
	}
}

func TestApp_BulkMoveFlow(t *testing.T) {
	api := newFakeAPI()
	app := newTestApp(t, api)
	app = openFirstFolder(t, app)

	app = drive(t, app, keyRune(' '), keyRune('m'))
	if app.CurrentMode() != tui.ModeMove {
		t.Fatal("m with a selection should open the folder picker")
	}

	// Narrow to Pets and confirm.
	app = drive(t, app,
		keyRune('P'), keyRune('e'), keyRune('t'), keyRune('s'),
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if len(api.moved) != 1 {
		t.Fatalf("expected one bulk move call, got %d", len(api.moved))
	}
	if api.moved[0].target != "f2" {
		t.Errorf("move target = %q, want f2", api.moved[0].target)
	}
	if got := api.moved[0].ids; len(got) != 1 || got[0] != "p1" {
		t.Errorf("moved IDs = %v", got)
	}
}

func TestApp_SearchCommitRefetches(t *testing.T) {
	api := newFakeAPI()
	app := newTestApp(t, api)
	app = openFirstFolder(t, app)

	app = drive(t, app, keyRune('/'))
	if app.CurrentMode() != tui.ModeSearch {
		t.Fatal("/ should enter search mode")
	}

	app = drive(t, app,
		keyRune('b'), keyRune('e'), keyRune('a'),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	// Enter flushes the debounce; deliver the committed value the way the
	// channel listener would.
	app = drive(t, app, tui.SearchCommitted("bea"))

	if app.Query() != "bea" {
		t.Errorf("query = %q, want %q", app.Query(), "bea")
	}
	if len(app.Photos()) != 1 || app.Photos()[0].ID != "p1" {
		t.Errorf("photos = %v", app.Photos())
	}
	if app.Page() != 1 {
		t.Errorf("search should reset to page 1, got %d", app.Page())
	}
}

func TestApp_StaleResponseForOldSearchDiscarded(t *testing.T) {
	api := newFakeAPI()
	app := newTestApp(t, api)
	app = openFirstFolder(t, app)

	app = drive(t, app, tui.SearchCommitted("bea"))
	if len(app.Photos()) != 1 {
		t.Fatalf("photos after search = %d, want 1", len(app.Photos()))
	}

	// A slow fetch for the pre-search view lands after the query changed.
	stale, err := api.ListPhotos(context.Background(), client.ListPhotosParams{
		FolderID: "f1", Page: 1, PerPage: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	app = drive(t, app, tui.PhotosLoaded("f1", 1, "", stale, nil))

	if len(app.Photos()) != 1 || app.Photos()[0].ID != "p1" {
		t.Errorf("stale response overwrote search results: %v", app.Photos())
	}
}

func TestApp_TreeExpandCollapse(t *testing.T) {
	app := newTestApp(t, newFakeAPI())

	// Vacation has a child; space toggles without opening.
	app = drive(t, app, keyRune(' '))
	if !app.Tree().IsExpanded("f1") {
		t.Error("space should expand the folder under the tree cursor")
	}

	app = drive(t, app, keyRune(' '))
	if app.Tree().IsExpanded("f1") {
		t.Error("space again should collapse")
	}
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, newFakeAPI())

	app = drive(t, app, keyRune('?'))
	if app.CurrentMode() != tui.ModeHelp {
		t.Fatal("? should open help")
	}
	app = drive(t, app, keyRune('x'))
	if app.CurrentMode() != tui.ModeNormal {
		t.Error("any key should close help")
	}
}

func TestApp_QuitCommand(t *testing.T) {
	app := newTestApp(t, newFakeAPI())

	_, cmd := app.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("q should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestApp_ViewRendersPhotosAndSelection(t *testing.T) {
	app := newTestApp(t, newFakeAPI())
	app = openFirstFolder(t, app)
	app = drive(t, app, keyRune(' '))

	view := app.View()
	for _, want := range []string{"Vacation", "beach.jpg", "[x]", "2 KB", "1 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
