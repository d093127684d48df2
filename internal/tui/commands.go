package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumapix/lumapix-client/pkg/client"
	"github.com/lumapix/lumapix-client/pkg/models"
	"github.com/lumapix/lumapix-client/pkg/protocol"
	"github.com/lumapix/lumapix-client/pkg/query"
	"github.com/lumapix/lumapix-client/pkg/retry"
)

// API is the subset of the client the TUI drives.
type API interface {
	ListFolders(ctx context.Context) ([]models.Folder, error)
	CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error)
	RenameFolder(ctx context.Context, folderID, name string) (*models.Folder, error)
	ListPhotos(ctx context.Context, p client.ListPhotosParams) (*protocol.PhotoListResponse, error)
	BulkDeletePhotos(ctx context.Context, photoIDs []string) (*protocol.BulkDeleteResponse, error)
	BulkMovePhotos(ctx context.Context, photoIDs []string, targetFolderID string) (*protocol.BulkMoveResponse, error)
	BaseURL() string
}

type foldersLoadedMsg struct {
	folders []models.Folder
	err     error
}

type photosLoadedMsg struct {
	folderID string
	page     int
	search   string
	resp     *protocol.PhotoListResponse
	err      error
}

type bulkDoneMsg struct {
	action string // "delete" or "move"
	done   int
	failed []protocol.BulkFailure
	err    error
}

type folderSavedMsg struct {
	folder *models.Folder
	err    error
}

type searchCommittedMsg struct {
	query string
}

type eventMsg struct {
	event protocol.Event
	ok    bool
}

type yankedMsg struct {
	url string
	err error
}

type statusClearMsg struct{}

// FoldersLoaded builds the message that delivers a folder list to the
// model, for callers that load folders outside the model's own command.
func FoldersLoaded(folders []models.Folder, err error) tea.Msg {
	return foldersLoadedMsg{folders: folders, err: err}
}

// SearchCommitted builds the message that applies a committed search
// query, for callers that run the debounce outside the model.
func SearchCommitted(query string) tea.Msg {
	return searchCommittedMsg{query: query}
}

// PhotosLoaded builds the message that delivers a photo page fetched for
// the given folder, page, and search query, for callers that load photos
// outside the model's own command.
func PhotosLoaded(folderID string, page int, search string, resp *protocol.PhotoListResponse, err error) tea.Msg {
	return photosLoadedMsg{folderID: folderID, page: page, search: search, resp: resp, err: err}
}

func photosKey(folderID string, page, perPage int, sort, search string) string {
	return query.Key(query.ResourcePhotos, folderID,
		strconv.Itoa(page), strconv.Itoa(perPage), sort, search)
}

func (a App) loadFolders() tea.Cmd {
	api, cache, appCtx := a.api, a.cache, a.ctx
	return func() tea.Msg {
		binding := query.NewRead(cache, query.FoldersKey(),
			func(ctx context.Context) ([]models.Folder, error) {
				return api.ListFolders(ctx)
			},
			query.WithRetry(retry.Once(), client.IsTransient),
		)
		folders, err := binding.Get(appCtx)
		return foldersLoadedMsg{folders: folders, err: err}
	}
}

func (a App) loadPhotos() tea.Cmd {
	api, cache, appCtx := a.api, a.cache, a.ctx
	params := client.ListPhotosParams{
		FolderID: a.currentFolderID,
		Page:     a.page,
		PerPage:  a.pageSize,
		Sort:     a.sort,
		Search:   a.query,
	}
	key := photosKey(params.FolderID, params.Page, params.PerPage, params.Sort, params.Search)
	return func() tea.Msg {
		binding := query.NewRead(cache, key,
			func(ctx context.Context) (*protocol.PhotoListResponse, error) {
				return api.ListPhotos(ctx, params)
			},
			query.WithRetry(retry.Once(), client.IsTransient),
		)
		resp, err := binding.Get(appCtx)
		return photosLoadedMsg{
			folderID: params.FolderID,
			page:     params.Page,
			search:   params.Search,
			resp:     resp,
			err:      err,
		}
	}
}

func (a App) bulkDelete(photoIDs []string) tea.Cmd {
	api, cache, appCtx := a.api, a.cache, a.ctx
	folderID := a.currentFolderID
	return func() tea.Msg {
		mut := query.NewMutation(cache,
			func(ctx context.Context, ids []string) (*protocol.BulkDeleteResponse, error) {
				return api.BulkDeletePhotos(ctx, ids)
			},
			query.PhotosPrefix(folderID),
		)
		resp, err := mut.Do(appCtx, photoIDs)
		if err != nil {
			return bulkDoneMsg{action: "delete", err: err}
		}
		return bulkDoneMsg{action: "delete", done: len(resp.Deleted), failed: resp.Failed}
	}
}

func (a App) bulkMove(photoIDs []string, targetFolderID string) tea.Cmd {
	api, cache, appCtx := a.api, a.cache, a.ctx
	sourceID := a.currentFolderID
	return func() tea.Msg {
		mut := query.NewMutation(cache,
			func(ctx context.Context, ids []string) (*protocol.BulkMoveResponse, error) {
				return api.BulkMovePhotos(ctx, ids, targetFolderID)
			},
			query.PhotosPrefix(sourceID),
			query.PhotosPrefix(targetFolderID),
		)
		resp, err := mut.Do(appCtx, photoIDs)
		if err != nil {
			return bulkDoneMsg{action: "move", err: err}
		}
		return bulkDoneMsg{action: "move", done: len(resp.Moved), failed: resp.Failed}
	}
}

func (a App) createFolder(name string, parentID *string) tea.Cmd {
	api, cache, appCtx := a.api, a.cache, a.ctx
	return func() tea.Msg {
		mut := query.NewMutation(cache,
			func(ctx context.Context, n string) (*models.Folder, error) {
				return api.CreateFolder(ctx, n, parentID)
			},
			query.FoldersKey(),
		)
		folder, err := mut.Do(appCtx, name)
		return folderSavedMsg{folder: folder, err: err}
	}
}

func (a App) renameFolder(folderID, name string) tea.Cmd {
	api, cache, appCtx := a.api, a.cache, a.ctx
	return func() tea.Msg {
		mut := query.NewMutation(cache,
			func(ctx context.Context, n string) (*models.Folder, error) {
				return api.RenameFolder(ctx, folderID, n)
			},
			query.FoldersKey(),
		)
		folder, err := mut.Do(appCtx, name)
		return folderSavedMsg{folder: folder, err: err}
	}
}

func yankURL(url string) tea.Cmd {
	return func() tea.Msg {
		return yankedMsg{url: url, err: clipboard.WriteAll(url)}
	}
}

// waitSearch blocks until the debounced search value commits.
func waitSearch(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		q, ok := <-ch
		if !ok {
			return nil
		}
		return searchCommittedMsg{query: q}
	}
}

// waitEvent blocks until the next server change notification.
func waitEvent(ch <-chan protocol.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		return eventMsg{event: ev, ok: ok}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}
