// Lumapix terminal client.
//
// Interactive photo browser with folder navigation, bulk selection, and
// resumable uploads against a Lumapix server.
//
// Sub-commands:
//
//	lumapix login [flags]            Sign in and save a token
//	lumapix logout                   Revoke and delete the saved token
//	lumapix upload [flags] <files>   Upload files into a folder
//	lumapix browse [flags]           Open the interactive browser (default)
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/lumapix/lumapix-client/internal/config"
	"github.com/lumapix/lumapix-client/internal/logging"
	"github.com/lumapix/lumapix-client/internal/tui"
	"github.com/lumapix/lumapix-client/pkg/client"
	"github.com/lumapix/lumapix-client/pkg/format"
	"github.com/lumapix/lumapix-client/pkg/query"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "login":
			cmdLogin(os.Args[2:])
			return
		case "logout":
			cmdLogout(os.Args[2:])
			return
		case "upload":
			cmdUpload(os.Args[2:])
			return
		case "browse":
			// Strip "browse" and fall through to normal parsing
			os.Args = append(os.Args[:1], os.Args[2:]...)
		}
	}

	cmdBrowse()
}

func cmdBrowse() {
	serverURL := flag.String("server", "", "Server URL (default: LUMAPIX_SERVER)")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")
	flag.Parse()

	if *serverURL != "" {
		os.Setenv("LUMAPIX_SERVER", *serverURL)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stderr is the TUI's screen; logs must go elsewhere.
	logPath := cfg.LogFile
	if *logFile != "" {
		logPath = *logFile
	}
	if logPath == "" {
		logPath = os.DevNull
	}
	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: logPath,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	api := newClient(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := query.NewCache(cfg.CacheTTL)

	events := client.NewEventsClient(cfg.ServerURL)
	if tf := restoreToken(api, cfg); tf != nil {
		events.SetAuthToken(tf.Token)
		api.StartTokenRefreshLoop(ctx, tf, cfg.TokenFile)
	}
	eventCh, eventErrs := events.Subscribe(ctx)
	go func() {
		// stderr is the TUI screen; stream drops go to the log file.
		for err := range eventErrs {
			logging.L().Warn("event stream error", zap.Error(err))
		}
	}()

	app := tui.NewApp(tui.AppParams{
		API:            api,
		Cache:          cache,
		Events:         eventCh,
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	serverURL := fs.String("server", "", "Server URL (default: LUMAPIX_SERVER)")
	deviceName := fs.String("device", "", "Device name (default: hostname)")
	fs.Parse(args)

	server := *serverURL
	if server == "" {
		server = os.Getenv("LUMAPIX_SERVER")
	}
	if server == "" {
		fmt.Fprintln(os.Stderr, "Error: no server; pass -server or set LUMAPIX_SERVER")
		os.Exit(1)
	}
	if *deviceName == "" {
		name, _ := os.Hostname()
		*deviceName = name
	}

	logging.Nop()
	c := client.New(client.Config{
		BaseURL: strings.TrimSuffix(server, "/"),
		Timeout: 30 * time.Second,
	})
	ctx := context.Background()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}

	resp, err := c.Login(ctx, email, string(passwordBytes), *deviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", client.Describe(err))
		os.Exit(1)
	}

	tf := &client.TokenFile{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		Server:    server,
		Email:     resp.User.Email,
	}
	path := tokenPath()
	if err := client.SaveTokenFile(path, tf); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save token: %v\n", err)
	}
	fmt.Printf("Login successful! Token saved to %s\n", path)
}

func cmdLogout(args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	fs.Parse(args)

	logging.Nop()
	path := tokenPath()
	tf, err := client.LoadTokenFile(path)
	if err != nil {
		fmt.Println("Not logged in.")
		return
	}

	c := client.New(client.Config{
		BaseURL:   strings.TrimSuffix(tf.Server, "/"),
		Timeout:   30 * time.Second,
		AuthToken: tf.Token,
	})
	if err := c.Logout(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: server logout failed: %v\n", err)
	}
	if err := client.DeleteTokenFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to delete token file: %v\n", err)
	}
	fmt.Println("Logged out.")
}

func cmdUpload(args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	folderID := fs.String("folder", "", "Target folder ID (required)")
	resumeID := fs.String("resume", "", "Resume an interrupted upload session")
	fs.Parse(args)

	if *folderID == "" {
		fmt.Fprintln(os.Stderr, "Error: -folder is required")
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no files to upload")
		os.Exit(1)
	}
	if *resumeID != "" && fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: -resume uploads a single file")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.InitDefault()
	defer logging.Sync()

	api := newClient(cfg)
	restoreToken(api, cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if fs.NArg() == 1 {
		path := fs.Arg(0)
		if err := uploadOne(ctx, api, *folderID, *resumeID, path, true); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %s\n", path, client.Describe(err))
			os.Exit(1)
		}
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.UploadConcurrency)
	for _, path := range fs.Args() {
		path := path
		g.Go(func() error {
			if err := uploadOne(ctx, api, *folderID, "", path, false); err != nil {
				return fmt.Errorf("%s: %s", path, client.Describe(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func uploadOne(ctx context.Context, api *client.Client, folderID, resumeID, path string, progress bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	req := client.UploadRequest{
		FolderID: folderID,
		FileName: info.Name(),
		MimeType: format.MimeByExtension(info.Name()),
		Size:     info.Size(),
		Content:  f,
		ResumeID: resumeID,
	}
	if progress {
		req.OnProgress = func(p client.UploadProgress) {
			fmt.Printf("\r%s: chunk %d/%d (%s of %s)",
				info.Name(), p.SentChunks, p.TotalChunks,
				format.Bytes(p.SentBytes), format.Bytes(p.TotalBytes))
		}
	}

	photo, err := api.UploadFile(ctx, req)
	if err != nil {
		if progress {
			fmt.Println()
		}
		return err
	}

	if progress {
		fmt.Print("\r")
	}
	fmt.Printf("%s: uploaded as %s%s\n", info.Name(), photo.ID, strings.Repeat(" ", 20))
	return nil
}

// newClient builds the API client, with an upload timeout generous enough
// for a slow chunk.
func newClient(cfg *config.Config) *client.Client {
	return client.New(client.Config{
		BaseURL: strings.TrimSuffix(cfg.ServerURL, "/"),
		Timeout: cfg.RequestTimeout,
	})
}

// tokenPath resolves the token file location, honoring LUMAPIX_TOKEN_FILE.
func tokenPath() string {
	if p := os.Getenv("LUMAPIX_TOKEN_FILE"); p != "" {
		return p
	}
	return client.TokenFilePath()
}

// restoreToken installs the saved token if one exists and is still valid.
func restoreToken(api *client.Client, cfg *config.Config) *client.TokenFile {
	path := cfg.TokenFile
	if path == "" {
		path = client.TokenFilePath()
	}
	tf, err := client.LoadTokenFile(path)
	if err != nil {
		return nil
	}
	if tf.IsExpired(0) {
		logging.L().Warn("saved token has expired; run lumapix login", zap.Time("expired_at", tf.ExpiresAt))
		return nil
	}
	api.SetAuthToken(tf.Token)
	return tf
}
