package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "mainstage/internal/adapters/http"
	"mainstage/internal/adapters/storage"
	accessStore "mainstage/internal/adapters/storage/access"
	reportStore "mainstage/internal/adapters/storage/report"
	teamStore "mainstage/internal/adapters/storage/team"
	"mainstage/internal/application/orchestrators"
	"mainstage/internal/config"
)

// Test passcodes seeded into every test app.
const (
	testAdminPasscode = "backstage-test"
	testTeamPasscode  = "gig-em-test"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an
// HTTP server. Tests skip when the Playwright driver is not installed.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}

	timedDB := storage.NewTimedDB(db)
	teams := teamStore.NewSQLiteStore(timedDB, teamStore.WithFeed(teamStore.NewFeed()))
	identities := accessStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		TeamStore:     teams,
		TeamWatcher:   teams,
		ReportStore:   reportStore.NewSQLiteStore(timedDB),
		IdentityStore: identities,
	}

	// Seed the lineup and test passcodes
	seedInput := orchestrators.SeedInput{
		AdminPasscode: testAdminPasscode,
		TeamPasscodes: map[string]string{"tamu": testTeamPasscode},
	}
	seedDeps := orchestrators.SeedDeps{TeamStore: teams, IdentityStore: identities}
	if err := orchestrators.ExecuteSeed(context.Background(), seedInput, seedDeps); err != nil {
		t.Fatalf("failed to seed test app: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	cfg := config.New()
	mux := web.NewMux(t.TempDir(), stores, cfg)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		srv.Close()
		db.Close()
		t.Skipf("playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		srv.Close()
		db.Close()
		t.Skipf("chromium unavailable: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newAPIContext creates a cookie-holding API request context for driving the
// JSON surface the way the frontend does.
func (a *testApp) newAPIContext(t *testing.T) playwright.APIRequestContext {
	t.Helper()
	ctx, err := a.PW.Request.NewContext(playwright.APIRequestNewContextOptions{
		BaseURL: playwright.String(a.BaseURL),
	})
	if err != nil {
		t.Fatalf("failed to create API context: %v", err)
	}
	t.Cleanup(func() { ctx.Dispose() })
	return ctx
}

// login posts the passcode and keeps the session cookie on the context.
func login(t *testing.T, ctx playwright.APIRequestContext, passcode string) {
	t.Helper()
	resp, err := ctx.Post("/login", playwright.APIRequestContextPostOptions{
		Data: map[string]any{"passcode": passcode},
	})
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.Status() != http.StatusOK {
		body, _ := resp.Text()
		t.Fatalf("login status = %d, body = %s", resp.Status(), body)
	}
}
