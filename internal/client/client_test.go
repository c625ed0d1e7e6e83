package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/theseus/internal/api"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/storage/sqlite"
)

func TestAPIErrorTaxonomy(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		baseURL     string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "transport failure",
			baseURL:     closedURL,
			wantStatus:  0,
			wantMessage: "request failed",
		},
		{
			name: "detail from server",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"detail":"task 9 not found"}`))
			},
			wantStatus:  http.StatusNotFound,
			wantMessage: "task 9 not found",
		},
		{
			name: "non-json error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Bad Gateway",
		},
		{
			name: "malformed success body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tasks": oops`))
			},
			wantStatus:  http.StatusOK,
			wantMessage: "malformed response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := tt.baseURL
			if tt.handler != nil {
				srv := httptest.NewServer(tt.handler)
				defer srv.Close()
				base = srv.URL
			}

			_, err := New(base, WithTimeout(2*time.Second)).ListTasks(context.Background(), TaskQuery{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v (%T), want *APIError", err, err)
			}
			if apiErr.Status != tt.wantStatus || apiErr.Message != tt.wantMessage {
				t.Errorf("APIError = {%d %q}, want {%d %q}", apiErr.Status, apiErr.Message, tt.wantStatus, tt.wantMessage)
			}
			if apiErr.Method != http.MethodGet || apiErr.Path != "/tasks" {
				t.Errorf("request = %s %s", apiErr.Method, apiErr.Path)
			}
		})
	}
}

func TestRequestShape(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	ctx := context.Background()

	if _, err := c.ListTasks(ctx, TaskQuery{Priority: "high", Sort: "priority"}); err != nil {
		t.Fatal(err)
	}
	if gotMethod != "GET" || gotPath != "/api/tasks" || gotQuery != "priority=high&sort=priority" {
		t.Errorf("list request = %s %s?%s", gotMethod, gotPath, gotQuery)
	}

	if err := c.PutSetting(ctx, "sleep target", models.String("7")); err != nil {
		t.Fatal(err)
	}
	if gotMethod != "PUT" || gotPath != "/api/settings/sleep target" || gotType != "application/json" {
		t.Errorf("put request = %s %s (%s)", gotMethod, gotPath, gotType)
	}
}

func setupTestClient(t *testing.T) *Client {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "theseus.db"))
	store.SetMigrationLog(nil)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	store.SetClock(now)
	srv := httptest.NewServer(api.New(store, api.WithClock(now)).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestClientAgainstServer(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	note, err := c.DailyToday(ctx)
	if err != nil || note != nil {
		t.Errorf("DailyToday() = %v, %v; want nil, nil", note, err)
	}

	due := "2024-03-14"
	task, err := c.CreateTask(ctx, NewTask{Title: "File taxes", Priority: "high", DueDate: &due})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := c.CreateTask(ctx, NewTask{Title: "Someday", Priority: "low"}); err != nil {
		t.Fatal(err)
	}

	agenda, err := c.Agenda(ctx)
	if err != nil {
		t.Fatalf("Agenda() error = %v", err)
	}
	if len(agenda) != 2 || agenda[0].ID != task.ID || agenda[0].Due != "overdue" {
		t.Errorf("agenda = %+v", agenda)
	}

	done := "done"
	updated, err := c.UpdateTask(ctx, task.ID, models.TaskPatch{Status: &done})
	if err != nil || updated.CompletedAt == nil {
		t.Errorf("UpdateTask() = %+v, %v", updated, err)
	}

	_, err = c.UpdateTask(ctx, 999, models.TaskPatch{Status: &done})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("UpdateTask(999) error = %v, want 404 APIError", err)
	}

	_, err = c.CreateTask(ctx, NewTask{Title: ""})
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnprocessableEntity || !strings.Contains(apiErr.Message, "title") {
		t.Errorf("CreateTask(empty) error = %v, want 422 naming title", err)
	}

	points, err := c.SleepChart(ctx, 7)
	if err != nil || len(points) != 7 {
		t.Errorf("SleepChart() = %d points, %v", len(points), err)
	}
	if _, ok := points[6].Values["duration"]; !ok || points[6].Date != "2024-03-15" {
		t.Errorf("last point = %+v", points[6])
	}

	rollup, err := c.FinanceSummary(ctx, "")
	if err != nil || rollup.Expenses != 0 || rollup.Categories == nil {
		t.Errorf("FinanceSummary() = %+v, %v", rollup, err)
	}

	if err := c.PutSetting(ctx, "theme", models.String("dark")); err != nil {
		t.Fatal(err)
	}
	settings, err := c.Settings(ctx)
	if err != nil || settings["theme"] == nil || *settings["theme"] != "dark" || settings["timezone"] == nil {
		t.Errorf("Settings() = %v, %v", settings, err)
	}
}
