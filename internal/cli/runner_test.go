package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Makepad-fr/tarefas/internal/config"
	"github.com/Makepad-fr/tarefas/internal/logging"
	"github.com/Makepad-fr/tarefas/internal/model"
	"github.com/Makepad-fr/tarefas/internal/server"
	"github.com/Makepad-fr/tarefas/internal/store/jsonstore"
	"github.com/Makepad-fr/tarefas/internal/ui"
)

type env struct {
	store  *jsonstore.Store
	cfg    *config.Config
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func setup(t *testing.T) *env {
	t.Helper()
	st, err := jsonstore.New(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(server.NewHandler(st, logging.Discard()).Router())
	t.Cleanup(srv.Close)

	e := &env{
		store: st,
		cfg: &config.Config{
			APIURL: srv.URL, Theme: "light", LogLevel: "error", LogFormat: "text",
		},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	oldOut, oldErr := ui.Out, ui.Err
	ui.Out, ui.Err = e.stdout, e.stderr
	t.Cleanup(func() { ui.Out, ui.Err = oldOut, oldErr })
	return e
}

func (e *env) run(input string, args ...string) int {
	return Run(args, Options{Context: context.Background(), Config: e.cfg, In: strings.NewReader(input)})
}

func (e *env) seed(t *testing.T, tasks ...model.Task) []model.Task {
	t.Helper()
	var out []model.Task
	for _, task := range tasks {
		created, err := e.store.Create(context.Background(), task)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, created)
	}
	return out
}

func TestListEmpty(t *testing.T) {
	e := setup(t)
	if code := e.run("", "ls"); code != 0 {
		t.Fatalf("exit %d, stderr %s", code, e.stderr)
	}
	if !strings.Contains(e.stdout.String(), "Nenhuma tarefa encontrada") {
		t.Errorf("stdout: %s", e.stdout)
	}
}

func TestListShowsCards(t *testing.T) {
	e := setup(t)
	e.seed(t, model.Task{Titulo: "Estudar Go", Descricao: "Canais", Data: "2026-10-01"})
	if code := e.run("", "ls"); code != 0 {
		t.Fatalf("exit %d", code)
	}
	out := e.stdout.String()
	for _, want := range []string{"Estudar Go", "Canais", "01/10/2026", "Total 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestListUnreachableStore(t *testing.T) {
	e := setup(t)
	e.cfg.APIURL = "http://127.0.0.1:1"
	if code := e.run("", "ls"); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(e.stderr.String(), "failed to fetch tasks") {
		t.Errorf("diagnostic not logged: %s", e.stderr)
	}
}

func TestAdd(t *testing.T) {
	e := setup(t)
	if code := e.run("", "add", "-t", "Buy milk", "-d", "2% low-fat"); code != 0 {
		t.Fatalf("exit %d, stderr %s", code, e.stderr)
	}
	tasks, _ := e.store.List(context.Background())
	if len(tasks) != 1 || tasks[0].Titulo != "Buy milk" {
		t.Fatalf("store: %+v", tasks)
	}
	if !strings.Contains(e.stdout.String(), "tarefa adicionada") {
		t.Errorf("stdout: %s", e.stdout)
	}
}

func TestAddBlankIsUsageError(t *testing.T) {
	e := setup(t)
	if code := e.run("", "add", "-t", "  ", "-d", "x"); code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
	if !strings.Contains(e.stderr.String(), "preencha o título e a descrição") {
		t.Errorf("stderr: %s", e.stderr)
	}
	tasks, _ := e.store.List(context.Background())
	if len(tasks) != 0 {
		t.Errorf("store: %+v", tasks)
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		args      []string
		wantCode  int
		wantLeft  int
		wantInOut string
	}{
		{"confirmed", "s\n", nil, 0, 0, "tarefa excluída"},
		{"declined", "n\n", nil, 0, 1, "nada foi excluído"},
		{"no input", "", nil, 0, 1, "nada foi excluído"},
		{"forced", "", []string{"-y"}, 0, 0, "tarefa excluída"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			seeded := e.seed(t, model.Task{Titulo: "A", Descricao: "a", Data: "2026-10-01"})

			args := append([]string{"rm"}, tt.args...)
			args = append(args, seeded[0].ID.String())
			if code := e.run(tt.input, args...); code != tt.wantCode {
				t.Fatalf("exit %d, want %d (stderr %s)", code, tt.wantCode, e.stderr)
			}
			tasks, _ := e.store.List(context.Background())
			if len(tasks) != tt.wantLeft {
				t.Errorf("left: %d, want %d", len(tasks), tt.wantLeft)
			}
			if !strings.Contains(e.stdout.String(), tt.wantInOut) {
				t.Errorf("stdout: %s", e.stdout)
			}
		})
	}
}

func TestRemoveUnknownID(t *testing.T) {
	e := setup(t)
	if code := e.run("", "rm", "-y", "nope"); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
}

func TestEditNotImplemented(t *testing.T) {
	e := setup(t)
	e.cfg.LogLevel = "info"
	if code := e.run("", "edit", "3"); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(e.stdout.String(), "será implementada") {
		t.Errorf("stdout: %s", e.stdout)
	}
	if !strings.Contains(e.stderr.String(), "edit requested") {
		t.Errorf("edit not logged: %s", e.stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	e := setup(t)
	for _, args := range [][]string{{"rm"}, {"edit"}, {"frobnicate"}, {"serve", "-backend", "mysql"}} {
		if code := e.run("", args...); code != 2 {
			t.Errorf("%v: exit %d, want 2", args, code)
		}
	}
}

func TestHelp(t *testing.T) {
	e := setup(t)
	if code := e.run("", "help"); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(e.stdout.String(), "Subcommands:") {
		t.Errorf("stdout: %s", e.stdout)
	}
}
