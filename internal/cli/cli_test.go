package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const petstoreV2 = `
swagger: "2.0"
info:
  title: Petstore
  version: "1.0"
host: petstore.example.com
basePath: /v2
schemes:
  - http
paths:
  /pets/{id}:
    get:
      operationId: getPetById
      parameters:
        - name: id
          in: path
          required: true
          type: integer
      responses:
        "200":
          description: a pet
`

func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	if err := os.WriteFile(path, []byte(petstoreV2), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDescribe_ListsOperations(t *testing.T) {
	t.Parallel()
	out, err := execute(t, "describe", "--input", writeSpec(t))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !strings.Contains(out, "getPetById") || !strings.Contains(out, "GET /pets/{id}") {
		t.Fatalf("output missing operation listing:\n%s", out)
	}
	if !strings.Contains(out, "id (path, integer, required)") {
		t.Fatalf("output missing parameter detail:\n%s", out)
	}
}

func TestDescribe_RequiresInput(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "describe")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestDescribe_UnknownOperation(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "describe", "--input", writeSpec(t), "--operation", "nope")
	if err == nil || !strings.Contains(err.Error(), "unknown operation") {
		t.Fatalf("expected unknown-operation error, got %v", err)
	}
}

func TestCall_InvokesServer(t *testing.T) {
	t.Parallel()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"name":"rex"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "call",
		"--input", writeSpec(t),
		"--operation", "getPetById",
		"--arg", "id=42",
		"--base-url", srv.URL)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if gotPath != "/v2/pets/42" {
		t.Fatalf("server saw path %q", gotPath)
	}
	if !strings.Contains(out, "200") || !strings.Contains(out, `"name":"rex"`) {
		t.Fatalf("output = %q", out)
	}
}

func TestCall_ValidationFailurePrintsAsTransaction(t *testing.T) {
	t.Parallel()
	out, err := execute(t, "call",
		"--input", writeSpec(t),
		"--operation", "getPetById")
	if err != nil {
		t.Fatalf("validation failure should not be a CLI error: %v", err)
	}
	if !strings.Contains(out, "400") || !strings.Contains(out, "ValidationError") {
		t.Fatalf("output = %q", out)
	}
}

func TestCall_MalformedArg(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "call",
		"--input", writeSpec(t),
		"--operation", "getPetById",
		"--arg", "noequals")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestUnknownFlagBecomesUsageError(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "describe", "--definitely-not-a-flag")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRootShowsHelp(t *testing.T) {
	t.Parallel()
	out, err := execute(t)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if !strings.Contains(out, "describe") || !strings.Contains(out, "call") {
		t.Fatalf("help output missing subcommands:\n%s", out)
	}
}
