package swagcall

import (
	"errors"
	"net/http"
	"testing"
)

func TestGenerateOperations_Petstore(t *testing.T) {
	t.Parallel()
	doc := loadTestDocument(t, petstoreV2)
	ops, names, err := generateOperations(doc)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"addPet", "getPetById", "listPets", "login"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
	get := ops["getPetById"]
	if get.Method != http.MethodGet || get.Path != "/pets/{id}" {
		t.Fatalf("getPetById = %s %s", get.Method, get.Path)
	}
	if len(get.Params) != 2 {
		t.Fatalf("getPetById params = %d", len(get.Params))
	}
	if ops["addPet"].Method != http.MethodPost {
		t.Fatalf("addPet method = %s", ops["addPet"].Method)
	}
}

func TestGenerateOperations_SkipsUnnamed(t *testing.T) {
	t.Parallel()
	doc := loadTestDocument(t, `
swagger: "2.0"
info: {title: t, version: "1"}
paths:
  /a:
    get:
      responses:
        "200": {description: ok}
  /b:
    get:
      operationId: namedOp
      responses:
        "200": {description: ok}
`)
	ops, names, err := generateOperations(doc)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(names) != 1 || names[0] != "namedOp" {
		t.Fatalf("unnamed operation should be skipped silently, got %v", names)
	}
	if _, ok := ops["namedOp"]; !ok {
		t.Fatalf("named operation missing")
	}
}

func TestGenerateOperations_SanitizesNames(t *testing.T) {
	t.Parallel()
	doc := loadTestDocument(t, `
swagger: "2.0"
info: {title: t, version: "1"}
paths:
  /a:
    get:
      operationId: get-pet.by id
      responses:
        "200": {description: ok}
`)
	_, names, err := generateOperations(doc)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(names) != 1 || names[0] != "get_pet_by_id" {
		t.Fatalf("sanitized name = %v", names)
	}
}

func TestGenerateOperations_CollisionIsError(t *testing.T) {
	t.Parallel()
	doc := loadTestDocument(t, `
swagger: "2.0"
info: {title: t, version: "1"}
paths:
  /a:
    get:
      operationId: do.thing
      responses:
        "200": {description: ok}
  /b:
    get:
      operationId: do-thing
      responses:
        "200": {description: ok}
`)
	_, _, err := generateOperations(doc)
	if err == nil {
		t.Fatalf("expected collision error")
	}
	if !errors.Is(err, ErrDuplicateOperation) {
		t.Fatalf("expected ErrDuplicateOperation, got %v", err)
	}
}

func TestGenerateOperations_MergesPathLevelParameters(t *testing.T) {
	t.Parallel()
	doc := loadTestDocument(t, `
swagger: "2.0"
info: {title: t, version: "1"}
paths:
  /pets/{id}:
    parameters:
      - name: id
        in: path
        required: true
        type: string
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          type: integer
      responses:
        "200": {description: ok}
    delete:
      operationId: deletePet
      responses:
        "200": {description: ok}
`)
	ops, _, err := generateOperations(doc)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	get := ops["getPet"]
	if len(get.Params) != 1 {
		t.Fatalf("merged params = %d, want 1", len(get.Params))
	}
	if get.Params[0].Type != "integer" {
		t.Fatalf("operation-level parameter should win, got type %q", get.Params[0].Type)
	}
	del := ops["deletePet"]
	if len(del.Params) != 1 || del.Params[0].Type != "string" {
		t.Fatalf("path-level parameter should apply to deletePet, got %+v", del.Params)
	}
}

func TestParsePathTemplate(t *testing.T) {
	t.Parallel()
	segs := parsePathTemplate("/pets/{id}/photos")
	if len(segs) != 3 {
		t.Fatalf("segments = %d", len(segs))
	}
	if segs[0].literal != "pets" || segs[0].param != "" {
		t.Fatalf("seg0 = %+v", segs[0])
	}
	if segs[1].param != "id" {
		t.Fatalf("seg1 = %+v", segs[1])
	}
	if segs[2].literal != "photos" {
		t.Fatalf("seg2 = %+v", segs[2])
	}
}
