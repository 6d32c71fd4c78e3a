package swagcall

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/swagcall/swagspec"
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
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          required: false
          type: integer
        - name: X-Trace
          in: header
          required: false
          type: string
      responses:
        "200":
          description: pets
    post:
      operationId: addPet
      parameters:
        - name: pet
          in: body
          required: true
          schema:
            type: object
            required:
              - name
            properties:
              name:
                type: string
      responses:
        "201":
          description: created
  /pets/{id}:
    get:
      operationId: getPetById
      parameters:
        - name: id
          in: path
          required: true
          type: integer
        - name: limit
          in: query
          required: false
          type: integer
      responses:
        "200":
          description: a pet
  /login:
    post:
      operationId: login
      parameters:
        - name: username
          in: formData
          required: true
          type: string
        - name: password
          in: formData
          required: true
          type: string
      responses:
        "200":
          description: ok
`

func writeTestSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

func loadTestDocument(t *testing.T, content string) *swagspec.Document {
	t.Helper()
	doc, err := swagspec.Load(context.Background(), writeTestSpec(t, content))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return doc
}
