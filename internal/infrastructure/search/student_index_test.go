package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

func fakeES(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &calls
}

func TestIndexStudent(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})
	idx := NewStudentIndex(es, "students")

	err := idx.IndexStudent(context.Background(), entity.Student{
		ID: "student-1", Name: "John Doe", Email: "john@example.com", Contact: "555", Signature: "data:image/png;base64,AAA",
	}, "column-1")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/students/_doc/student-1", call.path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.body), &doc))
	assert.Equal(t, "John Doe", doc["name"])
	assert.Equal(t, "column-1", doc["column_id"])
	assert.NotContains(t, doc, "signature")
}

func TestIndexStudentErrorStatus(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad"}`)
	})
	err := NewStudentIndex(es, "students").IndexStudent(context.Background(), entity.Student{ID: "x"}, "")
	assert.Error(t, err)
}

func TestSearchStudents(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"hits":[
			{"_id":"student-2","_source":{"id":"student-2","name":"Jane"}},
			{"_id":"student-9","_source":{}}
		]}}`)
	})

	ids, err := NewStudentIndex(es, "students").SearchStudents(context.Background(), "jane", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"student-2", "student-9"}, ids)

	require.Len(t, *calls, 1)
	assert.True(t, strings.HasSuffix((*calls)[0].path, "/students/_search"))
	assert.Contains(t, (*calls)[0].body, `"size":10`)
	assert.Contains(t, (*calls)[0].body, `"query":"jane"`)

	_, err = NewStudentIndex(es, "students").SearchStudents(context.Background(), "jane", 500)
	require.NoError(t, err)
	require.Len(t, *calls, 2)
	assert.Contains(t, (*calls)[1].body, `"size":50`)
}

func TestPruneStudents(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"deleted":3}`)
	})
	err := NewStudentIndex(es, "students").PruneStudents(context.Background(), []string{"student-1", "student-2"})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/students/_delete_by_query", call.path)
	assert.Contains(t, call.body, `"must_not"`)
	assert.Contains(t, call.body, `"values":["student-1","student-2"]`)
}

func TestPruneStudentsMissingIndex(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"}}`)
	})
	assert.NoError(t, NewStudentIndex(es, "students").PruneStudents(context.Background(), nil))

	es, _ = fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{}`)
	})
	assert.Error(t, NewStudentIndex(es, "students").PruneStudents(context.Background(), nil))
}
