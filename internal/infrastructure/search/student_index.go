package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// StudentIndex mirrors student records into an Elasticsearch index so they
// can be searched by name, email or contact.
type StudentIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewStudentIndex(es *elasticsearch.Client, index string) *StudentIndex {
	return &StudentIndex{ES: es, Index: index}
}

type studentDoc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
	ColumnID  string `json:"column_id,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

// IndexStudent upserts the searchable fields of s. The signature is not indexed.
func (x *StudentIndex) IndexStudent(ctx context.Context, s entity.Student, columnID string) error {
	doc := studentDoc{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Contact:   s.Contact,
		ColumnID:  columnID,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: s.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index student %s: %s", s.ID, res.Status())
	}
	return nil
}

// SearchStudents runs a multi_match query and returns matching student ids in
// relevance order.
func (x *StudentIndex) SearchStudents(ctx context.Context, q string, size int) ([]string, error) {
	switch {
	case size <= 0:
		size = 10
	case size > 50:
		size = 50
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "email", "contact"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search students: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string     `json:"_id"`
				Source studentDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id := h.Source.ID
		if id == "" {
			id = h.ID
		}
		out = append(out, id)
	}
	return out, nil
}

// PruneStudents deletes every document whose id is not in keep. A missing
// index is not an error.
func (x *StudentIndex) PruneStudents(ctx context.Context, keep []string) error {
	if keep == nil {
		keep = []string{}
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must_not": map[string]any{
					"ids": map[string]any{"values": keep},
				},
			},
		},
	}
	b, err := json.Marshal(query)
	if err != nil {
		return err
	}
	req := esapi.DeleteByQueryRequest{
		Index:     []string{x.Index},
		Body:      strings.NewReader(string(b)),
		Conflicts: "proceed",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("prune students: %s", res.Status())
	}
	return nil
}
