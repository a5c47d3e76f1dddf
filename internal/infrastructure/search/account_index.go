package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
)

// AccountsMapping is the index mapping used when the index is first created.
const AccountsMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "email":      {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "full_name":  {"type": "text"},
      "nim":        {"type": "keyword"},
      "major":      {"type": "text"},
      "batch":      {"type": "keyword"},
      "city":       {"type": "text"},
      "avatar_url": {"type": "keyword", "index": false},
      "is_seller":  {"type": "boolean"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

// AccountIndex indexes public account fields into Elasticsearch.
type AccountIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewAccountIndex(es *elasticsearch.Client, index string) *AccountIndex {
	return &AccountIndex{ES: es, Index: index}
}

// Document builds the indexed document. Status and verification flags are not indexed.
func Document(a *entity.Account) map[string]any {
	return map[string]any{
		"id":         a.ID,
		"email":      a.Email,
		"full_name":  a.FullName,
		"nim":        a.NIM,
		"major":      a.Major,
		"batch":      a.Batch,
		"city":       a.City,
		"avatar_url": a.AvatarURL,
		"is_seller":  a.IsSeller,
		"created_at": a.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": a.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (x *AccountIndex) IndexAccount(ctx context.Context, a *entity.Account) error {
	b, err := json.Marshal(Document(a))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index account %s: %s", a.ID, res.Status())
	}
	return nil
}

// SearchQuery builds a multi_match query over name, email, nim and major.
func SearchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"full_name^3", "email^2", "nim^2", "major"},
			},
		},
		"size": size,
	}
}

func (x *AccountIndex) SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	b, err := json.Marshal(SearchQuery(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search accounts: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
