package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"quinta/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// RoomIndex mirrors the rooms table into Elasticsearch for the free-text
// search endpoint. Postgres stays the source of truth; documents are
// re-indexed on every room mutation.
type RoomIndex struct {
	client *elasticsearch.Client
	index  string
}

type Config struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

type roomDocument struct {
	ID            int64  `json:"id"`
	RoomNumber    int    `json:"room_number"`
	Type          string `json:"type"`
	PricePerNight string `json:"price_per_night"`
	Capacity      int    `json:"capacity"`
	Title         string `json:"title"`
	Description   string `json:"description"`
}

func NewRoomIndex(cfg Config) (*RoomIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	idx := &RoomIndex{client: es, index: cfg.Index}

	if err := idx.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return idx, nil
}

func (i *RoomIndex) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{Index: []string{i.index}}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", i.index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":              map[string]interface{}{"type": "long"},
				"room_number":     map[string]interface{}{"type": "integer"},
				"type":            map[string]interface{}{"type": "keyword"},
				"price_per_night": map[string]interface{}{"type": "keyword"},
				"capacity":        map[string]interface{}{"type": "integer"},
				"title":           map[string]interface{}{"type": "text"},
				"description":     map[string]interface{}{"type": "text"},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal index mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: i.index,
		Body:  bytes.NewReader(body),
	}

	createRes, err := createReq.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("index creation returned status %d", createRes.StatusCode)
	}

	slog.Info("Created Elasticsearch index", "index", i.index)
	return nil
}

// IndexRoom upserts a room document.
func (i *RoomIndex) IndexRoom(ctx context.Context, room *models.Room) error {
	doc := roomDocument{
		ID:            room.ID,
		RoomNumber:    room.RoomNumber,
		Type:          room.Type,
		PricePerNight: room.PricePerNight.String(),
		Capacity:      room.Capacity,
		Title:         room.Title,
		Description:   room.Description,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal room document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: strconv.FormatInt(room.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("failed to index room: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("room indexing returned status %d", res.StatusCode)
	}
	return nil
}

// DeleteRoom removes a room document. A missing document is not an error.
func (i *RoomIndex) DeleteRoom(ctx context.Context, roomID int64) error {
	req := esapi.DeleteRequest{
		Index:      i.index,
		DocumentID: strconv.FormatInt(roomID, 10),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("failed to delete room document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("room deletion returned status %d", res.StatusCode)
	}
	return nil
}

// SearchIDs returns the IDs of rooms matching the free-text input across
// title, description, type, price and number fields.
func (i *RoomIndex) SearchIDs(ctx context.Context, input string) ([]int64, error) {
	should := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  input,
				"fields": []string{"title^2", "description", "type", "price_per_night"},
			},
		},
	}

	if n, err := strconv.Atoi(input); err == nil {
		should = append(should,
			map[string]interface{}{"term": map[string]interface{}{"room_number": n}},
			map[string]interface{}{"term": map[string]interface{}{"capacity": n}},
		)
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"size": 100,
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search returned status %d", res.StatusCode)
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source roomDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]int64, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}
