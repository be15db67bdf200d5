package search

import (
	"fmt"

	"github.com/meilisearch/meilisearch-go"

	"spot-rental-api/internal/models"
)

// SpotDocument is the shape indexed into Meilisearch. It carries only the
// fields search needs; the API always re-reads the database for responses.
type SpotDocument struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Price       float64 `json:"price"`
}

// Client wraps the Meilisearch index holding spot documents.
type Client struct {
	client *meilisearch.Client
	index  string
}

// NewClient creates a search client for the spots index.
func NewClient(host, apiKey string) *Client {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &Client{
		client: client,
		index:  "spots",
	}
}

// InitIndex initializes the Meilisearch index
func (c *Client) InitIndex() error {
	_, err := c.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        c.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = c.client.Index(c.index).UpdateSearchableAttributes(&[]string{
		"name",
		"description",
		"address",
		"city",
		"state",
		"country",
	})
	if err != nil {
		return err
	}

	_, err = c.client.Index(c.index).UpdateFilterableAttributes(&[]string{
		"id",
		"city",
		"state",
		"country",
		"price",
	})
	if err != nil {
		return err
	}

	_, err = c.client.Index(c.index).UpdateSortableAttributes(&[]string{
		"price",
	})
	return err
}

// Document converts a spot row to its indexable form.
func Document(spot *models.Spot) SpotDocument {
	return SpotDocument{
		ID:          spot.ID,
		Name:        spot.Name,
		Description: spot.Description,
		Address:     spot.Address,
		City:        spot.City,
		State:       spot.State,
		Country:     spot.Country,
		Price:       spot.Price,
	}
}

// IndexSpot adds or replaces a single spot document.
func (c *Client) IndexSpot(spot *models.Spot) error {
	_, err := c.client.Index(c.index).AddDocuments([]SpotDocument{Document(spot)})
	return err
}

// IndexSpots indexes multiple spots at once.
func (c *Client) IndexSpots(spots []models.Spot) error {
	if len(spots) == 0 {
		return nil
	}
	docs := make([]SpotDocument, len(spots))
	for i := range spots {
		docs[i] = Document(&spots[i])
	}
	_, err := c.client.Index(c.index).AddDocuments(docs)
	return err
}

// DeleteSpot removes a spot document after the row is deleted.
func (c *Client) DeleteSpot(spotID uint) error {
	_, err := c.client.Index(c.index).DeleteDocument(fmt.Sprint(spotID))
	return err
}
