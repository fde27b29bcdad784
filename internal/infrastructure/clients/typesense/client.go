package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
	"github.com/heritagecrafts/platform/backend/pkg/config"
	"github.com/heritagecrafts/platform/backend/pkg/retry"
)

// Collection names, one per searchable entity type
const (
	CraftsmenCollection = "craftsmen"
	CoursesCollection   = "courses"
	ProductsCollection  = "products"
	MediaCollection     = "media"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	logger := observability.GetLogger()
	err := retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().
				Int("attempt", attempt).
				Dur("next_delay", nextDelay).
				Err(err).
				Msg("typesense connection failed, retrying")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("connect typesense: %w", err)
	}

	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures all entity collections exist
func (c *Client) InitSchema(ctx context.Context) error {
	existing := map[string]bool{}
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}
	for _, col := range collections {
		existing[col.Name] = true
	}

	for _, schema := range collectionSchemas() {
		if existing[schema.Name] {
			continue
		}
		if _, err := c.client.Collections().Create(ctx, schema); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", schema.Name, err)
		}
		observability.GetLogger().Info().Str("collection", schema.Name).Msg("created typesense collection")
	}

	return nil
}

// IndexDocument upserts one document into a collection
func (c *Client) IndexDocument(ctx context.Context, collection string, document map[string]interface{}) error {
	_, err := c.client.Collection(collection).Documents().Upsert(ctx, document)
	return err
}

// DeleteDocument removes one document from a collection
func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	_, err := c.client.Collection(collection).Document(id).Delete(ctx)
	return err
}

func collectionSchemas() []*api.CollectionSchema {
	return []*api.CollectionSchema{
		{
			Name: CraftsmenCollection,
			Fields: []api.Field{
				{Name: "id", Type: "string"},
				{Name: "name", Type: "string"},
				{Name: "bio", Type: "string", Optional: pointer.True()},
				{Name: "specialties", Type: "string[]", Facet: pointer.True()},
				{Name: "workshop_location", Type: "string", Optional: pointer.True()},
				{Name: "verification_status", Type: "string"},
				{Name: "is_active", Type: "bool"},
				{Name: "created_at", Type: "int64"},
			},
			DefaultSortingField: pointer.String("created_at"),
		},
		{
			Name: CoursesCollection,
			Fields: []api.Field{
				{Name: "id", Type: "string"},
				{Name: "title", Type: "string"},
				{Name: "description", Type: "string", Optional: pointer.True()},
				{Name: "craft_type", Type: "string", Facet: pointer.True()},
				{Name: "category", Type: "string", Facet: pointer.True()},
				{Name: "price", Type: "float"},
				{Name: "status", Type: "string"},
				{Name: "created_at", Type: "int64"},
			},
			DefaultSortingField: pointer.String("created_at"),
		},
		{
			Name: ProductsCollection,
			Fields: []api.Field{
				{Name: "id", Type: "string"},
				{Name: "name", Type: "string"},
				{Name: "description", Type: "string", Optional: pointer.True()},
				{Name: "craft_type", Type: "string", Facet: pointer.True()},
				{Name: "category", Type: "string", Facet: pointer.True()},
				{Name: "price", Type: "float"},
				{Name: "inventory", Type: "int32"},
				{Name: "status", Type: "string"},
				{Name: "created_at", Type: "int64"},
			},
			DefaultSortingField: pointer.String("created_at"),
		},
		{
			Name: MediaCollection,
			Fields: []api.Field{
				{Name: "id", Type: "string"},
				{Name: "title", Type: "string"},
				{Name: "description", Type: "string", Optional: pointer.True()},
				{Name: "file_type", Type: "string", Facet: pointer.True()},
				{Name: "category", Type: "string", Facet: pointer.True()},
				{Name: "craft_type", Type: "string", Optional: pointer.True()},
				{Name: "status", Type: "string"},
				{Name: "created_at", Type: "int64"},
			},
			DefaultSortingField: pointer.String("created_at"),
		},
	}
}
