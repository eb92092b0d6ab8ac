package search

import (
	"context"
	"fmt"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	tsclient "github.com/carebridge/portal/backend/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const collectionName = tsclient.DoctorsCollection

// TypesenseAdapter implements doctor directory search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements DoctorSearchRepository
var _ repositories.DoctorSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	// Create collection
	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "specialty", Type: "string", Facet: pointer.True()},
			{Name: "image", Type: "string"},
			{Name: "is_available", Type: "bool"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index indexes a doctor
func (a *TypesenseAdapter) Index(ctx context.Context, doctor *entities.Doctor) error {
	document := map[string]interface{}{
		"id":           doctor.ID,
		"name":         doctor.Name,
		"specialty":    doctor.Specialty,
		"image":        doctor.Image,
		"is_available": doctor.IsAvailable,
		"created_at":   doctor.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index doctor: %w", err)
	}

	return nil
}

// Delete removes a doctor from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete doctor from index: %w", err)
	}
	return nil
}

// SearchBySpecialty searches doctors by specialty substring
func (a *TypesenseAdapter) SearchBySpecialty(ctx context.Context, specialty string) ([]*entities.Doctor, error) {
	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(specialty),
		QueryBy:  pointer.String("specialty,name"),
		FilterBy: pointer.String("is_available:=true"),
		SortBy:   pointer.String("name:asc"),
		PerPage:  pointer.Int(50),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}

	doctors := []*entities.Doctor{}
	for _, hit := range *result.Hits {
		doc := *hit.Document

		// Typesense returns map[string]interface{}, so cast each field
		// defensively and skip malformed hits
		id, ok := doc["id"].(string)
		if !ok {
			continue
		}

		doctor := &entities.Doctor{ID: id}
		if val, ok := doc["name"].(string); ok {
			doctor.Name = val
		}
		if val, ok := doc["specialty"].(string); ok {
			doctor.Specialty = val
		}
		if val, ok := doc["image"].(string); ok {
			doctor.Image = val
		}
		if val, ok := doc["is_available"].(bool); ok {
			doctor.IsAvailable = val
		}

		doctors = append(doctors, doctor)
	}

	return doctors, nil
}
