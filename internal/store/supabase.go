package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/supabase-community/postgrest-go"
)

// postgrest-go reports PostgREST error bodies as "(code) message".
var executeError = regexp.MustCompile(`(?s)^\(([^)]*)\) (.*)$`)

// SupabaseStore inserts rows through the PostgREST endpoint of a Supabase project.
type SupabaseStore struct {
	client *postgrest.Client
}

// NewSupabaseStore points a PostgREST client at <baseURL>/rest/v1. Requests carry no deadline.
func NewSupabaseStore(baseURL, key string) (*SupabaseStore, error) {
	client := postgrest.NewClient(strings.TrimRight(baseURL, "/")+"/rest/v1", "public", map[string]string{
		"apikey": key,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("supabase client: %w", client.ClientError)
	}
	return &SupabaseStore{client: client.SetAuthToken(key)}, nil
}

func (s *SupabaseStore) Insert(ctx context.Context, table string, rec models.Record) error {
	_, _, err := s.client.From(table).
		Insert([]map[string]any{rec.Columns()}, false, "", "minimal", "").
		ExecuteWithContext(ctx)
	if err == nil {
		return nil
	}
	if m := executeError.FindStringSubmatch(err.Error()); m != nil {
		return &Error{Code: m[1], Message: m[2], Err: err}
	}
	return &Error{Message: err.Error(), Err: err}
}
