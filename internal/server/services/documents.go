package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/server/models"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/repomanager"
)

// ErrInvalidDocumentRef is returned when a collection or id is blank.
var ErrInvalidDocumentRef = errors.New("INVALID_ARGUMENT: collection and document id are required")

// DocumentService reads and writes documents on behalf of a signed-in
// account.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager) *DocumentService {
	return &DocumentService{db: db, repomanager: m, now: time.Now}
}

// authorize enforces ownership: a users/<id> document belongs to the
// account with that id. Other collections are open to any signed-in caller.
func authorize(userID, collection, id string) error {
	if collection == "" || id == "" {
		return ErrInvalidDocumentRef
	}
	if userID == "" {
		return common.ErrPermissionDenied
	}
	if collection == common.UsersCollection && id != userID {
		return common.ErrPermissionDenied
	}
	return nil
}

// Set replaces the document. Every field named in serverTimestamps is set
// to the current time in RFC 3339 (UTC).
func (s *DocumentService) Set(ctx context.Context, userID, collection, id string, fields map[string]any, serverTimestamps []string) error {
	if err := authorize(userID, collection, id); err != nil {
		return err
	}

	doc := &models.Document{
		Collection: collection,
		ID:         id,
		Fields:     make(map[string]any, len(fields)+len(serverTimestamps)),
	}
	for k, v := range fields {
		doc.Fields[k] = v
	}
	stamp := s.now().UTC().Format(time.RFC3339Nano)
	for _, name := range serverTimestamps {
		doc.Fields[name] = stamp
	}

	if err := s.repomanager.Documents(s.db).Put(ctx, doc); err != nil {
		return fmt.Errorf("error storing document: %w", err)
	}
	return nil
}

// Get returns the document's fields, or nil when it does not exist.
func (s *DocumentService) Get(ctx context.Context, userID, collection, id string) (map[string]any, error) {
	if err := authorize(userID, collection, id); err != nil {
		return nil, err
	}

	doc, err := s.repomanager.Documents(s.db).Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading document: %w", err)
	}
	return doc.Fields, nil
}
