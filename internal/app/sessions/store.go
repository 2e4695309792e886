package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

// Store keeps one workspace per browser session
type Store interface {
	// Get returns a copy of the workspace, or apperrors.ErrSessionNotFound
	Get(ctx context.Context, id string) (*models.Workspace, error)
	// Put stores ws under ws.ID, replacing any previous value
	Put(ctx context.Context, ws *models.Workspace) error
	// Update applies fn to the stored workspace atomically and returns the result.
	// When fn returns an error nothing is written.
	Update(ctx context.Context, id string, fn func(ws *models.Workspace) error) (*models.Workspace, error)
	// Close releases the store's resources
	Close() error
}

func encodeWorkspace(ws *models.Workspace) ([]byte, error) {
	data, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace %s: %w", ws.ID, err)
	}
	return data, nil
}

func decodeWorkspace(id string, data []byte) (*models.Workspace, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, id)
	}
	var ws models.Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to decode workspace %s: %w", id, err)
	}
	return &ws, nil
}
