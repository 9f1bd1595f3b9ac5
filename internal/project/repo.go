package project

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/reincoon/task-manager/internal/model"
)

var ErrNotFound = errors.New("project not found")

type Patch struct {
	Name   *string `json:"name,omitempty"`
	Colour *string `json:"colour,omitempty"`
}

type Repo interface {
	Create(ctx context.Context, p model.Project) (model.Project, error)
	Get(ctx context.Context, id string) (model.Project, bool, error)
	Update(ctx context.Context, id string, patch Patch) (model.Project, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Project, error)
}

// NewID mints a project id. Exposed for alternate storage backends.
func NewID() string {
	return "proj_" + uuid.NewString()
}

// Apply merges the patch into p.
func (patch Patch) Apply(p *model.Project) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Colour != nil {
		p.Colour = *patch.Colour
	}
}
