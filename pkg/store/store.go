// Package store persists rendered figures for the figure server.
//
// Two backends implement [Store]:
//   - [MemoryStore]: process-local, used by "rangeplot plot" and tests
//   - [MongoStore]: MongoDB collection, used by "rangeplot serve --mongo"
//
// Figures are identified by random UUIDs assigned on [Store.Save]:
//
//	fig := &store.Figure{Title: "BRCA2", Scene: sceneJSON, SVG: svg, HTML: html}
//	if err := st.Save(ctx, fig); err != nil {
//	    return err
//	}
//	fmt.Println("stored", fig.ID)
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

// DefaultListLimit caps [Store.List] when no limit is given.
const DefaultListLimit = 100

// Figure is one stored plot with its rendered forms.
type Figure struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Genes     int       `json:"genes" bson:"genes"`
	Panels    int       `json:"panels" bson:"panels"`
	Warnings  []string  `json:"warnings,omitempty" bson:"warnings,omitempty"`

	Scene []byte `json:"-" bson:"scene,omitempty"` // scene JSON
	SVG   []byte `json:"-" bson:"svg,omitempty"`
	HTML  []byte `json:"-" bson:"html,omitempty"`
}

// Summary returns a copy without the rendered payloads.
func (f *Figure) Summary() Figure {
	s := *f
	s.Scene, s.SVG, s.HTML = nil, nil, nil
	s.Warnings = append([]string(nil), f.Warnings...)
	return s
}

// Store is the interface for figure storage backends.
type Store interface {
	// Save stores f, assigning ID and CreatedAt when unset.
	Save(ctx context.Context, f *Figure) error

	// Get returns the figure with its payloads, or an error with
	// [errors.ErrCodeNotFound].
	Get(ctx context.Context, id string) (*Figure, error)

	// List returns summaries, newest first. A limit <= 0 uses
	// [DefaultListLimit].
	List(ctx context.Context, limit int) ([]Figure, error)

	// Delete removes a figure. Deleting a missing figure reports
	// [errors.ErrCodeNotFound].
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)

// prepare fills the ID and creation time of a figure about to be saved.
func prepare(f *Figure) error {
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "figure cannot be nil")
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	} else if _, err := uuid.Parse(f.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "figure id %q", f.ID)
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	return nil
}

// IsNotFound reports whether err means the figure does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeNotFound)
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "figure %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
