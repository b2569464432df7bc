// Package store persists solve results so that batch runs and server
// requests can be looked up later.
//
// A [Record] is one solved (or failed) graph. Records that belong to the
// same batch share a RunID and are ordered by Index. Backends:
//
//   - memory: process-local, used by the server when nothing is configured
//   - jsonl: one JSON object per line in an append-only file, for the CLI
//   - mongo: a MongoDB collection, for shared deployments
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/okplanar/pkg/io"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Record is one stored solve.
type Record struct {
	ID             string    `json:"id" bson:"_id"`
	RunID          string    `json:"run_id" bson:"run_id"`
	Index          int       `json:"index" bson:"index"`
	Name           string    `json:"name,omitempty" bson:"name,omitempty"`
	Graph6         string    `json:"graph6" bson:"graph6"`
	Method         string    `json:"method" bson:"method"`
	Vertices       int       `json:"vertices" bson:"vertices"`
	Edges          int       `json:"edges" bson:"edges"`
	CrossingNumber int       `json:"crossing_number" bson:"crossing_number"`
	Order          []int     `json:"order,omitempty" bson:"order,omitempty"`
	ElapsedMS      float64   `json:"elapsed_ms" bson:"elapsed_ms"`
	Cached         bool      `json:"cached,omitempty" bson:"cached,omitempty"`
	Error          string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// Failed reports whether the solve ended in an error.
func (r *Record) Failed() bool {
	return r.Error != ""
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewRecord builds the record for a finished solve.
func NewRecord(runID string, index int, rep *io.Report) *Record {
	return &Record{
		ID:             uuid.NewString(),
		RunID:          runID,
		Index:          index,
		Name:           rep.Name,
		Graph6:         rep.Graph6,
		Method:         rep.Method,
		Vertices:       rep.Vertices,
		Edges:          rep.Edges,
		CrossingNumber: rep.CrossingNumber,
		Order:          rep.Order,
		ElapsedMS:      rep.ElapsedMS,
		Cached:         rep.Cached,
		CreatedAt:      rep.CreatedAt,
	}
}

// NewFailure builds the record for a solve that returned err.
func NewFailure(runID string, index int, graph6 string, err error) *Record {
	return &Record{
		ID:             uuid.NewString(),
		RunID:          runID,
		Index:          index,
		Graph6:         graph6,
		CrossingNumber: -1,
		Error:          err.Error(),
		CreatedAt:      time.Now().UTC(),
	}
}

// Store is the interface for record backends.
type Store interface {
	// Put stores rec, replacing any record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Run returns the records of a run ordered by Index. An unknown run
	// yields an empty slice.
	Run(ctx context.Context, runID string) ([]*Record, error)

	Close(ctx context.Context) error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendJSONL  = "jsonl"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Path       string // jsonl
	MongoURI   string
	Database   string
	Collection string
}

// Open creates the backend named by opts.Backend. "none" returns a nil
// Store and no error; callers skip persistence in that case.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendJSONL:
		s, err := NewJSONLStore(opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := NewMongoStore(ctx, opts.MongoURI, opts.Database, opts.Collection)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}
