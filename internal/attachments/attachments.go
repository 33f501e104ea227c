package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("attachment not found")

// Attachment is file metadata; the body lives in object storage under Key.
type Attachment struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	TaskID      string    `json:"taskId" bson:"taskId"`
	FileName    string    `json:"fileName" bson:"fileName"`
	ContentType string    `json:"contentType" bson:"contentType"`
	Size        int64     `json:"size" bson:"size"`
	Key         string    `json:"-" bson:"key"`
	UploadedBy  string    `json:"uploadedBy" bson:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Repository provides attachment metadata persistence.
type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	Get(ctx context.Context, id string) (*Attachment, error)
	ListByTask(ctx context.Context, taskID string) ([]*Attachment, error)
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, a *Attachment) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*Attachment, error) {
	var a Attachment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) ListByTask(ctx context.Context, taskID string) ([]*Attachment, error) {
	cur, err := r.col.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*Attachment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MemoryRepository is a map-backed Repository for tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Attachment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Attachment)}
}

func (r *MemoryRepository) Create(ctx context.Context, a *Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	r.store[a.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) ListByTask(ctx context.Context, taskID string) ([]*Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Attachment
	for _, a := range r.store {
		if a.TaskID == taskID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return ErrNotFound
	}
	delete(r.store, id)
	return nil
}

// Service couples metadata persistence with object storage.
type Service struct {
	repo    Repository
	storage ObjectStorage
}

func NewService(repo Repository, storage ObjectStorage) *Service {
	return &Service{repo: repo, storage: storage}
}

// Upload stores the body then the metadata. Body storage failing aborts
// the whole operation; metadata failing removes the orphaned object.
func (s *Service) Upload(ctx context.Context, taskID, fileName, contentType, uploadedBy string, body io.Reader, size int64) (*Attachment, error) {
	a := &Attachment{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  uploadedBy,
	}
	a.Key = fmt.Sprintf("tasks/%s/%s/%s", taskID, a.ID, fileName)
	if err := s.storage.Upload(ctx, a.Key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("upload attachment body: %w", err)
	}
	if err := s.repo.Create(ctx, a); err != nil {
		_ = s.storage.Remove(ctx, a.Key)
		return nil, fmt.Errorf("save attachment metadata: %w", err)
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Attachment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByTask(ctx context.Context, taskID string) ([]*Attachment, error) {
	return s.repo.ListByTask(ctx, taskID)
}

// Open returns a reader over the attachment body.
func (s *Service) Open(ctx context.Context, id string) (*Attachment, io.ReadCloser, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Download(ctx, a.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment body: %w", err)
	}
	return a, rc, nil
}

// PresignedURL returns a time-limited direct download link.
func (s *Service) PresignedURL(ctx context.Context, id string, expires time.Duration) (string, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.PresignedURL(ctx, a.Key, expires)
}

// Delete removes metadata first, then the body; a failed body removal is
// logged by the caller but does not resurrect the metadata.
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.storage.Remove(ctx, a.Key)
}
