package comments

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("comment not found")
	ErrBodyRequired = errors.New("comment body required")
	ErrNotAuthor    = errors.New("not the comment author")
)

// Comment is attached to a task.
type Comment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	TaskID    string    `json:"taskId" bson:"taskId"`
	AuthorID  string    `json:"authorId" bson:"authorId"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Repository provides comment persistence.
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	Get(ctx context.Context, id string) (*Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]*Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, c *Comment) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*Comment, error) {
	var c Comment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *MongoRepository) ListByTask(ctx context.Context, taskID string) ([]*Comment, error) {
	cur, err := r.col.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*Comment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, c *Comment) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
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
	store map[string]*Comment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Comment)}
}

func (r *MemoryRepository) Create(ctx context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	r.store[c.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) ListByTask(ctx context.Context, taskID string) ([]*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Comment
	for _, c := range r.store {
		if c.TaskID == taskID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	r.store[c.ID] = &cp
	return nil
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

// Service wraps the repository with authorship rules: only the author may
// edit a comment; the author or an admin may delete it (the handler checks
// the admin part).
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

func (s *Service) Create(ctx context.Context, taskID, authorID, body string) (*Comment, error) {
	if body == "" {
		return nil, ErrBodyRequired
	}
	c := &Comment{ID: uuid.NewString(), TaskID: taskID, AuthorID: authorID, Body: body}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListByTask(ctx context.Context, taskID string) ([]*Comment, error) {
	return s.repo.ListByTask(ctx, taskID)
}

func (s *Service) Update(ctx context.Context, id, callerID, body string) (*Comment, error) {
	if body == "" {
		return nil, ErrBodyRequired
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != callerID {
		return nil, ErrNotAuthor
	}
	c.Body = body
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID string, isAdmin bool) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && c.AuthorID != callerID {
		return ErrNotAuthor
	}
	return s.repo.Delete(ctx, id)
}
