package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("task not found")

// Repository provides task persistence. Subtasks live inside the task
// document, so they travel with it.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, t *Task) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *MongoRepository) ListByProject(ctx context.Context, projectID string) ([]*Task, error) {
	cur, err := r.col.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, t *Task) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
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

func (r *MongoRepository) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"projectId": projectID})
	return err
}

// MemoryRepository is a map-backed Repository for tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Task
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Task)}
}

func (r *MemoryRepository) Create(ctx context.Context, t *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	cp := *t
	r.store[t.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	cp.Subtasks = append([]Subtask(nil), t.Subtasks...)
	return &cp, nil
}

func (r *MemoryRepository) ListByProject(ctx context.Context, projectID string) ([]*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Task
	for _, t := range r.store {
		if t.ProjectID == projectID {
			cp := *t
			cp.Subtasks = append([]Subtask(nil), t.Subtasks...)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, t *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[t.ID]; !ok {
		return ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	cp.Subtasks = append([]Subtask(nil), t.Subtasks...)
	r.store[t.ID] = &cp
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

func (r *MemoryRepository) DeleteByProject(ctx context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.store {
		if t.ProjectID == projectID {
			delete(r.store, id)
		}
	}
	return nil
}
