package projects

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("project not found")

// Repository provides project persistence.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	ListByMember(ctx context.Context, userID string) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, p *Project) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*Project, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) ListByMember(ctx context.Context, userID string) ([]*Project, error) {
	return r.find(ctx, bson.M{"$or": []bson.M{
		{"managerId": userID},
		{"memberIds": userID},
	}})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]*Project, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, p *Project) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
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

// MemoryRepository is a map-backed Repository for tests and runs without
// MongoDB.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Project
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Project)}
}

func (r *MemoryRepository) Create(ctx context.Context, p *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	r.store[p.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Project, 0, len(r.store))
	for _, p := range r.store {
		cp := *p
		out = append(out, &cp)
	}
	sortByName(out)
	return out, nil
}

func (r *MemoryRepository) ListByMember(ctx context.Context, userID string) ([]*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Project
	for _, p := range r.store {
		if p.HasMember(userID) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByName(out)
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, p *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	r.store[p.ID] = &cp
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

func sortByName(ps []*Project) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
}
