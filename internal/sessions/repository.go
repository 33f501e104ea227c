package sessions

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository provides issued-token persistence.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByJTI(ctx context.Context, jti string) (*Record, error)
	DeleteByJTI(ctx context.Context, jti string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, rec *Record) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *MongoRepository) GetByJTI(ctx context.Context, jti string) (*Record, error) {
	var rec Record
	if err := r.col.FindOne(ctx, bson.M{"_id": jti}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		_, _ = r.col.DeleteOne(ctx, bson.M{"_id": jti})
		return nil, nil
	}
	return &rec, nil
}

func (r *MongoRepository) DeleteByJTI(ctx context.Context, jti string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": jti})
	return err
}

func (r *MongoRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// MemoryRepository is a map-backed Repository for tests and single-node
// development runs.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Record)}
}

func (r *MemoryRepository) Create(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	cp := *rec
	r.store[rec.JTI] = &cp
	return nil
}

func (r *MemoryRepository) GetByJTI(ctx context.Context, jti string) (*Record, error) {
	r.mu.RLock()
	rec, ok := r.store[jti]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		r.mu.Lock()
		delete(r.store, jti)
		r.mu.Unlock()
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *MemoryRepository) DeleteByJTI(ctx context.Context, jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, jti)
	return nil
}

func (r *MemoryRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for jti, rec := range r.store {
		if rec.UserID == userID {
			delete(r.store, jti)
		}
	}
	return nil
}
