package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound 文档不存在
var ErrNotFound = errors.New("document not found")

// Store 文档库的窄接口：按键读写、合并更新、删除。
// 同步任务和测试只依赖这四个操作。
type Store interface {
	Get(ctx context.Context, collection, key string) (map[string]interface{}, error)
	Set(ctx context.Context, collection, key string, doc map[string]interface{}) error
	Merge(ctx context.Context, collection, key string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, key string) error
}

// MongoStore 基于 MongoDB 的 Store 实现
type MongoStore struct {
	db *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{db: client.Database(dbName)}, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, key string) (map[string]interface{}, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}

	delete(doc, "_id")
	return doc, nil
}

// Set 整体覆盖写入（upsert）
func (s *MongoStore) Set(ctx context.Context, collection, key string, doc map[string]interface{}) error {
	_, err := s.db.Collection(collection).ReplaceOne(
		ctx,
		bson.M{"_id": key},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	return nil
}

// Merge 只更新给定字段，其余字段保持不变（upsert）
func (s *MongoStore) Merge(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	_, err := s.db.Collection(collection).UpdateOne(
		ctx,
		bson.M{"_id": key},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}
