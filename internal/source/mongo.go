package source

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/engine"
)

// MongoAdapter scans a MongoDB database, flattening each document's scalar
// fields and yielding one item per field, reporting (collection, _id,
// field_path) as the item's location. Nested documents/arrays are flattened
// with a dotted field path so a finding inside a nested object can still be
// traced back to the field that produced it.
type MongoAdapter struct {
	URI      string
	Database string
	// Collections restricts the scan to these collections; empty scans
	// every collection in Database.
	Collections []string
	// RowLimit caps the number of documents read per collection; 0 means
	// unlimited.
	RowLimit int
	// SamplePercent keeps roughly this percentage of documents,
	// deterministically selected by document position; 0 or >=100 means
	// every document is kept.
	SamplePercent int
}

// Items connects, resolves the collection list, and streams one
// engine.Item per flattened scalar field value.
func (a *MongoAdapter) Items(ctx context.Context) (<-chan engine.Item, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.URI))
	if err != nil {
		return nil, fmt.Errorf("source: connecting to mongodb: %w", err)
	}
	db := client.Database(a.Database)

	collections := a.Collections
	if len(collections) == 0 {
		collections, err = db.ListCollectionNames(ctx, bson.D{})
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("source: listing mongodb collections: %w", err)
		}
	}

	out := make(chan engine.Item)
	go func() {
		defer close(out)
		defer client.Disconnect(ctx)
		for _, coll := range collections {
			if err := streamMongoCollection(ctx, db.Collection(coll), coll, a.RowLimit, a.SamplePercent, out); err != nil {
				out <- item{
					sourceID: fmt.Sprintf("mongodb://%s/%s", a.Database, coll),
					err:      err,
					loc:      detect.LocationContext{SourceID: a.Database, TableOrCollection: coll},
				}
			}
		}
	}()
	return out, nil
}

func streamMongoCollection(ctx context.Context, coll *mongo.Collection, name string, rowLimit, samplePercent int, out chan<- engine.Item) error {
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("source: querying collection %q: %w", name, err)
	}
	defer cursor.Close(ctx)

	docNum := 0
	kept := 0
	for cursor.Next(ctx) {
		docNum++
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("source: decoding document in %q: %w", name, err)
		}
		if !keepSampledRow(docNum, samplePercent) {
			continue
		}
		if rowLimit > 0 && kept >= rowLimit {
			break
		}
		kept++
		id := fmt.Sprintf("%v", doc["_id"])
		fields := map[string]string{}
		flattenBSON("", doc, fields)
		for path, text := range fields {
			if text == "" {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- item{
				sourceID: fmt.Sprintf("mongodb://%s/%s/%s", name, id, path),
				text:     text,
				loc: detect.LocationContext{
					SourceID:          name,
					TableOrCollection: name,
					RowKey:            id,
					ColumnOrField:     path,
				},
			}:
			}
		}
	}
	return cursor.Err()
}

// flattenBSON walks a decoded BSON document, writing every scalar leaf
// into fields keyed by its dotted path. Arrays are indexed positionally.
func flattenBSON(prefix string, v interface{}, fields map[string]string) {
	switch val := v.(type) {
	case bson.M:
		for k, sub := range val {
			flattenBSON(joinPath(prefix, k), sub, fields)
		}
	case bson.A:
		for i, sub := range val {
			flattenBSON(fmt.Sprintf("%s[%d]", prefix, i), sub, fields)
		}
	case nil:
		return
	default:
		fields[prefix] = fmt.Sprintf("%v", val)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
