package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"oventreats/internal/models"
	"oventreats/internal/storage"

	"github.com/google/uuid"
)

// CollectionName is the remote document collection backups live in.
const CollectionName = "app_backups"

const remoteTimeout = 10 * time.Second

// Metadata is the lightweight listing entry for a stored backup.
type Metadata struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	DeviceID  string `json:"deviceId,omitempty"`
	Size      int    `json:"size"`
}

// remoteDocument is BackupData plus the transport-only fields the store
// strips before handing a backup back to the caller.
type remoteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Version   string             `bson:"version"`
	Timestamp string             `bson:"timestamp"`
	Data      bson.Raw           `bson:"data"`
	CreatedAt time.Time          `bson:"createdAt"`
	DeviceID  string             `bson:"deviceId"`
	Size      int                `bson:"size"`
}

// RemoteStore keeps backup documents in a mongo collection, newest first.
// A nil *RemoteStore is valid and reports itself as not configured, so the
// caller can wire it unconditionally.
type RemoteStore struct {
	db       *mongo.Database
	deviceID string
}

func NewRemoteStore(db *mongo.Database, deviceID string) *RemoteStore {
	if db == nil {
		return nil
	}
	return &RemoteStore{db: db, deviceID: deviceID}
}

// Configured reports whether a remote store is reachable by configuration.
// It never touches the network, so UIs can gate write actions on it cheaply.
func (r *RemoteStore) Configured() bool {
	return r != nil && r.db != nil
}

func (r *RemoteStore) collection() *mongo.Collection {
	return r.db.Collection(CollectionName)
}

// Create uploads a backup and returns its id. Transport metadata (creation
// time, device id, serialized size) is stamped server-side of the document.
func (r *RemoteStore) Create(ctx context.Context, data *models.BackupData) (string, error) {
	if !r.Configured() {
		return "", ErrNotConfigured
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize backup: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	doc := bson.M{
		"version":   data.Version,
		"timestamp": data.Timestamp,
		"data":      data.Data,
		"createdAt": time.Now(),
		"deviceId":  r.deviceID,
		"size":      len(raw),
	}
	res, err := r.collection().InsertOne(ctx, doc)
	if err != nil {
		return "", classify(err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id.Hex(), nil
}

// Get fetches one backup by id, with transport metadata stripped.
func (r *RemoteStore) Get(ctx context.Context, id string) (*models.BackupData, error) {
	if !r.Configured() {
		return nil, ErrNotConfigured
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrBackupNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	var doc remoteDocument
	err = r.collection().FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBackupNotFound
	}
	if err != nil {
		return nil, classify(err)
	}

	data := models.BackupData{Version: doc.Version, Timestamp: doc.Timestamp}
	if err := bson.Unmarshal(doc.Data, &data.Data); err != nil {
		return nil, fmt.Errorf("%w: corrupt payload: %v", ErrInvalidBackupFormat, err)
	}
	return &data, nil
}

// List returns backup metadata sorted newest first.
func (r *RemoteStore) List(ctx context.Context) ([]Metadata, error) {
	if !r.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"data": 0})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(err)
	}

	var docs []remoteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify(err)
	}

	list := make([]Metadata, 0, len(docs))
	for _, doc := range docs {
		list = append(list, Metadata{
			ID:        doc.ID.Hex(),
			Timestamp: doc.Timestamp,
			Version:   doc.Version,
			DeviceID:  doc.DeviceID,
			Size:      doc.Size,
		})
	}
	return list, nil
}

// Delete removes one backup by id.
func (r *RemoteStore) Delete(ctx context.Context, id string) error {
	if !r.Configured() {
		return ErrNotConfigured
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrBackupNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return classify(err)
	}
	if res.DeletedCount == 0 {
		return ErrBackupNotFound
	}
	return nil
}

// Latest fetches the most recent backup, or nil when none exist.
func (r *RemoteStore) Latest(ctx context.Context) (*models.BackupData, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return r.Get(ctx, list[0].ID)
}

// Sync uploads a backup, replacing this device's previous upload when it is
// less than a day old, so repeated syncs do not pile up near-identical
// documents.
func (r *RemoteStore) Sync(ctx context.Context, data *models.BackupData) (string, error) {
	list, err := r.List(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now()
	for _, meta := range list {
		if meta.DeviceID != r.deviceID {
			continue
		}
		uploaded, err := time.Parse(time.RFC3339, meta.Timestamp)
		if err != nil {
			continue
		}
		if now.Sub(uploaded) < 24*time.Hour {
			if err := r.Delete(ctx, meta.ID); err != nil {
				log.Println("[BACKUP] [ERROR] failed to replace previous sync:", err)
			}
			break
		}
	}
	return r.Create(ctx, data)
}

// classify maps driver errors onto the transport error taxonomy so callers
// can show a missing-config, permission and connectivity message apart.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 13 {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return err
}

// DeviceID returns this installation's stable device identifier, creating
// and persisting one on first use.
func DeviceID(ctx context.Context, kv storage.KV) string {
	const key = "device-id"

	id, err := kv.Get(ctx, key)
	if err == nil && id != "" {
		return id
	}

	id = "device-" + uuid.NewString()
	if err := kv.Set(ctx, key, id); err != nil {
		log.Println("[BACKUP] [ERROR] failed to persist device id:", err)
	}
	return id
}
