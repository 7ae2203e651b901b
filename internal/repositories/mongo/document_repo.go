package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/utils"
)

type DocumentRepository interface {
	Upsert(ctx context.Context, d *models.Document) error
	GetByProfileID(ctx context.Context, profileID string) (*models.Document, error)
}

type documentRepo struct {
	col *mongo.Collection
}

func NewDocumentRepo(db *mongo.Database) DocumentRepository {
	return &documentRepo{col: db.Collection("documents")}
}

func (r *documentRepo) Upsert(ctx context.Context, d *models.Document) error {
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"profile_id": d.ProfileID},
		bson.M{"$set": d},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *documentRepo) GetByProfileID(ctx context.Context, profileID string) (*models.Document, error) {
	var d models.Document
	err := r.col.FindOne(ctx, bson.M{"profile_id": profileID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &d, err
}
