package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/bookswap-backend/internal/metrics"
	"github.com/AnshRaj112/bookswap-backend/internal/models"
)

const booksCollection = "books"

type bookDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Author    string             `bson:"author"`
	Genre     string             `bson:"genre"`
	Location  string             `bson:"location"`
	OwnerID   primitive.ObjectID `bson:"ownerId"`
	Status    string             `bson:"status"`
	Image     string             `bson:"image"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *bookDocument) toModel() *models.Book {
	return &models.Book{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Author:    d.Author,
		Genre:     d.Genre,
		Location:  d.Location,
		OwnerID:   d.OwnerID.Hex(),
		Status:    models.BookStatus(d.Status),
		Image:     d.Image,
		CreatedAt: d.CreatedAt,
	}
}

type MongoBookStore struct {
	col *mongo.Collection
}

func NewMongoBookStore(db *mongo.Database) *MongoBookStore {
	return &MongoBookStore{col: db.Collection(booksCollection)}
}

func (s *MongoBookStore) Create(ctx context.Context, b *models.Book) error {
	owner, err := primitive.ObjectIDFromHex(b.OwnerID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "insert", time.Now())

	doc := bookDocument{
		ID:        primitive.NewObjectID(),
		Title:     b.Title,
		Author:    b.Author,
		Genre:     b.Genre,
		Location:  b.Location,
		OwnerID:   owner,
		Status:    string(b.Status),
		Image:     b.Image,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	b.ID = doc.ID.Hex()
	b.CreatedAt = doc.CreatedAt
	return nil
}

func (s *MongoBookStore) List(ctx context.Context) ([]models.Book, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "find", time.Now())

	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	books := make([]models.Book, 0, len(docs))
	for i := range docs {
		books = append(books, *docs[i].toModel())
	}
	return books, nil
}

func (s *MongoBookStore) FindByID(ctx context.Context, id string) (*models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "find_one", time.Now())

	var doc bookDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *MongoBookStore) updateOne(ctx context.Context, id string, set bson.M, op string) (*models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, op, time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bookDocument
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *MongoBookStore) Update(ctx context.Context, id string, f models.BookFields) (*models.Book, error) {
	return s.updateOne(ctx, id, bson.M{
		"title":    f.Title,
		"author":   f.Author,
		"genre":    f.Genre,
		"location": f.Location,
		"image":    f.Image,
	}, "update")
}

func (s *MongoBookStore) SetStatus(ctx context.Context, id string, status models.BookStatus) (*models.Book, error) {
	return s.updateOne(ctx, id, bson.M{"status": string(status)}, "set_status")
}

func (s *MongoBookStore) DeleteOwned(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "delete", time.Now())

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureMongoIndexes creates the unique email index and the owner lookup
// index. Safe to run repeatedly.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_email").SetUnique(true),
			},
		},
		booksCollection: {
			{
				Keys:    bson.D{{Key: "ownerId", Value: 1}},
				Options: options.Index().SetName("idx_owner"),
			},
		},
	}
	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
