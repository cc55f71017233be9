package ledger

import (
	"context"
	"fmt"
	"time"

	reservationerrors "groundbook/internal/reservations/errors"
	"groundbook/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName        = "ledger_rows"
	CounterCollectionName = "ledger_counters"

	counterID = "ledger"
	headerSeq = 1
)

type rowDocument struct {
	Seq       int64     `bson:"_id"`
	Values    []string  `bson:"values"`
	CreatedAt time.Time `bson:"created_at"`
}

type mongoLedgerStore struct {
	cfg      *config.Config
	rows     *mongo.Collection
	counters *mongo.Collection
}

func NewMongoStore(cfg *config.Config) Store {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLedgerStore{
		cfg:      cfg,
		rows:     db.Collection(CollectionName),
		counters: db.Collection(CounterCollectionName),
	}
}

func (s *mongoLedgerStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *mongoLedgerStore) EnsureHeaderRow(ctx context.Context, columns []string) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	_, err := s.rows.UpdateByID(ctx, int64(headerSeq),
		bson.M{"$setOnInsert": bson.M{
			"values":     columns,
			"created_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure ledger header row: %w", err)
	}

	// Seed the row counter at the header position so the first data row
	// lands at index 2.
	_, err = s.counters.UpdateByID(ctx, counterID,
		bson.M{"$max": bson.M{"seq": int64(headerSeq)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to seed ledger row counter: %w", err)
	}
	return nil
}

func (s *mongoLedgerStore) AppendRow(ctx context.Context, columns []string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate ledger row index: %w", err)
	}

	_, err = s.rows.InsertOne(ctx, rowDocument{
		Seq:       counter.Seq,
		Values:    columns,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to append ledger row: %w", err)
	}

	return counter.Seq, nil
}

func (s *mongoLedgerStore) ReadRows(ctx context.Context) ([][]string, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$gt": int64(headerSeq)}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.rows.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger rows: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []rowDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ledger rows: %w", err)
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, d.Values)
	}
	return rows, nil
}

func (s *mongoLedgerStore) UpdateStatus(ctx context.Context, reservationID, status string) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	field := fmt.Sprintf("values.%d", ColStatus)
	result, err := s.rows.UpdateOne(ctx,
		bson.M{fmt.Sprintf("values.%d", ColReservationID): reservationID},
		bson.M{"$set": bson.M{field: status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger row status: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationerrors.ErrRecordNotFound
	}
	return nil
}
