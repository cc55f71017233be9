package calendar

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"groundbook/pkg/config"
	"groundbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "calendar_events"

type mongoCalendarStore struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStore(cfg *config.Config) Store {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCalendarStore{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (s *mongoCalendarStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

type eventDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Summary     string             `bson:"summary"`
	Description string             `bson:"description,omitempty"`
	Start       time.Time          `bson:"start"`
	End         time.Time          `bson:"end"`
	ColorTag    string             `bson:"color_tag,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (s *mongoCalendarStore) QueryEvents(ctx context.Context, timeMin, timeMax time.Time, textFilter string) ([]model.CalendarEvent, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"start": bson.M{"$lt": timeMax},
		"end":   bson.M{"$gt": timeMin},
	}
	if textFilter != "" {
		filter["summary"] = bson.M{"$regex": regexp.QuoteMeta(textFilter)}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode calendar events: %w", err)
	}

	events := make([]model.CalendarEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, model.CalendarEvent{
			ID:          d.ID.Hex(),
			Summary:     d.Summary,
			Description: d.Description,
			Start:       d.Start,
			End:         d.End,
			ColorTag:    d.ColorTag,
		})
	}
	return events, nil
}

func (s *mongoCalendarStore) CreateEvent(ctx context.Context, ev model.CalendarEvent) (string, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	doc := eventDocument{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       ev.Start,
		End:         ev.End,
		ColorTag:    ev.ColorTag,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *mongoCalendarStore) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid calendar event id %q: %w", id, err)
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("calendar event %s not found", id)
	}
	return nil
}
