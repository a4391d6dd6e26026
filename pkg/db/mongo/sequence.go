package mongo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CountersCollection = "counters"

type counter struct {
	Name  string `bson:"_id"`
	Value int64  `bson:"seq"`
}

// Sequence hands out monotonically increasing numbers per name, backed by
// one counter document each. Allocation is a single $inc so concurrent
// callers never observe the same value.
type Sequence struct {
	collection *mongo.Collection
}

func NewSequence(db *mongo.Database) *Sequence {
	return &Sequence{collection: db.Collection(CountersCollection)}
}

func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}
	return c.Value, nil
}

// NextCode allocates the next number for name and renders it as prefix + zero padded digits.
func (s *Sequence) NextCode(ctx context.Context, name, prefix string, width int) (string, error) {
	n, err := s.Next(ctx, name)
	if err != nil {
		return "", err
	}
	return FormatCode(prefix, width, n), nil
}

// SeedFromMax raises the counter to at least value. It never lowers it.
func (s *Sequence) SeedFromMax(ctx context.Context, name string, value int64) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to seed counter %s: %w", name, err)
	}
	return nil
}

// NextCode returns the code following last. A last of zero yields the first code.
func NextCode(prefix string, width int, last int64) string {
	return FormatCode(prefix, width, last+1)
}

func FormatCode(prefix string, width int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// ParseCode extracts the numeric suffix of code. Codes without the prefix are rejected.
func ParseCode(prefix, code string) (int64, error) {
	if !strings.HasPrefix(code, prefix) {
		return 0, fmt.Errorf("code %q does not start with %q", code, prefix)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(code, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("code %q has a non-numeric suffix: %w", code, err)
	}
	return n, nil
}
