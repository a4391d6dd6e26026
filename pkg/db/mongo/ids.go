package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrInvalidObjectID = errors.New("invalid object id")

// ObjectIDs converts hex references for an $in lookup. Empty strings are skipped.
func ObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		if h == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidObjectID, h)
		}
		out = append(out, oid)
	}
	return out, nil
}

// IsDuplicateKey reports a unique index violation, including inside bulk and transaction errors.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
