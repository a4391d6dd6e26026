package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// Date is a calendar value that accepts both RFC 3339 timestamps and plain
// YYYY-MM-DD strings from JSON, and is stored as a BSON datetime.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t.UTC()}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		d.Time = t.UTC()
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q", raw)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bson.MarshalValue(nil)
	}
	return bson.MarshalValue(primitive.NewDateTimeFromTime(d.Time))
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		d.Time = time.Time{}
		return nil
	case bsontype.DateTime:
		var dt primitive.DateTime
		if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&dt); err != nil {
			return err
		}
		d.Time = dt.Time().UTC()
		return nil
	case bsontype.String:
		var raw string
		if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&raw); err != nil {
			return err
		}
		return d.UnmarshalJSON([]byte(fmt.Sprintf("%q", raw)))
	default:
		return fmt.Errorf("cannot decode %s into Date", t)
	}
}
