package kafka

import (
	"time"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"max.ks1230/expense-tracker/internal/entity/ledger"
)

// encodeChange packs a change into a protobuf Struct so consumers in any
// language can read it without generated code.
func encodeChange(change ledger.Change) ([]byte, error) {
	s, err := structpb.NewStruct(map[string]any{
		"entity":      change.Entity,
		"op":          string(change.Op),
		"id":          float64(change.ID),
		"category_id": float64(change.CategoryID),
		"type":        string(change.Type),
		"at":          change.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode change")
	}
	return proto.Marshal(s)
}

func decodeChange(raw []byte) (ledger.Change, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(raw, &s); err != nil {
		return ledger.Change{}, errors.Wrap(err, "decode change")
	}
	fields := s.GetFields()

	change := ledger.Change{
		Entity:     fields["entity"].GetStringValue(),
		Op:         ledger.Op(fields["op"].GetStringValue()),
		ID:         int64(fields["id"].GetNumberValue()),
		CategoryID: int64(fields["category_id"].GetNumberValue()),
		Type:       ledger.TransactionType(fields["type"].GetStringValue()),
	}
	if change.Entity == "" {
		return ledger.Change{}, errors.New("decode change: entity is missing")
	}
	if at := fields["at"].GetStringValue(); at != "" {
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return ledger.Change{}, errors.Wrap(err, "decode change")
		}
		change.At = t
	}
	return change, nil
}
