package prefstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

const (
	fieldActive    = "active_location_id"
	fieldTemporary = "temporary_location"
)

// ValkeyStore keeps preferences in one Valkey hash so they survive restarts
// and are shared between replicas.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "tithi"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Load(ctx context.Context) (calendar.Preferences, error) {
	fields, err := s.client.Do(ctx, s.client.B().Hgetall().Key(s.key()).Build()).AsStrMap()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return calendar.Preferences{}, nil
		}
		return calendar.Preferences{}, err
	}
	return decodePreferences(fields)
}

func (s *ValkeyStore) SetActiveLocation(ctx context.Context, id int64) error {
	return s.set(ctx, fieldActive, strconv.FormatInt(id, 10))
}

func (s *ValkeyStore) ClearActiveLocation(ctx context.Context) error {
	return s.del(ctx, fieldActive)
}

func (s *ValkeyStore) SetTemporaryLocation(ctx context.Context, loc calendar.TemporaryLocation) error {
	payload, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.set(ctx, fieldTemporary, string(payload))
}

func (s *ValkeyStore) ClearTemporaryLocation(ctx context.Context) error {
	return s.del(ctx, fieldTemporary)
}

func (s *ValkeyStore) set(ctx context.Context, field, value string) error {
	cmd := s.client.B().Hset().Key(s.key()).FieldValue().FieldValue(field, value).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) del(ctx context.Context, field string) error {
	return s.client.Do(ctx, s.client.B().Hdel().Key(s.key()).Field(field).Build()).Error()
}

func (s *ValkeyStore) key() string {
	return fmt.Sprintf("%s:preferences", s.prefix)
}

func decodePreferences(fields map[string]string) (calendar.Preferences, error) {
	var prefs calendar.Preferences
	if raw, ok := fields[fieldActive]; ok && raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return calendar.Preferences{}, fmt.Errorf("decode %s: %w", fieldActive, err)
		}
		prefs.ActiveLocationID = &id
	}
	if raw, ok := fields[fieldTemporary]; ok && raw != "" {
		var tmp calendar.TemporaryLocation
		if err := json.Unmarshal([]byte(raw), &tmp); err != nil {
			return calendar.Preferences{}, fmt.Errorf("decode %s: %w", fieldTemporary, err)
		}
		prefs.TemporaryLocation = &tmp
	}
	return prefs, nil
}

var _ calendar.PreferenceStore = (*ValkeyStore)(nil)
