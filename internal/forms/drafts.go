package forms

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Flow states as reported to the client.
const (
	StateEditing    = "editing"
	StateConfirming = "confirming"
)

// Draft kinds, one per entity operation that needs a confirm step.
const (
	KindEmployeeCreate   = "employee_create"
	KindEmployeeUpdate   = "employee_update"
	KindDepartmentCreate = "department_create"
	KindDepartmentUpdate = "department_update"
)

var ErrDraftNotFound = errors.New("confirmation expired or declined")

// Draft is a validated field set parked between the validate and confirm
// steps. It expires with the store TTL, which behaves like a decline.
type Draft struct {
	Token     string          `json:"token"`
	Kind      string          `json:"kind"`
	EntityID  *uint64         `json:"entity_id,omitempty"`
	Fields    json.RawMessage `json:"fields"`
	CreatedAt time.Time       `json:"created_at"`
}

// DecodeFields unmarshals the parked field set into the operation's type.
func (d *Draft) DecodeFields(dest any) error {
	return json.Unmarshal(d.Fields, dest)
}

// RedisClient is the slice of go-redis the draft store needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type DraftStore struct {
	rdb    RedisClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewDraftStore(rdb RedisClient, ttl time.Duration, logger *slog.Logger) *DraftStore {
	return &DraftStore{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// Put parks a validated field set and returns its confirm token.
func (s *DraftStore) Put(ctx context.Context, kind string, entityID *uint64, fields any) (*Draft, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		s.logger.Error("Error encoding draft fields", slog.String("kind", kind), slog.String("error", err.Error()))
		return nil, err
	}

	draft := &Draft{
		Token:     uuid.NewString(),
		Kind:      kind,
		EntityID:  entityID,
		Fields:    raw,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, draftKey(draft.Token), data, s.ttl).Err(); err != nil {
		s.logger.Error("Error storing draft", slog.String("kind", kind), slog.String("error", err.Error()))
		return nil, err
	}

	return draft, nil
}

// Take consumes a draft: a confirm attempt uses it exactly once whether the
// commit succeeds or not.
func (s *DraftStore) Take(ctx context.Context, token string) (*Draft, error) {
	data, err := s.rdb.Get(ctx, draftKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		s.logger.Error("Error reading draft", slog.String("token", token), slog.String("error", err.Error()))
		return nil, err
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		s.logger.Error("Error decoding draft", slog.String("token", token), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.rdb.Del(ctx, draftKey(token)).Err(); err != nil {
		s.logger.Warn("Error deleting taken draft", slog.String("token", token), slog.String("error", err.Error()))
	}

	return &draft, nil
}

// Decline drops a parked draft, returning the flow to editing.
func (s *DraftStore) Decline(ctx context.Context, token string) error {
	n, err := s.rdb.Del(ctx, draftKey(token)).Result()
	if err != nil {
		s.logger.Error("Error declining draft", slog.String("token", token), slog.String("error", err.Error()))
		return err
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func draftKey(token string) string {
	return "draft:" + token
}
