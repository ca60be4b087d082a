package basket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/redis"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

// SelectionEntry is one proposed basket line. The product is snapshotted at
// generation time so commit always writes exactly what the customer saw, even
// if the catalog row changed underneath.
type SelectionEntry struct {
	ProductID   uuid.UUID       `json:"product_id"`
	FarmID      uuid.UUID       `json:"farm_id"`
	FarmName    string          `json:"farm_name"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Selected    bool            `json:"selected"`
}

// Session is the customer's proposed basket between generate and commit. The
// generation counter increases monotonically per customer; a stale generation
// must never overwrite a newer one.
type Session struct {
	CustomerID  uuid.UUID         `json:"customer_id"`
	State       enums.BasketState `json:"state"`
	Generation  int64             `json:"generation"`
	LocationKey string            `json:"location_key"`
	Preferences types.Preferences `json:"preferences"`
	BasketSize  int               `json:"basket_size"`
	Items       []SelectionEntry  `json:"items"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SelectedItems returns the entries currently toggled on, in selection order.
func (s *Session) SelectedItems() []SelectionEntry {
	if s == nil {
		return nil
	}
	var out []SelectionEntry
	for _, entry := range s.Items {
		if entry.Selected {
			out = append(out, entry)
		}
	}
	return out
}

type sessionClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	BasketSessionKey(customerID string) string
	BasketGenerationKey(customerID string) string
}

// saveIfCurrentScript compares the stored session's generation against the
// writer's and only then overwrites, in one atomic redis call. Without the
// script a slow generate could Load, lose the race, and still Save its stale
// payload over a newer one.
const saveIfCurrentScript = `
local current = redis.call('GET', KEYS[1])
if current then
  local ok, decoded = pcall(cjson.decode, current)
  if ok and decoded and tonumber(decoded['generation']) and tonumber(decoded['generation']) > tonumber(ARGV[1]) then
    return 0
  end
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`

// SessionStore persists basket sessions in redis with a TTL.
type SessionStore struct {
	client sessionClient
	ttl    time.Duration
}

// NewSessionStore builds a store on the shared redis client.
func NewSessionStore(client sessionClient, ttl time.Duration) (*SessionStore, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ttl must be positive")
	}
	return &SessionStore{client: client, ttl: ttl}, nil
}

// Load returns the customer's session, or nil when none exists.
func (s *SessionStore) Load(ctx context.Context, customerID uuid.UUID) (*Session, error) {
	raw, err := s.client.Get(ctx, s.client.BasketSessionKey(customerID.String()))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataIntegrity, err, "decode basket session")
	}
	return &session, nil
}

// Save writes the session unconditionally.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode basket session")
	}
	key := s.client.BasketSessionKey(session.CustomerID.String())
	if err := s.client.Set(ctx, key, string(raw), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save basket session")
	}
	return nil
}

// SaveIfCurrent writes the session only when no newer generation has been
// stored meanwhile. The compare and the write run as one redis script, so two
// racing generates cannot interleave between them. Returns false when the
// write was discarded as stale.
func (s *SessionStore) SaveIfCurrent(ctx context.Context, session *Session) (bool, error) {
	session.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(session)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode basket session")
	}
	key := s.client.BasketSessionKey(session.CustomerID.String())
	res, err := s.client.Eval(ctx, saveIfCurrentScript, []string{key},
		session.Generation, string(raw), s.ttl.Milliseconds())
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save basket session")
	}
	applied, ok := res.(int64)
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "unexpected reply saving basket session")
	}
	return applied == 1, nil
}

// NextGeneration increments and returns the customer's generation counter.
// The counter shares the session TTL so idle customers do not accumulate keys.
func (s *SessionStore) NextGeneration(ctx context.Context, customerID uuid.UUID) (int64, error) {
	key := s.client.BasketGenerationKey(customerID.String())
	gen, err := s.client.IncrWithTTL(ctx, key, s.ttl)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance basket generation")
	}
	return gen, nil
}

// Delete removes the customer's session.
func (s *SessionStore) Delete(ctx context.Context, customerID uuid.UUID) error {
	if err := s.client.Del(ctx, s.client.BasketSessionKey(customerID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete basket session")
	}
	return nil
}
