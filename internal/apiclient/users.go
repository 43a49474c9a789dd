package apiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/cache"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/metrics"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

const (
	userPath        = "/api2/v2/users/u"
	subscribersPath = "/api2/v2/subscriptions/subscribers?limit=%d&offset=0&format=infinite&type=active&filter[online]=1&more=false"

	// DefaultOnlineWindow - насколько давно пользователь мог быть в сети, чтобы считаться онлайн.
	DefaultOnlineWindow = 2 * time.Minute

	lookupConcurrency = 10
)

var ErrEmptyUserID = errors.New("user id is empty")

// Getter выполняет подписанный GET и возвращает тело ответа.
type Getter interface {
	Get(ctx context.Context, fullURL string) ([]byte, error)
}

// UserLookup читает профили пользователей через подписанный клиент.
// Профили кэшируются по идентификатору, одновременные запросы одного
// пользователя схлопываются в один.
type UserLookup struct {
	client   Getter
	baseURL  string
	profiles *cache.Cache[*model.UserProfile]
	now      func() time.Time
	log      *zap.Logger
}

// NewUserLookup создает сервис. ttl <= 0 - профили кэшируются без срока.
func NewUserLookup(client Getter, baseURL string, ttl time.Duration, m *metrics.Metrics, log *zap.Logger) *UserLookup {
	return &UserLookup{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		profiles: cache.New[*model.UserProfile]("users", ttl, m),
		now:      time.Now,
		log:      log,
	}
}

func (l *UserLookup) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	return l.profiles.Get(ctx, userID, func(ctx context.Context) (*model.UserProfile, error) {
		body, err := l.client.Get(ctx, l.baseURL+userPath+userID)
		if err != nil {
			return nil, fmt.Errorf("fetching user %s: %w", userID, err)
		}
		return model.DecodeUserProfile(body)
	})
}

// Spend возвращает сумму трат пользователя. Если API ее не отдал, 0.
func (l *UserLookup) Spend(ctx context.Context, userID string) (float64, error) {
	profile, err := l.Profile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return profile.Spend(), nil
}

// LastSeen возвращает время последнего визита. ok == false, если API его не отдал.
func (l *UserLookup) LastSeen(ctx context.Context, userID string) (time.Time, bool, error) {
	profile, err := l.Profile(ctx, userID)
	if err != nil {
		return time.Time{}, false, err
	}
	if profile.LastSeen == nil {
		return time.Time{}, false, nil
	}
	return *profile.LastSeen, true, nil
}

// FilterRecentlySeen оставляет пользователей, которые были в сети не дальше window.
// Порядок сохраняется. Пользователь без идентификатора или с ошибкой запроса отбрасывается.
func (l *UserLookup) FilterRecentlySeen(ctx context.Context, users []model.Subscriber, window time.Duration) ([]model.Subscriber, error) {
	keep := make([]bool, len(users))

	var g errgroup.Group
	g.SetLimit(lookupConcurrency)

	for i, user := range users {
		if user.ID == "" {
			continue
		}
		i, user := i, user
		g.Go(func() error {
			profile, err := l.Profile(ctx, user.ID.String())
			if err != nil {
				l.log.Debug("last seen lookup failed", zap.String("user_id", user.ID.String()), zap.Error(err))
				return nil
			}
			keep[i] = profile.SeenWithin(l.now(), window)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := make([]model.Subscriber, 0, len(users))
	for i, user := range users {
		if keep[i] {
			filtered = append(filtered, user)
		}
	}
	return filtered, nil
}

// OnlineSubscribers запрашивает активных подписчиков с отметкой online и
// перепроверяет каждого по времени последнего визита.
func (l *UserLookup) OnlineSubscribers(ctx context.Context, limit int) ([]model.Subscriber, error) {
	if limit <= 0 {
		limit = lookupConcurrency
	}

	body, err := l.client.Get(ctx, l.baseURL+fmt.Sprintf(subscribersPath, limit))
	if err != nil {
		return nil, fmt.Errorf("fetching online subscribers: %w", err)
	}

	users, err := model.DecodeSubscriberList(body)
	if err != nil {
		return nil, err
	}

	return l.FilterRecentlySeen(ctx, users, DefaultOnlineWindow)
}
