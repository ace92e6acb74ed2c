package inmem

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/cabinet-bridge/internal/interfaces/infra"
)

var (
	_ infra.ObjectStore = (*Store)(nil)
	_ infra.Signer      = (*Store)(nil)
)

const DownloadRoute = "/objects/"

type object struct {
	data        []byte
	contentType string
}

// Store хранит объекты в памяти процесса и сам раздает их по подписанным ссылкам.
// Используется для локального запуска и тестов.
type Store struct {
	logger  *zap.Logger
	db      map[string]object
	mu      sync.RWMutex
	baseURL string
	key     []byte
	now     func() time.Time
}

func New(log *zap.Logger, baseURL string, signingKey string) (*Store, error) {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("не удалось сгенерировать ключ подписи: %w", err)
		}
	}

	return &Store{
		logger:  log,
		db:      make(map[string]object),
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		now:     time.Now,
	}, nil
}

func (s *Store) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if key == "" {
		return ErrObjectKeyEmpty
	}

	data := make([]byte, len(body))
	copy(data, body)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.db[key] = object{data: data, contentType: contentType}
	s.logger.Info("объект сохранен", zap.String("key", key), zap.Int("size", len(data)))

	return nil
}

func (s *Store) SignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if key == "" {
		return "", ErrObjectKeyEmpty
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	s.mu.RLock()
	_, exists := s.db[key]
	s.mu.RUnlock()
	if !exists {
		return "", ErrObjectNotFound
	}

	expires := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.sign(key, expires))

	return s.baseURL + DownloadRoute + key + "?" + q.Encode(), nil
}

// ServeHTTP отдает объект по ссылке из SignGetURL.
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, DownloadRoute)
	if err := s.verify(key, r.URL.Query()); err != nil {
		s.logger.Warn("отказ в скачивании", zap.String("key", key), zap.Error(err))
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	s.mu.RLock()
	obj, exists := s.db[key]
	s.mu.RUnlock()
	if !exists {
		http.Error(w, ErrObjectNotFound.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", obj.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
	w.Write(obj.data)
}

func (s *Store) verify(key string, q url.Values) error {
	expires, err := strconv.ParseInt(q.Get("expires"), 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}

	want := s.sign(key, expires)
	if !hmac.Equal([]byte(want), []byte(q.Get("signature"))) {
		return ErrInvalidSignature
	}

	if s.now().Unix() > expires {
		return ErrLinkExpired
	}

	return nil
}

func (s *Store) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(http.MethodGet + "\n" + key + "\n" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
