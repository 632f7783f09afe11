package integration

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
)

// ErrTokenRejected возвращается, когда identity provider не принял токен.
var ErrTokenRejected = errors.New("token rejected by identity provider")

// IdentityProvider — граница внешнего identity provider. Сервис никогда не
// разбирает токен сам, только пересылает его на проверку.
type IdentityProvider interface {
	Resolve(ctx context.Context, accessToken string) (*models.Identity, error)
	CreateUser(ctx context.Context, email, password, name, role string) (*models.Identity, error)
}

type identityClient struct {
	baseURL    string
	anonKey    string
	serviceKey string
	timeout    time.Duration
	retryCount int
	retryDelay time.Duration
	client     *http.Client
	cache      *redis.Client // опционально, nil = без кэша
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

func NewIdentityClient(baseURL, anonKey, serviceKey string, timeout time.Duration, retryCount int, retryDelay time.Duration, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) IdentityProvider {
	return &identityClient{
		baseURL:    baseURL,
		anonKey:    anonKey,
		serviceKey: serviceKey,
		timeout:    timeout,
		retryCount: retryCount,
		retryDelay: retryDelay,
		client: &http.Client{
			Timeout: timeout,
		},
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

type providerUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type createUserRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata"`
}

func cacheKey(accessToken string) string {
	// В кэш уходит хэш токена, не сам токен
	sum := sha256.Sum256([]byte(accessToken))
	return "identity:" + hex.EncodeToString(sum[:])
}

func (c *identityClient) Resolve(ctx context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, ErrTokenRejected
	}

	if c.cache != nil {
		if identity := c.fromCache(ctx, accessToken); identity != nil {
			return identity, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.doWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrTokenRejected
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrTokenRejected
	}

	identity := &models.Identity{ID: user.ID, Email: user.Email}

	if c.cache != nil {
		c.toCache(ctx, accessToken, identity)
	}

	return identity, nil
}

func (c *identityClient) CreateUser(ctx context.Context, email, password, name, role string) (*models.Identity, error) {
	payload := createUserRequest{
		Email:    email,
		Password: password,
		// Подтверждаем email сразу: почтовый сервер не настроен
		EmailConfirm: true,
		UserMetadata: map[string]string{
			"name": name,
			"role": role,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/admin/users", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("User created in identity provider")

	return &models.Identity{ID: user.ID, Email: user.Email}, nil
}

func (c *identityClient) doWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error

	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			c.logger.Warn().Int("attempt", i).Msg("Retrying identity provider request")
			time.Sleep(c.retryDelay * time.Duration(i))
		}

		// Тело запроса одноразовое, на повтор его нужно перечитать заново
		attempt := req.Clone(req.Context())
		if i > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			attempt.Body = body
		}

		resp, err := c.client.Do(attempt)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("identity provider returned status %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryCount+1, lastErr)
}

func (c *identityClient) fromCache(ctx context.Context, accessToken string) *models.Identity {
	data, err := c.cache.Get(ctx, cacheKey(accessToken)).Bytes()
	if err != nil {
		return nil
	}

	var identity models.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil
	}

	return &identity
}

func (c *identityClient) toCache(ctx context.Context, accessToken string, identity *models.Identity) {
	data, err := json.Marshal(identity)
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, cacheKey(accessToken), data, c.cacheTTL).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to cache identity")
	}
}
