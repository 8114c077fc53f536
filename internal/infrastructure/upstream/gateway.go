package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	domain "course-planner/internal/domain/projection"
	interfaces "course-planner/internal/interfaces/infrastructure"
	"course-planner/pkg/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// CurriculumAuthHeader carries the shared secret of the curriculum service
const CurriculumAuthHeader = "X-HAWAII-AUTH"

type Config struct {
	RecordsBaseURL    string
	CurriculumBaseURL string
	CurriculumAuth    string
	UseStubs          bool
	UseBackupFallback bool
	Timeout           time.Duration
	RetryCount        int
	RetryWait         time.Duration
	RateLimit         float64
	RateBurst         int
	CacheTTL          time.Duration
}

// Error is an upstream failure with the status the caller should answer with
type Error struct {
	Status  int
	Payload any
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.Status)
}

// Gateway implements UpstreamGateway over HTTP
type Gateway struct {
	http    *resty.Client
	cfg     Config
	backups domain.BackupRepository
	cache   interfaces.CacheService
}

// NewGateway builds the HTTP gateway. backups and cache may be nil.
func NewGateway(cfg Config, backups domain.BackupRepository, cache interfaces.CacheService) *Gateway {
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 200 * time.Millisecond
	}

	client := resty.New().
		SetTransport(newRateLimitedTransport(http.DefaultTransport, cfg.RateLimit, cfg.RateBurst)).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4 * cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Gateway{
		http:    client,
		cfg:     cfg,
		backups: backups,
		cache:   cache,
	}
}

// Login authenticates a student against the records service
func (g *Gateway) Login(ctx context.Context, email, password string) (any, error) {
	if g.cfg.UseStubs {
		return loginStub(), nil
	}

	req := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"email": email, "password": password})

	data, err := g.do(req, g.cfg.RecordsBaseURL+"/login.php")
	if err != nil {
		g.logFailure("login", err)
		return nil, err
	}
	return data, nil
}

// Curriculum returns the course catalog of a career version
func (g *Gateway) Curriculum(ctx context.Context, careerCode, catalog string) (any, error) {
	if g.cfg.UseStubs {
		return curriculumStub(), nil
	}

	cacheKey := careerCode + "-" + catalog
	if g.cache != nil {
		if data, err := g.cache.GetPayload(ctx, "curriculum", cacheKey); err == nil {
			return data, nil
		} else if !errors.Is(err, interfaces.ErrCacheMiss) {
			logger.Warn("Curriculum cache read failed: %v", err)
		}
	}

	req := g.http.R().
		SetContext(ctx).
		SetHeader(CurriculumAuthHeader, g.cfg.CurriculumAuth)
	endpoint := fmt.Sprintf("%s/mallas?%s-%s", g.cfg.CurriculumBaseURL, url.QueryEscape(careerCode), url.QueryEscape(catalog))

	data, err := g.do(req, endpoint)
	if err != nil {
		g.logFailure("curriculum", err)
		if g.cfg.UseBackupFallback && g.backups != nil {
			if b, berr := g.backups.GetCurriculum(ctx, careerCode, catalog); berr == nil && b != nil {
				if fallback, ok := decodeBackup(b.Payload); ok {
					logger.WithField("career", careerCode).Info("Serving curriculum from backup snapshot")
					return fallback, nil
				}
			}
		}
		return nil, err
	}

	if g.cache != nil && g.cfg.CacheTTL > 0 {
		if err := g.cache.SetPayload(ctx, "curriculum", cacheKey, data, g.cfg.CacheTTL); err != nil {
			logger.Warn("Curriculum cache write failed: %v", err)
		}
	}
	return data, nil
}

// History returns a student's enrollment history in a career
func (g *Gateway) History(ctx context.Context, studentID, careerCode string) (any, error) {
	if g.cfg.UseStubs {
		return historyStub(), nil
	}

	req := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"rut": studentID, "codcarrera": careerCode})

	data, err := g.do(req, g.cfg.RecordsBaseURL+"/avance.php")
	if err != nil {
		g.logFailure("history", err)
		if g.cfg.UseBackupFallback && g.backups != nil {
			if b, berr := g.backups.GetHistory(ctx, studentID, careerCode); berr == nil && b != nil {
				if fallback, ok := decodeBackup(b.Payload); ok {
					logger.WithField("career", careerCode).Info("Serving history from backup snapshot")
					return fallback, nil
				}
			}
		}
		return nil, err
	}
	return data, nil
}

func (g *Gateway) do(req *resty.Request, endpoint string) (any, error) {
	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, &Error{
			Status:  http.StatusBadGateway,
			Payload: map[string]any{"message": err.Error()},
		}
	}

	var data any
	decodeErr := json.Unmarshal(resp.Body(), &data)

	if resp.IsError() {
		payload := data
		if decodeErr != nil || payload == nil {
			payload = map[string]any{"message": resp.String()}
		}
		return nil, &Error{Status: resp.StatusCode(), Payload: payload}
	}

	if decodeErr != nil {
		return nil, &Error{
			Status:  http.StatusBadGateway,
			Payload: map[string]any{"message": "invalid upstream response"},
		}
	}
	return data, nil
}

func (g *Gateway) logFailure(call string, err error) {
	status := http.StatusBadGateway
	var upErr *Error
	if errors.As(err, &upErr) {
		status = upErr.Status
	}
	logger.WithFields(logrus.Fields{
		"call":        call,
		"status":      status,
		"auth_header": g.cfg.CurriculumAuth != "",
	}).Warn("Upstream call failed")
}

func decodeBackup(raw []byte) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		return nil, false
	}
	return data, true
}

var _ interfaces.UpstreamGateway = (*Gateway)(nil)
