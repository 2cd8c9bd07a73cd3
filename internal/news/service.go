package news

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"newsportal/api/internal/config"
)

// HeadlinesQuery selects the home feed. When PrimarySource and
// SecondarySources are both set the result is a blend: PrimaryRatio of the
// page from the primary source, the remainder from the secondaries.
type HeadlinesQuery struct {
	Page             int
	PageSize         int
	Sources          string
	Category         string
	PrimarySource    string
	SecondarySources string
	PrimaryRatio     float64
}

type Service struct {
	client *Client
	cache  *redis.Client
	cfg    config.NewsConfig
	log    zerolog.Logger
}

func NewService(client *Client, cache *redis.Client, cfg config.NewsConfig, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		cfg:    cfg,
		log:    log,
	}
}

func (s *Service) Headlines(ctx context.Context, q HeadlinesQuery) (*Response, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = s.cfg.PageSize
	}
	if q.PrimaryRatio <= 0 || q.PrimaryRatio > 1 {
		q.PrimaryRatio = s.cfg.PrimaryRatio
	}

	if q.PrimarySource != "" && q.SecondarySources != "" {
		return s.blendedHeadlines(ctx, q)
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	switch {
	case q.Sources != "":
		params.Set("sources", q.Sources)
	case q.Category != "":
		params.Set("country", s.cfg.Country)
		params.Set("category", q.Category)
	default:
		params.Set("country", s.cfg.Country)
	}

	return s.cached(ctx, "news:headlines?"+params.Encode(), func(ctx context.Context) (*Response, error) {
		return s.client.TopHeadlines(ctx, params)
	})
}

// blendedHeadlines splits one page between a preferred source and the rest of
// the recommended set.
func (s *Service) blendedHeadlines(ctx context.Context, q HeadlinesQuery) (*Response, error) {
	primarySize := int(math.Ceil(float64(q.PageSize) * q.PrimaryRatio))
	secondarySize := q.PageSize - primarySize

	primary, err := s.sourceHeadlines(ctx, q.PrimarySource, q.Page, primarySize)
	if err != nil {
		return nil, err
	}

	articles := append([]json.RawMessage(nil), primary.Articles...)
	if secondarySize > 0 {
		secondary, err := s.sourceHeadlines(ctx, q.SecondarySources, q.Page, secondarySize)
		if err != nil {
			return nil, err
		}
		articles = append(articles, secondary.Articles...)
	}

	return &Response{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	}, nil
}

func (s *Service) sourceHeadlines(ctx context.Context, sources string, page int, pageSize int) (*Response, error) {
	params := url.Values{}
	params.Set("sources", sources)
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))

	return s.cached(ctx, "news:headlines?"+params.Encode(), func(ctx context.Context) (*Response, error) {
		return s.client.TopHeadlines(ctx, params)
	})
}

func (s *Service) Category(ctx context.Context, category string, page int, pageSize int) (*Response, error) {
	return s.Headlines(ctx, HeadlinesQuery{Page: page, PageSize: pageSize, Category: category})
}

func (s *Service) Search(ctx context.Context, query string, page int, pageSize int) (*Response, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.cfg.PageSize
	}

	key := "news:search?q=" + url.QueryEscape(query) + "&page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(pageSize)
	return s.cached(ctx, key, func(ctx context.Context) (*Response, error) {
		return s.client.Everything(ctx, query, page, pageSize)
	})
}

// WarmDefaultHeadlines refreshes the first page of the generic feed so
// anonymous traffic hits the cache. Called from the scheduler.
func (s *Service) WarmDefaultHeadlines(ctx context.Context) error {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("pageSize", strconv.Itoa(s.cfg.PageSize))
	params.Set("country", s.cfg.Country)

	resp, err := s.client.TopHeadlines(ctx, params)
	if err != nil {
		return err
	}
	s.store(ctx, "news:headlines?"+params.Encode(), resp)
	return nil
}

// cached serves key from redis when possible and falls through to fetch on a
// miss. Cache failures are logged and bypassed, never surfaced.
func (s *Service) cached(ctx context.Context, key string, fetch func(context.Context) (*Response, error)) (*Response, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var resp Response
			if err := json.Unmarshal(payload, &resp); err == nil {
				return &resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Debug().Err(err).Str("key", key).Msg("news cache read failed")
		}
	}

	resp, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if resp.Status == "ok" {
		s.store(ctx, key, resp)
	}
	return resp, nil
}

func (s *Service) store(ctx context.Context, key string, resp *Response) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cfg.CacheTTL).Err(); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("news cache write failed")
	}
}
