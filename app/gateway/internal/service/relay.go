package service

import (
	"context"
	"errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/engine"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

// Engine 聚合引擎提供的能力
type Engine interface {
	Search(ctx context.Context, opts model.QueryOptions) (*model.ResultSet, error)
	Suggest(ctx context.Context, opts model.QueryOptions) (*model.AutoSuggestResultSet, error)
	Exclusions(ctx context.Context) []model.ExclusionPattern
}

// SearchRequest /search 的查询参数
type SearchRequest struct {
	Q    string `json:"q"`
	Safe string `json:"safe"`
	CC   string `json:"cc"`
	Lang string `json:"lang"`
	Page int    `json:"page"`
	Mode string `json:"mode"`
}

// SuggestRequest /suggest 的查询参数
type SuggestRequest struct {
	Q    string `json:"q"`
	CC   string `json:"cc"`
	Lang string `json:"lang"`
}

type RelayService struct {
	engine Engine
	log    *log.Helper
}

func NewRelayService(e Engine, logger log.Logger) *RelayService {
	return &RelayService{
		engine: e,
		log:    log.NewHelper(logger),
	}
}

func (s *RelayService) Search(ctx context.Context, req *SearchRequest) (*model.ResultSet, error) {
	opts := model.NewQueryOptions(req.Q, req.Safe, req.CC, req.Lang, req.Page, req.Mode)
	rs, err := s.engine.Search(ctx, opts)
	if errors.Is(err, engine.ErrEmptyQuery) {
		return model.EmptyResultSet(), nil
	}
	if err != nil {
		s.log.WithContext(ctx).Errorf("search %q failed: %v", req.Q, err)
		return nil, toHTTPError(err)
	}
	return rs, nil
}

func (s *RelayService) Suggest(ctx context.Context, req *SuggestRequest) (*model.AutoSuggestResultSet, error) {
	opts := model.NewQueryOptions(req.Q, "", req.CC, req.Lang, 0, "")
	rs, err := s.engine.Suggest(ctx, opts)
	if errors.Is(err, engine.ErrEmptyQuery) {
		return &model.AutoSuggestResultSet{Results: []model.Suggestion{}}, nil
	}
	if err != nil {
		s.log.WithContext(ctx).Errorf("suggest %q failed: %v", req.Q, err)
		return nil, toHTTPError(err)
	}
	return rs, nil
}

func (s *RelayService) Exclusions(ctx context.Context) ([]model.ExclusionPattern, error) {
	return s.engine.Exclusions(ctx), nil
}

func toHTTPError(err error) error {
	if errors.Is(err, engine.ErrUpstreamUnavailable) {
		return kerrors.ServiceUnavailable("UPSTREAM_UNAVAILABLE", err.Error())
	}
	return kerrors.InternalServer("INTERNAL", err.Error())
}
