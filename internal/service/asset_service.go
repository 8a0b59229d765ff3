package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/assettrack/internal/metrics"
	"github.com/mmynk/assettrack/internal/registry"
	"github.com/mmynk/assettrack/pkg/api"
)

// AssetService implements the Connect AssetService.
type AssetService struct {
	registry *registry.Registry
	metrics  *metrics.Metrics
}

// NewAssetService creates a new AssetService. m may be nil.
func NewAssetService(reg *registry.Registry, m *metrics.Metrics) *AssetService {
	return &AssetService{registry: reg, metrics: m}
}

func assetInput(f api.AssetFields) registry.AssetInput {
	return registry.AssetInput{
		AssetNumber:     f.AssetNumber,
		AssetTypeID:     f.AssetTypeID,
		LocationID:      f.LocationID,
		RoomID:          f.RoomID,
		DepartmentID:    f.DepartmentID,
		PurchaseDate:    f.PurchaseDate,
		PurchaseValue:   f.PurchaseValue,
		StickerDeployed: f.StickerDeployed,
		AssignedTo:      f.AssignedTo,
	}
}

// CreateAsset registers a new asset.
func (s *AssetService) CreateAsset(ctx context.Context, req *connect.Request[api.CreateAssetRequest]) (*connect.Response[api.AssetResponse], error) {
	slog.Info("CreateAsset request received", "asset_number", req.Msg.Asset.AssetNumber)

	asset, err := s.registry.CreateAsset(ctx, assetInput(req.Msg.Asset))
	if err != nil {
		slog.Error("CreateAsset failed", "asset_number", req.Msg.Asset.AssetNumber, "error", err)
		return nil, toConnectError(err)
	}
	if asset.IsAllocated {
		s.metrics.Transition(metrics.TransitionAllocate)
	}
	return connect.NewResponse(&api.AssetResponse{Asset: asset}), nil
}

// UpdateAsset replaces an asset's editable fields.
func (s *AssetService) UpdateAsset(ctx context.Context, req *connect.Request[api.UpdateAssetRequest]) (*connect.Response[api.AssetResponse], error) {
	slog.Info("UpdateAsset request received", "asset_id", req.Msg.ID)

	asset, err := s.registry.UpdateAsset(ctx, req.Msg.ID, assetInput(req.Msg.Asset))
	if err != nil {
		slog.Error("UpdateAsset failed", "asset_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AssetResponse{Asset: asset}), nil
}

// GetAsset retrieves an asset by ID.
func (s *AssetService) GetAsset(ctx context.Context, req *connect.Request[api.GetAssetRequest]) (*connect.Response[api.AssetResponse], error) {
	asset, err := s.registry.GetAsset(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("GetAsset failed", "asset_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AssetResponse{Asset: asset}), nil
}

// ListAssets searches the registry.
func (s *AssetService) ListAssets(ctx context.Context, req *connect.Request[api.ListAssetsRequest]) (*connect.Response[api.ListAssetsResponse], error) {
	assets, err := s.registry.ListAssets(ctx, req.Msg.Filter)
	if err != nil {
		slog.Error("ListAssets failed", "error", err)
		return nil, toConnectError(err)
	}
	slog.Debug("ListAssets successful", "count", len(assets))
	return connect.NewResponse(&api.ListAssetsResponse{Assets: assets}), nil
}

// DeleteAsset removes an asset and its allocation history.
func (s *AssetService) DeleteAsset(ctx context.Context, req *connect.Request[api.DeleteAssetRequest]) (*connect.Response[api.DeleteAssetResponse], error) {
	slog.Info("DeleteAsset request received", "asset_id", req.Msg.ID)

	if err := s.registry.DeleteAsset(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteAsset failed", "asset_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteAssetResponse{}), nil
}

// RevalueAssets recomputes every asset's valuation.
func (s *AssetService) RevalueAssets(ctx context.Context, req *connect.Request[api.RevalueAssetsRequest]) (*connect.Response[api.RevalueAssetsResponse], error) {
	asOf := s.registry.Today()
	if req.Msg.AsOf != nil {
		asOf = *req.Msg.AsOf
	}

	changed, err := s.registry.RevalueAll(ctx, asOf)
	s.metrics.Revalued(changed)
	if err != nil {
		slog.Error("RevalueAssets failed", "as_of", asOf, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RevalueAssetsResponse{AsOf: asOf, Changed: changed}), nil
}

// GetSummary returns dashboard counts and totals.
func (s *AssetService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	summary, err := s.registry.Summary(ctx)
	if err != nil {
		slog.Error("GetSummary failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSummaryResponse{Summary: summary}), nil
}

var _ api.AssetServiceHandler = (*AssetService)(nil)
