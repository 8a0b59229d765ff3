package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/ledger"
	"github.com/mmynk/assettrack/internal/metrics"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/registry"
	"github.com/mmynk/assettrack/pkg/api"
)

// AllocationService implements the Connect AllocationService.
type AllocationService struct {
	ledger   *ledger.Ledger
	registry *registry.Registry
	metrics  *metrics.Metrics
}

// NewAllocationService creates a new AllocationService. The registry supplies
// today's date for requests without one. m may be nil.
func NewAllocationService(l *ledger.Ledger, reg *registry.Registry, m *metrics.Metrics) *AllocationService {
	return &AllocationService{ledger: l, registry: reg, metrics: m}
}

func (s *AllocationService) dateOrToday(d *date.Date) date.Date {
	if d == nil {
		return s.registry.Today()
	}
	return *d
}

// Allocate puts an asset in a user's custody.
func (s *AllocationService) Allocate(ctx context.Context, req *connect.Request[api.AllocateRequest]) (*connect.Response[api.AllocationResponse], error) {
	slog.Info("Allocate request received", "asset_id", req.Msg.AssetID, "user_id", req.Msg.UserID)

	alloc, err := s.ledger.Allocate(ctx, req.Msg.AssetID, req.Msg.UserID, s.dateOrToday(req.Msg.AssignedDate))
	if err != nil {
		slog.Error("Allocate failed", "asset_id", req.Msg.AssetID, "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.Transition(metrics.TransitionAllocate)
	return s.respond(ctx, alloc)
}

// Deallocate closes an allocation, named by ID or by its asset.
func (s *AllocationService) Deallocate(ctx context.Context, req *connect.Request[api.DeallocateRequest]) (*connect.Response[api.AllocationResponse], error) {
	slog.Info("Deallocate request received", "allocation_id", req.Msg.AllocationID, "asset_id", req.Msg.AssetID)

	returned := s.dateOrToday(req.Msg.ReturnDate)
	var (
		alloc *models.Allocation
		err   error
	)
	switch {
	case req.Msg.AllocationID != "":
		alloc, err = s.ledger.Deallocate(ctx, req.Msg.AllocationID, returned)
	case req.Msg.AssetID != "":
		alloc, err = s.ledger.Return(ctx, req.Msg.AssetID, returned)
	default:
		err = models.Invalid("allocation_id or asset_id required")
	}
	if err != nil {
		slog.Error("Deallocate failed", "allocation_id", req.Msg.AllocationID, "asset_id", req.Msg.AssetID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.Transition(metrics.TransitionDeallocate)
	return s.respond(ctx, alloc)
}

func (s *AllocationService) respond(ctx context.Context, alloc *models.Allocation) (*connect.Response[api.AllocationResponse], error) {
	asset, err := s.registry.GetAsset(ctx, alloc.Asset.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AllocationResponse{Allocation: alloc, Asset: asset}), nil
}

// ListAllocations returns allocations newest first.
func (s *AllocationService) ListAllocations(ctx context.Context, req *connect.Request[api.ListAllocationsRequest]) (*connect.Response[api.ListAllocationsResponse], error) {
	allocs, err := s.ledger.List(ctx, req.Msg.Filter)
	if err != nil {
		slog.Error("ListAllocations failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListAllocationsResponse{Allocations: allocs}), nil
}

var _ api.AllocationServiceHandler = (*AllocationService)(nil)
