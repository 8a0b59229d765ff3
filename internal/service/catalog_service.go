package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/assettrack/internal/ledger"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/registry"
	"github.com/mmynk/assettrack/pkg/api"
)

// CatalogService implements the Connect CatalogService: catalog entries and users.
type CatalogService struct {
	registry *registry.Registry
	ledger   *ledger.Ledger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(reg *registry.Registry, l *ledger.Ledger) *CatalogService {
	return &CatalogService{registry: reg, ledger: l}
}

func (s *CatalogService) GetOrCreateEntry(ctx context.Context, req *connect.Request[api.GetOrCreateEntryRequest]) (*connect.Response[api.EntryResponse], error) {
	entry, err := s.registry.GetOrCreateEntry(ctx, req.Msg.Kind, req.Msg.Name)
	if err != nil {
		slog.Error("GetOrCreateEntry failed", "kind", req.Msg.Kind, "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.EntryResponse{Entry: entry}), nil
}

func (s *CatalogService) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	entries, err := s.registry.ListEntries(ctx, req.Msg.Kind)
	if err != nil {
		slog.Error("ListEntries failed", "kind", req.Msg.Kind, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListEntriesResponse{Entries: entries}), nil
}

func (s *CatalogService) RenameEntry(ctx context.Context, req *connect.Request[api.RenameEntryRequest]) (*connect.Response[api.EntryResponse], error) {
	entry, err := s.registry.RenameEntry(ctx, req.Msg.ID, req.Msg.Name)
	if err != nil {
		slog.Error("RenameEntry failed", "id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.EntryResponse{Entry: entry}), nil
}

func (s *CatalogService) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error) {
	if err := s.registry.DeleteEntry(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteEntry failed", "id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteEntryResponse{}), nil
}

func (s *CatalogService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.UserResponse], error) {
	user, err := s.registry.CreateUser(ctx, req.Msg.Name, req.Msg.Email)
	if err != nil {
		slog.Error("CreateUser failed", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UserResponse{User: user}), nil
}

// GetUser returns a user together with their allocation history.
func (s *CatalogService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	user, err := s.registry.GetUser(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("GetUser failed", "user_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	history, err := s.ledger.List(ctx, models.AllocationFilter{UserID: user.ID})
	if err != nil {
		slog.Error("GetUser failed to list allocations", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: user, Allocations: history}), nil
}

func (s *CatalogService) UpdateUser(ctx context.Context, req *connect.Request[api.UpdateUserRequest]) (*connect.Response[api.UserResponse], error) {
	user, err := s.registry.UpdateUser(ctx, req.Msg.ID, req.Msg.Name, req.Msg.Email)
	if err != nil {
		slog.Error("UpdateUser failed", "user_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UserResponse{User: user}), nil
}

func (s *CatalogService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	users, err := s.registry.ListUsers(ctx)
	if err != nil {
		slog.Error("ListUsers failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: users}), nil
}

func (s *CatalogService) DeleteUser(ctx context.Context, req *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error) {
	if err := s.registry.DeleteUser(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteUser failed", "user_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteUserResponse{}), nil
}

var _ api.CatalogServiceHandler = (*CatalogService)(nil)
