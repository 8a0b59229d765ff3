package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	AssetServiceName      = "assettrack.v1.AssetService"
	CatalogServiceName    = "assettrack.v1.CatalogService"
	AllocationServiceName = "assettrack.v1.AllocationService"
	TransferServiceName   = "assettrack.v1.TransferService"
)

// Procedure paths.
const (
	AssetServiceCreateAssetProcedure   = "/" + AssetServiceName + "/CreateAsset"
	AssetServiceUpdateAssetProcedure   = "/" + AssetServiceName + "/UpdateAsset"
	AssetServiceGetAssetProcedure      = "/" + AssetServiceName + "/GetAsset"
	AssetServiceListAssetsProcedure    = "/" + AssetServiceName + "/ListAssets"
	AssetServiceDeleteAssetProcedure   = "/" + AssetServiceName + "/DeleteAsset"
	AssetServiceRevalueAssetsProcedure = "/" + AssetServiceName + "/RevalueAssets"
	AssetServiceGetSummaryProcedure    = "/" + AssetServiceName + "/GetSummary"

	CatalogServiceGetOrCreateEntryProcedure = "/" + CatalogServiceName + "/GetOrCreateEntry"
	CatalogServiceListEntriesProcedure      = "/" + CatalogServiceName + "/ListEntries"
	CatalogServiceRenameEntryProcedure      = "/" + CatalogServiceName + "/RenameEntry"
	CatalogServiceDeleteEntryProcedure      = "/" + CatalogServiceName + "/DeleteEntry"
	CatalogServiceCreateUserProcedure       = "/" + CatalogServiceName + "/CreateUser"
	CatalogServiceGetUserProcedure          = "/" + CatalogServiceName + "/GetUser"
	CatalogServiceUpdateUserProcedure       = "/" + CatalogServiceName + "/UpdateUser"
	CatalogServiceListUsersProcedure        = "/" + CatalogServiceName + "/ListUsers"
	CatalogServiceDeleteUserProcedure       = "/" + CatalogServiceName + "/DeleteUser"

	AllocationServiceAllocateProcedure        = "/" + AllocationServiceName + "/Allocate"
	AllocationServiceDeallocateProcedure      = "/" + AllocationServiceName + "/Deallocate"
	AllocationServiceListAllocationsProcedure = "/" + AllocationServiceName + "/ListAllocations"

	TransferServiceImportAssetsProcedure = "/" + TransferServiceName + "/ImportAssets"
	TransferServiceExportAssetsProcedure = "/" + TransferServiceName + "/ExportAssets"
)

type AssetServiceHandler interface {
	CreateAsset(context.Context, *connect.Request[CreateAssetRequest]) (*connect.Response[AssetResponse], error)
	UpdateAsset(context.Context, *connect.Request[UpdateAssetRequest]) (*connect.Response[AssetResponse], error)
	GetAsset(context.Context, *connect.Request[GetAssetRequest]) (*connect.Response[AssetResponse], error)
	ListAssets(context.Context, *connect.Request[ListAssetsRequest]) (*connect.Response[ListAssetsResponse], error)
	DeleteAsset(context.Context, *connect.Request[DeleteAssetRequest]) (*connect.Response[DeleteAssetResponse], error)
	RevalueAssets(context.Context, *connect.Request[RevalueAssetsRequest]) (*connect.Response[RevalueAssetsResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
}

type CatalogServiceHandler interface {
	GetOrCreateEntry(context.Context, *connect.Request[GetOrCreateEntryRequest]) (*connect.Response[EntryResponse], error)
	ListEntries(context.Context, *connect.Request[ListEntriesRequest]) (*connect.Response[ListEntriesResponse], error)
	RenameEntry(context.Context, *connect.Request[RenameEntryRequest]) (*connect.Response[EntryResponse], error)
	DeleteEntry(context.Context, *connect.Request[DeleteEntryRequest]) (*connect.Response[DeleteEntryResponse], error)
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[UserResponse], error)
	GetUser(context.Context, *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error)
	UpdateUser(context.Context, *connect.Request[UpdateUserRequest]) (*connect.Response[UserResponse], error)
	ListUsers(context.Context, *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error)
	DeleteUser(context.Context, *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteUserResponse], error)
}

type AllocationServiceHandler interface {
	Allocate(context.Context, *connect.Request[AllocateRequest]) (*connect.Response[AllocationResponse], error)
	Deallocate(context.Context, *connect.Request[DeallocateRequest]) (*connect.Response[AllocationResponse], error)
	ListAllocations(context.Context, *connect.Request[ListAllocationsRequest]) (*connect.Response[ListAllocationsResponse], error)
}

type TransferServiceHandler interface {
	ImportAssets(context.Context, *connect.Request[ImportAssetsRequest]) (*connect.Response[ImportAssetsResponse], error)
	ExportAssets(context.Context, *connect.Request[ExportAssetsRequest]) (*connect.Response[ExportAssetsResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewAssetServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAssetServiceHandler(svc AssetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, AssetServiceCreateAssetProcedure, svc.CreateAsset, opts)
	unary(mux, AssetServiceUpdateAssetProcedure, svc.UpdateAsset, opts)
	unary(mux, AssetServiceGetAssetProcedure, svc.GetAsset, opts)
	unary(mux, AssetServiceListAssetsProcedure, svc.ListAssets, opts)
	unary(mux, AssetServiceDeleteAssetProcedure, svc.DeleteAsset, opts)
	unary(mux, AssetServiceRevalueAssetsProcedure, svc.RevalueAssets, opts)
	unary(mux, AssetServiceGetSummaryProcedure, svc.GetSummary, opts)
	return "/" + AssetServiceName + "/", mux
}

func NewCatalogServiceHandler(svc CatalogServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, CatalogServiceGetOrCreateEntryProcedure, svc.GetOrCreateEntry, opts)
	unary(mux, CatalogServiceListEntriesProcedure, svc.ListEntries, opts)
	unary(mux, CatalogServiceRenameEntryProcedure, svc.RenameEntry, opts)
	unary(mux, CatalogServiceDeleteEntryProcedure, svc.DeleteEntry, opts)
	unary(mux, CatalogServiceCreateUserProcedure, svc.CreateUser, opts)
	unary(mux, CatalogServiceGetUserProcedure, svc.GetUser, opts)
	unary(mux, CatalogServiceUpdateUserProcedure, svc.UpdateUser, opts)
	unary(mux, CatalogServiceListUsersProcedure, svc.ListUsers, opts)
	unary(mux, CatalogServiceDeleteUserProcedure, svc.DeleteUser, opts)
	return "/" + CatalogServiceName + "/", mux
}

func NewAllocationServiceHandler(svc AllocationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, AllocationServiceAllocateProcedure, svc.Allocate, opts)
	unary(mux, AllocationServiceDeallocateProcedure, svc.Deallocate, opts)
	unary(mux, AllocationServiceListAllocationsProcedure, svc.ListAllocations, opts)
	return "/" + AllocationServiceName + "/", mux
}

func NewTransferServiceHandler(svc TransferServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, TransferServiceImportAssetsProcedure, svc.ImportAssets, opts)
	unary(mux, TransferServiceExportAssetsProcedure, svc.ExportAssets, opts)
	return "/" + TransferServiceName + "/", mux
}
