package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, opts...)
}

// AssetServiceClient is a client for the assettrack.v1.AssetService service.
type AssetServiceClient struct {
	createAsset   *connect.Client[CreateAssetRequest, AssetResponse]
	updateAsset   *connect.Client[UpdateAssetRequest, AssetResponse]
	getAsset      *connect.Client[GetAssetRequest, AssetResponse]
	listAssets    *connect.Client[ListAssetsRequest, ListAssetsResponse]
	deleteAsset   *connect.Client[DeleteAssetRequest, DeleteAssetResponse]
	revalueAssets *connect.Client[RevalueAssetsRequest, RevalueAssetsResponse]
	getSummary    *connect.Client[GetSummaryRequest, GetSummaryResponse]
}

// NewAssetServiceClient constructs a client for the AssetService. The baseURL
// is the server root, e.g. http://localhost:8080.
func NewAssetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AssetServiceClient {
	return &AssetServiceClient{
		createAsset:   newClient[CreateAssetRequest, AssetResponse](httpClient, baseURL, AssetServiceCreateAssetProcedure, opts),
		updateAsset:   newClient[UpdateAssetRequest, AssetResponse](httpClient, baseURL, AssetServiceUpdateAssetProcedure, opts),
		getAsset:      newClient[GetAssetRequest, AssetResponse](httpClient, baseURL, AssetServiceGetAssetProcedure, opts),
		listAssets:    newClient[ListAssetsRequest, ListAssetsResponse](httpClient, baseURL, AssetServiceListAssetsProcedure, opts),
		deleteAsset:   newClient[DeleteAssetRequest, DeleteAssetResponse](httpClient, baseURL, AssetServiceDeleteAssetProcedure, opts),
		revalueAssets: newClient[RevalueAssetsRequest, RevalueAssetsResponse](httpClient, baseURL, AssetServiceRevalueAssetsProcedure, opts),
		getSummary:    newClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL, AssetServiceGetSummaryProcedure, opts),
	}
}

func (c *AssetServiceClient) CreateAsset(ctx context.Context, req *connect.Request[CreateAssetRequest]) (*connect.Response[AssetResponse], error) {
	return c.createAsset.CallUnary(ctx, req)
}

func (c *AssetServiceClient) UpdateAsset(ctx context.Context, req *connect.Request[UpdateAssetRequest]) (*connect.Response[AssetResponse], error) {
	return c.updateAsset.CallUnary(ctx, req)
}

func (c *AssetServiceClient) GetAsset(ctx context.Context, req *connect.Request[GetAssetRequest]) (*connect.Response[AssetResponse], error) {
	return c.getAsset.CallUnary(ctx, req)
}

func (c *AssetServiceClient) ListAssets(ctx context.Context, req *connect.Request[ListAssetsRequest]) (*connect.Response[ListAssetsResponse], error) {
	return c.listAssets.CallUnary(ctx, req)
}

func (c *AssetServiceClient) DeleteAsset(ctx context.Context, req *connect.Request[DeleteAssetRequest]) (*connect.Response[DeleteAssetResponse], error) {
	return c.deleteAsset.CallUnary(ctx, req)
}

func (c *AssetServiceClient) RevalueAssets(ctx context.Context, req *connect.Request[RevalueAssetsRequest]) (*connect.Response[RevalueAssetsResponse], error) {
	return c.revalueAssets.CallUnary(ctx, req)
}

func (c *AssetServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

// CatalogServiceClient is a client for the assettrack.v1.CatalogService service.
type CatalogServiceClient struct {
	getOrCreateEntry *connect.Client[GetOrCreateEntryRequest, EntryResponse]
	listEntries      *connect.Client[ListEntriesRequest, ListEntriesResponse]
	renameEntry      *connect.Client[RenameEntryRequest, EntryResponse]
	deleteEntry      *connect.Client[DeleteEntryRequest, DeleteEntryResponse]
	createUser       *connect.Client[CreateUserRequest, UserResponse]
	getUser          *connect.Client[GetUserRequest, GetUserResponse]
	updateUser       *connect.Client[UpdateUserRequest, UserResponse]
	listUsers        *connect.Client[ListUsersRequest, ListUsersResponse]
	deleteUser       *connect.Client[DeleteUserRequest, DeleteUserResponse]
}

func NewCatalogServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CatalogServiceClient {
	return &CatalogServiceClient{
		getOrCreateEntry: newClient[GetOrCreateEntryRequest, EntryResponse](httpClient, baseURL, CatalogServiceGetOrCreateEntryProcedure, opts),
		listEntries:      newClient[ListEntriesRequest, ListEntriesResponse](httpClient, baseURL, CatalogServiceListEntriesProcedure, opts),
		renameEntry:      newClient[RenameEntryRequest, EntryResponse](httpClient, baseURL, CatalogServiceRenameEntryProcedure, opts),
		deleteEntry:      newClient[DeleteEntryRequest, DeleteEntryResponse](httpClient, baseURL, CatalogServiceDeleteEntryProcedure, opts),
		createUser:       newClient[CreateUserRequest, UserResponse](httpClient, baseURL, CatalogServiceCreateUserProcedure, opts),
		getUser:          newClient[GetUserRequest, GetUserResponse](httpClient, baseURL, CatalogServiceGetUserProcedure, opts),
		updateUser:       newClient[UpdateUserRequest, UserResponse](httpClient, baseURL, CatalogServiceUpdateUserProcedure, opts),
		listUsers:        newClient[ListUsersRequest, ListUsersResponse](httpClient, baseURL, CatalogServiceListUsersProcedure, opts),
		deleteUser:       newClient[DeleteUserRequest, DeleteUserResponse](httpClient, baseURL, CatalogServiceDeleteUserProcedure, opts),
	}
}

func (c *CatalogServiceClient) GetOrCreateEntry(ctx context.Context, req *connect.Request[GetOrCreateEntryRequest]) (*connect.Response[EntryResponse], error) {
	return c.getOrCreateEntry.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) ListEntries(ctx context.Context, req *connect.Request[ListEntriesRequest]) (*connect.Response[ListEntriesResponse], error) {
	return c.listEntries.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) RenameEntry(ctx context.Context, req *connect.Request[RenameEntryRequest]) (*connect.Response[EntryResponse], error) {
	return c.renameEntry.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) DeleteEntry(ctx context.Context, req *connect.Request[DeleteEntryRequest]) (*connect.Response[DeleteEntryResponse], error) {
	return c.deleteEntry.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[UserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) UpdateUser(ctx context.Context, req *connect.Request[UpdateUserRequest]) (*connect.Response[UserResponse], error) {
	return c.updateUser.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) ListUsers(ctx context.Context, req *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) DeleteUser(ctx context.Context, req *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteUserResponse], error) {
	return c.deleteUser.CallUnary(ctx, req)
}

// AllocationServiceClient is a client for the assettrack.v1.AllocationService service.
type AllocationServiceClient struct {
	allocate        *connect.Client[AllocateRequest, AllocationResponse]
	deallocate      *connect.Client[DeallocateRequest, AllocationResponse]
	listAllocations *connect.Client[ListAllocationsRequest, ListAllocationsResponse]
}

func NewAllocationServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AllocationServiceClient {
	return &AllocationServiceClient{
		allocate:        newClient[AllocateRequest, AllocationResponse](httpClient, baseURL, AllocationServiceAllocateProcedure, opts),
		deallocate:      newClient[DeallocateRequest, AllocationResponse](httpClient, baseURL, AllocationServiceDeallocateProcedure, opts),
		listAllocations: newClient[ListAllocationsRequest, ListAllocationsResponse](httpClient, baseURL, AllocationServiceListAllocationsProcedure, opts),
	}
}

func (c *AllocationServiceClient) Allocate(ctx context.Context, req *connect.Request[AllocateRequest]) (*connect.Response[AllocationResponse], error) {
	return c.allocate.CallUnary(ctx, req)
}

func (c *AllocationServiceClient) Deallocate(ctx context.Context, req *connect.Request[DeallocateRequest]) (*connect.Response[AllocationResponse], error) {
	return c.deallocate.CallUnary(ctx, req)
}

func (c *AllocationServiceClient) ListAllocations(ctx context.Context, req *connect.Request[ListAllocationsRequest]) (*connect.Response[ListAllocationsResponse], error) {
	return c.listAllocations.CallUnary(ctx, req)
}

// TransferServiceClient is a client for the assettrack.v1.TransferService service.
type TransferServiceClient struct {
	importAssets *connect.Client[ImportAssetsRequest, ImportAssetsResponse]
	exportAssets *connect.Client[ExportAssetsRequest, ExportAssetsResponse]
}

func NewTransferServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TransferServiceClient {
	return &TransferServiceClient{
		importAssets: newClient[ImportAssetsRequest, ImportAssetsResponse](httpClient, baseURL, TransferServiceImportAssetsProcedure, opts),
		exportAssets: newClient[ExportAssetsRequest, ExportAssetsResponse](httpClient, baseURL, TransferServiceExportAssetsProcedure, opts),
	}
}

func (c *TransferServiceClient) ImportAssets(ctx context.Context, req *connect.Request[ImportAssetsRequest]) (*connect.Response[ImportAssetsResponse], error) {
	return c.importAssets.CallUnary(ctx, req)
}

func (c *TransferServiceClient) ExportAssets(ctx context.Context, req *connect.Request[ExportAssetsRequest]) (*connect.Response[ExportAssetsResponse], error) {
	return c.exportAssets.CallUnary(ctx, req)
}
