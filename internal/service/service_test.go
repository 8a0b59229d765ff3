package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/importer"
	"github.com/mmynk/assettrack/internal/ledger"
	"github.com/mmynk/assettrack/internal/metrics"
	"github.com/mmynk/assettrack/internal/middleware"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/registry"
	"github.com/mmynk/assettrack/internal/storage/sqlite"
	"github.com/mmynk/assettrack/pkg/api"
)

const csvHeader = "asset_number,model,location,room_number,department,purchase_date,purchase_value,current_value,assigned_to,email,sticker_deployed\n"

type clients struct {
	assets      *api.AssetServiceClient
	catalog     *api.CatalogServiceClient
	allocations *api.AllocationServiceClient
	transfer    *api.TransferServiceClient
}

func newTestRegistry(t *testing.T) (*sqlite.SQLiteStore, *registry.Registry) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := func() time.Time { return time.Date(2022, time.January, 1, 12, 0, 0, 0, time.UTC) }
	return store, registry.New(store, registry.WithClock(now))
}

// setupTestServer runs every service against a temp-file database.
func setupTestServer(t *testing.T) clients {
	t.Helper()

	store, reg := newTestRegistry(t)
	m := metrics.New()
	led := ledger.New(store)
	opts := connect.WithInterceptors(middleware.LoggingInterceptor(m))

	mux := http.NewServeMux()
	mux.Handle(api.NewAssetServiceHandler(NewAssetService(reg, m), opts))
	mux.Handle(api.NewCatalogServiceHandler(NewCatalogService(reg, led), opts))
	mux.Handle(api.NewAllocationServiceHandler(NewAllocationService(led, reg, m), opts))
	mux.Handle(api.NewTransferServiceHandler(NewTransferService(importer.New(store, importer.WithMetrics(m)), reg), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return clients{
		assets:      api.NewAssetServiceClient(http.DefaultClient, server.URL),
		catalog:     api.NewCatalogServiceClient(http.DefaultClient, server.URL),
		allocations: api.NewAllocationServiceClient(http.DefaultClient, server.URL),
		transfer:    api.NewTransferServiceClient(http.DefaultClient, server.URL),
	}
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("Expected connect error, got %v", err)
	}
	if connectErr.Code() != want {
		t.Errorf("Expected code %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

func TestAssetLifecycle(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	entry, err := c.catalog.GetOrCreateEntry(ctx, connect.NewRequest(&api.GetOrCreateEntryRequest{
		Kind: models.KindAssetType,
		Name: "Laptop",
	}))
	if err != nil {
		t.Fatalf("GetOrCreateEntry failed: %v", err)
	}

	created, err := c.assets.CreateAsset(ctx, connect.NewRequest(&api.CreateAssetRequest{
		Asset: api.AssetFields{
			AssetNumber:   "LT-1",
			AssetTypeID:   entry.Msg.Entry.ID,
			PurchaseDate:  date.MustParse("2020-01-01").Ptr(),
			PurchaseValue: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
		},
	}))
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}
	asset := created.Msg.Asset
	if got := models.RefName(asset.AssetType); got != "Laptop" {
		t.Errorf("Expected asset type Laptop, got %q", got)
	}
	if got := asset.CurrentValue.Decimal.StringFixed(2); got != "599.73" {
		t.Errorf("Expected current value 599.73, got %s", got)
	}
	if got := asset.DepreciationDate.String(); got != "2024-12-30" {
		t.Errorf("Expected depreciation date 2024-12-30, got %s", got)
	}

	got, err := c.assets.GetAsset(ctx, connect.NewRequest(&api.GetAssetRequest{ID: asset.ID}))
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if got.Msg.Asset.AssetNumber != asset.AssetNumber {
		t.Errorf("Expected asset number %s, got %s", asset.AssetNumber, got.Msg.Asset.AssetNumber)
	}

	_, err = c.assets.CreateAsset(ctx, connect.NewRequest(&api.CreateAssetRequest{
		Asset: api.AssetFields{AssetNumber: "LT-1"},
	}))
	expectCode(t, err, connect.CodeAlreadyExists)

	list, err := c.assets.ListAssets(ctx, connect.NewRequest(&api.ListAssetsRequest{
		Filter: models.AssetFilter{AssetType: "laptop"},
	}))
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(list.Msg.Assets) != 1 {
		t.Errorf("Expected 1 laptop, got %d", len(list.Msg.Assets))
	}

	revalued, err := c.assets.RevalueAssets(ctx, connect.NewRequest(&api.RevalueAssetsRequest{
		AsOf: date.MustParse("2023-01-01").Ptr(),
	}))
	if err != nil {
		t.Fatalf("RevalueAssets failed: %v", err)
	}
	if revalued.Msg.Changed != 1 {
		t.Errorf("Expected 1 revalued asset, got %d", revalued.Msg.Changed)
	}

	if _, err := c.assets.DeleteAsset(ctx, connect.NewRequest(&api.DeleteAssetRequest{ID: asset.ID})); err != nil {
		t.Fatalf("DeleteAsset failed: %v", err)
	}
	_, err = c.assets.GetAsset(ctx, connect.NewRequest(&api.GetAssetRequest{ID: asset.ID}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestCreateAssetInvalid(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.assets.CreateAsset(context.Background(), connect.NewRequest(&api.CreateAssetRequest{
		Asset: api.AssetFields{
			AssetNumber:   "X-1",
			PurchaseValue: decimal.NewNullDecimal(decimal.NewFromInt(-10)),
		},
	}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestAllocationFlow(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	created, err := c.assets.CreateAsset(ctx, connect.NewRequest(&api.CreateAssetRequest{
		Asset: api.AssetFields{AssetNumber: "MON-7"},
	}))
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}
	assetID := created.Msg.Asset.ID

	alice, err := c.catalog.CreateUser(ctx, connect.NewRequest(&api.CreateUserRequest{Name: "Alice"}))
	if err != nil {
		t.Fatalf("CreateUser(Alice) failed: %v", err)
	}
	bob, err := c.catalog.CreateUser(ctx, connect.NewRequest(&api.CreateUserRequest{Name: "Bob"}))
	if err != nil {
		t.Fatalf("CreateUser(Bob) failed: %v", err)
	}

	allocated, err := c.allocations.Allocate(ctx, connect.NewRequest(&api.AllocateRequest{
		AssetID: assetID,
		UserID:  alice.Msg.User.ID,
	}))
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if got := allocated.Msg.Allocation.AssignedDate.String(); got != "2022-01-01" {
		t.Errorf("Expected assigned date to default to today, got %s", got)
	}
	if !allocated.Msg.Asset.IsAllocated {
		t.Error("Expected asset to be allocated")
	}

	_, err = c.allocations.Allocate(ctx, connect.NewRequest(&api.AllocateRequest{
		AssetID: assetID,
		UserID:  bob.Msg.User.ID,
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = c.catalog.DeleteUser(ctx, connect.NewRequest(&api.DeleteUserRequest{ID: alice.Msg.User.ID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = c.allocations.Deallocate(ctx, connect.NewRequest(&api.DeallocateRequest{
		AllocationID: allocated.Msg.Allocation.ID,
		ReturnDate:   date.MustParse("2021-12-31").Ptr(),
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	returned, err := c.allocations.Deallocate(ctx, connect.NewRequest(&api.DeallocateRequest{AssetID: assetID}))
	if err != nil {
		t.Fatalf("Deallocate failed: %v", err)
	}
	if returned.Msg.Asset.IsAllocated || returned.Msg.Asset.AssignedTo != nil {
		t.Errorf("Expected asset to be unallocated, got %+v", returned.Msg.Asset)
	}
	if returned.Msg.Allocation.ReturnDate == nil {
		t.Fatal("Expected return date to be set")
	}

	_, err = c.allocations.Deallocate(ctx, connect.NewRequest(&api.DeallocateRequest{AssetID: assetID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = c.allocations.Deallocate(ctx, connect.NewRequest(&api.DeallocateRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)

	detail, err := c.catalog.GetUser(ctx, connect.NewRequest(&api.GetUserRequest{ID: alice.Msg.User.ID}))
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if len(detail.Msg.Allocations) != 1 {
		t.Fatalf("Expected 1 allocation in history, got %d", len(detail.Msg.Allocations))
	}
	if got := detail.Msg.Allocations[0].Asset.Name; got != "MON-7" {
		t.Errorf("Expected history for MON-7, got %s", got)
	}

	open, err := c.allocations.ListAllocations(ctx, connect.NewRequest(&api.ListAllocationsRequest{
		Filter: models.AllocationFilter{OpenOnly: true},
	}))
	if err != nil {
		t.Fatalf("ListAllocations failed: %v", err)
	}
	if len(open.Msg.Allocations) != 0 {
		t.Errorf("Expected no open allocations, got %d", len(open.Msg.Allocations))
	}
}

func TestCatalogAndUsers(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	loc, err := c.catalog.GetOrCreateEntry(ctx, connect.NewRequest(&api.GetOrCreateEntryRequest{
		Kind: models.KindLocation,
		Name: "Leeds",
	}))
	if err != nil {
		t.Fatalf("GetOrCreateEntry failed: %v", err)
	}

	renamed, err := c.catalog.RenameEntry(ctx, connect.NewRequest(&api.RenameEntryRequest{
		ID:   loc.Msg.Entry.ID,
		Name: "Leeds HQ",
	}))
	if err != nil {
		t.Fatalf("RenameEntry failed: %v", err)
	}
	if renamed.Msg.Entry.Name != "Leeds HQ" {
		t.Errorf("Expected name 'Leeds HQ', got %q", renamed.Msg.Entry.Name)
	}

	entries, err := c.catalog.ListEntries(ctx, connect.NewRequest(&api.ListEntriesRequest{Kind: models.KindLocation}))
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries.Msg.Entries) != 1 {
		t.Errorf("Expected 1 location, got %d", len(entries.Msg.Entries))
	}

	_, err = c.catalog.ListEntries(ctx, connect.NewRequest(&api.ListEntriesRequest{Kind: "planet"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	if _, err := c.catalog.DeleteEntry(ctx, connect.NewRequest(&api.DeleteEntryRequest{ID: loc.Msg.Entry.ID})); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	user, err := c.catalog.CreateUser(ctx, connect.NewRequest(&api.CreateUserRequest{Name: "Ivan", Email: "ivan@example.com"}))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	updated, err := c.catalog.UpdateUser(ctx, connect.NewRequest(&api.UpdateUserRequest{
		ID:   user.Msg.User.ID,
		Name: "Ivan P",
	}))
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Msg.User.Name != "Ivan P" {
		t.Errorf("Expected name 'Ivan P', got %q", updated.Msg.User.Name)
	}

	users, err := c.catalog.ListUsers(ctx, connect.NewRequest(&api.ListUsersRequest{}))
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users.Msg.Users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(users.Msg.Users))
	}

	if _, err := c.catalog.DeleteUser(ctx, connect.NewRequest(&api.DeleteUserRequest{ID: user.Msg.User.ID})); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	_, err = c.catalog.GetUser(ctx, connect.NewRequest(&api.GetUserRequest{ID: user.Msg.User.ID}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestImportExportAndSummary(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	csv := csvHeader +
		"A-1,Laptop,London,101,IT,2020-01-01,1000,,Alice,,true\n" +
		"A-2,Laptop,,,,not-a-date,300,,,,\n" +
		"A-3,,,,,,-1,,,,\n"

	imported, err := c.transfer.ImportAssets(ctx, connect.NewRequest(&api.ImportAssetsRequest{CSV: csv}))
	if err != nil {
		t.Fatalf("ImportAssets failed: %v", err)
	}
	if imported.Msg.Created != 2 || imported.Msg.Errors != 1 {
		t.Errorf("Expected 2 created and 1 error, got %d and %d", imported.Msg.Created, imported.Msg.Errors)
	}
	if len(imported.Msg.Failed) != 1 || imported.Msg.Failed[0].AssetNumber != "A-3" {
		t.Errorf("Expected A-3 to fail, got %+v", imported.Msg.Failed)
	}
	if len(imported.Msg.Warnings) != 1 || imported.Msg.Warnings[0].Line != 3 {
		t.Errorf("Expected one warning on line 3, got %+v", imported.Msg.Warnings)
	}

	again, err := c.transfer.ImportAssets(ctx, connect.NewRequest(&api.ImportAssetsRequest{CSV: csv}))
	if err != nil {
		t.Fatalf("second ImportAssets failed: %v", err)
	}
	if again.Msg.Created != 0 || again.Msg.Updated != 2 {
		t.Errorf("Expected 0 created and 2 updated on re-import, got %d and %d", again.Msg.Created, again.Msg.Updated)
	}

	exported, err := c.transfer.ExportAssets(ctx, connect.NewRequest(&api.ExportAssetsRequest{}))
	if err != nil {
		t.Fatalf("ExportAssets failed: %v", err)
	}
	if exported.Msg.Count != 2 {
		t.Errorf("Expected 2 exported assets, got %d", exported.Msg.Count)
	}
	lines := strings.Split(strings.TrimSpace(exported.Msg.CSV), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d lines", len(lines))
	}
	if want := strings.Join(importer.ExportHeader, ","); lines[0] != want {
		t.Errorf("Expected header %q, got %q", want, lines[0])
	}
	if !strings.HasPrefix(lines[1], "A-1,London,IT,101,2020-01-01,1000.00,599.73,Alice,true,true") {
		t.Errorf("Unexpected first row %q", lines[1])
	}

	summary, err := c.assets.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{}))
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	s := summary.Msg.Summary
	if s.Assets != 2 || s.AllocatedAssets != 1 {
		t.Errorf("Expected 2 assets with 1 allocated, got %d and %d", s.Assets, s.AllocatedAssets)
	}
	if s.PurchaseTotalText != "£1,300.00" {
		t.Errorf("Expected purchase total £1,300.00, got %s", s.PurchaseTotalText)
	}

	_, err = c.transfer.ImportAssets(ctx, connect.NewRequest(&api.ImportAssetsRequest{CSV: "location\nLeeds\n"}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestImportAssetsCancelled(t *testing.T) {
	store, reg := newTestRegistry(t)
	svc := NewTransferService(importer.New(store), reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ImportAssets(ctx, connect.NewRequest(&api.ImportAssetsRequest{
		CSV: csvHeader + "A-1,Laptop,London,101,IT,2020-01-01,1000,,,,\n",
	}))
	expectCode(t, err, connect.CodeCanceled)
	if !strings.Contains(err.Error(), "stopped after 0 rows") {
		t.Errorf("Expected progress in message, got %v", err)
	}
}

func TestInterruptedImportCarriesCounts(t *testing.T) {
	report := &importer.Report{Created: 2, Updated: 1, Errors: 1}
	err := interruptedImport(report, context.DeadlineExceeded)

	if err.Code() != connect.CodeDeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err.Code())
	}
	if !strings.Contains(err.Message(), "created 2, updated 1, errors 1") {
		t.Errorf("Expected counts in message, got %q", err.Message())
	}

	details := err.Details()
	if len(details) != 1 {
		t.Fatalf("Expected 1 error detail, got %d", len(details))
	}
	msg, derr := details[0].Value()
	if derr != nil {
		t.Fatalf("failed to decode detail: %v", derr)
	}
	counts, ok := msg.(*structpb.Struct)
	if !ok {
		t.Fatalf("Expected a Struct detail, got %T", msg)
	}
	want := map[string]float64{"processed": 4, "created": 2, "updated": 1, "errors": 1}
	for key, n := range want {
		if got := counts.Fields[key].GetNumberValue(); got != n {
			t.Errorf("detail %s = %v, want %v", key, got, n)
		}
	}
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{models.ErrNotFound, connect.CodeNotFound},
		{models.Invalid("bad"), connect.CodeInvalidArgument},
		{models.ErrDuplicate, connect.CodeAlreadyExists},
		{models.ErrAlreadyAllocated, connect.CodeFailedPrecondition},
		{models.ErrNotAllocated, connect.CodeFailedPrecondition},
		{models.ErrReferentialConflict, connect.CodeFailedPrecondition},
		{context.Canceled, connect.CodeCanceled},
		{errors.New("disk full"), connect.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := toConnectError(tt.err).Code(); got != tt.want {
				t.Errorf("toConnectError(%v) code = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
