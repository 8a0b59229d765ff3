package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/assettrack/internal/importer"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/registry"
	"github.com/mmynk/assettrack/pkg/api"
)

// TransferService implements the Connect TransferService: CSV import and export.
type TransferService struct {
	importer *importer.Importer
	registry *registry.Registry
}

// NewTransferService creates a new TransferService.
func NewTransferService(im *importer.Importer, reg *registry.Registry) *TransferService {
	return &TransferService{importer: im, registry: reg}
}

// ImportAssets reconciles the registry against a CSV document. Row failures
// are reported in the response, not as an RPC error.
func (s *TransferService) ImportAssets(ctx context.Context, req *connect.Request[api.ImportAssetsRequest]) (*connect.Response[api.ImportAssetsResponse], error) {
	rows, err := importer.ParseCSV(strings.NewReader(req.Msg.CSV))
	if err != nil {
		slog.Error("ImportAssets failed to parse CSV", "error", err)
		return nil, toConnectError(models.Invalid("%v", err))
	}

	importDate := s.registry.Today()
	if req.Msg.ImportDate != nil {
		importDate = *req.Msg.ImportDate
	}
	slog.Info("ImportAssets request received", "rows", len(rows), "import_date", importDate)

	report, err := s.importer.ImportBatch(ctx, rows, importDate)
	if err != nil {
		slog.Error("ImportAssets interrupted", "created", report.Created, "updated", report.Updated, "error", err)
		return nil, interruptedImport(report, err)
	}
	return connect.NewResponse(&api.ImportAssetsResponse{
		Created:  report.Created,
		Updated:  report.Updated,
		Errors:   report.Errors,
		Failed:   issues(report.Failed),
		Warnings: issues(report.Warnings),
	}), nil
}

// interruptedImport reports how far an import got before ctx ended. The rows
// it counts are committed. The counts travel in the message and as a
// google.protobuf.Struct error detail.
func interruptedImport(report *importer.Report, cause error) *connect.Error {
	processed := report.Created + report.Updated + report.Errors
	err := toConnectError(fmt.Errorf("import stopped after %d rows (created %d, updated %d, errors %d): %w",
		processed, report.Created, report.Updated, report.Errors, cause))

	counts, serr := structpb.NewStruct(map[string]any{
		"processed": processed,
		"created":   report.Created,
		"updated":   report.Updated,
		"errors":    report.Errors,
	})
	if serr != nil {
		return err
	}
	if detail, derr := connect.NewErrorDetail(counts); derr == nil {
		err.AddDetail(detail)
	}
	return err
}

func issues(rowErrs []*importer.RowError) []api.RowIssue {
	out := make([]api.RowIssue, len(rowErrs))
	for i, e := range rowErrs {
		out[i] = api.RowIssue{Line: e.Line, AssetNumber: e.AssetNumber, Message: e.Err.Error()}
	}
	return out
}

// ExportAssets renders matching assets as CSV.
func (s *TransferService) ExportAssets(ctx context.Context, req *connect.Request[api.ExportAssetsRequest]) (*connect.Response[api.ExportAssetsResponse], error) {
	var buf bytes.Buffer
	n, err := s.importer.Export(ctx, &buf, req.Msg.Filter)
	if err != nil {
		slog.Error("ExportAssets failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ExportAssetsResponse{CSV: buf.String(), Count: n}), nil
}

var _ api.TransferServiceHandler = (*TransferService)(nil)
