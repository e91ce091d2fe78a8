package appapi

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/md2docx/internal/constant"
	"github.com/yockii/md2docx/internal/model"
	"github.com/yockii/md2docx/internal/service"
	"github.com/yockii/md2docx/pkg/docgen"
)

// stubService 固定返回结果的转换服务
type stubService struct {
	service.ConversionService
	records   []*model.Conversion
	lastQuery *model.Conversion
	lastLimit int
}

func (s *stubService) Get(_ context.Context, id uint64) (*model.Conversion, error) {
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, constant.ErrRecordNotFound
}

func (s *stubService) List(_ context.Context, condition *model.Conversion, offset, limit int) ([]*model.Conversion, int64, error) {
	s.lastQuery, s.lastLimit = condition, limit
	return s.records, int64(len(s.records)), nil
}

func newApp(handlers ...Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	group := app.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(group)
	}
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*httptestResponse, []byte) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return &httptestResponse{Status: resp.StatusCode, Header: resp.Header.Get}, data
}

type httptestResponse struct {
	Status int
	Header func(string) string
}

func TestConvertReturnsDocx(t *testing.T) {
	app := newApp(NewDocumentHandler(service.NewConversionService(nil, nil)))

	resp, data := postJSON(t, app, "/api/v1/document/convert", map[string]string{
		"markdown":     "# Quarterly\n\n| a | b |\n|---|---|\n| 1 | 2 |",
		"title":        "Quarterly Report",
		"organisation": "Acme",
		"accent_color": "#336699",
		"file_name":    "../q3 report.md",
	})

	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, docgen.DocxMediaType, resp.Header(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="q3_report.docx"`, resp.Header(fiber.HeaderContentDisposition))
	assert.Equal(t, "MISS", resp.Header(HeaderCache))

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/document.xml")
}

func TestConvertRejectsBadInput(t *testing.T) {
	app := newApp(NewDocumentHandler(service.NewConversionService(nil, nil)))

	resp, data := postJSON(t, app, "/api/v1/document/convert", map[string]string{"markdown": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	var body service.Response
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, fiber.StatusBadRequest, body.Code)

	resp, _ = postJSON(t, app, "/api/v1/document/convert", map[string]string{"markdown": "x", "accent_color": "red"})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/document/convert", strings.NewReader("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	raw, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, raw.StatusCode)
}

func TestBlocksPreview(t *testing.T) {
	app := newApp(NewDocumentHandler(service.NewConversionService(nil, nil)))

	resp, data := postJSON(t, app, "/api/v1/document/blocks", map[string]string{
		"markdown": "## **Hi**\n\n---\n\n| a |\n|---|\n| `b` |",
	})
	require.Equal(t, fiber.StatusOK, resp.Status)

	var body struct {
		Code int `json:"code"`
		Data []struct {
			Kind  string               `json:"kind"`
			Text  string               `json:"text"`
			Runs  []docgen.TextRun     `json:"runs"`
			Cells [][][]docgen.TextRun `json:"cells"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	require.Len(t, body.Data, 3)

	assert.Equal(t, "heading2", body.Data[0].Kind)
	require.Len(t, body.Data[0].Runs, 1)
	assert.True(t, body.Data[0].Runs[0].Bold)

	assert.Equal(t, "hr", body.Data[1].Kind)
	assert.Empty(t, body.Data[1].Runs)

	assert.Equal(t, "table", body.Data[2].Kind)
	require.Len(t, body.Data[2].Cells, 2)
	assert.True(t, body.Data[2].Cells[1][0][0].Code)
}

func TestConversionListAndGet(t *testing.T) {
	stub := &stubService{records: []*model.Conversion{
		{BaseModel: model.BaseModel{ID: 42}, Organisation: "Acme", Title: "T"},
	}}
	app := newApp(NewConversionHandler(stub))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/conversion/list?organisation=Acme&limit=500", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme", stub.lastQuery.Organisation)
	assert.Equal(t, service.MaxPageSize, stub.lastLimit)

	var list struct {
		Data struct {
			Total int64 `json:"total"`
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, int64(1), list.Data.Total)
	require.Len(t, list.Data.Items, 1)
	assert.Equal(t, "42", list.Data.Items[0].ID)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/conversion/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/conversion/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/conversion/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
