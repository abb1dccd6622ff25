package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fjacquet/txncat/internal/categorizer"
	"fjacquet/txncat/internal/config"
	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"
	"fjacquet/txncat/internal/parsererror"
	"fjacquet/txncat/internal/pdfparser"
	"fjacquet/txncat/internal/pipeline"
	"fjacquet/txncat/internal/segmenter"
	"fjacquet/txncat/internal/txparser"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementText = `Transaction Statement for 98XXXXXX10
Jan 05, 2024 Paid to Swiggy Foods DEBIT ₹450.00
10:15 am Transaction ID T240105101500
UTR No. 412345678901
Jan 06, 2024 Received from Ramesh Kumar CREDIT ₹12,345.50
11:00 am Transaction ID T240106110000`

func testConfig() *config.Config {
	return &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Server: config.ServerConfig{Address: ":0", BodyLimitMB: 1},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"*"},
			AllowHeaders: []string{"*"},
		},
	}
}

func newTestApp(t *testing.T, extractor pdfparser.PageExtractor) (*fiber.App, *logging.MockLogger) {
	t.Helper()
	mock := logging.NewMockLogger()
	rs, err := categorizer.DefaultRuleSet()
	require.NoError(t, err)
	p := pipeline.New(txparser.NewParser(rs, mock), segmenter.New(mock), pipeline.DefaultOptions(), mock)
	return NewApp(testConfig(), pdfparser.NewProcessor(extractor, p, mock), mock), mock
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t, pdfparser.NewMockExtractor(nil, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, map[string]string{"status": "ok"}, body)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestUpload(t *testing.T) {
	extractor := pdfparser.NewMockExtractor([]string{statementText}, nil)
	app, mock := newTestApp(t, extractor)

	resp, err := app.Test(uploadRequest(t, FormField, "statement.pdf", []byte("%PDF-1.4\n...")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Transactions []map[string]interface{} `json:"transactions"`
		Count        int                      `json:"count"`
	}
	decode(t, resp, &body)

	require.Equal(t, 2, body.Count)
	require.Len(t, body.Transactions, 2)

	first := body.Transactions[0]
	keys := make([]string, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"date", "time", "datetime", "description", "type", "amount", "category", "UTR_No"}, keys)
	assert.Equal(t, "2024-01-05", first["date"])
	assert.Equal(t, "2024-01-05T10:15:00", first["datetime"])
	assert.Equal(t, "Swiggy Foods", first["description"])
	assert.Equal(t, "DEBIT", first["type"])
	assert.Equal(t, 450.0, first["amount"])
	assert.Equal(t, models.CategoryFood, first["category"])
	assert.Equal(t, "412345678901", first["UTR_No"])

	second := body.Transactions[1]
	assert.Equal(t, models.CategoryIncome, second["category"])
	assert.Nil(t, second["UTR_No"])

	assert.Equal(t, 1, extractor.Calls())
	entries := mock.GetEntriesByLevel("INFO")
	var logged bool
	for _, e := range entries {
		if e.Message == "Handled request" {
			id, ok := e.FieldValue(logging.FieldRequestID)
			logged = ok && id != ""
		}
	}
	assert.True(t, logged)
}

func TestUpload_EmptyStatement(t *testing.T) {
	app, _ := newTestApp(t, pdfparser.NewMockExtractor([]string{"", ""}, nil))

	resp, err := app.Test(uploadRequest(t, FormField, "scan.pdf", []byte("%PDF-1.7")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"transactions": [], "count": 0}`, string(data))
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name       string
		extractor  pdfparser.PageExtractor
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantDetail string
	}{
		{
			name:      "not a pdf",
			extractor: pdfparser.NewMockExtractor([]string{statementText}, nil),
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, FormField, "notes.txt", []byte("just some text"))
			},
			wantStatus: fiber.StatusBadRequest,
			wantDetail: "file is not a valid PDF",
		},
		{
			name: "unreadable pdf",
			extractor: pdfparser.NewMockExtractor(nil, &parsererror.ExtractionError{
				Extractor: "mock",
				Err:       errors.New("malformed xref table"),
			}),
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, FormField, "broken.pdf", []byte("%PDF-1.4 garbage"))
			},
			wantStatus: fiber.StatusBadRequest,
			wantDetail: "could not read PDF: malformed xref table",
		},
		{
			name:      "wrong field",
			extractor: pdfparser.NewMockExtractor(nil, nil),
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "document", "statement.pdf", []byte("%PDF-1.4"))
			},
			wantStatus: fiber.StatusBadRequest,
			wantDetail: `missing form field "file"`,
		},
		{
			name:      "not multipart",
			extractor: pdfparser.NewMockExtractor(nil, nil),
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"file": "x"}`))
				req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return req
			},
			wantStatus: fiber.StatusBadRequest,
			wantDetail: `missing form field "file"`,
		},
		{
			name:      "too large",
			extractor: pdfparser.NewMockExtractor(nil, nil),
			req: func(t *testing.T) *http.Request {
				content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 1024*1024)...)
				return uploadRequest(t, FormField, "big.pdf", content)
			},
			wantStatus: fiber.StatusRequestEntityTooLarge,
			wantDetail: "file exceeds the 1048576 byte limit",
		},
		{
			name:      "unexpected failure",
			extractor: pdfparser.NewMockExtractor(nil, errors.New("disk on fire")),
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, FormField, "statement.pdf", []byte("%PDF-1.4"))
			},
			wantStatus: fiber.StatusInternalServerError,
			wantDetail: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t, tt.extractor)

			resp, err := app.Test(tt.req(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]string
			decode(t, resp, &body)
			assert.Equal(t, tt.wantDetail, body["detail"])
		})
	}
}

type panickingProcessor struct{}

func (panickingProcessor) ProcessReader(string, io.Reader) (models.Result, error) {
	panic("unexpected nil page")
}

func TestUpload_PanicIsRecovered(t *testing.T) {
	mock := logging.NewMockLogger()
	app := NewApp(testConfig(), panickingProcessor{}, mock)

	resp, err := app.Test(uploadRequest(t, FormField, "statement.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "internal server error", body["detail"])
	assert.True(t, mock.HasEntry("ERROR", "Request failed"))
}

func TestCORS(t *testing.T) {
	app, _ := newTestApp(t, pdfparser.NewMockExtractor(nil, nil))

	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://frontend.example")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowMethods))
}

func TestCORS_DefaultConfigIsFullyOpen(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	cfg, err := config.Load("")
	require.NoError(t, err)
	app := NewApp(cfg, panickingProcessor{}, logging.NewMockLogger())

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
			req.Header.Set(fiber.HeaderOrigin, "https://anywhere.example")
			req.Header.Set(fiber.HeaderAccessControlRequestMethod, method)
			req.Header.Set(fiber.HeaderAccessControlRequestHeaders, "X-Custom-Header")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
			assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowMethods))
			assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowHeaders))
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t, pdfparser.NewMockExtractor(nil, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.NotEmpty(t, body["detail"])
}
