package imports

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// closeNotifyRecorder adds the CloseNotifier contract gin.Stream expects,
// which httptest.ResponseRecorder lacks.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool {
	return c.closed
}

func setupUploadRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupImportTest(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api"))
	return r
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	assert.NoError(t, err)
	part.Write([]byte(content))
	writer.Close()
	return body, writer.FormDataContentType()
}

// parseEvents decodes the JSON payload of every SSE data line
func parseEvents(t *testing.T, body string) []Event {
	t.Helper()

	var events []Event
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var event Event
		assert.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &event))
		events = append(events, event)
	}
	return events
}

func TestUploadCSV_RejectsNonCSVWithoutStreaming(t *testing.T) {
	r := setupUploadRouter(t)

	body, contentType := multipartUpload(t, "products.txt", "sku,name\nab-1,Widget\n")
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be a CSV")
	assert.NotContains(t, w.Body.String(), "data:", "No events before the synchronous rejection")
}

func TestUploadCSV_RequiresFile(t *testing.T) {
	r := setupUploadRouter(t)

	req := httptest.NewRequest("POST", "/api/upload", nil)
	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadCSV_RejectsOversizeUpload(t *testing.T) {
	r := setupUploadRouter(t)

	orig := MaxUploadSize
	MaxUploadSize = 64
	t.Cleanup(func() { MaxUploadSize = orig })

	content := "sku,name\n" + strings.Repeat("ab-1,Widget\n", 10)
	body, contentType := multipartUpload(t, "products.csv", content)
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "upload limit")
	assert.NotContains(t, w.Body.String(), "data:", "No events before the synchronous rejection")
}

func TestUploadCSV_StreamsOrderedEventsEndingComplete(t *testing.T) {
	r := setupUploadRouter(t)

	csvData := "sku,name,description\n" +
		"ABC-1,Widget,A widget\n" +
		"abc-1,Widget v2,Updated\n" +
		",NoSku,Missing\n"
	body, contentType := multipartUpload(t, "products.csv", csvData)
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))

	events := parseEvents(t, w.Body.String())
	assert.NotEmpty(t, events)
	assert.Equal(t, StatusParsing, events[0].Status)

	last := -1.0
	for _, event := range events {
		assert.GreaterOrEqual(t, event.Progress, last)
		last = event.Progress
	}

	done := events[len(events)-1]
	assert.Equal(t, StatusComplete, done.Status)
	assert.EqualValues(t, 100, done.Progress)
	assert.Equal(t, 3, done.Processed)
	assert.Equal(t, 1, done.Errors)
}

func TestUploadCSV_InvalidUTF8StreamsTerminalError(t *testing.T) {
	r := setupUploadRouter(t)

	body, contentType := multipartUpload(t, "products.csv", "sku,name\n\xff\xfe")
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, req)

	events := parseEvents(t, w.Body.String())
	assert.NotEmpty(t, events)
	done := events[len(events)-1]
	assert.Equal(t, StatusError, done.Status)
}
