package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	return resp
}

func TestCreated_Message(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, "Check-in successful for Ana!", gin.H{"id": 1})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if resp := decode(t, w); resp.Message != "Check-in successful for Ana!" || resp.Code != CodeSuccess {
		t.Errorf("unexpected body %+v", resp)
	}
}

func TestInternalError_Details(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	InternalError(c, errors.New("no such table: events"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Code != CodeInternal || resp.Details != "no such table: events" {
		t.Errorf("unexpected body %+v", resp)
	}
	if len(c.Errors) != 1 {
		t.Error("cause should be attached to the context for request logging")
	}
}

func TestValidationFailed(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationFailed(c, errors.New("Key: 'Name' Error:Field validation for 'Name' failed on the 'required' tag"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	ValidationFailed(c, &http.MaxBytesError{Limit: 10})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}
