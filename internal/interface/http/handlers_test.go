package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
)

func init() { gin.SetMode(gin.TestMode) }

func formContext(t *testing.T, form url.Values) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b,"))
	assert.Nil(t, splitList(""))
}

func TestFormListAndKeepList(t *testing.T) {
	c := formContext(t, url.Values{"jobTypes": {"Plumbing, Tiling"}})
	assert.Equal(t, []string{"Plumbing", "Tiling"}, formList(c, "jobTypes"))

	c = formContext(t, url.Values{"jobTypes": {"Plumbing", " ", "Tiling"}})
	assert.Equal(t, []string{"Plumbing", "Tiling"}, formList(c, "jobTypes"))

	c = formContext(t, url.Values{"name": {"x"}})
	assert.Nil(t, keepList(c, "existingImages"), "absent field keeps everything")

	c = formContext(t, url.Values{"existingImages": {""}})
	kept := keepList(c, "existingImages")
	assert.NotNil(t, kept)
	assert.Empty(t, kept, "empty field drops every image")

	c = formContext(t, url.Values{"existingImages": {"u1,u2", "u3"}})
	assert.Equal(t, []string{"u1", "u2", "u3"}, keepList(c, "existingImages"))
}

func TestAddressOptional(t *testing.T) {
	var r *addressRequest
	assert.Nil(t, r.optional())

	r = &addressRequest{Street: " 1 Main ", City: "Pune", Pincode: "411001"}
	a := r.optional()
	require.NotNil(t, a)
	assert.Equal(t, "1 Main", a.Street)
}

func failWith(t *testing.T, err error) (int, map[string]json.RawMessage) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	logger, _ := test.NewNullLogger()
	fail(c, logger, err)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestFailMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{application.ErrInvalidCredentials, http.StatusUnauthorized},
		{application.ErrAccountBlocked, http.StatusForbidden},
		{fmt.Errorf("add: %w", entity.ErrInsufficientStock), http.StatusBadRequest},
		{entity.ErrInvalidTransition, http.StatusBadRequest},
		{application.ErrResendThrottled, http.StatusTooManyRequests},
		{entity.ErrProductNotFound, http.StatusNotFound},
		{application.ErrOrderNotFound, http.StatusNotFound},
		{gateway.ErrPaymentsDisabled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, _ := failWith(t, tc.err)
		assert.Equal(t, tc.status, code, tc.err.Error())
	}

	code, body := failWith(t, application.ErrInvalidOTP)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `"Invalid OTP"`, string(body["message"]))

	code, body = failWith(t, &application.NotApprovedError{Status: entity.ApprovalPending})
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"approvalStatus":"pending"}`, string(body["error"]))

	_, body = failWith(t, errors.New("pq: connection refused"))
	assert.JSONEq(t, `"internal error"`, string(body["message"]), "internals are not leaked")
}

func uploadContext(t *testing.T, field string, files map[string][]byte) *gin.Context {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.Request = req
	return c
}

var png = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func TestUploadLimits(t *testing.T) {
	limits := UploadLimits{MaxBytes: 1024}

	c := uploadContext(t, "images", map[string][]byte{"a.png": png})
	ups, done, err := limits.files(c, "images", 2)
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "image/png", ups[0].ContentType)
	body, err := io.ReadAll(ups[0].Body)
	require.NoError(t, err)
	assert.Equal(t, png, body, "sniffed bytes are replayed")
	done()

	c = uploadContext(t, "images", map[string][]byte{"doc.pdf": []byte("%PDF-1.4\n...")})
	ups, done, err = limits.files(c, "images", 1)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ups[0].ContentType)
	done()

	c = uploadContext(t, "images", map[string][]byte{"a.txt": []byte("just text")})
	_, _, err = limits.files(c, "images", 1)
	assert.ErrorIs(t, err, errInvalidUpload)

	c = uploadContext(t, "images", map[string][]byte{"big.png": append(png, make([]byte, 2048)...)})
	_, _, err = limits.files(c, "images", 1)
	assert.ErrorIs(t, err, errInvalidUpload)

	c = uploadContext(t, "images", map[string][]byte{"a.png": png, "b.png": png})
	_, _, err = limits.files(c, "images", 1)
	assert.ErrorIs(t, err, errInvalidUpload)

	c = uploadContext(t, "other", map[string][]byte{"a.png": png})
	ups, _, err = limits.files(c, "images", 1)
	require.NoError(t, err)
	assert.Empty(t, ups, "missing field is not an error")
}
