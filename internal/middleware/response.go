package middleware

import (
    "bytes"
    "encoding/json"
    "net/http"

    "github.com/labstack/echo/v4"
)

// recorder tees a handler's response to the client and keeps a copy for
// the response cache and the idempotency store.  With a positive limit a
// body larger than limit is dropped and marked truncated.
type recorder struct {
    http.ResponseWriter
    status    int
    body      bytes.Buffer
    limit     int
    truncated bool
}

func record(c echo.Context, limit int) *recorder {
    r := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: limit}
    c.Response().Writer = r
    return r
}

func (r *recorder) detach(c echo.Context) { c.Response().Writer = r.ResponseWriter }

func (r *recorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
    if !r.truncated {
        if r.limit > 0 && r.body.Len()+len(b) > r.limit {
            r.truncated = true
            r.body.Reset()
        } else {
            r.body.Write(b)
        }
    }
    return r.ResponseWriter.Write(b)
}

// storedResponse is what lands in redis, JSON encoded.
type storedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header,omitempty"`
    Body   []byte      `json:"body,omitempty"`
}

func (r *recorder) encode(h http.Header) ([]byte, error) {
    s := storedResponse{Status: r.status, Header: h.Clone(), Body: r.body.Bytes()}
    s.Header.Del(echo.HeaderContentLength)
    return json.Marshal(s)
}

func decodeResponse(bs []byte) (storedResponse, bool) {
    var s storedResponse
    if err := json.Unmarshal(bs, &s); err != nil || s.Status == 0 {
        return storedResponse{}, false
    }
    return s, true
}

func (s storedResponse) replay(c echo.Context) error {
    h := c.Response().Header()
    for k, vals := range s.Header {
        for _, v := range vals {
            h.Add(k, v)
        }
    }
    c.Response().WriteHeader(s.Status)
    _, err := c.Response().Write(s.Body)
    return err
}
