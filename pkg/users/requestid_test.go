package users

import (
	"net/http"
	"testing"

	pz "github.com/weberc2/httpeasy"
)

func TestRequestID_Generated(t *testing.T) {
	handler := RequestID(func(r pz.Request) pz.Response {
		return pz.Ok(pz.String("ok"))
	})

	rsp := handler(pz.Request{Headers: http.Header{}})

	if rsp.Headers.Get("X-Request-Id") == "" {
		t.Fatal("wanted non-empty `X-Request-Id` response header")
	}
}

func TestRequestID_Propagated(t *testing.T) {
	handler := RequestID(func(r pz.Request) pz.Response {
		return pz.Ok(pz.String("ok"))
	})

	rsp := handler(pz.Request{
		Headers: http.Header{"X-Request-Id": []string{"abc-123"}},
	})

	if found := rsp.Headers.Get("X-Request-Id"); found != "abc-123" {
		t.Fatalf(
			"X-Request-Id header: wanted `abc-123`; found `%s`",
			found,
		)
	}
}
