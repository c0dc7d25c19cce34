package ttlock

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"cartlock/internal/logs"
)

func TestMain(m *testing.M) {
	logs.Init(logs.Options{Level: "error"})
	os.Exit(m.Run())
}

type vendorStub struct {
	tokenCalls  int
	createCalls int
	deleteCalls int

	wantPasswordMD5 string
	createErrCode   int
}

func (v *vendorStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		v.tokenCalls++
		_ = r.ParseForm()
		if v.wantPasswordMD5 != "" && r.FormValue("password") != v.wantPasswordMD5 {
			fmt.Fprint(w, `{"errcode":10001,"errmsg":"invalid credentials"}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"tok-1","expires_in":7200}`)
	})
	mux.HandleFunc("/v3/keyboardPwd/get", func(w http.ResponseWriter, r *http.Request) {
		v.createCalls++
		_ = r.ParseForm()
		if r.FormValue("accessToken") != "tok-1" {
			fmt.Fprint(w, `{"errcode":10003,"errmsg":"invalid token"}`)
			return
		}
		if v.createErrCode != 0 {
			fmt.Fprintf(w, `{"errcode":%d,"errmsg":"lock offline"}`, v.createErrCode)
			return
		}
		fmt.Fprint(w, `{"keyboardPwdId":1021,"keyboardPwd":"582910"}`)
	})
	mux.HandleFunc("/v3/keyboardPwd/delete", func(w http.ResponseWriter, r *http.Request) {
		v.deleteCalls++
		fmt.Fprint(w, `{"errcode":0}`)
	})
	return mux
}

func newTestClient(t *testing.T, v *vendorStub) *Client {
	t.Helper()
	srv := httptest.NewServer(v.handler())
	t.Cleanup(srv.Close)
	return New(Config{
		APIBase:      srv.URL,
		ClientID:     "cid",
		ClientSecret: "csec",
		Username:     "owner",
		Password:     "hunter2",
		LockID:       "4242",
	})
}

func TestCreatePasscode(t *testing.T) {
	sum := md5.Sum([]byte("hunter2"))
	v := &vendorStub{wantPasswordMD5: hex.EncodeToString(sum[:])}
	c := newTestClient(t, v)

	start := time.Now()
	pin, pwdID, raw, err := c.CreatePasscode(context.Background(), "Max (CR-1)", start, start.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("create passcode: %v", err)
	}
	if pin != "582910" || pwdID != "1021" {
		t.Fatalf("unexpected result: pin=%q pwdID=%q", pin, pwdID)
	}
	if len(raw) == 0 {
		t.Fatal("expected raw vendor response")
	}
	if v.tokenCalls != 1 {
		t.Fatalf("expected one login, got %d", v.tokenCalls)
	}
}

func TestTokenIsCached(t *testing.T) {
	sum := md5.Sum([]byte("hunter2"))
	v := &vendorStub{wantPasswordMD5: hex.EncodeToString(sum[:])}
	c := newTestClient(t, v)

	ctx := context.Background()
	now := time.Now()
	for i := 0; i < 3; i++ {
		if _, _, _, err := c.CreatePasscode(ctx, "x", now, now.Add(time.Hour)); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if v.tokenCalls != 1 {
		t.Fatalf("token must be cached across calls, got %d logins", v.tokenCalls)
	}

	// истёкший токен вызывает перелогин
	c.mu.Lock()
	c.tokenExp = time.Now().Add(-time.Minute)
	c.mu.Unlock()
	if _, _, _, err := c.CreatePasscode(ctx, "x", now, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if v.tokenCalls != 2 {
		t.Fatalf("expected re-login after expiry, got %d logins", v.tokenCalls)
	}
}

func TestAuthFailure(t *testing.T) {
	v := &vendorStub{wantPasswordMD5: "never-matches"}
	c := newTestClient(t, v)

	_, _, _, err := c.CreatePasscode(context.Background(), "x", time.Now(), time.Now().Add(time.Hour))
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestCreatePasscodeVendorError(t *testing.T) {
	sum := md5.Sum([]byte("hunter2"))
	v := &vendorStub{wantPasswordMD5: hex.EncodeToString(sum[:]), createErrCode: -3003}
	c := newTestClient(t, v)

	_, _, _, err := c.CreatePasscode(context.Background(), "x", time.Now(), time.Now().Add(time.Hour))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != -3003 {
		t.Fatalf("unexpected errcode %d", apiErr.Code)
	}
}

func TestDeletePasscodeSwallowsFailures(t *testing.T) {
	// сервер вообще недоступен — DeletePasscode обязан молча отработать
	c := New(Config{APIBase: "http://127.0.0.1:1", ClientID: "cid", LockID: "1"})
	c.DeletePasscode(context.Background(), "1021")

	// и рабочий случай
	sum := md5.Sum([]byte("hunter2"))
	v := &vendorStub{wantPasswordMD5: hex.EncodeToString(sum[:])}
	c2 := newTestClient(t, v)
	c2.DeletePasscode(context.Background(), "1021")
	if v.deleteCalls != 1 {
		t.Fatalf("expected delete call, got %d", v.deleteCalls)
	}
}
