// Package ttlock — клиент HTTP API производителя замка (TTLock).
// Наружу торчат три операции: токен (кэшируется), выдача кода
// на интервал и best-effort отзыв кода.
package ttlock

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"cartlock/internal/logs"
)

// ErrAuth — производитель не принял учётные данные (или сеть легла
// на этапе логина). Для текущей заявки это фатально, повторов нет.
var ErrAuth = errors.New("ttlock: authentication failed")

// APIError — ненулевой errcode в конверте ответа производителя.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ttlock: errcode=%d %s", e.Code, e.Msg)
}

// Кэшированный токен обновляем за минуту до истечения.
const tokenSafetyMargin = 60 * time.Second

// keyboardPwdType=3 — временный код, действующий в заданном окне.
const pwdTypePeriod = "3"

type Config struct {
	APIBase      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	LockID       string
}

type Client struct {
	cfg Config
	hc  *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: 15 * time.Second},
	}
}

// getToken возвращает кэшированный access token, при необходимости
// перелогиниваясь. Токен общий на процесс, поэтому под мьютексом —
// иначе параллельные заявки устроят лавину логинов.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	// пароль аккаунта производитель требует в виде md5-хэша
	sum := md5.Sum([]byte(c.cfg.Password))
	form := url.Values{
		"clientId":     {c.cfg.ClientID},
		"clientSecret": {c.cfg.ClientSecret},
		"username":     {c.cfg.Username},
		"password":     {hex.EncodeToString(sum[:])},
		"grant_type":   {"password"},
	}

	body, err := c.postForm(ctx, "/oauth2/token", form)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
		ErrCode     int    `json:"errcode"`
		ErrMsg      string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: bad token response: %v", ErrAuth, err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: errcode=%d %s", ErrAuth, resp.ErrCode, resp.ErrMsg)
	}

	c.token = resp.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(resp.ExpiresIn)*time.Second - tokenSafetyMargin)
	return c.token, nil
}

// CreatePasscode просит у производителя случайный цифровой код,
// действующий только в [start, end]. raw — тело ответа как есть.
func (c *Client) CreatePasscode(ctx context.Context, name string, start, end time.Time) (pin, keyboardPwdID string, raw []byte, err error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return "", "", nil, err
	}

	form := url.Values{
		"clientId":           {c.cfg.ClientID},
		"accessToken":        {token},
		"lockId":             {c.cfg.LockID},
		"keyboardPwdType":    {pwdTypePeriod},
		"keyboardPwdVersion": {"4"},
		"keyboardPwdName":    {name},
		"startDate":          {strconv.FormatInt(start.UnixMilli(), 10)},
		"endDate":            {strconv.FormatInt(end.UnixMilli(), 10)},
		"date":               {strconv.FormatInt(time.Now().UnixMilli(), 10)},
	}

	body, err := c.postForm(ctx, "/v3/keyboardPwd/get", form)
	if err != nil {
		return "", "", nil, fmt.Errorf("ttlock: keyboardPwd/get: %w", err)
	}

	var resp struct {
		KeyboardPwdID int64  `json:"keyboardPwdId"`
		KeyboardPwd   string `json:"keyboardPwd"`
		ErrCode       int    `json:"errcode"`
		ErrMsg        string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", nil, fmt.Errorf("ttlock: bad keyboardPwd response: %w", err)
	}
	if resp.ErrCode != 0 || resp.KeyboardPwd == "" {
		return "", "", nil, &APIError{Code: resp.ErrCode, Msg: resp.ErrMsg}
	}
	return resp.KeyboardPwd, strconv.FormatInt(resp.KeyboardPwdID, 10), body, nil
}

// DeletePasscode — best-effort: код мог уже истечь или быть снят
// вручную, поэтому любую ошибку только логируем. Админская операция,
// из которой нас позвали, не должна от этого падать.
func (c *Client) DeletePasscode(ctx context.Context, keyboardPwdID string) {
	token, err := c.getToken(ctx)
	if err != nil {
		logs.Logger.Warnf("ttlock: delete passcode %s: %v", keyboardPwdID, err)
		return
	}

	form := url.Values{
		"clientId":      {c.cfg.ClientID},
		"accessToken":   {token},
		"lockId":        {c.cfg.LockID},
		"keyboardPwdId": {keyboardPwdID},
		"deleteType":    {"2"}, // через шлюз, без телефона рядом с замком
		"date":          {strconv.FormatInt(time.Now().UnixMilli(), 10)},
	}

	body, err := c.postForm(ctx, "/v3/keyboardPwd/delete", form)
	if err != nil {
		logs.Logger.Warnf("ttlock: delete passcode %s: %v", keyboardPwdID, err)
		return
	}
	var resp struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.ErrCode != 0 {
		logs.Logger.Warnf("ttlock: delete passcode %s: errcode=%d %s", keyboardPwdID, resp.ErrCode, resp.ErrMsg)
	}
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.APIBase, "/")+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
