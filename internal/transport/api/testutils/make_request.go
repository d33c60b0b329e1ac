package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

// MakeRequest прогоняет запрос через роутер и возвращает ответ.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Response, error) {
	options := RequestOptions{
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}

	request := httptest.NewRequest(args.Method, args.URL, args.Body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, request)

	return recorder.Result(), nil
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers[name] = value
	}
}

// MakeJSONRequest сериализует payload в JSON тело и выставляет Content-Type.
func MakeJSONRequest(args RequestArgs, payload any) (*http.Response, error) {
	body, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return nil, fmt.Errorf("marshal request payload: %s", marshalErr.Error())
	}
	args.Body = bytes.NewReader(body)
	return MakeRequest(args, WithHeader("Content-Type", "application/json"))
}

// ParseJSONBody читает и декодирует тело ответа.
func ParseJSONBody(res *http.Response, dest any) error {
	defer func() { _ = res.Body.Close() }()
	raw, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return fmt.Errorf("read response body: %s", readErr.Error())
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal response body %q: %s", string(raw), err.Error())
	}
	return nil
}
