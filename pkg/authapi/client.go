// Package authapi is the HTTP client for the upstream authentication API.
// The storefront never stores credentials itself; it forwards them and
// keeps only the user record a successful login returns.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// User is the record returned by a successful login.
type User struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Profile *Profile `json:"profile,omitempty"`
}

type Profile struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Image   string `json:"image"`
	Type    string `json:"type"`
}

// APIError carries the upstream response for a rejected request.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth api returned status %d", e.StatusCode)
}

// Login posts credentials and returns the user record on success. The
// record may be nil or incomplete when the upstream response is malformed;
// callers validate it.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out struct {
		User *User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return out.User, nil
}

// RegisterForm is the multipart payload forwarded to the auth API. Image
// is required by the upstream service.
type RegisterForm struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	Address   string
	Type      string
	ImageName string
	Image     io.Reader
}

// Register forwards a registration form. It does not log the user in.
func (c *Client) Register(ctx context.Context, form RegisterForm) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"email", form.Email},
		{"password", form.Password},
		{"phone", form.Phone},
		{"address", form.Address},
		{"type", form.Type},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return err
		}
	}
	if form.Image != nil {
		part, err := w.CreateFormFile("image", form.ImageName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, form.Image); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		apiErr.Fields = payload.Errors
	}
	return apiErr
}
