package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Client-facing messages.
const (
	msgInvalidRequest  = "invalid request"
	msgInternal        = "Internal Server Error"
	msgDuplicateEmail  = "Email is already in use"
	msgInvalidEmail    = "Invalid Email"
	msgInvalidPassword = "Invalid Password"
	msgUserNotFound    = "User not found"
	msgUserCreated     = "User Created"
	msgCheckoutCreated = "Checkout Successful"
)

var errEmptyBody = errors.New("empty body")

// MessageResponse is returned by endpoints that only confirm success.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// decodeBody decodes a JSON body into dst. An absent or empty body yields
// errEmptyBody so GET handlers can fall back to query parameters.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// UserID accepts both a JSON number and a numeric string, since browser
// clients commonly send ids read from storage as strings.
type UserID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *UserID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*id = UserID(n)
	return nil
}
