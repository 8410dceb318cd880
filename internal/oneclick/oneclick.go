// Package oneclick recognizes and parses browser one-click install URLs.
//
// A one-click URL wraps a mod archive link in the application's scheme:
//
//	divamodmanager:https://gamebanana.com/mmdl/<file_id>,<item_type>,<item_id>
package oneclick

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrMalformed reports a payload that does not follow the one-click layout.
var ErrMalformed = errors.New("malformed one-click URL")

const downloadSegment = "/mmdl/"

// Request is the typed form of one one-click payload.
type Request struct {
	Raw        string
	Scheme     string
	ArchiveURL string
	FileID     int64
	ItemType   string
	ItemID     int64
}

// Prefix is the argument prefix that marks a one-click URL.
func Prefix(scheme string) string {
	return scheme + ":"
}

// HasPrefix reports whether arg starts with the scheme prefix, ignoring case.
func HasPrefix(arg, scheme string) bool {
	prefix := Prefix(scheme)
	return len(arg) >= len(prefix) && strings.EqualFold(arg[:len(prefix)], prefix)
}

// FindArg returns the first argument carrying the scheme prefix.
func FindArg(args []string, scheme string) (string, bool) {
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if HasPrefix(arg, scheme) {
			return arg, true
		}
	}
	return "", false
}

// Parse validates raw and splits it into archive URL and identifiers.
func Parse(raw, scheme string) (Request, error) {
	raw = strings.TrimSpace(raw)
	if !HasPrefix(raw, scheme) {
		return Request{}, fmt.Errorf("%w: missing %q prefix", ErrMalformed, Prefix(scheme))
	}

	target, err := url.Parse(raw[len(Prefix(scheme)):])
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if target.Scheme != "https" && target.Scheme != "http" {
		return Request{}, fmt.Errorf("%w: unsupported transport %q", ErrMalformed, target.Scheme)
	}
	if target.Host == "" {
		return Request{}, fmt.Errorf("%w: missing host", ErrMalformed)
	}

	idx := strings.LastIndex(target.Path, downloadSegment)
	if idx < 0 {
		return Request{}, fmt.Errorf("%w: missing %q segment", ErrMalformed, downloadSegment)
	}
	fields := strings.Split(strings.TrimSuffix(target.Path[idx+len(downloadSegment):], "/"), ",")
	if len(fields) != 3 {
		return Request{}, fmt.Errorf("%w: expected <file_id>,<item_type>,<item_id>", ErrMalformed)
	}

	fileID, err := parseID(fields[0])
	if err != nil {
		return Request{}, fmt.Errorf("%w: file id: %v", ErrMalformed, err)
	}
	itemType := strings.TrimSpace(fields[1])
	if itemType == "" {
		return Request{}, fmt.Errorf("%w: empty item type", ErrMalformed)
	}
	itemID, err := parseID(fields[2])
	if err != nil {
		return Request{}, fmt.Errorf("%w: item id: %v", ErrMalformed, err)
	}

	archive := url.URL{
		Scheme: target.Scheme,
		Host:   target.Host,
		Path:   target.Path[:idx+len(downloadSegment)] + strconv.FormatInt(fileID, 10),
	}

	return Request{
		Raw:        raw,
		Scheme:     strings.ToLower(scheme),
		ArchiveURL: archive.String(),
		FileID:     fileID,
		ItemType:   itemType,
		ItemID:     itemID,
	}, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", id)
	}
	return id, nil
}
