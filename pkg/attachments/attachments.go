// Package attachments resolves URLs for binary assets owned by catalog
// entities, such as album covers and artist logos.
//
// Files live on disk as <dir>/<kind>/<id>/<name>.<ext> and are served under
// a URL prefix with the same relative path.
package attachments

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rubiojr/catalog/pkg/core"
)

// DefaultPrefix is the URL path attachments are served under.
const DefaultPrefix = "/attachments"

// Resolver maps an entity's named attachment to a URL.
type Resolver interface {
	// URL returns the attachment URL and true, or "" and false when the
	// entity has no such attachment.
	URL(owner core.Attachable, name string) (string, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(owner core.Attachable, name string) (string, bool)

func (f ResolverFunc) URL(owner core.Attachable, name string) (string, bool) {
	return f(owner, name)
}

// None resolves nothing.
var None Resolver = ResolverFunc(func(core.Attachable, string) (string, bool) { return "", false })

var namePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ErrInvalidName is returned for attachment names or extensions that are
// not plain lower-case identifiers.
var ErrInvalidName = errors.New("invalid attachment name")

// DirResolver resolves attachments stored under a directory.
type DirResolver struct {
	Dir    string
	Prefix string
}

// NewDirResolver returns a resolver serving dir under DefaultPrefix.
func NewDirResolver(dir string) *DirResolver {
	return &DirResolver{Dir: dir, Prefix: DefaultPrefix}
}

func (r *DirResolver) ownerDir(owner core.Attachable) (string, string) {
	kind, id := owner.AttachmentOwner()
	rel := path.Join(kind, strconv.FormatInt(id, 10))
	return filepath.Join(r.Dir, filepath.FromSlash(rel)), rel
}

// URL returns the URL of the first file (in name order) matching name.*.
func (r *DirResolver) URL(owner core.Attachable, name string) (string, bool) {
	if owner == nil || !namePattern.MatchString(name) {
		return "", false
	}
	dir, rel := r.ownerDir(owner)
	matches, err := filepath.Glob(filepath.Join(dir, name+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return strings.TrimSuffix(r.Prefix, "/") + "/" + path.Join(rel, filepath.Base(matches[0])), true
}

// Save stores src as owner's attachment name with extension ext, replacing
// any previous file for that name.
func (r *DirResolver) Save(owner core.Attachable, name, ext string, src io.Reader) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if !namePattern.MatchString(name) || !namePattern.MatchString(ext) {
		return "", ErrInvalidName
	}

	dir, _ := r.ownerDir(owner)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating attachment directory: %w", err)
	}

	old, _ := filepath.Glob(filepath.Join(dir, name+".*"))
	for _, f := range old {
		if err := os.Remove(f); err != nil {
			return "", fmt.Errorf("removing previous attachment: %w", err)
		}
	}

	target := filepath.Join(dir, name+"."+ext)
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("creating attachment: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing attachment: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing attachment: %w", err)
	}

	url, _ := r.URL(owner, name)
	return url, nil
}

// Handler serves the attachment directory under the resolver's prefix.
// Directory listings are disabled.
func (r *DirResolver) Handler() http.Handler {
	fs := http.FileServer(noListing{http.Dir(r.Dir)})
	return http.StripPrefix(strings.TrimSuffix(r.Prefix, "/"), fs)
}

type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
