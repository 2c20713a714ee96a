package fixtures

import (
	"io/fs"
	"net/http"
	"strings"
)

// prefixFS serves a local export directory as if it were mounted under
// the site path prefix.
type prefixFS struct {
	root   http.FileSystem
	prefix string
}

func (p prefixFS) Open(name string) (http.File, error) {
	if p.prefix == "" {
		return p.root.Open(name)
	}
	rest, ok := strings.CutPrefix(name, p.prefix)
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return nil, fs.ErrNotExist
	}
	if rest == "" {
		rest = "/"
	}
	return p.root.Open(rest)
}

func fileTransport(dir, prefix string) http.RoundTripper {
	return http.NewFileTransport(prefixFS{root: http.Dir(dir), prefix: prefix})
}
